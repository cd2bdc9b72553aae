package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/mgijax/schemaspy-cleanup/internal/config"
	"github.com/mgijax/schemaspy-cleanup/internal/database"
	"github.com/mgijax/schemaspy-cleanup/internal/indexes"
	"github.com/mgijax/schemaspy-cleanup/internal/logging"
)

// check-indexes prints the indexes the cleanup tool would render for a table.
func main() {
	_ = godotenv.Load()

	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

const usage = "Usage: %s [--json] <table> <server> <database> <user> <password>\n"

// run returns the process exit status so deferred cleanup always runs.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	asJSON := fs.BoolP("json", "j", false, "print JSON instead of a table")

	if err := fs.Parse(args[1:]); err != nil {
		fmt.Fprintf(stderr, usage, args[0])
		fmt.Fprintf(stderr, "ERROR: invalid command-line: %v\n", err)
		return 1
	}
	if fs.NArg() != 5 {
		fmt.Fprintf(stderr, usage, args[0])
		return 1
	}

	// Reuse the cleanup parser so both tools share DB_* settings.
	cfg, err := config.Parse(args[0], append([]string{fs.Arg(0) + ".html"}, fs.Args()[1:]...), io.Discard)
	if err != nil {
		if errors.Is(err, config.ErrUsage) {
			fmt.Fprintf(stderr, usage, args[0])
		}
		fmt.Fprintf(stderr, "ERROR: %v\n", err)
		return 1
	}

	logger, err := logging.New(cfg.Env)
	if err != nil {
		fmt.Fprintf(stderr, "ERROR: Failed to initialize logger: %v\n", err)
		return 1
	}
	defer logger.Sync()

	if err := checkIndexes(context.Background(), cfg, logger, stdout, *asJSON); err != nil {
		logger.Error("Index check failed", zap.String("table", cfg.Table), zap.Error(err))
		return 1
	}
	return 0
}

func checkIndexes(ctx context.Context, cfg *config.Config, logger *zap.Logger, w io.Writer, asJSON bool) error {
	template, err := indexes.LoadTemplate(afero.NewOsFs(), cfg.IndexSQLFile)
	if err != nil {
		return err
	}

	db, err := database.Open(ctx, cfg.Database, logger, database.WithNormalizedValues())
	if err != nil {
		return fmt.Errorf("failed to connect to %s/%s: %w", cfg.Database.Host, cfg.Database.DBName, err)
	}
	defer db.Close()

	descriptors, err := indexes.NewResolver(db, indexes.WithTemplate(template), indexes.WithLogger(logger)).Resolve(ctx, cfg.Table)
	if err != nil {
		return err
	}

	if asJSON {
		if err := writeJSON(w, descriptors); err != nil {
			return fmt.Errorf("failed to encode indexes: %w", err)
		}
		return nil
	}
	writeTable(w, cfg.Table, descriptors)
	return nil
}

type jsonIndex struct {
	Name       string   `json:"name"`
	Attributes []string `json:"attributes"`
	Columns    []string `json:"columns"`
	Directions []string `json:"directions"`
	Constraint string   `json:"constraint,omitempty"`
}

func writeJSON(w io.Writer, descriptors []indexes.Descriptor) error {
	out := make([]jsonIndex, 0, len(descriptors))
	for _, d := range descriptors {
		idx := jsonIndex{Name: d.Name, Columns: d.Columns, Constraint: d.Constraint}
		for _, a := range d.Attributes {
			idx.Attributes = append(idx.Attributes, string(a))
		}
		for _, dir := range d.Directions {
			idx.Directions = append(idx.Directions, dir.String())
		}
		out = append(out, idx)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeTable(w io.Writer, table string, descriptors []indexes.Descriptor) {
	fmt.Fprintf(w, "Indexes on %s table:\n", table)
	fmt.Fprintln(w, "-----------------------------------")
	if len(descriptors) == 0 {
		fmt.Fprintln(w, "No indexes found (table might not exist yet)")
		return
	}

	for _, d := range descriptors {
		dirs := make([]string, len(d.Directions))
		for i, dir := range d.Directions {
			dirs[i] = dir.Abbrev()
		}
		attrs := make([]string, len(d.Attributes))
		for i, a := range d.Attributes {
			attrs[i] = string(a)
		}
		fmt.Fprintf(w, "\n%s:\n  columns:    %s\n  sort:       %s\n  attributes: %s\n",
			d.Name, strings.Join(d.Columns, " + "), strings.Join(dirs, "/"), strings.Join(attrs, ", "))
	}
	fmt.Fprintf(w, "\nTotal indexes: %d\n", len(descriptors))
}
