package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
	flag "github.com/spf13/pflag"
)

// ErrUsage marks a malformed command line. Callers print Usage and exit 1.
var ErrUsage = errors.New("usage error")

// Usage is printed to stderr whenever the command line is rejected.
const Usage = `Usage: %s [-a|-d|-i] <target file> <server> <database> <user> <password>
    Purpose:
        to make a few alterations to an HTML file generated by schemaSpy.
        Where possible, we always:
          * improve the Indexes section for tables
          * add MGI branding
    Options:
        -a : remove the "Anomalies" tab from the top of the page
        -d : remove the "Donate" tab from the top of the page
        -i : note that the file has no Index information, so do not give an
                error when none is found in the database
    Required Parameters:
        target file : the HTML file to edit and replace
`

// positionalCount is the number of required positional parameters.
const positionalCount = 5

// Supported database backends
const (
	DriverPQ  = "pq"
	DriverPGX = "pgx"
)

// Config holds everything one cleanup run needs. It is built once by Parse
// and treated as read-only afterwards.
type Config struct {
	TargetPath  string
	Table       string
	Tabs        TabConfig
	SkipIndexes bool

	Database     DatabaseConfig
	IndexSQLFile string // empty means use the embedded template
	Env          string // development, production
	Metrics      MetricsConfig
}

// TabConfig selects navigation tabs to strip from the page
type TabConfig struct {
	StripAnomalies bool
	StripDonate    bool
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	Driver   string // pq or pgx
	QueryLog bool
}

// MetricsConfig holds where run metrics are published. Both may be empty.
type MetricsConfig struct {
	Textfile       string
	PushgatewayURL string
}

// DSN returns a key/value connection string understood by both lib/pq and pgx.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		quote(d.Host), quote(d.Port), quote(d.User), quote(d.Password), quote(d.DBName), quote(d.SSLMode),
	)
}

// quote escapes a connection string value so empty values and spaces survive.
func quote(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

// Parse reads the command line (without the program name) plus the
// environment. Flag parse failures, a wrong positional count and unusable
// positional values are reported wrapped in ErrUsage.
func Parse(program string, args []string, output io.Writer) (*Config, error) {
	fs := flag.NewFlagSet(program, flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {}

	var cfg Config
	fs.BoolVarP(&cfg.Tabs.StripAnomalies, "anomalies", "a", false, `remove the "Anomalies" tab`)
	fs.BoolVarP(&cfg.Tabs.StripDonate, "donate", "d", false, `remove the "Donate" tab`)
	fs.BoolVarP(&cfg.SkipIndexes, "skip-indexes", "i", false, "do not fail when no index information is found")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: invalid command-line: %v", ErrUsage, err)
	}

	pos := fs.Args()
	if len(pos) < positionalCount {
		return nil, fmt.Errorf("%w: too few parameters", ErrUsage)
	}
	if len(pos) > positionalCount {
		return nil, fmt.Errorf("%w: too many parameters", ErrUsage)
	}

	cfg.TargetPath = pos[0]
	cfg.Table = TableFromPath(pos[0])
	cfg.Database = DatabaseConfig{
		Host:     pos[1],
		DBName:   pos[2],
		User:     pos[3],
		Password: pos[4],
		Port:     getEnv("DB_PORT", "5432"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
		Driver:   getEnv("DB_DRIVER", DriverPQ),
		QueryLog: getEnvBool("DB_QUERY_LOG", false),
	}
	cfg.IndexSQLFile = getEnv("INDEX_SQL_FILE", "")
	cfg.Env = getEnv("ENV", "development")
	cfg.Metrics = MetricsConfig{
		Textfile:       getEnv("METRICS_TEXTFILE", ""),
		PushgatewayURL: getEnv("PUSHGATEWAY_URL", ""),
	}

	if err := cfg.validateParameters().ErrorOrNil(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// TableFromPath derives the table name from a schemaSpy page such as
// tables/mrk_marker.html. It is empty when path names no file.
func TableFromPath(path string) string {
	base := filepath.Base(path)
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	return strings.TrimSuffix(base, ".html")
}

// Validate reports every problem with the configuration at once.
func (c *Config) Validate() error {
	result := c.validateParameters()

	if c.Database.Driver != DriverPQ && c.Database.Driver != DriverPGX {
		result = multierror.Append(result, fmt.Errorf("DB_DRIVER must be '%s' or '%s', got: %s", DriverPQ, DriverPGX, c.Database.Driver))
	}
	if _, err := strconv.Atoi(c.Database.Port); err != nil {
		result = multierror.Append(result, fmt.Errorf("DB_PORT must be numeric, got: %s", c.Database.Port))
	}

	return result.ErrorOrNil()
}

// validateParameters checks the values taken from positional parameters.
func (c *Config) validateParameters() *multierror.Error {
	var result *multierror.Error

	if c.Table == "" {
		result = multierror.Append(result, fmt.Errorf("cannot derive table name from %q", c.TargetPath))
	}
	if c.Database.Host == "" {
		result = multierror.Append(result, errors.New("server is required"))
	}
	if c.Database.DBName == "" {
		result = multierror.Append(result, errors.New("database is required"))
	}
	if c.Database.User == "" {
		result = multierror.Append(result, errors.New("user is required"))
	}

	return result
}

// Helper functions to read environment variables with defaults
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
