package rewrite

import "strings"

// Tab is a navigation tab schemaSpy puts at the top of every page. A line
// is the tab only when it carries both the anchor text and the link target.
type Tab struct {
	Name   string
	Anchor string
	Target string
}

var (
	AnomaliesTab = Tab{Name: "anomalies", Anchor: ">Anomalies<", Target: "anomalies.html"}
	DonateTab    = Tab{Name: "donate", Anchor: ">Donate<", Target: "sourceforge"}
)

// Matches reports whether line is this tab's anchor.
func (t Tab) Matches(line string) bool {
	return strings.Contains(line, t.Anchor) && strings.Contains(line, t.Target)
}
