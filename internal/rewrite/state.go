package rewrite

// State tracks how far the rewriter has progressed through the page. It
// only ever moves forward.
type State int

const (
	BeforeBranding State = iota
	BeforeIndexesSection
	BeforeDataRows
	InDataRows
	AfterIndexes
)

func (s State) String() string {
	switch s {
	case BeforeBranding:
		return "before-branding"
	case BeforeIndexesSection:
		return "before-indexes-section"
	case BeforeDataRows:
		return "before-data-rows"
	case InDataRows:
		return "in-data-rows"
	case AfterIndexes:
		return "after-indexes"
	default:
		return "unknown"
	}
}

// Markers in schemaSpy's table pages
const (
	headerMarker     = "headerHolder"
	indexesMarker    = ">Indexes:<"
	tableBodyMarker  = "<tbody>"
	tableCloseMarker = "</table>"
)
