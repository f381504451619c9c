// Package observer is the Observer (spec §4.5): it walks every frame and
// shadow tree of the active page, extracts interactable elements, assigns
// stable semantic IDs, and renders a symbolic state report for the Planner.
// Grounded on the teacher's internal/extractor/extractor.go (in-page JS
// extraction via page.Evaluate) and internal/browser/selector_builder.go
// (candidate-selector shape), generalized from a flat DOM walk to a
// shadow-root-recursive, multi-frame one per the spec's shadow-DOM and
// iframe requirements.
package observer

// Descriptor is the Observer's unit of output, consumed by the Executor
// through the Selector Synthesizer.
type Descriptor struct {
	ID                 string
	Frame              FrameRef
	FrameSelectorChain []string
	XPath              string
	Selectors          Candidates
	Description        string
	TagName            string
	InputType          string
	IsScrollable       bool
	IsInViewport       bool

	// occurrence disambiguates same-hash siblings within one observation;
	// folded into ID already, kept here for diagnostics.
	occurrence int
}

// FrameRef identifies the frame a descriptor's element lives in, by its
// position in the frame tree (index into Page.Frames()) rather than a live
// handle — handles are owned by the driver for one step only (spec's
// element-handle-arena-ownership design note).
type FrameRef struct {
	Index int
	URL   string
}

// Candidates is the set of selector strategies the Observer recorded for
// an element; any subset may be populated. The Selector Synthesizer tries
// them in a fixed priority order regardless of which are present here.
type Candidates struct {
	TestID      string
	Role        string
	Name        string
	Exact       bool
	Placeholder string
	Text        string
	AriaLabel   string
	Title       string
	Alt         string
}

// State is the Observer's full per-step output: the rendered symbolic text
// handed to the Planner, and the catalog the Executor resolves targetId
// against. Per the spec invariant, every descriptor rendered in Text has a
// matching entry in Catalog from the same observation.
type State struct {
	URL    string
	Title  string
	Text   string
	Catalog map[string]Descriptor
}

// rawElement is the shape the in-page extraction script emits per
// interactable node, before hashing and candidate derivation.
type rawElement struct {
	Tag          string  `json:"tag"`
	Role         string  `json:"role"`
	TestID       string  `json:"testId"`
	InputType    string  `json:"inputType"`
	Placeholder  string  `json:"placeholder"`
	Name         string  `json:"name"`
	Text         string  `json:"text"`
	AriaLabel    string  `json:"ariaLabel"`
	Title        string  `json:"title"`
	Alt          string  `json:"alt"`
	XPath        string  `json:"xpath"`
	IsScrollable bool    `json:"isScrollable"`
	IsInViewport bool    `json:"isInViewport"`
	Sensitive    bool    `json:"sensitive"`
}
