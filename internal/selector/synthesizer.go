// Package selector is the Selector Synthesizer ("double-check", spec §4.6):
// given an Element Descriptor captured by the Observer, it resolves the
// first candidate that both uniquely matches and is visible on the live
// page at this exact moment, and emits the equivalent script fragment.
// Grounded on the teacher's internal/browser/selector_builder.go
// (BuildSmartSelector's scored-candidate-list idiom), generalized from
// "build one best-guess CSS selector offline" to "try locator strategies
// in priority order and verify each live".
package selector

import (
	"fmt"
	"strings"

	"flashloop/internal/browserdriver"
	"flashloop/internal/observer"
)

// Resolved is the synthesizer's output: a live, verified locator and the
// script fragment that reproduces it.
type Resolved struct {
	Locator       browserdriver.Locator
	CodeFragment  string
}

// candidate pairs a locator constructor with the script text it would
// reproduce, so a rejected candidate never has to recompute its fragment.
type candidate struct {
	build   func() browserdriver.Locator
	snippet string
}

// Resolve tries the spec's fixed candidate order against desc's data,
// accepting the first one that both uniquely matches (count()==1) and is
// visible. Returns FailedRobustSelector if every candidate is exhausted.
func Resolve(page browserdriver.Page, desc observer.Descriptor) (Resolved, error) {
	scope := page.Scope(desc.FrameSelectorChain)
	candidates := buildCandidates(scope, desc)

	for _, c := range candidates {
		loc := c.build()
		if loc == nil {
			continue
		}
		count, err := loc.Count()
		if err != nil || count != 1 {
			continue
		}
		visible, err := loc.IsVisible()
		if err != nil || !visible {
			continue
		}
		return Resolved{Locator: loc, CodeFragment: withFrameChain(c.snippet, desc.FrameSelectorChain)}, nil
	}

	return Resolved{}, FailedRobustSelector{ID: desc.ID}
}

func buildCandidates(scope browserdriver.LocatorScope, desc observer.Descriptor) []candidate {
	var out []candidate
	sel := desc.Selectors

	if sel.TestID != "" {
		out = append(out, candidate{
			build:   func() browserdriver.Locator { return scope.GetByTestID(sel.TestID) },
			snippet: fmt.Sprintf("getByTestId('%s')", escape(sel.TestID)),
		})
	}
	if sel.Role != "" && sel.Name != "" {
		out = append(out, candidate{
			build:   func() browserdriver.Locator { return scope.GetByRole(sel.Role, sel.Name, sel.Exact) },
			snippet: fmt.Sprintf("getByRole('%s', { name: '%s', exact: true })", escape(sel.Role), escape(sel.Name)),
		})
	}
	if sel.Placeholder != "" {
		out = append(out, candidate{
			build:   func() browserdriver.Locator { return scope.GetByPlaceholder(sel.Placeholder, true) },
			snippet: fmt.Sprintf("getByPlaceholder('%s')", escape(sel.Placeholder)),
		})
	}
	if sel.Text != "" {
		out = append(out, candidate{
			build:   func() browserdriver.Locator { return scope.GetByText(sel.Text, true) },
			snippet: fmt.Sprintf("getByText('%s', { exact: true })", escape(sel.Text)),
		})
	}
	if desc.XPath != "" {
		out = append(out, candidate{
			build:   func() browserdriver.Locator { return scope.XPath(desc.XPath) },
			// Last-resort fallback: brittle under DOM reordering.
			snippet: fmt.Sprintf("locator('%s') /* last-resort xpath fallback */", escape(desc.XPath)),
		})
	}
	return out
}

func withFrameChain(snippet string, chain []string) string {
	if len(chain) == 0 {
		return "page." + snippet
	}
	var b strings.Builder
	b.WriteString("page")
	for _, sel := range chain {
		fmt.Fprintf(&b, ".frameLocator('%s')", escape(sel))
	}
	b.WriteString(".")
	b.WriteString(snippet)
	return b.String()
}

func escape(s string) string {
	return strings.ReplaceAll(s, "'", "\\'")
}

// FailedRobustSelector is returned when every candidate is exhausted
// without finding a unique, visible match.
type FailedRobustSelector struct {
	ID string
}

func (e FailedRobustSelector) Error() string {
	return fmt.Sprintf("selector: no robust candidate uniquely matched a visible element for %s", e.ID)
}
