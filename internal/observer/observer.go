package observer

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"flashloop/internal/browserdriver"
)

// Config holds the Observer's load-wait tunables (spec §4.5 step 1).
type Config struct {
	DOMContentLoadedTimeout time.Duration
	NetworkIdleTimeout      time.Duration
}

// DefaultConfig returns the spec's default wait budget.
func DefaultConfig() Config {
	return Config{
		DOMContentLoadedTimeout: 2 * time.Second,
		NetworkIdleTimeout:      500 * time.Millisecond,
	}
}

// Observe walks the active page's frame and shadow-DOM tree and produces a
// symbolic state report plus the element catalog the Executor resolves
// targetIds against. Errors from inaccessible cross-origin frames are
// absorbed; an empty state text is a valid result (spec §4.5 Failure).
func Observe(page browserdriver.Page, cfg Config) (State, error) {
	if cfg.DOMContentLoadedTimeout == 0 {
		cfg = DefaultConfig()
	}

	_ = page.WaitForLoadState("domcontentloaded", cfg.DOMContentLoadedTimeout)
	_ = page.WaitForLoadState("networkidle", cfg.NetworkIdleTimeout) // best-effort, errors ignored

	var allRaw []rawElement
	var frameRefs []FrameRef
	var chains [][]string

	frames := page.Frames()
	for idx, f := range frames {
		chain := frameSelectorChain(f, frames)
		raws, err := extractFromFrame(f)
		if err != nil {
			// Cross-origin or detached frame: skip silently.
			continue
		}
		for range raws {
			frameRefs = append(frameRefs, FrameRef{Index: idx, URL: f.URL()})
			chains = append(chains, chain)
		}
		allRaw = append(allRaw, raws...)
	}

	catalog := make(map[string]Descriptor, len(allRaw))
	seen := make(map[string]int, len(allRaw))

	type rendered struct {
		id           string
		description  string
		tag          string
		inputType    string
		isScrollable bool
		isInViewport bool
		inIframe     bool
	}
	var visible []rendered
	hiddenCount := 0

	for i, raw := range allRaw {
		hash8 := semanticHash(raw.Tag, raw.TestID, raw.Role, raw.InputType, raw.Placeholder, raw.Name, raw.Text)
		occurrence := seen[hash8]
		seen[hash8] = occurrence + 1
		id := makeID(raw.Tag, hash8, occurrence)

		desc := Descriptor{
			ID:                 id,
			Frame:              frameRefs[i],
			FrameSelectorChain: chains[i],
			XPath:              raw.XPath,
			Selectors: Candidates{
				TestID:      raw.TestID,
				Role:        raw.Role,
				Name:        raw.Name,
				Exact:       true,
				Placeholder: raw.Placeholder,
				Text:        raw.Text,
				AriaLabel:   raw.AriaLabel,
				Title:       raw.Title,
				Alt:         raw.Alt,
			},
			Description:  describe(raw),
			TagName:      raw.Tag,
			InputType:    raw.InputType,
			IsScrollable: raw.IsScrollable,
			IsInViewport: raw.IsInViewport,
			occurrence:   occurrence,
		}
		catalog[id] = desc

		if raw.IsInViewport {
			visible = append(visible, rendered{
				id:           id,
				description:  desc.Description,
				tag:          raw.Tag,
				inputType:    raw.InputType,
				isScrollable: raw.IsScrollable,
				isInViewport: raw.IsInViewport,
				inIframe:     len(chains[i]) > 0,
			})
		} else {
			hiddenCount++
		}
	}

	var b strings.Builder
	b.WriteString(page.URL())
	b.WriteString("\n")
	if title, err := page.Title(); err == nil {
		b.WriteString(title)
		b.WriteString("\n")
	}

	for _, r := range visible {
		b.WriteString("- ")
		b.WriteString(r.tag)
		if r.inputType != "" {
			b.WriteString("[type=")
			b.WriteString(r.inputType)
			b.WriteString("]")
		}
		b.WriteString(" \"")
		b.WriteString(r.description)
		b.WriteString("\" [ID: ")
		b.WriteString(r.id)
		b.WriteString("]")

		var tags []string
		if r.isScrollable {
			tags = append(tags, "Scrollable")
		}
		if r.inIframe {
			tags = append(tags, "in Iframe")
		}
		if len(tags) > 0 {
			b.WriteString(" (")
			b.WriteString(strings.Join(tags, ", "))
			b.WriteString(")")
		}
		b.WriteString("\n")
	}

	if hiddenCount > 0 {
		fmt.Fprintf(&b, "... (%d more items are not visible. Use 'scroll' to explore.)\n", hiddenCount)
	}

	title, _ := page.Title()
	return State{
		URL:     page.URL(),
		Title:   title,
		Text:    b.String(),
		Catalog: catalog,
	}, nil
}

func describe(raw rawElement) string {
	text := raw.Text
	if text == "" {
		text = raw.AriaLabel
	}
	if text == "" {
		text = raw.Placeholder
	}
	if text == "" {
		text = raw.Title
	}
	if text == "" {
		text = raw.Alt
	}
	if len(text) > 60 {
		text = text[:60]
	}
	return text
}

// extractFromFrame runs the extraction script inside the given frame and
// unmarshals the result into rawElements.
func extractFromFrame(f browserdriver.Frame) ([]rawElement, error) {
	if f.IsDetached() {
		return nil, fmt.Errorf("observer: frame detached")
	}
	result, err := f.Evaluate(extractionScript, nil)
	if err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	var raws []rawElement
	if err := json.Unmarshal(encoded, &raws); err != nil {
		return nil, err
	}
	return raws, nil
}

// frameSelectorChain walks from f up to the root, computing each hop's
// identifying selector: name, else id (approximated by name when absent,
// since the driver-facing Frame interface exposes no id attribute directly),
// else a src-substring match, else positional nth-of-type among siblings
// sharing the parent (spec §4.5 step 2).
func frameSelectorChain(f browserdriver.Frame, allFrames []browserdriver.Frame) []string {
	var chain []string
	current := f
	for current != nil {
		parent := current.ParentFrame()
		if parent == nil {
			break
		}
		chain = append([]string{frameSelector(current, parent, allFrames)}, chain...)
		current = parent
	}
	return chain
}

func frameSelector(f, parent browserdriver.Frame, allFrames []browserdriver.Frame) string {
	if name := f.Name(); name != "" {
		return fmt.Sprintf(`iframe[name="%s"]`, name)
	}
	if url := f.URL(); url != "" {
		path := url
		if idx := strings.IndexAny(url, "?#"); idx >= 0 {
			path = url[:idx]
		}
		return fmt.Sprintf(`iframe[src*="%s"]`, path)
	}

	index := 1
	for _, candidate := range parent.ChildFrames() {
		if candidate == f {
			break
		}
		index++
	}
	return fmt.Sprintf("iframe:nth-of-type(%d)", index)
}
