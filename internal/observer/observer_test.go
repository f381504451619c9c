package observer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flashloop/internal/browserdriver"
)

type fakeFrame struct {
	name     string
	url      string
	parent   browserdriver.Frame
	children []browserdriver.Frame
	detached bool
	result   any
	evalErr  error
}

func (f *fakeFrame) Name() string                      { return f.name }
func (f *fakeFrame) URL() string                        { return f.url }
func (f *fakeFrame) ParentFrame() browserdriver.Frame   { return f.parent }
func (f *fakeFrame) ChildFrames() []browserdriver.Frame { return f.children }
func (f *fakeFrame) IsDetached() bool                   { return f.detached }
func (f *fakeFrame) Evaluate(script string, arg any) (any, error) {
	if f.evalErr != nil {
		return nil, f.evalErr
	}
	return f.result, nil
}

type fakePage struct {
	url    string
	title  string
	frames []browserdriver.Frame
}

func (p *fakePage) URL() string                                   { return p.url }
func (p *fakePage) Title() (string, error)                        { return p.title, nil }
func (p *fakePage) IsClosed() bool                                 { return false }
func (p *fakePage) Goto(string, time.Duration) error               { return nil }
func (p *fakePage) Reload() error                                  { return nil }
func (p *fakePage) GoBack() error                                  { return nil }
func (p *fakePage) BringToFront() error                            { return nil }
func (p *fakePage) Close() error                                   { return nil }
func (p *fakePage) Evaluate(string, any) (any, error)              { return nil, nil }
func (p *fakePage) WaitForLoadState(string, time.Duration) error   { return nil }
func (p *fakePage) MainFrame() browserdriver.Frame                 { return p.frames[0] }
func (p *fakePage) Frames() []browserdriver.Frame                  { return p.frames }
func (p *fakePage) Scope([]string) browserdriver.LocatorScope      { return nil }
func (p *fakePage) OnDialog(func(browserdriver.Dialog))            {}
func (p *fakePage) OnClose(func())                                 {}

func oneButtonResult() []map[string]any {
	return []map[string]any{
		{
			"tag": "button", "role": "button", "testId": "submit-btn", "inputType": "",
			"placeholder": "", "name": "", "text": "Submit", "ariaLabel": "", "title": "", "alt": "",
			"xpath": "//*[@id=\"submit\"]", "isScrollable": false, "isInViewport": true, "sensitive": false,
		},
	}
}

func TestObserveProducesMatchingStateAndCatalog(t *testing.T) {
	frame := &fakeFrame{url: "https://example.com", result: oneButtonResult()}
	page := &fakePage{url: "https://example.com", title: "Example", frames: []browserdriver.Frame{frame}}

	state, err := Observe(page, DefaultConfig())
	require.NoError(t, err)

	require.Len(t, state.Catalog, 1)
	var id string
	for k := range state.Catalog {
		id = k
	}
	assert.Contains(t, state.Text, "ID: "+id)
	assert.Contains(t, state.Text, "Submit")
}

func TestObserveSkipsInaccessibleFrameSilently(t *testing.T) {
	goodFrame := &fakeFrame{url: "https://example.com", result: oneButtonResult()}
	badFrame := &fakeFrame{url: "https://cross-origin.example", evalErr: assertErr("cross-origin frame access denied")}
	page := &fakePage{url: "https://example.com", title: "Example", frames: []browserdriver.Frame{goodFrame, badFrame}}

	state, err := Observe(page, DefaultConfig())
	require.NoError(t, err)
	assert.Len(t, state.Catalog, 1)
}

func TestObserveHandlesEmptyPageGracefully(t *testing.T) {
	frame := &fakeFrame{url: "https://example.com", result: []map[string]any{}}
	page := &fakePage{url: "https://example.com", title: "Empty", frames: []browserdriver.Frame{frame}}

	state, err := Observe(page, DefaultConfig())
	require.NoError(t, err)
	assert.Empty(t, state.Catalog)
	assert.Contains(t, state.Text, "https://example.com")
}

func TestSemanticHashIsStableAndOrderSensitiveToIdentityFields(t *testing.T) {
	h1 := semanticHash("button", "submit-btn", "button", "", "", "", "Submit")
	h2 := semanticHash("button", "submit-btn", "button", "", "", "", "Submit")
	assert.Equal(t, h1, h2)

	h3 := semanticHash("button", "cancel-btn", "button", "", "", "", "Submit")
	assert.NotEqual(t, h1, h3)
}

func TestHiddenElementsAreCatalogedButNotRenderedAndAreSummarized(t *testing.T) {
	results := []map[string]any{
		{
			"tag": "button", "role": "button", "testId": "visible-btn", "inputType": "",
			"placeholder": "", "name": "", "text": "Visible", "ariaLabel": "", "title": "", "alt": "",
			"xpath": "", "isScrollable": false, "isInViewport": true, "sensitive": false,
		},
		{
			"tag": "button", "role": "button", "testId": "hidden-btn", "inputType": "",
			"placeholder": "", "name": "", "text": "Hidden", "ariaLabel": "", "title": "", "alt": "",
			"xpath": "", "isScrollable": false, "isInViewport": false, "sensitive": false,
		},
	}
	frame := &fakeFrame{url: "https://example.com", result: results}
	page := &fakePage{url: "https://example.com", title: "Example", frames: []browserdriver.Frame{frame}}

	state, err := Observe(page, DefaultConfig())
	require.NoError(t, err)

	assert.Len(t, state.Catalog, 2)
	assert.NotContains(t, state.Text, "Hidden")
	assert.Contains(t, state.Text, "1 more items are not visible")
}

type assertErr string

func (e assertErr) Error() string { return string(e) }
