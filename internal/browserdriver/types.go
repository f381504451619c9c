// Package browserdriver is the boundary interface between the core
// (Observer, Context Manager, Selector Synthesizer, Executor) and the
// concrete browser engine. The spec treats "the browser driver itself" as
// an external collaborator (spec §1); this package is that seam — core
// packages import only the interfaces here, and internal/platform/pw
// supplies the concrete Playwright-backed implementation.
package browserdriver

import "time"

// Dialog is a pending native dialog (alert/confirm/prompt/beforeunload).
type Dialog interface {
	Type() string
	Message() string
	Accept(promptText string) error
	Dismiss() error
}

// Page is a single browser tab.
type Page interface {
	URL() string
	Title() (string, error)
	IsClosed() bool

	Goto(url string, timeout time.Duration) error
	Reload() error
	GoBack() error
	BringToFront() error
	Close() error

	// Evaluate runs script in the page's main frame and returns the
	// JSON-decoded result.
	Evaluate(script string, arg any) (any, error)

	WaitForLoadState(state string, timeout time.Duration) error

	MainFrame() Frame
	Frames() []Frame

	// Locator strategies, scoped to the main frame. FrameLocator descends
	// into the given chain of iframe selectors (root-to-host order) before
	// any of the GetBy*/Locator calls below apply.
	Scope(frameSelectorChain []string) LocatorScope

	OnDialog(handler func(Dialog))
	OnClose(handler func())
}

// Frame is a (possibly nested) frame within a page, used by the Observer
// to compute frameSelectorChain and run the per-frame DOM walk.
type Frame interface {
	Name() string
	URL() string
	ParentFrame() Frame
	ChildFrames() []Frame
	IsDetached() bool
	Evaluate(script string, arg any) (any, error)
}

// LocatorScope is a page, optionally narrowed into a chain of iframes, that
// candidate-selector strategies resolve against (spec §4.6).
type LocatorScope interface {
	GetByTestID(testID string) Locator
	GetByRole(role, name string, exact bool) Locator
	GetByPlaceholder(text string, exact bool) Locator
	GetByText(text string, exact bool) Locator
	XPath(xpath string) Locator
}

// Context is a single browsing context (a set of pages sharing cookies and
// storage), used by the Context Manager to observe new-tab creation.
type Context interface {
	Pages() []Page
	NewPage() (Page, error)
	OnPage(handler func(Page))
}

// Locator is a lazily-resolved reference to zero or more elements, mirroring
// the Playwright locator idiom: constructing one performs no query; Count/
// IsVisible/actions do.
type Locator interface {
	Count() (int, error)
	IsVisible() (bool, error)

	Click() error
	Dblclick() error
	Hover() error
	Focus() error
	Fill(value string) error
	PressSequentially(text string) error
	Press(key string) error
	Clear() error
	Check() error
	Uncheck() error
	SelectOptionByLabel(label string) error
	SelectOptionByValue(value string) error
	SetInputFiles(paths []string) error
	ScrollIntoView() error
	DragTo(target Locator) error
	WaitForVisible(timeout time.Duration) error

	TextContent() (string, error)
	InputValue() (string, error)
}
