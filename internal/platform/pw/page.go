package pw

import (
	"time"

	"github.com/playwright-community/playwright-go"

	"flashloop/internal/browserdriver"
)

type pageWrapper struct {
	page playwright.Page
}

// WrapPage adapts a live playwright.Page to browserdriver.Page.
func WrapPage(p playwright.Page) browserdriver.Page {
	return &pageWrapper{page: p}
}

// Unwrap returns the underlying playwright.Page, used by the Context
// Manager which needs Playwright-specific events (OnPage on the context,
// not the page) outside the browserdriver.Page surface.
func Unwrap(p browserdriver.Page) playwright.Page {
	if w, ok := p.(*pageWrapper); ok {
		return w.page
	}
	return nil
}

func (w *pageWrapper) URL() string { return w.page.URL() }

func (w *pageWrapper) Title() (string, error) { return w.page.Title() }

func (w *pageWrapper) IsClosed() bool { return w.page.IsClosed() }

func (w *pageWrapper) Goto(url string, timeout time.Duration) error {
	_, err := w.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(float64(timeout.Milliseconds())),
	})
	return err
}

func (w *pageWrapper) Reload() error {
	_, err := w.page.Reload()
	return err
}

func (w *pageWrapper) GoBack() error {
	_, err := w.page.GoBack()
	return err
}

func (w *pageWrapper) BringToFront() error { return w.page.BringToFront() }

func (w *pageWrapper) Close() error { return w.page.Close() }

func (w *pageWrapper) Evaluate(script string, arg any) (any, error) {
	if arg == nil {
		return w.page.Evaluate(script)
	}
	return w.page.Evaluate(script, arg)
}

func (w *pageWrapper) WaitForLoadState(state string, timeout time.Duration) error {
	ls := loadState(state)
	return w.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   ls,
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
}

func (w *pageWrapper) MainFrame() browserdriver.Frame {
	return wrapFrame(w.page.MainFrame())
}

func (w *pageWrapper) Frames() []browserdriver.Frame {
	frames := w.page.Frames()
	out := make([]browserdriver.Frame, len(frames))
	for i, f := range frames {
		out[i] = wrapFrame(f)
	}
	return out
}

func (w *pageWrapper) Scope(frameSelectorChain []string) browserdriver.LocatorScope {
	return newScope(w.page, frameSelectorChain)
}

func (w *pageWrapper) OnDialog(handler func(browserdriver.Dialog)) {
	w.page.OnDialog(func(d playwright.Dialog) {
		handler(wrapDialog(d))
	})
}

func (w *pageWrapper) OnClose(handler func()) {
	w.page.OnClose(func(playwright.Page) { handler() })
}

type frameWrapper struct {
	frame playwright.Frame
}

func wrapFrame(f playwright.Frame) browserdriver.Frame {
	if f == nil {
		return nil
	}
	return &frameWrapper{frame: f}
}

func (w *frameWrapper) Name() string { return w.frame.Name() }
func (w *frameWrapper) URL() string  { return w.frame.URL() }

func (w *frameWrapper) ParentFrame() browserdriver.Frame {
	return wrapFrame(w.frame.ParentFrame())
}

func (w *frameWrapper) ChildFrames() []browserdriver.Frame {
	children := w.frame.ChildFrames()
	out := make([]browserdriver.Frame, len(children))
	for i, c := range children {
		out[i] = wrapFrame(c)
	}
	return out
}

func (w *frameWrapper) IsDetached() bool { return w.frame.IsDetached() }

func (w *frameWrapper) Evaluate(script string, arg any) (any, error) {
	if arg == nil {
		return w.frame.Evaluate(script)
	}
	return w.frame.Evaluate(script, arg)
}

func wrapDialog(d playwright.Dialog) browserdriver.Dialog {
	return &dialogWrapper{d: d}
}

type dialogWrapper struct {
	d playwright.Dialog
}

func (w *dialogWrapper) Type() string    { return w.d.Type() }
func (w *dialogWrapper) Message() string { return w.d.Message() }

func (w *dialogWrapper) Accept(promptText string) error {
	return w.d.Accept(promptText)
}

func (w *dialogWrapper) Dismiss() error { return w.d.Dismiss() }

func loadState(state string) *playwright.LoadState {
	switch state {
	case "load":
		return playwright.LoadStateLoad
	case "networkidle":
		return playwright.LoadStateNetworkidle
	default:
		return playwright.LoadStateDomcontentloaded
	}
}
