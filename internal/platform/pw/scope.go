package pw

import (
	"time"

	"github.com/playwright-community/playwright-go"

	"flashloop/internal/browserdriver"
)

// scope resolves locator strategies against a page, narrowed through zero
// or more nested iframes via FrameLocator chaining (spec §4.6: "chained
// after the frameSelectorChain as nested frame-locators").
type scope struct {
	root playwright.Page
	last playwright.FrameLocator
}

func newScope(page playwright.Page, frameSelectorChain []string) browserdriver.LocatorScope {
	s := &scope{root: page}
	for _, sel := range frameSelectorChain {
		if s.last == nil {
			s.last = page.FrameLocator(sel)
		} else {
			s.last = s.last.FrameLocator(sel)
		}
	}
	return s
}

func (s *scope) GetByTestID(testID string) browserdriver.Locator {
	if s.last != nil {
		return wrapLocator(s.last.GetByTestId(testID))
	}
	return wrapLocator(s.root.GetByTestId(testID))
}

func (s *scope) GetByRole(role, name string, exact bool) browserdriver.Locator {
	opts := playwright.PageGetByRoleOptions{Name: name, Exact: playwright.Bool(exact)}
	if s.last != nil {
		return wrapLocator(s.last.GetByRole(playwright.AriaRole(role), playwright.FrameLocatorGetByRoleOptions{
			Name:  opts.Name,
			Exact: opts.Exact,
		}))
	}
	return wrapLocator(s.root.GetByRole(playwright.AriaRole(role), opts))
}

func (s *scope) GetByPlaceholder(text string, exact bool) browserdriver.Locator {
	if s.last != nil {
		return wrapLocator(s.last.GetByPlaceholder(text, playwright.FrameLocatorGetByPlaceholderOptions{Exact: playwright.Bool(exact)}))
	}
	return wrapLocator(s.root.GetByPlaceholder(text, playwright.PageGetByPlaceholderOptions{Exact: playwright.Bool(exact)}))
}

func (s *scope) GetByText(text string, exact bool) browserdriver.Locator {
	if s.last != nil {
		return wrapLocator(s.last.GetByText(text, playwright.FrameLocatorGetByTextOptions{Exact: playwright.Bool(exact)}))
	}
	return wrapLocator(s.root.GetByText(text, playwright.PageGetByTextOptions{Exact: playwright.Bool(exact)}))
}

func (s *scope) XPath(xpath string) browserdriver.Locator {
	if s.last != nil {
		return wrapLocator(s.last.Locator(xpath))
	}
	return wrapLocator(s.root.Locator(xpath))
}

type locatorWrapper struct {
	loc playwright.Locator
}

func wrapLocator(l playwright.Locator) browserdriver.Locator {
	return &locatorWrapper{loc: l}
}

// Unwrap exposes the underlying playwright.Locator for DragTo, which needs
// the concrete target type.
func Unwrap2(l browserdriver.Locator) playwright.Locator {
	if w, ok := l.(*locatorWrapper); ok {
		return w.loc
	}
	return nil
}

func (w *locatorWrapper) Count() (int, error) { return w.loc.Count() }

func (w *locatorWrapper) IsVisible() (bool, error) { return w.loc.IsVisible() }

func (w *locatorWrapper) Click() error           { return w.loc.Click() }
func (w *locatorWrapper) Dblclick() error        { return w.loc.Dblclick() }
func (w *locatorWrapper) Hover() error           { return w.loc.Hover() }
func (w *locatorWrapper) Focus() error           { return w.loc.Focus() }
func (w *locatorWrapper) Fill(value string) error { return w.loc.Fill(value) }

func (w *locatorWrapper) PressSequentially(text string) error {
	return w.loc.PressSequentially(text)
}

func (w *locatorWrapper) Press(key string) error { return w.loc.Press(key) }
func (w *locatorWrapper) Clear() error           { return w.loc.Clear() }
func (w *locatorWrapper) Check() error           { return w.loc.Check() }
func (w *locatorWrapper) Uncheck() error         { return w.loc.Uncheck() }

func (w *locatorWrapper) SelectOptionByLabel(label string) error {
	_, err := w.loc.SelectOption(playwright.SelectOptionValues{
		Labels: &[]string{label},
	})
	return err
}

func (w *locatorWrapper) SelectOptionByValue(value string) error {
	_, err := w.loc.SelectOption(playwright.SelectOptionValues{
		Values: &[]string{value},
	})
	return err
}

func (w *locatorWrapper) SetInputFiles(paths []string) error {
	return w.loc.SetInputFiles(paths)
}

func (w *locatorWrapper) ScrollIntoView() error {
	return w.loc.ScrollIntoViewIfNeeded()
}

func (w *locatorWrapper) DragTo(target browserdriver.Locator) error {
	t := Unwrap2(target)
	if t == nil {
		return errNilDragTarget
	}
	return w.loc.DragTo(t)
}

func (w *locatorWrapper) WaitForVisible(timeout time.Duration) error {
	state := playwright.WaitForSelectorStateVisible
	return w.loc.WaitFor(playwright.LocatorWaitForOptions{
		State:   state,
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
}

func (w *locatorWrapper) TextContent() (string, error) { return w.loc.TextContent() }

func (w *locatorWrapper) InputValue() (string, error) { return w.loc.InputValue() }
