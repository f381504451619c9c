package pw

import (
	"github.com/playwright-community/playwright-go"

	"flashloop/internal/browserdriver"
)

type contextWrapper struct {
	ctx playwright.BrowserContext
}

func wrapContext(ctx playwright.BrowserContext) browserdriver.Context {
	return &contextWrapper{ctx: ctx}
}

// WrapContext exposes wrapContext for callers outside this package that
// already hold a live playwright.BrowserContext — namely the library
// entrypoint's hosted mode, which receives a page from a caller-owned
// Playwright session rather than launching its own (spec §4.10 "hosted").
func WrapContext(ctx playwright.BrowserContext) browserdriver.Context {
	return wrapContext(ctx)
}

func (w *contextWrapper) Pages() []browserdriver.Page {
	pages := w.ctx.Pages()
	out := make([]browserdriver.Page, len(pages))
	for i, p := range pages {
		out[i] = WrapPage(p)
	}
	return out
}

func (w *contextWrapper) NewPage() (browserdriver.Page, error) {
	p, err := w.ctx.NewPage()
	if err != nil {
		return nil, err
	}
	return WrapPage(p), nil
}

func (w *contextWrapper) OnPage(handler func(browserdriver.Page)) {
	w.ctx.OnPage(func(p playwright.Page) {
		handler(WrapPage(p))
	})
}
