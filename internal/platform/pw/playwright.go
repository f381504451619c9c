// Package pw adapts github.com/playwright-community/playwright-go to the
// flashloop/internal/browserdriver interfaces. Grounded on the teacher's
// internal/browser/browser.go (Firefox launch, mutex-guarded page handle,
// navigate-timeout-via-context idiom).
package pw

import (
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"

	"flashloop/internal/browserdriver"
)

// LaunchConfig controls how the owned browser is started (spec §4.10,
// "owned" Loop mode).
type LaunchConfig struct {
	Headless    bool
	UserDataDir string
	Display     string
	Timeout     time.Duration
}

// Browser owns a Playwright process plus a browser or persistent context,
// for the Loop's "owned" construction mode.
type Browser struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	cfg     LaunchConfig
}

// Launch starts Firefox (kept from the teacher's engine choice, spec
// SPEC_FULL §9.1) either as a persistent context (when UserDataDir is set)
// or a fresh ephemeral context.
func Launch(cfg LaunchConfig) (*Browser, error) {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	run, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("starting playwright driver: %w", err)
	}

	b := &Browser{pw: run, cfg: cfg}

	args := []string{"--no-sandbox"}
	var env map[string]string
	if cfg.Display != "" {
		env = map[string]string{"DISPLAY": cfg.Display}
	}

	if cfg.UserDataDir != "" {
		ctx, err := run.Firefox.LaunchPersistentContext(cfg.UserDataDir, playwright.BrowserTypeLaunchPersistentContextOptions{
			Headless: playwright.Bool(cfg.Headless),
			Args:     args,
			Env:      env,
		})
		if err != nil {
			_ = run.Stop()
			return nil, fmt.Errorf("launching persistent context: %w", err)
		}
		b.context = ctx
		return b, nil
	}

	browser, err := run.Firefox.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
		Args:     args,
		Env:      env,
	})
	if err != nil {
		_ = run.Stop()
		return nil, fmt.Errorf("launching browser: %w", err)
	}
	b.browser = browser

	ctx, err := browser.NewContext()
	if err != nil {
		return nil, fmt.Errorf("creating context: %w", err)
	}
	b.context = ctx

	return b, nil
}

// Context returns the browsing context wrapped as browserdriver.Context, used
// by the Context Manager to subscribe to page lifecycle events without
// depending on Playwright types directly.
func (b *Browser) Context() browserdriver.Context {
	return wrapContext(b.context)
}

// FirstPage returns the context's first page, opening one if none exists
// yet, wrapped as a browserdriver.Page.
func (b *Browser) FirstPage() (browserdriver.Page, error) {
	pages := b.context.Pages()
	if len(pages) > 0 {
		return WrapPage(pages[0]), nil
	}
	page, err := b.context.NewPage()
	if err != nil {
		return nil, err
	}
	return WrapPage(page), nil
}

// Close tears down the context, browser and driver process, in that order,
// absorbing the first error but attempting every stage.
func (b *Browser) Close() error {
	var firstErr error
	if b.context != nil {
		if err := b.context.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if b.browser != nil {
		if err := b.browser.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if b.pw != nil {
		if err := b.pw.Stop(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
