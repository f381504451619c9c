// Package pagectx is the Context Manager (spec §4.4): it tracks the active
// page, a LIFO return stack of pages the agent has navigated away from, a
// denylist of ad/tracker hosts auto-closed on sight, and a single-slot
// dialog mailbox with a safety-net timer. Grounded on the teacher's
// internal/browser.PlaywrightBrowser (mutex-guarded page handle) and
// popup_detector.go (auto-close-on-detect idiom), generalized from an
// LLM-driven popup classifier to a deterministic host denylist.
package pagectx

import (
	"strings"
	"sync"
	"time"

	"flashloop/internal/browserdriver"
)

// denylistSubstrings are host/URL fragments auto-closed on new-tab open,
// per spec §4.4.
var denylistSubstrings = []string{
	"googleads",
	"doubleclick",
	"facebook.com/tr",
}

// DefaultDialogTimeout is the safety-net duration before a pending dialog
// auto-resolves if the planner never issues a handle_dialog action.
const DefaultDialogTimeout = 10 * time.Second

// newPageLoadWait bounds the "waits briefly for first load" step before the
// denylist check (spec §4.4): the page event fires before the new tab's
// navigation commits, so its URL is still about:blank until this settles.
const newPageLoadWait = 2 * time.Second

// PendingDialog mirrors the spec's Pending Dialog record.
type PendingDialog struct {
	Type               string
	Message            string
	handle             browserdriver.Dialog
	ScheduledAutoClose time.Time
}

// Manager owns the active page, the return stack, and the dialog mailbox.
// All accessors are safe for concurrent use, though the Loop itself is
// single-threaded per step (spec §5) — the mutex guards against the
// context's own background page/dialog event callbacks.
type Manager struct {
	mu sync.Mutex

	ctx         browserdriver.Context
	activePage  browserdriver.Page
	returnStack []browserdriver.Page

	dialog      *PendingDialog
	dialogTimer *time.Timer

	dialogTimeout time.Duration
}

// New wires a Manager to a live browsing context, subscribing to new-page
// and dialog events on every page it already knows about. initialPage
// becomes the active page.
func New(ctx browserdriver.Context, initialPage browserdriver.Page, dialogTimeout time.Duration) *Manager {
	if dialogTimeout == 0 {
		dialogTimeout = DefaultDialogTimeout
	}
	m := &Manager{
		ctx:           ctx,
		activePage:    initialPage,
		dialogTimeout: dialogTimeout,
	}

	m.watch(initialPage)

	ctx.OnPage(func(p browserdriver.Page) {
		m.handleNewPage(p)
	})

	return m
}

// watch wires the per-page dialog and close callbacks. Called once per page
// the Manager becomes aware of, whether the initial page or a new tab.
func (m *Manager) watch(p browserdriver.Page) {
	p.OnDialog(func(d browserdriver.Dialog) {
		m.handleDialog(p, d)
	})
	p.OnClose(func() {
		m.handlePageClosed(p)
	})
}

// handleNewPage implements the new-tab auto-focus and denylist auto-close
// rule: a denylisted tab is closed immediately and never becomes active or
// enters the return stack; any other new tab pushes the previously active
// page onto the return stack and becomes active.
func (m *Manager) handleNewPage(p browserdriver.Page) {
	m.watch(p)

	_ = p.WaitForLoadState("domcontentloaded", newPageLoadWait)

	if isDenylisted(p.URL()) {
		_ = p.Close()
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.activePage != nil {
		m.returnStack = append(m.returnStack, m.activePage)
	}
	m.activePage = p
}

func isDenylisted(url string) bool {
	lower := strings.ToLower(url)
	for _, s := range denylistSubstrings {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}

// handlePageClosed drops a closed page from the return stack and, if it was
// the active page, promotes the top of the return stack (LIFO) to active.
func (m *Manager) handlePageClosed(p browserdriver.Page) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.removeFromStack(p)

	if m.activePage == p {
		m.activePage = m.popStack()
	}
}

func (m *Manager) removeFromStack(p browserdriver.Page) {
	filtered := m.returnStack[:0]
	for _, candidate := range m.returnStack {
		if candidate != p {
			filtered = append(filtered, candidate)
		}
	}
	m.returnStack = filtered
}

func (m *Manager) popStack() browserdriver.Page {
	n := len(m.returnStack)
	if n == 0 {
		return nil
	}
	top := m.returnStack[n-1]
	m.returnStack = m.returnStack[:n-1]
	return top
}

// ActivePage returns the current active page, or nil if every page has
// closed (spec invariant: activePage is always one of the open pages or
// nil).
func (m *Manager) ActivePage() browserdriver.Page {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activePage
}

// SwitchTab resolves a switch_tab action's target: an integer index into
// the set of known pages (active page plus return stack, active first), or
// a case-insensitive substring match against title or URL. First match
// wins; the Open Question in spec §9 is resolved in favor of preserving
// this order rather than, e.g., most-recently-opened-first.
func (m *Manager) SwitchTab(target string) (browserdriver.Page, bool) {
	m.mu.Lock()
	pages := m.allPages()
	m.mu.Unlock()

	if idx, err := parseIndex(target); err == nil {
		if idx >= 0 && idx < len(pages) {
			m.focus(pages[idx])
			return pages[idx], true
		}
		return nil, false
	}

	lower := strings.ToLower(target)
	for _, p := range pages {
		if strings.Contains(strings.ToLower(p.URL()), lower) {
			m.focus(p)
			return p, true
		}
		if title, err := p.Title(); err == nil && strings.Contains(strings.ToLower(title), lower) {
			m.focus(p)
			return p, true
		}
	}
	return nil, false
}

// allPages returns active-page-first, then the return stack in LIFO order
// (most recently suspended first), matching the order new tabs are pushed.
func (m *Manager) allPages() []browserdriver.Page {
	out := make([]browserdriver.Page, 0, len(m.returnStack)+1)
	if m.activePage != nil {
		out = append(out, m.activePage)
	}
	for i := len(m.returnStack) - 1; i >= 0; i-- {
		out = append(out, m.returnStack[i])
	}
	return out
}

// focus makes target the active page, pushing the previously active page
// onto the return stack and removing target from the stack if present.
func (m *Manager) focus(target browserdriver.Page) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.activePage == target {
		return
	}
	m.removeFromStack(target)
	if m.activePage != nil {
		m.returnStack = append(m.returnStack, m.activePage)
	}
	m.activePage = target
	_ = target.BringToFront()
}

// CloseTab closes the active page and promotes the return-stack top.
func (m *Manager) CloseTab() error {
	m.mu.Lock()
	current := m.activePage
	m.mu.Unlock()

	if current == nil {
		return nil
	}
	return current.Close()
}

func parseIndex(s string) (int, error) {
	n := 0
	if s == "" {
		return 0, errNotAnIndex
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, errNotAnIndex
		}
		n = n*10 + int(c-'0')
	}
	return n, nil
}
