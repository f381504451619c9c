package pagectx

import (
	"time"

	"flashloop/internal/browserdriver"
)

// handleDialog arms the single-slot mailbox and the safety-net timer. Any
// dialog arriving while one is already pending replaces it only after the
// previous timer has fired — in practice the browser driver itself never
// surfaces a second dialog before the first is resolved, so this is a
// defensive no-op path rather than a load-bearing one.
func (m *Manager) handleDialog(p browserdriver.Page, d browserdriver.Dialog) {
	m.mu.Lock()
	if m.dialogTimer != nil {
		m.dialogTimer.Stop()
	}

	pending := &PendingDialog{
		Type:    d.Type(),
		Message: d.Message(),
		handle:  d,
	}
	pending.ScheduledAutoClose = time.Now().Add(m.dialogTimeout)
	m.dialog = pending

	timeout := m.dialogTimeout
	m.mu.Unlock()

	m.dialogTimer = time.AfterFunc(timeout, func() {
		m.autoResolveDialog(pending)
	})
}

// autoResolveDialog implements the safety-net: beforeunload dialogs accept
// (letting navigation proceed), every other dialog type dismisses.
func (m *Manager) autoResolveDialog(pending *PendingDialog) {
	m.mu.Lock()
	if m.dialog != pending {
		m.mu.Unlock()
		return
	}
	m.dialog = nil
	m.mu.Unlock()

	if pending.Type == "beforeunload" {
		_ = pending.handle.Accept("")
		return
	}
	_ = pending.handle.Dismiss()
}

// PendingDialog returns the currently pending dialog, or nil.
func (m *Manager) PendingDialog() *PendingDialog {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dialog
}

// ResolveDialog clears the mailbox and either accepts (with promptText) or
// dismisses the pending dialog, cancelling the safety-net timer. Returns
// false if there was no pending dialog to resolve.
func (m *Manager) ResolveDialog(accept bool, promptText string) bool {
	m.mu.Lock()
	pending := m.dialog
	if pending == nil {
		m.mu.Unlock()
		return false
	}
	m.dialog = nil
	if m.dialogTimer != nil {
		m.dialogTimer.Stop()
	}
	m.mu.Unlock()

	if accept {
		_ = pending.handle.Accept(promptText)
	} else {
		_ = pending.handle.Dismiss()
	}
	return true
}
