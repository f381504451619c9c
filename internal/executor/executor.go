// Package executor is the Executor (spec §4.8): validates the Action Plan,
// dispatches it into one of four bands (meta, context, navigation,
// element), calls the Selector Synthesizer for element-bound actions, runs
// the mapped primitive, waits for restabilization, and emits the matching
// script fragment. Grounded on the teacher's internal/agent/agent.go
// (executeAction's switch-on-action-type dispatch) and
// internal/browser/browser.go (wait-then-act-then-settle sequencing),
// generalized from four hardcoded actions to the spec's full closed set.
package executor

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"flashloop/internal/action"
	"flashloop/internal/browserdriver"
	"flashloop/internal/errtranslate"
	"flashloop/internal/observer"
	"flashloop/internal/pagectx"
	"flashloop/internal/selector"
	"flashloop/internal/stability"
)

// Executor dispatches one validated Action Plan per call to Execute.
type Executor struct {
	ctxMgr *pagectx.Manager
	wait   stability.Config
}

// New wires an Executor to the Context Manager that owns page/dialog state.
func New(ctxMgr *pagectx.Manager) *Executor {
	return &Executor{ctxMgr: ctxMgr, wait: stability.DefaultConfig()}
}

// Execute runs plan against page using catalog to resolve element targets,
// and returns the spec's Execution Result shape.
func (e *Executor) Execute(page browserdriver.Page, plan action.Plan, catalog map[string]observer.Descriptor) action.Result {
	if err := plan.Validate(); err != nil {
		return fatalResult(err)
	}

	switch {
	case plan.ActionType == action.Finish:
		return action.Result{Success: true}

	case isContextAction(plan.ActionType):
		return e.executeContext(page, plan, catalog)

	case isNavigationAction(plan.ActionType):
		return e.executeNavigation(page, plan)

	case plan.ActionType == action.AssertURL:
		return e.executeAssertURL(page, plan)

	default:
		return e.executeElement(page, plan, catalog)
	}
}

// executeAssertURL is a page-level assertion, not an element-bound one —
// it never touches the catalog or the Selector Synthesizer.
func (e *Executor) executeAssertURL(page browserdriver.Page, plan action.Plan) action.Result {
	code := fmt.Sprintf("await expect(page).toHaveURL('%s');", escape(plan.Value))
	if page.URL() != plan.Value {
		return retryableResult(fmt.Errorf("assertion failed: expected URL %q, got %q", plan.Value, page.URL()))
	}
	return action.Result{Success: true, GeneratedCode: code}
}

func isContextAction(t action.Type) bool {
	switch t {
	case action.SwitchTab, action.CloseTab, action.HandleDialog, action.WaitForElem:
		return true
	default:
		return false
	}
}

func isNavigationAction(t action.Type) bool {
	switch t {
	case action.Navigate, action.Reload, action.GoBack:
		return true
	default:
		return false
	}
}

func (e *Executor) executeContext(page browserdriver.Page, plan action.Plan, catalog map[string]observer.Descriptor) action.Result {
	switch plan.ActionType {
	case action.SwitchTab:
		target, ok := e.ctxMgr.SwitchTab(plan.Value)
		if !ok {
			return fatalResult(fmt.Errorf("switch_tab target %q not found", plan.Value))
		}
		_ = target
		return action.Result{Success: true, GeneratedCode: fmt.Sprintf("await page.bringToFront(); // switched to tab matching '%s'", escape(plan.Value))}

	case action.CloseTab:
		if err := e.ctxMgr.CloseTab(); err != nil {
			return retryableResult(err)
		}
		return action.Result{Success: true, GeneratedCode: "await page.close();"}

	case action.HandleDialog:
		accept := plan.Value == "accept"
		ok := e.ctxMgr.ResolveDialog(accept, "")
		if !ok {
			return fatalResult(fmt.Errorf("handle_dialog: no pending dialog"))
		}
		method := "dismiss"
		if accept {
			method = "accept"
		}
		return action.Result{Success: true, GeneratedCode: fmt.Sprintf("page.once('dialog', d => d.%s());", method)}

	case action.WaitForElem:
		return e.waitForElement(page, plan, catalog)
	}
	return fatalResult(fmt.Errorf("unsupported action %q", plan.ActionType))
}

func (e *Executor) waitForElement(page browserdriver.Page, plan action.Plan, catalog map[string]observer.Descriptor) action.Result {
	desc, ok := catalog[plan.TargetID]
	if !ok {
		return fatalResult(fmt.Errorf("target %s not found in memory", plan.TargetID))
	}

	resolved, err := selector.Resolve(page, desc)
	if err != nil {
		return retryableResult(err)
	}

	if err := resolved.Locator.WaitForVisible(10 * time.Second); err != nil {
		return retryableResult(err)
	}

	code := fmt.Sprintf("await %s.waitFor({ state: 'visible', timeout: 10000 });", resolved.CodeFragment)
	return action.Result{Success: true, GeneratedCode: code}
}

func (e *Executor) executeNavigation(page browserdriver.Page, plan action.Plan) action.Result {
	var err error
	var code string

	switch plan.ActionType {
	case action.Navigate:
		if _, parseErr := url.ParseRequestURI(plan.Value); parseErr != nil {
			return fatalResult(fmt.Errorf("navigate requires a URL: %w", parseErr))
		}
		err = page.Goto(plan.Value, 30*time.Second)
		code = fmt.Sprintf("await page.goto('%s');", escape(plan.Value))

	case action.Reload:
		err = page.Reload()
		code = "await page.reload();"

	case action.GoBack:
		err = page.GoBack()
		code = "await page.goBack();"
	}

	if err != nil {
		return retryableResult(err)
	}

	e.settle(page)
	return action.Result{Success: true, GeneratedCode: code}
}

func (e *Executor) executeElement(page browserdriver.Page, plan action.Plan, catalog map[string]observer.Descriptor) action.Result {
	desc, ok := catalog[plan.TargetID]
	if !ok {
		return fatalResult(fmt.Errorf("target %s not found in memory", plan.TargetID))
	}

	resolved, err := selector.Resolve(page, desc)
	if err != nil {
		return retryableResult(err)
	}

	var aux *selector.Resolved
	if plan.ActionType == action.DragAndDrop {
		targetDesc, ok := catalog[plan.TargetID2]
		if !ok {
			return fatalResult(fmt.Errorf("target %s not found in memory", plan.TargetID2))
		}
		auxResolved, err := selector.Resolve(page, targetDesc)
		if err != nil {
			return retryableResult(err)
		}
		aux = &auxResolved
	}

	code, err := runPrimitive(plan, resolved, aux)
	if err != nil {
		return retryableResult(err)
	}

	e.settle(page)
	return action.Result{Success: true, GeneratedCode: code}
}

// settle runs the post-primitive wait sequence: a load-state wait, then a
// best-effort 1s networkidle whose errors are absorbed (spec §4.8).
func (e *Executor) settle(page browserdriver.Page) {
	_ = page.WaitForLoadState("domcontentloaded", 5*time.Second)
	_ = page.WaitForLoadState("networkidle", 1*time.Second)
}

func escape(s string) string {
	return strings.ReplaceAll(s, "'", "\\'")
}

func fatalResult(err error) action.Result {
	t := errtranslate.Translate(err)
	return action.Result{Success: false, Err: err, UserGuidance: t.String(), Retryable: false}
}

func retryableResult(err error) action.Result {
	t := errtranslate.Translate(err)
	retryable := !errtranslate.IsFatalInput(err)
	return action.Result{Success: false, Err: err, UserGuidance: t.String(), Retryable: retryable}
}
