package executor

import (
	"fmt"
	"strings"

	"flashloop/internal/action"
	"flashloop/internal/selector"
)

// runPrimitive performs the mapped primitive for plan's actionType against
// the resolved locator(s), and returns the script fragment that reproduces
// it, per the table in spec §4.8.
func runPrimitive(plan action.Plan, resolved selector.Resolved, aux *selector.Resolved) (string, error) {
	loc := resolved.Locator
	frag := resolved.CodeFragment

	switch plan.ActionType {
	case action.Click:
		return wrap(frag, "click()", loc.Click())
	case action.Dblclick:
		return wrap(frag, "dblclick()", loc.Dblclick())
	case action.RightClick:
		return wrap(frag, "click({ button: 'right' })", loc.Click())
	case action.Hover:
		return wrap(frag, "hover()", loc.Hover())
	case action.Focus:
		return wrap(frag, "focus()", loc.Focus())
	case action.Clear:
		return wrap(frag, "clear()", loc.Clear())
	case action.Check:
		return wrap(frag, "check()", loc.Check())
	case action.Uncheck:
		return wrap(frag, "uncheck()", loc.Uncheck())

	case action.Fill:
		return wrap(frag, fmt.Sprintf("fill('%s')", escape(plan.Value)), loc.Fill(plan.Value))
	case action.TypeText:
		return wrap(frag, fmt.Sprintf("pressSequentially('%s')", escape(plan.Value)), loc.PressSequentially(plan.Value))
	case action.Keypress:
		return wrap(frag, fmt.Sprintf("press('%s')", escape(plan.Value)), loc.Press(plan.Value))

	case action.SelectOption:
		if err := loc.SelectOptionByLabel(plan.Value); err == nil {
			return wrap(frag, fmt.Sprintf("selectOption({ label: '%s' })", escape(plan.Value)), nil)
		}
		return wrap(frag, fmt.Sprintf("selectOption('%s')", escape(plan.Value)), loc.SelectOptionByValue(plan.Value))

	case action.Upload:
		files := strings.Split(plan.Value, ",")
		for i := range files {
			files[i] = strings.TrimSpace(files[i])
		}
		return wrap(frag, fmt.Sprintf("setInputFiles([%s])", quoteJoin(files)), loc.SetInputFiles(files))

	case action.Scroll:
		return wrap(frag, "scrollIntoViewIfNeeded()", loc.ScrollIntoView())

	case action.DragAndDrop:
		if aux == nil {
			return "", fmt.Errorf("drag_and_drop requires targetId2")
		}
		err := loc.DragTo(aux.Locator)
		return fmt.Sprintf("await %s.dragTo(%s);", frag, aux.CodeFragment), err

	case action.AssertVisible:
		visible, err := loc.IsVisible()
		if err == nil && !visible {
			err = fmt.Errorf("assertion failed: element is not visible")
		}
		return fmt.Sprintf("await expect(%s).toBeVisible();", frag), err

	case action.AssertText:
		text, err := loc.TextContent()
		if err == nil && !strings.Contains(text, plan.Value) {
			err = fmt.Errorf("assertion failed: expected text containing %q, got %q", plan.Value, text)
		}
		return fmt.Sprintf("await expect(%s).toContainText('%s');", frag, escape(plan.Value)), err

	case action.AssertValue:
		value, err := loc.InputValue()
		if err == nil && value != plan.Value {
			err = fmt.Errorf("assertion failed: expected value %q, got %q", plan.Value, value)
		}
		return fmt.Sprintf("await expect(%s).toHaveValue('%s');", frag, escape(plan.Value)), err

	default:
		return "", fmt.Errorf("unsupported action %q", plan.ActionType)
	}
}

func wrap(frag, method string, err error) (string, error) {
	return fmt.Sprintf("await %s.%s;", frag, method), err
}

func quoteJoin(items []string) string {
	quoted := make([]string, len(items))
	for i, it := range items {
		quoted[i] = "'" + escape(it) + "'"
	}
	return strings.Join(quoted, ", ")
}
