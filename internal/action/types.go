// Package action defines the closed Action Plan schema the Planner emits
// and the Executor consumes (spec §3, §6). It is a tagged variant keyed on
// Type, validated once at the Executor boundary before dispatch, per the
// "Dynamic action schema" design note (spec §9).
package action

import "fmt"

// Type is the closed set of action types the Planner may emit.
type Type string

const (
	Click         Type = "click"
	Dblclick      Type = "dblclick"
	RightClick    Type = "right_click"
	Hover         Type = "hover"
	Focus         Type = "focus"
	Fill          Type = "fill"
	TypeText      Type = "type"
	Clear         Type = "clear"
	Check         Type = "check"
	Uncheck       Type = "uncheck"
	SelectOption  Type = "select_option"
	Upload        Type = "upload"
	DragAndDrop   Type = "drag_and_drop"
	Keypress      Type = "keypress"
	Navigate      Type = "navigate"
	Reload        Type = "reload"
	GoBack        Type = "go_back"
	Scroll        Type = "scroll"
	SwitchTab     Type = "switch_tab"
	CloseTab      Type = "close_tab"
	WaitForElem   Type = "wait_for_element"
	HandleDialog  Type = "handle_dialog"
	AssertVisible Type = "assert_visible"
	AssertText    Type = "assert_text"
	AssertValue   Type = "assert_value"
	AssertURL     Type = "assert_url"
	Finish        Type = "finish"
)

// validTypes is used for validation and for building the Planner's tool
// schema enum.
var validTypes = map[Type]bool{
	Click: true, Dblclick: true, RightClick: true, Hover: true, Focus: true,
	Fill: true, TypeText: true, Clear: true, Check: true, Uncheck: true,
	SelectOption: true, Upload: true, DragAndDrop: true, Keypress: true,
	Navigate: true, Reload: true, GoBack: true, Scroll: true,
	SwitchTab: true, CloseTab: true, WaitForElem: true, HandleDialog: true,
	AssertVisible: true, AssertText: true, AssertValue: true, AssertURL: true,
	Finish: true,
}

// AllTypes returns the closed set in stable declaration order, used to
// build the Planner's JSON-schema enum.
func AllTypes() []Type {
	return []Type{
		Click, Dblclick, RightClick, Hover, Focus, Fill, TypeText, Clear,
		Check, Uncheck, SelectOption, Upload, DragAndDrop, Keypress,
		Navigate, Reload, GoBack, Scroll, SwitchTab, CloseTab, WaitForElem,
		HandleDialog, AssertVisible, AssertText, AssertValue, AssertURL,
		Finish,
	}
}

// PlanStep is the optional adaptive-planning block (spec §3).
type PlanStep struct {
	CurrentStatus  string   `json:"currentStatus,omitempty"`
	RemainingSteps []string `json:"remainingSteps,omitempty"`
	IsPlanChanged  bool     `json:"isPlanChanged,omitempty"`
}

// Plan is the Planner's structured output (spec §3).
type Plan struct {
	Thought    string    `json:"thought,omitempty"`
	Plan       *PlanStep `json:"plan,omitempty"`
	ActionType Type      `json:"actionType"`
	TargetID   string    `json:"targetId,omitempty"`
	TargetID2  string    `json:"targetId2,omitempty"`
	Value      string    `json:"value,omitempty"`
	IsFinished bool       `json:"isFinished,omitempty"`
}

// Validate checks the plan's shape against the closed action-type set and
// the per-type required-field rules the Executor otherwise has to reject
// with a fatal "requires a target"/"requires a URL" error. Keeping the
// check here lets the Executor fail fast before it ever touches the
// browser driver.
func (p Plan) Validate() error {
	if p.ActionType == "" {
		return fmt.Errorf("plan is missing actionType")
	}
	if !validTypes[p.ActionType] {
		return fmt.Errorf("unsupported action %q", p.ActionType)
	}

	switch p.ActionType {
	case Navigate:
		if p.Value == "" {
			return fmt.Errorf("%s requires a URL", p.ActionType)
		}
	case HandleDialog:
		if p.Value != "accept" && p.Value != "dismiss" {
			return fmt.Errorf("%s requires a value of accept or dismiss", p.ActionType)
		}
	case SwitchTab:
		if p.Value == "" {
			return fmt.Errorf("%s requires a value (index or title/URL substring)", p.ActionType)
		}
	case DragAndDrop:
		if p.TargetID == "" || p.TargetID2 == "" {
			return fmt.Errorf("%s requires targetId and targetId2", p.ActionType)
		}
	case Finish, Reload, GoBack, CloseTab:
		// no target required
	case AssertURL:
		if p.Value == "" {
			return fmt.Errorf("%s requires a URL", p.ActionType)
		}
	default:
		if p.TargetID == "" {
			return fmt.Errorf("%s requires a target", p.ActionType)
		}
	}

	return nil
}

// IsElementAction reports whether the action resolves targetId against the
// current element catalog (the Executor's "Element" band, spec §4.8).
func (t Type) IsElementAction() bool {
	switch t {
	case Click, Dblclick, RightClick, Hover, Focus, Fill, TypeText, Clear,
		Check, Uncheck, SelectOption, Upload, DragAndDrop, Keypress, Scroll,
		AssertVisible, AssertText, AssertValue:
		return true
	default:
		return false
	}
}

// Result is the Executor's outcome for one step (spec §3).
type Result struct {
	Success       bool
	GeneratedCode string
	Err           error
	UserGuidance  string
	Retryable     bool
}
