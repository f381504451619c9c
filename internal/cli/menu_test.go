package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flashloop/internal/action"
	"flashloop/internal/loop"
	"flashloop/internal/observer"
)

func fakeReadLine(lines ...string) func() (string, error) {
	i := 0
	return func() (string, error) {
		if i >= len(lines) {
			return "", errors.New("no more input")
		}
		line := lines[i]
		i++
		return line, nil
	}
}

func TestReadlineMenuExecuteOnEmptyOrEInput(t *testing.T) {
	m := NewReadlineMenu(fakeReadLine(""))
	decision, _, err := m.Prompt(action.Plan{ActionType: action.Click}, observer.State{})
	require.NoError(t, err)
	assert.Equal(t, loop.DecisionExecute, decision)
}

func TestReadlineMenuSkip(t *testing.T) {
	m := NewReadlineMenu(fakeReadLine("s"))
	decision, _, err := m.Prompt(action.Plan{ActionType: action.Click}, observer.State{})
	require.NoError(t, err)
	assert.Equal(t, loop.DecisionSkip, decision)
}

func TestReadlineMenuQuit(t *testing.T) {
	m := NewReadlineMenu(fakeReadLine("quit"))
	decision, _, err := m.Prompt(action.Plan{ActionType: action.Click}, observer.State{})
	require.NoError(t, err)
	assert.Equal(t, loop.DecisionQuit, decision)
}

func TestReadlineMenuOverrideReturnsNewActionType(t *testing.T) {
	m := NewReadlineMenu(fakeReadLine("o", "go_back"))
	decision, override, err := m.Prompt(action.Plan{ActionType: action.Click}, observer.State{})
	require.NoError(t, err)
	assert.Equal(t, loop.DecisionOverride, decision)
	assert.Equal(t, "go_back", override)
}

func TestReadlineMenuRetriesOnUnrecognizedChoiceThenQuits(t *testing.T) {
	m := NewReadlineMenu(fakeReadLine("bogus", "q"))
	decision, _, err := m.Prompt(action.Plan{ActionType: action.Click}, observer.State{URL: "https://example.com"})
	require.NoError(t, err)
	assert.Equal(t, loop.DecisionQuit, decision)
}

func TestReadlineMenuPropagatesReadError(t *testing.T) {
	m := NewReadlineMenu(fakeReadLine())
	_, _, err := m.Prompt(action.Plan{ActionType: action.Click}, observer.State{})
	assert.Error(t, err)
}
