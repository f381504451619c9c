package errtranslate

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslateCategories(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Category
	}{
		{"timeout", errors.New("waiting for selector failed: timeout 10000ms exceeded"), CategoryTimeout},
		{"intercepted", errors.New("element is not receiving events because another element intercepts pointer events"), CategoryClickIntercepted},
		{"detached", errors.New("element is not attached to the DOM"), CategoryDetachedStale},
		{"hidden", errors.New("element is not visible"), CategoryNotVisible},
		{"nav", errors.New("net::ERR_CONNECTION_REFUSED at http://x"), CategoryNavigationFailed},
		{"selector", errors.New("FailedRobustSelector: no candidate selector matched"), CategorySelectorSynthFail},
		{"other", errors.New("something completely unrelated happened"), CategoryUnknown},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Translate(c.err)
			assert.Equal(t, c.want, got.Category)
			assert.NotEmpty(t, got.Guidance)
		})
	}
}

func TestTranslateNilError(t *testing.T) {
	got := Translate(nil)
	assert.Equal(t, Result{}, got)
}

func TestTranslateTruncatesUnknownMessage(t *testing.T) {
	long := strings.Repeat("x", 500)
	got := Translate(errors.New(long))
	assert.Equal(t, CategoryUnknown, got.Category)
	assert.LessOrEqual(t, len(got.Guidance), maxUnknownMessageLen+len("Unrecognized error: "))
}

func TestIsFatalInput(t *testing.T) {
	assert.True(t, IsFatalInput(errors.New("action requires a target")))
	assert.True(t, IsFatalInput(errors.New("Target ID is missing from plan")))
	assert.False(t, IsFatalInput(errors.New("timeout waiting for selector")))
	assert.False(t, IsFatalInput(nil))
}

func TestResultString(t *testing.T) {
	r := Result{Category: CategoryTimeout, Guidance: "retry"}
	assert.Equal(t, "Timeout: retry", r.String())
}
