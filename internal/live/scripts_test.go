package live

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJSStringQuotes(t *testing.T) {
	assert.Equal(t, `"it's \"quoted\""`, jsString(`it's "quoted"`))
	assert.Equal(t, `"\u003cb\u003e"`, jsString("<b>"))
}

func TestInstallScriptCarriesFocusColor(t *testing.T) {
	s := installScript("#ff0000")
	assert.Contains(t, s, "#ff0000")
	assert.Contains(t, s, overlayID)
	assert.Contains(t, s, keyBinding)
}

func TestFocusScriptTargetsStampedElement(t *testing.T) {
	s := focusScript("v3")
	assert.Contains(t, s, `"v3"`)
	assert.Contains(t, s, "data-iyf-id")
	assert.Contains(t, s, "scrollIntoView")
}

func TestActivateScriptKind(t *testing.T) {
	s := activateScript("v1", "link")
	assert.Contains(t, s, `switch ("link")`)
	assert.Contains(t, s, `"v1"`)
}

func TestRemoveScriptListsIDs(t *testing.T) {
	assert.Contains(t, removeScript([]string{"a1", "a2"}), `["a1","a2"]`)
}

func TestToastAndOverlayScripts(t *testing.T) {
	s := toastScript("IYF TV Mod loaded successfully", 3000)
	assert.Contains(t, s, `"IYF TV Mod loaded successfully"`)
	assert.Contains(t, s, "}, 3000);")

	assert.Contains(t, overlayScript(true), "toggle('visible', true)")
	assert.Contains(t, overlayScript(false), "toggle('visible', false)")
}

func TestVideoCommitScript(t *testing.T) {
	s := videoCommitScript(jsVideoState{Paused: true, CurrentTime: 42.5, Volume: 0.5, PlaybackRate: 1})
	assert.Contains(t, s, `"paused":true`)
	assert.Contains(t, s, `"currentTime":42.5`)
	assert.Contains(t, s, `"volume":0.5`)
}
