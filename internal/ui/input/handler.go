package input

import (
	tea "github.com/charmbracelet/bubbletea"

	"iyftv/internal/ui/input/modes"
	"iyftv/internal/ui/input/types"
)

type Handler struct {
	currentMode types.Mode
	modes       map[types.Mode]types.ModeHandler
}

func New() *Handler {
	h := &Handler{
		currentMode: types.ModeNormal,
		modes:       make(map[types.Mode]types.ModeHandler),
	}

	// Register all mode handlers
	h.modes[types.ModeNormal] = modes.NewNormalMode()
	h.modes[types.ModePlayback] = modes.NewPlaybackMode()
	h.modes[types.ModeSettings] = modes.NewSettingsMode()
	h.modes[types.ModeResetConfirm] = modes.NewConfirmMode()

	return h
}

// HandleKey turns a key press into actions. Normal mode hands the keys to
// playback mode first while a video is playing.
func (h *Handler) HandleKey(msg tea.KeyMsg, ctx types.Context) []types.Action {
	mode := h.currentMode
	if mode == types.ModeNormal && ctx.VideoPlaying() {
		if actions, consumed := h.modes[types.ModePlayback].HandleKey(msg, ctx); consumed {
			return actions
		}
	}

	handler := h.modes[mode]
	if handler == nil {
		return nil
	}

	actions, consumed := handler.HandleKey(msg, ctx)
	if !consumed {
		return nil
	}

	var allActions []types.Action
	for _, action := range actions {
		changeMode, ok := action.(types.ChangeModeAction)
		if !ok {
			allActions = append(allActions, action)
			continue
		}

		// Exit current mode
		if current := h.modes[h.currentMode]; current != nil {
			allActions = append(allActions, current.Exit(ctx)...)
		}

		h.currentMode = changeMode.Mode

		// Enter new mode
		if next := h.modes[h.currentMode]; next != nil {
			allActions = append(allActions, next.Enter(ctx)...)
		}
	}

	return allActions
}

// HandleDOMKey handles a key pressed inside the live page
func (h *Handler) HandleDOMKey(key DOMKey, ctx types.Context) []types.Action {
	if key.InTextField() {
		return nil
	}
	msg, ok := KeyMsgForCode(key.Code)
	if !ok {
		return nil
	}
	return h.HandleKey(msg, ctx)
}

func (h *Handler) CurrentMode() types.Mode {
	return h.currentMode
}

// ModeName returns the display name of the current mode
func (h *Handler) ModeName() string {
	if m := h.modes[h.currentMode]; m != nil {
		return m.Name()
	}
	return ""
}

func (h *Handler) RegisterMode(mode types.Mode, handler types.ModeHandler) {
	h.modes[mode] = handler
}

func (h *Handler) Reset() {
	h.currentMode = types.ModeNormal
}
