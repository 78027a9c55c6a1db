package input

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	statepkg "github.com/kk-code-lab/mdblocks/internal/state"
)

// InputHandler turns terminal events into editor actions. Bracketed pastes
// are buffered so a paste reaches the document as one edit.
type InputHandler struct {
	actionChan chan statepkg.Action
	state      *statepkg.AppState

	pasting bool
	paste   strings.Builder
}

func NewInputHandler(actionChan chan statepkg.Action) *InputHandler {
	return &InputHandler{
		actionChan: actionChan,
	}
}

// SetState gives the handler the state it consults for pane and overlay.
func (ih *InputHandler) SetState(state *statepkg.AppState) {
	ih.state = state
}

// ProcessEvent converts a tcell event into an Action. It returns false when
// the application should quit.
func (ih *InputHandler) ProcessEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ih.pasting {
			ih.bufferPaste(ev)
			return true
		}
		return ih.processKeyEvent(ev)
	case *tcell.EventPaste:
		ih.processPaste(ev)
		return true
	case *tcell.EventResize:
		w, h := ev.Size()
		ih.actionChan <- statepkg.ResizeAction{Width: w, Height: h}
		return true
	default:
		return true
	}
}

// processPaste collects a bracketed paste into a single CharAction so the
// document is written once instead of once per rune.
func (ih *InputHandler) processPaste(ev *tcell.EventPaste) {
	if ev.Start() {
		ih.pasting = true
		ih.paste.Reset()
		return
	}
	ih.pasting = false
	if ih.paste.Len() > 0 {
		ih.actionChan <- statepkg.CharAction{Text: ih.paste.String()}
	}
	ih.paste.Reset()
}

func (ih *InputHandler) bufferPaste(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyRune:
		ih.paste.WriteRune(ev.Rune())
	case tcell.KeyEnter:
		ih.paste.WriteByte('\n')
	case tcell.KeyTab:
		ih.paste.WriteByte('\t')
	}
}

// editingKeys maps keys that always produce the same action while the
// help overlay is closed.
var editingKeys = map[tcell.Key]statepkg.Action{
	tcell.KeyCtrlZ:      statepkg.SuspendAction{},
	tcell.KeyF1:         statepkg.HelpToggleAction{},
	tcell.KeyTab:        statepkg.TogglePaneAction{},
	tcell.KeyEnter:      statepkg.EnterAction{},
	tcell.KeyBackspace:  statepkg.BackspaceAction{},
	tcell.KeyBackspace2: statepkg.BackspaceAction{},
	tcell.KeyLeft:       statepkg.CursorLeftAction{},
	tcell.KeyRight:      statepkg.CursorRightAction{},
	tcell.KeyUp:         statepkg.CursorUpAction{},
	tcell.KeyDown:       statepkg.CursorDownAction{},
	tcell.KeyHome:       statepkg.CursorHomeAction{},
	tcell.KeyCtrlA:      statepkg.CursorHomeAction{},
	tcell.KeyEnd:        statepkg.CursorEndAction{},
	tcell.KeyCtrlE:      statepkg.CursorEndAction{},
}

func isQuitKey(key tcell.Key) bool {
	return key == tcell.KeyCtrlC || key == tcell.KeyCtrlQ
}

func (ih *InputHandler) processKeyEvent(ev *tcell.EventKey) bool {
	if isQuitKey(ev.Key()) {
		ih.actionChan <- statepkg.QuitAction{}
		return false
	}

	if ih.state != nil && ih.state.HelpVisible {
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyF1 {
			ih.actionChan <- statepkg.HelpHideAction{}
		}
		return true
	}

	if action, ok := editingKeys[ev.Key()]; ok {
		ih.actionChan <- action
		return true
	}

	switch ev.Key() {
	case tcell.KeyEscape:
		// Escape only means something while a block holds the caret.
		if ih.state == nil || ih.state.Pane != statepkg.PaneMirror {
			ih.actionChan <- statepkg.UnfocusAction{}
		}
	case tcell.KeyRune:
		if ev.Modifiers()&(tcell.ModCtrl|tcell.ModAlt) == 0 {
			ih.actionChan <- statepkg.CharAction{Text: string(ev.Rune())}
		}
	}
	return true
}
