package app

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	statepkg "github.com/kk-code-lab/mdblocks/internal/state"
)

func nextAction(t *testing.T, ch chan statepkg.Action) statepkg.Action {
	t.Helper()
	select {
	case act := <-ch:
		return act
	default:
		t.Fatalf("expected an action")
		return nil
	}
}

func expectNoAction(t *testing.T, ch chan statepkg.Action) {
	t.Helper()
	select {
	case act := <-ch:
		t.Fatalf("expected no action, got %T", act)
	default:
	}
}

func TestHandleMouseFocusesClickedBlock(t *testing.T) {
	app, _ := newTestApplication(t, "# Hello\n\nworld")
	app.renderer.Render(app.state)

	// blocks pane text starts at column 43; row 3 holds the second block
	app.handleMouse(tcell.NewEventMouse(45, 3, tcell.Button1, tcell.ModNone))

	act, ok := nextAction(t, app.actionCh).(statepkg.FocusBlockAction)
	if !ok || act.Index != 1 || act.Offset != 2 {
		t.Fatalf("unexpected action %#v", act)
	}

	app.handleAction(act)
	if app.session.Focused() != 1 || app.session.FocusedController().Offset() != 2 {
		t.Fatalf("expected block 1 focused at 2")
	}
}

func TestHandleMouseMovesMirrorCursor(t *testing.T) {
	app, _ := newTestApplication(t, "# Hello\n\nworld")
	app.renderer.Render(app.state)

	app.handleMouse(tcell.NewEventMouse(1, 3, tcell.Button1, tcell.ModNone))

	act, ok := nextAction(t, app.actionCh).(statepkg.MirrorCursorAction)
	if !ok || act.Offset != 10 {
		t.Fatalf("unexpected action %#v", act)
	}

	app.handleAction(act)
	if app.state.Pane != statepkg.PaneMirror || app.state.MirrorCursor != 10 {
		t.Fatalf("expected mirror pane with cursor 10, got %s/%d", app.state.Pane, app.state.MirrorCursor)
	}
}

func TestHandleMouseIgnoresNonPrimaryAndChrome(t *testing.T) {
	app, _ := newTestApplication(t, "# Hello\n\nworld")

	app.handleMouse(tcell.NewEventMouse(45, 3, tcell.Button1, tcell.ModNone))
	expectNoAction(t, app.actionCh)

	app.renderer.Render(app.state)

	app.handleMouse(tcell.NewEventMouse(45, 3, tcell.ButtonNone, tcell.ModNone))
	expectNoAction(t, app.actionCh)

	app.handleMouse(tcell.NewEventMouse(45, 2, tcell.Button1, tcell.ModNone))
	expectNoAction(t, app.actionCh)

	app.handleMouse(tcell.NewEventMouse(5, 0, tcell.Button1, tcell.ModNone))
	expectNoAction(t, app.actionCh)

	app.state.HelpVisible = true
	app.handleMouse(tcell.NewEventMouse(45, 3, tcell.Button1, tcell.ModNone))
	expectNoAction(t, app.actionCh)
}
