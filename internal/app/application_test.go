package app

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	statepkg "github.com/kk-code-lab/mdblocks/internal/state"
	"github.com/rs/zerolog"
)

func newTestApplication(t *testing.T, text string) (*Application, tcell.SimulationScreen) {
	t.Helper()
	scr := tcell.NewSimulationScreen("")
	if err := scr.Init(); err != nil {
		t.Fatalf("init simulation screen: %v", err)
	}
	scr.SetSize(80, 10)
	app := newApplication(scr, Options{InitialText: text, Logger: zerolog.Nop()})
	t.Cleanup(func() { _ = app.Close() })
	return app, scr
}

func TestNewApplicationMountsDocument(t *testing.T) {
	scr := tcell.NewSimulationScreen("")
	if err := scr.Init(); err != nil {
		t.Fatalf("init simulation screen: %v", err)
	}
	scr.SetSize(100, 20)

	app := newApplication(scr, Options{
		InitialText:        "# a\n\nb",
		TabWidth:           2,
		MirrorWidthPercent: 40,
		Logger:             zerolog.Nop(),
	})
	defer app.Close()

	if app.session.Len() != 2 {
		t.Fatalf("expected 2 blocks, got %d", app.session.Len())
	}
	if app.state.TabWidth != 2 || app.state.MirrorWidthPercent != 40 {
		t.Fatalf("options not applied: %+v", app.state)
	}
	if app.state.ScreenWidth != 100 || app.state.ScreenHeight != 20 {
		t.Fatalf("expected screen size 100x20, got %dx%d", app.state.ScreenWidth, app.state.ScreenHeight)
	}
	if app.Text() != "# a\n\nb" {
		t.Fatalf("unexpected text %q", app.Text())
	}
}

func TestNewApplicationDefaults(t *testing.T) {
	app, _ := newTestApplication(t, "")

	if app.state.TabWidth != 4 || app.state.MirrorWidthPercent != 50 {
		t.Fatalf("unexpected defaults: tab=%d percent=%d", app.state.TabWidth, app.state.MirrorWidthPercent)
	}
	if app.session.Len() != 0 {
		t.Fatalf("expected no blocks, got %d", app.session.Len())
	}
}

func TestRunAppliesKeysUntilQuit(t *testing.T) {
	app, scr := newTestApplication(t, "abc")

	for _, ev := range []tcell.Event{
		tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone),
		tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl),
	} {
		if err := scr.PostEvent(ev); err != nil {
			t.Fatalf("post event: %v", err)
		}
	}

	done := make(chan struct{})
	go func() {
		app.Run()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("Run did not return after Ctrl-C")
	}

	if got := app.Text(); got != "xabc" {
		t.Fatalf("expected typed text in document, got %q", got)
	}
}

func TestHandleActionQuit(t *testing.T) {
	app, _ := newTestApplication(t, "abc")

	if app.handleAction(statepkg.QuitAction{}) {
		t.Fatalf("quit should not request a render")
	}
	if !app.shouldQuit {
		t.Fatalf("expected shouldQuit")
	}
}

func TestHandleActionRecordsReducerErrors(t *testing.T) {
	app, _ := newTestApplication(t, "abc")

	if !app.handleAction(statepkg.FocusBlockAction{Index: 7}) {
		t.Fatalf("expected render after failed action")
	}
	if app.state.LastError == nil {
		t.Fatalf("expected LastError to be set")
	}

	app.handleAction(statepkg.CharAction{Text: "!"})
	if app.state.LastError != nil {
		t.Fatalf("expected LastError cleared by next action, got %v", app.state.LastError)
	}
	if app.handleAction(nil) {
		t.Fatalf("nil action should be ignored")
	}
}

func TestHandleActionPasteIsOneRevision(t *testing.T) {
	app, _ := newTestApplication(t, "abc")

	app.input.ProcessEvent(tcell.NewEventPaste(true))
	for _, r := range "hi" {
		app.input.ProcessEvent(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
	}
	app.input.ProcessEvent(tcell.NewEventPaste(false))
	app.processActions()

	if got := app.Text(); got != "hiabc" {
		t.Fatalf("unexpected text after paste %q", got)
	}
	if rev := app.doc.Revision(); rev != 1 {
		t.Fatalf("expected a single document write, got revision %d", rev)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	app, _ := newTestApplication(t, "abc")

	if err := app.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := app.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}
