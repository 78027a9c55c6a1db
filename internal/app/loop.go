package app

import (
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"
	statepkg "github.com/kk-code-lab/mdblocks/internal/state"
)

// pollEvents forwards screen events until the screen is finalized, then
// closes the returned channel.
func pollEvents(screen tcell.Screen) <-chan tcell.Event {
	events := make(chan tcell.Event)
	go func() {
		defer close(events)
		for ev := screen.PollEvent(); ev != nil; ev = screen.PollEvent() {
			events <- ev
		}
	}()
	return events
}

// notifyResume returns a channel that fires when the process is continued
// after a stop. It is nil where job control does not exist.
func notifyResume() (<-chan os.Signal, func()) {
	sigs := contSignals()
	if len(sigs) == 0 {
		return nil, func() {}
	}
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sigs...)
	return ch, func() { signal.Stop(ch) }
}

// Run draws the editor and processes terminal events until the user quits.
// Each wake-up drains every queued action before a single redraw.
func (app *Application) Run() {
	events := pollEvents(app.screen)
	resumed, stop := notifyResume()
	defer stop()

	dirty := true
	for !app.shouldQuit {
		if dirty {
			app.renderer.Render(app.state)
			dirty = false
		}

		select {
		case ev, ok := <-events:
			if !ok {
				app.shouldQuit = true
				continue
			}
			dirty = app.handleEvent(ev)
		case action := <-app.actionCh:
			dirty = app.handleAction(action)
		case <-resumed:
			dirty = app.resumeAfterStop()
		}

		if app.processActions() {
			dirty = true
		}
	}
	app.log.Info().Uint64("revision", app.doc.Revision()).Msg("editor closed")
}

func (app *Application) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey, *tcell.EventPaste, *tcell.EventResize:
		if !app.input.ProcessEvent(ev) {
			app.shouldQuit = true
		}
	case *tcell.EventMouse:
		app.handleMouse(ev)
	case *tcell.EventInterrupt:
		return true
	default:
		return false
	}
	return true
}

// handleMouse maps primary clicks to a block caret or a plain-text cursor
// using the geometry of the last render.
func (app *Application) handleMouse(ev *tcell.EventMouse) {
	if app.state == nil || app.state.HelpVisible {
		return
	}
	if ev.Buttons()&tcell.Button1 == 0 {
		return
	}
	layout, ok := app.renderer.LastLayout()
	if !ok {
		return
	}

	x, y := ev.Position()
	if index, offset, hit := layout.BlockAt(x, y); hit {
		app.actionCh <- statepkg.FocusBlockAction{Index: index, Offset: offset}
		return
	}
	if offset, hit := layout.MirrorAt(x, y); hit {
		app.actionCh <- statepkg.MirrorCursorAction{Offset: offset}
	}
}

func (app *Application) processActions() bool {
	changed := false
	for len(app.actionCh) > 0 {
		changed = app.handleAction(<-app.actionCh) || changed
	}
	return changed
}

func (app *Application) handleAction(action statepkg.Action) bool {
	if action == nil {
		return false
	}

	switch action.(type) {
	case statepkg.QuitAction:
		app.shouldQuit = true
		return false
	case statepkg.SuspendAction:
		app.suspendToShell()
		app.resumeAfterStop()
		return true
	}

	if _, err := app.reducer.Reduce(app.state, action); err != nil {
		app.log.Warn().Err(err).Type("action", action).Msg("action failed")
		app.state.LastError = err
	}
	return true
}
