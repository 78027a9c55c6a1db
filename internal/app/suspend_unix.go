//go:build !windows

package app

import (
	"os"
	"syscall"

	"github.com/gdamore/tcell/v2"
)

// contSignals are the signals that mean the shell resumed us after Ctrl-Z.
func contSignals() []os.Signal {
	return []os.Signal{syscall.SIGCONT}
}

func (app *Application) suspendToShell() {
	app.log.Debug().Uint64("revision", app.doc.Revision()).Msg("suspending to shell")
	// Hand the terminal back before stopping.
	_ = app.screen.Suspend()
	// Stop only this process, not the process group, so the launching shell
	// keeps job control.
	_ = syscall.Kill(syscall.Getpid(), syscall.SIGTSTP)
}

// resumeAfterStop retakes the terminal after SIGCONT. The screen is redrawn
// from scratch because the shell may have written over it.
func (app *Application) resumeAfterStop() bool {
	if err := app.screen.Resume(); err != nil {
		app.log.Warn().Err(err).Msg("resume failed")
		return false
	}
	app.screen.EnableMouse()
	app.screen.EnablePaste()
	app.screen.Sync()
	_ = app.screen.PostEvent(tcell.NewEventInterrupt("resume"))
	if w, h := app.screen.Size(); w > 0 && h > 0 {
		app.state.ScreenWidth = w
		app.state.ScreenHeight = h
	}
	return true
}
