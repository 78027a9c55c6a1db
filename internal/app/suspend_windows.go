//go:build windows

package app

import "os"

// There is no job control on Windows: Ctrl-Z keeps editing.
func contSignals() []os.Signal { return nil }

func (app *Application) suspendToShell() {
	app.log.Debug().Msg("suspend is not supported on windows")
}

func (app *Application) resumeAfterStop() bool {
	return false
}
