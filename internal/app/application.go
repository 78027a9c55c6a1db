package app

import (
	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/mdblocks/internal/convert"
	"github.com/kk-code-lab/mdblocks/internal/document"
	"github.com/kk-code-lab/mdblocks/internal/editor"
	statepkg "github.com/kk-code-lab/mdblocks/internal/state"
	inputui "github.com/kk-code-lab/mdblocks/internal/ui/input"
	renderui "github.com/kk-code-lab/mdblocks/internal/ui/render"
	"github.com/rs/zerolog"
)

// Options configures a new Application.
type Options struct {
	InitialText        string
	TabWidth           int
	MirrorWidthPercent int
	Logger             zerolog.Logger
}

// Application represents the running app.
type Application struct {
	screen     tcell.Screen
	doc        *document.State
	session    *editor.Session
	state      *statepkg.AppState
	reducer    *statepkg.StateReducer
	renderer   *renderui.Renderer
	input      *inputui.InputHandler
	actionCh   chan statepkg.Action
	log        zerolog.Logger
	shouldQuit bool
	closed     bool
}

// NewApplication opens the terminal and mounts the initial document.
func NewApplication(opts Options) (*Application, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.EnableMouse()
	screen.EnablePaste()
	return newApplication(screen, opts), nil
}

func newApplication(screen tcell.Screen, opts Options) *Application {
	log := opts.Logger
	doc := document.New(opts.InitialText, document.WithLogger(log))
	conv := convert.New(convert.WithLogger(log))
	session := editor.NewSession(doc, conv, editor.WithLogger(log))

	state := statepkg.NewAppState(doc, session)
	if opts.TabWidth > 0 {
		state.TabWidth = opts.TabWidth
	}
	if opts.MirrorWidthPercent > 0 {
		state.MirrorWidthPercent = opts.MirrorWidthPercent
	}
	state.ScreenWidth, state.ScreenHeight = screen.Size()

	actionCh := make(chan statepkg.Action, 10)
	inputHandler := inputui.NewInputHandler(actionCh)
	inputHandler.SetState(state)

	log.Info().Int("bytes", len(opts.InitialText)).Int("blocks", session.Len()).Msg("document mounted")

	return &Application{
		screen:   screen,
		doc:      doc,
		session:  session,
		state:    state,
		reducer:  statepkg.NewStateReducer(statepkg.WithLogger(log)),
		renderer: renderui.NewRenderer(screen),
		input:    inputHandler,
		actionCh: actionCh,
		log:      log,
	}
}

// Text returns the current markdown document.
func (app *Application) Text() string {
	return app.doc.Text()
}

// Close cleans up resources.
func (app *Application) Close() error {
	if app.closed {
		return nil
	}
	app.closed = true
	app.session.Close()
	app.screen.Fini()
	return nil
}
