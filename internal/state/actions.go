package state

// Action is the base interface for all state mutations
type Action interface{}

// ===== EDITING ACTIONS =====

// CharAction inserts text at the cursor of the active pane.
type CharAction struct {
	Text string
}
type BackspaceAction struct{}
type EnterAction struct{}

// ===== CURSOR ACTIONS =====

type CursorLeftAction struct{}
type CursorRightAction struct{}
type CursorUpAction struct{}
type CursorDownAction struct{}
type CursorHomeAction struct{}
type CursorEndAction struct{}

// ===== FOCUS ACTIONS =====

type TogglePaneAction struct{}

// FocusBlockAction focuses block Index with the caret at Offset
// (characters from the block start).
type FocusBlockAction struct {
	Index  int
	Offset int
}

// MirrorCursorAction moves focus to the plain-text pane with the cursor at
// byte Offset of the mirror text.
type MirrorCursorAction struct {
	Offset int
}

type UnfocusAction struct{}

// ===== VIEW ACTIONS =====

type ResizeAction struct {
	Width  int
	Height int
}

type HelpToggleAction struct{}
type HelpHideAction struct{}

// ===== APPLICATION ACTIONS =====

type QuitAction struct{}
type SuspendAction struct{}
