package input

// Action is a user intent decoded from a terminal event.
type Action interface{}

type QuitAction struct{}

type ResizeAction struct {
	Width  int
	Height int
}

type HelpToggleAction struct{}

type HelpHideAction struct{}

// ScrollAction moves the view by whole cells.
type ScrollAction struct {
	Cols int
	Rows int
}

// ScrollPageAction moves the view by one screen; Direction is -1 or 1.
type ScrollPageAction struct {
	Direction int
}

type ScrollToStartAction struct{}

type ScrollToEndAction struct{}

type ToggleWrapAction struct{}

// FindStartAction opens the find prompt, keeping the current query for editing.
type FindStartAction struct{}

type FindCharAction struct {
	Char rune
}

type FindBackspaceAction struct{}

type FindDeleteWordAction struct{}

// FindAcceptAction closes the prompt and keeps the highlights.
type FindAcceptAction struct{}

type FindNextAction struct{}

type FindPreviousAction struct{}

// FindDoneAction closes the prompt and clears every highlight.
type FindDoneAction struct{}

// EditAction opens the viewed file in the external editor.
type EditAction struct{}

type SuspendAction struct{}
