package input

import (
	"unicode"

	"github.com/gdamore/tcell/v2"
)

// Mode is the part of the viewer state that changes how keys are read.
type Mode struct {
	Prompt      bool
	HelpVisible bool
	// Finding is true while a query has results or a search in flight.
	Finding bool
}

// InputHandler converts tcell events to Actions
type InputHandler struct {
	actionChan chan<- Action
	mode       Mode
}

// NewInputHandler creates a new input handler
func NewInputHandler(actionChan chan<- Action) *InputHandler {
	return &InputHandler{
		actionChan: actionChan,
	}
}

// SetMode sets the state used for mode checking
func (ih *InputHandler) SetMode(mode Mode) {
	ih.mode = mode
}

// ProcessEvent converts a tcell event into Actions. It returns false once the
// user asked to quit.
func (ih *InputHandler) ProcessEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return ih.processKeyEvent(ev)
	case *tcell.EventResize:
		w, h := ev.Size()
		ih.actionChan <- ResizeAction{Width: w, Height: h}
		return true
	default:
		return true
	}
}

func (ih *InputHandler) processKeyEvent(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyCtrlC:
		ih.actionChan <- QuitAction{}
		return false
	case tcell.KeyCtrlZ:
		ih.actionChan <- SuspendAction{}
		return true
	}
	switch {
	case ih.mode.HelpVisible:
		ih.processHelpKey(ev)
		return true
	case ih.mode.Prompt:
		ih.processPromptKey(ev)
		return true
	default:
		return ih.processViewKey(ev)
	}
}

func (ih *InputHandler) processHelpKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape:
		ih.actionChan <- HelpHideAction{}
	case tcell.KeyRune:
		r := ev.Rune()
		if r == '?' || r == 'q' || r == 'Q' {
			ih.actionChan <- HelpHideAction{}
		}
	}
}

func (ih *InputHandler) processPromptKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape:
		ih.actionChan <- FindDoneAction{}
	case tcell.KeyEnter:
		ih.actionChan <- FindAcceptAction{}
	case tcell.KeyTab, tcell.KeyDown, tcell.KeyCtrlG, tcell.KeyCtrlN:
		ih.actionChan <- FindNextAction{}
	case tcell.KeyUp, tcell.KeyCtrlP:
		ih.actionChan <- FindPreviousAction{}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		ih.actionChan <- FindBackspaceAction{}
	case tcell.KeyCtrlW:
		ih.actionChan <- FindDeleteWordAction{}
	case tcell.KeyRune:
		r := ev.Rune()
		if ev.Modifiers()&tcell.ModCtrl != 0 {
			if r == 'w' || r == 'W' {
				ih.actionChan <- FindDeleteWordAction{}
			}
			return
		}
		ih.actionChan <- FindCharAction{Char: r}
	}
}

func (ih *InputHandler) processViewKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape:
		if ih.mode.Finding {
			ih.actionChan <- FindDoneAction{}
		}
	case tcell.KeyCtrlG:
		if ih.mode.Finding {
			if ev.Modifiers()&tcell.ModShift != 0 {
				ih.actionChan <- FindPreviousAction{}
			} else {
				ih.actionChan <- FindNextAction{}
			}
		}
	case tcell.KeyUp:
		ih.actionChan <- ScrollAction{Rows: -1}
	case tcell.KeyDown:
		ih.actionChan <- ScrollAction{Rows: 1}
	case tcell.KeyLeft:
		ih.actionChan <- ScrollAction{Cols: -1}
	case tcell.KeyRight:
		ih.actionChan <- ScrollAction{Cols: 1}
	case tcell.KeyPgUp:
		ih.actionChan <- ScrollPageAction{Direction: -1}
	case tcell.KeyPgDn:
		ih.actionChan <- ScrollPageAction{Direction: 1}
	case tcell.KeyHome:
		ih.actionChan <- ScrollToStartAction{}
	case tcell.KeyEnd:
		ih.actionChan <- ScrollToEndAction{}
	case tcell.KeyRune:
		r := ev.Rune()
		if ev.Modifiers()&tcell.ModShift != 0 {
			// Normalize shifted alphabetic runes to reflect user intent (Shift+N => 'N')
			r = unicode.ToUpper(r)
		}
		return ih.processViewRune(r)
	}
	return true
}

func (ih *InputHandler) processViewRune(r rune) bool {
	switch r {
	case 'q', 'Q':
		ih.actionChan <- QuitAction{}
		return false
	case '?':
		ih.actionChan <- HelpToggleAction{}
	case '/':
		ih.actionChan <- FindStartAction{}
	case 'n':
		if ih.mode.Finding {
			ih.actionChan <- FindNextAction{}
		}
	case 'N':
		if ih.mode.Finding {
			ih.actionChan <- FindPreviousAction{}
		}
	case 'j':
		ih.actionChan <- ScrollAction{Rows: 1}
	case 'k':
		ih.actionChan <- ScrollAction{Rows: -1}
	case 'h':
		ih.actionChan <- ScrollAction{Cols: -1}
	case 'l':
		ih.actionChan <- ScrollAction{Cols: 1}
	case ' ':
		ih.actionChan <- ScrollPageAction{Direction: 1}
	case 'b':
		ih.actionChan <- ScrollPageAction{Direction: -1}
	case 'g':
		ih.actionChan <- ScrollToStartAction{}
	case 'G':
		ih.actionChan <- ScrollToEndAction{}
	case 'w', 'W':
		ih.actionChan <- ToggleWrapAction{}
	case 'e', 'E':
		ih.actionChan <- EditAction{}
	}
	return true
}
