package input

import (
	"testing"

	"github.com/gdamore/tcell/v2"
)

func drain(ch chan Action) []Action {
	var out []Action
	for {
		select {
		case a := <-ch:
			out = append(out, a)
		default:
			return out
		}
	}
}

func TestKeyMapping(t *testing.T) {
	tests := []struct {
		name     string
		mode     Mode
		event    *tcell.EventKey
		want     Action
		wantLive bool
	}{
		{name: "slash opens prompt", event: tcell.NewEventKey(tcell.KeyRune, '/', 0), want: FindStartAction{}, wantLive: true},
		{name: "q quits", event: tcell.NewEventKey(tcell.KeyRune, 'q', 0), want: QuitAction{}, wantLive: false},
		{name: "ctrl-c quits from prompt", mode: Mode{Prompt: true}, event: tcell.NewEventKey(tcell.KeyCtrlC, 0, 0), want: QuitAction{}, wantLive: false},
		{name: "q types in prompt", mode: Mode{Prompt: true}, event: tcell.NewEventKey(tcell.KeyRune, 'q', 0), want: FindCharAction{Char: 'q'}, wantLive: true},
		{name: "enter accepts prompt", mode: Mode{Prompt: true}, event: tcell.NewEventKey(tcell.KeyEnter, 0, 0), want: FindAcceptAction{}, wantLive: true},
		{name: "tab finds next in prompt", mode: Mode{Prompt: true}, event: tcell.NewEventKey(tcell.KeyTab, 0, 0), want: FindNextAction{}, wantLive: true},
		{name: "ctrl-g finds next", mode: Mode{Finding: true}, event: tcell.NewEventKey(tcell.KeyCtrlG, 0, tcell.ModCtrl), want: FindNextAction{}, wantLive: true},
		{name: "ctrl-shift-g finds previous", mode: Mode{Finding: true}, event: tcell.NewEventKey(tcell.KeyCtrlG, 0, tcell.ModCtrl|tcell.ModShift), want: FindPreviousAction{}, wantLive: true},
		{name: "up finds previous in prompt", mode: Mode{Prompt: true}, event: tcell.NewEventKey(tcell.KeyUp, 0, 0), want: FindPreviousAction{}, wantLive: true},
		{name: "escape in prompt finishes", mode: Mode{Prompt: true}, event: tcell.NewEventKey(tcell.KeyEscape, 0, 0), want: FindDoneAction{}, wantLive: true},
		{name: "ctrl-w deletes word", mode: Mode{Prompt: true}, event: tcell.NewEventKey(tcell.KeyCtrlW, 0, 0), want: FindDeleteWordAction{}, wantLive: true},
		{name: "n while finding", mode: Mode{Finding: true}, event: tcell.NewEventKey(tcell.KeyRune, 'n', 0), want: FindNextAction{}, wantLive: true},
		{name: "shift-n while finding", mode: Mode{Finding: true}, event: tcell.NewEventKey(tcell.KeyRune, 'n', tcell.ModShift), want: FindPreviousAction{}, wantLive: true},
		{name: "escape while finding", mode: Mode{Finding: true}, event: tcell.NewEventKey(tcell.KeyEscape, 0, 0), want: FindDoneAction{}, wantLive: true},
		{name: "page down", event: tcell.NewEventKey(tcell.KeyPgDn, 0, 0), want: ScrollPageAction{Direction: 1}, wantLive: true},
		{name: "j scrolls", event: tcell.NewEventKey(tcell.KeyRune, 'j', 0), want: ScrollAction{Rows: 1}, wantLive: true},
		{name: "w toggles wrap", event: tcell.NewEventKey(tcell.KeyRune, 'w', 0), want: ToggleWrapAction{}, wantLive: true},
		{name: "question mark toggles help", event: tcell.NewEventKey(tcell.KeyRune, '?', 0), want: HelpToggleAction{}, wantLive: true},
		{name: "e edits", event: tcell.NewEventKey(tcell.KeyRune, 'e', 0), want: EditAction{}, wantLive: true},
		{name: "ctrl-z suspends from prompt", mode: Mode{Prompt: true}, event: tcell.NewEventKey(tcell.KeyCtrlZ, 0, tcell.ModCtrl), want: SuspendAction{}, wantLive: true},
		{name: "q closes help", mode: Mode{HelpVisible: true}, event: tcell.NewEventKey(tcell.KeyRune, 'q', 0), want: HelpHideAction{}, wantLive: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch := make(chan Action, 4)
			handler := NewInputHandler(ch)
			handler.SetMode(tt.mode)

			live := handler.ProcessEvent(tt.event)
			if live != tt.wantLive {
				t.Fatalf("ProcessEvent() = %v, want %v", live, tt.wantLive)
			}
			got := drain(ch)
			if len(got) != 1 || got[0] != tt.want {
				t.Fatalf("actions = %#v, want [%#v]", got, tt.want)
			}
		})
	}
}

func TestIgnoredKeysEmitNothing(t *testing.T) {
	tests := []struct {
		name  string
		mode  Mode
		event *tcell.EventKey
	}{
		{name: "n without results", event: tcell.NewEventKey(tcell.KeyRune, 'n', 0)},
		{name: "escape when idle", event: tcell.NewEventKey(tcell.KeyEscape, 0, 0)},
		{name: "help swallows slash", mode: Mode{HelpVisible: true}, event: tcell.NewEventKey(tcell.KeyRune, '/', 0)},
		{name: "ctrl rune in prompt", mode: Mode{Prompt: true}, event: tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModCtrl)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch := make(chan Action, 4)
			handler := NewInputHandler(ch)
			handler.SetMode(tt.mode)
			handler.ProcessEvent(tt.event)
			if got := drain(ch); len(got) != 0 {
				t.Fatalf("expected no actions, got %#v", got)
			}
		})
	}
}

func TestResizeEvent(t *testing.T) {
	ch := make(chan Action, 1)
	handler := NewInputHandler(ch)
	handler.ProcessEvent(tcell.NewEventResize(100, 40))

	got := drain(ch)
	if len(got) != 1 || got[0] != (ResizeAction{Width: 100, Height: 40}) {
		t.Fatalf("actions = %#v", got)
	}
}
