package term

import (
	"github.com/gdamore/tcell/v2"
)

// Key is one input event by name: a printable character such as "q", or a
// named key such as "Left", "Ctrl-u", "Mouse wheel up", "Resize" or "Reload".
// X and Y hold the pointer position for mouse events and are -1 otherwise.
type Key struct {
	Name string
	X, Y int
}

// Names of the events that are not key presses. KeyInterrupt is posted when
// the presentation's context is cancelled and KeyClosed is returned once the
// screen has been finalised.
const (
	KeyResize    = "Resize"
	KeyReload    = "Reload"
	KeyInterrupt = "Interrupt"
	KeyClosed    = "Closed"
)

var keyNames = map[tcell.Key]string{
	tcell.KeyLeft:       "Left",
	tcell.KeyRight:      "Right",
	tcell.KeyUp:         "Up",
	tcell.KeyDown:       "Down",
	tcell.KeyHome:       "Home",
	tcell.KeyEnd:        "End",
	tcell.KeyPgUp:       "Page up",
	tcell.KeyPgDn:       "Page down",
	tcell.KeyEnter:      "Enter",
	tcell.KeyLF:         "Enter",
	tcell.KeyBackspace:  "Backspace",
	tcell.KeyBackspace2: "Backspace",
	tcell.KeyDelete:     "Delete",
	tcell.KeyTab:        "Tab",
	tcell.KeyEscape:     "Escape",
}

// GetKey blocks until the next input event.
func (t *Terminal) GetKey() Key {
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return Key{Name: KeyClosed, X: -1, Y: -1}
		}
		if k, ok := keyFor(ev); ok {
			return k
		}
	}
}

func keyFor(ev tcell.Event) (Key, bool) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		name := keyName(ev)
		if name == "" {
			return Key{}, false
		}
		return Key{Name: name, X: -1, Y: -1}, true
	case *tcell.EventMouse:
		x, y := ev.Position()
		switch {
		case ev.Buttons()&tcell.WheelUp != 0:
			return Key{Name: "Mouse wheel up", X: x, Y: y}, true
		case ev.Buttons()&tcell.WheelDown != 0:
			return Key{Name: "Mouse wheel down", X: x, Y: y}, true
		case ev.Buttons()&tcell.Button1 != 0:
			return Key{Name: "Left click", X: x, Y: y}, true
		}
		return Key{}, false
	case *tcell.EventResize:
		return Key{Name: KeyResize, X: -1, Y: -1}, true
	case *namedEvent:
		return Key{Name: ev.name, X: -1, Y: -1}, true
	}
	return Key{}, false
}

func keyName(ev *tcell.EventKey) string {
	if ev.Key() == tcell.KeyRune {
		if ev.Rune() == ' ' {
			return "Space"
		}
		return string(ev.Rune())
	}
	if name, ok := keyNames[ev.Key()]; ok {
		return name
	}
	if ev.Key() >= tcell.KeyCtrlA && ev.Key() <= tcell.KeyCtrlZ {
		return "Ctrl-" + string(rune('a'+ev.Key()-tcell.KeyCtrlA))
	}
	return ""
}
