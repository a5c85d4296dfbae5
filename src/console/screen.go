package console

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/pkg/errors"

	"github.com/Stuntddude/ConsoleController/src/util"
)

const tabstop = 8

// screenDevice drives the terminal through a tcell screen. tcell owns raw
// mode and the whole escape-sequence protocol; this device adds a logical
// cursor and a 256-slot style table on top.
type screenDevice struct {
	screen tcell.Screen
	styles [256]tcell.Style
	style  tcell.Style
	pos    Coord
}

func newScreenDevice() *screenDevice {
	return &screenDevice{}
}

// newScreenDeviceFor wraps an existing screen such as a simulation screen.
func newScreenDeviceFor(s tcell.Screen) *screenDevice {
	return &screenDevice{screen: s}
}

func (d *screenDevice) Init() error {
	if d.screen == nil {
		s, err := tcell.NewScreen()
		if err != nil {
			return errors.Wrap(err, "console: open screen")
		}
		d.screen = s
	}
	if err := d.screen.Init(); err != nil {
		return errors.Wrap(err, "console: screen init")
	}
	d.styles = [256]tcell.Style{}
	d.style = tcell.StyleDefault
	d.pos = Coord{}
	d.screen.SetStyle(tcell.StyleDefault)
	d.screen.ShowCursor(0, 0)
	d.screen.Show()
	return nil
}

func (d *screenDevice) Fini() {
	d.screen.Fini()
}

func (d *screenDevice) Size() Coord {
	w, h := d.screen.Size()
	return Coord{X: w, Y: h}
}

// Cursor returns the logical cursor this device advances on every write,
// the same position the hardware cursor is kept at.
func (d *screenDevice) Cursor() Coord {
	return d.pos
}

func (d *screenDevice) MoveTo(x, y int) {
	d.pos = Coord{X: x, Y: y}
	d.screen.ShowCursor(x, y)
	d.screen.Show()
}

func (d *screenDevice) RegisterColor(id ColorID, spec ColorSpec) {
	d.styles[id] = styleFor(spec)
}

func (d *screenDevice) SetColor(id ColorID) {
	d.style = d.styles[id]
}

// styleFor encodes a descriptor as a tcell style: foreground bold maps to
// the bold attribute, background bold to the bright half of the palette.
func styleFor(spec ColorSpec) tcell.Style {
	if spec == (ColorSpec{}) {
		return tcell.StyleDefault
	}
	bg := int(spec.Bg & 7)
	if spec.BgBold {
		bg += 8
	}
	return tcell.StyleDefault.
		Foreground(tcell.PaletteColor(int(spec.Fg & 7))).
		Background(tcell.PaletteColor(bg)).
		Bold(spec.FgBold)
}

func (d *screenDevice) Write(s string) {
	size := d.Size()
	for _, r := range s {
		switch r {
		case '\n':
			d.pos.X = 0
			d.pos.Y = util.Min(d.pos.Y+1, size.Y-1)
		case '\r':
			d.pos.X = 0
		case '\b':
			d.pos.X = util.Max(d.pos.X-1, 0)
		case '\t':
			d.pos.X = util.Min((d.pos.X/tabstop+1)*tabstop, size.X-1)
		default:
			d.screen.SetContent(d.pos.X, d.pos.Y, r, nil, d.style)
			d.pos.X += runewidth.RuneWidth(r)
			if d.pos.X >= size.X {
				d.pos.X = 0
				d.pos.Y = util.Min(d.pos.Y+1, size.Y-1)
			}
		}
	}
	d.screen.ShowCursor(d.pos.X, d.pos.Y)
	d.screen.Show()
}

func (d *screenDevice) Clear() {
	d.screen.Clear()
	d.pos = Coord{}
	d.screen.ShowCursor(0, 0)
	d.screen.Show()
}

func (d *screenDevice) ReadKey(block bool) (Key, bool) {
	if !block {
		for d.screen.HasPendingEvent() {
			if k, ok := translateEvent(d.screen.PollEvent()); ok {
				return k, true
			}
		}
		return KeyNone, false
	}
	for {
		ev := d.screen.PollEvent()
		if ev == nil {
			return KeyNone, false
		}
		if k, ok := translateEvent(ev); ok {
			return k, true
		}
	}
}

// translateEvent maps one tcell event to a key. Resize, mouse, and paste
// events decode to nothing, as do special keys beyond the arrow set.
func translateEvent(ev tcell.Event) (Key, bool) {
	kev, isKey := ev.(*tcell.EventKey)
	if !isKey {
		return KeyNone, false
	}
	switch kev.Key() {
	case tcell.KeyRune:
		return Key(kev.Rune()), true
	case tcell.KeyUp:
		return KeyUp, true
	case tcell.KeyDown:
		return KeyDown, true
	case tcell.KeyLeft:
		return KeyLeft, true
	case tcell.KeyRight:
		return KeyRight, true
	case tcell.KeyBackspace2:
		return '\b', true
	default:
		// control bytes (Enter, Tab, Esc, Ctrl-...) pass through raw
		if kev.Key() < 128 {
			return Key(kev.Key()), true
		}
		return KeyNone, false
	}
}
