package console

import (
	"testing"

	"github.com/gdamore/tcell/v2"
)

// newSimConsole starts a session on a simulation screen of the given size.
func newSimConsole(t *testing.T, w, h int) (*Controller, *screenDevice, tcell.SimulationScreen) {
	t.Helper()
	resetSession()
	sim := tcell.NewSimulationScreen("UTF-8")
	dev := newScreenDeviceFor(sim)
	c, err := NewWithDevice(dev)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(c.Close)
	sim.SetSize(w, h)
	c.DrainKeys() // swallow the resize event
	return c, dev, sim
}

func injectText(sim tcell.SimulationScreen, s string) {
	for _, r := range s {
		sim.InjectKey(tcell.KeyRune, r, tcell.ModNone)
	}
}

func cellAt(t *testing.T, sim tcell.SimulationScreen, x, y int) (rune, tcell.Style) {
	t.Helper()
	cells, w, h := sim.GetContents()
	if x >= w || y >= h {
		t.Fatalf("cell (%d,%d) outside %dx%d screen", x, y, w, h)
	}
	cell := cells[y*w+x]
	if len(cell.Runes) == 0 {
		return ' ', cell.Style
	}
	return cell.Runes[0], cell.Style
}

func TestScreenWriteAdvancesCursor(t *testing.T) {
	c, dev, sim := newSimConsole(t, 10, 4)

	c.Print("ab")
	if dev.Cursor() != (Coord{X: 2, Y: 0}) {
		t.Errorf("cursor after ab = %+v", dev.Cursor())
	}
	if r, _ := cellAt(t, sim, 0, 0); r != 'a' {
		t.Errorf("cell(0,0) = %q", r)
	}
	if r, _ := cellAt(t, sim, 1, 0); r != 'b' {
		t.Errorf("cell(1,0) = %q", r)
	}

	c.Print("\n")
	if dev.Cursor() != (Coord{X: 0, Y: 1}) {
		t.Errorf("cursor after newline = %+v", dev.Cursor())
	}

	c.Print("cd\ref")
	if r, _ := cellAt(t, sim, 0, 1); r != 'e' {
		t.Errorf("carriage return should overprint, cell(0,1) = %q", r)
	}
	if r, _ := cellAt(t, sim, 1, 1); r != 'f' {
		t.Errorf("cell(1,1) = %q", r)
	}

	c.Print("\b")
	if dev.Cursor() != (Coord{X: 1, Y: 1}) {
		t.Errorf("backspace should step back one column, cursor = %+v", dev.Cursor())
	}
	if r, _ := cellAt(t, sim, 1, 1); r != 'f' {
		t.Error("backspace must not erase")
	}
}

func TestScreenWriteWrapsAtLineEnd(t *testing.T) {
	c, dev, sim := newSimConsole(t, 4, 3)
	c.Print("abcde")
	if dev.Cursor() != (Coord{X: 1, Y: 1}) {
		t.Errorf("cursor after wrap = %+v", dev.Cursor())
	}
	if r, _ := cellAt(t, sim, 3, 0); r != 'd' {
		t.Errorf("cell(3,0) = %q", r)
	}
	if r, _ := cellAt(t, sim, 0, 1); r != 'e' {
		t.Errorf("cell(0,1) = %q", r)
	}
}

func TestScreenWriteWideRune(t *testing.T) {
	c, dev, sim := newSimConsole(t, 10, 3)
	c.Print("世x")
	if dev.Cursor() != (Coord{X: 3, Y: 0}) {
		t.Errorf("wide rune should advance two columns, cursor = %+v", dev.Cursor())
	}
	if r, _ := cellAt(t, sim, 0, 0); r != '世' {
		t.Errorf("cell(0,0) = %q", r)
	}
	if r, _ := cellAt(t, sim, 2, 0); r != 'x' {
		t.Errorf("cell(2,0) = %q", r)
	}
}

func TestScreenWriteTabStops(t *testing.T) {
	c, dev, sim := newSimConsole(t, 20, 3)
	c.Print("a\tb")
	if dev.Cursor() != (Coord{X: 9, Y: 0}) {
		t.Errorf("cursor after tab = %+v", dev.Cursor())
	}
	if r, _ := cellAt(t, sim, 8, 0); r != 'b' {
		t.Errorf("cell(8,0) = %q", r)
	}
}

func TestScreenWriteClampsAtBottom(t *testing.T) {
	c, dev, _ := newSimConsole(t, 4, 2)
	c.Print("\n\n\n")
	if dev.Cursor() != (Coord{X: 0, Y: 1}) {
		t.Errorf("cursor should clamp at the last row, got %+v", dev.Cursor())
	}
}

func TestScreenClear(t *testing.T) {
	c, dev, sim := newSimConsole(t, 6, 3)
	c.Print("abc")
	c.ClearScreen()
	if dev.Cursor() != (Coord{X: 0, Y: 0}) {
		t.Errorf("clear should home the cursor, got %+v", dev.Cursor())
	}
	if r, _ := cellAt(t, sim, 0, 0); r != ' ' {
		t.Errorf("cell(0,0) after clear = %q", r)
	}
}

func TestScreenMoveCursor(t *testing.T) {
	c, _, _ := newSimConsole(t, 10, 5)
	c.MoveCursor(3, 2)
	if c.CursorPosition() != (Coord{X: 3, Y: 2}) {
		t.Errorf("cursor = %+v", c.CursorPosition())
	}
	c.MoveCursorTo(Coord{X: 1, Y: 4})
	if c.CursorPosition() != (Coord{X: 1, Y: 4}) {
		t.Errorf("cursor = %+v", c.CursorPosition())
	}
}

func TestScreenWindowSize(t *testing.T) {
	c, _, _ := newSimConsole(t, 13, 7)
	if c.WindowSize() != (Coord{X: 13, Y: 7}) {
		t.Errorf("size = %+v", c.WindowSize())
	}
}

func TestScreenColors(t *testing.T) {
	c, _, sim := newSimConsole(t, 10, 3)

	c.RegisterColor(3, ColorSpec{Fg: ColorRed, Bg: ColorBlue, FgBold: true})
	c.SetColor(3)
	c.Print("r")
	want := tcell.StyleDefault.
		Foreground(tcell.PaletteColor(1)).
		Background(tcell.PaletteColor(4)).
		Bold(true)
	if _, st := cellAt(t, sim, 0, 0); st != want {
		t.Errorf("cell style = %v, want %v", st, want)
	}

	// re-register the same slot; no residue from the first registration
	c.RegisterColor(3, ColorSpec{Fg: ColorGreen, BgBold: true})
	c.SetColor(3)
	c.Print("g")
	want = tcell.StyleDefault.
		Foreground(tcell.PaletteColor(2)).
		Background(tcell.PaletteColor(8)).
		Bold(false)
	if _, st := cellAt(t, sim, 1, 0); st != want {
		t.Errorf("cell style = %v, want %v", st, want)
	}
}

func TestScreenPrintf(t *testing.T) {
	c, dev, sim := newSimConsole(t, 20, 3)
	c.RegisterColor(5, ColorSpec{Fg: ColorCyan, FgBold: true})
	c.SetColor(5)
	c.MoveCursor(2, 1)
	c.Printf("%s=%d", "hp", 42)

	want := tcell.StyleDefault.
		Foreground(tcell.PaletteColor(6)).
		Background(tcell.PaletteColor(0)).
		Bold(true)
	for i, r := range "hp=42" {
		got, st := cellAt(t, sim, 2+i, 1)
		if got != r {
			t.Errorf("cell(%d,1) = %q, want %q", 2+i, got, r)
		}
		if st != want {
			t.Errorf("cell(%d,1) style = %v, want %v", 2+i, st, want)
		}
	}
	if dev.Cursor() != (Coord{X: 7, Y: 1}) {
		t.Errorf("cursor after Printf = %+v", dev.Cursor())
	}
}

func TestScreenDefaultDescriptor(t *testing.T) {
	c, _, sim := newSimConsole(t, 10, 3)

	c.RegisterColor(9, ColorSpec{})
	c.SetColor(9)
	c.Print("d")
	if _, st := cellAt(t, sim, 0, 0); st != tcell.StyleDefault {
		t.Errorf("zero descriptor should draw default colors, got %v", st)
	}

	c.SetColor(250) // never registered
	c.Print("e")
	if _, st := cellAt(t, sim, 1, 0); st != tcell.StyleDefault {
		t.Errorf("unregistered slot should draw default colors, got %v", st)
	}
}

func TestScreenArrowKeySentinels(t *testing.T) {
	c, _, sim := newSimConsole(t, 10, 3)
	sim.InjectKey(tcell.KeyUp, 0, tcell.ModNone)
	sim.InjectKey(tcell.KeyDown, 0, tcell.ModNone)
	sim.InjectKey(tcell.KeyLeft, 0, tcell.ModNone)
	sim.InjectKey(tcell.KeyRight, 0, tcell.ModNone)
	sim.InjectKey(tcell.KeyRune, 'a', tcell.ModNone)

	for _, want := range []Key{KeyUp, KeyDown, KeyLeft, KeyRight, 'a'} {
		if k := c.ReadKey(); k != want {
			t.Errorf("ReadKey = %v, want %v", k, want)
		}
	}
}

func TestScreenEnterAndBackspace(t *testing.T) {
	c, _, sim := newSimConsole(t, 10, 3)
	sim.InjectKey(tcell.KeyEnter, '\r', tcell.ModNone)
	if k := c.ReadKey(); k != '\n' {
		t.Errorf("Enter should read as newline, got %q", rune(k))
	}
	sim.InjectKey(tcell.KeyBackspace2, 0, tcell.ModNone)
	if k := c.ReadKey(); k != '\b' {
		t.Errorf("Backspace should read as \\b, got %q", rune(k))
	}
}

func TestScreenPollIdle(t *testing.T) {
	c, _, _ := newSimConsole(t, 10, 3)
	if k := c.PollKey(); k != KeyNone {
		t.Errorf("idle poll = %v", k)
	}
}
