package console

// Color is one of the eight terminal colors shared by both console
// families, numbered in the usual black..white order.
type Color uint8

const (
	ColorBlack Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
)

// ColorID addresses one of the 256 registration slots. A byte-sized id
// keeps every caller-supplied value inside the table by construction.
type ColorID = uint8

// ColorSpec describes one registrable color combination. The zero value
// means "terminal default colors, not bold", so activating a slot that was
// never registered falls back to the terminal's own colors.
type ColorSpec struct {
	Fg     Color
	Bg     Color
	FgBold bool
	BgBold bool
}

// Coord is a zero-based (column, row) pair, used both for window sizes
// (columns, rows) and cursor positions.
type Coord struct {
	X int
	Y int
}

// Device is the terminal facility a Controller drives. Two implementations
// exist, selected at build time: a tcell screen everywhere tcell runs, and
// the Win32 console API on Windows. Like the Controller itself, a Device
// assumes single-threaded use.
//
// Init puts the terminal into raw mode (no line buffering, no echo,
// special-key decoding, color support) and resets the color table; Fini
// restores the prior mode. The two pair with the session lifecycle and are
// never nested.
type Device interface {
	Init() error
	Fini()

	// Size returns the visible window dimensions, queried fresh on every
	// call since the terminal may be resized at any time.
	Size() Coord
	// Cursor returns the current cursor position.
	Cursor() Coord
	// MoveTo repositions the cursor. Coordinates are not bounds-checked;
	// out-of-range values get platform-defined treatment.
	MoveTo(x, y int)

	// RegisterColor stores the platform encoding of spec in slot id,
	// overwriting any previous registration.
	RegisterColor(id ColorID, spec ColorSpec)
	// SetColor makes slot id the current drawing attribute.
	SetColor(id ColorID)

	// Write emits s at the cursor using the current attribute, advancing
	// the cursor per normal terminal semantics.
	Write(s string)
	// Clear erases the visible screen and homes the cursor.
	Clear()

	// ReadKey returns the next decoded key. With block set it waits for
	// one; otherwise it returns ok=false as soon as no key is pending.
	// ok=false from a blocking read means the device has shut down.
	ReadKey(block bool) (Key, bool)
}
