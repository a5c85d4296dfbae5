// Package console unifies keyboard input, colored text output, cursor
// control, and frame pacing behind a single cross-platform controller.
// One tcell-backed device serves every platform tcell supports; a Win32
// console device serves Windows. Which one backs the package is decided at
// build time.
//
// The terminal is shared process-wide state: the first handle constructed
// puts it into raw mode and the last one closed restores it, no matter how
// many handles were created in between. All operations assume
// single-threaded use.
package console

import (
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/Stuntddude/ConsoleController/src/util"
)

// session is the shared terminal state behind all live handles. The
// reference count decides when the device really initializes and finalizes.
type session struct {
	dev   Device
	count int
}

var current session

// Controller is one handle on the shared terminal session. Handles are
// cheap to create. Each carries its own frame-pacing state, so independent
// loops can throttle independently.
type Controller struct {
	sess *session

	paceSet bool
	paceAt  time.Time

	now   func() time.Time
	sleep func(time.Duration)
}

// New acquires a handle on the terminal. The first handle initializes raw
// mode, clears the screen, and resets the color table; every further handle
// only joins the running session.
func New() (*Controller, error) {
	if current.count > 0 {
		return acquire(nil)
	}
	if !util.IsTty() || !util.ToTty() {
		return nil, errors.New("console: stdin and stdout must be terminals")
	}
	return acquire(newPlatformDevice())
}

// NewWithDevice is New with a caller-supplied device backing the session.
// When a session is already active the new handle joins it and dev is
// ignored.
func NewWithDevice(dev Device) (*Controller, error) {
	if current.count == 0 && dev == nil {
		return nil, errors.New("console: nil device")
	}
	return acquire(dev)
}

func acquire(dev Device) (*Controller, error) {
	if current.count == 0 {
		if err := dev.Init(); err != nil {
			trace().WithError(err).Error("device init failed")
			return nil, err
		}
		current.dev = dev
		dev.Clear()
		registerRestore()
		trace().Debug("device initialized")
	}
	current.count++
	trace().WithField("count", current.count).Debug("session acquired")
	return &Controller{sess: &current, now: time.Now, sleep: time.Sleep}, nil
}

// registerRestore arms an at-exit restore for programs that leave through
// util.Exit with handles still open.
func registerRestore() {
	util.AtExit(func() {
		if current.count > 0 {
			current.count = 0
			current.dev.Fini()
			current.dev = nil
		}
	})
}

// Close releases the handle. Closing the last live handle clears the screen
// and restores the terminal to its prior mode. Close is idempotent; any
// other operation on a closed handle panics.
func (c *Controller) Close() {
	if c.sess == nil {
		return
	}
	c.sess = nil
	if current.count == 0 {
		// the at-exit restore already tore the session down
		return
	}
	current.count--
	trace().WithField("count", current.count).Debug("session released")
	if current.count == 0 {
		current.dev.Clear()
		current.dev.Fini()
		current.dev = nil
		trace().Debug("device finalized")
	}
}

func (c *Controller) checkOpen() {
	if c.sess == nil {
		panic("console: use of closed Controller")
	}
}

func (c *Controller) device() Device {
	c.checkOpen()
	return current.dev
}

// RegisterColor stores spec in color slot id, replacing any previous
// registration. Re-registering a slot is cheap and leaves no residue.
func (c *Controller) RegisterColor(id ColorID, spec ColorSpec) {
	c.device().RegisterColor(id, spec)
}

// SetColor makes color slot id the current drawing attribute for all
// subsequent output. Activating a never-registered slot selects the
// terminal's default colors.
func (c *Controller) SetColor(id ColorID) {
	c.device().SetColor(id)
}

// WindowSize returns the visible terminal dimensions as columns and rows,
// queried fresh on every call.
func (c *Controller) WindowSize() Coord {
	return c.device().Size()
}

// CursorPosition returns the cursor's current column and row.
func (c *Controller) CursorPosition() Coord {
	return c.device().Cursor()
}

// MoveCursor repositions the cursor absolutely. Coordinates are not checked
// against the window size; out-of-range values are a caller error with
// platform-defined effect.
func (c *Controller) MoveCursor(x, y int) {
	c.device().MoveTo(x, y)
}

// MoveCursorTo is MoveCursor for a Coord, as returned by CursorPosition.
func (c *Controller) MoveCursorTo(pos Coord) {
	c.device().MoveTo(pos.X, pos.Y)
}

// ClearScreen erases all visible content and homes the cursor.
func (c *Controller) ClearScreen() {
	c.device().Clear()
}

// Print writes text at the cursor in the current color, advancing the
// cursor with the usual wrap-around at the end of a line.
func (c *Controller) Print(text string) {
	c.device().Write(text)
}

// Printf formats like fmt.Sprintf and prints the result.
func (c *Controller) Printf(format string, a ...any) {
	c.device().Write(fmt.Sprintf(format, a...))
}
