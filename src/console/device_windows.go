//go:build windows

package console

import (
	"encoding/binary"
	"syscall"
	"unicode/utf16"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/windows"
)

func newPlatformDevice() Device {
	return newConsoleDevice()
}

var (
	kernel32                    = windows.NewLazySystemDLL("kernel32.dll")
	procSetConsoleTextAttribute = kernel32.NewProc("SetConsoleTextAttribute")
	procFillConsoleOutputChar   = kernel32.NewProc("FillConsoleOutputCharacterW")
	procFillConsoleOutputAttr   = kernel32.NewProc("FillConsoleOutputAttribute")
	procReadConsoleInput        = kernel32.NewProc("ReadConsoleInputW")
)

const (
	fgIntensity uint16 = 0x0008
	bgIntensity uint16 = 0x0080

	vkLeft  uint16 = 0x25
	vkUp    uint16 = 0x26
	vkRight uint16 = 0x27
	vkDown  uint16 = 0x28

	keyEventType uint16 = 1
)

// vgaBits maps the neutral color order to VGA component flags
// (blue 1, green 2, red 4).
var vgaBits = [8]uint16{0, 4, 2, 6, 1, 5, 3, 7}

// consoleDevice drives the Win32 console screen buffer directly. Input
// arrives as console event records read by a scanner goroutine and handed
// over through a buffered channel; output and cursor state live in the
// console itself, so geometry queries always reflect reality.
type consoleDevice struct {
	in     windows.Handle
	out    windows.Handle
	cancel windows.Handle
	keys   chan Key
	done   chan struct{}

	attrs     [256]uint16
	cur       uint16
	origAttrs uint16
	origIn    uint32
	origOut   uint32
}

func newConsoleDevice() *consoleDevice {
	return &consoleDevice{}
}

func (d *consoleDevice) Init() error {
	inFd, err := syscall.Open("CONIN$", syscall.O_RDWR, 0)
	if err != nil {
		return errors.Wrap(err, "console: open CONIN$")
	}
	outFd, err := syscall.Open("CONOUT$", syscall.O_RDWR, 0)
	if err != nil {
		syscall.Close(inFd)
		return errors.Wrap(err, "console: open CONOUT$")
	}
	d.in = windows.Handle(inFd)
	d.out = windows.Handle(outFd)

	if err := windows.GetConsoleMode(d.in, &d.origIn); err != nil {
		windows.CloseHandle(d.in)
		windows.CloseHandle(d.out)
		return errors.Wrap(err, "console: console mode")
	}
	windows.GetConsoleMode(d.out, &d.origOut)
	// per-keystroke event records; no line input, echo, or ^C cooking
	windows.SetConsoleMode(d.in, windows.ENABLE_WINDOW_INPUT)
	windows.SetConsoleMode(d.out, windows.ENABLE_PROCESSED_OUTPUT|windows.ENABLE_WRAP_AT_EOL_OUTPUT)

	var info windows.ConsoleScreenBufferInfo
	if err := windows.GetConsoleScreenBufferInfo(d.out, &info); err != nil {
		d.releaseConsole()
		return errors.Wrap(err, "console: screen buffer info")
	}
	d.origAttrs = info.Attributes
	d.cur = info.Attributes
	for i := range d.attrs {
		d.attrs[i] = d.origAttrs
	}

	cancel, err := windows.CreateEvent(nil, 1, 0, nil)
	if err != nil {
		d.releaseConsole()
		return errors.Wrap(err, "console: cancel event")
	}
	d.cancel = cancel
	d.keys = make(chan Key, 64)
	d.done = make(chan struct{})
	go d.scanInput()
	return nil
}

func (d *consoleDevice) Fini() {
	windows.SetEvent(d.cancel)
	<-d.done
	windows.CloseHandle(d.cancel)
	procSetConsoleTextAttribute.Call(uintptr(d.out), uintptr(d.origAttrs))
	d.releaseConsole()
}

// releaseConsole undoes the mode changes from Init and drops both handles.
func (d *consoleDevice) releaseConsole() {
	windows.SetConsoleMode(d.in, d.origIn)
	windows.SetConsoleMode(d.out, d.origOut)
	windows.CloseHandle(d.in)
	windows.CloseHandle(d.out)
}

func (d *consoleDevice) Size() Coord {
	var info windows.ConsoleScreenBufferInfo
	if err := windows.GetConsoleScreenBufferInfo(d.out, &info); err != nil {
		return Coord{X: 80, Y: 25}
	}
	return Coord{
		X: int(info.Window.Right-info.Window.Left) + 1,
		Y: int(info.Window.Bottom-info.Window.Top) + 1,
	}
}

func (d *consoleDevice) Cursor() Coord {
	var info windows.ConsoleScreenBufferInfo
	if err := windows.GetConsoleScreenBufferInfo(d.out, &info); err != nil {
		return Coord{}
	}
	return Coord{X: int(info.CursorPosition.X), Y: int(info.CursorPosition.Y)}
}

func (d *consoleDevice) MoveTo(x, y int) {
	windows.SetConsoleCursorPosition(d.out, windows.Coord{X: int16(x), Y: int16(y)})
}

func (d *consoleDevice) RegisterColor(id ColorID, spec ColorSpec) {
	d.attrs[id] = d.attrFor(spec)
}

func (d *consoleDevice) SetColor(id ColorID) {
	d.cur = d.attrs[id]
	procSetConsoleTextAttribute.Call(uintptr(d.out), uintptr(d.cur))
}

// attrFor composes the character attribute word: foreground component bits
// low, background bits shifted high, intensity bit per bold flag.
func (d *consoleDevice) attrFor(spec ColorSpec) uint16 {
	if spec == (ColorSpec{}) {
		return d.origAttrs
	}
	attr := vgaBits[spec.Fg&7] | vgaBits[spec.Bg&7]<<4
	if spec.FgBold {
		attr |= fgIntensity
	}
	if spec.BgBold {
		attr |= bgIntensity
	}
	return attr
}

func (d *consoleDevice) Write(s string) {
	if s == "" {
		return
	}
	u := utf16.Encode([]rune(s))
	var written uint32
	windows.WriteConsole(d.out, &u[0], uint32(len(u)), &written, nil)
}

func (d *consoleDevice) Clear() {
	var info windows.ConsoleScreenBufferInfo
	if err := windows.GetConsoleScreenBufferInfo(d.out, &info); err != nil {
		return
	}
	cells := uintptr(info.Size.X) * uintptr(info.Size.Y)
	origin := windows.Coord{}
	var n uint32
	procFillConsoleOutputChar.Call(uintptr(d.out), uintptr(' '),
		cells, packCoord(origin), uintptr(unsafe.Pointer(&n)))
	procFillConsoleOutputAttr.Call(uintptr(d.out), uintptr(d.cur),
		cells, packCoord(origin), uintptr(unsafe.Pointer(&n)))
	windows.SetConsoleCursorPosition(d.out, origin)
}

func (d *consoleDevice) ReadKey(block bool) (Key, bool) {
	if !block {
		select {
		case k := <-d.keys:
			return k, true
		default:
			return KeyNone, false
		}
	}
	select {
	case k := <-d.keys:
		return k, true
	case <-d.done:
		// hand out anything decoded before shutdown
		select {
		case k := <-d.keys:
			return k, true
		default:
			return KeyNone, false
		}
	}
}

// scanInput turns console event records into keys until the cancel event
// fires at Fini.
func (d *consoleDevice) scanInput() {
	defer close(d.done)
	waits := []windows.Handle{d.cancel, d.in}
	for {
		ev, err := windows.WaitForMultipleObjects(waits, false, windows.INFINITE)
		if err != nil || ev == windows.WAIT_OBJECT_0 {
			return
		}
		var rec inputRecord
		var n uint32
		rv, _, _ := procReadConsoleInput.Call(uintptr(d.in),
			uintptr(unsafe.Pointer(&rec)), 1, uintptr(unsafe.Pointer(&n)))
		if rv == 0 {
			return
		}
		if n == 0 || rec.typ != keyEventType {
			continue
		}
		d.postKey(rec.data[:])
	}
}

// inputRecord is INPUT_RECORD: an event type word, alignment padding, and
// the event union decoded field-by-field from its raw bytes.
type inputRecord struct {
	typ  uint16
	_    uint16
	data [16]byte
}

// postKey decodes one KEY_EVENT_RECORD (4 bytes key-down flag, 2 repeat
// count, 2 virtual-key code, 2 scan code, 2 UTF-16 unit, 4 modifier flags)
// and queues the resulting key once per repeat.
func (d *consoleDevice) postKey(data []byte) {
	down := binary.LittleEndian.Uint32(data[0:])
	repeat := binary.LittleEndian.Uint16(data[4:])
	vk := binary.LittleEndian.Uint16(data[6:])
	ch := binary.LittleEndian.Uint16(data[10:])
	if down == 0 {
		return
	}
	var k Key
	switch vk {
	case vkUp:
		k = KeyUp
	case vkDown:
		k = KeyDown
	case vkLeft:
		k = KeyLeft
	case vkRight:
		k = KeyRight
	default:
		if ch == 0 {
			return // bare modifier or special key beyond the arrow set
		}
		k = Key(ch)
	}
	for ; repeat > 0; repeat-- {
		select {
		case d.keys <- k:
		default:
			return // typeahead full, drop the burst
		}
	}
}

// Win32 passes COORD by value, packed into a single word.
func packCoord(c windows.Coord) uintptr {
	return uintptr(uint16(c.X)) | uintptr(uint16(c.Y))<<16
}
