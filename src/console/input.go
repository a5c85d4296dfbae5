package console

// read is the shared read path: device read, then key normalization. The
// second result distinguishes "no key" from a real KeyNone-worthy read; a
// blocking read only reports false once the device has shut down.
func (c *Controller) read(block bool) (Key, bool) {
	k, ok := c.device().ReadKey(block)
	return normalizeKey(k, ok), ok
}

func (c *Controller) echoKey() (Key, bool) {
	k, ok := c.read(true)
	if ok && k.echoable() {
		c.Print(string(rune(k)))
	}
	return k, ok
}

// PollKey returns the next pending key without blocking, or KeyNone when
// nothing is waiting.
func (c *Controller) PollKey() Key {
	k, _ := c.read(false)
	return k
}

// ReadKey blocks until a keystroke arrives and returns it. Arrow keys come
// back as their Key sentinels, Enter as '\n'.
func (c *Controller) ReadKey() Key {
	k, _ := c.read(true)
	return k
}

// ReadNewKey discards any keys already buffered, then blocks for a fresh
// keystroke.
func (c *Controller) ReadNewKey() Key {
	c.DrainKeys()
	return c.ReadKey()
}

// WaitKey reads and discards keystrokes until match is observed.
func (c *Controller) WaitKey(match Key) {
	for {
		k, ok := c.read(true)
		if !ok || k == match {
			return
		}
	}
}

// EchoKey reads one key, echoes its character representation at the cursor,
// and returns it. Keys with no representation (arrows, most control
// characters) are returned without echo.
func (c *Controller) EchoKey() Key {
	k, _ := c.echoKey()
	return k
}

// DrainKeys polls and discards until no key is pending, flushing stale
// typeahead before a fresh blocking read.
func (c *Controller) DrainKeys() {
	for {
		if _, ok := c.read(false); !ok {
			return
		}
	}
}

// Pause drains stale input, prompts, and waits for any single keystroke.
func (c *Controller) Pause() {
	c.DrainKeys()
	c.Print("Press any key to continue . . .")
	c.read(true)
	c.Print("\n")
}

// ReadLine accumulates typed characters until one of the delimiters is
// read, echoing each keystroke and emulating backspace correction on
// screen. With no arguments the delimiter set is {'\n'}. The returned line
// excludes the delimiter. When the read ends on a delimiter other than
// newline, keys through the next newline are consumed and discarded so the
// input position always lands just past a newline.
func (c *Controller) ReadLine(delims ...rune) string {
	if len(delims) == 0 {
		delims = []rune{'\n'}
	}
	var line []rune
	var k Key
	var ok bool
accumulate:
	for {
		pos := c.CursorPosition()
		k, ok = c.echoKey()
		switch {
		case !ok:
			return string(line)
		case k == '\b':
			if len(line) > 0 {
				line = line[:len(line)-1]
				if pos.X == 0 {
					// the erase wraps to the end of the previous row
					c.MoveCursor(c.WindowSize().X-1, pos.Y-1)
				} else {
					c.MoveCursor(pos.X-1, pos.Y)
				}
			} else {
				// nothing to erase; undo any cursor drift from the echo
				c.MoveCursorTo(pos)
			}
			cell := c.CursorPosition()
			c.Print(" ")
			c.MoveCursorTo(cell)
		case isDelim(delims, k):
			break accumulate
		case k.appendable():
			line = append(line, rune(k))
		}
	}
	for k != '\n' {
		if k, ok = c.echoKey(); !ok {
			break
		}
	}
	return string(line)
}

func isDelim(delims []rune, k Key) bool {
	if !k.appendable() {
		return false
	}
	for _, d := range delims {
		if rune(k) == d {
			return true
		}
	}
	return false
}
