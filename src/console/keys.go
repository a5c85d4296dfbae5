package console

import "unicode"

// Key is one decoded keystroke. Printable keys carry their rune value;
// KeyNone means "no key" (an empty poll or a failed read). The arrow keys
// are sentinels in the UTF-16 surrogate range, which decoded text can never
// occupy, so they cannot collide with real input.
type Key rune

// KeyNone is the neutral no-key sentinel. It is never a decodable key.
const KeyNone Key = 0

const (
	KeyUp Key = 0xd800 + iota
	KeyDown
	KeyLeft
	KeyRight
)

// special reports whether k is a sentinel rather than a literal character.
func (k Key) special() bool {
	return k >= 0xd800 && k < 0xe000
}

// echoable reports whether EchoKey writes k back to the screen. Sentinels
// have no character representation; control characters other than newline,
// tab, and backspace stay invisible.
func (k Key) echoable() bool {
	if k == KeyNone || k.special() {
		return false
	}
	r := rune(k)
	return r == '\n' || r == '\t' || r == '\b' || unicode.IsPrint(r)
}

// appendable reports whether ReadLine may store k in the line buffer.
func (k Key) appendable() bool {
	return k != KeyNone && !k.special()
}

// normalizeKey is the single point where raw device reads become public key
// codes. A failed or empty read maps to KeyNone before any translation is
// attempted; carriage return becomes newline so Enter reads identically on
// both platforms.
func normalizeKey(k Key, ok bool) Key {
	if !ok {
		return KeyNone
	}
	if k == '\r' {
		return '\n'
	}
	return k
}
