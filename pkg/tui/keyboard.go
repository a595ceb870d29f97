package tui

// KeyEvent represents a keyboard input event.
type KeyEvent struct {
	Key       rune   // The character pressed
	Ctrl      bool   // Ctrl modifier
	IsSpecial bool   // Whether this is a special key
	Special   string // Special key name (Enter, Escape, Tab, arrows)
}

// parseKeyInput converts raw bytes read from a raw-mode terminal into a
// KeyEvent.
func parseKeyInput(buf []byte) KeyEvent {
	if len(buf) == 0 {
		return KeyEvent{}
	}

	// Escape sequences (arrow keys, etc.)
	if buf[0] == 27 {
		if len(buf) > 2 && buf[1] == '[' {
			switch buf[2] {
			case 'A':
				return KeyEvent{IsSpecial: true, Special: "Up"}
			case 'B':
				return KeyEvent{IsSpecial: true, Special: "Down"}
			case 'C':
				return KeyEvent{IsSpecial: true, Special: "Right"}
			case 'D':
				return KeyEvent{IsSpecial: true, Special: "Left"}
			case 'Z':
				return KeyEvent{IsSpecial: true, Special: "BackTab"}
			}
		}
		return KeyEvent{IsSpecial: true, Special: "Escape"}
	}

	switch buf[0] {
	case '\t':
		return KeyEvent{IsSpecial: true, Special: "Tab"}
	case '\r', '\n':
		return KeyEvent{IsSpecial: true, Special: "Enter"}
	case 127, 8:
		return KeyEvent{IsSpecial: true, Special: "Backspace"}
	}

	// Ctrl+letter arrives as bytes 1-26
	if buf[0] < 32 {
		return KeyEvent{Key: rune(buf[0] + 'a' - 1), Ctrl: true}
	}

	return KeyEvent{Key: rune(buf[0])}
}
