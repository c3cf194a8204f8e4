package window

import "fmt"

// Key represents a keyboard key. Only the keys the renderer demo reacts to
// are mapped; everything else reports KeyUnknown.
type Key int

const (
	KeyUnknown Key = iota

	KeyEscape
	KeySpace
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyF1
	KeyF12
)

func (k Key) String() string {
	switch k {
	case KeyEscape:
		return "Escape"
	case KeySpace:
		return "Space"
	case KeyUp:
		return "Up"
	case KeyDown:
		return "Down"
	case KeyLeft:
		return "Left"
	case KeyRight:
		return "Right"
	case KeyF1:
		return "F1"
	case KeyF12:
		return "F12"
	default:
		return fmt.Sprintf("Key(%d)", int(k))
	}
}

// KeyState represents the state of a keyboard key.
type KeyState int

const (
	// KeyStatePressed indicates the key was pressed this frame
	KeyStatePressed KeyState = iota
	// KeyStateDown indicates the key is currently down
	KeyStateDown
	// KeyStateReleased indicates the key was released this frame
	KeyStateReleased
	// KeyStateUp indicates the key is currently up
	KeyStateUp
	// KeyStateRepeated indicates the key is being held down (repeated)
	KeyStateRepeated
)

// IsDown returns true if the key state indicates the key is currently down.
func (ks KeyState) IsDown() bool {
	return ks == KeyStatePressed || ks == KeyStateDown || ks == KeyStateRepeated
}

type keyAction uint8

const (
	actionPress keyAction = iota
	actionRelease
	actionRepeat
)

// keyTracker folds backend key events into per-frame key states. Edges
// (pressed, released, repeated) last until the next beginFrame.
type keyTracker struct {
	down  map[Key]bool
	edges map[Key]KeyState
}

func newKeyTracker() *keyTracker {
	return &keyTracker{
		down:  make(map[Key]bool),
		edges: make(map[Key]KeyState),
	}
}

func (k *keyTracker) beginFrame() {
	clear(k.edges)
}

func (k *keyTracker) event(key Key, action keyAction) {
	if key == KeyUnknown {
		return
	}
	switch action {
	case actionPress:
		k.down[key] = true
		k.edges[key] = KeyStatePressed
	case actionRelease:
		delete(k.down, key)
		k.edges[key] = KeyStateReleased
	case actionRepeat:
		k.down[key] = true
		// A press in the same frame wins over the repeat.
		if s, ok := k.edges[key]; !ok || s != KeyStatePressed {
			k.edges[key] = KeyStateRepeated
		}
	}
}

func (k *keyTracker) state(key Key) KeyState {
	if s, ok := k.edges[key]; ok {
		return s
	}
	if k.down[key] {
		return KeyStateDown
	}
	return KeyStateUp
}
