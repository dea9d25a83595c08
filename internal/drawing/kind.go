package drawing

import (
	"fmt"
	"strings"
)

// Kind selects the shape a session draws.
type Kind int

// Shape kinds.
const (
	KindBox Kind = iota
	KindCircle
	KindFreeform
)

var kindNames = [...]string{
	KindBox:      "box",
	KindCircle:   "circle",
	KindFreeform: "freeform",
}

// String returns the lower-case kind name.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// MinPoints returns the control points needed to finalize: start and end for
// box and circle, three for a freeform outline.
func (k Kind) MinPoints() int {
	if k == KindFreeform {
		return 3
	}
	return 2
}

// IsDrag reports whether the kind is placed by a press-drag-release gesture.
func (k Kind) IsDrag() bool {
	return k == KindBox || k == KindCircle
}

// ParseKind resolves a kind name. "quad" is accepted for box and "polygon"
// or "spline" for freeform.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "box", "quad":
		return KindBox, nil
	case "circle":
		return KindCircle, nil
	case "freeform", "polygon", "spline":
		return KindFreeform, nil
	}
	return 0, fmt.Errorf("unknown shape kind %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	v, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// State is the lifecycle position of a session.
type State int

// Session states. Finalize and Reset both end in StateIdle.
const (
	StateIdle State = iota
	StateCollecting
	StatePendingFinalize
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCollecting:
		return "collecting"
	case StatePendingFinalize:
		return "pending-finalize"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}
