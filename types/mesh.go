package types

type Movability uint8

const (
	Free Movability = iota
	Fixed
	Frontier
)

var movabilityNames = [...]string{"Free", "Fixed", "Frontier"}

func (m Movability) String() string {
	if int(m) < len(movabilityNames) {
		return movabilityNames[m]
	}
	return "Unknown"
}

// Rank orders movability for merges: a merged vertex keeps the stronger tag
func (m Movability) Rank() int {
	switch m {
	case Fixed:
		return 2
	case Frontier:
		return 1
	}
	return 0
}

type LinkKind uint8

const (
	Interior LinkKind = iota
	Constrained
	FrontierLink
)

func (lk LinkKind) String() string {
	switch lk {
	case Interior:
		return "Interior"
	case Constrained:
		return "Constrained"
	case FrontierLink:
		return "Frontier"
	}
	return "Unknown"
}

type WireKind uint8

const (
	Outer WireKind = iota
	Hole
	SelfIntersecting
	Open
)

func (wk WireKind) String() string {
	switch wk {
	case Outer:
		return "Outer"
	case Hole:
		return "Hole"
	case SelfIntersecting:
		return "SelfIntersecting"
	case Open:
		return "Open"
	}
	return "Unknown"
}

type Classification uint8

const (
	Out Classification = iota
	In
	On
)

func (c Classification) String() string {
	switch c {
	case Out:
		return "Out"
	case In:
		return "In"
	case On:
		return "On"
	}
	return "Unknown"
}

// Retained reports whether a triangle sample with this classification keeps the triangle
func (c Classification) Retained() bool { return c != Out }

type FaceStatus uint8

const (
	Initial FaceStatus = iota
	Reused
	Outdated
	Failure
	Done
)

var FaceStatusNames = map[string]FaceStatus{
	"initial":  Initial,
	"reused":   Reused,
	"outdated": Outdated,
	"failure":  Failure,
	"done":     Done,
}

func (fs FaceStatus) String() string {
	for name, s := range FaceStatusNames {
		if s == fs {
			return name
		}
	}
	return "unknown"
}

// Terminal statuses are immutable once reached
func (fs FaceStatus) Terminal() bool {
	return fs == Reused || fs == Failure || fs == Done
}
