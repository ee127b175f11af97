package galaxy

// Component identifies one part of the galaxy model.
type Component int

// Components in catalog order. The order is part of the output contract:
// downstream consumers index rows positionally.
const (
	Bulge Component = iota
	Bar
	Disk
	SpiralArms
	Halo
)

// AllComponents lists every component in catalog order.
var AllComponents = []Component{Bulge, Bar, Disk, SpiralArms, Halo}

func (c Component) String() string {
	switch c {
	case Bulge:
		return "bulge"
	case Bar:
		return "bar"
	case Disk:
		return "disk"
	case SpiralArms:
		return "spiral_arms"
	case Halo:
		return "halo"
	default:
		return "unknown"
	}
}

// MarshalText encodes a component by name.
func (c Component) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// stream is the PCG stream id used for a component's generator.
func (c Component) stream() uint64 {
	return uint64(c) + 1
}

// Result is the output of one component generator.
type Result struct {
	Component Component
	Requested int
	Stars     Stars
	// Fallbacks counts stars whose rejection loop hit its attempt cap.
	Fallbacks int
}
