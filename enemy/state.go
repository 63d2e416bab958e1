package enemy

// State is the agent's behavior state. Death is tracked separately and
// ends all updates.
type State uint8

const (
	MovingToPoint State = iota
	Idle
	Combat
	TakingCover
)

func (s State) String() string {
	switch s {
	case MovingToPoint:
		return "moving_to_point"
	case Idle:
		return "idle"
	case Combat:
		return "combat"
	case TakingCover:
		return "taking_cover"
	default:
		return "unknown"
	}
}

// Animation is the presentation the agent asks for on a tick. Mapping it
// to concrete animator parameters is the host's job.
type Animation uint8

const (
	AnimNone Animation = iota
	AnimRun
	AnimIdle
	AnimShoot
	AnimDead
)

func (a Animation) String() string {
	switch a {
	case AnimRun:
		return "run"
	case AnimIdle:
		return "idle"
	case AnimShoot:
		return "shoot"
	case AnimDead:
		return "dead"
	default:
		return "none"
	}
}

// animationFor maps a live state to its animation.
func animationFor(s State) Animation {
	switch s {
	case MovingToPoint, TakingCover:
		return AnimRun
	case Idle:
		return AnimIdle
	case Combat:
		return AnimShoot
	default:
		return AnimNone
	}
}
