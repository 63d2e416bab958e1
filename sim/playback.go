package sim

const (
	MinSpeed = 0.125
	MaxSpeed = 8.0
)

// Playback scales and pauses wall-clock ticks before they reach a World.
// Speed doubles and halves within [MinSpeed, MaxSpeed].
type Playback struct {
	Paused bool
	Speed  float64
}

func NewPlayback(speed float64) *Playback {
	return &Playback{Speed: min(max(speed, MinSpeed), MaxSpeed)}
}

func (p *Playback) TogglePause() {
	p.Paused = !p.Paused
}

func (p *Playback) Faster() {
	p.Speed = min(p.Speed*2, MaxSpeed)
}

func (p *Playback) Slower() {
	p.Speed = max(p.Speed/2, MinSpeed)
}

// Advance steps w by tick scaled by the current speed, unless paused.
func (p *Playback) Advance(w *World, tick float64) {
	if p.Paused {
		return
	}
	w.Step(tick * p.Speed)
}
