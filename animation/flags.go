package animation

import (
	"sync"

	"github.com/milk9111/sentry/enemy"
)

// Animator parameter names, as a host animation controller keys them.
const (
	FlagRun   = "run"
	FlagIdle  = "idle"
	FlagShoot = "shoot"
	FlagDead  = "dead"
)

// stateFlags are cleared before every Play so a stale flag never survives a
// tick.
var stateFlags = [...]string{FlagRun, FlagIdle, FlagShoot}

// Sink receives boolean animator parameters.
type Sink interface {
	SetBool(name string, value bool)
}

// FlagSet maps enemy animations onto string-keyed bool flags. It keeps its
// own copy of the flags and forwards every write to an optional sink.
type FlagSet struct {
	mu    sync.RWMutex
	flags map[string]bool
	sink  Sink
}

func NewFlagSet(sink Sink) *FlagSet {
	return &FlagSet{flags: make(map[string]bool, 4), sink: sink}
}

// Play implements enemy.Animator.
func (f *FlagSet) Play(a enemy.Animation) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, name := range stateFlags {
		f.set(name, false)
	}
	if name, ok := flagFor(a); ok {
		f.set(name, true)
	}
}

func (f *FlagSet) set(name string, v bool) {
	f.flags[name] = v
	if f.sink != nil {
		f.sink.SetBool(name, v)
	}
}

func (f *FlagSet) Bool(name string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.flags[name]
}

// Active returns the names of the flags currently set.
func (f *FlagSet) Active() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	var out []string
	for _, name := range append(stateFlags[:], FlagDead) {
		if f.flags[name] {
			out = append(out, name)
		}
	}
	return out
}

func flagFor(a enemy.Animation) (string, bool) {
	switch a {
	case enemy.AnimRun:
		return FlagRun, true
	case enemy.AnimIdle:
		return FlagIdle, true
	case enemy.AnimShoot:
		return FlagShoot, true
	case enemy.AnimDead:
		return FlagDead, true
	}
	return "", false
}
