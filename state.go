package main

import "fmt"

// Phase is the run state machine: Running <-> Paused, then GameOver.
type Phase uint8

const (
	PhaseRunning Phase = iota
	PhasePaused
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseRunning:
		return "running"
	case PhasePaused:
		return "paused"
	case PhaseGameOver:
		return "gameover"
	}
	return fmt.Sprintf("phase(%d)", uint8(p))
}

// SessionState holds the counters of one run. Score only grows, speed only
// grows while Running, and GameOver is terminal.
type SessionState struct {
	Score uint64
	Phase Phase
	Speed float64
}

// NewSessionState starts a run in the Running phase
func NewSessionState(cfg SessionConfig) SessionState {
	return SessionState{Phase: PhaseRunning, Speed: cfg.InitialSpeed}
}

// Running reports whether gameplay advances this tick
func (s SessionState) Running() bool { return s.Phase == PhaseRunning }

// Over reports whether the run has ended
func (s SessionState) Over() bool { return s.Phase == PhaseGameOver }

// TogglePause flips Running and Paused. It is ignored after GameOver and
// reports whether the phase changed.
func (s *SessionState) TogglePause() bool {
	switch s.Phase {
	case PhaseRunning:
		s.Phase = PhasePaused
	case PhasePaused:
		s.Phase = PhaseRunning
	default:
		return false
	}
	return true
}

// EndGame enters GameOver. Only the first call returns true.
func (s *SessionState) EndGame() bool {
	if s.Phase == PhaseGameOver {
		return false
	}
	s.Phase = PhaseGameOver
	return true
}

// Accelerate adds step to speed while Running.
func (s *SessionState) Accelerate(step float64) {
	if s.Phase != PhaseRunning || step <= 0 {
		return
	}
	s.Speed += step
}

// AddScore awards n passed obstacles.
func (s *SessionState) AddScore(n int) {
	if n > 0 {
		s.Score += uint64(n)
	}
}
