package main

// Intent is a discrete input event produced by the client's key bindings.
type Intent uint8

const (
	IntentNone Intent = iota
	IntentMoveLeftStart
	IntentMoveLeftStop
	IntentMoveRightStart
	IntentMoveRightStop
	IntentTogglePause
	IntentToggleMusic
)

var intentNames = map[string]Intent{
	"move_left_start":  IntentMoveLeftStart,
	"move_left_stop":   IntentMoveLeftStop,
	"move_right_start": IntentMoveRightStart,
	"move_right_stop":  IntentMoveRightStop,
	"toggle_pause":     IntentTogglePause,
	"toggle_music":     IntentToggleMusic,
}

// ParseIntent maps a wire name to an Intent (IntentNone if unknown)
func ParseIntent(name string) Intent {
	return intentNames[name]
}

// IntentFromCode maps a binary intent code to an Intent
func IntentFromCode(code byte) Intent {
	if code == 0 || code > byte(IntentToggleMusic) {
		return IntentNone
	}
	return Intent(code)
}

// IntentFlags accumulates intents between ticks. Event handlers only write
// here; the tick reads and clears the edge-triggered parts.
type IntentFlags struct {
	MoveLeft  bool
	MoveRight bool

	leftStarted  bool
	rightStarted bool
	pauseToggles int
	musicToggles int
}

// Apply records one intent event.
func (f *IntentFlags) Apply(in Intent) {
	switch in {
	case IntentMoveLeftStart:
		if !f.MoveLeft {
			f.leftStarted = true
		}
		f.MoveLeft = true
	case IntentMoveLeftStop:
		f.MoveLeft = false
	case IntentMoveRightStart:
		if !f.MoveRight {
			f.rightStarted = true
		}
		f.MoveRight = true
	case IntentMoveRightStop:
		f.MoveRight = false
	case IntentTogglePause:
		f.pauseToggles++
	case IntentToggleMusic:
		f.musicToggles++
	}
}

// TickInput is what one tick consumes from the flags.
type TickInput struct {
	MoveLeft     bool
	MoveRight    bool
	MoveStarted  bool // a lateral move began since the last tick
	PauseToggles int
	MusicToggles int
}

// Consume snapshots the flags for a tick and clears edge-triggered events.
// Held movement flags persist until their stop event.
func (f *IntentFlags) Consume() TickInput {
	in := TickInput{
		MoveLeft:     f.MoveLeft,
		MoveRight:    f.MoveRight,
		MoveStarted:  f.leftStarted || f.rightStarted,
		PauseToggles: f.pauseToggles,
		MusicToggles: f.musicToggles,
	}
	f.leftStarted = false
	f.rightStarted = false
	f.pauseToggles = 0
	f.musicToggles = 0
	return in
}
