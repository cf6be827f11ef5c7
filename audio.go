package main

// Cue is a fire-and-forget audio trigger for the client.
type Cue uint8

const (
	CueMove      Cue = iota + 1 // lateral move started
	CueCollision                // run ended on an obstacle
	CuePause
	CueResume
	CueMusic // background music toggled; see MusicOn in the frame
)

func (c Cue) String() string {
	switch c {
	case CueMove:
		return "move"
	case CueCollision:
		return "collision"
	case CuePause:
		return "pause"
	case CueResume:
		return "resume"
	case CueMusic:
		return "music"
	}
	return "unknown"
}

// AudioSink receives cues as the simulation raises them. Implementations must
// not block.
type AudioSink interface {
	Play(c Cue)
}

// CueQueue buffers cues until the next frame is built.
type CueQueue struct {
	cues []Cue
}

// Play appends c to the queue
func (q *CueQueue) Play(c Cue) {
	q.cues = append(q.cues, c)
}

// Drain returns the queued cue names and empties the queue
func (q *CueQueue) Drain() []string {
	if len(q.cues) == 0 {
		return nil
	}
	out := make([]string, len(q.cues))
	for i, c := range q.cues {
		out[i] = c.String()
	}
	q.cues = q.cues[:0]
	return out
}
