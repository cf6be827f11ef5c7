package main

import "encoding/json"

// Client -> Server message types
const (
	MsgList    = "list"    // list sessions
	MsgCreate  = "create"  // create session and pilot its boat
	MsgJoin    = "join"    // spectate a session
	MsgCheck   = "check"   // check if session exists
	MsgLeave   = "leave"
	MsgControl = "control" // phone controller attach
	MsgIntent  = "intent"
	MsgRestart = "restart" // new run after game over
	MsgModel   = "model"   // renderer reports boat model load result
)

// Server -> Client message types
const (
	MsgState     = "state" // msgpack SceneFrame, sent as a binary frame
	MsgWelcome   = "welcome"
	MsgGameOver  = "gameover"
	MsgSessions  = "sessions"
	MsgCreated   = "created"
	MsgJoined    = "joined"
	MsgError     = "error"
	MsgChecked   = "checked"
	MsgControlOK = "control_ok"
	MsgCtrlOn    = "ctrl_on"  // notify pilot: controller attached
	MsgCtrlOff   = "ctrl_off" // notify pilot: controller detached
)

// Binary client frames
const (
	binIntent byte = 0x02 // [0x02, intent code]
	binMarker byte = 0xFF // outgoing binary marker, stripped by WritePump
)

// Envelope wraps all outgoing messages with a type field
type Envelope struct {
	T    string      `json:"t"`
	Data interface{} `json:"d,omitempty"`
}

// InEnvelope is used for incoming messages; json.RawMessage avoids double-unmarshal
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// CreateMsg is sent when a player wants a new session
type CreateMsg struct {
	Name        string `json:"name"`
	SessionName string `json:"sname"`
	ModelFailed bool   `json:"model_failed,omitempty"`
}

// JoinMsg is sent to spectate a session
type JoinMsg struct {
	Name      string `json:"name"`
	SessionID string `json:"sid"`
}

// IntentMsg carries one input intent by name
type IntentMsg struct {
	Intent string `json:"i"`
}

// ModelMsg reports whether the renderer loaded the boat model
type ModelMsg struct {
	OK bool `json:"ok"`
}

// ControlMsg is sent by a phone controller to attach to a session's boat
type ControlMsg struct {
	SID string `json:"sid"`
}

// CheckMsg is sent by client to check if a session exists
type CheckMsg struct {
	SID string `json:"sid"`
}

// CheckedMsg is the response to a session check
type CheckedMsg struct {
	SID      string `json:"sid"`
	Exists   bool   `json:"exists"`
	Name     string `json:"name,omitempty"`
	Viewers  int    `json:"viewers,omitempty"`
	GameOver bool   `json:"over,omitempty"`
}

// SessionInfo is used in the session list
type SessionInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Pilot   string `json:"pilot"`
	Score   uint64 `json:"score"`
	Viewers int    `json:"viewers"`
}

// ErrorMsg sends error to client
type ErrorMsg struct {
	Msg string `json:"msg"`
}

// WelcomeMsg tells a client its role and how to rebuild the water locally
type WelcomeMsg struct {
	ID       string     `json:"id"`
	Role     string     `json:"role"` // pilot, viewer or controller
	Water    []WaveTerm `json:"water"`
	Grid     [2]int     `json:"grid"`  // segments x, y
	Plane    [2]float64 `json:"plane"` // width, depth
	TickRate int        `json:"tick_rate"`
	Kinds    []string   `json:"kinds"`
}

// GameOverMsg is sent once per run when it ends
type GameOverMsg struct {
	Score    uint64  `json:"score"`
	Ticks    uint64  `json:"ticks"`
	Duration float64 `json:"duration"`
	Best     int64   `json:"best"`
	Receipt  string  `json:"receipt,omitempty"`
}

// Vec3State is a rounded position triple
type Vec3State [3]float64

// EmitterState is one spray burst
type EmitterState struct {
	Active bool        `json:"a" msgpack:"a"`
	Life   float64     `json:"l" msgpack:"l"`
	Size   float64     `json:"s" msgpack:"s"`
	Origin Vec3State   `json:"o" msgpack:"o"`
	Points []Vec3State `json:"p,omitempty" msgpack:"p,omitempty"`
}

// PlayerState is the boat transform and its sprays
type PlayerState struct {
	ID       string       `json:"id" msgpack:"id"`
	Name     string       `json:"n" msgpack:"n"`
	Pos      Vec3State    `json:"pos" msgpack:"pos"`
	Fallback bool         `json:"fb,omitempty" msgpack:"fb,omitempty"`
	Bow      EmitterState `json:"bow" msgpack:"bow"`
	Impact   EmitterState `json:"hit" msgpack:"hit"`
}

// ObstacleState is broadcast per obstacle
type ObstacleState struct {
	ID   string    `json:"id" msgpack:"id"`
	Kind uint8     `json:"k" msgpack:"k"`
	Pos  Vec3State `json:"pos" msgpack:"pos"`
	Rot  Vec3State `json:"rot" msgpack:"rot"`
}

// CameraState is the camera transform
type CameraState struct {
	Pos    Vec3State `json:"pos" msgpack:"pos"`
	LookAt Vec3State `json:"at" msgpack:"at"`
}

// DrifterState is one cloud or bird
type DrifterState struct {
	Kind uint8     `json:"k" msgpack:"k"`
	Pos  Vec3State `json:"pos" msgpack:"pos"`
}

// SceneFrame is everything the renderer needs for one frame. The water is sent
// as its time value; clients evaluate the terms from the welcome message.
type SceneFrame struct {
	Tick      uint64          `json:"tick" msgpack:"tick"`
	Phase     string          `json:"ph" msgpack:"ph"`
	GameOver  bool            `json:"go" msgpack:"go"`
	Score     uint64          `json:"sc" msgpack:"sc"`
	Speed     float64         `json:"sp" msgpack:"sp"`
	WaterT    float64         `json:"wt" msgpack:"wt"`
	MusicOn   bool            `json:"mu" msgpack:"mu"`
	Player    PlayerState     `json:"p" msgpack:"p"`
	Camera    CameraState     `json:"cam" msgpack:"cam"`
	Obstacles []ObstacleState `json:"o" msgpack:"o"`
	Ambient   []DrifterState  `json:"amb" msgpack:"amb"`
	Cues      []string        `json:"cues,omitempty" msgpack:"cues,omitempty"`
}
