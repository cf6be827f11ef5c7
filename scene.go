package main

import (
	"github.com/vmihailenco/msgpack/v5"
)

// Scene snapshots the session for the renderer and drains the cues raised
// since the previous snapshot.
func (g *Game) Scene() SceneFrame {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.sceneLocked()
}

func (g *Game) sceneLocked() SceneFrame {
	obs := g.field.Obstacles()
	f := SceneFrame{
		Tick:      g.tick,
		Phase:     g.state.Phase.String(),
		GameOver:  g.state.Over(),
		Score:     g.state.Score,
		Speed:     round2(g.state.Speed * TickRate), // units per second
		WaterT:    round2(g.water.Time()),
		MusicOn:   g.musicPlaying(),
		Player:    g.player.ToState(),
		Camera:    g.camera.ToState(),
		Obstacles: make([]ObstacleState, 0, len(obs)),
		Ambient:   g.ambient.ToState(),
		Cues:      g.cues.Drain(),
	}
	for _, o := range obs {
		f.Obstacles = append(f.Obstacles, o.ToState())
	}
	return f
}

// EncodeScene serializes a frame for a binary WebSocket message
func EncodeScene(f SceneFrame) ([]byte, error) {
	return msgpack.Marshal(&f)
}

// DecodeScene is the inverse of EncodeScene
func DecodeScene(data []byte) (SceneFrame, error) {
	var f SceneFrame
	err := msgpack.Unmarshal(data, &f)
	return f, err
}

// broadcastState sends the current scene to all clients as msgpack binary
func (g *Game) broadcastState() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.clients) == 0 {
		return
	}

	data, err := EncodeScene(g.sceneLocked())
	if err != nil {
		return
	}
	for _, client := range g.clients {
		client.SendBinary(data)
	}
}

// welcome describes the session's static setup to a newly attached client
func (g *Game) welcome(clientID, role string) WelcomeMsg {
	w := g.cfg.Water
	return WelcomeMsg{
		ID:       clientID,
		Role:     role,
		Water:    w.Terms,
		Grid:     [2]int{w.SegmentsX, w.SegmentsY},
		Plane:    [2]float64{w.Width, w.Depth},
		TickRate: TickRate,
		Kinds:    []string{KindRock.String(), KindLog.String()},
	}
}
