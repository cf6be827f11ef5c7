package main

import (
	"log"
	"math/rand/v2"
	"sync"
	"time"
)

const (
	TickRate       = 60 // simulation ticks per second
	BroadcastRate  = 30 // scene frames per second
	TickDuration   = time.Second / TickRate
	BroadcastEvery = TickRate / BroadcastRate
)

// Broadcaster interface for sending messages to clients
type Broadcaster interface {
	SendJSON(msg interface{})
	SendBinary(data []byte)
}

// RunRecord describes one finished run
type RunRecord struct {
	SessionID string
	Name      string
	Score     uint64
	Ticks     uint64
	Duration  float64 // seconds of simulated time
	Fallback  bool
	HitKind   ObstacleKind
	EndedAt   time.Time
}

// RunRecorder persists a finished run and returns what the player is told
// about it. Called once per run, outside the game lock.
type RunRecorder interface {
	RecordRun(run RunRecord) (GameOverMsg, error)
}

// Game holds the simulation of one session. All entity state is mutated only
// by Step; intent handlers just set flags.
type Game struct {
	mu       sync.Mutex
	cfg      *Tuning
	id       string
	rng      *rand.Rand
	clock    *Clock
	recorder RunRecorder

	water   *WaterGrid
	player  *Player
	field   *ObstacleField
	spawner *ObstacleSpawner
	camera  *CameraRig
	ambient *AmbientField

	state   SessionState
	intents IntentFlags
	cues    CueQueue
	audio   AudioSink

	musicOn      bool
	musicStarted bool
	bowTimer     float64
	pendingRun   *RunRecord // ended run not yet handed to the recorder

	tick       uint64
	elapsed    float64
	runTick    uint64  // tick the current run started on
	runElapsed float64 // elapsed time the current run started at

	clients  map[string]Broadcaster
	stop     chan struct{}
	stopOnce sync.Once
}

// NewGame creates a session simulation for one pilot.
func NewGame(id, pilotID, pilotName string, cfg *Tuning, modelLoaded bool, seed uint64) *Game {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	g := &Game{
		cfg:     cfg,
		id:      id,
		rng:     rng,
		clock:   NewClock(time.Now),
		water:   NewWaterGrid(cfg.Water),
		player:  NewPlayer(pilotID, pilotName, cfg, modelLoaded, rng),
		field:   NewObstacleField(cfg.Obstacles),
		spawner: NewObstacleSpawner(cfg.Spawner, cfg.Obstacles, rng),
		camera:  NewCameraRig(cfg.Camera),
		ambient: NewAmbientField(cfg.Ambient, rng, int64(seed)),
		state:   NewSessionState(cfg.Session),
		clients: make(map[string]Broadcaster),
		stop:    make(chan struct{}),
	}
	g.audio = &g.cues
	g.bowTimer = cfg.Player.BowInterval
	return g
}

// SetRecorder installs the run recorder used at GameOver
func (g *Game) SetRecorder(r RunRecorder) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.recorder = r
}

// Run starts the game loop
func (g *Game) Run() {
	ticker := time.NewTicker(TickDuration)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			dt, elapsed := g.clock.Tick()
			ended := g.Step(dt, elapsed)
			if ended {
				g.finishRun()
			}
			if ended || g.Tick()%BroadcastEvery == 0 {
				g.broadcastState()
			}
		case <-g.stop:
			return
		}
	}
}

// Stop terminates the game loop
func (g *Game) Stop() {
	g.stopOnce.Do(func() { close(g.stop) })
}

// Tick returns the number of simulation steps taken
func (g *Game) Tick() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.tick
}

// AddClient subscribes a connection to scene frames
func (g *Game) AddClient(id string, client Broadcaster) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.clients[id] = client
}

// RemoveClient unsubscribes a connection
func (g *Game) RemoveClient(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.clients, id)
}

// ClientCount returns the number of subscribed connections
func (g *Game) ClientCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.clients)
}

// PilotName returns the boat's name
func (g *Game) PilotName() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.player.Name
}

// SendTo delivers a message to one subscribed client, if present
func (g *Game) SendTo(id string, msg Envelope) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if c, ok := g.clients[id]; ok {
		c.SendJSON(msg)
	}
}

// HandleIntent records an input intent for the next tick. It never touches
// entities directly.
func (g *Game) HandleIntent(in Intent) {
	if in == IntentNone {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.intents.Apply(in)
}

// ReportModel switches the boat to its fallback sprays when the renderer
// could not load the model.
func (g *Game) ReportModel(ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !ok && !g.player.Fallback {
		g.player.UseFallback(g.cfg, g.rng)
	}
}

// State returns a copy of the run counters
func (g *Game) State() SessionState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Step advances the simulation by one tick and reports whether the run ended
// on this tick.
func (g *Game) Step(dt, elapsed float64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.tick++
	g.elapsed = elapsed
	in := g.intents.Consume()
	g.applyToggles(in)

	g.water.Recompute(elapsed)

	p := g.player
	if !g.state.Over() {
		g.bowTimer += dt
		if g.bowTimer >= g.cfg.Player.BowInterval {
			g.bowTimer = 0
			p.Bow.Trigger(Vector3{X: p.Pos.X, Z: p.Pos.Z + g.cfg.Player.BowOffsetZ})
		}
		if in.MoveStarted {
			g.startMusic()
			if g.cfg.Player.MoveSplash {
				p.Impact.Trigger(Vector3{X: p.Pos.X - 0.5, Z: p.Pos.Z - 1})
			}
			g.audio.Play(CueMove)
		}
	}
	p.UpdateEmitters(dt)
	g.ambient.Update(dt, elapsed)

	if !g.state.Running() {
		return false
	}

	if in.MoveLeft {
		p.MoveLateral(-g.cfg.Player.DodgeSpeed)
	}
	if in.MoveRight {
		p.MoveLateral(g.cfg.Player.DodgeSpeed)
	}

	g.field.Advance(g.state.Speed, elapsed)
	hit := g.field.FirstCollision(p.Pos, p.Footprint)

	// These still run on the collision tick.
	g.state.AddScore(g.field.Recycle(p.Pos.Z))
	g.state.Accelerate(g.cfg.Session.SpeedIncrement)
	if o := g.spawner.Roll(p.Pos.Z, elapsed); o != nil {
		g.field.Add(o)
	}
	g.camera.Follow(p.Pos)

	if hit == nil || !g.state.EndGame() {
		return false
	}
	p.Impact.Trigger(Vector3{X: p.Pos.X, Z: p.Pos.Z - g.cfg.Player.ImpactOffsetZ})
	g.audio.Play(CueCollision)
	g.pendingRun = &RunRecord{
		SessionID: g.id,
		Name:      p.Name,
		Score:     g.state.Score,
		Ticks:     g.tick - g.runTick,
		Duration:  g.elapsed - g.runElapsed,
		Fallback:  p.Fallback,
		HitKind:   hit.Kind,
		EndedAt:   time.Now(),
	}
	return true
}

func (g *Game) applyToggles(in TickInput) {
	for i := 0; i < in.PauseToggles; i++ {
		if !g.state.TogglePause() {
			break
		}
		if g.state.Phase == PhasePaused {
			g.audio.Play(CuePause)
		} else {
			g.audio.Play(CueResume)
		}
	}
	for i := 0; i < in.MusicToggles; i++ {
		g.musicOn = !g.musicOn
		g.musicStarted = true
		g.audio.Play(CueMusic)
	}
}

// startMusic turns music on at the first interaction only.
func (g *Game) startMusic() {
	if g.musicStarted {
		return
	}
	g.musicStarted = true
	g.musicOn = true
	g.audio.Play(CueMusic)
}

// musicPlaying reports whether background music should be audible
func (g *Game) musicPlaying() bool {
	return g.musicOn && g.state.Phase != PhasePaused
}

// Restart begins a fresh run after GameOver. Clients, music and the ambient
// sky carry over; everything else is rebuilt. It is refused until the ended
// run has been recorded.
func (g *Game) Restart() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.state.Over() || g.pendingRun != nil {
		return false
	}
	p := g.player
	g.player = NewPlayer(p.ID, p.Name, g.cfg, !p.Fallback, g.rng)
	g.field = NewObstacleField(g.cfg.Obstacles)
	g.camera = NewCameraRig(g.cfg.Camera)
	g.state = NewSessionState(g.cfg.Session)
	g.intents = IntentFlags{}
	g.bowTimer = g.cfg.Player.BowInterval
	g.runTick = g.tick
	g.runElapsed = g.elapsed
	return true
}

// finishRun records the run Step ended and tells every client. The recorder
// runs without the game lock held.
func (g *Game) finishRun() {
	g.mu.Lock()
	if g.pendingRun == nil {
		g.mu.Unlock()
		return
	}
	run := *g.pendingRun
	rec := g.recorder
	g.mu.Unlock()

	msg := GameOverMsg{Score: run.Score, Ticks: run.Ticks, Duration: round2(run.Duration)}
	if rec != nil {
		res, err := rec.RecordRun(run)
		if err != nil {
			log.Printf("Record run for session %s: %v", g.id, err)
		} else {
			msg = res
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.pendingRun = nil
	g.broadcastMsg(Envelope{T: MsgGameOver, Data: msg})
}

// broadcastMsg sends a message to all clients in the session
func (g *Game) broadcastMsg(msg Envelope) {
	for _, client := range g.clients {
		client.SendJSON(msg)
	}
}
