package main

import (
	"errors"
	"math/rand/v2"
	"sync"
	"time"
)

const (
	maxSessions          = 100
	maxClientsPerSession = 20
)

var (
	ErrSessionFull     = errors.New("session full")
	ErrSessionNotFound = errors.New("session not found")
	ErrTooManySessions = errors.New("too many active sessions")
)

// Session is one run hosted by the server: a pilot, an optional phone
// controller and any number of spectators, all watching the same Game.
type Session struct {
	ID        string
	Name      string
	PilotID   string
	Game      *Game
	CreatedAt time.Time
}

// SessionManager handles creation and lookup of sessions
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	cfg      *Tuning
	recorder RunRecorder
	seed     uint64 // 0 picks a random seed per session
	created  uint64
}

// NewSessionManager creates a new SessionManager
func NewSessionManager(cfg *Tuning, recorder RunRecorder, seed uint64) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*Session),
		cfg:      cfg,
		recorder: recorder,
		seed:     seed,
	}
}

// CreateSession starts a new game piloted by pilotName.
func (sm *SessionManager) CreateSession(name, pilotName string, modelLoaded bool) (*Session, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if len(sm.sessions) >= maxSessions {
		return nil, ErrTooManySessions
	}

	sm.created++
	seed := rand.Uint64()
	if sm.seed != 0 {
		seed = sm.seed + sm.created - 1
	}

	id := GenerateUUID()
	pilotID := GenerateID(4)
	game := NewGame(id, pilotID, pilotName, sm.cfg, modelLoaded, seed)
	if sm.recorder != nil {
		game.SetRecorder(sm.recorder)
	}
	sess := &Session{
		ID:        id,
		Name:      name,
		PilotID:   pilotID,
		Game:      game,
		CreatedAt: time.Now(),
	}
	sm.sessions[id] = sess
	go game.Run()
	return sess, nil
}

// GetSession returns a session by ID
func (sm *SessionManager) GetSession(id string) (*Session, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sess, ok := sm.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Attach subscribes a client to a session's frames
func (sm *SessionManager) Attach(id, clientID string, client Broadcaster) (*Session, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sess, ok := sm.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if sess.Game.ClientCount() >= maxClientsPerSession {
		return nil, ErrSessionFull
	}
	sess.Game.AddClient(clientID, client)
	return sess, nil
}

// Detach removes a client from a session and tears the session down once
// nobody is watching it. Reports whether the session was closed. The
// manager lock is held throughout so Attach cannot join a stopping game.
func (sm *SessionManager) Detach(sessionID, clientID string) bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sess, ok := sm.sessions[sessionID]
	if !ok {
		return false
	}
	sess.Game.RemoveClient(clientID)

	if sess.Game.ClientCount() > 0 {
		return false
	}
	sess.Game.Stop()
	delete(sm.sessions, sessionID)
	return true
}

// Count returns the number of live sessions
func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

// ListSessions returns info about all active sessions
func (sm *SessionManager) ListSessions() []SessionInfo {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	list := make([]SessionInfo, 0, len(sm.sessions))
	for _, sess := range sm.sessions {
		list = append(list, SessionInfo{
			ID:      sess.ID,
			Name:    sess.Name,
			Pilot:   sess.Game.PilotName(),
			Score:   sess.Game.State().Score,
			Viewers: sess.Game.ClientCount(),
		})
	}
	return list
}
