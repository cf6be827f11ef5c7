package main

import (
	"errors"
	"sync"
	"testing"
)

func TestSessionLifecycle(t *testing.T) {
	sm := NewSessionManager(DefaultTuning(), nil, 7)
	sess, err := sm.CreateSession("Bay", "Pip", true)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if sess.PilotID == "" || sess.Game.PilotName() != "Pip" {
		t.Errorf("session = %+v", sess)
	}

	pilot, viewer := &mockBroadcaster{}, &mockBroadcaster{}
	sess.Game.AddClient(sess.PilotID, pilot)
	if _, err := sm.Attach(sess.ID, "v1", viewer); err != nil {
		t.Fatalf("Attach: %v", err)
	}

	list := sm.ListSessions()
	if len(list) != 1 || list[0].Viewers != 2 || list[0].Pilot != "Pip" || list[0].Name != "Bay" {
		t.Errorf("list = %+v", list)
	}

	if sm.Detach(sess.ID, "v1") {
		t.Error("session closed while the pilot is still attached")
	}
	if !sm.Detach(sess.ID, sess.PilotID) {
		t.Error("session should close with its last client")
	}
	if _, err := sm.GetSession(sess.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("GetSession after close: %v", err)
	}
	if sm.Detach(sess.ID, "v1") {
		t.Error("detaching from a closed session")
	}
}

func TestSessionAttachErrors(t *testing.T) {
	sm := NewSessionManager(DefaultTuning(), nil, 7)
	if _, err := sm.Attach("nope", "c", &mockBroadcaster{}); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("unknown session: %v", err)
	}

	sess, _ := sm.CreateSession("Full", "Pip", true)
	defer sess.Game.Stop()
	for i := 0; i < maxClientsPerSession; i++ {
		sess.Game.AddClient(GenerateID(4), &mockBroadcaster{})
	}
	if _, err := sm.Attach(sess.ID, "late", &mockBroadcaster{}); !errors.Is(err, ErrSessionFull) {
		t.Errorf("full session: %v", err)
	}
}

func TestSessionAttachRacesLastDetach(t *testing.T) {
	sm := NewSessionManager(DefaultTuning(), nil, 7)
	for i := 0; i < 50; i++ {
		sess, err := sm.CreateSession("Race", "Pip", true)
		if err != nil {
			t.Fatalf("CreateSession: %v", err)
		}
		sess.Game.AddClient(sess.PilotID, &mockBroadcaster{})

		var wg sync.WaitGroup
		var attachErr error
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, attachErr = sm.Attach(sess.ID, "v1", &mockBroadcaster{})
		}()
		go func() {
			defer wg.Done()
			sm.Detach(sess.ID, sess.PilotID)
		}()
		wg.Wait()

		_, getErr := sm.GetSession(sess.ID)
		switch {
		case attachErr == nil && getErr != nil:
			t.Fatalf("attached to a session that was torn down")
		case attachErr != nil && !errors.Is(attachErr, ErrSessionNotFound):
			t.Fatalf("Attach: %v", attachErr)
		case attachErr != nil && getErr == nil:
			t.Fatalf("attach refused but session still live")
		}
		if attachErr == nil && !sm.Detach(sess.ID, "v1") {
			t.Fatal("session should close with its last client")
		}
	}
	if n := sm.Count(); n != 0 {
		t.Errorf("%d sessions leaked", n)
	}
}

func TestGameSeedIsDeterministic(t *testing.T) {
	cfg := DefaultTuning()
	ga := NewGame("a", "p", "x", cfg, true, 100)
	gb := NewGame("b", "p", "y", cfg, true, 100)

	for i := 0; i < 600; i++ {
		elapsed := float64(i+1) * testStep
		ga.Step(testStep, elapsed)
		gb.Step(testStep, elapsed)
	}
	fa, fb := ga.Scene(), gb.Scene()
	if len(fa.Obstacles) != len(fb.Obstacles) {
		t.Fatalf("obstacle counts differ: %d vs %d", len(fa.Obstacles), len(fb.Obstacles))
	}
	for i := range fa.Obstacles {
		if fa.Obstacles[i].Pos != fb.Obstacles[i].Pos {
			t.Errorf("obstacle %d differs: %v vs %v", i, fa.Obstacles[i].Pos, fb.Obstacles[i].Pos)
		}
	}
}
