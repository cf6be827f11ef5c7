package main

import (
	"encoding/json"
	"fmt"
	"log"
)

// RunLedger records finished runs into the store, the CSV log and the
// analytics stream, and signs the receipt handed back to the player.
type RunLedger struct {
	db        *DB
	receipts  *Receipts
	analytics *Analytics
	runLog    *RunLog
}

// NewRunLedger wires the recorder. Any part may be nil.
func NewRunLedger(db *DB, receipts *Receipts, analytics *Analytics, runLog *RunLog) *RunLedger {
	return &RunLedger{db: db, receipts: receipts, analytics: analytics, runLog: runLog}
}

// RecordRun implements RunRecorder
func (l *RunLedger) RecordRun(run RunRecord) (GameOverMsg, error) {
	msg := GameOverMsg{
		Score:    run.Score,
		Ticks:    run.Ticks,
		Duration: round2(run.Duration),
	}

	var runID int64
	if l.db != nil {
		id, err := l.db.RecordRun(run)
		if err != nil {
			return msg, fmt.Errorf("record run: %w", err)
		}
		runID = id
		p, err := l.db.Profile(run.Name)
		if err != nil {
			return msg, err
		}
		msg.Best = p.Highscore
		log.Printf("Run %d recorded: %s scored %d (best %d)", runID, run.Name, run.Score, p.Highscore)
	}

	if err := l.runLog.Append(runID, run); err != nil {
		log.Printf("Run log: %v", err)
	}

	if l.receipts != nil {
		token, err := l.receipts.Issue(run, runID)
		if err != nil {
			return msg, err
		}
		msg.Receipt = token
	}

	detail, err := runEndDetail(run)
	if err != nil {
		log.Printf("Run end event for session %s: %v", run.SessionID, err)
	}
	l.analytics.Track(EvtRunEnd, run.SessionID, detail)
	return msg, nil
}

// runEndDetail is the JSON payload of the run_end analytics event
func runEndDetail(run RunRecord) (string, error) {
	data, err := json.Marshal(map[string]interface{}{
		"score": run.Score,
		"ticks": run.Ticks,
		"hit":   run.HitKind.String(),
		"fb":    run.Fallback,
	})
	if err != nil {
		return "", fmt.Errorf("encoding run end detail: %w", err)
	}
	return string(data), nil
}
