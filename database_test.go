package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gocarina/gocsv"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testRun(name string, score uint64) RunRecord {
	return RunRecord{
		SessionID: "s-" + name,
		Name:      name,
		Score:     score,
		Ticks:     score * 60,
		Duration:  float64(score),
		HitKind:   KindLog,
		EndedAt:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestRecordRunAndLeaderboard(t *testing.T) {
	db := openTestDB(t)
	for _, r := range []RunRecord{
		testRun("alice", 12),
		testRun("bob", 30),
		testRun("alice", 41),
		testRun("carol", 5),
		testRun("bob", 2),
	} {
		if _, err := db.RecordRun(r); err != nil {
			t.Fatalf("RecordRun: %v", err)
		}
	}

	lb, err := db.Leaderboard(0)
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	if len(lb) != 3 {
		t.Fatalf("expected one entry per name, got %d", len(lb))
	}
	want := []LeaderboardEntry{
		{Rank: 1, Name: "alice", Score: 41},
		{Rank: 2, Name: "bob", Score: 30},
		{Rank: 3, Name: "carol", Score: 5},
	}
	for i, e := range want {
		if lb[i] != e {
			t.Errorf("entry %d = %+v, want %+v", i, lb[i], e)
		}
	}

	top, _ := db.Leaderboard(1)
	if len(top) != 1 || top[0].Name != "alice" {
		t.Errorf("limit 1 = %+v", top)
	}
}

func TestProfile(t *testing.T) {
	db := openTestDB(t)
	db.RecordRun(testRun("dana", 7))
	db.RecordRun(testRun("dana", 19))

	p, err := db.Profile("dana")
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if p.Highscore != 19 || p.Runs != 2 {
		t.Errorf("profile = %+v", p)
	}

	p, err = db.Profile("nobody")
	if err != nil {
		t.Fatalf("Profile unknown: %v", err)
	}
	if p.Highscore != 0 || p.Runs != 0 || p.Name != "nobody" {
		t.Errorf("unknown profile = %+v", p)
	}
}

func TestAllRunsAndScores(t *testing.T) {
	db := openTestDB(t)
	r := testRun("erin", 3)
	r.Fallback = true
	id, err := db.RecordRun(r)
	if err != nil {
		t.Fatal(err)
	}
	db.RecordRun(testRun("erin", 9))

	runs, err := db.AllRuns()
	if err != nil {
		t.Fatalf("AllRuns: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != id {
		t.Fatalf("runs = %+v", runs)
	}
	got := runs[0]
	if got.Name != "erin" || got.Score != 3 || got.Ticks != 180 || !got.Fallback || got.HitKind != "log" {
		t.Errorf("run = %+v", got)
	}
	if !got.CreatedAt.Equal(r.EndedAt) {
		t.Errorf("created_at = %v, want %v", got.CreatedAt, r.EndedAt)
	}

	scores, err := db.Scores()
	if err != nil || len(scores) != 2 {
		t.Fatalf("scores = %v, %v", scores, err)
	}
}

func TestSettings(t *testing.T) {
	db := openTestDB(t)
	if v := db.GetSetting("missing"); v != "" {
		t.Errorf("missing setting = %q", v)
	}
	if err := db.SetSetting("k", "one"); err != nil {
		t.Fatal(err)
	}
	if err := db.SetSetting("k", "two"); err != nil {
		t.Fatal(err)
	}
	if v := db.GetSetting("k"); v != "two" {
		t.Errorf("setting = %q, want two", v)
	}
}

func TestWriteRunsCSV(t *testing.T) {
	db := openTestDB(t)
	db.RecordRun(testRun("finn", 8))
	db.RecordRun(testRun("gus", 4))
	runs, _ := db.AllRuns()

	var buf bytes.Buffer
	if err := WriteRunsCSV(&buf, runs); err != nil {
		t.Fatalf("WriteRunsCSV: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "id,session,name,score") {
		t.Errorf("header = %q", lines[0])
	}

	var parsed []RunCSV
	if err := gocsv.UnmarshalString(buf.String(), &parsed); err != nil {
		t.Fatalf("parse back: %v", err)
	}
	if parsed[1].Name != "gus" || parsed[1].Score != 4 || parsed[1].CreatedAt != "2026-03-01T12:00:00Z" {
		t.Errorf("row = %+v", parsed[1])
	}
}

func TestRunLogAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "runs.csv")
	rl, err := OpenRunLog(path)
	if err != nil {
		t.Fatalf("OpenRunLog: %v", err)
	}
	rl.Append(1, testRun("hal", 2))
	rl.Append(2, testRun("ivy", 6))
	rl.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(data), "id,session"); n != 1 {
		t.Errorf("header written %d times", n)
	}
	var parsed []RunCSV
	if err := gocsv.UnmarshalBytes(data, &parsed); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(parsed) != 2 || parsed[1].ID != 2 || parsed[1].Name != "ivy" {
		t.Errorf("log = %+v", parsed)
	}

	// Reopening after a restart keeps earlier rows and the single header
	rl, err = OpenRunLog(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if err := rl.Append(3, testRun("jon", 4)); err != nil {
		t.Fatalf("append after reopen: %v", err)
	}
	rl.Close()
	data, err = os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(data), "id,session"); n != 1 {
		t.Errorf("header written %d times after reopen", n)
	}
	parsed = nil
	if err := gocsv.UnmarshalBytes(data, &parsed); err != nil {
		t.Fatalf("parse after reopen: %v", err)
	}
	if len(parsed) != 3 || parsed[0].Name != "hal" || parsed[2].ID != 3 || parsed[2].Name != "jon" {
		t.Errorf("log after reopen = %+v", parsed)
	}

	// Disabled log is a no-op
	none, err := OpenRunLog("")
	if none != nil || err != nil {
		t.Fatalf("empty path = %v, %v", none, err)
	}
	if err := none.Append(1, testRun("x", 1)); err != nil {
		t.Error(err)
	}
}

func TestSummarizeScores(t *testing.T) {
	s := SummarizeScores(nil)
	if s.Runs != 0 || s.Mean != 0 {
		t.Errorf("empty summary = %+v", s)
	}

	s = SummarizeScores([]float64{10, 2, 4, 8, 6})
	if s.Runs != 5 || s.Mean != 6 || s.Max != 10 {
		t.Errorf("summary = %+v", s)
	}
	if s.Median != 6 {
		t.Errorf("median = %v, want 6", s.Median)
	}
	if s.P90 != 10 {
		t.Errorf("p90 = %v, want 10", s.P90)
	}
	if s.StdDev < 3.16 || s.StdDev > 3.17 {
		t.Errorf("stddev = %v", s.StdDev)
	}

	if one := SummarizeScores([]float64{3}); one.StdDev != 0 || one.Median != 3 {
		t.Errorf("single = %+v", one)
	}
}

func TestRunLedger(t *testing.T) {
	db := openTestDB(t)
	analytics := NewAnalytics(db)
	receipts := NewReceipts(db)
	ledger := NewRunLedger(db, receipts, analytics, nil)

	ledger.RecordRun(testRun("jo", 25))
	msg, err := ledger.RecordRun(testRun("jo", 11))
	if err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	if msg.Score != 11 || msg.Best != 25 {
		t.Errorf("gameover = %+v", msg)
	}

	claims, err := receipts.Verify(msg.Receipt)
	if err != nil {
		t.Fatalf("receipt: %v", err)
	}
	if claims.Name != "jo" || claims.Score != 11 || claims.RunID != 2 {
		t.Errorf("claims = %+v", claims)
	}

	analytics.Stop()
	hits, err := analytics.HitCounts()
	if err != nil {
		t.Fatal(err)
	}
	if hits["log"] != 2 {
		t.Errorf("hit counts = %v", hits)
	}
	counts, _ := analytics.EventCounts(1)
	if counts[EvtRunEnd] != 2 {
		t.Errorf("event counts = %v", counts)
	}
}

func TestRunEndDetail(t *testing.T) {
	run := testRun("lu", 9)
	run.Fallback = true
	detail, err := runEndDetail(run)
	if err != nil {
		t.Fatalf("runEndDetail: %v", err)
	}
	var got struct {
		Score uint64 `json:"score"`
		Ticks uint64 `json:"ticks"`
		Hit   string `json:"hit"`
		FB    bool   `json:"fb"`
	}
	if err := json.Unmarshal([]byte(detail), &got); err != nil {
		t.Fatalf("detail %q: %v", detail, err)
	}
	if got.Score != 9 || got.Ticks != 540 || got.Hit != "log" || !got.FB {
		t.Errorf("detail = %+v", got)
	}
}

func TestRunLedgerWithoutStore(t *testing.T) {
	ledger := NewRunLedger(nil, nil, nil, nil)
	msg, err := ledger.RecordRun(testRun("kit", 4))
	if err != nil {
		t.Fatal(err)
	}
	if msg.Score != 4 || msg.Best != 0 || msg.Receipt != "" {
		t.Errorf("gameover = %+v", msg)
	}
}
