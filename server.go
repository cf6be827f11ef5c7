package main

import (
	"encoding/json"
	"errors"
	"log"
	"net"
	"net/http"
	"net/url"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/gorilla/websocket"
)

var uuidPathRe = regexp.MustCompile(`^/[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true // Non-browser clients don't send Origin
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return u.Host == r.Host
	},
}

func extractIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

// StatsResponse is the body of GET /stats
type StatsResponse struct {
	Scores   ScoreSummary   `json:"scores"`
	Hits     map[string]int `json:"hits,omitempty"`
	Events   map[string]int `json:"events,omitempty"`
	Peers    int            `json:"peers"`
	Sessions int            `json:"sessions"`
}

// SetupRoutes configures HTTP routes
func SetupRoutes(hub *Hub, clientDir string) *http.ServeMux {
	mux := http.NewServeMux()

	// Serve static files with no-cache so browsers always revalidate
	fs := http.FileServer(http.Dir(clientDir))
	mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache")
		// SPA: serve index.html for root and session paths
		if r.URL.Path == "/" || uuidPathRe.MatchString(r.URL.Path) {
			http.ServeFile(w, r, filepath.Join(clientDir, "index.html"))
			return
		}
		fs.ServeHTTP(w, r)
	}))

	// WebSocket endpoint
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		ip := extractIP(r)
		if !hub.CanAccept(ip) {
			http.Error(w, "too many connections", http.StatusServiceUnavailable)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("upgrade error: %v", err)
			return
		}

		hub.TrackConnect(ip)

		client := NewClient(hub, conn, ip)
		hub.register <- client

		go client.WritePump()
		go client.ReadPump()
	})

	mux.HandleFunc("GET /leaderboard", func(w http.ResponseWriter, r *http.Request) {
		if hub.db == nil {
			writeJSON(w, http.StatusOK, []LeaderboardEntry{})
			return
		}
		limit := leaderboardSize
		if n, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && n > 0 && n <= 100 {
			limit = n
		}
		entries, err := hub.db.Leaderboard(limit)
		if err != nil {
			log.Printf("leaderboard: %v", err)
			http.Error(w, "database error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, entries)
	})

	mux.HandleFunc("GET /profile", func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("name")
		if name == "" || len(name) > maxNameLen {
			http.Error(w, "name required", http.StatusBadRequest)
			return
		}
		if hub.db == nil {
			writeJSON(w, http.StatusOK, ProfileRow{Name: name})
			return
		}
		p, err := hub.db.Profile(name)
		if err != nil {
			log.Printf("profile: %v", err)
			http.Error(w, "database error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, p)
	})

	mux.HandleFunc("GET /stats", func(w http.ResponseWriter, r *http.Request) {
		resp := StatsResponse{Sessions: hub.sessions.Count(), Peers: hub.ClientCount()}
		if hub.db != nil {
			scores, err := hub.db.Scores()
			if err != nil {
				log.Printf("stats: %v", err)
				http.Error(w, "database error", http.StatusInternalServerError)
				return
			}
			resp.Scores = SummarizeScores(scores)
		}
		if hub.analytics != nil {
			resp.Hits, _ = hub.analytics.HitCounts()
			resp.Events, _ = hub.analytics.EventCounts(30)
		}
		writeJSON(w, http.StatusOK, resp)
	})

	mux.HandleFunc("GET /runs.csv", func(w http.ResponseWriter, r *http.Request) {
		var runs []RunRow
		if hub.db != nil {
			var err error
			if runs, err = hub.db.AllRuns(); err != nil {
				log.Printf("runs export: %v", err)
				http.Error(w, "database error", http.StatusInternalServerError)
				return
			}
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="runs.csv"`)
		if err := WriteRunsCSV(w, runs); err != nil {
			log.Printf("runs export: %v", err)
		}
	})

	mux.HandleFunc("GET /receipt/verify", func(w http.ResponseWriter, r *http.Request) {
		claims, err := hub.receipts.Verify(r.URL.Query().Get("token"))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorMsg{Msg: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, claims)
	})

	mux.HandleFunc("GET /qr/{sid}", func(w http.ResponseWriter, r *http.Request) {
		sid := r.PathValue("sid")
		if _, err := hub.sessions.GetSession(sid); err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, ErrSessionNotFound) {
				status = http.StatusNotFound
			}
			http.Error(w, err.Error(), status)
			return
		}
		png, err := ControllerQR(ControllerURL(r, sid))
		if err != nil {
			log.Printf("qr: %v", err)
			http.Error(w, "qr error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-cache")
		w.Write(png)
	})

	return mux
}
