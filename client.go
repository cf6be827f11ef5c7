package main

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	pingPeriod        = (pongWait * 9) / 10
	maxMessageSize    = 4096
	sendBufSize       = 256
	maxMessagesPerSec = 50
	maxNameLen        = 16
	maxSessionNameLen = 30
)

// Client roles within a session
const (
	RolePilot      = "pilot"
	RoleViewer     = "viewer"
	RoleController = "controller"
)

// Client represents a WebSocket connection
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	id         string
	sessionID  string
	role       string
	remoteAddr string
	msgCount   int
	msgResetAt time.Time
}

// NewClient creates a new Client
func NewClient(hub *Hub, conn *websocket.Conn, remoteAddr string) *Client {
	return &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, sendBufSize),
		id:         GenerateID(4),
		remoteAddr: remoteAddr,
	}
}

// ReadPump reads messages from the WebSocket connection
func (c *Client) ReadPump() {
	defer func() {
		c.hub.TrackDisconnect(c.remoteAddr)
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		msgType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws error: %v", err)
			}
			break
		}

		// Rate limiting
		now := time.Now()
		if now.After(c.msgResetAt) {
			c.msgCount = 0
			c.msgResetAt = now.Add(time.Second)
		}
		c.msgCount++
		if c.msgCount > maxMessagesPerSec {
			log.Printf("rate limit exceeded for %s, disconnecting", c.remoteAddr)
			break
		}

		// Binary intents: 2 bytes [0x02, code]
		if msgType == websocket.BinaryMessage {
			if len(message) == 2 && message[0] == binIntent {
				c.handleIntent(IntentFromCode(message[1]))
			}
			continue
		}
		c.handleMessage(message)
	}
}

// WritePump writes messages to the WebSocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			var err error
			if len(message) > 0 && message[0] == binMarker {
				err = c.conn.WriteMessage(websocket.BinaryMessage, message[1:])
			} else {
				err = c.conn.WriteMessage(websocket.TextMessage, message)
			}
			if err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendJSON sends a JSON message to the client
func (c *Client) SendJSON(msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("marshal error: %v", err)
		return
	}
	c.SendRaw(data)
}

// SendRaw sends pre-marshaled bytes as a text message to the client
func (c *Client) SendRaw(data []byte) {
	defer func() { recover() }()
	select {
	case c.send <- data:
	default:
		// Client too slow, drop message
	}
}

// SendBinary sends pre-marshaled bytes as a binary WebSocket message.
// The marker byte lets WritePump tell it apart from text.
func (c *Client) SendBinary(data []byte) {
	defer func() { recover() }()
	msg := make([]byte, len(data)+1)
	msg[0] = binMarker
	copy(msg[1:], data)
	select {
	case c.send <- msg:
	default:
	}
}

func (c *Client) sendError(msg string) {
	c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: msg}})
}

// handleMessage routes incoming messages (single-pass decode via InEnvelope)
func (c *Client) handleMessage(raw []byte) {
	var env InEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		log.Printf("unmarshal error: %v", err)
		return
	}

	switch env.T {
	case MsgList:
		c.handleList()
	case MsgCreate:
		c.handleCreate(env.D)
	case MsgJoin:
		c.handleJoin(env.D)
	case MsgCheck:
		c.handleCheck(env.D)
	case MsgLeave:
		c.leaveSession()
	case MsgControl:
		c.handleControl(env.D)
	case MsgIntent:
		var msg IntentMsg
		if err := json.Unmarshal(env.D, &msg); err != nil {
			return
		}
		c.handleIntent(ParseIntent(msg.Intent))
	case MsgRestart:
		c.handleRestart()
	case MsgModel:
		c.handleModel(env.D)
	}
}

func (c *Client) handleList() {
	sessions := c.hub.sessions.ListSessions()
	c.SendJSON(Envelope{T: MsgSessions, Data: sessions})
}

func truncate(s, fallback string, max int) string {
	if s == "" {
		return fallback
	}
	if len(s) > max {
		return s[:max]
	}
	return s
}

func (c *Client) handleCreate(data json.RawMessage) {
	var msg CreateMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	name := truncate(msg.Name, "Sailor", maxNameLen)
	sname := truncate(msg.SessionName, "Open Water", maxSessionNameLen)

	c.leaveSession()
	sess, err := c.hub.sessions.CreateSession(sname, name, !msg.ModelFailed)
	if err != nil {
		c.sendError(err.Error())
		return
	}
	// The creating connection is the pilot; its client ID is the boat's ID.
	c.id = sess.PilotID
	c.sessionID = sess.ID
	c.role = RolePilot
	sess.Game.AddClient(c.id, c)
	c.hub.analytics.Track(EvtSessionStart, sess.ID, "")

	c.SendJSON(Envelope{T: MsgCreated, Data: map[string]string{"sid": sess.ID}})
	c.SendJSON(Envelope{T: MsgWelcome, Data: sess.Game.welcome(c.id, c.role)})
}

func (c *Client) handleJoin(data json.RawMessage) {
	var msg JoinMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	c.attach(msg.SessionID, RoleViewer, MsgJoined)
}

func (c *Client) handleControl(data json.RawMessage) {
	var msg ControlMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	sess := c.attach(msg.SID, RoleController, MsgControlOK)
	if sess == nil {
		return
	}
	sess.Game.SendTo(sess.PilotID, Envelope{T: MsgCtrlOn})
	c.hub.analytics.Track(EvtController, sess.ID, "")
}

// attach subscribes this connection to an existing session in role. The ack
// goes out ahead of the welcome.
func (c *Client) attach(sid, role, ack string) *Session {
	c.leaveSession()
	sess, err := c.hub.sessions.Attach(sid, c.id, c)
	if err != nil {
		c.sendError(err.Error())
		return nil
	}
	c.sessionID = sess.ID
	c.role = role
	c.SendJSON(Envelope{T: ack, Data: map[string]string{"sid": sess.ID}})
	c.SendJSON(Envelope{T: MsgWelcome, Data: sess.Game.welcome(c.id, role)})
	return sess
}

func (c *Client) handleCheck(data json.RawMessage) {
	var msg CheckMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	sess, err := c.hub.sessions.GetSession(msg.SID)
	if err != nil {
		c.SendJSON(Envelope{T: MsgChecked, Data: CheckedMsg{SID: msg.SID, Exists: false}})
		return
	}
	c.SendJSON(Envelope{T: MsgChecked, Data: CheckedMsg{
		SID:      msg.SID,
		Exists:   true,
		Name:     sess.Name,
		Viewers:  sess.Game.ClientCount(),
		GameOver: sess.Game.State().Over(),
	}})
}

// steering returns the session this connection may drive, or nil
func (c *Client) steering() *Session {
	if c.sessionID == "" || (c.role != RolePilot && c.role != RoleController) {
		return nil
	}
	sess, err := c.hub.sessions.GetSession(c.sessionID)
	if err != nil {
		return nil
	}
	return sess
}

func (c *Client) handleIntent(in Intent) {
	if in == IntentNone {
		return
	}
	if sess := c.steering(); sess != nil {
		sess.Game.HandleIntent(in)
	}
}

func (c *Client) handleRestart() {
	sess := c.steering()
	if sess == nil {
		return
	}
	if sess.Game.Restart() {
		c.hub.analytics.Track(EvtRestart, sess.ID, "")
	}
}

func (c *Client) handleModel(data json.RawMessage) {
	if c.role != RolePilot {
		return
	}
	var msg ModelMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	if sess := c.steering(); sess != nil {
		sess.Game.ReportModel(msg.OK)
	}
}

// leaveSession detaches from the current session, if any
func (c *Client) leaveSession() {
	if c.sessionID == "" {
		return
	}
	sid := c.sessionID
	sess, err := c.hub.sessions.GetSession(sid)
	if err == nil && c.role == RoleController {
		sess.Game.SendTo(sess.PilotID, Envelope{T: MsgCtrlOff})
	}
	if c.hub.sessions.Detach(sid, c.id) {
		c.hub.analytics.Track(EvtSessionEnd, sid, "")
	}
	c.sessionID = ""
	c.role = ""
}
