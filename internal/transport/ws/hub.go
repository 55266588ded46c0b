package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Session (patient shell) message types
const (
	MsgProgressUpdate     MessageType = "progress_update"
	MsgSectionCompleted   MessageType = "section_completed"
	MsgSectionExpanded    MessageType = "section_expanded"
	MsgSubmissionStarted  MessageType = "submission_started"
	MsgSubmissionFinished MessageType = "submission_finished"
)

// Monitor (admin) message types
const (
	MsgSessionStarted   MessageType = "session_started"
	MsgSessionRestarted MessageType = "session_restarted"
	MsgSessionProgress  MessageType = "session_progress"
	MsgSurveySubmitted  MessageType = "survey_submitted"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub manages WebSocket connections for survey sessions and admin
// monitors
type Hub struct {
	sessionConns map[string]*Connection // sessionID -> conn
	monitorConns map[*Connection]bool

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
}

// Connection represents a WebSocket connection
type Connection struct {
	SessionID string // Empty for monitor connections
	IsMonitor bool
	Send      chan []byte
	Hub       *Hub
}

// BroadcastMessage is a message to broadcast
type BroadcastMessage struct {
	SessionID  string // Target session; empty with ToMonitors set
	ToMonitors bool
	Message    *Message
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		sessionConns: make(map[string]*Connection),
		monitorConns: make(map[*Connection]bool),
		register:     make(chan *Connection),
		unregister:   make(chan *Connection),
		broadcast:    make(chan *BroadcastMessage, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if conn.IsMonitor {
				h.monitorConns[conn] = true
				log.Printf("Monitor connected")
			} else {
				h.sessionConns[conn.SessionID] = conn
				log.Printf("Session %s connected", conn.SessionID)
			}
			h.mu.Unlock()

		case conn := <-h.unregister:
			h.mu.Lock()
			if conn.IsMonitor {
				if h.monitorConns[conn] {
					delete(h.monitorConns, conn)
					close(conn.Send)
					log.Printf("Monitor disconnected")
				}
			} else {
				if existing, ok := h.sessionConns[conn.SessionID]; ok && existing == conn {
					delete(h.sessionConns, conn.SessionID)
					close(conn.Send)
					log.Printf("Session %s disconnected", conn.SessionID)
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			data, _ := json.Marshal(msg.Message)

			if msg.ToMonitors {
				for conn := range h.monitorConns {
					select {
					case conn.Send <- data:
					default:
						// Drop message if buffer full
					}
				}
			} else if conn, ok := h.sessionConns[msg.SessionID]; ok {
				select {
				case conn.Send <- data:
				default:
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// BroadcastToSession sends a message to one session's shell (implements service.Broadcaster)
func (h *Hub) BroadcastToSession(sessionID string, msgType string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &BroadcastMessage{
		SessionID: sessionID,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
}

// BroadcastToMonitors sends a message to all admin monitors (implements service.Broadcaster)
func (h *Hub) BroadcastToMonitors(msgType string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &BroadcastMessage{
		ToMonitors: true,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
}

// DisconnectSession drops a session's connection (implements service.Broadcaster)
func (h *Hub) DisconnectSession(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conn, ok := h.sessionConns[sessionID]; ok {
		delete(h.sessionConns, sessionID)
		close(conn.Send)
	}
}
