// websocket.go - WebSocket channel for uploads and live session stats
package api

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// WebSocket message types
const (
	// Client -> Server messages
	MsgTypeUpload   = "upload"
	MsgTypeGetStats = "stats:get"
	MsgTypePing     = "ping"

	// Server -> Client messages
	MsgTypeComplete = "complete"
	MsgTypeStats    = "stats"
	MsgTypeError    = "error"
	MsgTypePong     = "pong"
)

// WSMessage is the envelope for every websocket frame
type WSMessage struct {
	Type      string          `json:"type"`
	ID        string          `json:"id,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

// WSUploadPayload carries a single-message base64 CSV upload
type WSUploadPayload struct {
	Name string `json:"name"`
	Data string `json:"data"` // Base64 encoded CSV
}

// WSErrorResponse reports a failed operation on the channel
type WSErrorResponse struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// WebSocketHandler serves the per-session websocket channel: ping/pong,
// stats queries, and uploads that run the same pipeline as the HTTP routes.
type WebSocketHandler struct {
	deps     *Dependencies
	upgrader websocket.Upgrader
}

// NewWebSocketHandler creates a new websocket handler
func NewWebSocketHandler(deps *Dependencies) *WebSocketHandler {
	return &WebSocketHandler{
		deps: deps,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// Single-operator tool, same trust model as the CORS config
				return true
			},
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 64 * 1024,
		},
	}
}

// HandleWebSocket upgrades the connection and serves the message loop for
// one session
func (wsh *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	sessionID := c.Param("sessionId")
	if _, ok := wsh.deps.Sessions.Get(sessionID); !ok {
		return NewNotFoundError("session", sessionID)
	}

	ws, err := wsh.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer ws.Close()

	fmt.Printf("[WebSocket] Client connected for session %s\n", sessionID)

	wsh.sendMessage(ws, WSMessage{
		Type:      "connected",
		ID:        sessionID,
		Timestamp: time.Now().UnixMilli(),
	})

	for {
		var msg WSMessage
		if err := ws.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				fmt.Printf("[WebSocket] Connection error: %v\n", err)
			}
			break
		}

		switch msg.Type {
		case MsgTypePing:
			wsh.deps.Sessions.Touch(sessionID)
			wsh.sendMessage(ws, WSMessage{Type: MsgTypePong, Timestamp: time.Now().UnixMilli()})
		case MsgTypeGetStats:
			wsh.handleGetStats(ws, sessionID)
		case MsgTypeUpload:
			wsh.handleUpload(ws, sessionID, msg)
		default:
			wsh.sendError(ws, "Unknown message type: "+msg.Type, "INVALID_TYPE")
		}
	}

	fmt.Printf("[WebSocket] Client disconnected from session %s\n", sessionID)
	return nil
}

// handleGetStats pushes the session's current counters
func (wsh *WebSocketHandler) handleGetStats(ws *websocket.Conn, sessionID string) {
	s, ok := wsh.deps.Sessions.Get(sessionID)
	if !ok {
		wsh.sendError(ws, "Session expired: "+sessionID, "SESSION_NOT_FOUND")
		return
	}

	wsh.sendMessage(ws, WSMessage{
		Type:      MsgTypeStats,
		ID:        sessionID,
		Timestamp: time.Now().UnixMilli(),
		Payload:   mustJSON(s),
	})
}

// handleUpload runs the upload pipeline for a single-message CSV upload and
// answers with the same response body as the HTTP route
func (wsh *WebSocketHandler) handleUpload(ws *websocket.Conn, sessionID string, msg WSMessage) {
	var payload WSUploadPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		wsh.sendError(ws, "Invalid upload payload: "+err.Error(), "INVALID_PAYLOAD")
		return
	}
	if payload.Name == "" || payload.Data == "" {
		wsh.sendError(ws, "Upload requires name and data", "VALIDATION_ERROR")
		return
	}

	decoded, err := base64.StdEncoding.DecodeString(payload.Data)
	if err != nil {
		wsh.sendError(ws, "Invalid base64 data: "+err.Error(), "INVALID_DATA")
		return
	}

	resp, err := runUploadPipeline(wsh.deps, sessionID, payload.Name, decoded)
	if err != nil {
		if apiErr, ok := err.(*APIError); ok {
			wsh.sendError(ws, apiErr.Message, apiErr.Code)
		} else {
			wsh.sendError(ws, err.Error(), "INTERNAL_ERROR")
		}
		return
	}

	wsh.sendMessage(ws, WSMessage{
		Type:      MsgTypeComplete,
		ID:        sessionID,
		Timestamp: time.Now().UnixMilli(),
		Payload:   mustJSON(resp),
	})

	fmt.Printf("[WebSocket] Upload complete: %s (%d rows)\n", payload.Name, resp.Rows)
}

func (wsh *WebSocketHandler) sendMessage(ws *websocket.Conn, msg WSMessage) {
	if err := ws.WriteJSON(msg); err != nil {
		fmt.Printf("[WebSocket] Failed to send message: %v\n", err)
	}
}

func (wsh *WebSocketHandler) sendError(ws *websocket.Conn, message, code string) {
	wsh.sendMessage(ws, WSMessage{
		Type:      MsgTypeError,
		Timestamp: time.Now().UnixMilli(),
		Payload: mustJSON(WSErrorResponse{
			Type:    MsgTypeError,
			Message: message,
			Code:    code,
		}),
	})
}

func mustJSON(v interface{}) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage(`{}`)
	}
	return data
}
