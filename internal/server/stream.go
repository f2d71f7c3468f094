package server

import (
	"log"
	"net/http"

	"battle-features/internal/battle"
	"battle-features/internal/features"

	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// StreamMessage answers one inbound battle on /ws/extract
type StreamMessage struct {
	BattleID string           `json:"battle_id,omitempty"`
	Record   *features.Record `json:"record,omitempty"`
	Error    string           `json:"error,omitempty"`
}

// handleExtractStream answers each battle message with its feature record
func (s *Server) handleExtractStream(w http.ResponseWriter, r *http.Request) {
	extractor, err := s.extractorFor(r)
	if err != nil {
		respondError(w, presetStatus(err), err.Error())
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Server] WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxBodyBytes)

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("[Server] WebSocket read error: %v", err)
			}
			return
		}

		if err := conn.WriteJSON(extractMessage(extractor, message)); err != nil {
			log.Printf("[Server] WebSocket write error: %v", err)
			return
		}
	}
}

func extractMessage(extractor *features.Extractor, message []byte) StreamMessage {
	var b battle.Battle
	if err := json.Unmarshal(message, &b); err != nil {
		return StreamMessage{Error: "invalid battle JSON: " + err.Error()}
	}
	rec, err := extractor.Extract(&b)
	if err != nil {
		return StreamMessage{BattleID: b.BattleID, Error: err.Error()}
	}
	return StreamMessage{BattleID: b.BattleID, Record: rec}
}
