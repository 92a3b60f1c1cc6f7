package websocket

import (
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
	"github.com/nkoroleva/medtest_platform/models"
)

// Live feed of completed attempts for moderator dashboards. Every
// registered client receives every completed result.

type Client struct {
	WorkerID uuid.UUID
	Conn     *websocket.Conn
}

type ResultEvent struct {
	ResultID   uuid.UUID `json:"result_id"`
	WorkerID   uuid.UUID `json:"worker_id"`
	TestID     uuid.UUID `json:"test_id"`
	Score      int       `json:"score"`
	Percentage float64   `json:"percentage"`
	Passed     bool      `json:"passed"`
}

var clients = make(map[uuid.UUID]*websocket.Conn)
var clientsMu sync.RWMutex
var Register = make(chan *Client)
var Unregister = make(chan *Client)
var Broadcast = make(chan *models.TestResult, 16)

func RunHub() {
	for {
		select {
		case client := <-Register:
			clientsMu.Lock()
			clients[client.WorkerID] = client.Conn
			clientsMu.Unlock()
		case client := <-Unregister:
			clientsMu.Lock()
			if conn, ok := clients[client.WorkerID]; ok && conn == client.Conn {
				delete(clients, client.WorkerID)
			}
			clientsMu.Unlock()
		case result := <-Broadcast:
			event := ResultEvent{
				ResultID:   result.ID,
				WorkerID:   result.WorkerID,
				TestID:     result.TestID,
				Score:      result.Score,
				Percentage: result.Percentage,
				Passed:     result.Passed,
			}

			var stale []uuid.UUID
			clientsMu.RLock()
			for workerID, conn := range clients {
				if err := conn.WriteJSON(event); err != nil {
					log.Printf("Error sending result event to client %s: %v", workerID, err)
					conn.Close()
					stale = append(stale, workerID)
				}
			}
			clientsMu.RUnlock()

			if len(stale) > 0 {
				clientsMu.Lock()
				for _, workerID := range stale {
					delete(clients, workerID)
				}
				clientsMu.Unlock()
			}
		}
	}
}

// Publish hands a completed result to the hub without blocking the grader.
func Publish(result *models.TestResult) {
	select {
	case Broadcast <- result:
	default:
		log.Println("Result feed full, dropping event")
	}
}
