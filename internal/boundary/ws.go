package boundary

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/vireodyne/protoctl/internal/executor"
)

// statusPollInterval is how often handleStream pushes a fresh
// GetExecutionStatus snapshot to a connected client.
const statusPollInterval = 500 * time.Millisecond

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// statusFrame is one message pushed over the stream, surfacing
// execution status asynchronously since the transport supports it.
type statusFrame struct {
	Type   string                   `json:"type"`
	Status executor.ExecutionStatus `json:"status,omitempty"`
	Error  string                   `json:"error,omitempty"`
}

// handleStream upgrades the connection and pushes execution status
// frames until the run ends or the client disconnects. It never
// executes a protocol itself; /v1/protocols/run remains the only
// submission path.
func (a *Adapter) handleStream(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		a.log.Warn("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(statusPollInterval)
	defer ticker.Stop()

	done := make(chan struct{})
	go a.drainClient(conn, done)

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			status := a.exec.GetExecutionStatus()
			if err := conn.WriteJSON(statusFrame{Type: "status", Status: status}); err != nil {
				return
			}
			if !status.IsRunning {
				return
			}
		}
	}
}

// drainClient discards inbound frames (this stream is push-only) and
// closes done when the client disconnects, so handleStream's select
// loop can exit promptly instead of writing to a dead connection.
func (a *Adapter) drainClient(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
