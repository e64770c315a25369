package controllers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/yonigottesman/gpt-storyteller/application/ports/inbound"
	"github.com/yonigottesman/gpt-storyteller/application/ports/outbound"
	"github.com/yonigottesman/gpt-storyteller/domain"
)

// SessionController serves the interactive websocket transport. Per
// utterance the client sends a text message carrying the MIME type followed
// by a binary message carrying the audio bytes; events stream back as JSON
// until the done (or error) event, then the loop waits for the next
// utterance.
type SessionController interface {
	Session(c *gin.Context)
	RegisterRoutes(g *gin.Engine)
}

type sessionController struct {
	logger       outbound.LoggerPort
	orchestrator inbound.SessionOrchestratorPort
	upgrader     websocket.Upgrader
}

func NewSessionController(logger outbound.LoggerPort, orchestrator inbound.SessionOrchestratorPort) SessionController {
	return &sessionController{
		logger:       logger,
		orchestrator: orchestrator,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

func (s *sessionController) Session(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Error(err, "Failed to upgrade connection")
		return
	}
	defer func() {
		if err := conn.Close(); err != nil {
			s.logger.Error(err, "Failed to close connection")
		}
	}()

	sessionID := uuid.NewString()
	s.logger.InfoWithFields("Session started", map[string]interface{}{
		"session_id": sessionID,
	})

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	for {
		payload, err := s.readUtterance(conn)
		if err != nil {
			s.logger.InfoWithFields("Client disconnected", map[string]interface{}{
				"session_id": sessionID,
			})
			return
		}
		if !s.streamEvents(ctx, conn, payload) {
			return
		}
	}
}

func (s *sessionController) readUtterance(conn *websocket.Conn) (domain.AudioPayload, error) {
	msgType, mime, err := conn.ReadMessage()
	if err != nil {
		return domain.AudioPayload{}, err
	}
	if msgType != websocket.TextMessage {
		return domain.AudioPayload{}, fmt.Errorf("expected a text MIME message, got type %d", msgType)
	}

	msgType, data, err := conn.ReadMessage()
	if err != nil {
		return domain.AudioPayload{}, err
	}
	if msgType != websocket.BinaryMessage {
		return domain.AudioPayload{}, fmt.Errorf("expected a binary audio message, got type %d", msgType)
	}

	return domain.AudioPayload{
		Data:        data,
		ContentType: string(mime),
	}, nil
}

// streamEvents forwards one utterance's events to the client. On a write
// failure the utterance context is cancelled so in-flight generation is
// abandoned, and the remaining events are drained without writing.
func (s *sessionController) streamEvents(ctx context.Context, conn *websocket.Conn, payload domain.AudioPayload) bool {
	utteranceCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	alive := true
	for ev := range s.orchestrator.RunUtterance(utteranceCtx, payload) {
		if !alive {
			continue
		}
		if err := conn.WriteJSON(ev); err != nil {
			s.logger.Error(err, "Failed to write session event")
			cancel()
			alive = false
		}
	}

	return alive
}

func (s *sessionController) RegisterRoutes(g *gin.Engine) {
	g.GET("/websocket_endpoint", s.Session)
}
