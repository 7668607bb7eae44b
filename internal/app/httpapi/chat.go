package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/aurawell/aura/internal/ai"
	"github.com/aurawell/aura/internal/app"
	"github.com/aurawell/aura/internal/app/services/companion"
	"github.com/aurawell/aura/pkg/logger"
)

const (
	chatWriteTimeout = 10 * time.Second
	chatMaxMessage   = 16 << 10
)

type chatMessage struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// chatHandler upgrades /chat to a websocket and relays turns between the
// client and a per-connection companion session.
type chatHandler struct {
	app      *app.Application
	log      *logger.Logger
	upgrader websocket.Upgrader
}

func newChatHandler(a *app.Application, log *logger.Logger) *chatHandler {
	return &chatHandler{
		app: a,
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// Origin enforcement happens in the CORS middleware.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

func (h *chatHandler) serve(w http.ResponseWriter, r *http.Request) {
	session, err := h.app.Companion.NewSession()
	if err != nil {
		if errors.Is(err, companion.ErrNoCollaborator) {
			writeError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	h.app.Metrics.ChatConnections.Inc()
	defer h.app.Metrics.ChatConnections.Dec()

	conn.SetReadLimit(chatMaxMessage)
	h.log.WithField("remote", conn.RemoteAddr().String()).Info("chat session opened")

	for {
		var incoming chatMessage
		if err := conn.ReadJSON(&incoming); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.WithError(err).Warn("chat read failed")
			}
			return
		}

		reply, err := session.Send(r.Context(), incoming.Text)
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		h.app.Metrics.AICalls.WithLabelValues("chat", outcome).Inc()
		if err != nil {
			var collaborator *ai.CollaboratorError
			msg := "Something went wrong on my end. Could you say that again?"
			if !errors.As(err, &collaborator) {
				msg = err.Error()
			}
			h.writeTurn(conn, chatMessage{Role: "error", Text: msg})
			continue
		}
		if !h.writeTurn(conn, chatMessage{Role: string(companion.RoleAura), Text: reply}) {
			return
		}
	}
}

func (h *chatHandler) writeTurn(conn *websocket.Conn, msg chatMessage) bool {
	_ = conn.SetWriteDeadline(time.Now().Add(chatWriteTimeout))
	if err := conn.WriteJSON(msg); err != nil {
		h.log.WithError(err).Warn("chat write failed")
		return false
	}
	return true
}
