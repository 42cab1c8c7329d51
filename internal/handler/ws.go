package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/codeshare/internal/config"
	"github.com/iliyamo/codeshare/internal/hub"
	"github.com/iliyamo/codeshare/internal/service"
	"github.com/iliyamo/codeshare/internal/utils"
)

// admitTimeout bounds the store round trips of one admission attempt.
// When the peer disconnects mid-handshake the request context is
// cancelled, aborting the lookups before a participant is created.
const admitTimeout = 5 * time.Second

// WSHandler runs the admission sequence for realtime connections.
// Each connection moves Pending -> Authenticated -> Admitted, or ends
// in Rejected with a single error frame before the close.
type WSHandler struct {
	Cfg       config.Config
	Admission *service.AdmissionService
	Hub       *hub.Hub
	upgrader  websocket.Upgrader
}

// NewWSHandler constructs the websocket entry point.
func NewWSHandler(cfg config.Config, admission *service.AdmissionService, h *hub.Hub) *WSHandler {
	if admission == nil || h == nil {
		panic("nil dependency passed to NewWSHandler")
	}
	return &WSHandler{
		Cfg:       cfg,
		Admission: admission,
		Hub:       h,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Tokens, not origins, gate admission; the link itself is
			// the capability being presented.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// errorFrame is the single frame sent to a rejected peer before the
// connection closes.
type errorFrame struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// Serve upgrades the connection and walks the admission state machine:
// validate token and link query parameters (Pending -> Authenticated),
// resolve the room and auto-enroll first-time joiners as viewers
// (Authenticated -> Admitted), then hand the connection to the hub.
// Every rejection sends one error frame and closes.
func (h *WSHandler) Serve(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade already wrote its own HTTP error.
		return nil
	}

	token := c.QueryParam("token")
	link := c.QueryParam("link")
	if token == "" || link == "" {
		h.reject(conn, "token and link query parameters are required")
		return nil
	}

	userID, _, err := utils.VerifyAccessToken(h.Cfg.JWTSecret, token)
	if err != nil {
		h.reject(conn, "invalid token was provided")
		return nil
	}

	// Authenticated. The request context carries the peer disconnect,
	// so a vanished peer aborts admission before state is created.
	ctx, cancel := context.WithTimeout(c.Request().Context(), admitTimeout)
	defer cancel()

	room, err := h.Admission.Admit(ctx, userID, link)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			h.reject(conn, "invalid link was provided")
		} else {
			logrus.WithError(err).WithFields(logrus.Fields{
				"user_id": userID,
				"link":    link,
			}).Error("admission failed")
			h.reject(conn, "internal error occurred")
		}
		return nil
	}

	client := hub.NewClient(h.Hub, conn, room.ID, userID)
	h.Hub.Register(client)
	client.Run()

	logrus.WithFields(logrus.Fields{
		"user_id": userID,
		"room_id": room.ID,
		"link":    room.Link,
	}).Info("client admitted")
	return nil
}

// reject sends the error frame and closes the connection.
func (h *WSHandler) reject(conn *websocket.Conn, message string) {
	frame, err := json.Marshal(errorFrame{Error: true, Message: message})
	if err == nil {
		_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		_ = conn.WriteMessage(websocket.TextMessage, frame)
	}
	_ = conn.Close()
}
