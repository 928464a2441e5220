package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/kakomon/kakomon-backend/internal/middleware"
	"github.com/kakomon/kakomon-backend/internal/response"
	"github.com/kakomon/kakomon-backend/internal/service"
	"github.com/kakomon/kakomon-backend/internal/validator"
	ws "github.com/kakomon/kakomon-backend/internal/websocket"
	"github.com/rs/zerolog"
)

const tickInterval = time.Second

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowedOrigins permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams the session clock and accepts answers over WebSocket.
type WSHandler struct {
	quizService *service.QuizService
	log         zerolog.Logger
	upgrader    websocket.Upgrader
	tick        time.Duration
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(quizService *service.QuizService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		quizService: quizService,
		log:         log.With().Str("component", "ws_handler").Logger(),
		upgrader:    buildUpgrader(allowedOrigins),
		tick:        tickInterval,
	}
}

// QuizStream godoc
// WS /ws/v1/quiz/stream?token=...
// Pushes a tick every second and a graded event when the session finishes.
func (h *WSHandler) QuizStream(c *gin.Context) {
	userID := middleware.UserID(c)
	if userID == 0 {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	raw, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	conn := ws.NewConn(raw)
	defer conn.Close()

	wsLog := h.log.With().Int("user_id", userID).Logger()
	wsLog.Info().Msg("Client connected")

	closed := make(chan struct{})
	go h.readLoop(conn, wsLog, userID, closed)
	h.pushLoop(conn, userID, closed)

	wsLog.Debug().Msg("Client disconnected")
}

// pushLoop follows whichever session the user currently has. A new
// session started elsewhere is picked up on the next tick.
func (h *WSHandler) pushLoop(conn *ws.Conn, userID int, closed <-chan struct{}) {
	ticker := time.NewTicker(h.tick)
	defer ticker.Stop()

	var watched uuid.UUID
	gradedSent := false

	for {
		sess, clock, ok := h.quizService.Session(userID)
		var done <-chan struct{}
		if ok {
			if sess.ID != watched {
				watched = sess.ID
				gradedSent = false
			}
			if !gradedSent {
				done = sess.Done()
			}
		}

		select {
		case <-closed:
			return

		case <-done:
			gradedSent = true
			res, trigger, _ := sess.Result()
			if err := conn.WriteTyped(ws.GradedResponse{
				Event:     ws.EventGraded,
				SessionID: sess.ID,
				Trigger:   trigger,
				Result:    res,
			}); err != nil {
				return
			}

		case <-ticker.C:
			if !ok || gradedSent {
				continue
			}
			if err := conn.WriteTyped(ws.TickResponse{
				Event:            ws.EventTick,
				SessionID:        sess.ID,
				RemainingSeconds: int(clock.Remaining() / time.Second),
			}); err != nil {
				return
			}
		}
	}
}

func (h *WSHandler) readLoop(conn *ws.Conn, wsLog zerolog.Logger, userID int, closed chan<- struct{}) {
	defer close(closed)

	for {
		var msg ws.Request
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			}
			return
		}

		if fields := validator.Struct(&msg); fields != nil {
			_ = conn.WriteError(string(response.ErrValidation), response.GetMessage(response.ErrValidation))
			continue
		}

		switch msg.Action {
		case ws.ActionAnswer:
			h.handleAnswer(conn, userID, &msg)
		case ws.ActionSubmit:
			// The graded event is pushed by pushLoop.
			if _, err := h.quizService.Submit(userID); err != nil {
				writeQuizError(conn, err)
			}
		case ws.ActionPing:
			_ = conn.WriteTyped(ws.PongResponse{Event: ws.EventPong})
		}
	}
}

func (h *WSHandler) handleAnswer(conn *ws.Conn, userID int, msg *ws.Request) {
	if msg.Index == nil {
		_ = conn.WriteError(string(response.ErrValidation), response.GetMessage(response.ErrValidation))
		return
	}
	if err := h.quizService.Answer(userID, *msg.Index, msg.Choice); err != nil {
		writeQuizError(conn, err)
		return
	}
	_ = conn.WriteTyped(ws.AnsweredResponse{
		Event:  ws.EventAnswered,
		Index:  *msg.Index,
		Choice: msg.Choice,
	})
}

func writeQuizError(conn *ws.Conn, err error) {
	_, code := quizErrorCode(err)
	_ = conn.WriteError(string(code), response.GetMessage(code))
}
