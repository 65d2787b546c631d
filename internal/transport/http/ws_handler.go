package http

import (
	"context"
	"errors"
	"net/http"

	"courtside-quiz/internal/app"
	"courtside-quiz/internal/domain"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// WSHandler binds one WebSocket connection to one quiz session.
type WSHandler struct {
	service  *app.QuizService
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService, logger *zap.Logger) *WSHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WSHandler{
		service: service,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and wires them into the quiz use cases.
// Messages on one connection are handled in order, which serializes
// mutations of the bound session.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	send := make(chan outboundMessage[any], 16)
	writerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				h.logger.Warn("ws write error", zap.Error(err))
				return
			}
		}
	}()

	var sessionID string
	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		req, err := decodeRequest(inbound)
		if err != nil {
			send <- errorMessage(err)
			continue
		}
		msg, boundID, err := h.handle(r.Context(), sessionID, req)
		if err != nil {
			send <- errorMessage(err)
			continue
		}
		sessionID = boundID
		send <- msg
	}

	close(send)
	<-writerDone
}

func (h *WSHandler) handle(ctx context.Context, sessionID string, req any) (outboundMessage[any], string, error) {
	switch req := req.(type) {
	case startRequest:
		view, err := h.service.Start(ctx, req.StartRequest)
		if err != nil {
			return outboundMessage[any]{}, sessionID, err
		}
		return outboundMessage[any]{Type: "session", Payload: view}, view.ID, nil
	case resumeRequest:
		view, err := h.service.Session(ctx, req.SessionID)
		if err != nil {
			return outboundMessage[any]{}, sessionID, err
		}
		return outboundMessage[any]{Type: "session", Payload: view}, view.ID, nil
	}

	if sessionID == "" {
		return outboundMessage[any]{}, sessionID, domain.ErrSessionNotFound
	}
	switch req := req.(type) {
	case nextRequest:
		res, err := h.service.NextQuestion(ctx, sessionID)
		return outboundMessage[any]{Type: "question", Payload: res}, sessionID, err
	case answerRequest:
		res, err := h.service.SubmitAnswer(ctx, sessionID, req.Answer)
		return outboundMessage[any]{Type: "answerResult", Payload: res}, sessionID, err
	case continueRequest:
		view, err := h.service.Continue(ctx, sessionID)
		return outboundMessage[any]{Type: "session", Payload: view}, sessionID, err
	case stopRequest:
		view, err := h.service.Stop(ctx, sessionID)
		return outboundMessage[any]{Type: "session", Payload: view}, sessionID, err
	case submitRequest:
		entry, err := h.service.SubmitScore(ctx, sessionID, req.DisplayName)
		if err != nil {
			return outboundMessage[any]{}, sessionID, err
		}
		// The session is discarded once recorded.
		return outboundMessage[any]{Type: "submitted", Payload: entry}, "", nil
	}
	return outboundMessage[any]{}, sessionID, errBadRequest
}

func errorMessage(err error) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Code: errorCode(err), Message: err.Error()}}
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, domain.ErrSessionNotFound):
		return "session_not_found"
	case errors.Is(err, domain.ErrStoreUnavailable):
		return "store_unavailable"
	case errors.Is(err, domain.ErrUnrankedMode):
		return "unranked_mode"
	case errors.Is(err, errBadRequest),
		errors.Is(err, domain.ErrUnknownMode),
		errors.Is(err, domain.ErrUnknownDifficulty),
		errors.Is(err, domain.ErrDisplayNameRequired):
		return "bad_request"
	}
	return "internal"
}
