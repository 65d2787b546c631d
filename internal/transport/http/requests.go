package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"courtside-quiz/internal/app"
	"courtside-quiz/internal/domain"
)

var errBadRequest = errors.New("bad request")

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type startPayload struct {
	Mode        string `json:"mode"`
	Difficulty  string `json:"difficulty"`
	DisplayName string `json:"displayName"`
}

type resumePayload struct {
	SessionID string `json:"sessionId"`
}

type answerPayload struct {
	Answer string `json:"answer"`
}

type submitPayload struct {
	DisplayName string `json:"displayName"`
}

// Each inbound message decodes into exactly one of these.
type (
	startRequest    struct{ app.StartRequest }
	resumeRequest   struct{ SessionID string }
	nextRequest     struct{}
	answerRequest   struct{ Answer string }
	continueRequest struct{}
	stopRequest     struct{}
	submitRequest   struct{ DisplayName string }
)

const maxNameLength = 40

// decodeRequest validates an inbound message before it reaches the service.
func decodeRequest(msg inboundMessage) (any, error) {
	switch msg.Type {
	case "start":
		var p startPayload
		if err := decodeStrict(msg.Payload, &p); err != nil {
			return nil, err
		}
		mode, err := domain.ParseMode(p.Mode)
		if err != nil {
			return nil, err
		}
		difficulty, err := domain.ParseDifficulty(p.Difficulty)
		if err != nil {
			return nil, err
		}
		name, err := cleanName(p.DisplayName)
		if err != nil {
			return nil, err
		}
		return startRequest{app.StartRequest{Mode: mode, Difficulty: difficulty, DisplayName: name}}, nil
	case "resume":
		var p resumePayload
		if err := decodeStrict(msg.Payload, &p); err != nil {
			return nil, err
		}
		if strings.TrimSpace(p.SessionID) == "" {
			return nil, fmt.Errorf("%w: sessionId required", errBadRequest)
		}
		return resumeRequest{SessionID: strings.TrimSpace(p.SessionID)}, nil
	case "next":
		return nextRequest{}, decodeEmpty(msg.Payload)
	case "answer":
		var p answerPayload
		if err := decodeStrict(msg.Payload, &p); err != nil {
			return nil, err
		}
		return answerRequest{Answer: p.Answer}, nil
	case "continue":
		return continueRequest{}, decodeEmpty(msg.Payload)
	case "stop":
		return stopRequest{}, decodeEmpty(msg.Payload)
	case "submit":
		var p submitPayload
		if err := decodeStrict(msg.Payload, &p); err != nil {
			return nil, err
		}
		name, err := cleanName(p.DisplayName)
		if err != nil {
			return nil, err
		}
		return submitRequest{DisplayName: name}, nil
	}
	return nil, fmt.Errorf("%w: unsupported message type %q", errBadRequest, msg.Type)
}

func decodeStrict(raw json.RawMessage, dst any) error {
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

func decodeEmpty(raw json.RawMessage) error {
	var p struct{}
	return decodeStrict(raw, &p)
}

func cleanName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if len([]rune(name)) > maxNameLength {
		return "", fmt.Errorf("%w: display name longer than %d characters", errBadRequest, maxNameLength)
	}
	return name, nil
}
