package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"
	"sort"
	"strings"
)

// Kind: был ли ответ сервера.
type Kind int

const (
	KindOther Kind = iota
	KindResponse
	KindNetwork
)

func (k Kind) String() string {
	switch k {
	case KindResponse:
		return "response"
	case KindNetwork:
		return "network"
	default:
		return "other"
	}
}

// StatusError: сервер ответил кодом вне 2xx.
type StatusError struct {
	Method  string
	Path    string
	Status  int
	Body    []byte
	Message string              // поле "message" тела, если есть
	Errors  map[string][]string // поле "errors" тела (ошибки валидации), если есть
}

func (e *StatusError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = strings.TrimSpace(string(e.Body))
	}
	if msg == "" {
		return fmt.Sprintf("%s %s: http %d", e.Method, e.Path, e.Status)
	}
	return fmt.Sprintf("%s %s: http %d: %s", e.Method, e.Path, e.Status, msg)
}

// ValidationMessages: сообщения из "errors" в стабильном порядке по имени поля.
func (e *StatusError) ValidationMessages() []string {
	keys := make([]string, 0, len(e.Errors))
	for k := range e.Errors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var out []string
	for _, k := range keys {
		out = append(out, e.Errors[k]...)
	}
	return out
}

func newStatusError(method, path string, status int, body []byte) *StatusError {
	se := &StatusError{Method: method, Path: path, Status: status, Body: body}
	var payload struct {
		Message string                     `json:"message"`
		Errors  map[string]json.RawMessage `json:"errors"`
	}
	if json.Unmarshal(body, &payload) != nil {
		return se
	}
	se.Message = payload.Message
	if len(payload.Errors) > 0 {
		se.Errors = make(map[string][]string, len(payload.Errors))
		for field, raw := range payload.Errors {
			var many []string
			if json.Unmarshal(raw, &many) == nil {
				se.Errors[field] = many
				continue
			}
			var one string
			if json.Unmarshal(raw, &one) == nil {
				se.Errors[field] = []string{one}
			}
		}
	}
	return se
}

func KindOf(err error) Kind {
	if err == nil {
		return KindOther
	}
	var se *StatusError
	if errors.As(err, &se) {
		return KindResponse
	}
	var ue *url.Error
	if errors.As(err, &ue) {
		if ue.Op == "parse" {
			return KindOther
		}
		return KindNetwork
	}
	var ne net.Error
	if errors.As(err, &ne) {
		return KindNetwork
	}
	return KindOther
}

// StatusCode: код ответа, если ошибка пришла от сервера.
func StatusCode(err error) (int, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Status, true
	}
	return 0, false
}

func IsNotFound(err error) bool {
	code, ok := StatusCode(err)
	return ok && code == 404
}
