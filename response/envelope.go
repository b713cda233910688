// Package response defines the JSON envelopes every endpoint answers with.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
)

// Success is the body of every successful response. A nil Data serializes
// as null.
type Success[T any] struct {
	CustomStatus string `json:"custom_status"`
	Message      string `json:"message"`
	Status       int    `json:"status"`
	Data         *T     `json:"data"`
}

// NewSuccess builds a 200 envelope around data, which may be nil.
func NewSuccess[T any](message string, data *T) Success[T] {
	return Success[T]{
		CustomStatus: StatusSuccess,
		Message:      message,
		Status:       http.StatusOK,
		Data:         data,
	}
}

// Error is a failed response. Status is written as the HTTP status code and
// is not part of the body.
type Error struct {
	CustomStatus string `json:"custom_status"`
	Message      string `json:"message"`
	Status       int    `json:"-"`
}

// NewError builds a FAILED envelope for a client-facing error
func NewError(status int, err UserError) *Error {
	return &Error{
		CustomStatus: StatusFailed,
		Message:      err.Error(),
		Status:       status,
	}
}

func (e *Error) Error() string {
	return e.Message
}

// WriteJSON writes v with the given status code
func WriteJSON(log logrus.FieldLogger, w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		log.WithError(err).Error("failed to encode response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		log.WithError(err).Debug("failed to write response")
	}
}

// WriteSuccess writes a success envelope with status 200
func WriteSuccess[T any](log logrus.FieldLogger, w http.ResponseWriter, s Success[T]) {
	WriteJSON(log, w, s.Status, s)
}

// WriteError writes an error envelope using its Status as the HTTP code
func WriteError(log logrus.FieldLogger, w http.ResponseWriter, e *Error) {
	WriteJSON(log, w, e.Status, e)
}
