package common

import (
	"encoding/json"
	"finease-api/logger"
	"net/http"

	"github.com/sirupsen/logrus"
)

// AppError is the single error shape every handler returns.
// The wrapped error is attached to the response body as "error".
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"error,omitempty"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code int, message string, err error) *AppError {
	appErr := &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
	if err != nil {
		appErr.Detail = err.Error()
	}
	return appErr
}

func (e *AppError) Send(w http.ResponseWriter) {
	if e.Err != nil {
		logger.Log.WithFields(logrus.Fields{
			"status_code":    e.Code,
			"internal_error": e.Err.Error(),
		}).Error(e.Message)
	}

	WriteJSON(w, e.Code, e)
}

// WriteJSON writes payload with the given status code.
func WriteJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Log.WithError(err).Error("Failed to encode response body")
	}
}
