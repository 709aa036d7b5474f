package handler

import (
	"finease-api/common"
	"finease-api/logger"
	"fmt"
	"net/http"
)

// AppHandler is the signature every route handler implements.
type AppHandler func(http.ResponseWriter, *http.Request) *common.AppError

// ErrorHandlingMiddleware is the error boundary applied to every route. A
// returned AppError is sent as JSON and a panic becomes a 500.
func ErrorHandlingMiddleware(next AppHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Log.WithField("path", r.URL.Path).Errorf("Recovered from panic: %v", rec)
				common.NewAppError(http.StatusInternalServerError, "Internal server error", fmt.Errorf("panic: %v", rec)).Send(w)
			}
		}()

		if err := next(w, r); err != nil {
			err.Send(w)
		}
	}
}
