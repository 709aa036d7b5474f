package router

import (
	"finease-api/handler"
	"net/http"

	_ "finease-api/docs"

	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

var corsOptions = cors.Options{
	AllowedOrigins: []string{"*"},
	AllowedMethods: []string{
		http.MethodGet,
		http.MethodHead,
		http.MethodPut,
		http.MethodPatch,
		http.MethodPost,
		http.MethodDelete,
	},
	AllowedHeaders: []string{"*"},
}

func NewRouter(transactionHandler *handler.TransactionHandler, healthHandler *handler.HealthHandler, readiness handler.ReadinessChecker) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", handler.Root)
	mux.HandleFunc("GET /health", healthHandler.HealthCheck)
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	data := func(h handler.AppHandler) http.Handler {
		return handler.ReadinessMiddleware(readiness, handler.ErrorHandlingMiddleware(h))
	}

	mux.Handle("POST /add-transactions", data(transactionHandler.AddTransactions))
	mux.Handle("GET /my-transactions", data(transactionHandler.ListTransactions))
	mux.Handle("GET /transactions/{id}", data(transactionHandler.GetTransaction))
	mux.Handle("PUT /transactions/{id}", data(transactionHandler.UpdateTransaction))
	mux.Handle("DELETE /transactions/{id}", data(transactionHandler.DeleteTransaction))

	return cors.New(corsOptions).Handler(handler.RequestLogger(mux))
}
