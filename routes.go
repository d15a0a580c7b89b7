package main

import (
	"net/http"
	"slices"
	"strings"

	gorillahandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"tasktracker/handlers"
	"tasktracker/utilities"
)

var allowedOrigins = []string{
	"http://localhost:3000",
	"http://127.0.0.1:3000",
}

var allowedMethods = []string{
	http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
	http.MethodPatch, http.MethodDelete, http.MethodOptions,
}

var allowedHeaders = []string{
	"Accept", "Accept-Language", "Authorization", "Cache-Control",
	"Content-Language", "Content-Type", "Origin", "X-Requested-With",
	handlers.RequestIDHeader,
}

// NewRouter wires every endpoint to its handler and wraps the router with
// request ids, logging, panic recovery and CORS.
func NewRouter(store handlers.TaskStore, db handlers.Pinger) http.Handler {
	tasks := handlers.NewTaskHandlers(store)

	r := mux.NewRouter()
	r.NotFoundHandler = handlers.NotFoundHandler()
	r.MethodNotAllowedHandler = handlers.MethodNotAllowedHandler()

	r.HandleFunc("/", handlers.RootHandler).Methods("GET")
	r.HandleFunc("/health", handlers.HealthHandler(db)).Methods("GET")
	r.HandleFunc("/docs", handlers.DocsHandler).Methods("GET")
	r.HandleFunc("/openapi.json", handlers.OpenAPIHandler).Methods("GET")

	r.HandleFunc("/tasks", tasks.ListTasksHandler).Methods("GET")
	r.HandleFunc("/tasks", tasks.CreateTaskHandler).Methods("POST")
	r.HandleFunc("/tasks/stats", tasks.StatsHandler).Methods("GET")
	r.HandleFunc("/tasks/{id}", tasks.GetTaskHandler).Methods("GET")
	r.HandleFunc("/tasks/{id}", tasks.UpdateTaskHandler).Methods("PUT")
	r.HandleFunc("/tasks/{id}", tasks.DeleteTaskHandler).Methods("DELETE")
	r.HandleFunc("/tasks/{id}/complete", tasks.CompleteTaskHandler).Methods("POST")

	recovery := gorillahandlers.RecoveryHandler(
		gorillahandlers.RecoveryLogger(utilities.ErrorLogger),
		gorillahandlers.PrintRecoveryStack(true),
	)

	return handlers.RequestIDMiddleware(handlers.LoggingMiddleware(corsHandler(recovery(r))))
}

// corsHandler applies the CORS policy. gorilla/handlers only accepts a fixed
// header list, so every header a preflight asks for is added to it.
func corsHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers := slices.Clone(allowedHeaders)
		if requested := r.Header.Get("Access-Control-Request-Headers"); requested != "" {
			headers = append(headers, strings.Split(requested, ",")...)
		}

		gorillahandlers.CORS(
			gorillahandlers.AllowedOrigins(allowedOrigins),
			gorillahandlers.AllowedMethods(allowedMethods),
			gorillahandlers.AllowedHeaders(headers),
			gorillahandlers.AllowCredentials(),
		)(next).ServeHTTP(w, r)
	})
}
