package handlers

import (
	"encoding/json"
	"net/http"

	"tasktracker/schemas"
	"tasktracker/utilities"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		utilities.LogError(err, "writeJSON: Error encoding response")
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, schemas.NewErrorResponse(code, message))
}

func writeValidationError(w http.ResponseWriter, issues []schemas.ValidationIssue) {
	writeJSON(w, http.StatusUnprocessableEntity, schemas.ValidationErrorResponse{Detail: issues})
}

func writeInternalError(w http.ResponseWriter) {
	writeError(w, http.StatusInternalServerError, schemas.CodeInternalError, "Internal server error")
}

// NotFoundHandler answers requests that match no route.
func NotFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, schemas.CodeNotFound, "Not Found")
	})
}

// MethodNotAllowedHandler answers requests whose path matches but method does not.
func MethodNotAllowedHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, schemas.CodeMethodNotAllowed, "Method Not Allowed")
	})
}
