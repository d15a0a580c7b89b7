package handlers

import (
	"net/http"

	"tasktracker/docs"
	"tasktracker/utilities"
)

// DocsHandler serves the OpenAPI document in YAML.
func DocsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(docs.OpenAPIYAML()); err != nil {
		utilities.LogError(err, "DocsHandler: Error writing response")
	}
}

// OpenAPIHandler serves the OpenAPI document in JSON.
func OpenAPIHandler(w http.ResponseWriter, r *http.Request) {
	body, err := docs.OpenAPIJSON()
	if err != nil {
		utilities.LogError(err, "OpenAPIHandler: Error rendering OpenAPI document")
		writeInternalError(w)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		utilities.LogError(err, "OpenAPIHandler: Error writing response")
	}
}
