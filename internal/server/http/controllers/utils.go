package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"

	viewsvc "github.com/ddvlanck/tree-index-1/internal/services/views"
	"github.com/ddvlanck/tree-index-1/internal/tree"
)

// Helper functions for common HTTP responses

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: message})
}

// writeJSON writes a JSON response with the given data.
func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(data)
}

// writeDocument renders doc fully before writing so that an encoding
// failure can still become a 500.
func writeDocument(w http.ResponseWriter, doc *viewsvc.Document) error {
	var buf bytes.Buffer
	if err := doc.Encode(&buf); err != nil {
		return err
	}
	w.Header().Set("Content-Type", tree.ContentType)
	w.WriteHeader(http.StatusOK)
	_, err := w.Write(buf.Bytes())
	return err
}
