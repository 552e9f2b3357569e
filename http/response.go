package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Content types the protocol answers with. Blob and config payloads use the
// nonstandard "binary/octet-stream"; listings use the restic REST v2 type.
const (
	textContentType   = "text/plain"
	binaryContentType = "binary/octet-stream"
	listContentType   = "application/vnd.x.restic.rest.v2"
)

// Literal response bodies restic clients match on. The split between 404
// for named blobs and 500 for config/repository absence is part of the
// protocol: clients decide "create if missing" off these exact codes.
const (
	msgNotImplemented    = "Not Implemented"
	msgUnsupportedMethod = "Unsupported request method."
	msgInternalError     = "Something unexpected occurred."
	msgCreateFailed      = "Failed to create repository."
	msgRepoMissing       = "Repository does not exist."
	msgConfigMissing     = "Configuration does not exist."
	msgBlobMissing       = "Requested path data does not exist."
	msgDeleteMissing     = "Path data does not exist."
)

// writeError sends a 500 with a plain-text diagnostic body.
func writeError(w http.ResponseWriter, message string) {
	writePlain(w, http.StatusInternalServerError, message)
}

// writeNotFound sends a 404 with a plain-text diagnostic body.
func writeNotFound(w http.ResponseWriter, message string) {
	writePlain(w, http.StatusNotFound, message)
}

func writePlain(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", textContentType)
	w.WriteHeader(code)
	if _, err := w.Write([]byte(message)); err != nil {
		slog.Debug("failed to write response body", "err", err)
	}
}

// internalError converts an unexpected failure into the generic 500. The
// underlying error is logged, never sent to the client.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("request failed", "err", err)
	writeError(w, msgInternalError)
}

// writeEmpty sends a bare 200 with no body.
func writeEmpty(w http.ResponseWriter) {
	w.WriteHeader(http.StatusOK)
}

// writeJSON sends a 200 JSON body with the given content type.
func writeJSON(w http.ResponseWriter, contentType string, data any) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "err", err)
	}
}
