package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Simplici0/diamond-courier/internal/relay"
	"github.com/Simplici0/diamond-courier/internal/service"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, data any, log *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error("failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string, log *slog.Logger) {
	writeJSON(w, status, map[string]string{"error": message}, log)
}

// writeSubmitError maps validation and relay failures shared by both
// submission flows. It reports false for errors it does not know.
func writeSubmitError(w http.ResponseWriter, err error, log *slog.Logger) bool {
	var ve *service.ValidationError
	var relayErr *relay.Error

	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": ve.Fields}, log)
	case errors.Is(err, relay.ErrNotConfigured):
		writeError(w, http.StatusServiceUnavailable, "Submissions are not configured yet. Please contact us on Discord.", log)
	case errors.As(err, &relayErr):
		log.Warn("relay rejected submission", "status", relayErr.Status, "error", err)
		writeError(w, http.StatusBadGateway, relayErr.Message, log)
	default:
		return false
	}
	return true
}

// decodeJSON reads a single JSON value from a size-limited body.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

// readFields accepts a form post or a flat JSON object and returns the
// field values as strings.
func readFields(w http.ResponseWriter, r *http.Request) (url.Values, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediaType {
	case "application/json":
		var raw map[string]any
		if err := decodeJSON(w, r, &raw); err != nil {
			return nil, err
		}
		return valuesOf(raw), nil
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
			return nil, fmt.Errorf("parse multipart form: %w", err)
		}
		return r.PostForm, nil
	default:
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("parse form: %w", err)
		}
		return r.PostForm, nil
	}
}

// valuesOf flattens scalar JSON values. Nested values are dropped.
func valuesOf(raw map[string]any) url.Values {
	v := make(url.Values, len(raw))
	for k, val := range raw {
		switch t := val.(type) {
		case string:
			v.Set(k, t)
		case bool:
			v.Set(k, strconv.FormatBool(t))
		case float64:
			v.Set(k, strconv.FormatFloat(t, 'f', -1, 64))
		}
	}
	return v
}
