// Copyright 2025 Prism Protocol

package httpapi

import (
	"encoding/json"
	"net/http"
)

func writeJSONError(w http.ResponseWriter, message string, status int) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}
