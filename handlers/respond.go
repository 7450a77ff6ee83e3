package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"p9e.in/asbsurvey/store"
)

// API bundles the injected gateways the handlers talk to. Tests swap in
// the in-memory stores; production wires the workbook and image stores
// built in main.
type API struct {
	Reports  store.RowStore
	Defaults store.RowStore
	// DefaultsSheet is the sheet name inside the defaults workbook.
	DefaultsSheet string
	Images        store.ImageStore
	// Now is the submission clock; overridable in tests.
	Now func() time.Time
}

func (a *API) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeErrorDetails(w http.ResponseWriter, status int, message string, err error) {
	writeJSON(w, status, map[string]string{
		"error":   message,
		"details": err.Error(),
	})
}
