package routes

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"p9e.in/asbsurvey/handlers"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes(api *handlers.API) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", handleHealth).Methods("GET")

	v1 := r.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/defaults", api.GetDefaults).Methods("GET")
	v1.HandleFunc("/next-project-number", api.NextProjectNumber).Methods("GET")
	v1.HandleFunc("/report/{reportId}", api.GetReport).Methods("GET")
	v1.HandleFunc("/submit-report", api.SubmitReport).Methods("POST")
	v1.HandleFunc("/upload-image", api.UploadImage).Methods("POST")
	v1.HandleFunc("/image/{imageId}", api.GetImage).Methods("GET")

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
