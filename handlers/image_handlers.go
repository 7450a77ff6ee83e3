package handlers

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"p9e.in/asbsurvey/store"
)

// UploadImageRequest is the browser-side upload payload: the photo as a
// base64 string (a data-URL prefix is tolerated) plus its filename.
type UploadImageRequest struct {
	Base64Image string `json:"base64Image"`
	Filename    string `json:"filename"`
}

// UploadImage stores one photo and returns its external file id. Each
// upload is an independent request; the client fires them concurrently
// and retries failed ones individually.
// POST /api/v1/upload-image
func (a *API) UploadImage(w http.ResponseWriter, r *http.Request) {
	var req UploadImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Base64Image == "" {
		writeError(w, http.StatusBadRequest, "Base64 image data is required")
		return
	}

	payload := req.Base64Image
	if i := strings.Index(payload, ","); i >= 0 && strings.HasPrefix(payload, "data:") {
		payload = payload[i+1:]
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid base64 image data: "+err.Error())
		return
	}

	filename := req.Filename
	if filename == "" {
		filename = "image.jpg"
	}

	id, err := a.Images.Upload(r.Context(), data, filename, http.DetectContentType(data))
	if err != nil {
		writeErrorDetails(w, http.StatusInternalServerError, "Failed to upload image", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"imageId": id,
		"url":     store.ImageRoutePrefix + id,
	})
}

// GetImage proxies a stored photo back to the browser. Uploaded files
// never change, so the response is cacheable forever.
// GET /api/v1/image/{imageId}
func (a *API) GetImage(w http.ResponseWriter, r *http.Request) {
	imageID := mux.Vars(r)["imageId"]
	if imageID == "" {
		writeError(w, http.StatusBadRequest, "Image ID is required")
		return
	}

	data, contentType, err := a.Images.Fetch(r.Context(), imageID)
	if err != nil {
		writeErrorDetails(w, http.StatusInternalServerError, "Failed to fetch image", err)
		return
	}
	if contentType == "" {
		contentType = "image/jpeg"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
