package controller

import (
	"encoding/json"
	"io"
	"net/http"

	"bazaar-backend/pkg/apperr"
	"bazaar-backend/usecase"
)

// Multipart bodies are capped well above the per-photo ceiling so the
// usecase, not the transport, is what rejects oversized batches.
const maxUploadBody = 64 << 20

type PhotoController struct {
	usecase *usecase.PhotoUsecase
	auth    *usecase.AuthUsecase
}

func NewPhotoController(u *usecase.PhotoUsecase, auth *usecase.AuthUsecase) *PhotoController {
	return &PhotoController{usecase: u, auth: auth}
}

// HandlePhotos handles /photos: POST multipart upload (field "photos",
// 1-5 files), DELETE best-effort removal by URL list.
func (c *PhotoController) HandlePhotos(w http.ResponseWriter, r *http.Request) {
	if preflight(w, r) {
		return
	}

	switch r.Method {
	case http.MethodPost:
		callerID, _, err := caller(c.auth, r)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := r.ParseMultipartForm(maxUploadBody); err != nil {
			writeError(w, apperr.New(apperr.CodeInvalidArgument, "Invalid upload body."))
			return
		}
		headers := r.MultipartForm.File["photos"]

		var files []usecase.PhotoUpload
		for _, h := range headers {
			f, err := h.Open()
			if err != nil {
				writeError(w, apperr.Wrap(apperr.CodeInvalidArgument, "Invalid upload body.", err))
				return
			}
			data, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				writeError(w, apperr.Wrap(apperr.CodeInvalidArgument, "Invalid upload body.", err))
				return
			}
			files = append(files, usecase.PhotoUpload{
				Data:        data,
				ContentType: h.Header.Get("Content-Type"),
			})
		}

		urls, err := c.usecase.UploadMany(files, callerID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"urls": urls})

	case http.MethodDelete:
		if _, _, err := caller(c.auth, r); err != nil {
			writeError(w, err)
			return
		}
		var body struct {
			URLs []string `json:"urls"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, apperr.New(apperr.CodeInvalidArgument, "Invalid request body."))
			return
		}
		c.usecase.DeleteMany(body.URLs)
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
