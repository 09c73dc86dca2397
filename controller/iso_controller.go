package controller

import (
	"encoding/json"
	"net/http"

	"bazaar-backend/model"
	"bazaar-backend/pkg/apperr"
	"bazaar-backend/usecase"
)

type ISOController struct {
	usecase *usecase.ISOUsecase
	auth    *usecase.AuthUsecase
}

func NewISOController(u *usecase.ISOUsecase, auth *usecase.AuthUsecase) *ISOController {
	return &ISOController{usecase: u, auth: auth}
}

// HandleISOs handles /isos: GET a page of wanted posts, POST a new one.
func (c *ISOController) HandleISOs(w http.ResponseWriter, r *http.Request) {
	if preflight(w, r) {
		return
	}

	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		var (
			isos []model.ISO
			next string
			err  error
		)
		if owner := q.Get("owner"); owner != "" {
			includeFound := q.Get("includeFound") != "false"
			isos, next, err = c.usecase.GetISOsByUser(owner, includeFound, q.Get("cursor"))
		} else {
			isos, next, err = c.usecase.GetISOs(q.Get("category"), q.Get("found") == "true", q.Get("cursor"))
		}
		if err != nil {
			writeError(w, err)
			return
		}
		if isos == nil {
			isos = []model.ISO{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"isos": isos, "nextCursor": next})

	case http.MethodPost:
		callerID, _, err := caller(c.auth, r)
		if err != nil {
			writeError(w, err)
			return
		}
		var iso model.ISO
		if err := json.NewDecoder(r.Body).Decode(&iso); err != nil {
			writeError(w, apperr.New(apperr.CodeInvalidArgument, "Invalid request body."))
			return
		}
		created, err := c.usecase.CreateISO(callerID, &iso)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleISODetail handles /isos/{id} (GET, PUT, DELETE) and
// /isos/{id}/close (POST, marks found).
func (c *ISOController) HandleISODetail(w http.ResponseWriter, r *http.Request) {
	if preflight(w, r) {
		return
	}

	id := pathSegment(r, 1)
	if id == "" {
		http.Error(w, "Invalid URL", http.StatusBadRequest)
		return
	}

	if pathSegment(r, 2) == "close" {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		callerID, _, err := caller(c.auth, r)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := c.usecase.MarkFound(callerID, id); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}

	switch r.Method {
	case http.MethodGet:
		iso, err := c.usecase.GetISO(id)
		if err != nil {
			writeError(w, err)
			return
		}
		if iso == nil {
			writeError(w, apperr.New(apperr.CodeNotFound, "ISO post not found."))
			return
		}
		writeJSON(w, http.StatusOK, iso)

	case http.MethodPut:
		callerID, _, err := caller(c.auth, r)
		if err != nil {
			writeError(w, err)
			return
		}
		var fields map[string]any
		if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
			writeError(w, apperr.New(apperr.CodeInvalidArgument, "Invalid request body."))
			return
		}
		if err := c.usecase.UpdateISO(callerID, id, normalizePatch(fields)); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	case http.MethodDelete:
		callerID, _, err := caller(c.auth, r)
		if err != nil {
			writeError(w, err)
			return
		}
		var body struct {
			PhotoURLs []string `json:"photoUrls"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if err := c.usecase.DeleteISO(callerID, id, body.PhotoURLs); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
