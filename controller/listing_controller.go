package controller

import (
	"encoding/json"
	"net/http"

	"bazaar-backend/model"
	"bazaar-backend/pkg/apperr"
	"bazaar-backend/usecase"
)

type ListingController struct {
	usecase *usecase.ListingUsecase
	auth    *usecase.AuthUsecase
}

func NewListingController(u *usecase.ListingUsecase, auth *usecase.AuthUsecase) *ListingController {
	return &ListingController{usecase: u, auth: auth}
}

// HandleListings handles /listings: GET one bulletin-board page, POST a
// new listing. Query params: category, sold, cursor, owner, includeSold.
func (c *ListingController) HandleListings(w http.ResponseWriter, r *http.Request) {
	if preflight(w, r) {
		return
	}

	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		var (
			listings []model.Listing
			next     string
			err      error
		)
		if owner := q.Get("owner"); owner != "" {
			includeSold := q.Get("includeSold") != "false"
			listings, next, err = c.usecase.GetListingsByUser(owner, includeSold, q.Get("cursor"))
		} else {
			listings, next, err = c.usecase.GetListings(q.Get("category"), q.Get("sold") == "true", q.Get("cursor"))
		}
		if err != nil {
			writeError(w, err)
			return
		}
		if listings == nil {
			listings = []model.Listing{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"listings": listings, "nextCursor": next})

	case http.MethodPost:
		callerID, _, err := caller(c.auth, r)
		if err != nil {
			writeError(w, err)
			return
		}
		var listing model.Listing
		if err := json.NewDecoder(r.Body).Decode(&listing); err != nil {
			writeError(w, apperr.New(apperr.CodeInvalidArgument, "Invalid request body."))
			return
		}
		created, err := c.usecase.CreateListing(callerID, &listing)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleListingDetail handles /listings/{id} (GET, PUT, DELETE) and
// /listings/{id}/close (POST).
func (c *ListingController) HandleListingDetail(w http.ResponseWriter, r *http.Request) {
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
		if err := c.usecase.MarkSold(callerID, id); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}

	switch r.Method {
	case http.MethodGet:
		listing, err := c.usecase.GetListing(id)
		if err != nil {
			writeError(w, err)
			return
		}
		if listing == nil {
			writeError(w, apperr.New(apperr.CodeNotFound, "Listing not found."))
			return
		}
		writeJSON(w, http.StatusOK, listing)

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
		if err := c.usecase.UpdateListing(callerID, id, normalizePatch(fields)); err != nil {
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
		// Body is optional on DELETE.
		_ = json.NewDecoder(r.Body).Decode(&body)
		if err := c.usecase.DeleteListing(callerID, id, body.PhotoURLs); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// normalizePatch converts JSON []any values into []string so the dao
// patch builder can serialize them.
func normalizePatch(fields map[string]any) map[string]any {
	for k, v := range fields {
		if arr, ok := v.([]any); ok {
			ss := make([]string, 0, len(arr))
			for _, item := range arr {
				if s, ok := item.(string); ok {
					ss = append(ss, s)
				}
			}
			fields[k] = ss
		}
	}
	return fields
}
