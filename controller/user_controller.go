package controller

import (
	"encoding/json"
	"net/http"

	"bazaar-backend/pkg/apperr"
	"bazaar-backend/usecase"
)

type UserController struct {
	usecase *usecase.UserUsecase
	auth    *usecase.AuthUsecase
}

func NewUserController(u *usecase.UserUsecase, auth *usecase.AuthUsecase) *UserController {
	return &UserController{usecase: u, auth: auth}
}

// HandleMe handles GET /me: the caller's own profile, seeded from the
// session if it does not exist yet (accounts can predate the profile
// layer).
func (c *UserController) HandleMe(w http.ResponseWriter, r *http.Request) {
	if preflight(w, r) {
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, email, err := caller(c.auth, r)
	if err != nil {
		writeError(w, err)
		return
	}
	profile, err := c.usecase.GetOrCreateProfile(userID, email, "")
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// HandleUserDetail handles /users/{id}: GET profile, PUT update (owner
// only), DELETE remove (owner only).
func (c *UserController) HandleUserDetail(w http.ResponseWriter, r *http.Request) {
	if preflight(w, r) {
		return
	}

	id := pathSegment(r, 1)
	if id == "" {
		http.Error(w, "Invalid URL", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		profile, err := c.usecase.GetProfile(id)
		if err != nil {
			writeError(w, err)
			return
		}
		if profile == nil {
			writeError(w, apperr.New(apperr.CodeNotFound, "User not found."))
			return
		}
		writeJSON(w, http.StatusOK, profile)

	case http.MethodPut:
		callerID, _, err := caller(c.auth, r)
		if err != nil {
			writeError(w, err)
			return
		}
		var updates map[string]string
		if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
			writeError(w, apperr.New(apperr.CodeInvalidArgument, "Invalid request body."))
			return
		}
		if err := c.usecase.UpdateProfile(callerID, id, updates); err != nil {
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
		if err := c.usecase.DeleteProfile(callerID, id); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
