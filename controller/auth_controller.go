package controller

import (
	"encoding/json"
	"net/http"

	"bazaar-backend/pkg/apperr"
	"bazaar-backend/usecase"
)

type AuthController struct {
	usecase *usecase.AuthUsecase
}

func NewAuthController(u *usecase.AuthUsecase) *AuthController {
	return &AuthController{usecase: u}
}

type credentialsRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
	Year        string `json:"year"`
	Major       string `json:"major"`
}

// HandleRegister handles POST /auth/register.
func (c *AuthController) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if preflight(w, r) {
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.New(apperr.CodeInvalidArgument, "Invalid request body."))
		return
	}
	user, token, err := c.usecase.Register(req.Email, req.Password, req.DisplayName, req.Year, req.Major)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"user": user, "token": token})
}

// HandleLogin handles POST /auth/login.
func (c *AuthController) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if preflight(w, r) {
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.New(apperr.CodeInvalidArgument, "Invalid request body."))
		return
	}
	user, token, err := c.usecase.Login(req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user, "token": token})
}

// HandlePasswordReset handles POST /auth/reset-password.
func (c *AuthController) HandlePasswordReset(w http.ResponseWriter, r *http.Request) {
	if preflight(w, r) {
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.New(apperr.CodeInvalidArgument, "Invalid request body."))
		return
	}
	if err := c.usecase.RequestPasswordReset(req.Email); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleVerify handles POST /auth/verify: flips the caller's verification
// flag (stand-in for the provider's email-verification callback).
func (c *AuthController) HandleVerify(w http.ResponseWriter, r *http.Request) {
	if preflight(w, r) {
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, _, err := caller(c.usecase, r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := c.usecase.MarkVerified(userID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
