package controller

import (
	"encoding/json"
	"net/http"
	"strings"

	jww "github.com/spf13/jwalterweatherman"

	"bazaar-backend/pkg/apperr"
	"bazaar-backend/usecase"
)

func setCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
}

// preflight handles CORS and OPTIONS; returns true when the request is
// already answered.
func preflight(w http.ResponseWriter, r *http.Request) bool {
	setCORS(w)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return true
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError sends the user-facing message only; the cause stays in the
// server log.
func writeError(w http.ResponseWriter, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		jww.ERROR.Printf("request failed: %v", err)
	}
	writeJSON(w, status, map[string]string{"error": apperr.MessageOf(err)})
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	// Websocket clients cannot set headers; accept ?token= there.
	return r.URL.Query().Get("token")
}

// caller authenticates the request and returns the user's identity key
// and email.
func caller(auth *usecase.AuthUsecase, r *http.Request) (userID, email string, err error) {
	token := bearerToken(r)
	if token == "" {
		return "", "", apperr.New(apperr.CodeUnauthenticated, "You must be logged in.")
	}
	return auth.ParseToken(token)
}

// pathSegment returns the i-th segment of the URL path, or "".
func pathSegment(r *http.Request, i int) string {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if i < 0 || i >= len(parts) {
		return ""
	}
	return parts[i]
}
