package handler

import (
	"net/http"

	"heartline/internal/httputil"
)

// Me handles GET /api/me. It echoes the verified identity so the SPA can
// confirm a session without decoding the token itself.
func Me(w http.ResponseWriter, r *http.Request) {
	claims := httputil.GetClaims(r)
	if claims == nil {
		httputil.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"user_id":      claims.GetUserID(),
		"email":        claims.Email,
		"name":         claims.Name,
		"role":         claims.Role,
		"session_id":   claims.SessionID,
		"is_anonymous": claims.IsAnonymous,
	})
}

// Health handles GET /health. Reachable without a token.
func Health(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
