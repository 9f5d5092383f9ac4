package httputil

import (
	"context"
	"net/http"

	"heartline/internal/domain/models"
)

// Context key type to avoid collisions
type contextKey string

const (
	claimsKey    contextKey = "claims"
	requestIDKey contextKey = "requestID"
)

// WithClaims adds the verified identity claims to the request context
func WithClaims(r *http.Request, claims *models.IdentityClaims) *http.Request {
	ctx := context.WithValue(r.Context(), claimsKey, claims)
	return r.WithContext(ctx)
}

// GetClaims retrieves the identity claims from context, nil if not present
func GetClaims(r *http.Request) *models.IdentityClaims {
	claims, _ := r.Context().Value(claimsKey).(*models.IdentityClaims)
	return claims
}

// GetUserID retrieves the authenticated user ID, empty string if unauthenticated
func GetUserID(r *http.Request) string {
	if claims := GetClaims(r); claims != nil {
		return claims.GetUserID()
	}
	return ""
}

// WithRequestID adds the correlation ID to the request context
func WithRequestID(r *http.Request, id string) *http.Request {
	ctx := context.WithValue(r.Context(), requestIDKey, id)
	return r.WithContext(ctx)
}

// GetRequestID retrieves the correlation ID from context
func GetRequestID(r *http.Request) string {
	id, _ := r.Context().Value(requestIDKey).(string)
	return id
}
