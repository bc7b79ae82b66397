package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/filmatch/filmatch-backend/api/middleware"
	pkgerrors "github.com/filmatch/filmatch-backend/pkg/errors"
)

// requestUserID resolves the authenticated user id seeded by the auth
// middleware.
func requestUserID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user identity")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user identity")
	}
	return userID, nil
}
