package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/slobi-app/slobi-backend/api/middleware"
	pkgerrors "github.com/slobi-app/slobi-backend/pkg/errors"
)

// creatorIDFrom reads the authenticated creator seeded by the auth
// middleware.
func creatorIDFrom(r *http.Request) (uuid.UUID, error) {
	raw := middleware.CreatorIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "creator context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid creator id")
	}
	return id, nil
}

func parsePathUUID(raw, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+field)
	}
	return id, nil
}
