package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/slobi-app/slobi-backend/api/responses"
	pkgAuth "github.com/slobi-app/slobi-backend/pkg/auth"
	"github.com/slobi-app/slobi-backend/pkg/config"
	pkgerrors "github.com/slobi-app/slobi-backend/pkg/errors"
	"github.com/slobi-app/slobi-backend/pkg/logger"
)

// Auth validates a bearer token and seeds the request context with the
// creator identity. Handlers read it back via CreatorIDFromContext and pass
// it into services explicitly.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			if claims.CreatorID == uuid.Nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing creator identity"))
				return
			}

			ctx := context.WithValue(r.Context(), ctxCreatorID, claims.CreatorID.String())
			if claims.Slug != "" {
				ctx = context.WithValue(ctx, ctxSlug, claims.Slug)
			}

			if logg != nil {
				ctx = logg.WithCreatorID(ctx, claims.CreatorID.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
