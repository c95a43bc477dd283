package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/slobi-app/slobi-backend/api/responses"
	"github.com/slobi-app/slobi-backend/api/validators"
	callbacksvc "github.com/slobi-app/slobi-backend/internal/callback"
	checkoutsvc "github.com/slobi-app/slobi-backend/internal/checkout"
	"github.com/slobi-app/slobi-backend/internal/creators"
	pkgerrors "github.com/slobi-app/slobi-backend/pkg/errors"
	"github.com/slobi-app/slobi-backend/pkg/logger"
)

// GetStorefront serves the public page for a creator slug.
func GetStorefront(svc creators.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storefront, err := svc.GetStorefront(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, storefront)
	}
}

type startCheckoutRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Email     string `json:"email" validate:"required,email"`
}

// StartCheckout initializes a gateway transaction for a buyer. Public: the
// buyer is identified only by email.
func StartCheckout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload startCheckoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := uuid.Parse(payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		checkout, err := svc.StartCheckout(r.Context(), checkoutsvc.StartCheckoutInput{
			ProductID: productID,
			Email:     payload.Email,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, checkout)
	}
}

// PaystackCallback handles the gateway redirect after payment. Paystack
// appends both trxref and reference query parameters with the same value;
// reference wins when both are present.
func PaystackCallback(svc callbacksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reference := strings.TrimSpace(r.URL.Query().Get("reference"))
		if reference == "" {
			reference = strings.TrimSpace(r.URL.Query().Get("trxref"))
		}

		result, err := svc.HandleCallback(r.Context(), reference)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
