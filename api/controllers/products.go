package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/slobi-app/slobi-backend/api/responses"
	"github.com/slobi-app/slobi-backend/api/validators"
	productsvc "github.com/slobi-app/slobi-backend/internal/products"
	"github.com/slobi-app/slobi-backend/pkg/enums"
	pkgerrors "github.com/slobi-app/slobi-backend/pkg/errors"
	"github.com/slobi-app/slobi-backend/pkg/logger"
)

type createProductRequest struct {
	Name               string  `json:"name" validate:"required"`
	Description        *string `json:"description,omitempty"`
	PriceKobo          int64   `json:"price_kobo" validate:"required,min=1"`
	DiscountPercentage *int    `json:"discount_percentage,omitempty" validate:"omitempty,min=1,max=99"`
	DeliveryKind       string  `json:"delivery_kind" validate:"required"`
	FileKey            *string `json:"file_key,omitempty"`
	ContentURL         *string `json:"content_url,omitempty" validate:"omitempty,url"`
	DeliveryNote       *string `json:"delivery_note,omitempty"`
}

type updateProductRequest struct {
	Name               *string `json:"name,omitempty"`
	Description        *string `json:"description,omitempty"`
	DiscountPercentage *int    `json:"discount_percentage,omitempty" validate:"omitempty,min=1,max=99"`
	DeliveryKind       *string `json:"delivery_kind,omitempty"`
	FileKey            *string `json:"file_key,omitempty"`
	ContentURL         *string `json:"content_url,omitempty" validate:"omitempty,url"`
	DeliveryNote       *string `json:"delivery_note,omitempty"`
	Position           *int    `json:"position,omitempty" validate:"omitempty,min=0"`
}

// CreateProduct handles listing creation for the authenticated creator.
func CreateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		creatorID, err := creatorIDFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		kind, err := enums.ParseDeliveryKind(payload.DeliveryKind)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid delivery kind"))
			return
		}

		product, err := svc.CreateProduct(r.Context(), creatorID, productsvc.CreateProductInput{
			Name:               payload.Name,
			Description:        payload.Description,
			PriceKobo:          payload.PriceKobo,
			DiscountPercentage: payload.DiscountPercentage,
			DeliveryKind:       kind,
			FileKey:            payload.FileKey,
			ContentURL:         payload.ContentURL,
			DeliveryNote:       payload.DeliveryNote,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// ListProducts returns the creator's own listings.
func ListProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		creatorID, err := creatorIDFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		products, err := svc.ListProducts(r.Context(), creatorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, products)
	}
}

// GetProduct returns one of the creator's listings.
func GetProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		creatorID, err := creatorIDFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := parsePathUUID(chi.URLParam(r, "productID"), "product id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), creatorID, productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// UpdateProduct mutates a listing. The price is immutable and not accepted
// here.
func UpdateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		creatorID, err := creatorIDFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := parsePathUUID(chi.URLParam(r, "productID"), "product id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := productsvc.UpdateProductInput{
			Name:               payload.Name,
			Description:        payload.Description,
			DiscountPercentage: payload.DiscountPercentage,
			FileKey:            payload.FileKey,
			ContentURL:         payload.ContentURL,
			DeliveryNote:       payload.DeliveryNote,
			Position:           payload.Position,
		}
		if payload.DeliveryKind != nil {
			kind, err := enums.ParseDeliveryKind(*payload.DeliveryKind)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid delivery kind"))
				return
			}
			input.DeliveryKind = &kind
		}

		product, err := svc.UpdateProduct(r.Context(), creatorID, productID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// EndProductDiscount clears a listing's discount.
func EndProductDiscount(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		creatorID, err := creatorIDFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := parsePathUUID(chi.URLParam(r, "productID"), "product id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.EndDiscount(r.Context(), creatorID, productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// DeleteProduct soft-deletes a listing.
func DeleteProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		creatorID, err := creatorIDFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := parsePathUUID(chi.URLParam(r, "productID"), "product id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), creatorID, productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
