package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hariprasanna/counterpos-backend/api/responses"
	"github.com/hariprasanna/counterpos-backend/api/validators"
	"github.com/hariprasanna/counterpos-backend/internal/drafts"
	"github.com/hariprasanna/counterpos-backend/pkg/db/models"
	pkgerrors "github.com/hariprasanna/counterpos-backend/pkg/errors"
	"github.com/hariprasanna/counterpos-backend/pkg/logger"
)

type draftLineRequest struct {
	ItemID    uuid.UUID       `json:"item_id" validate:"required"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity" validate:"required,gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type saveDraftRequest struct {
	Name  string             `json:"name"`
	Items []draftLineRequest `json:"items" validate:"dive"`
}

func (req saveDraftRequest) toInput() drafts.SaveDraftInput {
	items := make([]models.DraftLineItem, 0, len(req.Items))
	for _, line := range req.Items {
		items = append(items, models.DraftLineItem{
			ItemID:    line.ItemID,
			Name:      line.Name,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}
	return drafts.SaveDraftInput{Name: req.Name, Items: items}
}

// SaveDraft parks a cart server-side.
func SaveDraft(svc drafts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "drafts service unavailable"))
			return
		}

		var body saveDraftRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		draft, err := svc.SaveDraft(r.Context(), body.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, draft)
	}
}

// ListDrafts returns all parked carts, most recently touched first.
func ListDrafts(svc drafts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "drafts service unavailable"))
			return
		}

		list, err := svc.ListDrafts(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// GetDraft returns one parked cart.
func GetDraft(svc drafts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "drafts service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(r, "draftID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		draft, err := svc.GetDraft(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, draft)
	}
}

// UpdateDraft replaces a parked cart's contents.
func UpdateDraft(svc drafts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "drafts service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(r, "draftID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body saveDraftRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		draft, err := svc.UpdateDraft(r.Context(), id, body.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, draft)
	}
}

// DeleteDraft discards a parked cart.
func DeleteDraft(svc drafts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "drafts service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(r, "draftID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteDraft(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
