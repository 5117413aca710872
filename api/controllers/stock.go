package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/hariprasanna/counterpos-backend/api/responses"
	"github.com/hariprasanna/counterpos-backend/api/validators"
	"github.com/hariprasanna/counterpos-backend/internal/stockledger"
	"github.com/hariprasanna/counterpos-backend/pkg/businessday"
	pkgerrors "github.com/hariprasanna/counterpos-backend/pkg/errors"
	"github.com/hariprasanna/counterpos-backend/pkg/logger"
)

type setDailyStockRequest struct {
	Date         string `json:"date" validate:"required"`
	InitialStock int    `json:"initial_stock" validate:"gte=0"`
}

type availableStockResponse struct {
	ItemID    uuid.UUID `json:"item_id"`
	Date      string    `json:"date"`
	Available int       `json:"available"`
}

// SetDailyStock writes the day's allotment for an item. Re-submitting the
// same payload is a no-op.
func SetDailyStock(svc stockledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stock service unavailable"))
			return
		}

		itemID, err := validators.ParsePathUUID(r, "itemID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body setDailyStockRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		date, err := businessday.ParseDate(body.Date)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "date must be a YYYY-MM-DD date"))
			return
		}

		entry, err := svc.SetDailyStock(r.Context(), stockledger.SetDailyStockInput{
			ItemID:       itemID,
			Date:         date,
			InitialStock: body.InitialStock,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, entry)
	}
}

// GetAvailableStock derives remaining availability for an item. The date
// defaults to today's business day when absent.
func GetAvailableStock(svc stockledger.Service, calendar *businessday.Calendar, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stock service unavailable"))
			return
		}

		itemID, err := validators.ParsePathUUID(r, "itemID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		date, err := validators.ParseQueryDate(r, "date")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if date.IsZero() {
			date = calendar.Today()
		}

		available, err := svc.GetAvailableStock(r.Context(), itemID, date)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, availableStockResponse{
			ItemID:    itemID,
			Date:      date.String(),
			Available: available,
		})
	}
}

// GetDayAvailability derives availability for every item with an allotment on
// the requested day.
func GetDayAvailability(svc stockledger.Service, calendar *businessday.Calendar, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stock service unavailable"))
			return
		}

		date, err := validators.ParseQueryDate(r, "date")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if date.IsZero() {
			date = calendar.Today()
		}

		availability, err := svc.AvailabilityForDate(r.Context(), date)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"date":         date.String(),
			"availability": availability,
		})
	}
}
