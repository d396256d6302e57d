package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/emanuelratliff/abstract-inventory/internal/audit"
	"github.com/emanuelratliff/abstract-inventory/internal/auth"
	"github.com/emanuelratliff/abstract-inventory/internal/inventory"
	"github.com/emanuelratliff/abstract-inventory/internal/models"
)

func Checkout(svc *inventory.Service, aud *audit.Recorder, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := auth.FromContext(r.Context())
		var req struct {
			AssetTag   string `json:"asset_tag" validate:"required,max=40"`
			EmployeeID int    `json:"employee_id" validate:"required,gt=0"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := validator.New().Struct(req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		rec, err := svc.CheckOut(r.Context(), req.AssetTag, req.EmployeeID)
		switch {
		case errors.Is(err, inventory.ErrAlreadyCheckedOut):
			http.Error(w, "This item is already checked out", http.StatusConflict)
			return
		case errors.Is(err, inventory.ErrUnknownAsset):
			http.Error(w, "This item is not in the inventory system!", http.StatusNotFound)
			return
		case errors.Is(err, inventory.ErrUnknownEmployee):
			http.Error(w, "employee not found", http.StatusNotFound)
			return
		case err != nil:
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		aud.Record(r.Context(), p.UserID, p.Username, "CHECK_OUT", map[string]any{
			"item_name":   rec.ItemName,
			"asset_tag":   rec.AssetTag,
			"checked_out": rec.Username,
			"timestamp":   rec.Timestamp,
		})
		respondMessage(w, http.StatusCreated, "Check out successful!")
	}
}

func SearchCheckout(db *gorm.DB, perPage int, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := pageParam(r)
		var total int64
		if err := db.Model(&models.Checkout{}).Count(&total).Error; err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		var results []models.Checkout
		err := db.Order("username").Offset((page - 1) * perPage).Limit(perPage).Find(&results).Error
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		respondJSON(w, newListPage(results, total, page, perPage))
	}
}

func CheckIn(svc *inventory.Service, aud *audit.Recorder, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := auth.FromContext(r.Context())
		tag := chi.URLParam(r, "asset_tag")
		rec, err := svc.CheckIn(r.Context(), tag)
		switch {
		case errors.Is(err, inventory.ErrNotCheckedOut):
			http.Error(w, "This item is not checked out", http.StatusNotFound)
			return
		case err != nil:
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		aud.Record(r.Context(), p.UserID, p.Username, "CHECK_IN", map[string]any{
			"item_name": rec.ItemName,
			"asset_tag": rec.AssetTag,
			"was_held":  rec.Username,
		})
		respondMessage(w, http.StatusOK, "Check in successful!")
	}
}
