package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/emanuelratliff/abstract-inventory/internal/audit"
	"github.com/emanuelratliff/abstract-inventory/internal/auth"
	"github.com/emanuelratliff/abstract-inventory/internal/models"
)

type tonerReq struct {
	Model     string `json:"model" validate:"required,max=40"`
	Cartridge string `json:"cartridge" validate:"required,max=40"`
	Color     string `json:"color" validate:"max=40"`
	Quantity  int    `json:"quantity" validate:"gte=0"`
}

func AddToner(db *gorm.DB, aud *audit.Recorder, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := auth.FromContext(r.Context())
		var req tonerReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := validator.New().Struct(req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		t := models.Toner{Model: req.Model, Cartridge: req.Cartridge, Color: req.Color, Quantity: req.Quantity}
		if err := db.Create(&t).Error; err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		aud.Record(r.Context(), p.UserID, p.Username, "TONER_ADD", map[string]any{
			"toner_model": t.Model, "toner_cartridge": t.Cartridge, "toner_color": t.Color, "toner_quantity": t.Quantity,
		})
		respondMessage(w, http.StatusCreated, fmt.Sprintf("%s added to inventory", t.Cartridge))
	}
}

func SearchToner(db *gorm.DB, perPage int, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := pageParam(r)
		var total int64
		if err := db.Model(&models.Toner{}).Count(&total).Error; err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		var results []models.Toner
		err := db.Order("model").Offset((page - 1) * perPage).Limit(perPage).Find(&results).Error
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		respondJSON(w, newListPage(results, total, page, perPage))
	}
}

func EditToner(db *gorm.DB, aud *audit.Recorder, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := auth.FromContext(r.Context())
		id, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			http.Error(w, "invalid toner id", http.StatusBadRequest)
			return
		}
		var t models.Toner
		if err := db.First(&t, "id = ?", id).Error; err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		var req tonerReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := validator.New().Struct(req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		t.Model = req.Model
		t.Cartridge = req.Cartridge
		t.Color = req.Color
		t.Quantity = req.Quantity
		if err := db.Save(&t).Error; err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		aud.Record(r.Context(), p.UserID, p.Username, "TONER_EDIT", map[string]any{
			"toner_model": t.Model, "toner_cartridge": t.Cartridge, "toner_color": t.Color, "toner_quantity": t.Quantity,
		})
		respondMessage(w, http.StatusOK, "Toner record updated!")
	}
}

func DeleteToner(db *gorm.DB, aud *audit.Recorder, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := auth.FromContext(r.Context())
		id, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			http.Error(w, "invalid toner id", http.StatusBadRequest)
			return
		}
		var t models.Toner
		if err := db.First(&t, "id = ?", id).Error; err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		if err := db.Delete(&models.Toner{}, "id = ?", id).Error; err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		aud.Record(r.Context(), p.UserID, p.Username, "TONER_DELETE", map[string]any{"toner_cartridge": t.Cartridge})
		respondMessage(w, http.StatusOK, "Record Deleted!")
	}
}
