package handlers

import (
	"encoding/json"
	"errors"
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

type itemReq struct {
	Name         string `json:"name" validate:"required,max=40"`
	SerialNumber string `json:"serial_number" validate:"max=40"`
	AssetTag     string `json:"asset_tag" validate:"required,max=40"`
}

func AddItem(db *gorm.DB, aud *audit.Recorder, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := auth.FromContext(r.Context())
		var req itemReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := validator.New().Struct(req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		item := models.Item{Name: req.Name, SerialNumber: req.SerialNumber, AssetTag: req.AssetTag}
		if err := db.Create(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				http.Error(w, "asset tag already in inventory", http.StatusConflict)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		aud.Record(r.Context(), p.UserID, p.Username, "ITEM_ADD", map[string]any{
			"item_name": item.Name, "serial_number": item.SerialNumber, "asset_tag": item.AssetTag,
		})
		respondMessage(w, http.StatusCreated, fmt.Sprintf("%s added to inventory", item.Name))
	}
}

func SearchInventory(db *gorm.DB, perPage int, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := pageParam(r)
		var total int64
		if err := db.Model(&models.Item{}).Count(&total).Error; err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		var results []models.Item
		err := db.Order("name").Offset((page - 1) * perPage).Limit(perPage).Find(&results).Error
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		respondJSON(w, newListPage(results, total, page, perPage))
	}
}

func EditInventory(db *gorm.DB, aud *audit.Recorder, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := auth.FromContext(r.Context())
		id, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			http.Error(w, "invalid item id", http.StatusBadRequest)
			return
		}
		var item models.Item
		if err := db.First(&item, "id = ?", id).Error; err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		var req itemReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := validator.New().Struct(req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		item.Name = req.Name
		item.SerialNumber = req.SerialNumber
		item.AssetTag = req.AssetTag
		if err := db.Save(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				http.Error(w, "asset tag already in inventory", http.StatusConflict)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		aud.Record(r.Context(), p.UserID, p.Username, "ITEM_EDIT", map[string]any{
			"item_name": item.Name, "serial_number": item.SerialNumber, "asset_tag": item.AssetTag,
		})
		respondMessage(w, http.StatusOK, "Inventory record updated!")
	}
}

func DeleteInventory(db *gorm.DB, aud *audit.Recorder, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := auth.FromContext(r.Context())
		id, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			http.Error(w, "invalid item id", http.StatusBadRequest)
			return
		}
		var item models.Item
		if err := db.First(&item, "id = ?", id).Error; err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		if err := db.Delete(&models.Item{}, "id = ?", id).Error; err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		aud.Record(r.Context(), p.UserID, p.Username, "ITEM_DELETE", map[string]any{"item_name": item.Name})
		respondMessage(w, http.StatusOK, "Record Deleted!")
	}
}
