package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/emanuelratliff/abstract-inventory/internal/audit"
	"github.com/emanuelratliff/abstract-inventory/internal/auth"
	"github.com/emanuelratliff/abstract-inventory/internal/models"
	"github.com/emanuelratliff/abstract-inventory/internal/session"
)

// AdminConsole lists every login user with their admin flag, the data behind
// the grant/revoke/delete console.
func AdminConsole(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	type row struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
		IsAdmin  bool   `json:"is_admin"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var users []models.User
		if err := db.Order("username").Find(&users).Error; err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		var grants []models.Admin
		_ = db.Find(&grants).Error
		granted := make(map[string]bool, len(grants))
		for _, g := range grants {
			granted[g.UserID] = true
		}
		rows := make([]row, 0, len(users))
		for _, u := range users {
			rows = append(rows, row{ID: u.ID, Username: u.Username, Email: u.Email, IsAdmin: granted[u.ID]})
		}
		respondJSON(w, rows)
	}
}

func GrantAdmin(db *gorm.DB, aud *audit.Recorder, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := auth.FromContext(r.Context())
		var target models.User
		if err := db.First(&target, "id = ?", chi.URLParam(r, "id")).Error; err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		var n int64
		db.Model(&models.Admin{}).Where("user_id = ?", target.ID).Count(&n)
		if n > 0 {
			http.Error(w, fmt.Sprintf("%s is already an Administrator", target.Username), http.StatusConflict)
			return
		}
		grant := models.Admin{Username: target.Username, UserID: target.ID}
		if err := db.Create(&grant).Error; err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		aud.Record(r.Context(), p.UserID, p.Username, "ADMIN_GRANT", map[string]any{"username": target.Username})
		respondMessage(w, http.StatusCreated, fmt.Sprintf("You added %s as an administrator", target.Username))
	}
}

func RevokeAdmin(db *gorm.DB, aud *audit.Recorder, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := auth.FromContext(r.Context())
		var target models.User
		if err := db.First(&target, "id = ?", chi.URLParam(r, "id")).Error; err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		if target.ID == p.UserID {
			http.Error(w, "You cannot remove yourself", http.StatusBadRequest)
			return
		}
		res := db.Where("user_id = ?", target.ID).Delete(&models.Admin{})
		if res.Error != nil {
			http.Error(w, res.Error.Error(), http.StatusInternalServerError)
			return
		}
		if res.RowsAffected == 0 {
			http.Error(w, "not an administrator", http.StatusNotFound)
			return
		}
		aud.Record(r.Context(), p.UserID, p.Username, "ADMIN_REVOKE", map[string]any{"username": target.Username})
		respondMessage(w, http.StatusOK, fmt.Sprintf("%s was removed as an admin", target.Username))
	}
}

// DeleteAccount removes a login user and their admin grant, then revokes all
// of their sessions. Self-deletion is rejected before anything mutates.
func DeleteAccount(db *gorm.DB, sessions *session.Store, aud *audit.Recorder, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := auth.FromContext(r.Context())
		var target models.User
		if err := db.First(&target, "id = ?", chi.URLParam(r, "id")).Error; err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		if target.ID == p.UserID {
			http.Error(w, "You cannot delete yourself", http.StatusBadRequest)
			return
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("user_id = ?", target.ID).Delete(&models.Admin{}).Error; err != nil {
				return err
			}
			return tx.Delete(&models.User{}, "id = ?", target.ID).Error
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if sessions != nil {
			_ = sessions.RevokeAllForUser(r.Context(), target.ID)
		}
		aud.Record(r.Context(), p.UserID, p.Username, "USER_DELETE", map[string]any{"username": target.Username})
		respondMessage(w, http.StatusOK, fmt.Sprintf("%s was deleted", target.Username))
	}
}
