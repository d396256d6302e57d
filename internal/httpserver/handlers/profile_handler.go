package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/emanuelratliff/abstract-inventory/internal/auth"
	"github.com/emanuelratliff/abstract-inventory/internal/models"
)

func GetUser(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var u models.User
		if err := db.First(&u, "username = ?", chi.URLParam(r, "username")).Error; err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		respondJSON(w, map[string]any{
			"id":        u.ID,
			"username":  u.Username,
			"email":     u.Email,
			"about_me":  u.AboutMe,
			"last_seen": u.LastSeen,
			"avatar":    u.Avatar(128),
			"is_admin":  auth.IsAdmin(db, u.ID),
		})
	}
}

func EditProfile(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := auth.FromContext(r.Context())
		var req struct {
			Email   *string `json:"email"`
			AboutMe *string `json:"about_me"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		var u models.User
		if err := db.First(&u, "id = ?", p.UserID).Error; err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		if req.Email != nil {
			email := strings.TrimSpace(strings.ToLower(*req.Email))
			if email != u.Email {
				var n int64
				db.Model(&models.User{}).Where("email = ?", email).Count(&n)
				if n > 0 {
					http.Error(w, "Please use a different email address!", http.StatusConflict)
					return
				}
				u.Email = email
			}
		}
		if req.AboutMe != nil {
			if len(*req.AboutMe) > 140 {
				http.Error(w, "about_me must be <= 140 characters", http.StatusBadRequest)
				return
			}
			u.AboutMe = *req.AboutMe
		}
		if err := db.Save(&u).Error; err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		lg.Infow("profile updated", "username", u.Username)
		respondMessage(w, http.StatusOK, "Your changes have been saved.")
	}
}
