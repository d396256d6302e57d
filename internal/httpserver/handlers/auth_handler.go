package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/emanuelratliff/abstract-inventory/internal/auth"
	"github.com/emanuelratliff/abstract-inventory/internal/config"
	"github.com/emanuelratliff/abstract-inventory/internal/models"
	"github.com/emanuelratliff/abstract-inventory/internal/session"
)

type registerReq struct {
	Username string `json:"username" validate:"required,max=64"`
	Email    string `json:"email" validate:"required,email,max=120"`
	Password string `json:"password" validate:"required,min=4"`
}

func Register(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		req.Username = strings.TrimSpace(req.Username)
		req.Email = strings.TrimSpace(strings.ToLower(req.Email))
		if err := validator.New().Struct(req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		var n int64
		db.Model(&models.User{}).Where("username = ?", req.Username).Count(&n)
		if n > 0 {
			http.Error(w, "Please use a different username.", http.StatusConflict)
			return
		}
		db.Model(&models.User{}).Where("email = ?", req.Email).Count(&n)
		if n > 0 {
			http.Error(w, "Please use a different email address.", http.StatusConflict)
			return
		}
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			http.Error(w, "hash error", http.StatusInternalServerError)
			return
		}
		u := models.User{ID: uuid.NewString(), Username: req.Username, Email: req.Email, PasswordHash: hash}
		if err := db.Create(&u).Error; err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		lg.Infow("user registered", "username", u.Username)
		respondMessage(w, http.StatusCreated, "Congratulations, you are now a registered user!")
	}
}

type loginReq struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	RememberMe bool   `json:"remember_me"`
}

func Login(db *gorm.DB, sessions *session.Store, cfg config.Config, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		var u models.User
		if err := db.First(&u, "username = ?", req.Username).Error; err != nil {
			http.Error(w, "Invalid username or password", http.StatusUnauthorized)
			return
		}
		if err := auth.CheckPassword(u.PasswordHash, req.Password); err != nil {
			http.Error(w, "Invalid username or password", http.StatusUnauthorized)
			return
		}
		ttl := cfg.SessionTTL
		if req.RememberMe {
			ttl = cfg.RememberTTL
		}
		sid := uuid.NewString()
		if err := sessions.Create(r.Context(), sid, u.ID, ttl); err != nil {
			http.Error(w, "session error", http.StatusInternalServerError)
			return
		}
		now := time.Now().UTC()
		_ = db.Model(&u).Update("last_seen", now).Error
		http.SetCookie(w, &http.Cookie{
			Name:     auth.SessionCookie,
			Value:    sid,
			Path:     "/",
			MaxAge:   int(ttl / time.Second),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		lg.Infow("login", "username", u.Username)
		respondJSON(w, map[string]any{"id": u.ID, "username": u.Username, "is_admin": auth.IsAdmin(db, u.ID)})
	}
}

func Logout(sessions *session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ck, err := r.Cookie(auth.SessionCookie); err == nil && ck.Value != "" {
			_ = sessions.Delete(r.Context(), ck.Value)
		}
		http.SetCookie(w, &http.Cookie{
			Name:     auth.SessionCookie,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		respondMessage(w, http.StatusOK, "ok")
	}
}

// ResetPasswordRequest answers the same way whether or not the email exists,
// so the endpoint cannot be used to probe for accounts. Mail delivery is out
// of scope; the reset link is written to the log for the operator to relay.
func ResetPasswordRequest(db *gorm.DB, cfg config.Config, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email string `json:"email"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		var u models.User
		if err := db.First(&u, "email = ?", strings.ToLower(req.Email)).Error; err == nil {
			tok, err := auth.SignResetToken([]byte(cfg.SecretKey), u.ID, cfg.ResetTokenTTL)
			if err == nil {
				lg.Infow("password reset requested", "username", u.Username, "reset_path", "/reset_password/"+tok)
			}
		}
		respondMessage(w, http.StatusOK, "Check your email for the instructions to reset your password")
	}
}

func ResetPassword(db *gorm.DB, cfg config.Config, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := auth.VerifyResetToken([]byte(cfg.SecretKey), chi.URLParam(r, "token"))
		if err != nil {
			http.Error(w, "invalid or expired token", http.StatusBadRequest)
			return
		}
		var u models.User
		if err := db.First(&u, "id = ?", uid).Error; err != nil {
			http.Error(w, "invalid or expired token", http.StatusBadRequest)
			return
		}
		var req struct {
			Password string `json:"password" validate:"required,min=4"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := validator.New().Struct(req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			http.Error(w, "hash error", http.StatusInternalServerError)
			return
		}
		if err := db.Model(&u).Update("password_hash", hash).Error; err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		lg.Infow("password reset", "username", u.Username)
		respondMessage(w, http.StatusOK, "Your password has been reset.")
	}
}
