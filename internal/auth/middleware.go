package auth

import (
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/emanuelratliff/abstract-inventory/internal/models"
	"github.com/emanuelratliff/abstract-inventory/internal/session"
)

// SessionCookie names the cookie carrying the opaque session id.
const SessionCookie = "inventory_session"

const seenThrottle = time.Minute

// SessionAuth resolves the session cookie to a login user and attaches the
// principal to the request context. It also bumps the user's last_seen,
// throttled so a busy session does not hammer the users table.
func SessionAuth(store *session.Store, db *gorm.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ck, err := r.Cookie(SessionCookie)
			if err != nil || ck.Value == "" {
				http.Error(w, "login required", http.StatusUnauthorized)
				return
			}
			sess, err := store.Get(r.Context(), ck.Value)
			if err != nil {
				http.Error(w, "invalid session", http.StatusUnauthorized)
				return
			}
			var u models.User
			if err := db.First(&u, "id = ?", sess.UserID).Error; err != nil {
				// user deleted since login; kill the stale session
				_ = store.Delete(r.Context(), ck.Value)
				http.Error(w, "login required", http.StatusUnauthorized)
				return
			}
			if store.ThrottleSeen(r.Context(), u.ID, seenThrottle) {
				_ = db.Model(&models.User{}).Where("id = ?", u.ID).
					Update("last_seen", time.Now().UTC()).Error
			}
			ctx := WithPrincipal(r.Context(), Principal{UserID: u.ID, Username: u.Username})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IsAdmin reports whether the user holds an admin grant.
func IsAdmin(db *gorm.DB, userID string) bool {
	var n int64
	_ = db.Model(&models.Admin{}).Where("user_id = ?", userID).Count(&n).Error
	return n > 0
}

// RequireAdmin gates privileged mutations on a fresh admins-table lookup so
// a revoked grant takes effect immediately, not at next login.
func RequireAdmin(db *gorm.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := FromContext(r.Context())
			if p.UserID == "" || !IsAdmin(db, p.UserID) {
				http.Error(w, "You are not an admin!", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
