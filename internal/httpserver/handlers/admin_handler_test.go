package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/emanuelratliff/abstract-inventory/internal/audit"
	"github.com/emanuelratliff/abstract-inventory/internal/auth"
	"github.com/emanuelratliff/abstract-inventory/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string, admin bool) models.User {
	t.Helper()
	u := models.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(&u).Error)
	if admin {
		require.NoError(t, db.Create(&models.Admin{UserID: u.ID, Username: u.Username}).Error)
	}
	return u
}

// asUser builds a request carrying the principal and the {id} route param.
func asUser(method, path string, p models.User, targetID string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	ctx := auth.WithPrincipal(req.Context(), auth.Principal{UserID: p.ID, Username: p.Username})
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", targetID)
	ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	return req.WithContext(ctx)
}

func TestRevokeAdminSelf(t *testing.T) {
	db := newTestDB(t)
	lg := zap.NewNop().Sugar()
	aud := audit.New(db, lg)
	admin := seedUser(t, db, "root", true)

	rr := httptest.NewRecorder()
	RevokeAdmin(db, aud, lg)(rr, asUser(http.MethodPost, "/admin/revoke/x", admin, admin.ID))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "You cannot remove yourself")

	// the grant survived
	var n int64
	db.Model(&models.Admin{}).Where("user_id = ?", admin.ID).Count(&n)
	assert.EqualValues(t, 1, n)
}

func TestRevokeAdminOther(t *testing.T) {
	db := newTestDB(t)
	lg := zap.NewNop().Sugar()
	aud := audit.New(db, lg)
	admin := seedUser(t, db, "root", true)
	other := seedUser(t, db, "deputy", true)

	rr := httptest.NewRecorder()
	RevokeAdmin(db, aud, lg)(rr, asUser(http.MethodPost, "/admin/revoke/x", admin, other.ID))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "deputy was removed as an admin")

	var n int64
	db.Model(&models.Admin{}).Where("user_id = ?", other.ID).Count(&n)
	assert.Zero(t, n)

	t.Run("revoking again is a 404", func(t *testing.T) {
		rr := httptest.NewRecorder()
		RevokeAdmin(db, aud, lg)(rr, asUser(http.MethodPost, "/admin/revoke/x", admin, other.ID))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestGrantAdmin(t *testing.T) {
	db := newTestDB(t)
	lg := zap.NewNop().Sugar()
	aud := audit.New(db, lg)
	admin := seedUser(t, db, "root", true)
	user := seedUser(t, db, "newbie", false)

	rr := httptest.NewRecorder()
	GrantAdmin(db, aud, lg)(rr, asUser(http.MethodPost, "/admin/grant/x", admin, user.ID))

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Contains(t, rr.Body.String(), "You added newbie as an administrator")

	t.Run("granting twice is a conflict", func(t *testing.T) {
		rr := httptest.NewRecorder()
		GrantAdmin(db, aud, lg)(rr, asUser(http.MethodPost, "/admin/grant/x", admin, user.ID))
		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.Contains(t, rr.Body.String(), "newbie is already an Administrator")
	})
}

func TestDeleteAccountSelf(t *testing.T) {
	db := newTestDB(t)
	lg := zap.NewNop().Sugar()
	aud := audit.New(db, lg)
	admin := seedUser(t, db, "root", true)

	rr := httptest.NewRecorder()
	DeleteAccount(db, nil, aud, lg)(rr, asUser(http.MethodDelete, "/delete_user/x", admin, admin.ID))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "You cannot delete yourself")

	var n int64
	db.Model(&models.User{}).Where("id = ?", admin.ID).Count(&n)
	assert.EqualValues(t, 1, n)
}

func TestDeleteAccountOther(t *testing.T) {
	db := newTestDB(t)
	lg := zap.NewNop().Sugar()
	aud := audit.New(db, lg)
	admin := seedUser(t, db, "root", true)
	victim := seedUser(t, db, "leaver", true)

	rr := httptest.NewRecorder()
	DeleteAccount(db, nil, aud, lg)(rr, asUser(http.MethodDelete, "/delete_user/x", admin, victim.ID))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "leaver was deleted")

	// both the account and its grant are gone
	var n int64
	db.Model(&models.User{}).Where("id = ?", victim.ID).Count(&n)
	assert.Zero(t, n)
	db.Model(&models.Admin{}).Where("user_id = ?", victim.ID).Count(&n)
	assert.Zero(t, n)
}
