package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/emanuelratliff/abstract-inventory/internal/audit"
	"github.com/emanuelratliff/abstract-inventory/internal/auth"
	"github.com/emanuelratliff/abstract-inventory/internal/config"
	"github.com/emanuelratliff/abstract-inventory/internal/httpserver/handlers"
	"github.com/emanuelratliff/abstract-inventory/internal/inventory"
	"github.com/emanuelratliff/abstract-inventory/internal/session"
)

// NewRouter wires the full HTTP surface. Paths mirror the original
// application so existing bookmarks and tooling keep working.
func NewRouter(db *gorm.DB, sessions *session.Store, aud *audit.Recorder, cfg config.Config, lg *zap.SugaredLogger) http.Handler {
	svc := inventory.NewService(db)
	per := cfg.ResultsPerPage

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer, middleware.Logger)

	r.Post("/register", handlers.Register(db, lg))
	r.Post("/login", handlers.Login(db, sessions, cfg, lg))
	r.Post("/logout", handlers.Logout(sessions))
	r.Post("/reset_password_request", handlers.ResetPasswordRequest(db, cfg, lg))
	r.Post("/reset_password/{token}", handlers.ResetPassword(db, cfg, lg))

	r.Group(func(protected chi.Router) {
		protected.Use(auth.SessionAuth(sessions, db))

		protected.Get("/user/{username}", handlers.GetUser(db, lg))
		protected.Put("/edit_profile", handlers.EditProfile(db, lg))

		protected.Post("/import_user", handlers.ImportUser(db, svc, aud, lg))
		protected.Get("/search", handlers.SearchEmployees(db, per, lg))
		protected.Get("/item/{id}", handlers.GetEmployee(db, svc, lg))
		protected.Put("/item/{id}", handlers.UpdateEmployee(db, svc, aud, lg))

		protected.Post("/add_item", handlers.AddItem(db, aud, lg))
		protected.Get("/search_inventory", handlers.SearchInventory(db, per, lg))
		protected.Put("/edit_inventory/{id}", handlers.EditInventory(db, aud, lg))

		protected.Post("/checkout", handlers.Checkout(svc, aud, lg))
		protected.Get("/search_checkout", handlers.SearchCheckout(db, per, lg))
		protected.Delete("/checkout/{asset_tag}", handlers.CheckIn(svc, aud, lg))

		protected.Post("/add_toner", handlers.AddToner(db, aud, lg))
		protected.Get("/search_toner", handlers.SearchToner(db, per, lg))
		protected.Put("/edit_toner/{id}", handlers.EditToner(db, aud, lg))

		protected.Group(func(admin chi.Router) {
			admin.Use(auth.RequireAdmin(db))
			admin.Get("/admin", handlers.AdminConsole(db, lg))
			admin.Post("/admin/grant/{id}", handlers.GrantAdmin(db, aud, lg))
			admin.Post("/admin/revoke/{id}", handlers.RevokeAdmin(db, aud, lg))
			admin.Delete("/delete_user/{id}", handlers.DeleteAccount(db, sessions, aud, lg))
			admin.Delete("/delete_users/{id}", handlers.DeleteEmployee(db, svc, aud, lg))
			admin.Delete("/delete_inventory/{id}", handlers.DeleteInventory(db, aud, lg))
			admin.Delete("/delete_toner/{id}", handlers.DeleteToner(db, aud, lg))
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	return r
}
