package admin

import (
	"fret-backend/internal/auth"
	"fret-backend/internal/identity"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Routes mounts provisioning endpoints. The router must already carry the
// JWT middleware.
func Routes(r fiber.Router, db *gorm.DB) {
	r.Use(auth.RequireRole(identity.RoleAdmin))

	r.Post("/groups", CreateGroupHandler(db))
	r.Get("/groups", ListGroupsHandler(db))
	r.Post("/sites", CreateSiteHandler(db))
	r.Get("/sites", ListSitesHandler(db))
	r.Get("/sites/:id", GetSiteHandler(db))
	r.Post("/users", CreateUserHandler(db))
	r.Get("/users", ListUsersHandler(db))
}
