package ui

import (
	"github.com/go-chi/chi/v5"

	"github.com/me/loginhub/internal/guard"
)

// RegisterRoutes registers all UI routes on the given router.
func (ui *UI) RegisterRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(ui.ClientMiddleware)

		// Public routes.
		r.Get("/", ui.HandleRoot)
		r.Get("/login", ui.HandleLogin)
		r.Post("/login", ui.HandleLoginPost)
		r.Post("/logout", ui.HandleLogout)

		// Master console.
		r.Route("/admin", func(r chi.Router) {
			r.Use(ui.guard.Require(guard.Master))
			r.Get("/", ui.HandleCompanyList)
			r.Get("/users", ui.HandleUserList)
			r.Route("/companies", func(r chi.Router) {
				r.Get("/", ui.HandleCompanyList)
				r.Post("/", ui.HandleCompanyCreate)
				r.Get("/new", ui.HandleCompanyNew)
				r.Route("/{id}", func(r chi.Router) {
					r.Post("/", ui.HandleCompanyUpdate)
					r.Get("/edit", ui.HandleCompanyEdit)
					r.Post("/status", ui.HandleCompanyStatus)
					r.Post("/delete", ui.HandleCompanyDelete)
					r.Route("/users", func(r chi.Router) {
						r.Get("/", ui.HandleCompanyUsers)
						r.Post("/", ui.HandleCompanyUserCreate)
						r.Get("/new", ui.HandleCompanyUserNew)
						r.Post("/{uid}", ui.HandleCompanyUserUpdate)
						r.Get("/{uid}/edit", ui.HandleCompanyUserEdit)
						r.Post("/{uid}/delete", ui.HandleCompanyUserDelete)
					})
				})
			})
		})

		// Tenant dashboard.
		r.Route("/home", func(r chi.Router) {
			r.Use(ui.guard.Require(guard.Tenant))
			r.Get("/", ui.HandleHome)
			r.Group(func(r chi.Router) {
				r.Use(ui.requireUserManager)
				r.Get("/users/new", ui.HandleTenantUserNew)
				r.Post("/users", ui.HandleTenantUserCreate)
			})
		})
	})
}
