// Файл: internal/api/router.go
package api

import (
	"github.com/go-chi/chi/v5"

	"mastercrm/internal/constants"
)

// SetupRoutes регистрирует все маршруты дашборда.
func SetupRoutes(r *chi.Mux, h *Handler) {
	// Публичные маршруты — без сессии.
	r.Post("/login", h.Login)
	r.Get("/session/check", h.SessionCheck)
	r.Get("/media/{filename}", h.ServeMedia)

	// Все остальное — только с действующей сессией.
	r.Group(func(r chi.Router) {
		r.Use(h.AuthMiddleware)

		r.Post("/logout", h.Logout)

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", h.CreateOrder)
			r.Get("/", h.ListOrders)
			r.Get("/{id}", h.GetOrder)
			r.Patch("/{id}/status", h.UpdateOrderStatus)
			r.Patch("/{id}/update", h.UpdateOrderFields)
			r.Post("/{id}/documents", h.AttachOrderDocument)
			r.Get("/{id}/qr", h.OrderQR)
		})

		r.Route("/distribution", func(r chi.Router) {
			r.Post("/", h.CreateLeafletOrder)
			r.Get("/", h.ListLeafletOrders)
			r.Get("/{id}", h.GetLeafletOrder)
			r.Patch("/{id}/edit", h.EditLeafletOrder)
			r.Post("/complete/{id}", h.CompleteLeafletOrder)
			r.Post("/pay/{id}", h.UploadPaymentProof)
			r.Patch("/pay/{id}", h.MarkLeafletOrderPaid)
		})

		r.Route("/distributors", func(r chi.Router) {
			r.Post("/", h.CreateDistributor)
			r.Get("/", h.ListDistributors)
			r.Get("/{id}", h.GetDistributor)
			r.Post("/{id}/documents", h.AttachDistributorDocument)
		})

		r.Get("/telegram", h.ListDueNotifications)
		r.Patch("/telegram", h.MarkNotified)

		r.Route("/statistics", func(r chi.Router) {
			r.Get("/monthly", h.MonthlyStats)
			r.Get("/periods", h.AvailablePeriods)
			r.Get("/status", h.CountByStatus)
			r.Get("/profit", h.ProfitStats)
			r.Get("/export", h.ExportExcel)
		})
		r.Get("/leaflet/statistics", h.LeafletStatistics)

		r.Route("/workers", func(r chi.Router) {
			r.Post("/", h.CreateWorker)
			r.Get("/", h.ListWorkers)
			r.Get("/{id}", h.GetWorker)
			r.Delete("/{id}", h.DeleteWorker)
		})

		r.Post("/cities", h.CreateCity)
		r.Get("/cities", h.ListCities)
		r.Post("/leaflets", h.CreateLeaflet)
		r.Get("/leaflets", h.ListLeaflets)
		r.Get("/leaflets/{id}", h.GetLeaflet)

		r.Get("/goal", h.GetGoal)
		r.Put("/goal", h.UpsertGoal)

		// Управление пользователями и журнал — только админ.
		r.Route("/users", func(r chi.Router) {
			r.Use(RequireRole(constants.ROLE_ADMIN))
			r.Post("/", h.CreateUser)
			r.Get("/", h.ListUsers)
			r.Delete("/{id}", h.DeleteUser)
			r.Get("/{id}/sessions", h.ListUserSessions)
		})
		r.With(RequireRole(constants.ROLE_ADMIN)).Get("/logs", h.ListLogs)
	})
}
