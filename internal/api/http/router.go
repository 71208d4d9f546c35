package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lexkit/practice-service/internal/api/http/handlers"
	"github.com/lexkit/practice-service/internal/auth"
	"github.com/lexkit/practice-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Customers      *handlers.CustomersHandler
	Cases          *handlers.CasesHandler
	Meetings       *handlers.MeetingsHandler
	Alerts         *handlers.AlertsHandler
	Notifications  *handlers.NotificationsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/login", cfg.Auth.Login)

	api := app.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())

	api.Post("/auth/consultants", auth.RequireRole(domain.ConsultantRoleAdmin), cfg.Auth.CreateConsultant)

	customers := api.Group("/customers")
	customers.Post("", cfg.Customers.CreateCustomer)
	customers.Get("", cfg.Customers.ListCustomers)
	customers.Get("/confirmed", cfg.Customers.ListConfirmedClients)
	customers.Get("/:id", cfg.Customers.GetCustomer)
	customers.Patch("/:id", cfg.Customers.UpdateCustomer)
	customers.Post("/:id/advance", cfg.Customers.AdvanceCustomer)
	customers.Get("/:id/history", cfg.Customers.GetHistory)

	cases := api.Group("/cases")
	cases.Post("", cfg.Cases.CreateCase)
	cases.Get("", cfg.Cases.ListCases)
	cases.Get("/:id", cfg.Cases.GetCase)
	cases.Post("/:id/state", cfg.Cases.ChangeState)
	cases.Patch("/:id/ready", cfg.Cases.SetReady)
	cases.Get("/:id/history", cfg.Cases.GetHistory)

	meetings := api.Group("/meetings")
	meetings.Post("", cfg.Meetings.CreateMeeting)
	meetings.Get("", cfg.Meetings.ListMeetings)
	meetings.Patch("/:id/status", cfg.Meetings.SetStatus)

	alerts := api.Group("/alerts")
	alerts.Get("", cfg.Alerts.ListAlerts)
	alerts.Post("/:id/dismiss", cfg.Alerts.DismissAlert)

	notifications := api.Group("/notifications")
	notifications.Get("", cfg.Notifications.ListNotifications)
	notifications.Delete("/:id", cfg.Notifications.DeleteNotification)
}
