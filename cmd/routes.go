package main

import (
	"net/http"

	"github.com/bmizerany/pat"
	"github.com/justinas/alice"

	"billingBack/internal/models"
)

func (app *application) routes() http.Handler {
	standardMiddleware := alice.New(app.recoverPanic, app.logRequest, secureHeaders, makeResponseJSON)
	authMiddleware := standardMiddleware.Append(app.requireRole())
	adminMiddleware := standardMiddleware.Append(app.requireRole(models.RoleAdmin))
	customerMiddleware := standardMiddleware.Append(app.requireRole(models.RoleCustomer))

	mux := pat.New()

	mux.Get("/health", standardMiddleware.ThenFunc(app.healthHandler.Check))

	// Auth
	mux.Post("/api/auth/admin/login", standardMiddleware.ThenFunc(app.authHandler.AdminLogin))
	mux.Post("/api/auth/customer/login", standardMiddleware.ThenFunc(app.authHandler.CustomerLogin))

	// Admin: customers and meters
	mux.Get("/api/admin/customers", adminMiddleware.ThenFunc(app.customerHandler.List))
	mux.Post("/api/admin/customer", adminMiddleware.ThenFunc(app.customerHandler.Create))
	mux.Get("/api/admin/customer/:custId/meters", adminMiddleware.ThenFunc(app.customerHandler.Meters))
	mux.Get("/api/admin/customer/:custId/invoices", adminMiddleware.ThenFunc(app.customerHandler.Invoices))
	mux.Post("/api/admin/customer/:custId/meter", adminMiddleware.ThenFunc(app.customerHandler.AddMeter))
	mux.Get("/api/admin/customer/:custId", adminMiddleware.ThenFunc(app.customerHandler.Get))
	mux.Put("/api/admin/customer/:custId", adminMiddleware.ThenFunc(app.customerHandler.Update))
	mux.Del("/api/admin/customer/:custId", adminMiddleware.ThenFunc(app.customerHandler.Delete))

	// Admin: invoices and payments
	mux.Post("/api/admin/payment", adminMiddleware.ThenFunc(app.paymentHandler.IssueInvoice))
	mux.Get("/api/admin/payments/stats", adminMiddleware.ThenFunc(app.paymentHandler.Stats))
	mux.Get("/api/admin/payments", adminMiddleware.ThenFunc(app.paymentHandler.List))
	mux.Get("/api/admin/payment/:paymentId", adminMiddleware.ThenFunc(app.paymentHandler.Detail))
	mux.Get("/api/admin/dashboard/stats", adminMiddleware.ThenFunc(app.dashboardHandler.Admin))
	mux.Get("/api/admin/feedback", adminMiddleware.ThenFunc(app.feedbackHandler.All))

	// Shared
	mux.Get("/api/tariffs", authMiddleware.ThenFunc(app.tariffHandler.List))
	mux.Get("/api/meters/:meterId", authMiddleware.ThenFunc(app.customerHandler.Meter))

	// Customer
	mux.Get("/api/customer/dashboard", customerMiddleware.ThenFunc(app.dashboardHandler.Customer))
	mux.Get("/api/customer/invoices", customerMiddleware.ThenFunc(app.invoiceHandler.List))
	mux.Get("/api/customer/invoice/:invoiceId", customerMiddleware.ThenFunc(app.invoiceHandler.Detail))
	mux.Get("/api/customer/bills", customerMiddleware.ThenFunc(app.invoiceHandler.Bills))
	mux.Post("/api/customer/pay", customerMiddleware.ThenFunc(app.paymentHandler.Pay))
	mux.Post("/api/customer/feedback", customerMiddleware.ThenFunc(app.feedbackHandler.Submit))
	mux.Get("/api/customer/feedback", customerMiddleware.ThenFunc(app.feedbackHandler.Mine))

	// Live payment feed; the upgrade must not get the JSON content type.
	wsMiddleware := alice.New(app.recoverPanic, app.logRequest, app.requireRole(models.RoleAdmin))
	mux.Get("/ws/payments", wsMiddleware.ThenFunc(app.paymentHub.ServeWS))

	return mux
}
