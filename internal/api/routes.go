package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/ulule/limiter/v3"
)

func RegisterRoutes(app *fiber.App, handler *Handler, authLimiter *limiter.Limiter) {
	registerPageRoutes(app, handler, authLimiter)
	registerAPIRoutes(app, handler, authLimiter)
}

func registerPageRoutes(app *fiber.App, handler *Handler, authLimiter *limiter.Limiter) {
	app.Get("/healthz", handler.Health)
	app.Get("/metrics", handler.metrics.Handler())
	app.Get("/favicon.ico", sendNoContent)
	app.Get("/lang/:lang", handler.SetLanguage)
	app.Post("/preferences/theme", handler.ToggleTheme)
	app.Post("/cookie-consent", handler.SaveCookieConsent)

	app.Get("/", handler.ShowHome)
	app.Get("/calendar", handler.ShowCalendar)
	app.Get("/calendar.ics", handler.CalendarICS)

	app.Get("/gallery", handler.ShowGallery)
	app.Get("/gallery/toggle", handler.ToggleGalleryFilter)
	app.Get("/gallery/sort", handler.SortGallery)
	app.Get("/gallery/clear", handler.ClearGalleryFilters)

	app.Get("/blog", handler.ShowBlog)
	app.Get("/blog/:slug", handler.ShowBlogPost)
	app.Get("/courses", handler.ShowCourses)
	app.Get("/courses/:slug", handler.ShowCourse)

	app.Get("/signup", handler.ShowSignupPage)
	app.Get("/signup/instructions-email", handler.ShowSignupInstructions)
	app.Post("/signup/resend", handler.RateLimit(authLimiter), handler.ResendConfirmation)
	app.Get("/signup/confirm-account", handler.ConfirmAccount)
	app.Get("/login", handler.ShowLoginPage)
	app.Get("/forgot-password", handler.ShowForgotPasswordPage)
	app.Get("/forgot-password/check-email", handler.ShowForgotPasswordCheckEmail)
	app.Get("/reset-password", handler.ShowResetPasswordPage)

	app.Get("/contact", handler.ShowContactPage)
	app.Post("/contact", handler.RateLimit(authLimiter), handler.SubmitContact)
}

func registerAPIRoutes(app *fiber.App, handler *Handler, authLimiter *limiter.Limiter) {
	api := app.Group("/api")
	api.Get("/events", handler.EventsJSON)
	api.Get("/gallery", handler.GalleryJSON)
	api.Get("/courses", handler.CoursesJSON)

	auth := api.Group("/auth", handler.RateLimit(authLimiter))
	auth.Post("/register", handler.Register)
	auth.Post("/login", handler.Login)
	auth.Post("/logout", handler.Logout)
	auth.Post("/forgot-password", handler.ForgotPassword)
	auth.Post("/reset-password", handler.ResetPassword)
}

func sendNoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}
