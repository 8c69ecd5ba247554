package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/sebridge/checkin/internal/config"
	"github.com/sebridge/checkin/internal/handlers"
	"github.com/sebridge/checkin/internal/middleware"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	checkinHandler *handlers.CheckinHandler,
	authHandler *handlers.AuthHandler,
	adminHandler *handlers.AdminHandler,
	metricsHandler *handlers.MetricsHandler,
	healthHandler *handlers.HealthHandler,
) {
	// Public check-in flow
	app.Get("/", checkinHandler.Home)
	app.Get("/scan", checkinHandler.Scan)
	app.Post("/finalize", checkinHandler.Finalize)
	app.Get("/success", checkinHandler.Success)
	app.Get("/already-checked-in", checkinHandler.AlreadyCheckedIn)

	// SSO dance
	app.Get("/login", authHandler.Login)
	app.Get("/auth/callback", authHandler.Callback)
	app.Get("/logout", authHandler.Logout)

	// Password-auth fallback
	app.Get("/register", authHandler.RegisterPage)
	app.Post("/register", authHandler.Register)
	app.Get("/login/password", authHandler.PasswordLoginPage)
	app.Post("/login/password", authHandler.PasswordLogin)

	// Admin login form: 10 attempts/min per IP
	adminLoginLimiter := limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})
	app.Get("/admin/login", adminHandler.LoginPage)
	app.Post("/admin/login", adminLoginLimiter, adminHandler.Login)
	app.Get("/admin/logout", adminHandler.Logout)

	// Cookie-gated admin CRUD
	admin := app.Group("/admin", middleware.AdminRequired(cfg))
	admin.Get("/", adminHandler.Dashboard)
	admin.Post("/add", adminHandler.Add)
	admin.Post("/edit", adminHandler.Edit)
	admin.Post("/delete", adminHandler.Delete)

	// Metrics API: 60 req/min per IP
	api := app.Group("/api", limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	api.Get("/health", healthHandler.Check)
	api.Get("/metrics/daily_checkins_last_week", metricsHandler.DailyCheckinsLastWeek)
	api.Get("/metrics/attendance/:date", metricsHandler.AttendanceByDate)
	api.Get("/metrics/monthly_summary/:month", metricsHandler.MonthlySummary)
}
