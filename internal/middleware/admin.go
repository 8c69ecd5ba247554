package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"github.com/gofiber/fiber/v2"
	"github.com/sebridge/checkin/internal/config"
)

const AdminCookieName = "admin_auth"

// AdminToken derives the admin cookie value from the session secret, so the
// cookie is not a constant string that survives secret rotation.
func AdminToken(secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte("admin-session"))
	return hex.EncodeToString(mac.Sum(nil))
}

// AdminRequired gates the dashboard behind the shared admin cookie. There
// are no per-admin accounts; failure redirects to the login form rather than
// returning an error status.
func AdminRequired(cfg *config.Config) fiber.Handler {
	expected := AdminToken(cfg.SessionSecret)
	return func(c *fiber.Ctx) error {
		got := c.Cookies(AdminCookieName)
		if got == "" || !hmac.Equal([]byte(got), []byte(expected)) {
			return c.Redirect("/admin/login", fiber.StatusSeeOther)
		}
		return c.Next()
	}
}
