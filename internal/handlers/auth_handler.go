package handlers

import (
	"errors"
	"log/slog"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sebridge/checkin/internal/config"
	"github.com/sebridge/checkin/internal/dto"
	"github.com/sebridge/checkin/internal/services"
	"github.com/sebridge/checkin/internal/session"
	"github.com/sebridge/checkin/internal/sites"
)

type AuthHandler struct {
	cfg        *config.Config
	sessions   *session.Manager
	registry   *sites.Registry
	oidc       *services.OIDCClient
	employees  *services.EmployeeService
	attendance *services.AttendanceService
}

func NewAuthHandler(
	cfg *config.Config,
	sessions *session.Manager,
	registry *sites.Registry,
	oidc *services.OIDCClient,
	employees *services.EmployeeService,
	attendance *services.AttendanceService,
) *AuthHandler {
	return &AuthHandler{
		cfg:        cfg,
		sessions:   sessions,
		registry:   registry,
		oidc:       oidc,
		employees:  employees,
		attendance: attendance,
	}
}

// Login captures the intended site and redirects to the Azure AD authorize
// endpoint. The site comes from an explicit query param, else from the
// Referer's site param.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	if !h.oidc.Enabled() {
		return c.Status(fiber.StatusBadRequest).SendString("SSO not configured (missing client_id)")
	}

	if site := h.intendedSiteFromRequest(c); site != "" {
		if err := h.sessions.SetIntendedSite(c, h.registry.Resolve(site)); err != nil {
			slog.Error("failed to store intended site", "error", err)
		}
	}

	state := uuid.NewString()
	if err := h.sessions.SetOAuthState(c, state); err != nil {
		slog.Error("failed to store oauth state", "error", err)
		return fiber.ErrInternalServerError
	}
	return c.Redirect(h.oidc.AuthCodeURL(state), fiber.StatusFound)
}

func (h *AuthHandler) intendedSiteFromRequest(c *fiber.Ctx) string {
	if site := c.Query("site"); site != "" {
		return site
	}
	ref, err := url.Parse(c.Get("Referer"))
	if err != nil {
		return ""
	}
	return ref.Query().Get("site")
}

// Callback handles the response back from Azure AD. Provider errors are
// logged in full but surfaced to the user as a generic message.
func (h *AuthHandler) Callback(c *fiber.Ctx) error {
	if provErr := c.Query("error"); provErr != "" {
		slog.Error("identity provider returned error",
			"action", "sso_callback",
			"provider_error", provErr,
			"description", c.Query("error_description"))
		return c.Status(fiber.StatusBadRequest).SendString("Sign-in failed")
	}

	state := c.Query("state")
	if state == "" || state != h.sessions.OAuthState(c) {
		return c.Status(fiber.StatusBadRequest).SendString("Invalid login state")
	}

	code := c.Query("code")
	if code == "" {
		return c.Status(fiber.StatusBadRequest).SendString("Missing authorization code")
	}

	ident, err := h.oidc.Exchange(c.Context(), code)
	if err != nil {
		if errors.Is(err, services.ErrNoEmailClaim) {
			return c.Status(fiber.StatusBadRequest).SendString("No email found in token claims")
		}
		slog.Error("sso exchange failed", "action", "sso_callback", "error", err)
		return c.Status(fiber.StatusBadRequest).SendString("Sign-in failed")
	}

	if !h.cfg.DomainAllowed(ident.Email) {
		return c.Status(fiber.StatusForbidden).SendString("Unauthorized email domain")
	}

	if _, err := h.employees.Upsert(ident.Email, ident.Name); err != nil {
		slog.Error("employee upsert failed", "user_email", ident.Email, "error", err)
		return fiber.ErrInternalServerError
	}
	if err := h.sessions.SetUser(c, session.User{Email: ident.Email, Name: ident.Name}); err != nil {
		slog.Error("failed to store session user", "user_email", ident.Email, "error", err)
		return fiber.ErrInternalServerError
	}

	// A pending scan completes here: check in directly instead of bouncing
	// the user back through the scan page.
	if intended := h.sessions.IntendedSite(c); intended != "" {
		_, duplicate, err := h.attendance.CheckInAndFinalize(intended, ident.Email, ident.Name, c.Get("User-Agent"))
		if err != nil {
			slog.Error("check-in from callback failed", "site", intended, "user_email", ident.Email, "error", err)
			return c.Redirect("/", fiber.StatusSeeOther)
		}
		if duplicate {
			return c.Redirect("/already-checked-in", fiber.StatusSeeOther)
		}
		return c.Redirect("/success?site="+url.QueryEscape(intended), fiber.StatusSeeOther)
	}

	return c.Redirect("/", fiber.StatusSeeOther)
}

// Logout clears the whole session.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.sessions.Destroy(c); err != nil {
		slog.Error("session destroy failed", "error", err)
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

// RegisterPage renders the password-auth registration form.
func (h *AuthHandler) RegisterPage(c *fiber.Ctx) error {
	return c.Render("register", fiber.Map{})
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var form dto.RegisterForm
	if err := c.BodyParser(&form); err != nil {
		return c.Status(fiber.StatusBadRequest).Render("register", fiber.Map{"Error": "Invalid form submission"})
	}
	if err := validate.Struct(&form); err != nil {
		return c.Status(fiber.StatusBadRequest).Render("register", fiber.Map{"Error": "Check the email and password (8 characters minimum)"})
	}
	if !h.cfg.DomainAllowed(form.Email) {
		return c.Status(fiber.StatusForbidden).Render("register", fiber.Map{"Error": "Unauthorized email domain"})
	}

	emp, err := h.employees.Register(&form)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			return c.Status(fiber.StatusConflict).Render("register", fiber.Map{"Error": "Email already registered"})
		}
		slog.Error("registration failed", "user_email", form.Email, "error", err)
		return fiber.ErrInternalServerError
	}

	if err := h.sessions.SetUser(c, session.User{Email: emp.Email, Name: emp.DisplayName}); err != nil {
		slog.Error("failed to store session user", "user_email", emp.Email, "error", err)
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

// PasswordLoginPage renders the password login form.
func (h *AuthHandler) PasswordLoginPage(c *fiber.Ctx) error {
	return c.Render("login", fiber.Map{})
}

func (h *AuthHandler) PasswordLogin(c *fiber.Ctx) error {
	var form dto.PasswordLoginForm
	if err := c.BodyParser(&form); err != nil {
		return c.Status(fiber.StatusBadRequest).Render("login", fiber.Map{"Error": "Invalid form submission"})
	}
	if err := validate.Struct(&form); err != nil {
		return c.Status(fiber.StatusBadRequest).Render("login", fiber.Map{"Error": "Email and password are required"})
	}

	emp, err := h.employees.Authenticate(form.Email, form.Password)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).Render("login", fiber.Map{"Error": "Invalid email or password"})
	}

	if err := h.sessions.SetUser(c, session.User{Email: emp.Email, Name: emp.DisplayName}); err != nil {
		slog.Error("failed to store session user", "user_email", emp.Email, "error", err)
		return fiber.ErrInternalServerError
	}

	if intended := h.sessions.IntendedSite(c); intended != "" {
		return c.Redirect("/scan?site="+url.QueryEscape(intended), fiber.StatusSeeOther)
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}
