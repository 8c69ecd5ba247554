package handlers

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sebridge/checkin/internal/config"
	"github.com/sebridge/checkin/internal/dto"
	"github.com/sebridge/checkin/internal/models"
	"github.com/sebridge/checkin/internal/services"
	"github.com/sebridge/checkin/internal/session"
	"github.com/sebridge/checkin/internal/sites"
)

var validate = validator.New()

type CheckinHandler struct {
	cfg        *config.Config
	sessions   *session.Manager
	registry   *sites.Registry
	attendance *services.AttendanceService
}

func NewCheckinHandler(cfg *config.Config, sessions *session.Manager, registry *sites.Registry, attendance *services.AttendanceService) *CheckinHandler {
	return &CheckinHandler{cfg: cfg, sessions: sessions, registry: registry, attendance: attendance}
}

// Home lists the configured sites and the signed-in user, if any.
func (h *CheckinHandler) Home(c *fiber.Ctx) error {
	user, signedIn := h.sessions.CurrentUser(c)
	return c.Render("home", fiber.Map{
		"Sites":    h.registry.All(),
		"User":     user,
		"SignedIn": signedIn,
	})
}

// Scan begins a check-in. When SSO is required and nobody is signed in, the
// requested site is parked in the session and the user is sent to login; no
// record is created until they come back authenticated.
func (h *CheckinHandler) Scan(c *fiber.Ctx) error {
	user, signedIn := h.sessions.CurrentUser(c)
	if h.cfg.SSORequired && !signedIn {
		if err := h.sessions.SetIntendedSite(c, h.registry.Resolve(c.Query("site"))); err != nil {
			slog.Error("failed to store intended site", "error", err)
		}
		return c.Redirect("/login", fiber.StatusFound)
	}

	siteCode := h.registry.Resolve(c.Query("site"))
	rec, err := h.attendance.BeginCheckIn(siteCode, user.Email, user.Name, models.SourceQR)
	if err != nil {
		slog.Error("scan failed", "site", siteCode, "user_email", user.Email, "error", err)
		return fiber.ErrInternalServerError
	}

	return c.Render("scan", fiber.Map{
		"Token":     strconv.FormatUint(uint64(rec.ID), 10),
		"Site":      siteCode,
		"SiteLabel": h.registry.Label(siteCode),
		"User":      user,
	})
}

// Finalize attaches device metadata to a provisional record and promotes it,
// or rejects it as a same-day duplicate.
func (h *CheckinHandler) Finalize(c *fiber.Ctx) error {
	var req dto.FinalizeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.FinalizeResponse{OK: false, Message: "Invalid request body"})
	}
	if err := validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.FinalizeResponse{OK: false, Message: "Invalid payload"})
	}

	id, err := strconv.ParseUint(req.Token, 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.FinalizeResponse{OK: false, Message: "Invalid token"})
	}

	upd := services.FinalizeUpdate{
		DeviceID:     req.DeviceID,
		UserAgent:    req.UserAgent,
		NameText:     req.NameText,
		VisitReason:  req.VisitReason,
		BusinessLine: req.BusinessLine,
	}
	if upd.UserAgent == "" {
		upd.UserAgent = c.Get("User-Agent")
	}
	if req.Geo != nil {
		upd.GeoLat = req.Geo.Lat
		upd.GeoLon = req.Geo.Lon
	}
	if req.SignatureDataURL != "" {
		if path, err := saveSignature(req.Token, req.SignatureDataURL); err != nil {
			slog.Error("failed to save signature", "token", req.Token, "error", err)
		} else {
			upd.SignaturePath = path
		}
	}

	rec, duplicate, err := h.attendance.Finalize(uint(id), upd)
	if err != nil {
		if errors.Is(err, services.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.FinalizeResponse{OK: false, Message: "Token not found"})
		}
		slog.Error("finalize failed", "token", req.Token, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.FinalizeResponse{OK: false, Message: "Internal server error"})
	}
	if duplicate {
		return c.JSON(dto.FinalizeResponse{OK: false, Message: "Already checked in today."})
	}

	return c.JSON(dto.FinalizeResponse{OK: true, Token: strconv.FormatUint(uint64(rec.ID), 10)})
}

// Success confirms a completed check-in.
func (h *CheckinHandler) Success(c *fiber.Ctx) error {
	site := h.registry.Resolve(c.Query("site"))
	user, _ := h.sessions.CurrentUser(c)
	return c.Render("success", fiber.Map{
		"SiteLabel": h.registry.Label(site),
		"User":      user,
	})
}

// AlreadyCheckedIn is shown when the duplicate policy rejected the attempt.
func (h *CheckinHandler) AlreadyCheckedIn(c *fiber.Ctx) error {
	user, _ := h.sessions.CurrentUser(c)
	return c.Render("already", fiber.Map{"User": user})
}

// saveSignature decodes a canvas data URL and writes it under uploads/.
func saveSignature(token, dataURL string) (string, error) {
	comma := strings.Index(dataURL, ",")
	if comma < 0 || !strings.HasPrefix(dataURL, "data:image/") {
		return "", fmt.Errorf("malformed signature data URL")
	}
	raw, err := base64.StdEncoding.DecodeString(dataURL[comma+1:])
	if err != nil {
		return "", fmt.Errorf("failed to decode signature: %w", err)
	}

	dir := filepath.Join("uploads", "signatures")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create signature dir: %w", err)
	}
	path := filepath.Join(dir, token+".png")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", fmt.Errorf("failed to write signature: %w", err)
	}
	return path, nil
}
