package handlers

import (
	"crypto/subtle"
	"errors"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sebridge/checkin/internal/config"
	"github.com/sebridge/checkin/internal/dto"
	"github.com/sebridge/checkin/internal/localdate"
	"github.com/sebridge/checkin/internal/middleware"
	"github.com/sebridge/checkin/internal/models"
	"github.com/sebridge/checkin/internal/services"
	"github.com/sebridge/checkin/internal/sites"
)

type AdminHandler struct {
	cfg        *config.Config
	registry   *sites.Registry
	attendance *services.AttendanceService
}

func NewAdminHandler(cfg *config.Config, registry *sites.Registry, attendance *services.AttendanceService) *AdminHandler {
	return &AdminHandler{cfg: cfg, registry: registry, attendance: attendance}
}

func (h *AdminHandler) LoginPage(c *fiber.Ctx) error {
	return c.Render("admin_login", fiber.Map{})
}

func (h *AdminHandler) Login(c *fiber.Ctx) error {
	var form dto.AdminLoginForm
	if err := c.BodyParser(&form); err != nil {
		return c.Redirect("/admin/login", fiber.StatusSeeOther)
	}
	if subtle.ConstantTimeCompare([]byte(form.Password), []byte(h.cfg.AdminPassword)) != 1 {
		return c.Redirect("/admin/login", fiber.StatusSeeOther)
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.AdminCookieName,
		Value:    middleware.AdminToken(h.cfg.SessionSecret),
		HTTPOnly: true,
		SameSite: "Lax",
	})
	return c.Redirect("/admin", fiber.StatusSeeOther)
}

func (h *AdminHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.AdminCookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
	})
	return c.Redirect("/", fiber.StatusSeeOther)
}

// DateGroup is one dashboard accordion section.
type DateGroup struct {
	Date    string
	Records []models.Attendance
}

// MonthGroup is one row of the monthly rollup view.
type MonthGroup struct {
	Month   string
	Total   int
	Reasons map[string]int
	Lines   map[string]int
}

// Dashboard lists all valid check-ins grouped by local date, or by month
// with reason/business-line rollups when ?view=monthly.
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	recs, err := h.attendance.ListValidCheckIns()
	if err != nil {
		slog.Error("dashboard query failed", "error", err)
		return fiber.ErrInternalServerError
	}

	if c.Query("view") == "monthly" {
		return c.Render("admin", fiber.Map{
			"Monthly": groupByMonth(recs),
			"View":    "monthly",
			"Sites":   h.registry.All(),
		})
	}

	return c.Render("admin", fiber.Map{
		"Groups": groupByDate(recs),
		"View":   "daily",
		"Sites":  h.registry.All(),
	})
}

func groupByDate(recs []models.Attendance) []DateGroup {
	byDate := make(map[string][]models.Attendance)
	for _, rec := range recs {
		date := rec.LocalDate
		if date == "" {
			date = localdate.FromUTC(rec.TimestampUTC)
		}
		byDate[date] = append(byDate[date], rec)
	}

	groups := make([]DateGroup, 0, len(byDate))
	for date, rows := range byDate {
		groups = append(groups, DateGroup{Date: date, Records: rows})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Date > groups[j].Date })
	return groups
}

func groupByMonth(recs []models.Attendance) []MonthGroup {
	byMonth := make(map[string]*MonthGroup)
	for _, rec := range recs {
		date := rec.LocalDate
		if date == "" {
			date = localdate.FromUTC(rec.TimestampUTC)
		}
		if len(date) < 7 {
			continue
		}
		month := date[:7]
		group, ok := byMonth[month]
		if !ok {
			group = &MonthGroup{Month: month, Reasons: make(map[string]int), Lines: make(map[string]int)}
			byMonth[month] = group
		}
		group.Total++
		if rec.VisitReason != "" {
			group.Reasons[rec.VisitReason]++
		}
		if rec.BusinessLine != "" {
			group.Lines[rec.BusinessLine]++
		}
	}

	groups := make([]MonthGroup, 0, len(byMonth))
	for _, group := range byMonth {
		groups = append(groups, *group)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Month > groups[j].Month })
	return groups
}

func (h *AdminHandler) Add(c *fiber.Ctx) error {
	var form dto.AdminRecordForm
	if err := c.BodyParser(&form); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Invalid form submission")
	}
	if err := validate.Struct(&form); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Missing or invalid fields")
	}

	if _, err := h.attendance.AdminCreate(&form); err != nil {
		slog.Error("admin add failed", "action", "admin_add", "error", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to save record")
	}
	return c.Redirect("/admin", fiber.StatusSeeOther)
}

func (h *AdminHandler) Edit(c *fiber.Ctx) error {
	var form dto.AdminRecordForm
	if err := c.BodyParser(&form); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Invalid form submission")
	}
	if form.ID == 0 {
		return c.Status(fiber.StatusBadRequest).SendString("Missing record id")
	}
	if err := validate.Struct(&form); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Missing or invalid fields")
	}

	if _, err := h.attendance.AdminUpdate(&form); err != nil {
		if errors.Is(err, services.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).SendString("Record not found")
		}
		slog.Error("admin edit failed", "action", "admin_edit", "record_id", form.ID, "error", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to save record")
	}
	return c.Redirect("/admin", fiber.StatusSeeOther)
}

func (h *AdminHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.FormValue("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Invalid record id")
	}

	if err := h.attendance.AdminDelete(uint(id)); err != nil {
		if errors.Is(err, services.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).SendString("Record not found")
		}
		slog.Error("admin delete failed", "action", "admin_delete", "record_id", id, "error", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to delete record")
	}
	return c.Redirect("/admin", fiber.StatusSeeOther)
}
