package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/sebridge/checkin/internal/dto"
	"github.com/sebridge/checkin/internal/localdate"
	"github.com/sebridge/checkin/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrRecordNotFound   = errors.New("record not found")
	ErrDuplicateCheckIn = errors.New("already checked in today")
)

const duplicateNote = "duplicate"

type AttendanceService struct {
	db *gorm.DB
}

func NewAttendanceService(db *gorm.DB) *AttendanceService {
	return &AttendanceService{db: db}
}

// BeginCheckIn creates the provisional row for a scan. No duplicate check
// happens here; duplicates are resolved at finalize time so that repeated
// scan attempts stay visible in the table.
func (s *AttendanceService) BeginCheckIn(site, email, name, source string) (*models.Attendance, error) {
	now := time.Now().UTC()
	rec := models.Attendance{
		EventType:    models.EventCheckIn,
		TimestampUTC: now,
		LocalDate:    localdate.FromUTC(now),
		Site:         site,
		UserName:     name,
		UserEmail:    email,
		Source:       source,
		IsValid:      true,
	}
	if err := s.db.Create(&rec).Error; err != nil {
		return nil, fmt.Errorf("failed to create provisional record: %w", err)
	}
	return &rec, nil
}

// FinalizeUpdate carries the device metadata attached at finalize time.
type FinalizeUpdate struct {
	DeviceID      string
	UserAgent     string
	GeoLat        *float64
	GeoLon        *float64
	NameText      string
	SignaturePath string
	VisitReason   string
	BusinessLine  string
}

// Finalize promotes a provisional row to the authoritative record for its
// (email, local date) pair, or invalidates it when another finalized record
// already holds that slot. The duplicate check runs inside a transaction
// with a row lock; the partial unique index catches whatever slips past two
// concurrent transactions, and the loser is then invalidated the same way.
func (s *AttendanceService) Finalize(id uint, upd FinalizeUpdate) (*models.Attendance, bool, error) {
	rec, duplicate, err := s.finalizeOnce(id, upd)
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		rec, err = s.invalidateDuplicate(id)
		if err != nil {
			return nil, false, err
		}
		return rec, true, nil
	}
	return rec, duplicate, err
}

func (s *AttendanceService) finalizeOnce(id uint, upd FinalizeUpdate) (*models.Attendance, bool, error) {
	var rec models.Attendance
	duplicate := false

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&rec, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRecordNotFound
			}
			return err
		}

		if rec.UserEmail != "" {
			q := tx.Where(
				"user_email = ? AND local_date = ? AND event_type = ? AND is_valid = ? AND source = ? AND id <> ?",
				rec.UserEmail, rec.LocalDate, models.EventCheckIn, true, models.SourceFinalized, rec.ID,
			)
			if tx.Dialector.Name() == "postgres" {
				q = q.Clauses(clause.Locking{Strength: "UPDATE"})
			}
			var conflicts []models.Attendance
			if err := q.Find(&conflicts).Error; err != nil {
				return fmt.Errorf("duplicate lookup failed: %w", err)
			}
			if len(conflicts) > 0 {
				rec.IsValid = false
				rec.Notes = duplicateNote
				duplicate = true
				return tx.Save(&rec).Error
			}
		}

		if upd.DeviceID != "" {
			rec.DeviceLocalID = upd.DeviceID
		}
		if upd.UserAgent != "" {
			rec.UserAgent = upd.UserAgent
		}
		if upd.GeoLat != nil {
			rec.GeoLat = upd.GeoLat
		}
		if upd.GeoLon != nil {
			rec.GeoLon = upd.GeoLon
		}
		if upd.NameText != "" && rec.UserName == "" {
			rec.UserName = upd.NameText
		}
		if upd.SignaturePath != "" {
			rec.SignaturePath = upd.SignaturePath
		}
		rec.VisitReason = upd.VisitReason
		rec.BusinessLine = upd.BusinessLine
		rec.Source = models.SourceFinalized
		return tx.Save(&rec).Error
	})
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) || errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, false, err
		}
		return nil, false, fmt.Errorf("finalize failed: %w", err)
	}
	return &rec, duplicate, nil
}

func (s *AttendanceService) invalidateDuplicate(id uint) (*models.Attendance, error) {
	var rec models.Attendance
	if err := s.db.First(&rec, id).Error; err != nil {
		return nil, fmt.Errorf("failed to reload record %d: %w", id, err)
	}
	rec.IsValid = false
	rec.Notes = duplicateNote
	if err := s.db.Save(&rec).Error; err != nil {
		return nil, fmt.Errorf("failed to invalidate duplicate: %w", err)
	}
	return &rec, nil
}

// CheckInAndFinalize performs the whole flow in one step. Used by the SSO
// callback when the login was triggered from a scan.
func (s *AttendanceService) CheckInAndFinalize(site, email, name, userAgent string) (*models.Attendance, bool, error) {
	rec, err := s.BeginCheckIn(site, email, name, models.SourceSSOCallback)
	if err != nil {
		return nil, false, err
	}
	return s.Finalize(rec.ID, FinalizeUpdate{UserAgent: userAgent})
}

// ListValidCheckIns returns all valid check-in rows, most recent first.
func (s *AttendanceService) ListValidCheckIns() ([]models.Attendance, error) {
	var recs []models.Attendance
	err := s.db.
		Where("event_type = ? AND is_valid = ?", models.EventCheckIn, true).
		Order("timestamp_utc DESC").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list check-ins: %w", err)
	}
	return recs, nil
}

func (s *AttendanceService) Get(id uint) (*models.Attendance, error) {
	var rec models.Attendance
	if err := s.db.First(&rec, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// AdminCreate inserts a fully-formed record from the dashboard. The supplied
// timestamp is local wall time; storage is UTC with local_date derived from
// the local calendar.
func (s *AttendanceService) AdminCreate(form *dto.AdminRecordForm) (*models.Attendance, error) {
	ts, err := localdate.ParseInput(form.CustomDate)
	if err != nil {
		return nil, err
	}
	rec := models.Attendance{
		EventType:    models.EventCheckIn,
		TimestampUTC: ts,
		LocalDate:    localdate.FromUTC(ts),
		Site:         form.Site,
		UserName:     form.UserName,
		UserEmail:    form.UserEmail,
		Source:       models.SourceAdminManual,
		VisitReason:  form.VisitReason,
		BusinessLine: form.BusinessLine,
		Notes:        form.Notes,
		IsValid:      true,
	}
	if err := s.db.Create(&rec).Error; err != nil {
		return nil, fmt.Errorf("failed to create record: %w", err)
	}
	return &rec, nil
}

// AdminUpdate edits any field of a record, re-deriving local_date from the
// new timestamp.
func (s *AttendanceService) AdminUpdate(form *dto.AdminRecordForm) (*models.Attendance, error) {
	var rec models.Attendance
	if err := s.db.First(&rec, form.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	ts, err := localdate.ParseInput(form.CustomDate)
	if err != nil {
		return nil, err
	}
	rec.TimestampUTC = ts
	rec.LocalDate = localdate.FromUTC(ts)
	rec.Site = form.Site
	rec.UserName = form.UserName
	rec.UserEmail = form.UserEmail
	rec.VisitReason = form.VisitReason
	rec.BusinessLine = form.BusinessLine
	rec.Notes = form.Notes
	if err := s.db.Save(&rec).Error; err != nil {
		return nil, fmt.Errorf("failed to update record %d: %w", rec.ID, err)
	}
	return &rec, nil
}

func (s *AttendanceService) AdminDelete(id uint) error {
	result := s.db.Delete(&models.Attendance{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete record %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}
