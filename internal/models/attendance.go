package models

import "time"

const (
	EventCheckIn  = "check_in"
	EventCheckOut = "check_out"
)

// Provenance tags for an attendance row. A row starts as SourceQR (or
// SourceSSOCallback when the check-in is triggered from the login callback)
// and is promoted to SourceFinalized once device/geo/reason details land.
// Admin-created rows bypass the provisional step entirely.
const (
	SourceQR          = "qr"
	SourceSSOCallback = "sso_callback"
	SourceFinalized   = "finalized"
	SourceAdminManual = "admin_manual"
)

// Attendance is one row per check-in attempt. Duplicate attempts are kept
// with IsValid=false as an audit trail rather than deleted.
//
// At most one row per (user_email, local_date, event_type) may be valid and
// finalized; Postgres enforces this with a partial unique index created in
// database.Migrate.
type Attendance struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	EventType     string    `gorm:"size:20;not null;index;check:event_type IN ('check_in','check_out')" json:"event_type"`
	TimestampUTC  time.Time `gorm:"column:timestamp_utc;not null" json:"timestamp_utc"`
	LocalDate     string    `gorm:"size:10;index:idx_attendance_email_date,priority:2" json:"local_date"`
	Site          string    `gorm:"size:64;not null" json:"site"`
	UserName      string    `gorm:"size:200" json:"user_name"`
	UserEmail     string    `gorm:"size:320;index:idx_attendance_email_date,priority:1" json:"user_email"`
	Source        string    `gorm:"size:32;not null;default:'qr'" json:"source"`
	UserAgent     string    `gorm:"type:text" json:"user_agent,omitempty"`
	DeviceLocalID string    `gorm:"size:64" json:"device_local_id,omitempty"`
	GeoLat        *float64  `json:"geo_lat,omitempty"`
	GeoLon        *float64  `json:"geo_lon,omitempty"`
	VisitReason   string    `gorm:"size:120" json:"visit_reason,omitempty"`
	BusinessLine  string    `gorm:"size:120" json:"business_line,omitempty"`
	SignaturePath string    `gorm:"size:256" json:"signature_path,omitempty"`
	IsValid       bool      `gorm:"not null;default:true" json:"is_valid"`
	Notes         string    `gorm:"type:text" json:"notes,omitempty"`
	UpdatedAtUTC  time.Time `gorm:"column:updated_at_utc;autoUpdateTime" json:"updated_at_utc"`
}

func (Attendance) TableName() string { return "attendance" }

// Finalized reports whether this row is the authoritative record for its
// (email, local date) pair.
func (a *Attendance) Finalized() bool {
	return a.IsValid && a.Source == SourceFinalized
}
