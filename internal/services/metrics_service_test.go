package services

import (
	"testing"
	"time"

	"github.com/sebridge/checkin/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedRecord(t *testing.T, db *gorm.DB, localDate, source, reason, line string) {
	t.Helper()
	ts, err := time.Parse("2006-01-02", localDate)
	require.NoError(t, err)
	rec := models.Attendance{
		EventType:    models.EventCheckIn,
		TimestampUTC: ts.Add(14 * time.Hour),
		LocalDate:    localDate,
		Site:         "greensboro",
		UserEmail:    "a@x.com",
		Source:       source,
		VisitReason:  reason,
		BusinessLine: line,
		IsValid:      true,
	}
	require.NoError(t, db.Create(&rec).Error)
}

func TestDailyCheckinsLastWeekZeroFilled(t *testing.T) {
	db := newTestDB(t)
	svc := NewMetricsService(db)

	now := time.Date(2025, 3, 15, 18, 0, 0, 0, time.UTC)
	seedRecord(t, db, "2025-03-15", models.SourceFinalized, "", "")
	seedRecord(t, db, "2025-03-15", models.SourceAdminManual, "", "")
	seedRecord(t, db, "2025-03-12", models.SourceFinalized, "", "")
	// Provisional scans and out-of-window rows must not count.
	seedRecord(t, db, "2025-03-15", models.SourceQR, "", "")
	seedRecord(t, db, "2025-03-01", models.SourceFinalized, "", "")

	resp, err := svc.DailyCheckinsLastWeek(now)
	require.NoError(t, err)
	require.Len(t, resp.Labels, 7)
	require.Len(t, resp.Data, 7)

	assert.Equal(t, "2025-03-09", resp.Labels[0])
	assert.Equal(t, "2025-03-15", resp.Labels[6])
	assert.Equal(t, int64(2), resp.Data[6])
	assert.Equal(t, int64(1), resp.Data[3])
	assert.Equal(t, int64(0), resp.Data[0])
}

func TestRecordsForDate(t *testing.T) {
	db := newTestDB(t)
	svc := NewMetricsService(db)

	seedRecord(t, db, "2025-03-15", models.SourceFinalized, "field_work", "")
	seedRecord(t, db, "2025-03-14", models.SourceFinalized, "", "")
	seedRecord(t, db, "2025-03-15", models.SourceQR, "", "")

	recs, err := svc.RecordsForDate("2025-03-15")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "field_work", recs[0].VisitReason)

	_, err = svc.RecordsForDate("03/15/2025")
	assert.Error(t, err)
}

func TestMonthlySummaryBreakdowns(t *testing.T) {
	db := newTestDB(t)
	svc := NewMetricsService(db)

	seedRecord(t, db, "2025-01-05", models.SourceFinalized, "field_work", "surety")
	seedRecord(t, db, "2025-01-06", models.SourceFinalized, "field_work", "surety")
	seedRecord(t, db, "2025-01-07", models.SourceFinalized, "training", "benefits")
	seedRecord(t, db, "2025-01-08", models.SourceAdminManual, "", "")
	seedRecord(t, db, "2025-02-01", models.SourceFinalized, "field_work", "")

	resp, err := svc.MonthlySummary("2025-01")
	require.NoError(t, err)
	assert.Equal(t, int64(4), resp.TotalCheckins)

	assert.Equal(t, int64(2), resp.ReasonBreakdown["field_work"].Count)
	assert.InDelta(t, 50.0, resp.ReasonBreakdown["field_work"].Percent, 0.01)
	assert.InDelta(t, 25.0, resp.ReasonBreakdown["training"].Percent, 0.01)
	assert.Equal(t, int64(1), resp.ReasonBreakdown["unspecified"].Count)

	var sum float64
	for _, entry := range resp.ReasonBreakdown {
		sum += entry.Percent
	}
	assert.InDelta(t, 100.0, sum, 0.2)

	assert.Equal(t, int64(2), resp.BusinessLineBreakdown["surety"].Count)
	assert.Equal(t, int64(1), resp.BusinessLineBreakdown["unspecified"].Count)
}

func TestMonthlySummaryEmptyMonth(t *testing.T) {
	db := newTestDB(t)
	svc := NewMetricsService(db)

	resp, err := svc.MonthlySummary("2024-06")
	require.NoError(t, err)
	assert.Equal(t, int64(0), resp.TotalCheckins)
	assert.Empty(t, resp.ReasonBreakdown)
	assert.Empty(t, resp.BusinessLineBreakdown)
}

func TestMonthlySummaryRejectsBadMonth(t *testing.T) {
	db := newTestDB(t)
	svc := NewMetricsService(db)

	_, err := svc.MonthlySummary("2025-1")
	assert.Error(t, err)
}
