package services

import (
	"fmt"
	"math"
	"time"

	"github.com/sebridge/checkin/internal/dto"
	"github.com/sebridge/checkin/internal/localdate"
	"github.com/sebridge/checkin/internal/models"
	"gorm.io/gorm"
)

// Sources counted by the metrics endpoints. Provisional rows from scans
// that were never finalized are excluded so abandoned scans do not inflate
// the numbers.
var countedSources = []string{models.SourceFinalized, models.SourceAdminManual}

const unspecifiedKey = "unspecified"

type MetricsService struct {
	db *gorm.DB
}

func NewMetricsService(db *gorm.DB) *MetricsService {
	return &MetricsService{db: db}
}

func (s *MetricsService) countedCheckins() *gorm.DB {
	return s.db.Model(&models.Attendance{}).
		Where("event_type = ? AND is_valid = ?", models.EventCheckIn, true).
		Where("source IN ?", countedSources)
}

// DailyCheckinsLastWeek counts check-ins per local date for the trailing
// 7 days including today, zero-filled.
func (s *MetricsService) DailyCheckinsLastWeek(now time.Time) (*dto.DailyCheckinsResponse, error) {
	labels := localdate.LastNDays(7, now)

	var rows []struct {
		LocalDate string
		Count     int64
	}
	err := s.countedCheckins().
		Select("local_date, count(*) as count").
		Where("local_date BETWEEN ? AND ?", labels[0], labels[len(labels)-1]).
		Group("local_date").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("daily counts query failed: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.LocalDate] = r.Count
	}

	data := make([]int64, len(labels))
	for i, label := range labels {
		data[i] = counts[label]
	}
	return &dto.DailyCheckinsResponse{Labels: labels, Data: data}, nil
}

// RecordsForDate returns the full record list for one local date.
func (s *MetricsService) RecordsForDate(date string) ([]models.Attendance, error) {
	if err := localdate.ValidateDate(date); err != nil {
		return nil, err
	}
	var recs []models.Attendance
	err := s.countedCheckins().
		Where("local_date = ?", date).
		Order("timestamp_utc ASC").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("records query for %s failed: %w", date, err)
	}
	return recs, nil
}

// MonthlySummary totals one calendar month and breaks the total down by
// visit reason and business line, with percentages rounded to one decimal.
// An empty month reports zero totals and empty breakdowns.
func (s *MetricsService) MonthlySummary(month string) (*dto.MonthlySummaryResponse, error) {
	if err := localdate.ValidateMonth(month); err != nil {
		return nil, err
	}
	var recs []models.Attendance
	err := s.countedCheckins().
		Where("local_date LIKE ?", month+"-%").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("monthly query for %s failed: %w", month, err)
	}

	reasonCounts := make(map[string]int64)
	lineCounts := make(map[string]int64)
	for _, r := range recs {
		reasonCounts[keyOrUnspecified(r.VisitReason)]++
		lineCounts[keyOrUnspecified(r.BusinessLine)]++
	}

	total := int64(len(recs))
	return &dto.MonthlySummaryResponse{
		Month:                 month,
		TotalCheckins:         total,
		ReasonBreakdown:       breakdown(reasonCounts, total),
		BusinessLineBreakdown: breakdown(lineCounts, total),
	}, nil
}

func keyOrUnspecified(s string) string {
	if s == "" {
		return unspecifiedKey
	}
	return s
}

func breakdown(counts map[string]int64, total int64) map[string]dto.BreakdownEntry {
	result := make(map[string]dto.BreakdownEntry, len(counts))
	for key, count := range counts {
		percent := 0.0
		if total > 0 {
			percent = math.Round(float64(count)/float64(total)*1000) / 10
		}
		result[key] = dto.BreakdownEntry{Count: count, Percent: percent}
	}
	return result
}
