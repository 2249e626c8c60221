package db

import (
	"context"
	"fmt"
	"time"

	"wakadash/internal/logger"
	"wakadash/internal/models"
)

// dayFormat is the canonical day key used by the history tables.
const dayFormat = "2006-01-02"

// UpsertDayTotal records (or replaces) a profile's total for one day.
func (db *DB) UpsertDayTotal(profile string, day time.Time, totalSeconds int64) error {
	query := `
		INSERT INTO day_totals (profile, day, total_seconds, recorded_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(profile, day) DO UPDATE SET
			total_seconds = excluded.total_seconds,
			recorded_at = CURRENT_TIMESTAMP
	`

	_, err := db.ExecContext(context.Background(), query,
		profile,
		day.Format(dayFormat),
		totalSeconds,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert day total: %w", err)
	}
	return nil
}

// UpsertLanguageDay records (or replaces) one language's seconds for a
// profile on one day.
func (db *DB) UpsertLanguageDay(profile string, day time.Time, language string, totalSeconds int64) error {
	query := `
		INSERT INTO language_days (profile, day, language, total_seconds)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(profile, day, language) DO UPDATE SET
			total_seconds = excluded.total_seconds
	`

	_, err := db.ExecContext(context.Background(), query,
		profile,
		day.Format(dayFormat),
		language,
		totalSeconds,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert language day: %w", err)
	}
	return nil
}

// RecordStats persists a stats payload as today's totals for a profile.
func (db *DB) RecordStats(profile string, day time.Time, stats *models.Stats) error {
	if stats == nil {
		return nil
	}

	if err := db.UpsertDayTotal(profile, day, stats.TotalSeconds); err != nil {
		return err
	}
	for _, lang := range stats.Languages {
		if err := db.UpsertLanguageDay(profile, day, lang.Name, lang.TotalSeconds); err != nil {
			return err
		}
	}
	return nil
}

// GetDailySeries returns the recorded day totals for a profile inside the
// given window, oldest first.
func (db *DB) GetDailySeries(profile string, timeRange models.TimeRange) ([]models.DailyPoint, error) {
	query := `
		SELECT day, total_seconds
		FROM day_totals
		WHERE profile = ?
	`
	args := []any{profile}

	if days := timeRange.Days(); days > 0 {
		query += " AND day >= ?"
		args = append(args, time.Now().AddDate(0, 0, -days+1).Format(dayFormat))
	}
	query += " ORDER BY day ASC"

	rows, err := db.QueryContext(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily series: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("failed to close rows", "error", err)
		}
	}()

	var points []models.DailyPoint
	for rows.Next() {
		var dayStr string
		var point models.DailyPoint

		if err := rows.Scan(&dayStr, &point.TotalSeconds); err != nil {
			return nil, fmt.Errorf("failed to scan daily point: %w", err)
		}

		point.Day, _ = time.Parse(dayFormat, dayStr)
		points = append(points, point)
	}

	return points, rows.Err()
}

// GetTopLanguages returns a profile's languages ranked by accumulated
// seconds inside the given window.
func (db *DB) GetTopLanguages(profile string, timeRange models.TimeRange, limit int) ([]models.LanguageTotal, error) {
	query := `
		SELECT language, COALESCE(SUM(total_seconds), 0) as total
		FROM language_days
		WHERE profile = ?
	`
	args := []any{profile}

	if days := timeRange.Days(); days > 0 {
		query += " AND day >= ?"
		args = append(args, time.Now().AddDate(0, 0, -days+1).Format(dayFormat))
	}
	query += " GROUP BY language ORDER BY total DESC, language ASC LIMIT ?"
	args = append(args, limit)

	rows, err := db.QueryContext(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query top languages: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("failed to close rows", "error", err)
		}
	}()

	var totals []models.LanguageTotal
	for rows.Next() {
		var t models.LanguageTotal
		if err := rows.Scan(&t.Language, &t.TotalSeconds); err != nil {
			return nil, fmt.Errorf("failed to scan language total: %w", err)
		}
		totals = append(totals, t)
	}

	return totals, rows.Err()
}

// GetStreak returns the number of consecutive recorded days with activity,
// counting back from the given day.
func (db *DB) GetStreak(profile string, from time.Time) (int, error) {
	query := `
		SELECT day
		FROM day_totals
		WHERE profile = ? AND total_seconds > 0 AND day <= ?
		ORDER BY day DESC
	`

	rows, err := db.QueryContext(context.Background(), query, profile, from.Format(dayFormat))
	if err != nil {
		return 0, fmt.Errorf("failed to query streak: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("failed to close rows", "error", err)
		}
	}()

	streak := 0
	expected := from
	for rows.Next() {
		var dayStr string
		if err := rows.Scan(&dayStr); err != nil {
			return 0, fmt.Errorf("failed to scan streak day: %w", err)
		}

		day, err := time.Parse(dayFormat, dayStr)
		if err != nil {
			continue
		}

		// A missing day ends the streak. The first row may start either on
		// the reference day or the day before (nothing recorded yet today).
		if day.Format(dayFormat) == expected.Format(dayFormat) {
			streak++
			expected = expected.AddDate(0, 0, -1)
			continue
		}
		if streak == 0 && day.Format(dayFormat) == expected.AddDate(0, 0, -1).Format(dayFormat) {
			streak++
			expected = day.AddDate(0, 0, -1)
			continue
		}
		break
	}

	return streak, rows.Err()
}

// GetHistoryStats assembles everything the history view needs for a profile.
func (db *DB) GetHistoryStats(profile string, timeRange models.TimeRange) (*models.HistoryStats, error) {
	daily, err := db.GetDailySeries(profile, timeRange)
	if err != nil {
		return nil, err
	}

	topLanguages, err := db.GetTopLanguages(profile, timeRange, 10)
	if err != nil {
		return nil, err
	}

	streak, err := db.GetStreak(profile, time.Now())
	if err != nil {
		return nil, err
	}

	stats := &models.HistoryStats{
		Profile:      profile,
		TimeRange:    timeRange,
		Daily:        daily,
		TopLanguages: topLanguages,
		StreakDays:   streak,
		RecordedDays: len(daily),
	}

	for _, p := range daily {
		stats.TotalSeconds += p.TotalSeconds
	}
	if len(daily) > 0 {
		stats.FirstRecorded = daily[0].Day
		stats.LastRecorded = daily[len(daily)-1].Day
	}

	return stats, nil
}

// PruneBefore deletes history older than the given day.
func (db *DB) PruneBefore(day time.Time) error {
	cutoff := day.Format(dayFormat)

	if _, err := db.ExecContext(context.Background(), "DELETE FROM day_totals WHERE day < ?", cutoff); err != nil {
		return fmt.Errorf("failed to prune day totals: %w", err)
	}
	if _, err := db.ExecContext(context.Background(), "DELETE FROM language_days WHERE day < ?", cutoff); err != nil {
		return fmt.Errorf("failed to prune language days: %w", err)
	}
	return nil
}
