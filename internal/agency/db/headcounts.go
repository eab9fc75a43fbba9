package db

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/stafflink/stafflink/internal/agency/dates"
	rows "github.com/stafflink/stafflink/internal/agency/db/models"
	"github.com/stafflink/stafflink/internal/agency/models"
	"go.uber.org/zap"
)

// ExpandRange inserts one headcount row per calendar day from startDate to
// endDate inclusive, all carrying the same counts.
func (r *Repository) ExpandRange(ctx context.Context, jobID uuid.UUID, startDate, endDate string, maleHosts, femaleHosts int) error {
	days, err := dates.Range(startDate, endDate)
	if err != nil {
		return err
	}

	for _, day := range days {
		result := r.db.WithContext(ctx).Create(&rows.HostCount{
			JobID:       jobID,
			Date:        day,
			MaleHosts:   maleHosts,
			FemaleHosts: femaleHosts,
		})
		if result.Error != nil {
			return result.Error
		}
	}
	return nil
}

// RewriteCounts updates every existing ledger row for the job in place,
// preserving the date set. When no rows exist yet the range is regenerated
// from the supplied dates, or from a two-day (today, tomorrow) span when
// even those are unusable.
func (r *Repository) RewriteCounts(ctx context.Context, jobID uuid.UUID, maleHosts, femaleHosts int, startDate, endDate string) error {
	var count int64
	result := r.db.WithContext(ctx).Model(&rows.HostCount{}).
		Where("job_id = ?", jobID).
		Count(&count)
	if result.Error != nil {
		return result.Error
	}

	if count > 0 {
		result = r.db.WithContext(ctx).Model(&rows.HostCount{}).
			Where("job_id = ?", jobID).
			Updates(map[string]interface{}{
				"male_hosts":   maleHosts,
				"female_hosts": femaleHosts,
			})
		return result.Error
	}

	if _, err := dates.Range(startDate, endDate); err != nil {
		r.logger.Warn("unusable date range for ledger regeneration, using two-day fallback",
			zap.String("job_id", jobID.String()),
			zap.String("start_date", startDate),
			zap.String("end_date", endDate),
			zap.Error(err),
		)
		startDate = time.Now().Format(dates.Layout)
		endDate = time.Now().AddDate(0, 0, 1).Format(dates.Layout)
	}
	return r.ExpandRange(ctx, jobID, startDate, endDate, maleHosts, femaleHosts)
}

// FetchHostCounts returns the ledger for a job ordered by calendar date.
// DD/MM/YYYY strings sort incorrectly as text, so the ordering parses each
// date; unparseable rows sink to the end.
func (r *Repository) FetchHostCounts(ctx context.Context, jobID uuid.UUID) ([]models.HeadcountEntry, error) {
	var countRows []rows.HostCount
	result := r.db.WithContext(ctx).Where("job_id = ?", jobID).Find(&countRows)
	if result.Error != nil {
		return nil, result.Error
	}

	entries := make([]models.HeadcountEntry, 0, len(countRows))
	for _, row := range countRows {
		entries = append(entries, models.HeadcountEntry{
			JobID:       row.JobID,
			Date:        row.Date,
			MaleHosts:   row.MaleHosts,
			FemaleHosts: row.FemaleHosts,
			TotalHosts:  row.MaleHosts + row.FemaleHosts,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		ti, erri := dates.Parse(entries[i].Date)
		tj, errj := dates.Parse(entries[j].Date)
		if erri != nil {
			return false
		}
		if errj != nil {
			return true
		}
		return ti.Before(tj)
	})

	return entries, nil
}
