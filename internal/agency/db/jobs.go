package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	rows "github.com/stafflink/stafflink/internal/agency/db/models"
	e "github.com/stafflink/stafflink/internal/agency/errors"
	"github.com/stafflink/stafflink/internal/agency/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func (r *Repository) CreateJob(ctx context.Context, job *models.Job) error {
	r.RepairDateColumns(ctx)

	result := r.db.WithContext(ctx).Create(jobToRow(job))
	if result.Error != nil {
		return result.Error
	}
	return nil
}

func (r *Repository) GetJob(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	var row rows.Job
	result := r.db.WithContext(ctx).First(&row, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return r.healAndConvert(ctx, &row), nil
}

func (r *Repository) ListJobsByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Job, error) {
	var jobRows []rows.Job
	result := r.db.WithContext(ctx).Where("partner_id = ?", ownerID).Find(&jobRows)
	if result.Error != nil {
		return nil, result.Error
	}

	jobs := make([]*models.Job, 0, len(jobRows))
	for i := range jobRows {
		jobs = append(jobs, r.healAndConvert(ctx, &jobRows[i]))
	}
	return jobs, nil
}

func (r *Repository) ListAllJobs(ctx context.Context) ([]*models.Job, error) {
	var jobRows []rows.Job
	result := r.db.WithContext(ctx).Find(&jobRows)
	if result.Error != nil {
		return nil, result.Error
	}

	jobs := make([]*models.Job, 0, len(jobRows))
	for i := range jobRows {
		jobs = append(jobs, r.healAndConvert(ctx, &jobRows[i]))
	}
	return jobs, nil
}

// SetDeleteRequest flips the one-way deletion flag. Ownership is checked
// by the caller; there is no transition back to 0 here.
func (r *Repository) SetDeleteRequest(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&rows.Job{}).
		Where("id = ?", id).
		Update("delete_request", 1)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

// UpdateHostBaseline rewrites the job row's baseline headcounts. Unlike
// the other job fields, headcounts are operational data and are applied
// live rather than queued behind an edit request.
func (r *Repository) UpdateHostBaseline(ctx context.Context, id uuid.UUID, maleHosts, femaleHosts int) error {
	result := r.db.WithContext(ctx).Model(&rows.Job{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"male_hosts":   maleHosts,
			"female_hosts": femaleHosts,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

// healAndConvert turns a job row into the domain model, lazily repairing a
// NULL delete_request to a persisted 0 so callers only ever see 0/1.
func (r *Repository) healAndConvert(ctx context.Context, row *rows.Job) *models.Job {
	if row.DeleteRequest == nil {
		zero := 0
		result := r.db.WithContext(ctx).Model(&rows.Job{}).
			Where("id = ?", row.ID).
			Update("delete_request", 0)
		if result.Error != nil {
			r.logger.Warn("failed to heal delete_request",
				zap.String("job_id", row.ID.String()),
				zap.Error(result.Error),
			)
		}
		row.DeleteRequest = &zero
	}
	return rowToJob(row)
}

func jobToRow(job *models.Job) *rows.Job {
	flag := job.DeleteRequest
	return &rows.Job{
		ID:            job.ID,
		PartnerID:     job.PartnerID,
		GroupName:     job.GroupName,
		Note:          job.Note,
		StartDate:     job.StartDate,
		EndDate:       job.EndDate,
		HotelName:     job.HotelName,
		Accommodation: job.Accommodation,
		MaleOutfit:    job.MaleOutfit,
		FemaleOutfit:  job.FemaleOutfit,
		MaleHosts:     job.MaleHosts,
		FemaleHosts:   job.FemaleHosts,
		Status:        job.Status,
		DeleteRequest: &flag,
	}
}

func rowToJob(row *rows.Job) *models.Job {
	flag := 0
	if row.DeleteRequest != nil && *row.DeleteRequest != 0 {
		flag = 1
	}
	return &models.Job{
		ID:            row.ID,
		PartnerID:     row.PartnerID,
		GroupName:     row.GroupName,
		Note:          row.Note,
		StartDate:     row.StartDate,
		EndDate:       row.EndDate,
		HotelName:     row.HotelName,
		Accommodation: row.Accommodation,
		MaleOutfit:    row.MaleOutfit,
		FemaleOutfit:  row.FemaleOutfit,
		MaleHosts:     row.MaleHosts,
		FemaleHosts:   row.FemaleHosts,
		Status:        row.Status,
		DeleteRequest: flag,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}
