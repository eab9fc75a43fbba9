package db

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	rows "github.com/stafflink/stafflink/internal/agency/db/models"
	"github.com/stafflink/stafflink/internal/agency/models"
	"gorm.io/gorm"
)

// InsertEditRequest appends a pending proposed-field snapshot. Requests
// are never updated or deleted here; resolution is an admin-side concern.
func (r *Repository) InsertEditRequest(ctx context.Context, req *models.EditRequest) error {
	r.RepairDateColumns(ctx)

	row := &rows.EditRequest{
		ID:            req.ID,
		JobID:         req.JobID,
		PartnerID:     req.PartnerID,
		GroupName:     req.GroupName,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		HotelName:     req.HotelName,
		Accommodation: req.Accommodation,
		MaleOutfit:    req.MaleOutfit,
		FemaleOutfit:  req.FemaleOutfit,
		Note:          req.Note,
		Status:        req.Status,
		CreatedAt:     req.CreatedAt,
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now()
	}

	result := r.db.WithContext(ctx).Create(row)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// LatestEditRequest returns the most recent request for a job, or nil when
// none exists. A pending result is informational only; it never blocks a
// further edit.
func (r *Repository) LatestEditRequest(ctx context.Context, jobID uuid.UUID) (*models.EditRequest, error) {
	var row rows.EditRequest
	result := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("created_at DESC").
		First(&row)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return editRequestRowToModel(&row), nil
}

// ListEditRequests returns every snapshot submitted for a job, oldest
// first. Conflicting pending requests from agency mates are surfaced as
// independent rows, never reconciled.
func (r *Repository) ListEditRequests(ctx context.Context, jobID uuid.UUID) ([]*models.EditRequest, error) {
	var reqRows []rows.EditRequest
	result := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("created_at ASC").
		Find(&reqRows)
	if result.Error != nil {
		return nil, result.Error
	}

	reqs := make([]*models.EditRequest, 0, len(reqRows))
	for i := range reqRows {
		reqs = append(reqs, editRequestRowToModel(&reqRows[i]))
	}
	return reqs, nil
}

func editRequestRowToModel(row *rows.EditRequest) *models.EditRequest {
	return &models.EditRequest{
		ID:            row.ID,
		JobID:         row.JobID,
		PartnerID:     row.PartnerID,
		GroupName:     row.GroupName,
		StartDate:     row.StartDate,
		EndDate:       row.EndDate,
		HotelName:     row.HotelName,
		Accommodation: row.Accommodation,
		MaleOutfit:    row.MaleOutfit,
		FemaleOutfit:  row.FemaleOutfit,
		Note:          row.Note,
		Status:        row.Status,
		CreatedAt:     row.CreatedAt,
	}
}
