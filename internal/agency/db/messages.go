package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	rows "github.com/stafflink/stafflink/internal/agency/db/models"
	e "github.com/stafflink/stafflink/internal/agency/errors"
	"github.com/stafflink/stafflink/internal/agency/models"
	"gorm.io/gorm"
)

func (r *Repository) ListMessages(ctx context.Context, userID uuid.UUID) ([]*models.Message, error) {
	var msgRows []rows.Message
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&msgRows)
	if result.Error != nil {
		return nil, result.Error
	}

	msgs := make([]*models.Message, 0, len(msgRows))
	for i := range msgRows {
		msgs = append(msgs, messageRowToModel(&msgRows[i]))
	}
	return msgs, nil
}

func (r *Repository) GetMessage(ctx context.Context, id uuid.UUID) (*models.Message, error) {
	var row rows.Message
	result := r.db.WithContext(ctx).First(&row, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return messageRowToModel(&row), nil
}

func (r *Repository) MarkMessageRead(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&rows.Message{}).
		Where("id = ?", id).
		Update("is_read", 1)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

func messageRowToModel(row *rows.Message) *models.Message {
	return &models.Message{
		ID:        row.ID,
		UserID:    row.UserID,
		Subject:   row.Subject,
		Body:      row.Body,
		IsRead:    row.IsRead,
		CreatedAt: row.CreatedAt,
	}
}
