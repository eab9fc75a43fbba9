package db

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	rows "github.com/stafflink/stafflink/internal/agency/db/models"
	e "github.com/stafflink/stafflink/internal/agency/errors"
	"github.com/stafflink/stafflink/internal/agency/models"
	"gorm.io/gorm"
)

// The repository doubles as the partner directory: agency membership and
// display names live on the users table.

func (r *Repository) GetAgency(ctx context.Context, userID uuid.UUID) (string, error) {
	user, err := r.getUserRow(ctx, userID)
	if err != nil {
		return "", err
	}
	return user.Agency, nil
}

func (r *Repository) GetDisplayName(ctx context.Context, userID uuid.UUID) (string, error) {
	user, err := r.getUserRow(ctx, userID)
	if err != nil {
		return "", err
	}
	return user.DisplayName, nil
}

func (r *Repository) GetProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	user, err := r.getUserRow(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &models.UserProfile{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Agency:      user.Agency,
	}, nil
}

func (r *Repository) UpdateProfile(ctx context.Context, userID uuid.UUID, upd *models.ProfileUpdate) error {
	changes := map[string]interface{}{}
	if upd.DisplayName != nil {
		changes["display_name"] = *upd.DisplayName
	}
	if upd.FirstName != nil {
		changes["first_name"] = *upd.FirstName
	}
	if upd.LastName != nil {
		changes["last_name"] = *upd.LastName
	}
	if len(changes) == 0 {
		return nil
	}

	result := r.db.WithContext(ctx).Model(&rows.User{}).
		Where("id = ?", userID).
		Updates(changes)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

// GetOptions reads the configured choice lists. Each option row holds a
// comma-separated value list; entries are trimmed, empties dropped.
func (r *Repository) GetOptions(ctx context.Context) (*models.Options, error) {
	opts := &models.Options{}
	targets := []struct {
		name string
		dest *[]string
	}{
		{"hotel_names", &opts.Hotels},
		{"accommodation_options", &opts.Accommodations},
		{"male_outfit_options", &opts.MaleOutfits},
		{"female_outfit_options", &opts.FemaleOutfits},
	}

	for _, target := range targets {
		var row rows.Option
		result := r.db.WithContext(ctx).First(&row, "name = ?", target.name)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, result.Error
		}
		*target.dest = splitList(row.Value)
	}
	return opts, nil
}

func (r *Repository) getUserRow(ctx context.Context, userID uuid.UUID) (*rows.User, error) {
	var user rows.User
	result := r.db.WithContext(ctx).First(&user, "id = ?", userID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &user, nil
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
