package repo

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/noteet/internal/models"
)

func (r *GormRepo) ListNotes(ctx context.Context, owner uuid.UUID) ([]models.Note, error) {
	var notes []models.Note
	err := r.DB.WithContext(ctx).
		Where("owner = ?", owner).
		Order("created_at DESC").
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}

func (r *GormRepo) FindNote(ctx context.Context, id, owner uuid.UUID) (*models.Note, error) {
	var note models.Note
	err := r.DB.WithContext(ctx).
		Where("id = ? AND owner = ?", id, owner).
		First(&note).Error
	if err != nil {
		return nil, mapErr(err)
	}
	return &note, nil
}

func (r *GormRepo) CreateNote(ctx context.Context, n *models.Note) error {
	return mapErr(r.DB.WithContext(ctx).Create(n).Error)
}

// UpdateNote overwrites value and color of a note owned by owner.
// A note owned by someone else is reported as ErrNotFound.
func (r *GormRepo) UpdateNote(ctx context.Context, id, owner uuid.UUID, value, color string) (*models.Note, error) {
	res := r.DB.WithContext(ctx).
		Model(&models.Note{}).
		Where("id = ? AND owner = ?", id, owner).
		Updates(map[string]any{"value": value, "color": color})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.FindNote(ctx, id, owner)
}

func (r *GormRepo) DeleteNote(ctx context.Context, id, owner uuid.UUID) error {
	res := r.DB.WithContext(ctx).
		Where("id = ? AND owner = ?", id, owner).
		Delete(&models.Note{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SearchNotes is the SQL fallback for full-text search: a case-insensitive
// substring match over the owner's notes.
func (r *GormRepo) SearchNotes(ctx context.Context, owner uuid.UUID, query string, limit int) ([]models.Note, error) {
	if limit <= 0 {
		limit = 20
	}
	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"

	var notes []models.Note
	err := r.DB.WithContext(ctx).
		Where("owner = ? AND LOWER(value) LIKE ? ESCAPE '\\'", owner, pattern).
		Order("created_at DESC").
		Limit(limit).
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
