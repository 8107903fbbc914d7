package repo

import (
	"context"

	"github.com/Skotchmaster/noteet/internal/models"
)

func (r *GormRepo) SaveTokenPair(ctx context.Context, access, refresh string) error {
	pair := models.TokenPair{AccessToken: access, RefreshToken: refresh}
	if err := r.DB.WithContext(ctx).Create(&pair).Error; err != nil {
		return mapErr(err)
	}
	return nil
}

func (r *GormRepo) FindTokenPair(ctx context.Context, refresh string) (*models.TokenPair, error) {
	var pair models.TokenPair
	if err := r.DB.WithContext(ctx).Where("refresh_token = ?", refresh).First(&pair).Error; err != nil {
		return nil, mapErr(err)
	}
	return &pair, nil
}

// ConsumeRefreshToken deletes the pair holding refresh and reports whether
// this call was the one that removed it. Concurrent callers racing on the
// same token see exactly one true.
func (r *GormRepo) ConsumeRefreshToken(ctx context.Context, refresh string) (bool, error) {
	res := r.DB.WithContext(ctx).Where("refresh_token = ?", refresh).Delete(&models.TokenPair{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
