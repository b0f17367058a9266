package repository

import (
	"Lighthouse/internal/model"
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type ChannelRepo interface {
	ListEligible(ctx context.Context, platform string) ([]*model.Channel, error)
	CountEligible(ctx context.Context) (int64, error)
}

type channelRepoImpl struct {
	db *gorm.DB
}

func NewChannelRepo(db *gorm.DB) ChannelRepo {
	return &channelRepoImpl{db: db}
}

// ListEligible 已连接且启用的频道，platform 为空时不过滤
func (r *channelRepoImpl) ListEligible(ctx context.Context, platform string) ([]*model.Channel, error) {
	channels := make([]*model.Channel, 0)
	query := r.db.WithContext(ctx).
		Where("is_connected = ?", true).
		Where("is_active = ?", true)
	if platform != "" {
		query = query.Where("platform = ?", platform)
	}
	if err := query.Order("id ASC").Find(&channels).Error; err != nil {
		return nil, errors.Wrap(err, "list eligible channels")
	}
	return channels, nil
}

func (r *channelRepoImpl) CountEligible(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Channel{}).
		Where("is_connected = ?", true).
		Where("is_active = ?", true).
		Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, "count eligible channels")
	}
	return count, nil
}
