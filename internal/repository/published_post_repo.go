package repository

import (
	"Lighthouse/internal/model"
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type PublishedPostRepo interface {
	ListPosted(ctx context.Context, platform string, since time.Time) ([]*model.PublishedPost, error)
}

type publishedPostRepoImpl struct {
	db *gorm.DB
}

func NewPublishedPostRepo(db *gorm.DB) PublishedPostRepo {
	return &publishedPostRepoImpl{db: db}
}

// ListPosted 时间窗口内状态为 posted 的帖子，按发布时间升序
func (r *publishedPostRepoImpl) ListPosted(ctx context.Context, platform string, since time.Time) ([]*model.PublishedPost, error) {
	posts := make([]*model.PublishedPost, 0)
	query := r.db.WithContext(ctx).
		Where("status = ?", model.PublishedPostStatusPosted).
		Where("published_at IS NOT NULL AND published_at >= ?", since)
	if platform != "" {
		query = query.Where("platform = ?", platform)
	}
	if err := query.Order("published_at ASC").Find(&posts).Error; err != nil {
		return nil, errors.Wrap(err, "list published posts")
	}
	return posts, nil
}
