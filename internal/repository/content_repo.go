package repository

import (
	"Lighthouse/internal/model"
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type ContentRepo interface {
	GetByID(ctx context.Context, id uint64) (*model.ContentItem, error)
	FindActiveByFingerprint(ctx context.Context, fingerprint string, excludeID *uint64) ([]*model.ContentItem, error)
	ListRecentActive(ctx context.Context, limit int, excludeID *uint64) ([]*model.ContentItem, error)
	ListMissingFingerprint(ctx context.Context, afterID uint64, limit int) ([]*model.ContentItem, error)
	UpdateFingerprint(ctx context.Context, id uint64, fingerprint string) error
}

type contentRepoImpl struct {
	db *gorm.DB
}

func NewContentRepo(db *gorm.DB) ContentRepo {
	return &contentRepoImpl{db: db}
}

// GetByID 不存在时返回 nil, nil
func (r *contentRepoImpl) GetByID(ctx context.Context, id uint64) (*model.ContentItem, error) {
	var item model.ContentItem
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "get content item")
	}
	return &item, nil
}

// FindActiveByFingerprint 查询指纹完全一致的未归档内容，空指纹不查询
func (r *contentRepoImpl) FindActiveByFingerprint(ctx context.Context, fingerprint string, excludeID *uint64) ([]*model.ContentItem, error) {
	items := make([]*model.ContentItem, 0)
	if fingerprint == "" {
		return items, nil
	}
	query := r.db.WithContext(ctx).
		Where("fingerprint = ?", fingerprint).
		Where("status = ?", model.ContentStatusActive)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	if err := query.Find(&items).Error; err != nil {
		return nil, errors.Wrap(err, "find content by fingerprint")
	}
	return items, nil
}

// ListRecentActive 最近创建的未归档内容，用于指纹未命中时的有限扫描
func (r *contentRepoImpl) ListRecentActive(ctx context.Context, limit int, excludeID *uint64) ([]*model.ContentItem, error) {
	items := make([]*model.ContentItem, 0, limit)
	query := r.db.WithContext(ctx).Where("status = ?", model.ContentStatusActive)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	err := query.Order("created_at DESC").Limit(limit).Find(&items).Error
	if err != nil {
		return nil, errors.Wrap(err, "list recent content")
	}
	return items, nil
}

// ListMissingFingerprint 按 id 升序分页，afterID 为上一页最后一条
func (r *contentRepoImpl) ListMissingFingerprint(ctx context.Context, afterID uint64, limit int) ([]*model.ContentItem, error) {
	items := make([]*model.ContentItem, 0, limit)
	err := r.db.WithContext(ctx).
		Where("id > ?", afterID).
		Where("fingerprint = '' OR fingerprint IS NULL").
		Order("id ASC").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, errors.Wrap(err, "list content without fingerprint")
	}
	return items, nil
}

func (r *contentRepoImpl) UpdateFingerprint(ctx context.Context, id uint64, fingerprint string) error {
	err := r.db.WithContext(ctx).
		Model(&model.ContentItem{}).
		Where("id = ?", id).
		Update("fingerprint", fingerprint).Error
	return errors.Wrap(err, "update fingerprint")
}
