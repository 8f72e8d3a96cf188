package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/yeisme/docvault/pkg/internal/model"
	"github.com/yeisme/docvault/pkg/internal/storage/db"
)

// GormRepository 基于 GORM 的仓库实现，适合多实例共享元数据的部署.
// SaveAll 语义与快照仓库一致：事务内全量替换.
type GormRepository struct {
	client *db.Client
}

// NewGorm 创建数据库仓库并执行迁移.
func NewGorm(client *db.Client) (*GormRepository, error) {
	if client == nil {
		return nil, fmt.Errorf("repository: db client is required")
	}

	if err := client.AutoMigrate(&model.FileRecord{}); err != nil {
		return nil, fmt.Errorf("repository: migrate file records: %w", err)
	}

	return &GormRepository{client: client}, nil
}

// Load 读取全部记录，按创建时间排序保证遍历顺序稳定.
func (r *GormRepository) Load(ctx context.Context) ([]model.FileRecord, error) {
	records := []model.FileRecord{}

	if err := r.client.WithContext(ctx).
		Order("created_at ASC, id ASC").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("repository: load file records: %w", err)
	}

	return records, nil
}

// SaveAll 事务内全量替换记录集合.
func (r *GormRepository) SaveAll(ctx context.Context, records []model.FileRecord) error {
	err := r.client.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&model.FileRecord{}).Error; err != nil {
			return err
		}

		if len(records) == 0 {
			return nil
		}

		return tx.CreateInBatches(records, 200).Error
	})
	if err != nil {
		return fmt.Errorf("repository: save file records: %w", err)
	}

	return nil
}
