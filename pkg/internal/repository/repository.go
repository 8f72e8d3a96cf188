// Package repository 定义文件元数据的持久化抽象.
//
// 协调层在内存中维护全量记录，仅通过 Load 启动恢复、SaveAll 全量快照两个
// 操作与持久化层交互.快照写入必须是原子的：任何时刻磁盘上要么是完整的
// 旧快照，要么是完整的新快照.
package repository

import (
	"context"
	"errors"

	"github.com/yeisme/docvault/pkg/internal/model"
)

// ErrCorrupted 持久化数据损坏，无法解析.
var ErrCorrupted = errors.New("repository: snapshot data corrupted")

// Repository 元数据仓库.
type Repository interface {
	// Load 读取全部记录.仓库为空（首次启动）时返回空切片而非错误.
	Load(ctx context.Context) ([]model.FileRecord, error)
	// SaveAll 以全量替换的方式持久化记录集合.
	SaveAll(ctx context.Context, records []model.FileRecord) error
}
