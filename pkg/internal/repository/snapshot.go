package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"

	"github.com/yeisme/docvault/pkg/internal/model"
)

// SnapshotRepository 把全部记录序列化为单个 JSON 文件的仓库实现.
// 写入走"临时文件 + fsync + 原子改名"，崩溃时旧快照保持完整.
type SnapshotRepository struct {
	path string
}

// NewSnapshot 创建快照仓库，父目录不存在时创建.
func NewSnapshot(path string) (*SnapshotRepository, error) {
	if path == "" {
		return nil, fmt.Errorf("repository: snapshot path is required")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("repository: resolve snapshot path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(abs), 0o700); err != nil {
		return nil, fmt.Errorf("repository: create snapshot dir: %w", err)
	}

	return &SnapshotRepository{path: abs}, nil
}

// Load 读取快照.文件不存在视为空仓库.
func (r *SnapshotRepository) Load(_ context.Context) ([]model.FileRecord, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []model.FileRecord{}, nil
		}

		return nil, fmt.Errorf("repository: read snapshot: %w", err)
	}

	var records []model.FileRecord
	if err := sonic.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupted, err)
	}

	return records, nil
}

// SaveAll 原子写入全量快照.
func (r *SnapshotRepository) SaveAll(_ context.Context, records []model.FileRecord) error {
	if records == nil {
		records = []model.FileRecord{}
	}

	data, err := sonic.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("repository: marshal snapshot: %w", err)
	}

	dir := filepath.Dir(r.path)

	tmp, err := os.CreateTemp(dir, ".snapshot-*")
	if err != nil {
		return fmt.Errorf("repository: create temp snapshot: %w", err)
	}

	tmpName := tmp.Name()

	// 任一步失败都清理临时文件，不碰已有快照
	if err := writeSyncClose(tmp, data); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("repository: write snapshot: %w", err)
	}

	if err := os.Rename(tmpName, r.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("repository: replace snapshot: %w", err)
	}

	return nil
}

func writeSyncClose(f *os.File, data []byte) error {
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}

	if err := f.Sync(); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}
