package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/yeisme/docvault/pkg/internal/model"
)

func sampleRecords() []model.FileRecord {
	now := time.Now().UTC().Truncate(time.Second)

	return []model.FileRecord{
		{
			ID:          "01J00000000000000000000001",
			OwnerID:     "alice@example.com",
			DisplayName: "report.pdf",
			StorageKey:  "6e1a7e1c-1111-4222-8333-444455556666.pdf",
			ByteSize:    1024,
			ContentType: "application/pdf",
			Extension:   ".pdf",
			Checksum:    "aa",
			Status:      model.StatusActive,
			Scan:        model.ScanClean,
			CreatedAt:   now,
		},
		{
			ID:          "01J00000000000000000000002",
			OwnerID:     "bob@example.com",
			DisplayName: "photo.png",
			StorageKey:  "6e1a7e1c-7777-4888-8999-000011112222.png",
			ByteSize:    2048,
			ContentType: "image/png",
			Extension:   ".png",
			Checksum:    "bb",
			Status:      model.StatusDeleted,
			Scan:        model.ScanClean,
			CreatedAt:   now,
		},
	}
}

// TestSnapshotRoundTrip 保存再加载应得到等价的记录集合.
func TestSnapshotRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.json")

	repo, err := NewSnapshot(path)
	if err != nil {
		t.Fatalf("new snapshot: %v", err)
	}

	ctx := context.Background()
	want := sampleRecords()

	if err := repo.SaveAll(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if len(got) != len(want) {
		t.Fatalf("loaded %d records, want %d", len(got), len(want))
	}

	for i := range want {
		if got[i].ID != want[i].ID || got[i].Status != want[i].Status ||
			got[i].StorageKey != want[i].StorageKey {
			t.Errorf("record %d mismatch: got %+v", i, got[i])
		}
	}
}

// TestSnapshotLoadMissingFile 首次启动时快照文件不存在，返回空集合.
func TestSnapshotLoadMissingFile(t *testing.T) {
	repo, err := NewSnapshot(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("new snapshot: %v", err)
	}

	got, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if len(got) != 0 {
		t.Errorf("expected empty repository, got %d records", len(got))
	}
}

// TestSnapshotLoadCorrupted 损坏的快照必须报 ErrCorrupted 而不是静默清空.
func TestSnapshotLoadCorrupted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	repo, err := NewSnapshot(path)
	if err != nil {
		t.Fatalf("new snapshot: %v", err)
	}

	if _, err := repo.Load(context.Background()); !errors.Is(err, ErrCorrupted) {
		t.Errorf("load corrupted = %v, want ErrCorrupted", err)
	}
}

// TestSnapshotSaveReplacesAtomically 覆盖保存后目录中不应残留临时文件.
func TestSnapshotSaveReplacesAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "records.json")

	repo, err := NewSnapshot(path)
	if err != nil {
		t.Fatalf("new snapshot: %v", err)
	}

	ctx := context.Background()

	if err := repo.SaveAll(ctx, sampleRecords()); err != nil {
		t.Fatalf("first save: %v", err)
	}

	if err := repo.SaveAll(ctx, sampleRecords()[:1]); err != nil {
		t.Fatalf("second save: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}

	if len(entries) != 1 {
		t.Errorf("expected only snapshot file, found %d entries", len(entries))
	}

	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if len(got) != 1 {
		t.Errorf("expected 1 record after replace, got %d", len(got))
	}
}

// TestSnapshotSaveNil nil 集合按空仓库持久化.
func TestSnapshotSaveNil(t *testing.T) {
	repo, err := NewSnapshot(filepath.Join(t.TempDir(), "records.json"))
	if err != nil {
		t.Fatalf("new snapshot: %v", err)
	}

	ctx := context.Background()

	if err := repo.SaveAll(ctx, nil); err != nil {
		t.Fatalf("save nil: %v", err)
	}

	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if len(got) != 0 {
		t.Errorf("expected empty, got %d", len(got))
	}
}
