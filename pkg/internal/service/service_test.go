package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/yeisme/docvault/pkg/internal/model"
	"github.com/yeisme/docvault/pkg/internal/repository"
	"github.com/yeisme/docvault/pkg/internal/storage/disk"
	"github.com/yeisme/docvault/pkg/internal/types"
)

// infectedScanner 恒定命中的扫描器桩.
type infectedScanner struct{}

func (infectedScanner) Scan(_ context.Context, _ []byte) (model.ScanStatus, string, error) {
	return model.ScanInfected, "EICAR test signature", nil
}

func pngData(pad int) []byte {
	data := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	return append(data, bytes.Repeat([]byte{0x42}, pad)...)
}

func newTestService(t *testing.T, quotaLimit int, opts ...Option) (*UploadService, *disk.Store, string) {
	t.Helper()

	dir := t.TempDir()

	store, err := disk.Open(filepath.Join(dir, "objects"), 0o600)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	snapshotPath := filepath.Join(dir, "records.json")

	repo, err := repository.NewSnapshot(snapshotPath)
	if err != nil {
		t.Fatalf("new snapshot: %v", err)
	}

	svc, err := New(context.Background(), store, repo,
		NewQuotaTracker(quotaLimit, time.Hour), opts...)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	return svc, store, snapshotPath
}

// storageKeyOf 取记录的存储键，仅测试使用.
func storageKeyOf(t *testing.T, svc *UploadService, id string) string {
	t.Helper()

	svc.mu.RLock()
	defer svc.mu.RUnlock()

	rec := svc.records[id]
	if rec == nil {
		t.Fatalf("record %s not found", id)
	}

	return rec.StorageKey
}

// TestUploadFetchRoundTrip 上传后立即读取得到逐字节一致的内容.
func TestUploadFetchRoundTrip(t *testing.T) {
	svc, _, _ := newTestService(t, 10)
	ctx := context.Background()

	data := pngData(64)

	resp, err := svc.Upload(ctx, "alice", "photo.png", "image/png", data,
		map[string]string{"album": "holiday"})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if resp.File.Status != string(model.StatusActive) {
		t.Errorf("status = %s, want active", resp.File.Status)
	}

	got, err := svc.Fetch(ctx, resp.File.ID, "alice")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if !bytes.Equal(got.Data, data) {
		t.Error("fetched bytes differ from uploaded bytes")
	}

	sum := sha256.Sum256(got.Data)
	if hex.EncodeToString(sum[:]) != resp.File.Checksum {
		t.Error("checksum does not match fresh hash of fetched bytes")
	}

	// 访问簿记生效
	meta, err := svc.GetRecordMetadata(ctx, resp.File.ID, "alice")
	if err != nil {
		t.Fatalf("meta: %v", err)
	}

	if meta.File.AccessCount != 1 {
		t.Errorf("access count = %d, want 1", meta.File.AccessCount)
	}

	if meta.File.Metadata["album"] != "holiday" {
		t.Errorf("metadata lost: %v", meta.File.Metadata)
	}
}

// TestUploadRejectionIdempotent 同一非法输入两次上传得到相同错误集合，且不触碰存储.
func TestUploadRejectionIdempotent(t *testing.T) {
	svc, store, _ := newTestService(t, 10)
	ctx := context.Background()

	bad := []byte("MZ\x90\x00 pretending to be image")

	var errSets [][]string

	for range 2 {
		_, err := svc.Upload(ctx, "alice", "evil.jpg", "image/jpeg", bad, nil)

		var vErr *types.ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}

		errSets = append(errSets, vErr.Errors)
	}

	if len(errSets[0]) != len(errSets[1]) {
		t.Errorf("rejection not idempotent: %v vs %v", errSets[0], errSets[1])
	}

	entries, _ := os.ReadDir(store.Root())
	if len(entries) != 0 {
		t.Error("rejected upload must not touch storage")
	}
}

// TestPathTraversalNameRejected 路径穿越文件名被整体拒绝.
func TestPathTraversalNameRejected(t *testing.T) {
	svc, _, _ := newTestService(t, 10)

	_, err := svc.Upload(context.Background(), "alice", "../../etc/passwd.txt", "", []byte("x"), nil)

	var vErr *types.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

// TestQuotaEnforcement 第 N+1 次上传被拒且带正的等待时长；窗口过后恢复.
func TestQuotaEnforcement(t *testing.T) {
	svc, _, _ := newTestService(t, 2)
	ctx := context.Background()

	for i := range 2 {
		if _, err := svc.Upload(ctx, "alice", "a.png", "", pngData(i+1), nil); err != nil {
			t.Fatalf("upload %d: %v", i, err)
		}
	}

	_, err := svc.Upload(ctx, "alice", "a.png", "", pngData(9), nil)

	var qErr *types.QuotaError
	if !errors.As(err, &qErr) {
		t.Fatalf("expected QuotaError, got %v", err)
	}

	if qErr.RetryAfter <= 0 {
		t.Errorf("retry after = %v, want positive", qErr.RetryAfter)
	}

	// 其他用户不受影响
	if _, err := svc.Upload(ctx, "bob", "b.png", "", pngData(3), nil); err != nil {
		t.Errorf("other user blocked by alice quota: %v", err)
	}

	// 模拟窗口过期
	svc.quota.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	if _, err := svc.Upload(ctx, "alice", "a.png", "", pngData(5), nil); err != nil {
		t.Errorf("upload after window elapsed: %v", err)
	}
}

// TestQuotaNotConsumedOnRejection 校验拒绝不消耗配额.
func TestQuotaNotConsumedOnRejection(t *testing.T) {
	svc, _, _ := newTestService(t, 1)
	ctx := context.Background()

	for range 3 {
		_, _ = svc.Upload(ctx, "alice", "bad.exe", "", []byte("MZ"), nil)
	}

	// 配额仍剩 1 次
	if _, err := svc.Upload(ctx, "alice", "ok.png", "", pngData(4), nil); err != nil {
		t.Errorf("quota wrongly consumed by rejections: %v", err)
	}
}

// TestQuotaPruneRemovesStaleEntries 清理只移除窗口已过期的用户条目，活跃用户计数保留.
func TestQuotaPruneRemovesStaleEntries(t *testing.T) {
	q := NewQuotaTracker(5, time.Hour)

	q.Consume("alice")
	q.Consume("bob")

	// 把时钟拨过窗口，再让 carol 进入新窗口
	base := time.Now()
	q.now = func() time.Time { return base.Add(2 * time.Hour) }
	q.Consume("carol")

	if removed := q.Prune(); removed != 2 {
		t.Fatalf("pruned = %d, want 2", removed)
	}

	if len(q.users) != 1 {
		t.Errorf("entries after prune = %d, want 1", len(q.users))
	}

	if used, _, _ := q.Status("carol"); used != 1 {
		t.Errorf("carol used = %d, want 1", used)
	}
}

// TestOwnershipIsolation 用户 A 无法读取或删除用户 B 的记录，记录状态不变.
func TestOwnershipIsolation(t *testing.T) {
	svc, _, _ := newTestService(t, 10)
	ctx := context.Background()

	resp, err := svc.Upload(ctx, "bob", "secret.pdf", "", []byte("%PDF-1.4 secret"), nil)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if _, err := svc.Fetch(ctx, resp.File.ID, "alice"); !errors.Is(err, types.ErrForbidden) {
		t.Errorf("fetch by non-owner = %v, want ErrForbidden", err)
	}

	if _, err := svc.Remove(ctx, resp.File.ID, "alice"); !errors.Is(err, types.ErrForbidden) {
		t.Errorf("remove by non-owner = %v, want ErrForbidden", err)
	}

	meta, err := svc.GetRecordMetadata(ctx, resp.File.ID, "bob")
	if err != nil {
		t.Fatalf("meta: %v", err)
	}

	if meta.File.Status != string(model.StatusActive) {
		t.Errorf("status changed by denied access: %s", meta.File.Status)
	}
}

// TestDeletionFinality 删除成功后内容不可读、磁盘对象不存在、不可二次删除.
func TestDeletionFinality(t *testing.T) {
	svc, store, _ := newTestService(t, 10)
	ctx := context.Background()

	resp, err := svc.Upload(ctx, "alice", "doc.txt", "", []byte("plain text"), nil)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	key := storageKeyOf(t, svc, resp.File.ID)

	if _, err := svc.Remove(ctx, resp.File.ID, "alice"); err != nil {
		t.Fatalf("remove: %v", err)
	}

	if _, err := svc.Fetch(ctx, resp.File.ID, "alice"); !errors.Is(err, types.ErrNotAccessible) {
		t.Errorf("fetch after remove = %v, want ErrNotAccessible", err)
	}

	exists, err := store.Exists(ctx, key)
	if err != nil || exists {
		t.Errorf("object still on disk after remove: %v, %v", exists, err)
	}

	if _, err := svc.Remove(ctx, resp.File.ID, "alice"); !errors.Is(err, types.ErrInvalidTransition) {
		t.Errorf("double remove = %v, want ErrInvalidTransition", err)
	}

	// 记录保留用于审计
	meta, err := svc.GetRecordMetadata(ctx, resp.File.ID, "alice")
	if err != nil {
		t.Fatalf("meta after remove: %v", err)
	}

	if meta.File.Status != string(model.StatusDeleted) {
		t.Errorf("status = %s, want deleted", meta.File.Status)
	}
}

// TestIntegrityFaultQuarantines 磁盘内容被篡改后读取必须失败并隔离记录.
func TestIntegrityFaultQuarantines(t *testing.T) {
	svc, store, _ := newTestService(t, 10)
	ctx := context.Background()

	resp, err := svc.Upload(ctx, "alice", "note.txt", "", []byte("original content"), nil)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	key := storageKeyOf(t, svc, resp.File.ID)

	// 外部篡改磁盘内容
	if err := os.WriteFile(filepath.Join(store.Root(), key), []byte("corrupted"), 0o600); err != nil {
		t.Fatalf("tamper: %v", err)
	}

	_, err = svc.Fetch(ctx, resp.File.ID, "alice")

	var sErr *types.StorageError
	if !errors.As(err, &sErr) {
		t.Fatalf("expected StorageError, got %v", err)
	}

	if sErr.Retryable {
		t.Error("integrity fault must not be retryable")
	}

	meta, err := svc.GetRecordMetadata(ctx, resp.File.ID, "alice")
	if err != nil {
		t.Fatalf("meta: %v", err)
	}

	if meta.File.Status != string(model.StatusQuarantined) {
		t.Errorf("status = %s, want quarantined", meta.File.Status)
	}

	if _, err := svc.Fetch(ctx, resp.File.ID, "alice"); !errors.Is(err, types.ErrNotAccessible) {
		t.Errorf("fetch after quarantine = %v, want ErrNotAccessible", err)
	}
}

// TestInfectedScanQuarantines 扫描命中时记录进入隔离终态，内容不可读.
func TestInfectedScanQuarantines(t *testing.T) {
	svc, _, _ := newTestService(t, 10, WithScanner(infectedScanner{}))
	ctx := context.Background()

	_, err := svc.Upload(ctx, "alice", "danger.png", "", pngData(16), nil)
	if !errors.Is(err, types.ErrScanRejected) {
		t.Fatalf("expected ErrScanRejected, got %v", err)
	}

	list, err := svc.ListForOwner(ctx, "alice", string(model.StatusQuarantined), 0, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if list.Total != 1 {
		t.Fatalf("quarantined records = %d, want 1", list.Total)
	}

	if _, err := svc.Fetch(ctx, list.Files[0].ID, "alice"); !errors.Is(err, types.ErrNotAccessible) {
		t.Errorf("fetch quarantined = %v, want ErrNotAccessible", err)
	}
}

// TestRestartRestoresRecords 重启（以同一快照重建服务）后记录完整恢复.
func TestRestartRestoresRecords(t *testing.T) {
	svc, store, snapshotPath := newTestService(t, 10)
	ctx := context.Background()

	data := []byte("survive restarts")

	resp, err := svc.Upload(ctx, "alice", "persist.txt", "", data, nil)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	repo, err := repository.NewSnapshot(snapshotPath)
	if err != nil {
		t.Fatalf("reopen snapshot: %v", err)
	}

	restarted, err := New(ctx, store, repo, NewQuotaTracker(10, time.Hour))
	if err != nil {
		t.Fatalf("restart service: %v", err)
	}

	got, err := restarted.Fetch(ctx, resp.File.ID, "alice")
	if err != nil {
		t.Fatalf("fetch after restart: %v", err)
	}

	if !bytes.Equal(got.Data, data) {
		t.Error("restored record returned different bytes")
	}
}

// TestListForOwnerOrderingAndPaging 列表新记录在前且分页正确，不泄露他人记录.
func TestListForOwnerOrderingAndPaging(t *testing.T) {
	svc, _, _ := newTestService(t, 10)
	ctx := context.Background()

	names := []string{"one.txt", "two.txt", "three.txt"}
	for _, name := range names {
		if _, err := svc.Upload(ctx, "alice", name, "", []byte("content "+name), nil); err != nil {
			t.Fatalf("upload %s: %v", name, err)
		}
	}

	if _, err := svc.Upload(ctx, "bob", "other.txt", "", []byte("bob data"), nil); err != nil {
		t.Fatalf("upload bob: %v", err)
	}

	list, err := svc.ListForOwner(ctx, "alice", "", 2, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if list.Total != 3 || len(list.Files) != 2 {
		t.Fatalf("total=%d page=%d, want 3/2", list.Total, len(list.Files))
	}

	if list.Files[0].FileName != "three.txt" {
		t.Errorf("newest first violated: %s", list.Files[0].FileName)
	}

	rest, err := svc.ListForOwner(ctx, "alice", "", 2, 2)
	if err != nil {
		t.Fatalf("list page 2: %v", err)
	}

	if len(rest.Files) != 1 || rest.Files[0].FileName != "one.txt" {
		t.Errorf("pagination wrong: %+v", rest.Files)
	}
}

// TestIntegritySweepQuarantinesTampered 巡检发现被篡改的对象并隔离其记录，完好记录不受影响.
func TestIntegritySweepQuarantinesTampered(t *testing.T) {
	svc, store, _ := newTestService(t, 10)
	ctx := context.Background()

	good, err := svc.Upload(ctx, "alice", "good.txt", "", []byte("intact"), nil)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	bad, err := svc.Upload(ctx, "alice", "bad.txt", "", []byte("will be tampered"), nil)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	key := storageKeyOf(t, svc, bad.File.ID)
	if err := os.WriteFile(filepath.Join(store.Root(), key), []byte("tampered"), 0o600); err != nil {
		t.Fatalf("tamper: %v", err)
	}

	checked, faulted, err := svc.IntegritySweep(ctx)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}

	if checked != 2 || faulted != 1 {
		t.Errorf("checked=%d faulted=%d, want 2/1", checked, faulted)
	}

	meta, err := svc.GetRecordMetadata(ctx, bad.File.ID, "alice")
	if err != nil {
		t.Fatalf("meta: %v", err)
	}

	if meta.File.Status != string(model.StatusQuarantined) {
		t.Errorf("tampered record status = %s, want quarantined", meta.File.Status)
	}

	if _, err := svc.Fetch(ctx, good.File.ID, "alice"); err != nil {
		t.Errorf("intact record affected by sweep: %v", err)
	}
}

// TestStatsForOwner 统计按状态聚合.
func TestStatsForOwner(t *testing.T) {
	svc, _, _ := newTestService(t, 10)
	ctx := context.Background()

	a, err := svc.Upload(ctx, "alice", "keep.txt", "", []byte("keep"), nil)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if _, err := svc.Upload(ctx, "alice", "gone.txt", "", []byte("gone soon"), nil); err != nil {
		t.Fatalf("upload: %v", err)
	}

	list, _ := svc.ListForOwner(ctx, "alice", "", 0, 0)
	for _, f := range list.Files {
		if f.ID != a.File.ID {
			if _, err := svc.Remove(ctx, f.ID, "alice"); err != nil {
				t.Fatalf("remove: %v", err)
			}
		}
	}

	stats := svc.StatsForOwner(ctx, "alice")
	if stats.TotalFiles != 2 || stats.ActiveFiles != 1 || stats.DeletedFiles != 1 {
		t.Errorf("stats = %+v", stats)
	}
}
