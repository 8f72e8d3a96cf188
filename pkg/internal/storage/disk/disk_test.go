package disk

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(t.TempDir(), 0o600)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	return s
}

func checksumOf(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// TestPutGetRoundTrip 写入后读取应返回逐字节一致的内容.
func TestPutGetRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	data := []byte("hello vault")

	key, err := s.Put(ctx, data, ".txt", checksumOf(data))
	if err != nil {
		t.Fatalf("put: %v", err)
	}

	if !strings.HasSuffix(key, ".txt") {
		t.Errorf("key %q missing extension suffix", key)
	}

	got, err := s.Get(ctx, key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if string(got) != string(data) {
		t.Errorf("round trip mismatch: got %q", got)
	}
}

// TestPutGeneratesUniqueKeys 相同内容多次写入得到互不相同的键.
func TestPutGeneratesUniqueKeys(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	data := []byte("same content")
	seen := make(map[string]bool)

	for range 10 {
		key, err := s.Put(ctx, data, ".txt", "")
		if err != nil {
			t.Fatalf("put: %v", err)
		}

		if seen[key] {
			t.Fatalf("duplicate key generated: %s", key)
		}

		seen[key] = true
	}
}

// TestPutChecksumMismatchCleansUp 校验和不匹配时拒绝写入且不留残留文件.
func TestPutChecksumMismatchCleansUp(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Put(ctx, []byte("content"), ".txt", strings.Repeat("0", 64))
	if !errors.Is(err, ErrIntegrity) {
		t.Fatalf("expected ErrIntegrity, got %v", err)
	}

	entries, err := os.ReadDir(s.Root())
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}

	if len(entries) != 0 {
		t.Errorf("partial file left behind: %v", entries)
	}
}

// TestPutStripsExecBits 落盘文件不得带任何可执行位.
func TestPutStripsExecBits(t *testing.T) {
	s, err := Open(t.TempDir(), 0o755)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	ctx := context.Background()

	key, err := s.Put(ctx, []byte("data"), "", "")
	if err != nil {
		t.Fatalf("put: %v", err)
	}

	info, err := os.Stat(filepath.Join(s.Root(), key))
	if err != nil {
		t.Fatalf("stat: %v", err)
	}

	if info.Mode().Perm()&0o111 != 0 {
		t.Errorf("stored file has exec bits: %v", info.Mode())
	}
}

// TestGetRefusesExecutableBit 带可执行位的对象必须拒绝读取.
func TestGetRefusesExecutableBit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	key, err := s.Put(ctx, []byte("data"), "", "")
	if err != nil {
		t.Fatalf("put: %v", err)
	}

	// 模拟越权修改：在存储层之外给对象加上可执行位
	if err := os.Chmod(filepath.Join(s.Root(), key), 0o700); err != nil {
		t.Fatalf("chmod: %v", err)
	}

	if _, err := s.Get(ctx, key); !errors.Is(err, ErrExecutable) {
		t.Errorf("expected ErrExecutable, got %v", err)
	}
}

// TestGetRefusesExecutableSignature 内容被替换为可执行签名时拒绝读取.
func TestGetRefusesExecutableSignature(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	key, err := s.Put(ctx, []byte("benign"), "", "")
	if err != nil {
		t.Fatalf("put: %v", err)
	}

	// 模拟磁盘篡改：对象内容被换成 ELF 头
	path := filepath.Join(s.Root(), key)
	if err := os.WriteFile(path, []byte{0x7F, 0x45, 0x4C, 0x46, 0x02}, 0o600); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	if _, err := s.Get(ctx, key); !errors.Is(err, ErrExecutable) {
		t.Errorf("expected ErrExecutable, got %v", err)
	}
}

// TestInvalidKeysRejected 非法键在所有入口都必须被独立拒绝.
func TestInvalidKeysRejected(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	keys := []string{
		"",
		"../../etc/passwd",
		"..",
		"subdir/object",
		`subdir\object`,
		"not-a-uuid.txt",
		"2f9d51f0-0000-0000-0000-000000000000.EXE",  // 扩展名必须小写
		"2f9d51f0-0000-0000-0000-000000000000.t.xt", // 多段扩展名
	}

	for _, key := range keys {
		if _, err := s.Get(ctx, key); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("Get(%q) = %v, want ErrInvalidKey", key, err)
		}

		if err := s.Remove(ctx, key); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("Remove(%q) = %v, want ErrInvalidKey", key, err)
		}
	}
}

// TestRemoveThenGet 删除后读取返回 ErrNotFound，重复删除同样.
func TestRemoveThenGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	key, err := s.Put(ctx, []byte("data"), ".pdf", "")
	if err != nil {
		t.Fatalf("put: %v", err)
	}

	if err := s.Remove(ctx, key); err != nil {
		t.Fatalf("remove: %v", err)
	}

	if _, err := s.Get(ctx, key); !errors.Is(err, ErrNotFound) {
		t.Errorf("get after remove = %v, want ErrNotFound", err)
	}

	if err := s.Remove(ctx, key); !errors.Is(err, ErrNotFound) {
		t.Errorf("double remove = %v, want ErrNotFound", err)
	}
}

// TestExistsAndStat Exists/Stat 的存在与不存在路径.
func TestExistsAndStat(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	data := []byte("sized content")

	key, err := s.Put(ctx, data, "", "")
	if err != nil {
		t.Fatalf("put: %v", err)
	}

	ok, err := s.Exists(ctx, key)
	if err != nil || !ok {
		t.Errorf("exists = %v, %v; want true", ok, err)
	}

	info, err := s.Stat(ctx, key)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}

	if info.Size != int64(len(data)) {
		t.Errorf("stat size = %d, want %d", info.Size, len(data))
	}

	missing := NewKey(".txt")

	if ok, err := s.Exists(ctx, missing); err != nil || ok {
		t.Errorf("exists(missing) = %v, %v; want false", ok, err)
	}

	if _, err := s.Stat(ctx, missing); !errors.Is(err, ErrNotFound) {
		t.Errorf("stat(missing) = %v, want ErrNotFound", err)
	}
}

// TestVerifyChecksum 完整性校验：匹配通过，篡改后返回 ErrIntegrity.
func TestVerifyChecksum(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	data := []byte("integrity matters")
	sum := checksumOf(data)

	key, err := s.Put(ctx, data, "", sum)
	if err != nil {
		t.Fatalf("put: %v", err)
	}

	if err := s.VerifyChecksum(ctx, key, sum); err != nil {
		t.Errorf("verify clean object: %v", err)
	}

	path := filepath.Join(s.Root(), key)
	if err := os.WriteFile(path, []byte("tampered"), 0o600); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	if err := s.VerifyChecksum(ctx, key, sum); !errors.Is(err, ErrIntegrity) {
		t.Errorf("verify tampered = %v, want ErrIntegrity", err)
	}
}

// TestValidateKey 键格式校验的合法与非法样例.
func TestValidateKey(t *testing.T) {
	if err := ValidateKey(NewKey(".png")); err != nil {
		t.Errorf("generated key must validate: %v", err)
	}

	if err := ValidateKey(NewKey("")); err != nil {
		t.Errorf("extension-less key must validate: %v", err)
	}

	if err := ValidateKey("0b5e7a0e-9c4d-4c8f-8a6e-0a1b2c3d4e5f"); err != nil {
		t.Errorf("bare uuid must validate: %v", err)
	}
}
