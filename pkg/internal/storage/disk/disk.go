// Package disk 实现本地磁盘安全存储.
//
// 对象以随机 UUID 键命名，扁平存放在单一根目录下.写入使用 O_EXCL 独占创建，
// 落盘后重新读取校验大小与 SHA-256，任何校验失败都会清理残留文件.
// 读取前强制检查可执行位与可执行签名，存储根目录之外的路径永远不可达.
package disk

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/yeisme/docvault/pkg/configs"
	"github.com/yeisme/docvault/pkg/internal/validation"
	nlog "github.com/yeisme/docvault/pkg/log"
)

var (
	// ErrInvalidKey 存储键格式非法.
	ErrInvalidKey = errors.New("disk: invalid storage key")
	// ErrNotFound 对象不存在.
	ErrNotFound = errors.New("disk: object not found")
	// ErrExecutable 对象带可执行位或可执行签名，拒绝读取.
	ErrExecutable = errors.New("disk: object failed executable check")
	// ErrIntegrity 内容完整性校验失败（大小或校验和不匹配）.
	ErrIntegrity = errors.New("disk: content integrity verification failed")
)

// 键碰撞时的重试次数.UUID 碰撞概率可忽略，重试仅做兜底.
const maxKeyRetries = 3

// ObjectInfo 存储对象的基础信息.
type ObjectInfo struct {
	Key     string    `json:"key"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

// Store 本地磁盘存储客户端.
type Store struct {
	root string
	perm os.FileMode
}

// New 按配置初始化磁盘存储，根目录不存在时创建.
func New(_ context.Context) (*Store, error) {
	cfg := configs.GetConfig().Store

	perm := os.FileMode(cfg.FileMode)
	if perm == 0 {
		perm = 0o600
	}

	s, err := Open(cfg.Root, perm)
	if err != nil {
		return nil, err
	}

	nlog.Logger().Info().Str("root", s.root).Str("perm", perm.String()).Msg("disk store opened")

	return s, nil
}

// Open 在指定根目录上打开存储.写入权限会强制去掉可执行位.
func Open(root string, perm os.FileMode) (*Store, error) {
	if root == "" {
		return nil, fmt.Errorf("disk: storage root is required")
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("disk: resolve root: %w", err)
	}

	if err := os.MkdirAll(abs, 0o700); err != nil {
		return nil, fmt.Errorf("disk: create root: %w", err)
	}

	return &Store{
		root: abs,
		perm: perm &^ 0o111,
	}, nil
}

// Root 返回存储根目录绝对路径.
func (s *Store) Root() string {
	return s.root
}

// Put 写入新对象并返回生成的存储键.
//
// checksum 为内容的 SHA-256（hex），作为落盘后校验的比对基准；
// 传空串时以内存内容现算.写入失败或校验失败时清理残留文件，
// 保证磁盘上不存在部分写入的对象.
func (s *Store) Put(_ context.Context, data []byte, ext, checksum string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("disk: refusing to store empty content")
	}

	if checksum == "" {
		sum := sha256.Sum256(data)
		checksum = hex.EncodeToString(sum[:])
	}

	var lastErr error

	for range maxKeyRetries {
		key := NewKey(ext)

		path, err := s.resolve(key)
		if err != nil {
			return "", err
		}

		// O_EXCL 独占创建：键已存在时绝不覆盖，重新生成键
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, s.perm)
		if err != nil {
			if os.IsExist(err) {
				lastErr = err
				continue
			}

			return "", fmt.Errorf("disk: create object: %w", err)
		}

		if err := writeAndSync(f, data); err != nil {
			s.discard(key, path)
			return "", fmt.Errorf("disk: write object: %w", err)
		}

		if err := s.verify(path, int64(len(data)), checksum); err != nil {
			s.discard(key, path)
			return "", err
		}

		return key, nil
	}

	return "", fmt.Errorf("disk: storage key collision persisted: %w", lastErr)
}

// Get 读取对象内容.读取前检查可执行位，读取后检查可执行签名，
// 任一命中都拒绝返回内容.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	path, err := s.resolve(key)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("disk: stat object: %w", err)
	}

	if info.Mode().Perm()&0o111 != 0 {
		nlog.Logger().Warn().Str("key", key).Str("mode", info.Mode().String()).
			Msg("object has executable bits set, refusing read")

		return nil, ErrExecutable
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("disk: read object: %w", err)
	}

	if desc := validation.DetectExecutable(data); desc != "" {
		nlog.Logger().Warn().Str("key", key).Str("signature", desc).
			Msg("object carries executable signature, refusing read")

		return nil, ErrExecutable
	}

	return data, nil
}

// Remove 删除对象.对象不存在返回 ErrNotFound.
func (s *Store) Remove(_ context.Context, key string) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}

		return fmt.Errorf("disk: remove object: %w", err)
	}

	return nil
}

// Exists 判断对象是否存在.
func (s *Store) Exists(_ context.Context, key string) (bool, error) {
	path, err := s.resolve(key)
	if err != nil {
		return false, err
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}

		return false, fmt.Errorf("disk: stat object: %w", err)
	}

	return true, nil
}

// Stat 返回对象的基础信息.
func (s *Store) Stat(_ context.Context, key string) (*ObjectInfo, error) {
	path, err := s.resolve(key)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("disk: stat object: %w", err)
	}

	return &ObjectInfo{Key: key, Size: info.Size(), ModTime: info.ModTime()}, nil
}

// VerifyChecksum 重新读取对象并比对 SHA-256，供读取校验与巡检任务复用.
func (s *Store) VerifyChecksum(_ context.Context, key, want string) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}

		return fmt.Errorf("disk: read object: %w", err)
	}

	sum := sha256.Sum256(data)
	if hex.EncodeToString(sum[:]) != want {
		return ErrIntegrity
	}

	return nil
}

// HealthCheck 验证存储根目录可写.
func (s *Store) HealthCheck(_ context.Context) error {
	f, err := os.CreateTemp(s.root, ".health-*")
	if err != nil {
		return fmt.Errorf("disk: storage root not writable: %w", err)
	}

	name := f.Name()
	_ = f.Close()

	return os.Remove(name)
}

// Close 关闭存储（本地磁盘无连接，接口兼容）.
func (s *Store) Close() error {
	return nil
}

// resolve 校验键并解析为根目录下的绝对路径.
// 双重防线：键格式校验之后再验证结果路径确实位于根目录内.
func (s *Store) resolve(key string) (string, error) {
	if err := ValidateKey(key); err != nil {
		return "", err
	}

	path := filepath.Join(s.root, key)
	if filepath.Dir(path) != s.root {
		return "", ErrInvalidKey
	}

	return path, nil
}

// verify 落盘后重新读取对象，校验大小与校验和一致.
func (s *Store) verify(path string, size int64, checksum string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("disk: verify stat: %w", err)
	}

	if info.Size() != size {
		return fmt.Errorf("%w: size %d != %d", ErrIntegrity, info.Size(), size)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("disk: verify read: %w", err)
	}

	sum := sha256.Sum256(data)
	if hex.EncodeToString(sum[:]) != checksum {
		return fmt.Errorf("%w: checksum mismatch after write", ErrIntegrity)
	}

	return nil
}

// discard 清理写入失败的残留文件.
func (s *Store) discard(key, path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		nlog.Logger().Error().Err(err).Str("key", key).Msg("failed to clean up partial object")
	}
}

// writeAndSync 写入全部内容并 fsync 后关闭.
func writeAndSync(f *os.File, data []byte) error {
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
