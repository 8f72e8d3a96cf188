// Package service 实现文件保管库的业务逻辑.
//
// UploadService 是唯一的写入协调者：配额、校验、扫描、落盘、元数据
// 持久化的先后顺序都由它裁定.校验层与存储层只返回结构化结果，
// 是否记安全日志、是否发审计事件由这里统一决定.
package service

import (
	"context"
	crand "crypto/rand"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid"

	"github.com/yeisme/docvault/pkg/configs"
	ctxPkg "github.com/yeisme/docvault/pkg/context"
	"github.com/yeisme/docvault/pkg/internal/model"
	"github.com/yeisme/docvault/pkg/internal/repository"
	"github.com/yeisme/docvault/pkg/internal/storage/disk"
	"github.com/yeisme/docvault/pkg/internal/storage/mq"
	"github.com/yeisme/docvault/pkg/internal/validation"
	nlog "github.com/yeisme/docvault/pkg/log"
)

// 全局单例的 ULID 熵源，使用单调递增策略，确保同一毫秒内生成的 ULID 具有排序稳定性。
var ulidEntropy = ulid.Monotonic(crand.Reader, 0)

// UploadService 上传协调者.内存中持有全量记录索引，
// 任何变更先改索引、再全量持久化快照，成功后才对调用方可见.
type UploadService struct {
	mu      sync.RWMutex
	records map[string]*model.FileRecord

	validator *validation.Validator
	store     *disk.Store
	repo      repository.Repository
	scanner   Scanner
	quota     *QuotaTracker

	mqClient *mq.Client
	events   configs.EventsConfig
}

// Option UploadService 可选配置.
type Option func(*UploadService)

// WithScanner 替换安全扫描器.
func WithScanner(s Scanner) Option {
	return func(svc *UploadService) { svc.scanner = s }
}

// WithMQ 注入消息客户端与事件开关.
func WithMQ(client *mq.Client, events configs.EventsConfig) Option {
	return func(svc *UploadService) {
		svc.mqClient = client
		svc.events = events
	}
}

// WithValidator 替换内容校验器.
func WithValidator(v *validation.Validator) Option {
	return func(svc *UploadService) { svc.validator = v }
}

// New 以显式依赖创建服务并从仓库恢复索引.
func New(ctx context.Context, store *disk.Store, repo repository.Repository,
	quota *QuotaTracker, opts ...Option,
) (*UploadService, error) {
	if store == nil || repo == nil || quota == nil {
		return nil, fmt.Errorf("service: store, repository and quota are required")
	}

	svc := &UploadService{
		records:   make(map[string]*model.FileRecord),
		validator: validation.New(),
		store:     store,
		repo:      repo,
		scanner:   NewNoopScanner(),
		quota:     quota,
	}

	for _, opt := range opts {
		opt(svc)
	}

	loaded, err := repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: restore records: %w", err)
	}

	for i := range loaded {
		rec := loaded[i]
		svc.records[rec.ID] = &rec
	}

	nlog.Logger().Info().Int("records", len(svc.records)).Msg("upload service restored")

	return svc, nil
}

// NewUploadService 从上下文与全局配置装配服务.
func NewUploadService(ctx context.Context) (*UploadService, error) {
	cfg := configs.GetConfig()

	store := ctxPkg.GetStoreClient(ctx)
	if store == nil {
		return nil, fmt.Errorf("service: disk store not initialized")
	}

	var (
		repo repository.Repository
		err  error
	)

	switch cfg.Store.MetadataBackend {
	case "db":
		repo, err = repository.NewGorm(ctxPkg.GetDBClient(ctx))
	default:
		repo, err = repository.NewSnapshot(cfg.Store.SnapshotPath)
	}

	if err != nil {
		return nil, err
	}

	quota := NewQuotaTracker(cfg.Upload.QuotaMaxUploads, cfg.Upload.GetQuotaWindow())

	opts := []Option{
		WithValidator(validation.New(
			validation.WithMaxSize(cfg.Upload.MaxFileSize),
			validation.WithAllowedExtensions(cfg.Upload.AllowedExtensions),
		)),
	}

	if mqc := ctxPkg.GetMQClient(ctx); mqc != nil {
		opts = append(opts, WithMQ(mqc, cfg.Events))
	}

	return New(ctx, store, repo, quota, opts...)
}

var (
	sharedOnce sync.Once
	sharedInst *UploadService
	sharedErr  error
)

// Shared 返回进程级共享的服务实例.服务内部持有全量记录索引，
// 必须全局唯一，HTTP 处理器与定时任务共用同一实例.
func Shared(ctx context.Context) (*UploadService, error) {
	sharedOnce.Do(func() {
		sharedInst, sharedErr = NewUploadService(ctx)
	})

	return sharedInst, sharedErr
}

// newRecordID 生成按时间可排序的记录 ID.
// 使用单例熵源以支持同一毫秒内的单调递增。
func newRecordID(t time.Time) string {
	return ulid.MustNew(ulid.Timestamp(t), ulidEntropy).String()
}

// lookup 按 ID 取记录.调用方必须至少持有读锁.
func (s *UploadService) lookup(id string) *model.FileRecord {
	return s.records[id]
}

// persistLocked 全量持久化快照.调用方必须持有写锁.
func (s *UploadService) persistLocked(ctx context.Context) error {
	snapshot := make([]model.FileRecord, 0, len(s.records))
	for _, rec := range s.records {
		snapshot = append(snapshot, *rec)
	}

	// 稳定排序保证快照内容可复现，便于 diff 与备份
	sort.Slice(snapshot, func(i, j int) bool {
		if snapshot[i].CreatedAt.Equal(snapshot[j].CreatedAt) {
			return snapshot[i].ID < snapshot[j].ID
		}

		return snapshot[i].CreatedAt.Before(snapshot[j].CreatedAt)
	})

	return s.repo.SaveAll(ctx, snapshot)
}

// Quota 返回配额跟踪器，供状态查询接口使用.
func (s *UploadService) Quota() *QuotaTracker {
	return s.quota
}

// Store 返回底层磁盘存储，供巡检任务使用.
func (s *UploadService) Store() *disk.Store {
	return s.store
}
