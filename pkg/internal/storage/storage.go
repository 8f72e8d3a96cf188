// Package storage 聚合应用的存储资源：本地磁盘对象存储、元数据数据库、
// 消息队列与键值缓存.
//
// Example:
//
// 初始化
//
//	 ctx := context.Background()
//	 mgr, err := storage.Init(ctx)
//
//		if err != nil {
//		    // 处理错误
//		}
//
// 获取存储客户端
//
//	store := mgr.GetStoreClient()
//	dbClient := mgr.GetDBClient()
package storage

import (
	"context"
	"sync"

	"github.com/yeisme/docvault/pkg/configs"
	dbc "github.com/yeisme/docvault/pkg/internal/storage/db"
	diskc "github.com/yeisme/docvault/pkg/internal/storage/disk"
	kvc "github.com/yeisme/docvault/pkg/internal/storage/kv"
	mqc "github.com/yeisme/docvault/pkg/internal/storage/mq"
	nlog "github.com/yeisme/docvault/pkg/log"
)

// Manager 聚合所有存储资源.
type Manager struct {
	Store *diskc.Store
	DB    *dbc.Client
	MQ    *mqc.Client
	KV    *kvc.Client
}

var (
	mgr     *Manager
	mgrOnce sync.Once
)

// Init 初始化默认存储，使用全局配置.重复调用只返回已初始化实例.
// 磁盘存储与数据库是硬依赖，MQ 仅在事件系统启用时初始化.
func Init(ctx context.Context) (*Manager, error) {
	var err error

	mgrOnce.Do(func() {
		cfg := configs.GetConfig()
		m := &Manager{}

		// 磁盘对象存储
		if store, e := diskc.New(ctx); e != nil {
			err = e

			return
		} else {
			m.Store = store
		}

		// 元数据数据库
		if dbi, e := dbc.New(ctx); e != nil {
			err = e

			return
		} else {
			m.DB = dbi
		}

		// MQ：事件系统关闭时不建立连接
		if cfg.Events.Enabled {
			if mqi, e := mqc.New(ctx); e != nil {
				err = e

				return
			} else {
				m.MQ = mqi
			}
		}

		// KV 缓存
		if kvi, e := kvc.NewKVClient(ctx); e != nil {
			err = e

			return
		} else {
			m.KV = kvi
		}

		mgr = m

		nlog.Logger().Info().Msg("storage manager initialized")
	})

	return mgr, err
}

// GetStoreClient 获取磁盘存储客户端.
func (m *Manager) GetStoreClient() *diskc.Store {
	return m.Store
}

// GetDBClient 获取 DB 客户端.
func (m *Manager) GetDBClient() *dbc.Client {
	return m.DB
}

// GetMQClient 获取 MQ 客户端，事件系统关闭时为 nil.
func (m *Manager) GetMQClient() *mqc.Client {
	return m.MQ
}

// GetKVClient 获取 KV 客户端.
func (m *Manager) GetKVClient() *kvc.Client {
	return m.KV
}

// Close 依次关闭全部存储资源.
func (m *Manager) Close() error {
	var firstErr error

	if m.MQ != nil {
		if err := m.MQ.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if m.KV != nil {
		if err := m.KV.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if m.Store != nil {
		if err := m.Store.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
