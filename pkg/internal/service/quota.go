package service

import (
	"sync"
	"time"
)

// quotaEntry 单个用户的窗口计数.
type quotaEntry struct {
	count       int
	windowStart time.Time
}

// QuotaTracker 按用户统计窗口内的上传次数.
// 采用计数器加窗口起点的惰性重置：下次检查时发现窗口已过就归零，
// 无需后台清扫协程.
type QuotaTracker struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	users  map[string]*quotaEntry
	now    func() time.Time
}

// NewQuotaTracker 创建配额跟踪器.
func NewQuotaTracker(limit int, window time.Duration) *QuotaTracker {
	return &QuotaTracker{
		limit:  limit,
		window: window,
		users:  make(map[string]*quotaEntry),
		now:    time.Now,
	}
}

// Check 检查用户是否还有配额.不消耗配额；超限时返回剩余等待时长.
func (q *QuotaTracker) Check(user string) (ok bool, retryAfter time.Duration) {
	q.mu.Lock()
	defer q.mu.Unlock()

	entry := q.entry(user)
	if entry.count < q.limit {
		return true, 0
	}

	return false, q.window - q.now().Sub(entry.windowStart)
}

// Consume 消耗一次配额.仅在上传完全成功（含快照持久化）后调用.
func (q *QuotaTracker) Consume(user string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.entry(user).count++
}

// Status 返回用户当前窗口的使用情况.
func (q *QuotaTracker) Status(user string) (used, limit int, resetAfter time.Duration) {
	q.mu.Lock()
	defer q.mu.Unlock()

	entry := q.entry(user)

	return entry.count, q.limit, q.window - q.now().Sub(entry.windowStart)
}

// Limit 返回窗口内的上传上限.
func (q *QuotaTracker) Limit() int {
	return q.limit
}

// Window 返回窗口长度.
func (q *QuotaTracker) Window() time.Duration {
	return q.window
}

// Prune 移除窗口已过期的用户条目，返回移除数量.
// 惰性重置已保证计数正确，Prune 只负责回收长期不活跃用户占用的内存.
func (q *QuotaTracker) Prune() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	now := q.now()
	removed := 0

	for user, entry := range q.users {
		if now.Sub(entry.windowStart) >= q.window {
			delete(q.users, user)
			removed++
		}
	}

	return removed
}

// entry 取出用户条目并惰性重置过期窗口.调用方必须持有锁.
func (q *QuotaTracker) entry(user string) *quotaEntry {
	now := q.now()

	entry, ok := q.users[user]
	if !ok || now.Sub(entry.windowStart) >= q.window {
		entry = &quotaEntry{windowStart: now}
		q.users[user] = entry
	}

	return entry
}
