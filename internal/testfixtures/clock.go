// Package testfixtures 提供测试用的可控时钟、确定性 ID 与内存版 Repository
package testfixtures

import (
	"sync"
	"time"
)

// ReferenceTime 测试默认起始时间
func ReferenceTime() time.Time {
	return time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)
}

// Clock 可控时钟
type Clock struct {
	mu      sync.Mutex
	current time.Time
}

// NewClock start 为零值时使用 ReferenceTime
func NewClock(start time.Time) *Clock {
	if start.IsZero() {
		start = ReferenceTime()
	}
	return &Clock{current: start}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	c.current = t
	c.mu.Unlock()
}

// Advance 拨快时钟并返回新时间
func (c *Clock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
	return c.current
}
