package schedule

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"HabitPulse/pkg/logger"
)

// 进程内定时调度器。
// 每个习惯持有一组定时器句柄；重排时先原子取消旧句柄再登记新句柄，
// 保证同一逻辑提醒不会重复触发。

// Handle 单个定时任务的句柄
type Handle struct {
	habitID int64
	seq     int64
}

// Scheduler 调度端口，进程内实现为 TimerScheduler
type Scheduler interface {
	Schedule(habitID int64, delay time.Duration, fn func()) (Handle, bool)
	Cancel(handle Handle)
	CancelHabit(habitID int64)
	ClearAll()
}

type timerEntry struct {
	timer *time.Timer
}

// TimerScheduler time.AfterFunc 实现
type TimerScheduler struct {
	mu      sync.Mutex
	nextSeq int64
	timers  map[int64]map[int64]*timerEntry // habitID -> seq -> entry
	running sync.WaitGroup                  // 进行中的回调
	closed  bool
}

func NewTimerScheduler() *TimerScheduler {
	return &TimerScheduler{
		timers: make(map[int64]map[int64]*timerEntry),
	}
}

// Schedule 登记一个延迟任务。
// delay <= 0 的任务直接丢弃，返回 false，不触发也不重试。
func (s *TimerScheduler) Schedule(habitID int64, delay time.Duration, fn func()) (Handle, bool) {
	if delay <= 0 {
		return Handle{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return Handle{}, false
	}

	s.nextSeq++
	seq := s.nextSeq
	handle := Handle{habitID: habitID, seq: seq}

	entry := &timerEntry{}
	entry.timer = time.AfterFunc(delay, func() {
		// 先摘除句柄再执行，ClearAll 之后的回调不会走到这里
		if !s.take(habitID, seq) {
			return
		}
		defer s.running.Done()
		fn()
	})

	if s.timers[habitID] == nil {
		s.timers[habitID] = make(map[int64]*timerEntry)
	}
	s.timers[habitID][seq] = entry

	return handle, true
}

// take 摘除句柄，返回任务是否仍然有效。
// 成功摘除的同时在锁内登记为进行中，ClearAll 据此等待回调结束。
func (s *TimerScheduler) take(habitID, seq int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, ok := s.timers[habitID]
	if !ok {
		return false
	}
	if _, ok := entries[seq]; !ok {
		return false
	}

	delete(entries, seq)
	if len(entries) == 0 {
		delete(s.timers, habitID)
	}
	s.running.Add(1)
	return true
}

// Cancel 取消单个句柄，对已触发或已取消的句柄为空操作
func (s *TimerScheduler) Cancel(handle Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, ok := s.timers[handle.habitID]
	if !ok {
		return
	}
	entry, ok := entries[handle.seq]
	if !ok {
		return
	}

	entry.timer.Stop()
	delete(entries, handle.seq)
	if len(entries) == 0 {
		delete(s.timers, handle.habitID)
	}
}

// CancelHabit 原子取消习惯名下的全部句柄，重排前必须调用
func (s *TimerScheduler) CancelHabit(habitID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, entry := range s.timers[habitID] {
		entry.timer.Stop()
	}
	delete(s.timers, habitID)
}

// ClearAll 释放全部句柄并拒绝后续登记。
// 等待进行中的回调结束后才返回，返回后不会再有任何回调执行。
func (s *TimerScheduler) ClearAll() {
	s.mu.Lock()
	count := 0
	for habitID, entries := range s.timers {
		for _, entry := range entries {
			entry.timer.Stop()
			count++
		}
		delete(s.timers, habitID)
	}
	s.closed = true
	s.mu.Unlock()

	// 锁外等待，回调内不再需要拿锁
	s.running.Wait()

	logger.Logger.Info("All reminder timers cleared", zap.Int("count", count))
}

// Pending 当前未触发的句柄总数
func (s *TimerScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, entries := range s.timers {
		count += len(entries)
	}
	return count
}
