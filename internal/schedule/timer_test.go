package schedule

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleRejectsNonPositiveDelay(t *testing.T) {
	s := NewTimerScheduler()
	defer s.ClearAll()

	_, ok := s.Schedule(1, 0, func() {})
	assert.False(t, ok)

	_, ok = s.Schedule(1, -time.Second, func() {})
	assert.False(t, ok)
	assert.Equal(t, 0, s.Pending())
}

func TestScheduleFires(t *testing.T) {
	s := NewTimerScheduler()
	defer s.ClearAll()

	var fired atomic.Int32
	_, ok := s.Schedule(1, 10*time.Millisecond, func() { fired.Add(1) })
	require.True(t, ok)

	assert.Eventually(t, func() bool { return fired.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, s.Pending())
}

func TestCancelPreventsFiring(t *testing.T) {
	s := NewTimerScheduler()
	defer s.ClearAll()

	var fired atomic.Int32
	handle, ok := s.Schedule(1, 20*time.Millisecond, func() { fired.Add(1) })
	require.True(t, ok)

	s.Cancel(handle)
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, int32(0), fired.Load())
	assert.Equal(t, 0, s.Pending())
}

func TestCancelHabitDropsAllHandles(t *testing.T) {
	s := NewTimerScheduler()
	defer s.ClearAll()

	var fired atomic.Int32
	for i := 0; i < 3; i++ {
		s.Schedule(7, 20*time.Millisecond, func() { fired.Add(1) })
	}
	s.Schedule(8, 20*time.Millisecond, func() { fired.Add(1) })

	s.CancelHabit(7)
	assert.Equal(t, 1, s.Pending())

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(1), fired.Load())
}

func TestClearAllWaitsForInFlightCallback(t *testing.T) {
	s := NewTimerScheduler()

	started := make(chan struct{})
	var done atomic.Int32
	_, ok := s.Schedule(1, 5*time.Millisecond, func() {
		close(started)
		time.Sleep(30 * time.Millisecond)
		done.Add(1)
	})
	require.True(t, ok)

	<-started
	s.ClearAll()

	// 已进入执行的回调在 ClearAll 返回前跑完
	assert.Equal(t, int32(1), done.Load())
}

func TestClearAllIsTerminal(t *testing.T) {
	s := NewTimerScheduler()

	var fired atomic.Int32
	s.Schedule(1, 20*time.Millisecond, func() { fired.Add(1) })
	s.Schedule(2, 20*time.Millisecond, func() { fired.Add(1) })

	s.ClearAll()

	// 已登记的任务不再触发，新登记被拒绝
	_, ok := s.Schedule(3, 10*time.Millisecond, func() { fired.Add(1) })
	assert.False(t, ok)

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())
	assert.Equal(t, 0, s.Pending())
}
