package tui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoopScheduler_DeliversThroughWait(t *testing.T) {
	s := newLoopScheduler()
	defer s.close()

	ran := false
	s.AfterFunc(time.Millisecond, func() { ran = true })

	msg := s.wait()()
	fired, ok := msg.(MsgTimerFired)
	require.True(t, ok)
	assert.False(t, ran, "callback waits for the update loop")

	fired.timer.run()
	assert.True(t, ran)
}

func TestLoopTimer_StopCancelsQueuedCallback(t *testing.T) {
	s := newLoopScheduler()
	defer s.close()

	ran := false
	timer := s.AfterFunc(time.Millisecond, func() { ran = true })
	msg := s.wait()()

	assert.False(t, timer.Stop(), "already fired")
	msg.(MsgTimerFired).timer.run()

	assert.False(t, ran)
}

func TestLoopTimer_StopBeforeFire(t *testing.T) {
	s := newLoopScheduler()
	defer s.close()

	timer := s.AfterFunc(time.Hour, func() {})

	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())
}

func TestLoopScheduler_CloseReleasesWait(t *testing.T) {
	s := newLoopScheduler()
	s.close()
	s.close()

	assert.Nil(t, s.wait()())
}

func TestModel_AckDismissedOnUpdateLoop(t *testing.T) {
	c, _ := newTestContainer(t, seedComments()...)
	c.AppConfig.Discussion.AckDelay = 10 * time.Millisecond
	m := openModel(t, c)

	press(m, runes("l"))
	require.Len(t, m.Engine().Acks().Active(), 1)
	assert.Contains(t, m.View(), "✓ Comment liked")

	msg := m.Init()()
	_, cmd := m.Update(msg)

	assert.Empty(t, m.Engine().Acks().Active())
	assert.NotContains(t, m.View(), "Comment liked")
	assert.NotNil(t, cmd, "listener is re-armed")
}
