package tracker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const testProductURL = "https://www.zara.com/uk/en/wool-coat-p01234567.html"

func TestObserve(t *testing.T) {
	t.Run("첫 관측", func(t *testing.T) {
		tr := New(24 * time.Hour)
		assert.Equal(t, EventFirstCheck, tr.Observe(testProductURL, false))
	})

	t.Run("상태 유지", func(t *testing.T) {
		tr := New(24 * time.Hour)
		tr.MarkNotified(testProductURL, false)
		assert.Equal(t, EventNone, tr.Observe(testProductURL, false))
	})

	t.Run("상태 변화", func(t *testing.T) {
		tr := New(24 * time.Hour)
		tr.MarkNotified(testProductURL, false)
		assert.Equal(t, EventStateChanged, tr.Observe(testProductURL, true))

		tr.MarkNotified(testProductURL, true)
		assert.Equal(t, EventStateChanged, tr.Observe(testProductURL, false))
	})

	t.Run("알림 주기 경과", func(t *testing.T) {
		tr := New(24 * time.Hour)

		current := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
		tr.now = func() time.Time { return current }

		tr.MarkNotified(testProductURL, true)
		assert.Equal(t, EventNone, tr.Observe(testProductURL, true))

		// 24시간 경과 전에는 알림이 발생하지 않습니다.
		current = current.Add(23 * time.Hour)
		assert.Equal(t, EventNone, tr.Observe(testProductURL, true))

		current = current.Add(2 * time.Hour)
		assert.Equal(t, EventHeartbeat, tr.Observe(testProductURL, true))

		// 알림 주기 알림 이후에는 다시 주기가 초기화됩니다.
		tr.MarkNotified(testProductURL, true)
		assert.Equal(t, EventNone, tr.Observe(testProductURL, true))
	})

	t.Run("상품별 독립 추적", func(t *testing.T) {
		tr := New(24 * time.Hour)
		tr.MarkNotified(testProductURL, true)

		assert.Equal(t, EventFirstCheck, tr.Observe("https://www.zara.com/uk/en/other-p07654321.html", true))
		assert.Equal(t, EventNone, tr.Observe(testProductURL, true))
	})
}

func TestMarkNotifiedNotCalled(t *testing.T) {
	// 알림 전송에 실패하여 MarkNotified가 호출되지 않으면 다음 관측에서도 같은 판정이 나옵니다.
	tr := New(24 * time.Hour)
	assert.Equal(t, EventFirstCheck, tr.Observe(testProductURL, true))
	assert.Equal(t, EventFirstCheck, tr.Observe(testProductURL, true))
}
