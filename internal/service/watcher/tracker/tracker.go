// Package tracker 상품별 재고 상태의 변화를 추적하여 알림 전송 여부를 결정합니다.
//
// 상태는 메모리에만 유지되므로 프로세스 재시작 시 모든 상품은 처음 관측된 것으로
// 취급되어 첫 확인 결과에 대한 알림이 다시 전송됩니다.
package tracker

import (
	"sync"
	"time"
)

// Event 재고 상태 관측에 대한 알림 판정 결과입니다.
type Event int

const (
	// EventNone 알림이 필요하지 않은 경우
	EventNone Event = iota

	// EventFirstCheck 처음 관측된 상품인 경우
	EventFirstCheck

	// EventStateChanged 재고 상태가 직전 관측과 달라진 경우
	EventStateChanged

	// EventHeartbeat 상태 변화는 없지만 마지막 알림 이후 알림 주기가 지난 경우
	EventHeartbeat
)

func (e Event) String() string {
	switch e {
	case EventNone:
		return "None"
	case EventFirstCheck:
		return "FirstCheck"
	case EventStateChanged:
		return "StateChanged"
	case EventHeartbeat:
		return "Heartbeat"
	default:
		return "Unknown"
	}
}

// record 상품 하나에 대한 마지막 관측 상태입니다.
type record struct {
	lastInStock    bool
	lastNotifiedAt time.Time
}

// Tracker 상품별 재고 상태 변화 추적기입니다. 동시 호출에 안전합니다.
type Tracker struct {
	heartbeat time.Duration

	mu      sync.Mutex
	records map[string]*record

	// now 테스트에서 시간을 제어하기 위한 후크
	now func() time.Time
}

// New 새로운 Tracker를 생성합니다.
//
// heartbeat은 상태 변화가 없어도 주기적으로 알림을 보내는 간격입니다.
func New(heartbeat time.Duration) *Tracker {
	return &Tracker{
		heartbeat: heartbeat,
		records:   make(map[string]*record),
		now:       time.Now,
	}
}

// Observe 상품의 현재 재고 상태를 관측하고 알림 판정 결과를 반환합니다.
//
// 추적 상태는 변경하지 않습니다. 알림 전송에 성공한 뒤 MarkNotified를 호출해야
// 다음 관측에 반영됩니다.
func (t *Tracker) Observe(reference string, inStock bool) Event {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.records[reference]
	if !ok {
		return EventFirstCheck
	}
	if rec.lastInStock != inStock {
		return EventStateChanged
	}
	if t.now().Sub(rec.lastNotifiedAt) > t.heartbeat {
		return EventHeartbeat
	}
	return EventNone
}

// MarkNotified 알림 전송에 성공한 상품의 추적 상태를 갱신합니다.
func (t *Tracker) MarkNotified(reference string, inStock bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.records[reference] = &record{
		lastInStock:    inStock,
		lastNotifiedAt: t.now(),
	}
}
