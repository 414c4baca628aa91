package contract

import (
	"context"
	"time"
)

// CheckRunBy 재고 확인 사이클이 어떤 주체에 의해 실행되었는지를 나타냅니다.
type CheckRunBy int

const (
	// CheckRunByScheduler 스케줄러에 의한 주기적인 실행
	CheckRunByScheduler CheckRunBy = iota

	// CheckRunByUser 사용자에 의한 일회성 실행
	CheckRunByUser

	// CheckRunByAPI 외부 API 호출에 의한 실행
	CheckRunByAPI
)

func (r CheckRunBy) String() string {
	switch r {
	case CheckRunByScheduler:
		return "Scheduler"
	case CheckRunByUser:
		return "User"
	case CheckRunByAPI:
		return "API"
	default:
		return "Unknown"
	}
}

// StockChecker 상품 참조 하나에 대한 재고 확인을 수행합니다.
type StockChecker interface {
	Check(ctx context.Context, reference string) StockResult
}

// CheckOutcome 사이클 내에서 상품 하나를 확인한 결과와 알림 전송 여부입니다.
type CheckOutcome struct {
	Result StockResult

	// NotificationSent 이 결과에 대해 1명 이상의 수신자에게 알림이 전송되었는지 여부
	NotificationSent bool
}

// CycleSummary 재고 확인 사이클 한 번의 실행 결과 요약입니다.
type CycleSummary struct {
	CycleID    string
	RunBy      CheckRunBy
	StartedAt  time.Time
	FinishedAt time.Time

	Outcomes []CheckOutcome

	// NotificationsSent 사이클 전체에서 전송에 성공한 알림 메시지의 총 개수
	NotificationsSent int
}

// CheckRunner 등록된 상품 목록에 대한 재고 확인 사이클을 실행합니다.
//
// 스케줄러 외에 API 서비스나 일회성 명령에서도 동일한 사이클을 실행할 수 있도록
// 인터페이스로 분리합니다.
type CheckRunner interface {
	RunCheckCycle(ctx context.Context, runBy CheckRunBy, references []string) (*CycleSummary, error)
}
