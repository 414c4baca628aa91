package contract

import "context"

// StockNotificationSender 재고 확인 결과를 등록된 모든 수신자에게 전송합니다.
//
// 개별 수신자에 대한 전송 실패는 다른 수신자에게 영향을 주지 않으며,
// 전송에 성공한 수신자의 수를 반환합니다.
type StockNotificationSender interface {
	NotifyStockResult(ctx context.Context, result StockResult) int
}
