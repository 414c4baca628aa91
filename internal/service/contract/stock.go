// Package contract 서비스 간에 주고받는 재고 확인 결과와 공용 인터페이스를 정의합니다.
//
// watcher, notification, api 서비스가 서로를 직접 참조하지 않고 이 패키지의
// 타입을 통해서만 협력하도록 하여 패키지 간 순환 참조를 방지합니다.
package contract

import "time"

// SourceMethod 재고 확인 결과를 얻어낸 전략을 나타냅니다.
type SourceMethod string

const (
	// SourceAPI 공개 재고 API 조회로 결과를 얻은 경우
	SourceAPI SourceMethod = "api"

	// SourceHTML 상품 페이지 HTML 파싱으로 결과를 얻은 경우
	SourceHTML SourceMethod = "html"

	// SourceBrowser 헤드리스 브라우저 렌더링 후 파싱으로 결과를 얻은 경우
	SourceBrowser SourceMethod = "browser"
)

// StockResult 상품 참조 하나에 대한 재고 확인의 최종 결과입니다.
//
// 모든 확인 전략이 실패한 경우에도 StockResult는 반환되며, 이때 Err 필드에
// 실패 원인이 담기고 InStock은 false, Name/Price는 빈 값이 됩니다.
type StockResult struct {
	// Reference 확인 요청에 사용된 원본 상품 참조(URL 또는 식별자)
	Reference string

	// ProductURL 사람이 열어볼 수 있는 상품 페이지 URL (확인 과정에서 알아낸 경우)
	ProductURL string

	Name  string
	Price string

	InStock        bool
	AvailableSizes []string

	// SourceMethod 결과를 만들어낸 전략. 실패 시 빈 값입니다.
	SourceMethod SourceMethod

	CheckedAt time.Time

	// Err 모든 전략이 실패한 경우의 마지막 실패 원인
	Err error
}

// Failed 모든 확인 전략이 실패하여 유효한 결과를 얻지 못했는지 여부를 반환합니다.
func (r *StockResult) Failed() bool {
	return r.Err != nil
}

// Link 알림 메시지에 사용할 상품 링크를 반환합니다.
//
// 사람이 열어볼 수 있는 상품 페이지 URL을 우선하며, 알 수 없는 경우 원본 참조를 반환합니다.
func (r *StockResult) Link() string {
	if r.ProductURL != "" {
		return r.ProductURL
	}
	return r.Reference
}
