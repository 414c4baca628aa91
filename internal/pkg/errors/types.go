package errors

// ErrorType 에러의 종류를 나타내는 타입입니다.
type ErrorType int

// 에러 타입 상수
const (
	// Unknown 알 수 없는 에러
	Unknown ErrorType = iota

	// Internal 내부 로직 오류 (버그 등)
	Internal

	// System 시스템 또는 인프라 오류 (디스크, 네트워크 등)
	System

	// InvalidInput 잘못된 입력값 (유효성 검사 실패)
	InvalidInput

	// NotFound 리소스를 찾을 수 없음
	NotFound

	// Timeout 작업 시간 초과
	Timeout

	// ResolutionFailed 상품 URL에서 매장/상품 식별자를 확정하지 못함
	ResolutionFailed

	// FetchFailed 상품 페이지 또는 재고 API 조회 실패 (네트워크 오류, 봇 차단 등)
	FetchFailed

	// ParsingFailed 데이터 파싱 또는 형식 변환 실패
	ParsingFailed

	// DeliveryFailed 알림 메시지 전송 실패
	DeliveryFailed

	// RendererCrashed 브라우저 렌더러 핸들의 비정상 종료
	RendererCrashed
)

// String ErrorType의 문자열 표현을 반환합니다.
func (t ErrorType) String() string {
	switch t {
	case Unknown:
		return "Unknown"
	case Internal:
		return "Internal"
	case System:
		return "System"
	case InvalidInput:
		return "InvalidInput"
	case NotFound:
		return "NotFound"
	case Timeout:
		return "Timeout"
	case ResolutionFailed:
		return "ResolutionFailed"
	case FetchFailed:
		return "FetchFailed"
	case ParsingFailed:
		return "ParsingFailed"
	case DeliveryFailed:
		return "DeliveryFailed"
	case RendererCrashed:
		return "RendererCrashed"
	default:
		return "Unknown"
	}
}
