package fetcher

import (
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/darkkaiser/zara-stock-server/internal/pkg/errors"
)

// maxBodySnippetSize 에러 메시지에 포함할 응답 본문의 최대 크기
const maxBodySnippetSize = 512

// HTTPStatusError HTTP 요청이 실패 상태코드로 응답한 경우의 에러입니다.
type HTTPStatusError struct {
	StatusCode  int
	Status      string
	URL         string
	BodySnippet string
}

func (e *HTTPStatusError) Error() string {
	if e.BodySnippet != "" {
		return fmt.Sprintf("HTTP 요청이 실패했습니다 (URL: %s, 상태: %s, 응답: %s)", e.URL, e.Status, e.BodySnippet)
	}
	return fmt.Sprintf("HTTP 요청이 실패했습니다 (URL: %s, 상태: %s)", e.URL, e.Status)
}

// CheckStatus 응답 상태코드가 2xx가 아닌 경우 HTTPStatusError를 감싼 에러를 반환합니다.
//
// 에러 반환 시 응답 본문의 앞부분을 읽어 에러 메시지에 포함한 뒤 본문을 닫습니다.
// 정상 상태코드인 경우 본문은 그대로 유지되며 호출자가 닫아야 합니다.
func CheckStatus(resp *http.Response) error {
	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return nil
	}

	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodySnippetSize))
	DrainAndCloseBody(resp.Body)

	statusErr := &HTTPStatusError{
		StatusCode:  resp.StatusCode,
		Status:      resp.Status,
		URL:         resp.Request.URL.String(),
		BodySnippet: string(snippet),
	}
	return apperrors.Wrap(statusErr, apperrors.FetchFailed, "HTTP 응답 상태코드가 정상이 아닙니다")
}
