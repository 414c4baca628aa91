// Package fetcher HTTP 요청 실행을 추상화하는 Fetcher 인터페이스와 구현체를 제공합니다.
package fetcher

import (
	"context"
	"io"
	"net/http"

	apperrors "github.com/darkkaiser/zara-stock-server/internal/pkg/errors"
)

// drainBodyLimit 커넥션 재사용을 위해 응답 본문을 비울 때 읽어들일 최대 바이트 수
const drainBodyLimit = 64 * 1024

// Fetcher HTTP 요청을 실행하는 인터페이스입니다.
//
// http.Client를 직접 사용하는 대신 이 인터페이스를 통해 요청을 실행하면
// User-Agent 주입 등의 부가 기능을 데코레이터 형태로 조합할 수 있습니다.
type Fetcher interface {
	Do(req *http.Request) (*http.Response, error)
}

// Get 지정된 URL로 GET 요청을 실행합니다.
//
// header가 nil이 아닌 경우 요청 헤더로 사용됩니다. 반환된 응답의 Body는
// 호출자가 닫아야 합니다.
func Get(ctx context.Context, f Fetcher, url string, header http.Header) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.Internal, "HTTP 요청 객체 생성에 실패했습니다")
	}
	if header != nil {
		req.Header = header.Clone()
	}

	resp, err := f.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.FetchFailed, "HTTP 요청 실행에 실패했습니다")
	}
	return resp, nil
}

// DrainAndCloseBody HTTP Keep-Alive 커넥션 재사용을 위해 응답 본문을 모두 읽고 닫습니다.
func DrainAndCloseBody(body io.ReadCloser) {
	if body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(body, drainBodyLimit))
	_ = body.Close()
}
