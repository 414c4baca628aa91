package fetcher

import (
	"net/http"
	"time"
)

// defaultTimeout HTTP 요청의 기본 제한시간
const defaultTimeout = 30 * time.Second

// HTTPFetcher http.Client 기반의 기본 Fetcher 구현체입니다.
type HTTPFetcher struct {
	client *http.Client
}

var _ Fetcher = (*HTTPFetcher)(nil)

// NewHTTPFetcher 새로운 HTTPFetcher를 생성합니다.
//
// timeout이 0 이하인 경우 기본 제한시간이 사용됩니다.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &HTTPFetcher{
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (f *HTTPFetcher) Do(req *http.Request) (*http.Response, error) {
	return f.client.Do(req)
}
