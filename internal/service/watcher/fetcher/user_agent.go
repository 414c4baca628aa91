package fetcher

import (
	"math/rand/v2"
	"net/http"
)

// defaultUserAgents 요청마다 무작위로 선택되는 일반적인 데스크톱 브라우저 User-Agent 목록
var defaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/130.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.6 Safari/605.1.15",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:133.0) Gecko/20100101 Firefox/133.0",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
}

// UserAgentFetcher 요청에 User-Agent 헤더를 주입하는 Fetcher 데코레이터입니다.
//
// 요청에 이미 User-Agent 헤더가 설정되어 있는 경우에는 주입하지 않습니다.
type UserAgentFetcher struct {
	fetcher    Fetcher
	userAgents []string
}

var _ Fetcher = (*UserAgentFetcher)(nil)

// NewUserAgentFetcher 새로운 UserAgentFetcher를 생성합니다.
//
// userAgents가 비어있는 경우 기본 User-Agent 목록이 사용됩니다.
func NewUserAgentFetcher(fetcher Fetcher, userAgents []string) *UserAgentFetcher {
	if len(userAgents) == 0 {
		userAgents = defaultUserAgents
	}

	return &UserAgentFetcher{
		fetcher:    fetcher,
		userAgents: userAgents,
	}
}

func (f *UserAgentFetcher) Do(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		// 원본 요청을 변경하지 않도록 복제한 뒤에 헤더를 주입합니다.
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", f.userAgents[rand.IntN(len(f.userAgents))])
	}
	return f.fetcher.Do(req)
}
