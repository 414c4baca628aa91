package fetcher

import "net/http"

// BrowserHeaders 일반 브라우저의 페이지 탐색 요청과 유사한 HTTP 헤더 집합을 반환합니다.
//
// 봇 차단 시스템이 헤더 구성만으로 자동화 요청을 걸러내는 경우가 있어,
// 상품 페이지 요청 시에는 항상 이 헤더를 사용합니다.
func BrowserHeaders() http.Header {
	return http.Header{
		"Accept":                    []string{"text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8"},
		"Accept-Language":           []string{"en-GB,en-US;q=0.9,en;q=0.8"},
		"Accept-Encoding":           []string{"gzip, deflate, br"},
		"Referer":                   []string{"https://www.zara.com/"},
		"DNT":                       []string{"1"},
		"Connection":                []string{"keep-alive"},
		"Upgrade-Insecure-Requests": []string{"1"},
		"Sec-Fetch-Dest":            []string{"document"},
		"Sec-Fetch-Mode":            []string{"navigate"},
		"Sec-Fetch-Site":            []string{"same-origin"},
		"Sec-Fetch-User":            []string{"?1"},
	}
}

// APIHeaders 재고 API 호출에 사용하는 HTTP 헤더 집합을 반환합니다.
func APIHeaders() http.Header {
	return http.Header{
		"Accept":          []string{"application/json"},
		"Accept-Language": []string{"en-GB,en-US;q=0.9,en;q=0.8"},
		"Accept-Encoding": []string{"gzip, deflate, br"},
		"Referer":         []string{"https://www.zara.com/"},
	}
}
