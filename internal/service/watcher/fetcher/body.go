package fetcher

import (
	"compress/flate"
	"compress/gzip"
	"io"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
	apperrors "github.com/darkkaiser/zara-stock-server/internal/pkg/errors"
)

// DecodeBody 응답의 Content-Encoding에 따라 압축을 해제한 Reader를 반환합니다.
//
// Accept-Encoding 헤더를 직접 설정하면 http.Client의 자동 gzip 해제가 동작하지
// 않으므로, 브라우저 헤더로 요청한 응답은 반드시 이 함수를 거쳐 읽어야 합니다.
// 반환된 ReadCloser를 닫으면 원본 응답 Body도 함께 닫힙니다.
func DecodeBody(resp *http.Response) (io.ReadCloser, error) {
	encoding := strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding")))

	switch encoding {
	case "", "identity":
		return resp.Body, nil
	case "gzip":
		gr, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.FetchFailed, "gzip 응답 본문의 압축 해제에 실패했습니다")
		}
		return &decodedBody{reader: gr, underlying: resp.Body}, nil
	case "deflate":
		return &decodedBody{reader: flate.NewReader(resp.Body), underlying: resp.Body}, nil
	case "br":
		return &decodedBody{reader: io.NopCloser(brotli.NewReader(resp.Body)), underlying: resp.Body}, nil
	default:
		return nil, apperrors.Newf(apperrors.FetchFailed, "지원하지 않는 Content-Encoding입니다: %s", encoding)
	}
}

// decodedBody 압축 해제 Reader와 원본 응답 Body를 함께 닫아주는 ReadCloser입니다.
type decodedBody struct {
	reader     io.ReadCloser
	underlying io.ReadCloser
}

func (b *decodedBody) Read(p []byte) (int, error) {
	return b.reader.Read(p)
}

func (b *decodedBody) Close() error {
	err := b.reader.Close()
	if cerr := b.underlying.Close(); err == nil {
		err = cerr
	}
	return err
}
