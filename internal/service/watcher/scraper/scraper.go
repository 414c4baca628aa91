// Package scraper 웹 페이지와 JSON API 응답을 가져와 파싱하는 기능을 제공합니다.
package scraper

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	apperrors "github.com/darkkaiser/zara-stock-server/internal/pkg/errors"
	"github.com/darkkaiser/zara-stock-server/internal/service/watcher/fetcher"
	"golang.org/x/net/html/charset"
)

const (
	// defaultMaxBodySize 응답 본문을 읽어들일 최대 크기 (10MB)
	defaultMaxBodySize = 10 * 1024 * 1024

	// charsetPeekSize 문자 인코딩 판별을 위해 미리 읽어볼 바이트 수
	charsetPeekSize = 1024
)

// Scraper 상품 페이지 HTML과 재고 API JSON을 가져오는 인터페이스입니다.
type Scraper interface {
	// FetchPage 지정된 URL의 페이지를 가져와 UTF-8로 변환된 HTML 문자열을 반환합니다.
	FetchPage(ctx context.Context, url string, header http.Header) (string, error)

	// FetchJSON 지정된 URL의 JSON 응답을 가져와 v에 디코딩합니다.
	FetchJSON(ctx context.Context, url string, header http.Header, v any) error
}

// HTTPScraper Fetcher 기반의 기본 Scraper 구현체입니다.
type HTTPScraper struct {
	fetcher     fetcher.Fetcher
	maxBodySize int64
}

var _ Scraper = (*HTTPScraper)(nil)

// New 새로운 HTTPScraper를 생성합니다.
func New(f fetcher.Fetcher) *HTTPScraper {
	return &HTTPScraper{
		fetcher:     f,
		maxBodySize: defaultMaxBodySize,
	}
}

func (s *HTTPScraper) FetchPage(ctx context.Context, url string, header http.Header) (string, error) {
	resp, err := fetcher.Get(ctx, s.fetcher, url, header)
	if err != nil {
		return "", err
	}
	defer fetcher.DrainAndCloseBody(resp.Body)

	if err := fetcher.CheckStatus(resp); err != nil {
		return "", err
	}

	body, err := fetcher.DecodeBody(resp)
	if err != nil {
		return "", err
	}
	defer func() { _ = body.Close() }()

	// 문자 인코딩 판별 후 UTF-8로 변환하여 읽습니다.
	br := bufio.NewReader(io.LimitReader(body, s.maxBodySize))
	peeked, err := br.Peek(charsetPeekSize)
	if err != nil && err != io.EOF {
		return "", apperrors.Wrap(err, apperrors.FetchFailed, "응답 본문 읽기에 실패했습니다")
	}

	e, _, _ := charset.DetermineEncoding(peeked, resp.Header.Get("Content-Type"))
	decoded, err := io.ReadAll(e.NewDecoder().Reader(br))
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.FetchFailed, "응답 본문 읽기에 실패했습니다")
	}

	return string(decoded), nil
}

func (s *HTTPScraper) FetchJSON(ctx context.Context, url string, header http.Header, v any) error {
	resp, err := fetcher.Get(ctx, s.fetcher, url, header)
	if err != nil {
		return err
	}
	defer fetcher.DrainAndCloseBody(resp.Body)

	if err := fetcher.CheckStatus(resp); err != nil {
		return err
	}

	body, err := fetcher.DecodeBody(resp)
	if err != nil {
		return err
	}
	defer func() { _ = body.Close() }()

	if err := json.NewDecoder(io.LimitReader(body, s.maxBodySize)).Decode(v); err != nil {
		return apperrors.Wrap(err, apperrors.ParsingFailed, "JSON 응답 디코딩에 실패했습니다")
	}
	return nil
}

// ParseDocument HTML 문자열을 goquery 문서로 파싱합니다.
func ParseDocument(html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ParsingFailed, "HTML 문서 파싱에 실패했습니다")
	}
	return doc, nil
}
