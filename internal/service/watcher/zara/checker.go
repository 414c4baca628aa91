package zara

import (
	"context"
	"strings"
	"time"

	apperrors "github.com/darkkaiser/zara-stock-server/internal/pkg/errors"
	"github.com/darkkaiser/zara-stock-server/internal/service/contract"
	"github.com/darkkaiser/zara-stock-server/internal/service/watcher/browser"
	"github.com/darkkaiser/zara-stock-server/internal/service/watcher/fetcher"
	"github.com/darkkaiser/zara-stock-server/internal/service/watcher/scraper"
	applog "github.com/darkkaiser/zara-stock-server/pkg/log"
)

// Checker 상품 참조 하나에 대해 여러 확인 전략을 순서대로 시도하는 재고 확인기입니다.
//
// 전략은 재고 API 조회, 페이지 HTML 파싱, 브라우저 렌더링 순이며 먼저 성공한
// 전략의 결과가 채택됩니다. 브라우저 렌더링 전략은 Renderer가 주입된 경우에만
// 시도됩니다.
type Checker struct {
	resolver *Resolver
	scraper  scraper.Scraper
	renderer browser.Renderer
	policy   Policy

	// apiBaseURL 재고 API의 베이스 URL. 테스트에서만 교체됩니다.
	apiBaseURL string

	logger *applog.Entry
}

var _ contract.StockChecker = (*Checker)(nil)

// NewChecker 새로운 Checker를 생성합니다.
//
// renderer는 nil일 수 있으며, 이 경우 브라우저 렌더링 전략은 사용되지 않습니다.
func NewChecker(resolver *Resolver, s scraper.Scraper, renderer browser.Renderer, policy Policy) *Checker {
	if resolver == nil {
		panic("zara.NewChecker: resolver는 nil일 수 없습니다")
	}
	if s == nil {
		panic("zara.NewChecker: scraper는 nil일 수 없습니다")
	}

	return &Checker{
		resolver:   resolver,
		scraper:    s,
		renderer:   renderer,
		policy:     policy,
		apiBaseURL: defaultAPIBaseURL,
		logger:     applog.WithComponent("watcher.zara.checker"),
	}
}

// strategy 재고 확인 전략 하나를 나타냅니다.
type strategy struct {
	method contract.SourceMethod
	run    func(ctx context.Context, reference string) (*contract.StockResult, error)
}

func (c *Checker) strategies() []strategy {
	strategies := []strategy{
		{method: contract.SourceAPI, run: c.checkViaAPI},
		{method: contract.SourceHTML, run: c.checkViaHTML},
	}
	if c.renderer != nil {
		strategies = append(strategies, strategy{method: contract.SourceBrowser, run: c.checkViaBrowser})
	}
	return strategies
}

// Check 상품 참조에 대한 재고 확인을 수행합니다.
//
// 모든 전략이 실패한 경우에도 에러가 담긴 StockResult를 반환하며, 전략 내부에서
// 재시도는 수행하지 않습니다.
func (c *Checker) Check(ctx context.Context, reference string) contract.StockResult {
	var lastErr error

	for _, strat := range c.strategies() {
		result, err := strat.run(ctx, reference)
		if err == nil {
			result.SourceMethod = strat.method
			result.CheckedAt = time.Now()
			return *result
		}

		lastErr = err
		c.logger.WithField("reference", reference).Debugf("%s 전략의 재고 확인에 실패했습니다. (error:%v)", strat.method, err)
	}

	return contract.StockResult{
		Reference:  reference,
		ProductURL: productPageURL(reference),
		CheckedAt:  time.Now(),
		Err:        lastErr,
	}
}

// checkViaAPI 재고 API를 조회하여 재고를 확인합니다.
func (c *Checker) checkViaAPI(ctx context.Context, reference string) (*contract.StockResult, error) {
	identity, err := c.resolver.Resolve(ctx, reference)
	if err != nil {
		return nil, err
	}

	var payload availabilityResponse
	if err := c.scraper.FetchJSON(ctx, identity.availabilityURL(c.apiBaseURL), fetcher.APIHeaders(), &payload); err != nil {
		return nil, err
	}

	result := &contract.StockResult{
		Reference:  reference,
		ProductURL: productPageURL(reference),
	}

	// 상품 페이지에서 사이즈 라벨과 상품명을 보강합니다. 실패해도 API 결과 자체는 유효하므로
	// 위치 기반 사이즈 추정과 URL 슬러그 상품명으로 대체합니다.
	sizeNames := c.enrichFromProductPage(ctx, reference, result)
	if len(sizeNames) == 0 {
		skuIDs := make([]int, 0, len(payload.SkusAvailability))
		for _, sku := range payload.SkusAvailability {
			skuIDs = append(skuIDs, sku.Sku)
		}
		sizeNames = fallbackSizeMapping(skuIDs)
	}
	if result.Name == "" {
		result.Name = displayNameFromReference(reference)
	}

	result.InStock, result.AvailableSizes = normalizeAvailability(payload.SkusAvailability, sizeNames, c.policy)

	return result, nil
}

// enrichFromProductPage 상품 페이지를 파싱하여 상품명, 가격과 SKU별 사이즈 라벨을 보강합니다.
//
// 참조가 상품 페이지 URL이 아니거나 페이지 조회에 실패한 경우 빈 매핑을 반환합니다.
func (c *Checker) enrichFromProductPage(ctx context.Context, reference string, result *contract.StockResult) map[int]string {
	if productPageURL(reference) == "" {
		return nil
	}

	html, err := c.scraper.FetchPage(ctx, reference, fetcher.BrowserHeaders())
	if err != nil || isBotProtectionPage(html) {
		return nil
	}

	doc, err := scraper.ParseDocument(html)
	if err != nil {
		return nil
	}

	result.Name = extractName(doc, reference)
	result.Price = extractPrice(doc)

	return scrapeSizeMapping(doc)
}

// checkViaHTML 상품 페이지 HTML을 파싱하여 재고를 확인합니다.
func (c *Checker) checkViaHTML(ctx context.Context, reference string) (*contract.StockResult, error) {
	html, err := c.scraper.FetchPage(ctx, reference, fetcher.BrowserHeaders())
	if err != nil {
		return nil, err
	}

	return c.parseRenderedPage(html, reference)
}

// checkViaBrowser 헤드리스 브라우저로 페이지를 렌더링한 뒤 파싱하여 재고를 확인합니다.
//
// 브라우저 핸들 손상으로 실패한 경우 핸들을 한 번 재생성하여 재시도합니다.
func (c *Checker) checkViaBrowser(ctx context.Context, reference string) (*contract.StockResult, error) {
	html, err := c.renderer.RenderHTML(ctx, reference)
	if err != nil && apperrors.Is(err, apperrors.RendererCrashed) {
		if recreateErr := c.renderer.Recreate(); recreateErr != nil {
			return nil, recreateErr
		}
		html, err = c.renderer.RenderHTML(ctx, reference)
	}
	if err != nil {
		return nil, err
	}

	return c.parseRenderedPage(html, reference)
}

// parseRenderedPage 가져온 HTML에서 재고 정보를 추출하여 결과를 구성합니다.
func (c *Checker) parseRenderedPage(html string, reference string) (*contract.StockResult, error) {
	if isBotProtectionPage(html) {
		return nil, apperrors.New(apperrors.FetchFailed, "봇 차단 안내 페이지가 감지되었습니다")
	}

	doc, err := scraper.ParseDocument(html)
	if err != nil {
		return nil, err
	}

	info := parseProductPage(doc, html, reference)
	if info.Name == "" && len(info.AvailableSizes) == 0 && !info.InStock {
		return nil, apperrors.New(apperrors.ParsingFailed, "페이지에서 상품 정보를 추출하지 못했습니다")
	}

	return &contract.StockResult{
		Reference:      reference,
		ProductURL:     productPageURL(reference),
		Name:           info.Name,
		Price:          info.Price,
		InStock:        info.InStock,
		AvailableSizes: info.AvailableSizes,
	}, nil
}

// productPageURL 참조가 사람이 열어볼 수 있는 상품 페이지 URL인 경우 그대로 반환합니다.
//
// 재고 API URL은 알림 링크로 적합하지 않으므로 빈 문자열을 반환합니다.
func productPageURL(reference string) string {
	if strings.Contains(reference, "/itxrest/") {
		return ""
	}
	return reference
}
