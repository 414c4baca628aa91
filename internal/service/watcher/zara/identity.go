package zara

import (
	"context"
	"regexp"
	"strconv"

	apperrors "github.com/darkkaiser/zara-stock-server/internal/pkg/errors"
	"github.com/darkkaiser/zara-stock-server/internal/service/watcher/fetcher"
	"github.com/darkkaiser/zara-stock-server/internal/service/watcher/scraper"
	applog "github.com/darkkaiser/zara-stock-server/pkg/log"
)

const (
	// defaultAPIBaseURL 재고 API의 기본 베이스 URL
	defaultAPIBaseURL = "https://www.zara.com"

	// availabilityURLFormat 재고 API 엔드포인트 URL 형식 (베이스 URL, 매장 식별자, 상품 식별자 순)
	availabilityURLFormat = "%s/itxrest/1/catalog/store/%d/product/id/%d/availability"

	// defaultStoreID 국가 코드를 알아낼 수 없는 경우에 사용하는 기본 매장 식별자 (영국)
	defaultStoreID = 10706
)

// countryStoreIDs 상품 페이지 URL의 국가 코드를 매장 식별자로 변환하는 테이블입니다.
//
// 등록되지 않은 국가 코드는 기본 매장 식별자로 처리됩니다.
var countryStoreIDs = map[string]int{
	"uk": 10706,
}

// knownProductSlugs 콘텐츠 조회 없이 즉시 해석 가능한 상품 슬러그 테이블입니다.
var knownProductSlugs = map[string]int{
	"wool-double-breasted-coat-p08475319": 483276547,
}

var (
	// 재고 API URL에서 매장/상품 식별자를 추출하는 정규식
	availabilityPathRegex = regexp.MustCompile(`/itxrest/\d+/catalog/store/(\d+)/product/id/(\d+)/availability`)

	// 상품 페이지 URL에서 국가 코드를 추출하는 정규식 (예: zara.com/uk/en/...)
	countryCodeRegex = regexp.MustCompile(`zara\.com/([a-z]{2})/`)

	// 상품 페이지 URL에서 슬러그를 추출하는 정규식 (예: .../wool-coat-p08475319.html)
	productSlugRegex = regexp.MustCompile(`/([^/]+)\.html`)

	// 페이지 본문에 포함된 상품 식별자를 찾는 정규식들 (우선순위 순)
	embeddedProductIDRegexes = []*regexp.Regexp{
		regexp.MustCompile(`"productId"\s*:\s*(\d+)`),
		regexp.MustCompile(`product[-_]id["']?\s*[:=]\s*["']?(\d+)`),
	}

	// 본문에 포함된 /product/id/ 경로 조각에서 상품 식별자를 추출하는 정규식
	productIDPathRegex = regexp.MustCompile(`/product/id/(\d+)`)
)

// Resolver 상품 참조(URL 또는 식별자)를 재고 API 호출에 필요한 ProductIdentity로 해석합니다.
type Resolver struct {
	scraper scraper.Scraper
}

// NewResolver 새로운 Resolver를 생성합니다.
func NewResolver(s scraper.Scraper) *Resolver {
	return &Resolver{
		scraper: s,
	}
}

// Resolve 상품 참조를 ProductIdentity로 해석합니다.
//
// 다음 순서로 시도하며, 모두 실패하면 ResolutionFailed 타입의 에러를 반환합니다.
//
//  1. 재고 API URL 형식이면 경로에서 매장/상품 식별자를 직접 추출
//  2. URL의 국가 코드로 매장 식별자 결정 (미등록 국가는 기본 매장)
//  3. 알려진 상품 슬러그 테이블 조회
//  4. 페이지 본문을 가져와 내장된 상품 식별자 탐색
func (r *Resolver) Resolve(ctx context.Context, reference string) (ProductIdentity, error) {
	// 1. 재고 API URL이 직접 주어진 경우
	if m := availabilityPathRegex.FindStringSubmatch(reference); m != nil {
		storeID, _ := strconv.Atoi(m[1])
		productID, _ := strconv.Atoi(m[2])
		return ProductIdentity{StoreID: storeID, ProductID: productID}, nil
	}

	// 2. 국가 코드로 매장 식별자 결정
	storeID := defaultStoreID
	if m := countryCodeRegex.FindStringSubmatch(reference); m != nil {
		if id, ok := countryStoreIDs[m[1]]; ok {
			storeID = id
		}
	}

	// 3. 알려진 상품 슬러그 테이블 조회
	if m := productSlugRegex.FindStringSubmatch(reference); m != nil {
		if productID, ok := knownProductSlugs[m[1]]; ok {
			return ProductIdentity{StoreID: storeID, ProductID: productID}, nil
		}
	}

	// 4. 페이지 본문에서 내장된 상품 식별자 탐색
	if identity, found := r.sniffIdentity(ctx, reference, storeID); found {
		return identity, nil
	}

	return ProductIdentity{}, apperrors.Newf(apperrors.ResolutionFailed, "상품 참조에서 상품 식별자를 알아낼 수 없습니다: %s", reference)
}

// sniffIdentity 페이지 본문을 가져와 내장된 상품 식별자를 찾습니다.
//
// 페이지 조회에 실패한 경우에는 찾지 못한 것으로 처리합니다. 해석 실패 시
// 호출자가 페이지 파싱 전략으로 넘어가므로 여기서의 네트워크 에러는 치명적이지 않습니다.
func (r *Resolver) sniffIdentity(ctx context.Context, reference string, storeID int) (ProductIdentity, bool) {
	html, err := r.scraper.FetchPage(ctx, reference, fetcher.BrowserHeaders())
	if err != nil {
		applog.WithComponent("watcher.zara.resolver").WithField("reference", reference).Debugf("상품 식별자 탐색을 위한 페이지 조회에 실패했습니다. (error:%v)", err)
		return ProductIdentity{}, false
	}

	for _, re := range embeddedProductIDRegexes {
		if m := re.FindStringSubmatch(html); m != nil {
			productID, _ := strconv.Atoi(m[1])
			return ProductIdentity{StoreID: storeID, ProductID: productID}, true
		}
	}

	// 재고 API URL 전체가 본문에 포함된 경우 매장 식별자까지 함께 추출합니다.
	// 단순 /product/id/ 조각보다 먼저 확인해야 매장 식별자를 잃지 않습니다.
	if m := availabilityPathRegex.FindStringSubmatch(html); m != nil {
		embeddedStoreID, _ := strconv.Atoi(m[1])
		productID, _ := strconv.Atoi(m[2])
		return ProductIdentity{StoreID: embeddedStoreID, ProductID: productID}, true
	}

	if m := productIDPathRegex.FindStringSubmatch(html); m != nil {
		productID, _ := strconv.Atoi(m[1])
		return ProductIdentity{StoreID: storeID, ProductID: productID}, true
	}

	return ProductIdentity{}, false
}
