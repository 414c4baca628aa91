package zara

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// botIndicators 봇 차단 안내 페이지임을 나타내는 지표 문자열 목록 (소문자 비교)
var botIndicators = []string{
	"interstitial",
	"bm-verify",
	"akam-logo",
	"bot manager",
	"challenge",
	"verify you are human",
}

var (
	// sizeLabelRegex 사이즈 라벨로 인정하는 텍스트 형식
	sizeLabelRegex = regexp.MustCompile(`(?i)^(XS|S|M|L|XL|XXL|XXXL|\d+|\d+\.\d+|UK\s*\d+|EU\s*\d+|US\s*\d+)$`)

	// priceTextRegex 가격 텍스트에서 통화 기호가 붙은 금액을 추출하는 정규식
	priceTextRegex = regexp.MustCompile(`[£$€]\s*\d+(?:[.,]\d+)?`)

	// stockIndicatorRegexes 재고가 있음을 암시하는 본문 텍스트 패턴들
	stockIndicatorRegexes = []*regexp.Regexp{
		regexp.MustCompile(`few\s+items\s+left`),
		regexp.MustCompile(`only\s+\d+\s+left`),
		regexp.MustCompile(`low\s+stock`),
		regexp.MustCompile(`in\s+stock`),
	}
)

// isBotProtectionPage HTML이 봇 차단 안내 페이지인지 판별합니다.
func isBotProtectionPage(html string) bool {
	lower := strings.ToLower(html)
	for _, indicator := range botIndicators {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	return false
}

// pageInfo 상품 페이지 HTML 파싱 결과입니다.
type pageInfo struct {
	Name           string
	Price          string
	InStock        bool
	AvailableSizes []string
}

// parseProductPage 상품 페이지 HTML에서 상품명, 가격, 구매 가능 사이즈를 추출합니다.
//
// 사이즈 선택 UI는 숨겨진 모달 안에 있더라도 HTML에 포함되어 있으므로 DOM에서
// 직접 수집하며, 페이지 구조가 바뀐 경우를 대비해 본문의 재고 안내 문구를
// 보조 지표로 사용합니다.
func parseProductPage(doc *goquery.Document, rawHTML string, reference string) pageInfo {
	info := pageInfo{
		Name:  extractName(doc, reference),
		Price: extractPrice(doc),
	}

	sizes := collectAvailableSizes(doc)

	lower := strings.ToLower(rawHTML)

	// 품절 버튼이 노출된 경우 수집된 사이즈와 무관하게 재고 없음으로 판정합니다.
	outOfStock := false
	doc.Find(`button[class*="product-detail"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.Contains(strings.ToUpper(s.Text()), "OUT OF STOCK") {
			outOfStock = true
			return false
		}
		return true
	})

	fewItemsLeft := false
	for _, re := range stockIndicatorRegexes {
		if re.MatchString(lower) {
			fewItemsLeft = true
			break
		}
	}

	switch {
	case outOfStock:
		info.InStock = false
		info.AvailableSizes = nil
	case len(sizes) == 0 && fewItemsLeft:
		// 페이지 구조가 바뀌어 사이즈를 수집하지 못해도 재고 안내 문구가 보이면 재고 있음으로 간주합니다.
		info.InStock = true
		info.AvailableSizes = []string{}
	default:
		sort.Strings(sizes)
		info.InStock = len(sizes) > 0
		info.AvailableSizes = sizes
	}

	return info
}

// collectAvailableSizes 사이즈 선택 UI에서 구매 가능한 사이즈 라벨을 수집합니다.
func collectAvailableSizes(doc *goquery.Document) []string {
	var sizes []string
	seen := make(map[string]bool)

	appendSize := func(label string) {
		label = strings.TrimSpace(label)
		if label == "" || seen[label] {
			return
		}
		seen[label] = true
		sizes = append(sizes, label)
	}

	// 기본 구조: ul.size-selector-sizes 안의 li 항목들
	doc.Find(`ul[class*="size-selector-sizes"] li[class*="size-selector-sizes"]`).Each(func(_ int, item *goquery.Selection) {
		class, _ := item.Attr("class")
		enabled := strings.Contains(class, "size-selector-sizes-size--enabled")
		inStockButton := item.Find(`button[data-qa-action="size-in-stock"]`).Length() > 0
		disabled := strings.Contains(class, "disabled")

		itemText := strings.ToLower(item.Text())
		unavailableText := strings.Contains(itemText, "out of stock") ||
			strings.Contains(itemText, "unavailable") ||
			strings.Contains(itemText, "sold out")

		if (enabled || inStockButton) && !disabled && !unavailableText {
			label := item.Find(`div[class*="size-selector-sizes-size__label"]`).First().Text()
			if strings.TrimSpace(label) == "" {
				label = item.Find("button").First().Text()
			}
			appendSize(label)
		}
	})
	if len(sizes) > 0 {
		return sizes
	}

	// 보조 구조: 사이즈 형식의 텍스트를 가진 버튼류 요소
	doc.Find(`button[class*="size"], li[class*="size"], [data-testid*="size"] button`).Each(func(_ int, item *goquery.Selection) {
		text := strings.TrimSpace(item.Text())
		if !sizeLabelRegex.MatchString(text) {
			return
		}

		class, _ := item.Attr("class")
		classLower := strings.ToLower(class)
		_, hasDisabledAttr := item.Attr("disabled")
		if hasDisabledAttr || strings.Contains(classLower, "disabled") ||
			strings.Contains(classLower, "unavailable") || strings.Contains(classLower, "sold-out") ||
			strings.Contains(classLower, "out-of-stock") {
			return
		}
		appendSize(text)
	})
	if len(sizes) > 0 {
		return sizes
	}

	// 보조 구조: data-size 속성을 가진 요소
	doc.Find(`[data-size]`).Each(func(_ int, item *goquery.Selection) {
		class, _ := item.Attr("class")
		classLower := strings.ToLower(class)
		_, hasDisabledAttr := item.Attr("disabled")
		if hasDisabledAttr || strings.Contains(classLower, "disabled") ||
			strings.Contains(classLower, "unavailable") || strings.Contains(classLower, "sold-out") {
			return
		}
		size, _ := item.Attr("data-size")
		appendSize(size)
	})

	return sizes
}

// extractName 상품명을 추출합니다. JSON-LD, h1, title 순으로 시도하고
// 모두 실패하면 URL 슬러그에서 만들어냅니다.
func extractName(doc *goquery.Document, reference string) string {
	if jsonLD := doc.Find(`script[type="application/ld+json"]`).First().Text(); jsonLD != "" {
		if name := gjson.Get(jsonLD, "name"); name.Exists() && name.String() != "" {
			return name.String()
		}
	}

	if h1 := strings.TrimSpace(doc.Find("h1").First().Text()); h1 != "" {
		return h1
	}
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return title
	}

	return displayNameFromReference(reference)
}

// productNameSlugRegex 상품 페이지 URL에서 상품명 슬러그를 추출하는 정규식
var productNameSlugRegex = regexp.MustCompile(`/([^/]+)-p\d+\.html`)

// displayNameFromReference 상품 페이지 URL의 슬러그를 사람이 읽을 수 있는
// 상품명으로 변환합니다. (예: wool-double-breasted-coat -> Wool Double Breasted Coat)
func displayNameFromReference(reference string) string {
	m := productNameSlugRegex.FindStringSubmatch(reference)
	if m == nil {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(m[1], "-", " "))
}

// extractPrice 상품 가격을 추출합니다. JSON-LD, 가격 표시 요소, 메타 태그 순으로 시도합니다.
func extractPrice(doc *goquery.Document) string {
	if jsonLD := doc.Find(`script[type="application/ld+json"]`).First().Text(); jsonLD != "" {
		if price := gjson.Get(jsonLD, "offers.price"); price.Exists() && price.String() != "" {
			if price.Type == gjson.Number {
				return "£" + price.String()
			}
			return price.String()
		}
	}

	var found string
	doc.Find(`[class*="price"], [itemprop="price"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		// 할인 표시 등이 섞인 경우 마지막 금액(현재 가격)을 사용합니다.
		if matches := priceTextRegex.FindAllString(text, -1); len(matches) > 0 {
			found = strings.ReplaceAll(matches[len(matches)-1], " ", "")
			return false
		}
		return true
	})
	if found != "" {
		return found
	}

	if amount, ok := doc.Find(`meta[property="product:price:amount"]`).First().Attr("content"); ok && amount != "" {
		currency := "£"
		if c, ok := doc.Find(`meta[property="product:price:currency"]`).First().Attr("content"); ok && c != "" {
			currency = c
		}
		return fmt.Sprintf("%s%s", currency, amount)
	}

	return ""
}
