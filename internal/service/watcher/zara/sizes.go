package zara

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// canonicalSizeNames SKU 식별자 오름차순에 위치 기반으로 대응시키는 표준 사이즈 이름 목록
var canonicalSizeNames = []string{"XS", "S", "M", "L", "XL", "XXL", "XXXL"}

// fallbackSizeMapping SKU 식별자 목록에 위치 기반으로 사이즈 이름을 부여합니다.
//
// 페이지에서 사이즈 라벨을 수집하지 못한 경우의 최선책으로, SKU 식별자를 오름차순
// 정렬한 뒤 표준 사이즈 이름을 순서대로 대응시킵니다. 표준 이름을 모두 소진하면
// "Size N" 형식의 이름을 부여합니다. 실제 사이즈 구성과 다를 수 있는 추정치입니다.
func fallbackSizeMapping(skuIDs []int) map[int]string {
	sorted := make([]int, len(skuIDs))
	copy(sorted, skuIDs)
	sort.Ints(sorted)

	mapping := make(map[int]string, len(sorted))
	for i, sku := range sorted {
		if i < len(canonicalSizeNames) {
			mapping[sku] = canonicalSizeNames[i]
		} else {
			mapping[sku] = fmt.Sprintf("Size %d", i+1)
		}
	}
	return mapping
}

// scrapeSizeMapping 사이즈 선택 UI에서 (SKU 식별자, 사이즈 라벨) 쌍을 수집합니다.
//
// SKU 식별자 속성이 없는 항목은 무시합니다. 수집 결과가 비어있으면 호출자는
// 위치 기반 추정으로 넘어갑니다.
func scrapeSizeMapping(doc *goquery.Document) map[int]string {
	mapping := make(map[int]string)

	doc.Find(`ul[class*="size-selector-sizes"] li[class*="size-selector-sizes"]`).Each(func(_ int, item *goquery.Selection) {
		skuAttr := firstAttr(item, "data-sku", "data-sku-id")
		if skuAttr == "" {
			skuAttr = firstAttr(item.Find("button").First(), "data-sku", "data-sku-id")
		}

		sku, err := strconv.Atoi(strings.TrimSpace(skuAttr))
		if err != nil {
			return
		}

		label := strings.TrimSpace(item.Find(`div[class*="size-selector-sizes-size__label"]`).First().Text())
		if label == "" {
			label = strings.TrimSpace(item.Find("button").First().Text())
		}
		if label != "" {
			mapping[sku] = label
		}
	})

	return mapping
}

func firstAttr(s *goquery.Selection, names ...string) string {
	for _, name := range names {
		if v, ok := s.Attr(name); ok && v != "" {
			return v
		}
	}
	return ""
}
