package zara

import "sort"

// Policy 재고 판정에 적용되는 설정 기반 정책입니다.
type Policy struct {
	// RequireAllSizes 모든 사이즈가 구매 가능한 경우에만 재고 있음으로 판정합니다.
	RequireAllSizes bool

	// MinSizesInStock 재고 있음으로 판정하기 위한 최소 구매 가능 사이즈 수 (0이면 제한 없음)
	MinSizesInStock int
}

// normalizeAvailability SKU별 재고 상태 목록을 (재고 여부, 구매 가능 사이즈 목록)으로 정규화합니다.
//
// SKU는 상태가 in_stock 또는 low_on_stock인 경우에만 구매 가능으로 간주하며,
// 알 수 없는 상태는 재고 없음으로 처리합니다. 반환되는 사이즈 목록은 항상
// 알파벳순으로 정렬됩니다.
func normalizeAvailability(skus []skuAvailability, sizeNames map[int]string, policy Policy) (bool, []string) {
	availableSizes := make([]string, 0, len(skus))
	for _, sku := range skus {
		if sku.Availability != skuStatusInStock && sku.Availability != skuStatusLowOnStock {
			continue
		}

		name, ok := sizeNames[sku.Sku]
		if !ok {
			name = "Unknown"
		}
		availableSizes = append(availableSizes, name)
	}
	sort.Strings(availableSizes)

	inStock := len(availableSizes) > 0
	if policy.RequireAllSizes && len(availableSizes) < len(skus) {
		inStock = false
	} else if policy.MinSizesInStock > 0 && len(availableSizes) < policy.MinSizesInStock {
		inStock = false
	}

	return inStock, availableSizes
}
