// Package zara Zara 상품 페이지와 재고 API에 대한 재고 확인 로직을 구현합니다.
package zara

import "fmt"

// ProductIdentity 재고 API 호출에 필요한 매장 식별자와 상품 식별자의 쌍입니다.
type ProductIdentity struct {
	StoreID   int
	ProductID int
}

// availabilityURL 이 상품의 재고 API 엔드포인트 URL을 반환합니다.
func (p ProductIdentity) availabilityURL(baseURL string) string {
	return fmt.Sprintf(availabilityURLFormat, baseURL, p.StoreID, p.ProductID)
}

// skuAvailability 재고 API 응답에 포함된 SKU 하나의 재고 상태입니다.
type skuAvailability struct {
	Sku          int    `json:"sku"`
	Availability string `json:"availability"`
}

// availabilityResponse 재고 API 응답의 본문입니다.
type availabilityResponse struct {
	SkusAvailability []skuAvailability `json:"skusAvailability"`
}

// SKU 재고 상태 값. 이 외의 알 수 없는 상태는 재고 없음으로 간주합니다.
const (
	skuStatusInStock    = "in_stock"
	skuStatusLowOnStock = "low_on_stock"
	skuStatusOutOfStock = "out_of_stock"
)
