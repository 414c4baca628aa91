package zara

import (
	"strings"
	"testing"

	"github.com/darkkaiser/zara-stock-server/internal/service/watcher/scraper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackSizeMapping(t *testing.T) {
	t.Run("SKU 오름차순으로 표준 사이즈 부여", func(t *testing.T) {
		mapping := fallbackSizeMapping([]int{300, 100, 200})
		assert.Equal(t, map[int]string{
			100: "XS",
			200: "S",
			300: "M",
		}, mapping)
	})

	t.Run("표준 사이즈 소진 후 번호 부여", func(t *testing.T) {
		skus := []int{1, 2, 3, 4, 5, 6, 7, 8, 9}
		mapping := fallbackSizeMapping(skus)
		assert.Equal(t, "XS", mapping[1])
		assert.Equal(t, "XXXL", mapping[7])
		assert.Equal(t, "Size 8", mapping[8])
		assert.Equal(t, "Size 9", mapping[9])
	})

	t.Run("빈 목록", func(t *testing.T) {
		assert.Empty(t, fallbackSizeMapping(nil))
	})
}

func TestScrapeSizeMapping(t *testing.T) {
	const html = `<html><body>
		<ul class="size-selector-sizes">
			<li class="size-selector-sizes-size size-selector-sizes-size--enabled" data-sku="1">
				<button data-qa-action="size-in-stock"><div class="size-selector-sizes-size__label">S</div></button>
			</li>
			<li class="size-selector-sizes-size" data-sku="2">
				<button><div class="size-selector-sizes-size__label">M</div></button>
			</li>
			<li class="size-selector-sizes-size">
				<button><div class="size-selector-sizes-size__label">L</div></button>
			</li>
		</ul>
	</body></html>`

	doc, err := scraper.ParseDocument(html)
	require.NoError(t, err)

	mapping := scrapeSizeMapping(doc)
	// SKU 속성이 없는 항목은 무시됩니다.
	assert.Equal(t, map[int]string{1: "S", 2: "M"}, mapping)
}

func TestScrapeSizeMappingEmpty(t *testing.T) {
	doc, err := scraper.ParseDocument(strings.ReplaceAll(`<html><body>
		<ul class="size-selector-sizes">
			<li class="size-selector-sizes-size"><button>S</button></li>
		</ul>
	</body></html>`, "\t", ""))
	require.NoError(t, err)

	assert.Empty(t, scrapeSizeMapping(doc))
}
