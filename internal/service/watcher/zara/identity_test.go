package zara

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apperrors "github.com/darkkaiser/zara-stock-server/internal/pkg/errors"
	"github.com/darkkaiser/zara-stock-server/internal/service/watcher/fetcher"
	"github.com/darkkaiser/zara-stock-server/internal/service/watcher/scraper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver() *Resolver {
	return NewResolver(scraper.New(fetcher.NewHTTPFetcher(5 * time.Second)))
}

func TestResolveFromAPIURL(t *testing.T) {
	identity, err := newTestResolver().Resolve(context.Background(),
		"https://www.zara.com/itxrest/1/catalog/store/10706/product/id/483276547/availability")
	require.NoError(t, err)
	assert.Equal(t, ProductIdentity{StoreID: 10706, ProductID: 483276547}, identity)
}

func TestResolveFromKnownSlug(t *testing.T) {
	identity, err := newTestResolver().Resolve(context.Background(),
		"https://www.zara.com/uk/en/wool-double-breasted-coat-p08475319.html")
	require.NoError(t, err)
	assert.Equal(t, ProductIdentity{StoreID: 10706, ProductID: 483276547}, identity)
}

func TestResolveFromPageContent(t *testing.T) {
	tests := []struct {
		name string
		body string
		want ProductIdentity
	}{
		{
			name: "productId 필드",
			body: `<script>window.zara = {"productId": 123456789};</script>`,
			want: ProductIdentity{StoreID: 10706, ProductID: 123456789},
		},
		{
			name: "product_id 토큰",
			body: `<div data-info="product_id=987654321"></div>`,
			want: ProductIdentity{StoreID: 10706, ProductID: 987654321},
		},
		{
			name: "product/id 경로 조각",
			body: `<script>fetch("/product/id/555666777")</script>`,
			want: ProductIdentity{StoreID: 10706, ProductID: 555666777},
		},
		{
			name: "재고 API URL 전체 포함",
			body: `<script>var u = "https://www.zara.com/itxrest/2/catalog/store/11223/product/id/444555666/availability";</script>`,
			want: ProductIdentity{StoreID: 11223, ProductID: 444555666},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("<html><body>" + tc.body + "</body></html>"))
			}))
			defer server.Close()

			identity, err := newTestResolver().Resolve(context.Background(), server.URL+"/en/some-product-p01234567.html")
			require.NoError(t, err)
			assert.Equal(t, tc.want, identity)
		})
	}
}

func TestResolveFailure(t *testing.T) {
	t.Run("식별자 없는 페이지", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html><body>nothing here</body></html>"))
		}))
		defer server.Close()

		_, err := newTestResolver().Resolve(context.Background(), server.URL+"/en/unknown-product-p099.html")
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ResolutionFailed))
	})

	t.Run("페이지 조회 실패는 해석 실패로 처리", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		_, err := newTestResolver().Resolve(context.Background(), server.URL+"/en/unknown-product-p099.html")
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ResolutionFailed))
	})
}
