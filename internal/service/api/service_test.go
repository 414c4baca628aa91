package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/darkkaiser/zara-stock-server/internal/config"
	apperrors "github.com/darkkaiser/zara-stock-server/internal/pkg/errors"
	"github.com/darkkaiser/zara-stock-server/internal/service/contract"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testProductURL = "https://www.zara.com/uk/en/wool-coat-p01234567.html"

// fakeRunner 마지막 요청을 기록하고 미리 정해진 요약을 반환하는 테스트용 CheckRunner입니다.
type fakeRunner struct {
	lastRunBy      contract.CheckRunBy
	lastReferences []string
	summary        *contract.CycleSummary
	err            error
}

func (f *fakeRunner) RunCheckCycle(_ context.Context, runBy contract.CheckRunBy, references []string) (*contract.CycleSummary, error) {
	f.lastRunBy = runBy
	f.lastReferences = references
	return f.summary, f.err
}

func newTestService(runner contract.CheckRunner) *Service {
	cfg := &config.AppConfig{
		Watch: config.WatchConfig{
			Products: []string{testProductURL},
		},
		API: config.APIConfig{
			Enabled:    true,
			ListenPort: 8080,
		},
	}
	return NewService(cfg, runner)
}

func successSummary() *contract.CycleSummary {
	return &contract.CycleSummary{
		CycleID: "test-cycle-id",
		RunBy:   contract.CheckRunByAPI,
		Outcomes: []contract.CheckOutcome{
			{
				Result: contract.StockResult{
					Reference:      testProductURL,
					ProductURL:     testProductURL,
					Name:           "Wool Coat",
					Price:          "£69.50",
					InStock:        true,
					AvailableSizes: []string{"M", "S"},
					SourceMethod:   contract.SourceAPI,
					CheckedAt:      time.Now(),
				},
				NotificationSent: true,
			},
		},
		NotificationsSent: 2,
	}
}

func TestHandleCheck(t *testing.T) {
	t.Run("등록된 상품 전체 확인", func(t *testing.T) {
		runner := &fakeRunner{summary: successSummary()}
		svc := newTestService(runner)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/check", nil)
		rec := httptest.NewRecorder()
		svc.buildEcho().ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, contract.CheckRunByAPI, runner.lastRunBy)
		assert.Equal(t, []string{testProductURL}, runner.lastReferences)

		var payload checkResponsePayload
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
		assert.Equal(t, "success", payload.Status)
		assert.Equal(t, "test-cycle-id", payload.CycleID)
		assert.Equal(t, 1, payload.Count)
		assert.Equal(t, 2, payload.NotificationsSent)

		require.Len(t, payload.Results, 1)
		result := payload.Results[0]
		assert.Equal(t, testProductURL, result.URL)
		assert.Equal(t, "Wool Coat", result.Name)
		assert.True(t, result.InStock)
		assert.Equal(t, []string{"M", "S"}, result.AvailableSizes)
		assert.Equal(t, "api", result.SourceMethod)
		assert.True(t, result.NotificationSent)
		assert.Empty(t, result.Error)
	})

	t.Run("product_url 지정 시 해당 상품만 확인", func(t *testing.T) {
		runner := &fakeRunner{summary: successSummary()}
		svc := newTestService(runner)

		body := `{"product_url": "https://www.zara.com/uk/en/other-coat-p07654321.html"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/check", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		svc.buildEcho().ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []string{"https://www.zara.com/uk/en/other-coat-p07654321.html"}, runner.lastReferences)
	})

	t.Run("확인 실패 결과에 에러 포함", func(t *testing.T) {
		summary := &contract.CycleSummary{
			CycleID: "failed-cycle",
			Outcomes: []contract.CheckOutcome{
				{Result: contract.StockResult{
					Reference: testProductURL,
					CheckedAt: time.Now(),
					Err:       apperrors.New(apperrors.FetchFailed, "봇 차단 안내 페이지가 감지되었습니다"),
				}},
			},
		}
		svc := newTestService(&fakeRunner{summary: summary})

		req := httptest.NewRequest(http.MethodPost, "/api/v1/check", nil)
		rec := httptest.NewRecorder()
		svc.buildEcho().ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var payload checkResponsePayload
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
		require.Len(t, payload.Results, 1)
		assert.False(t, payload.Results[0].InStock)
		assert.NotEmpty(t, payload.Results[0].Error)
		assert.NotNil(t, payload.Results[0].AvailableSizes)
	})

	t.Run("사이클 실행 실패", func(t *testing.T) {
		runner := &fakeRunner{err: apperrors.New(apperrors.InvalidInput, "확인할 상품이 등록되어 있지 않습니다")}
		svc := newTestService(runner)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/check", nil)
		rec := httptest.NewRecorder()
		svc.buildEcho().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleHealth(t *testing.T) {
	svc := newTestService(&fakeRunner{summary: successSummary()})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	svc.buildEcho().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}
