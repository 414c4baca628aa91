package watcher

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/darkkaiser/zara-stock-server/internal/config"
	apperrors "github.com/darkkaiser/zara-stock-server/internal/pkg/errors"
	"github.com/darkkaiser/zara-stock-server/internal/service/contract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testProductURL = "https://www.zara.com/uk/en/wool-coat-p01234567.html"

// fakeChecker 참조별로 미리 정해진 결과를 반환하는 테스트용 재고 확인기입니다.
type fakeChecker struct {
	results map[string]contract.StockResult
}

func (f *fakeChecker) Check(_ context.Context, reference string) contract.StockResult {
	if result, ok := f.results[reference]; ok {
		result.Reference = reference
		return result
	}
	return contract.StockResult{
		Reference: reference,
		Err:       apperrors.New(apperrors.FetchFailed, "재고 확인에 실패했습니다"),
	}
}

// fakeSender 전송된 결과를 기록하는 테스트용 알림 발송기입니다.
type fakeSender struct {
	successCount int
	notified     []contract.StockResult
}

func (f *fakeSender) NotifyStockResult(_ context.Context, result contract.StockResult) int {
	f.notified = append(f.notified, result)
	return f.successCount
}

// blockingChecker 확인 시작을 알리고 해제 신호를 받을 때까지 대기하는 테스트용 재고 확인기입니다.
type blockingChecker struct {
	entered chan struct{}
	release chan struct{}
	calls   atomic.Int32
}

func (b *blockingChecker) Check(_ context.Context, reference string) contract.StockResult {
	b.calls.Add(1)
	b.entered <- struct{}{}
	<-b.release
	return contract.StockResult{Reference: reference, InStock: true, Name: "Wool Coat"}
}

func newTestService(checker contract.StockChecker, sender contract.StockNotificationSender, mutate func(*config.WatchConfig)) *Service {
	cfg := &config.AppConfig{
		Watch: config.WatchConfig{
			Products:             []string{testProductURL},
			CheckIntervalSeconds: 300,
			ProductDelaySeconds:  0,
			HeartbeatHours:       24,
		},
	}
	if mutate != nil {
		mutate(&cfg.Watch)
	}
	return NewService(cfg, checker, sender)
}

func TestRunCheckCycle(t *testing.T) {
	t.Run("첫 확인은 알림 전송", func(t *testing.T) {
		checker := &fakeChecker{results: map[string]contract.StockResult{
			testProductURL: {InStock: true, AvailableSizes: []string{"M"}, Name: "Wool Coat"},
		}}
		sender := &fakeSender{successCount: 2}
		svc := newTestService(checker, sender, nil)

		summary, err := svc.RunCheckCycle(context.Background(), contract.CheckRunByScheduler, []string{testProductURL})
		require.NoError(t, err)

		require.Len(t, summary.Outcomes, 1)
		assert.True(t, summary.Outcomes[0].NotificationSent)
		assert.Equal(t, 2, summary.NotificationsSent)
		assert.NotEmpty(t, summary.CycleID)
	})

	t.Run("상태 유지 시 알림 생략", func(t *testing.T) {
		checker := &fakeChecker{results: map[string]contract.StockResult{
			testProductURL: {InStock: true, Name: "Wool Coat"},
		}}
		sender := &fakeSender{successCount: 1}
		svc := newTestService(checker, sender, nil)

		_, err := svc.RunCheckCycle(context.Background(), contract.CheckRunByScheduler, []string{testProductURL})
		require.NoError(t, err)
		require.Len(t, sender.notified, 1)

		summary, err := svc.RunCheckCycle(context.Background(), contract.CheckRunByScheduler, []string{testProductURL})
		require.NoError(t, err)
		assert.Len(t, sender.notified, 1)
		assert.False(t, summary.Outcomes[0].NotificationSent)
	})

	t.Run("상태 변화 시 알림 전송", func(t *testing.T) {
		checker := &fakeChecker{results: map[string]contract.StockResult{
			testProductURL: {InStock: false, Name: "Wool Coat"},
		}}
		sender := &fakeSender{successCount: 1}
		svc := newTestService(checker, sender, nil)

		_, err := svc.RunCheckCycle(context.Background(), contract.CheckRunByScheduler, []string{testProductURL})
		require.NoError(t, err)

		checker.results[testProductURL] = contract.StockResult{InStock: true, Name: "Wool Coat"}
		summary, err := svc.RunCheckCycle(context.Background(), contract.CheckRunByScheduler, []string{testProductURL})
		require.NoError(t, err)

		assert.Len(t, sender.notified, 2)
		assert.True(t, summary.Outcomes[0].NotificationSent)
	})

	t.Run("일회성 실행은 항상 알림 전송", func(t *testing.T) {
		checker := &fakeChecker{results: map[string]contract.StockResult{
			testProductURL: {InStock: true, Name: "Wool Coat"},
		}}
		sender := &fakeSender{successCount: 1}
		svc := newTestService(checker, sender, nil)

		for i := 0; i < 2; i++ {
			summary, err := svc.RunCheckCycle(context.Background(), contract.CheckRunByUser, []string{testProductURL})
			require.NoError(t, err)
			assert.True(t, summary.Outcomes[0].NotificationSent)
		}
		assert.Len(t, sender.notified, 2)
	})

	t.Run("품절 알림 생략 설정", func(t *testing.T) {
		checker := &fakeChecker{results: map[string]contract.StockResult{
			testProductURL: {InStock: false, Name: "Wool Coat"},
		}}
		sender := &fakeSender{successCount: 1}
		svc := newTestService(checker, sender, func(watch *config.WatchConfig) {
			watch.SkipOutOfStockNotification = true
		})

		summary, err := svc.RunCheckCycle(context.Background(), contract.CheckRunByUser, []string{testProductURL})
		require.NoError(t, err)
		assert.Empty(t, sender.notified)
		assert.False(t, summary.Outcomes[0].NotificationSent)
	})

	t.Run("확인 실패 시 알림 생략", func(t *testing.T) {
		checker := &fakeChecker{}
		sender := &fakeSender{successCount: 1}
		svc := newTestService(checker, sender, nil)

		summary, err := svc.RunCheckCycle(context.Background(), contract.CheckRunByScheduler, []string{testProductURL})
		require.NoError(t, err)

		require.Len(t, summary.Outcomes, 1)
		assert.True(t, summary.Outcomes[0].Result.Failed())
		assert.False(t, summary.Outcomes[0].NotificationSent)
		assert.Empty(t, sender.notified)
	})

	t.Run("전송 실패 시 추적 상태 미갱신", func(t *testing.T) {
		checker := &fakeChecker{results: map[string]contract.StockResult{
			testProductURL: {InStock: true, Name: "Wool Coat"},
		}}
		sender := &fakeSender{successCount: 0}
		svc := newTestService(checker, sender, nil)

		_, err := svc.RunCheckCycle(context.Background(), contract.CheckRunByScheduler, []string{testProductURL})
		require.NoError(t, err)

		// 전송에 실패했으므로 다음 사이클에서도 알림이 다시 시도됩니다.
		_, err = svc.RunCheckCycle(context.Background(), contract.CheckRunByScheduler, []string{testProductURL})
		require.NoError(t, err)
		assert.Len(t, sender.notified, 2)
	})

	t.Run("빈 상품 목록", func(t *testing.T) {
		svc := newTestService(&fakeChecker{}, &fakeSender{}, nil)

		_, err := svc.RunCheckCycle(context.Background(), contract.CheckRunByScheduler, nil)
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.InvalidInput))
	})
}

func TestStartInitialCycleDoesNotOverlap(t *testing.T) {
	checker := &blockingChecker{entered: make(chan struct{}, 1), release: make(chan struct{})}
	sender := &fakeSender{successCount: 1}
	svc := newTestService(checker, sender, nil)

	ctx, cancel := context.WithCancel(context.Background())
	wg := &sync.WaitGroup{}
	wg.Add(1)
	require.NoError(t, svc.Start(ctx, wg))

	// 기동 직후의 첫 사이클이 확인을 시작할 때까지 기다립니다.
	<-checker.entered

	// 첫 사이클이 끝나기 전에 도래한 스케줄 실행은 겹치지 않고 건너뜁니다.
	svc.cron.Entries()[0].WrappedJob.Run()
	assert.EqualValues(t, 1, checker.calls.Load())

	close(checker.release)
	cancel()
	wg.Wait()
}
