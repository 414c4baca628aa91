// Package watcher 등록된 상품들의 재고를 주기적으로 확인하고 변화를 알리는 서비스를 구현합니다.
package watcher

import (
	"context"
	"sync"
	"time"

	"github.com/darkkaiser/zara-stock-server/internal/config"
	apperrors "github.com/darkkaiser/zara-stock-server/internal/pkg/errors"
	"github.com/darkkaiser/zara-stock-server/internal/service/contract"
	"github.com/darkkaiser/zara-stock-server/internal/service/watcher/tracker"
	applog "github.com/darkkaiser/zara-stock-server/pkg/log"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"golang.org/x/time/rate"
)

// Service 재고 확인 사이클을 스케줄에 따라 실행하는 서비스입니다.
//
// 사이클 내의 상품들은 순차적으로 확인되며, 상품 사이에는 대상 서버 보호를 위한
// 짧은 지연이 적용됩니다.
type Service struct {
	config *config.AppConfig

	checker contract.StockChecker
	sender  contract.StockNotificationSender
	tracker *tracker.Tracker

	cron    *cron.Cron
	limiter *rate.Limiter

	running   bool
	runningMu sync.Mutex

	logger *applog.Entry
}

var _ contract.CheckRunner = (*Service)(nil)

// NewService 새로운 재고 감시 서비스를 생성합니다.
func NewService(appConfig *config.AppConfig, checker contract.StockChecker, sender contract.StockNotificationSender) *Service {
	if appConfig == nil {
		panic("watcher.NewService: appConfig는 nil일 수 없습니다")
	}
	if checker == nil {
		panic("watcher.NewService: checker는 nil일 수 없습니다")
	}
	if sender == nil {
		panic("watcher.NewService: sender는 nil일 수 없습니다")
	}

	return &Service{
		config:  appConfig,
		checker: checker,
		sender:  sender,
		tracker: tracker.New(appConfig.Watch.Heartbeat()),
		limiter: rate.NewLimiter(rate.Every(appConfig.Watch.ProductDelay()), 1),
		logger:  applog.WithComponent("watcher.service"),
	}
}

// Start 재고 감시 서비스를 시작합니다.
func (s *Service) Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	s.logger.Debug("재고 감시 서비스 시작중...")

	if s.running {
		defer serviceStopWG.Done()
		return apperrors.New(apperrors.Internal, "재고 감시 서비스가 이미 시작되었습니다")
	}

	s.cron = cron.New(
		cron.WithLogger(cron.VerbosePrintfLogger(applog.StandardLogger())),
		cron.WithChain(
			cron.Recover(cron.VerbosePrintfLogger(applog.StandardLogger())),
			cron.SkipIfStillRunning(cron.VerbosePrintfLogger(applog.StandardLogger())),
		),
	)
	entryID := s.cron.Schedule(cron.Every(s.config.Watch.CheckInterval()), cron.FuncJob(func() {
		s.runScheduledCycle(serviceStopCtx)
	}))
	s.cron.Start()

	// 첫 확인은 스케줄 주기를 기다리지 않고 곧바로 실행합니다.
	// 스케줄 잡과 동일한 체인을 거치므로 사이클이 서로 겹치지 않습니다.
	go s.cron.Entry(entryID).WrappedJob.Run()

	go func(stopCtx context.Context, stopWG *sync.WaitGroup) {
		defer stopWG.Done()

		<-stopCtx.Done()

		s.logger.Debug("재고 감시 서비스 중지중...")

		s.runningMu.Lock()
		// 실행중인 사이클이 끝날 때까지 기다립니다.
		cronStopCtx := s.cron.Stop()
		<-cronStopCtx.Done()
		s.running = false
		s.runningMu.Unlock()

		s.logger.Debug("재고 감시 서비스 중지됨")
	}(serviceStopCtx, serviceStopWG)

	s.running = true

	s.logger.Debug("재고 감시 서비스 시작됨")

	return nil
}

// runScheduledCycle 스케줄러에 의한 재고 확인 사이클을 실행합니다.
func (s *Service) runScheduledCycle(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	if _, err := s.RunCheckCycle(ctx, contract.CheckRunByScheduler, s.config.Watch.Products); err != nil {
		s.logger.Errorf("재고 확인 사이클 실행에 실패했습니다. (error:%v)", err)
	}
}

// RunCheckCycle 상품 목록에 대한 재고 확인 사이클 한 번을 실행합니다.
//
// 개별 상품의 확인 실패는 사이클을 중단시키지 않으며, 결과에 실패 정보가 담겨
// 반환됩니다. 스케줄러 실행에서는 상태 변화 추적에 따라 알림 여부가 결정되고,
// 일회성 실행에서는 설정 정책에 어긋나지 않는 한 항상 알림이 전송됩니다.
func (s *Service) RunCheckCycle(ctx context.Context, runBy contract.CheckRunBy, references []string) (*contract.CycleSummary, error) {
	if len(references) == 0 {
		return nil, apperrors.New(apperrors.InvalidInput, "확인할 상품이 등록되어 있지 않습니다")
	}

	summary := &contract.CycleSummary{
		CycleID:   uuid.New().String(),
		RunBy:     runBy,
		StartedAt: time.Now(),
	}

	logger := s.logger.WithField("cycle_id", summary.CycleID)
	logger.Infof("재고 확인 사이클을 시작합니다. (run_by:%s, products:%d)", runBy, len(references))

	for _, reference := range references {
		// 상품 사이에 대상 서버 보호를 위한 지연을 둡니다.
		if err := s.limiter.Wait(ctx); err != nil {
			logger.Warnf("재고 확인 사이클이 중단되었습니다. (error:%v)", err)
			break
		}

		result := s.checker.Check(ctx, reference)
		outcome := contract.CheckOutcome{Result: result}

		if result.Failed() {
			logger.Warnf("상품 재고 확인에 실패했습니다. (reference:%s, error:%v)", reference, result.Err)
		} else {
			logger.Infof("상품 재고 확인 완료 (reference:%s, in_stock:%t, sizes:%v, method:%s)", reference, result.InStock, result.AvailableSizes, result.SourceMethod)
		}

		if s.shouldNotify(runBy, &result) {
			sentCount := s.sender.NotifyStockResult(ctx, result)
			if sentCount > 0 {
				outcome.NotificationSent = true
				summary.NotificationsSent += sentCount

				if runBy == contract.CheckRunByScheduler {
					s.tracker.MarkNotified(reference, result.InStock)
				}
			}
		}

		summary.Outcomes = append(summary.Outcomes, outcome)
	}

	summary.FinishedAt = time.Now()

	logger.Infof("재고 확인 사이클이 완료되었습니다. (checked:%d, notifications_sent:%d, elapsed:%s)",
		len(summary.Outcomes), summary.NotificationsSent, summary.FinishedAt.Sub(summary.StartedAt).Round(time.Millisecond))

	return summary, nil
}

// shouldNotify 확인 결과에 대한 알림 전송 여부를 결정합니다.
func (s *Service) shouldNotify(runBy contract.CheckRunBy, result *contract.StockResult) bool {
	// 확인 자체가 실패한 결과는 알리지 않습니다.
	if result.Failed() {
		return false
	}
	if !result.InStock && s.config.Watch.SkipOutOfStockNotification {
		return false
	}

	// 일회성 실행은 상태 변화와 무관하게 항상 알립니다.
	if runBy != contract.CheckRunByScheduler {
		return true
	}

	return s.tracker.Observe(result.Reference, result.InStock) != tracker.EventNone
}
