// Package api 재고 확인을 외부에서 요청할 수 있는 HTTP API 서비스를 구현합니다.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/darkkaiser/zara-stock-server/internal/config"
	apperrors "github.com/darkkaiser/zara-stock-server/internal/pkg/errors"
	"github.com/darkkaiser/zara-stock-server/internal/service/contract"
	applog "github.com/darkkaiser/zara-stock-server/pkg/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// shutdownTimeout HTTP 서버 종료 시 진행중인 요청을 기다리는 최대 시간
const shutdownTimeout = 10 * time.Second

// Service 재고 확인 HTTP API 서비스입니다.
type Service struct {
	config *config.AppConfig
	runner contract.CheckRunner

	echo *echo.Echo

	running   bool
	runningMu sync.Mutex

	logger *applog.Entry
}

// NewService 새로운 HTTP API 서비스를 생성합니다.
func NewService(appConfig *config.AppConfig, runner contract.CheckRunner) *Service {
	if appConfig == nil {
		panic("api.NewService: appConfig는 nil일 수 없습니다")
	}
	if runner == nil {
		panic("api.NewService: runner는 nil일 수 없습니다")
	}

	return &Service{
		config: appConfig,
		runner: runner,
		logger: applog.WithComponent("api.service"),
	}
}

// Start HTTP API 서비스를 시작합니다. 설정에서 비활성화된 경우 아무 것도 하지 않습니다.
func (s *Service) Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	if !s.config.API.Enabled {
		defer serviceStopWG.Done()
		s.logger.Info("HTTP API 서비스가 비활성화되어 있어 시작하지 않습니다.")
		return nil
	}

	s.logger.Debug("HTTP API 서비스 시작중...")

	if s.running {
		defer serviceStopWG.Done()
		return apperrors.New(apperrors.Internal, "HTTP API 서비스가 이미 시작되었습니다")
	}

	s.echo = s.buildEcho()

	go func() {
		listenAddr := fmt.Sprintf(":%d", s.config.API.ListenPort)
		s.logger.Infof("HTTP API 서비스를 시작합니다. (addr:%s)", listenAddr)

		if err := s.echo.Start(listenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Errorf("HTTP API 서버 실행에 실패했습니다. (error:%v)", err)
		}
	}()

	go func(stopCtx context.Context, stopWG *sync.WaitGroup) {
		defer stopWG.Done()

		<-stopCtx.Done()

		s.logger.Debug("HTTP API 서비스 중지중...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		s.runningMu.Lock()
		if err := s.echo.Shutdown(shutdownCtx); err != nil {
			s.logger.Errorf("HTTP API 서버 종료에 실패했습니다. (error:%v)", err)
		}
		s.running = false
		s.runningMu.Unlock()

		s.logger.Debug("HTTP API 서비스 중지됨")
	}(serviceStopCtx, serviceStopWG)

	s.running = true

	s.logger.Debug("HTTP API 서비스 시작됨")

	return nil
}

// buildEcho 라우팅과 미들웨어가 구성된 Echo 인스턴스를 생성합니다.
func (s *Service) buildEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	if len(s.config.API.CORS.AllowOrigins) > 0 {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: s.config.API.CORS.AllowOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		}))
	}

	e.GET("/health", s.handleHealth)
	e.POST("/api/v1/check", s.handleCheck)

	return e
}

func (s *Service) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
		"app":    config.AppName,
	})
}

// checkRequest 재고 확인 요청의 본문입니다. product_url이 지정되면 설정된 상품
// 목록 대신 해당 상품 하나만 확인합니다.
type checkRequest struct {
	ProductURL string `json:"product_url"`
}

type checkResultPayload struct {
	URL              string   `json:"url"`
	Name             string   `json:"name,omitempty"`
	Price            string   `json:"price,omitempty"`
	InStock          bool     `json:"in_stock"`
	AvailableSizes   []string `json:"available_sizes"`
	SourceMethod     string   `json:"source_method,omitempty"`
	Timestamp        string   `json:"timestamp"`
	NotificationSent bool     `json:"notification_sent"`
	Error            string   `json:"error,omitempty"`
}

type checkResponsePayload struct {
	Status            string               `json:"status"`
	CycleID           string               `json:"cycle_id"`
	Results           []checkResultPayload `json:"results"`
	Count             int                  `json:"count"`
	NotificationsSent int                  `json:"notifications_sent"`
}

func (s *Service) handleCheck(c echo.Context) error {
	var req checkRequest
	if c.Request().ContentLength > 0 {
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"status": "error",
				"error":  "요청 본문을 해석할 수 없습니다",
			})
		}
	}

	references := s.config.Watch.Products
	if req.ProductURL != "" {
		references = []string{req.ProductURL}
	}

	summary, err := s.runner.RunCheckCycle(c.Request().Context(), contract.CheckRunByAPI, references)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"status": "error",
			"error":  err.Error(),
		})
	}

	results := make([]checkResultPayload, 0, len(summary.Outcomes))
	for _, outcome := range summary.Outcomes {
		payload := checkResultPayload{
			URL:              outcome.Result.Link(),
			Name:             outcome.Result.Name,
			Price:            outcome.Result.Price,
			InStock:          outcome.Result.InStock,
			AvailableSizes:   outcome.Result.AvailableSizes,
			SourceMethod:     string(outcome.Result.SourceMethod),
			Timestamp:        outcome.Result.CheckedAt.Format(time.RFC3339),
			NotificationSent: outcome.NotificationSent,
		}
		if payload.AvailableSizes == nil {
			payload.AvailableSizes = []string{}
		}
		if outcome.Result.Failed() {
			payload.Error = outcome.Result.Err.Error()
		}
		results = append(results, payload)
	}

	return c.JSON(http.StatusOK, checkResponsePayload{
		Status:            "success",
		CycleID:           summary.CycleID,
		Results:           results,
		Count:             len(results),
		NotificationsSent: summary.NotificationsSent,
	})
}
