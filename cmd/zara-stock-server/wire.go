package main

import (
	"github.com/darkkaiser/zara-stock-server/internal/config"
	"github.com/darkkaiser/zara-stock-server/internal/service/watcher/browser"
	"github.com/darkkaiser/zara-stock-server/internal/service/watcher/fetcher"
	"github.com/darkkaiser/zara-stock-server/internal/service/watcher/scraper"
	"github.com/darkkaiser/zara-stock-server/internal/service/watcher/zara"
	applog "github.com/darkkaiser/zara-stock-server/pkg/log"
)

// buildChecker 설정에 따라 재고 확인기와 브라우저 렌더러를 구성합니다.
//
// 브라우저 렌더러 초기화에 실패해도 나머지 확인 전략은 유효하므로 경고만 남기고
// 렌더러 없이 진행합니다. 반환된 렌더러는 nil일 수 있으며, nil이 아닌 경우
// 종료 시 호출자가 Close()를 호출해야 합니다.
func buildChecker(appConfig *config.AppConfig) (*zara.Checker, browser.Renderer) {
	f := fetcher.NewUserAgentFetcher(fetcher.NewHTTPFetcher(0), nil)
	s := scraper.New(f)

	var renderer browser.Renderer
	if appConfig.Watch.Browser.Enabled {
		r, err := browser.NewChromeRenderer(appConfig.Watch.Browser.Timeout())
		if err != nil {
			applog.WithComponent("main").Warnf("헤드리스 브라우저 초기화에 실패하여 브라우저 렌더링 전략 없이 시작합니다. (error:%v)", err)
		} else {
			renderer = r
		}
	}

	policy := zara.Policy{
		RequireAllSizes: appConfig.Watch.RequireAllSizes,
		MinSizesInStock: appConfig.Watch.MinSizesInStock,
	}

	return zara.NewChecker(zara.NewResolver(s), s, renderer, policy), renderer
}

// setupLogging 설정에 맞는 로그 프로파일로 로깅을 초기화합니다.
func setupLogging(appConfig *config.AppConfig, enableConsole bool) error {
	opts := applog.NewProductionOptions(config.AppName)
	if appConfig.Debug {
		opts = applog.NewDevelopmentOptions(config.AppName)
	}
	opts.EnableConsoleLog = enableConsole
	opts.CallerPathPrefix = "github.com/darkkaiser/zara-stock-server/"

	if _, err := applog.Setup(opts); err != nil {
		return err
	}

	applog.SetDebugMode(appConfig.Debug)

	return nil
}
