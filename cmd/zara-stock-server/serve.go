package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/darkkaiser/zara-stock-server/internal/config"
	"github.com/darkkaiser/zara-stock-server/internal/service"
	"github.com/darkkaiser/zara-stock-server/internal/service/api"
	"github.com/darkkaiser/zara-stock-server/internal/service/notification/telegram"
	"github.com/darkkaiser/zara-stock-server/internal/service/watcher"
	applog "github.com/darkkaiser/zara-stock-server/pkg/log"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "재고 감시 서버를 시작합니다",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	appConfig, err := config.LoadWithFile(configFile)
	if err != nil {
		return err
	}

	if err := setupLogging(appConfig, appConfig.Debug); err != nil {
		return err
	}

	printBanner()

	logger := applog.WithComponent("main")
	logger.Infof("%s 시작 (version:%s, debug:%t)", config.AppName, version, appConfig.Debug)

	sender, err := telegram.NewSender(appConfig.Telegram.BotToken, appConfig.Telegram.ChatIDs)
	if err != nil {
		return err
	}

	checker, renderer := buildChecker(appConfig)
	if renderer != nil {
		defer renderer.Close()
	}

	watcherService := watcher.NewService(appConfig, checker, sender)

	services := []service.Service{
		watcherService,
		api.NewService(appConfig, watcherService),
	}

	serviceStopCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var serviceStopWG sync.WaitGroup
	for _, svc := range services {
		serviceStopWG.Add(1)
		if err := svc.Start(serviceStopCtx, &serviceStopWG); err != nil {
			logger.Errorf("서비스 시작에 실패했습니다. (error:%v)", err)
		}
	}

	// 종료 시그널을 기다립니다.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigs

	logger.Infof("종료 시그널을 수신했습니다. 서비스를 중지합니다. (signal:%s)", sig)

	cancel()
	serviceStopWG.Wait()

	logger.Infof("%s 종료", config.AppName)

	return nil
}
