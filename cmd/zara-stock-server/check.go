package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/darkkaiser/zara-stock-server/internal/config"
	"github.com/darkkaiser/zara-stock-server/internal/service/contract"
	"github.com/darkkaiser/zara-stock-server/internal/service/notification/telegram"
	"github.com/darkkaiser/zara-stock-server/internal/service/watcher"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [product_url]",
	Short: "재고 확인 사이클을 한 번 실행하고 결과를 출력합니다",
	Long: `등록된 상품 전체(또는 인자로 지정한 상품 하나)의 재고를 확인하고
결과 요약을 JSON으로 출력합니다. 알림은 설정 정책에 따라 항상 전송됩니다.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

// checkOutputResult 일회성 확인 결과 출력의 상품 하나 항목입니다.
type checkOutputResult struct {
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

type checkOutput struct {
	CycleID           string              `json:"cycle_id"`
	Results           []checkOutputResult `json:"results"`
	NotificationsSent int                 `json:"notifications_sent"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	appConfig, err := config.LoadWithFile(configFile)
	if err != nil {
		return err
	}

	if err := setupLogging(appConfig, false); err != nil {
		return err
	}

	sender, err := telegram.NewSender(appConfig.Telegram.BotToken, appConfig.Telegram.ChatIDs)
	if err != nil {
		return err
	}

	checker, renderer := buildChecker(appConfig)
	if renderer != nil {
		defer renderer.Close()
	}

	references := appConfig.Watch.Products
	if len(args) == 1 {
		references = []string{args[0]}
	}

	watcherService := watcher.NewService(appConfig, checker, sender)
	summary, err := watcherService.RunCheckCycle(context.Background(), contract.CheckRunByUser, references)
	if err != nil {
		return err
	}

	output := checkOutput{
		CycleID:           summary.CycleID,
		NotificationsSent: summary.NotificationsSent,
	}
	for _, outcome := range summary.Outcomes {
		result := checkOutputResult{
			URL:              outcome.Result.Link(),
			Name:             outcome.Result.Name,
			Price:            outcome.Result.Price,
			InStock:          outcome.Result.InStock,
			AvailableSizes:   outcome.Result.AvailableSizes,
			SourceMethod:     string(outcome.Result.SourceMethod),
			Timestamp:        outcome.Result.CheckedAt.Format(time.RFC3339),
			NotificationSent: outcome.NotificationSent,
		}
		if result.AvailableSizes == nil {
			result.AvailableSizes = []string{}
		}
		if outcome.Result.Failed() {
			result.Error = outcome.Result.Err.Error()
		}
		output.Results = append(output.Results, result)
	}

	encoded, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(encoded))

	return nil
}
