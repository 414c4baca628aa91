package main

import (
	"fmt"

	"github.com/darkkaiser/zara-stock-server/internal/config"
	"github.com/spf13/cobra"
)

// 빌드 시점에 -ldflags로 주입되는 버전 정보
var (
	version   = "dev"
	buildDate = "unknown"
)

// configFile 설정 파일 경로 (--config 플래그)
var configFile string

var rootCmd = &cobra.Command{
	Use:           config.AppName,
	Short:         "Zara 상품 재고 확인 및 텔레그램 알림 서버",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", config.DefaultFilename, "설정 파일 경로")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(checkCmd)
}

// printBanner 애플리케이션 기동 배너를 출력합니다.
func printBanner() {
	fmt.Println("######################################################")
	fmt.Printf("###  %s %s (%s)\n", config.AppName, version, buildDate)
	fmt.Println("###")
	fmt.Println("###  Zara 상품 재고 확인 및 텔레그램 알림 서버")
	fmt.Println("######################################################")
	fmt.Println("")
}
