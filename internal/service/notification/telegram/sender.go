// Package telegram 재고 확인 결과를 텔레그램으로 전송하는 알림 발송기를 구현합니다.
package telegram

import (
	"context"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	apperrors "github.com/darkkaiser/zara-stock-server/internal/pkg/errors"
	"github.com/darkkaiser/zara-stock-server/internal/service/contract"
	applog "github.com/darkkaiser/zara-stock-server/pkg/log"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	// maxMessageLength 텔레그램 메시지 하나의 최대 길이
	maxMessageLength = 4096

	// sendTimeout 메시지 전송 한 건의 제한시간
	sendTimeout = 10 * time.Second
)

// botClient 텔레그램 봇 API 클라이언트 인터페이스입니다.
type botClient interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Sender 재고 확인 결과를 등록된 모든 수신자에게 전송하는 텔레그램 알림 발송기입니다.
//
// 메시지 전송은 수신자별로 1회만 시도하는 최선 노력 방식이며, 재시도나 전송률
// 제한은 수행하지 않습니다.
type Sender struct {
	bot     botClient
	chatIDs []int64

	logger *applog.Entry
}

var _ contract.StockNotificationSender = (*Sender)(nil)

// NewSender 새로운 Sender를 생성합니다. 봇 토큰 검증을 위해 텔레그램 서버와 통신합니다.
func NewSender(botToken string, chatIDs []int64) (*Sender, error) {
	bot, err := tgbotapi.NewBotAPIWithClient(botToken, tgbotapi.APIEndpoint, &http.Client{
		Timeout: sendTimeout,
	})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.DeliveryFailed, "텔레그램 봇 초기화에 실패했습니다")
	}

	return newSenderWithClient(bot, chatIDs), nil
}

func newSenderWithClient(bot botClient, chatIDs []int64) *Sender {
	return &Sender{
		bot:     bot,
		chatIDs: chatIDs,
		logger:  applog.WithComponent("notification.telegram"),
	}
}

// NotifyStockResult 재고 확인 결과를 모든 수신자에게 전송하고 성공한 수신자의 수를 반환합니다.
//
// 개별 수신자에 대한 전송 실패는 로그로 남기고 다른 수신자에 대한 전송을 계속합니다.
func (s *Sender) NotifyStockResult(ctx context.Context, result contract.StockResult) int {
	message := renderStockMessage(result)

	successCount := 0
	for _, chatID := range s.chatIDs {
		if ctx.Err() != nil {
			s.logger.Warnf("컨텍스트가 취소되어 남은 수신자에 대한 알림 전송을 중단합니다. (error:%v)", ctx.Err())
			break
		}

		if err := s.sendMessage(chatID, message); err != nil {
			s.logger.WithField("chat_id", chatID).Errorf("텔레그램 알림 메시지 전송에 실패했습니다. (error:%v)", err)
			continue
		}
		successCount++
	}

	return successCount
}

// sendMessage 메시지를 최대 길이에 맞게 분할하여 수신자 한 명에게 전송합니다.
func (s *Sender) sendMessage(chatID int64, message string) error {
	for _, chunk := range splitMessage(message) {
		msg := tgbotapi.NewMessage(chatID, chunk)
		msg.ParseMode = tgbotapi.ModeHTML
		msg.DisableWebPagePreview = false

		if _, err := s.bot.Send(msg); err != nil {
			// HTML 파싱 오류로 거부된 경우 일반 텍스트로 한 번 더 시도합니다.
			if strings.Contains(err.Error(), "Bad Request") {
				plain := tgbotapi.NewMessage(chatID, chunk)
				if _, plainErr := s.bot.Send(plain); plainErr == nil {
					continue
				}
			}
			return apperrors.Wrap(err, apperrors.DeliveryFailed, "텔레그램 메시지 전송에 실패했습니다")
		}
	}
	return nil
}

// splitMessage 메시지를 텔레그램 최대 길이 이하의 조각들로 분할합니다.
//
// 가능한 한 줄바꿈 단위로 나누고, 한 줄이 최대 길이를 넘는 경우에만 UTF-8
// 문자 경계에 맞추어 강제로 자릅니다.
func splitMessage(message string) []string {
	if utf8.RuneCountInString(message) <= maxMessageLength {
		return []string{message}
	}

	var chunks []string
	var sb strings.Builder
	sb.Grow(maxMessageLength)

	flush := func() {
		if sb.Len() > 0 {
			chunks = append(chunks, sb.String())
			sb.Reset()
		}
	}

	for _, line := range strings.Split(message, "\n") {
		for utf8.RuneCountInString(line) > maxMessageLength {
			flush()
			head, rest := safeSplit(line, maxMessageLength)
			chunks = append(chunks, head)
			line = rest
		}

		if utf8.RuneCountInString(sb.String())+utf8.RuneCountInString(line)+1 > maxMessageLength {
			flush()
		}
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(line)
	}
	flush()

	return chunks
}

// safeSplit 문자열을 UTF-8 문자 경계에 맞추어 최대 n개 문자에서 자릅니다.
func safeSplit(s string, n int) (head, rest string) {
	count := 0
	for i := range s {
		if count == n {
			return s[:i], s[i:]
		}
		count++
	}
	return s, ""
}
