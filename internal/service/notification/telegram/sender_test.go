package telegram

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/darkkaiser/zara-stock-server/internal/service/contract"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBotClient 테스트용 봇 클라이언트. 지정된 수신자에 대한 전송만 실패시킵니다.
type fakeBotClient struct {
	failChatIDs map[int64]error
	sent        []tgbotapi.MessageConfig
}

func (f *fakeBotClient) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	msg, ok := c.(tgbotapi.MessageConfig)
	if !ok {
		return tgbotapi.Message{}, errors.New("unexpected chattable type")
	}
	if err, ok := f.failChatIDs[msg.ChatID]; ok {
		return tgbotapi.Message{}, err
	}
	f.sent = append(f.sent, msg)
	return tgbotapi.Message{}, nil
}

func inStockResult() contract.StockResult {
	return contract.StockResult{
		Reference:      "https://www.zara.com/uk/en/wool-coat-p01234567.html",
		ProductURL:     "https://www.zara.com/uk/en/wool-coat-p01234567.html",
		Name:           "Wool Coat",
		Price:          "£69.50",
		InStock:        true,
		AvailableSizes: []string{"M", "S"},
		SourceMethod:   contract.SourceAPI,
	}
}

func TestNotifyStockResult(t *testing.T) {
	t.Run("전체 수신자 전송 성공", func(t *testing.T) {
		bot := &fakeBotClient{}
		sender := newSenderWithClient(bot, []int64{1, 2, 3})

		count := sender.NotifyStockResult(context.Background(), inStockResult())
		assert.Equal(t, 3, count)
		assert.Len(t, bot.sent, 3)
	})

	t.Run("일부 수신자 전송 실패", func(t *testing.T) {
		bot := &fakeBotClient{
			failChatIDs: map[int64]error{2: errors.New("Forbidden: bot was blocked by the user")},
		}
		sender := newSenderWithClient(bot, []int64{1, 2, 3})

		count := sender.NotifyStockResult(context.Background(), inStockResult())
		assert.Equal(t, 2, count)
		assert.Len(t, bot.sent, 2)
	})

	t.Run("컨텍스트 취소 시 전송 중단", func(t *testing.T) {
		bot := &fakeBotClient{}
		sender := newSenderWithClient(bot, []int64{1, 2})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		count := sender.NotifyStockResult(ctx, inStockResult())
		assert.Equal(t, 0, count)
	})
}

func TestRenderStockMessage(t *testing.T) {
	t.Run("재고 있음", func(t *testing.T) {
		message := renderStockMessage(inStockResult())
		assert.Contains(t, message, "Zara Item In Stock!")
		assert.Contains(t, message, "<b>Wool Coat</b>")
		assert.Contains(t, message, "Price: £69.50")
		assert.Contains(t, message, "Available Sizes: M, S")
		assert.Contains(t, message, `<a href="https://www.zara.com/uk/en/wool-coat-p01234567.html">View Product</a>`)
	})

	t.Run("재고 없음", func(t *testing.T) {
		result := inStockResult()
		result.InStock = false
		result.AvailableSizes = nil

		message := renderStockMessage(result)
		assert.Contains(t, message, "Zara Item Out of Stock")
		assert.Contains(t, message, "Status: <b>OUT OF STOCK</b>")
		assert.NotContains(t, message, "Available Sizes")
	})

	t.Run("상품명과 가격이 없는 경우 대체 문구 사용", func(t *testing.T) {
		result := contract.StockResult{Reference: "https://www.zara.com/uk/en/x-p0.html"}
		message := renderStockMessage(result)
		assert.Contains(t, message, "Unknown Product")
		assert.Contains(t, message, "Price: N/A")
		// 상품 페이지 URL을 모르는 경우 원본 참조를 링크로 사용합니다.
		assert.Contains(t, message, `<a href="https://www.zara.com/uk/en/x-p0.html">`)
	})

	t.Run("HTML 특수문자 이스케이프", func(t *testing.T) {
		result := inStockResult()
		result.Name = "Coat <limited & rare>"
		message := renderStockMessage(result)
		assert.Contains(t, message, "Coat &lt;limited &amp; rare&gt;")
	})
}

func TestSplitMessage(t *testing.T) {
	t.Run("짧은 메시지는 그대로", func(t *testing.T) {
		chunks := splitMessage("hello\nworld")
		assert.Equal(t, []string{"hello\nworld"}, chunks)
	})

	t.Run("긴 메시지는 줄바꿈 단위로 분할", func(t *testing.T) {
		line := strings.Repeat("a", 3000)
		message := line + "\n" + line

		chunks := splitMessage(message)
		require.Len(t, chunks, 2)
		for _, chunk := range chunks {
			assert.LessOrEqual(t, utf8.RuneCountInString(chunk), maxMessageLength)
		}
	})

	t.Run("한 줄이 최대 길이를 넘으면 문자 경계에서 분할", func(t *testing.T) {
		message := strings.Repeat("가", maxMessageLength+100)

		chunks := splitMessage(message)
		require.Len(t, chunks, 2)
		for _, chunk := range chunks {
			assert.True(t, utf8.ValidString(chunk))
			assert.LessOrEqual(t, utf8.RuneCountInString(chunk), maxMessageLength)
		}
		assert.Equal(t, maxMessageLength+100, utf8.RuneCountInString(chunks[0])+utf8.RuneCountInString(chunks[1]))
	})
}
