package telegram

import (
	"fmt"
	"html"
	"strings"

	"github.com/darkkaiser/zara-stock-server/internal/service/contract"
)

// renderStockMessage 재고 확인 결과를 텔레그램 HTML 메시지로 렌더링합니다.
//
// 재고 유무에 따라 두 가지 형식 중 하나를 사용하며, 모든 수신자에게 동일한
// 메시지가 전송됩니다.
func renderStockMessage(result contract.StockResult) string {
	name := strings.TrimSpace(result.Name)
	if name == "" {
		name = "Unknown Product"
	}
	price := strings.TrimSpace(result.Price)
	if price == "" {
		price = "N/A"
	}

	var sb strings.Builder
	sb.Grow(512)

	if result.InStock {
		sizesText := "Unknown"
		if len(result.AvailableSizes) > 0 {
			sizesText = strings.Join(result.AvailableSizes, ", ")
		}

		sb.WriteString("✅ <b>Zara Item In Stock!</b>\n\n")
		fmt.Fprintf(&sb, "📦 <b>%s</b>\n", html.EscapeString(name))
		fmt.Fprintf(&sb, "💰 Price: %s\n", html.EscapeString(price))
		fmt.Fprintf(&sb, "📏 Available Sizes: %s\n\n", html.EscapeString(sizesText))
		fmt.Fprintf(&sb, "🔗 <a href=\"%s\">View Product</a>\n\n", result.Link())
		sb.WriteString("⏰ Check it out now before it sells out!")
	} else {
		sb.WriteString("❌ <b>Zara Item Out of Stock</b>\n\n")
		fmt.Fprintf(&sb, "📦 <b>%s</b>\n", html.EscapeString(name))
		fmt.Fprintf(&sb, "💰 Price: %s\n", html.EscapeString(price))
		sb.WriteString("📏 Status: <b>OUT OF STOCK</b>\n\n")
		fmt.Fprintf(&sb, "🔗 <a href=\"%s\">View Product</a>\n\n", result.Link())
		sb.WriteString("⏰ Will notify you when it's back in stock!")
	}

	return sb.String()
}
