package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"StockSMA/internal/model"
)

// FormatBoard renders the market board as a Telegram HTML message.
func FormatBoard(board []model.MarketPrice, at time.Time) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>Market board</b> | %s\n\n", at.Format("2006-01-02 15:04")))
	for _, p := range board {
		if p.Price == nil || p.ChangePercent == nil {
			msg := p.Error
			if msg == "" {
				msg = "No data available"
			}
			b.WriteString(fmt.Sprintf("⚪ %s: %s\n", html.EscapeString(p.Ticker), html.EscapeString(msg)))
			continue
		}
		icon := "🟢"
		if *p.ChangePercent < 0 {
			icon = "🔴"
		}
		b.WriteString(fmt.Sprintf("%s %s %.2f (%+.2f%%)\n", icon, html.EscapeString(p.Ticker), *p.Price, *p.ChangePercent))
	}
	return b.String()
}
