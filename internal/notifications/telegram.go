package notifications

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/signalworks/smc-sniper-bot/internal/config"
	"github.com/signalworks/smc-sniper-bot/internal/risk"
)

// TelegramNotifier delivers alerts and trade plans to a Telegram chat.
type TelegramNotifier struct {
	token       string
	chatID      string
	client      *http.Client
	instruments map[string]config.Instrument
}

// NewTelegramNotifier creates a notifier for the given bot token and chat.
func NewTelegramNotifier(token, chatID string, instruments []config.Instrument) *TelegramNotifier {
	bys := make(map[string]config.Instrument, len(instruments))
	for _, inst := range instruments {
		bys[inst.Symbol] = inst
	}
	return &TelegramNotifier{
		token:       token,
		chatID:      chatID,
		client:      &http.Client{Timeout: 10 * time.Second},
		instruments: bys,
	}
}

// SendAlert sends an operational alert with a level emoji.
func (t *TelegramNotifier) SendAlert(level, message string) error {
	emoji := "ℹ️"
	switch level {
	case "warning":
		emoji = "⚠️"
	case "error":
		emoji = "🚨"
	case "success":
		emoji = "✅"
	}

	text := fmt.Sprintf("%s <b>SMC Sniper Bot</b>\n\n%s", emoji, message)
	return t.send(context.Background(), text)
}

// SendPlan renders and delivers a trade plan.
func (t *TelegramNotifier) SendPlan(ctx context.Context, plan *risk.TradePlan) error {
	inst := t.instruments[plan.Symbol]
	return t.send(ctx, FormatPlanMessage(plan, inst))
}

func (t *TelegramNotifier) send(ctx context.Context, text string) error {
	apiURL := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", t.token)

	data := url.Values{}
	data.Set("chat_id", t.chatID)
	data.Set("text", text)
	data.Set("parse_mode", "HTML")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, strings.NewReader(data.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram API returned status %d", resp.StatusCode)
	}
	return nil
}
