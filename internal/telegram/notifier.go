package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"

	"github.com/camuig/shuumulator/internal/config"
	"github.com/camuig/shuumulator/internal/logger"
)

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Notifier struct {
	bot     sender
	chatID  int64
	enabled bool
	logger  *logger.Logger
}

func NewNotifier(cfg *config.Config, log *logger.Logger) *Notifier {
	if !cfg.Telegram.Enabled {
		return &Notifier{enabled: false, logger: log}
	}

	bot, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		log.Error("failed to create telegram bot", "error", err)
		return &Notifier{enabled: false, logger: log}
	}

	log.Info("telegram bot connected", "username", bot.Self.UserName)

	return &Notifier{
		bot:     bot,
		chatID:  cfg.Telegram.ChatID,
		enabled: true,
		logger:  log,
	}
}

func (n *Notifier) NotifyBuy(code, name string, price decimal.Decimal) {
	msg := fmt.Sprintf("🟢 *BUY* %s %s\nPrice: %s", code, name, price.String())
	n.send(msg)
}

func (n *Notifier) NotifySell(code, name string, buy, sell decimal.Decimal) {
	diff := sell.Sub(buy)
	emoji := "🔴"
	if !diff.IsNegative() {
		emoji = "💰"
	}
	msg := fmt.Sprintf("%s *SELL* %s %s\nBuy: %s\nSell: %s\nP&L: %s",
		emoji, code, name, buy.String(), sell.String(), diff.String())
	n.send(msg)
}

func (n *Notifier) NotifyThresholds(profitBooking, winRate, lossCut decimal.Decimal) {
	msg := fmt.Sprintf("📐 Profit booking %s%%, win rate %s%%, loss cut %s%%",
		percent(profitBooking), percent(winRate), percent(lossCut))
	n.send(msg)
}

func (n *Notifier) NotifyCycle(buy, sell, hold, failed int) {
	msg := fmt.Sprintf("🔁 Cycle finished\nBUY: %d\nSELL: %d\nHOLD: %d", buy, sell, hold)
	if failed > 0 {
		msg += fmt.Sprintf("\nFailed: %d", failed)
	}
	n.send(msg)
}

func (n *Notifier) NotifyReport(summary string) {
	n.send("📊 *Report*\n```\n" + summary + "\n```")
}

func (n *Notifier) NotifyError(context string, err error) {
	msg := fmt.Sprintf("⚠️ *Error* [%s]\n%v", context, err)
	n.send(msg)
}

func (n *Notifier) NotifyStatus(message string) {
	n.send(message)
}

func percent(d decimal.Decimal) string {
	return d.Mul(decimal.NewFromInt(100)).StringFixed(1)
}

func (n *Notifier) send(text string) {
	if !n.enabled {
		return
	}

	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown

	if _, err := n.bot.Send(msg); err != nil {
		n.logger.Error("send telegram message", "error", err)
	}
}
