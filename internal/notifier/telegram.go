package notifier

import (
	"context"
	"fmt"
	"strings"
	"time"

	"aable-presence/common/config"
	"aable-presence/internal/evaluator"
	"aable-presence/internal/models"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// telegramMaxMessage Telegram 单条消息上限（字符）
const telegramMaxMessage = 4096

// telegramResponse Bot API 响应
type telegramResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// TelegramNotifier 通过 Bot API sendMessage 发送文字报告
type TelegramNotifier struct {
	httpClient *resty.Client
	token      string
	chatID     string
	maxGaps    int
	logger     *zap.Logger
}

// NewTelegramNotifier 创建 Telegram 通知器
func NewTelegramNotifier(cfg config.TelegramConfig, maxGaps int, logger *zap.Logger) *TelegramNotifier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := resty.New().
		SetBaseURL(cfg.APIURL).
		SetTimeout(timeout).
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &TelegramNotifier{
		httpClient: client,
		token:      cfg.BotToken,
		chatID:     cfg.ChatID,
		maxGaps:    maxGaps,
		logger:     logger,
	}
}

func (n *TelegramNotifier) Name() string {
	return "telegram"
}

// Notify 将事件汇总为一份警告报告发送
func (n *TelegramNotifier) Notify(ctx context.Context, events []models.AnomalyEvent) error {
	if len(events) == 0 {
		return nil
	}
	return n.SendText(ctx, "⚠️ WARNING\n"+FormatEventsReport(events, n.maxGaps))
}

// SendText 发送文本，超长时按行拆分
func (n *TelegramNotifier) SendText(ctx context.Context, text string) error {
	for _, part := range SplitMessage(text, telegramMaxMessage) {
		if err := n.send(ctx, part); err != nil {
			return err
		}
	}
	return nil
}

func (n *TelegramNotifier) send(ctx context.Context, text string) error {
	var result telegramResponse
	resp, err := n.httpClient.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"chat_id": n.chatID,
			"text":    text,
		}).
		SetResult(&result).
		SetError(&result).
		Post(fmt.Sprintf("/bot%s/sendMessage", n.token))
	if err != nil {
		return fmt.Errorf("telegram request failed: %w", err)
	}
	if resp.IsError() || !result.OK {
		return fmt.Errorf("telegram sendMessage failed: status=%d, description=%s", resp.StatusCode(), result.Description)
	}

	n.logger.Debug("Telegram message sent",
		zap.String("chat_id", n.chatID),
		zap.Int("length", len([]rune(text))),
	)
	return nil
}

// FormatEventsReport 异常事件的文字报告：无信号在前，时间缺口在后
func FormatEventsReport(events []models.AnomalyEvent, maxGaps int) string {
	var zero, gaps []string
	for _, ev := range events {
		switch ev.EventType {
		case models.AnomalyZeroSignal:
			count := 0
			if ev.TriggerData.Count != nil {
				count = *ev.TriggerData.Count
			}
			zero = append(zero, fmt.Sprintf("  - %s (%s): %d записей", ev.DisplayName, ev.IdentityCode, count))
		case models.AnomalyTimeGap:
			gaps = append(gaps, fmt.Sprintf("\n%s (%s):", ev.DisplayName, ev.IdentityCode))
			gaps = append(gaps, evaluator.FormatGapLines(ev.TriggerData.Gaps, maxGaps)...)
		}
	}

	var lines []string
	if len(zero) > 0 {
		threshold := 0
		for _, ev := range events {
			if ev.EventType == models.AnomalyZeroSignal {
				threshold = ev.TriggerData.Threshold
				break
			}
		}
		lines = append(lines, fmt.Sprintf("Сотрудники с более чем %d записями с меткой 0:", threshold))
		lines = append(lines, zero...)
	}
	if len(gaps) > 0 {
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, "Обнаружены разрывы во времени:")
		lines = append(lines, gaps...)
	}
	return strings.Join(lines, "\n")
}

// SplitMessage 按字符数上限拆分，尽量在换行处断开
func SplitMessage(text string, limit int) []string {
	if text == "" {
		return nil
	}
	remaining := []rune(text)
	var parts []string
	for len(remaining) > limit {
		split := lastNewline(remaining[:limit])
		if split <= 0 {
			split = limit
		}
		parts = append(parts, string(remaining[:split]))
		remaining = trimLeadingNewlines(remaining[split:])
	}
	if len(remaining) > 0 {
		parts = append(parts, string(remaining))
	}
	return parts
}

func lastNewline(r []rune) int {
	for i := len(r) - 1; i >= 0; i-- {
		if r[i] == '\n' {
			return i
		}
	}
	return -1
}

func trimLeadingNewlines(r []rune) []rune {
	for len(r) > 0 && r[0] == '\n' {
		r = r[1:]
	}
	return r
}
