// Package notify pushes follow-up requests to department Telegram chats.
package notify

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Telegram posts one message per follow-up request to the destination
// department's chat, falling back to a default chat for unmapped departments.
// Fire-and-forget: send failures are logged and dropped.
type Telegram struct {
	bot         *tgbotapi.BotAPI
	chats       map[string]int64
	defaultChat int64
	logger      *zap.Logger
}

func NewTelegram(token string, chats map[string]int64, defaultChat int64, logger *zap.Logger) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("creating telegram bot: %w", err)
	}
	return &Telegram{bot: bot, chats: chats, defaultChat: defaultChat, logger: logger}, nil
}

func (n *Telegram) TaskRequested(_ context.Context, department, customerName, request, writer string) {
	chatID, ok := n.chats[department]
	if !ok {
		chatID = n.defaultChat
	}
	if chatID == 0 {
		return
	}

	text := fmt.Sprintf("[업무협조] %s\n고객: %s\n요청: %s\n작성자: %s",
		department, customerName, request, writer)
	if _, err := n.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		n.logger.Warn("task notification failed",
			zap.String("department", department),
			zap.Error(err),
		)
	}
}

// ParseChatMap parses the DEPT_CHATS config value, a comma-separated list of
// 부서:chatID pairs ("지도과:-1001234,금융과:-1005678").
func ParseChatMap(s string) (map[string]int64, error) {
	out := make(map[string]int64)
	if strings.TrimSpace(s) == "" {
		return out, nil
	}
	for _, pair := range strings.Split(s, ",") {
		dept, idStr, found := strings.Cut(strings.TrimSpace(pair), ":")
		if !found || dept == "" {
			return nil, fmt.Errorf("malformed chat mapping %q", pair)
		}
		id, err := strconv.ParseInt(strings.TrimSpace(idStr), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed chat id in %q: %w", pair, err)
		}
		out[strings.TrimSpace(dept)] = id
	}
	return out, nil
}
