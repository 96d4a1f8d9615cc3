package telegram

import (
	"context"
	"strconv"
	"strings"
	"time"

	"igrelay/pkg/logger"
)

// StartReply is the static acknowledgement sent in response to /start
const StartReply = "Bot is running. New Instagram posts from the monitored accounts will be relayed here."

// pollErrorDelay is the pause before resuming after a failed getUpdates call
const pollErrorDelay = 5 * time.Second

// CommandListener long-polls for bot commands and answers the ones it knows.
// The relay recognizes a single command, /start.
type CommandListener struct {
	client *Client
	logger logger.Logger
}

// NewCommandListener creates a listener on the given client
func NewCommandListener(client *Client, log logger.Logger) *CommandListener {
	if log == nil {
		log = logger.GetLogger()
	}
	return &CommandListener{
		client: client,
		logger: log,
	}
}

// Run polls for updates until the context is cancelled
func (l *CommandListener) Run(ctx context.Context) {
	var offset int64

	l.logger.Info("command listener started")

	for {
		select {
		case <-ctx.Done():
			l.logger.Info("command listener stopped")
			return
		default:
		}

		updates, err := l.client.GetUpdates(ctx, offset)
		if err != nil {
			if ctx.Err() != nil {
				l.logger.Info("command listener stopped")
				return
			}
			l.logger.WithError(err).Warn("failed to fetch updates")
			if err := sleepCtx(ctx, pollErrorDelay); err != nil {
				return
			}
			continue
		}

		for _, update := range updates {
			if update.UpdateID >= offset {
				offset = update.UpdateID + 1
			}
			l.handleUpdate(ctx, update)
		}
	}
}

// handleUpdate answers a single update if it carries a recognized command
func (l *CommandListener) handleUpdate(ctx context.Context, update Update) {
	if update.Message == nil {
		return
	}

	text := strings.TrimSpace(update.Message.Text)
	if text != "/start" && !strings.HasPrefix(text, "/start@") {
		return
	}

	chatID := strconv.FormatInt(update.Message.Chat.ID, 10)

	l.logger.WithField("chat_id", chatID).Info("answering /start command")

	if err := l.client.SendText(ctx, chatID, StartReply); err != nil {
		l.logger.WithError(err).WithField("chat_id", chatID).Warn("failed to answer /start")
	}
}

// sleepCtx sleeps for the given duration or until the context is cancelled
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
