// Package telegram is the chat-facing transport: a long-polling command bot
// over the roster, check and inspect usecases.
package telegram

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Config holds bot identity and behavior settings.
type Config struct {
	Token string
	// AdminID is the only user allowed to run management commands.
	AdminID int64
	// MessageTTL is how long bot replies live before auto-deletion.
	MessageTTL time.Duration
}

// Bot dispatches Telegram commands to the usecases.
type Bot struct {
	api        *tgbotapi.BotAPI
	roster     Roster
	check      CheckRunner
	inspect    InspectRunner
	groups     GroupRegistry
	settings   Settings
	adminID    int64
	messageTTL time.Duration
	logger     *zap.Logger
}

// New connects to the Telegram API and builds the bot.
func New(
	cfg Config,
	roster Roster,
	check CheckRunner,
	inspect InspectRunner,
	groups GroupRegistry,
	settings Settings,
	logger *zap.Logger,
) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("connect telegram: %w", err)
	}
	return &Bot{
		api:        api,
		roster:     roster,
		check:      check,
		inspect:    inspect,
		groups:     groups,
		settings:   settings,
		adminID:    cfg.AdminID,
		messageTTL: cfg.MessageTTL,
		logger:     logger,
	}, nil
}

// Run polls for updates until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	b.logger.Info("bot started", zap.String("username", b.api.Self.UserName))

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || !msg.IsCommand() {
		return
	}

	defer func() {
		if rvr := recover(); rvr != nil {
			b.logger.Error("panic in command handler",
				zap.String("command", msg.Command()), zap.Any("panic", rvr))
		}
	}()

	switch msg.Command() {
	case "start":
		b.handleStart(ctx, msg)
	case "help":
		b.handleHelp(ctx, msg)
	case "add":
		b.handleAdd(ctx, msg)
	case "remove":
		b.handleRemove(ctx, msg)
	case "list":
		b.handleList(ctx, msg)
	case "check":
		b.handleCheck(ctx, msg)
	case "sub":
		b.handleSub(ctx, msg)
	case "note":
		b.handleNote(ctx, msg)
	case "setchecktime":
		b.handleSetCheckTime(ctx, msg)
	case "addgroup":
		b.handleAddGroup(ctx, msg)
	case "removegroup":
		b.handleRemoveGroup(ctx, msg)
	case "listgroups":
		b.handleListGroups(ctx, msg)
	}
}

// isAdmin reports whether the message sender is the configured admin.
func (b *Bot) isAdmin(msg *tgbotapi.Message) bool {
	return b.adminID != 0 && msg.From != nil && msg.From.ID == b.adminID
}

// isGroup reports whether the message came from a group or supergroup chat.
func isGroup(msg *tgbotapi.Message) bool {
	return msg.Chat.IsGroup() || msg.Chat.IsSuperGroup()
}

// groupAllowed reports whether the chat may use the bot. Private chats are
// always allowed; group chats must be registered.
func (b *Bot) groupAllowed(ctx context.Context, msg *tgbotapi.Message) bool {
	if !isGroup(msg) {
		return true
	}
	ok, err := b.groups.Contains(ctx, msg.Chat.ID)
	if err != nil {
		b.logger.Warn("group permission lookup failed",
			zap.Int64("chat_id", msg.Chat.ID), zap.Error(err))
		return false
	}
	return ok
}

// requireGroup gates a handler on group authorization.
func (b *Bot) requireGroup(ctx context.Context, msg *tgbotapi.Message) bool {
	if b.groupAllowed(ctx, msg) {
		return true
	}
	b.reply(msg.Chat.ID, "此群组未授权使用机器人，请联系管理员添加群组。")
	return false
}

// requireAdmin gates a handler on admin identity.
func (b *Bot) requireAdmin(msg *tgbotapi.Message) bool {
	if b.isAdmin(msg) {
		return true
	}
	b.reply(msg.Chat.ID, "此命令仅限管理员使用")
	return false
}
