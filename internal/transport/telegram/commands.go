package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/subwatch/subwatch/internal/domain"
	"github.com/subwatch/subwatch/internal/format"
	checkuc "github.com/subwatch/subwatch/internal/usecase/check"
)

const welcomeText = "欢迎使用订阅管理机器人！\n\n" +
	"可用命令：\n" +
	"/add &lt;名称&gt; &lt;URL&gt; [备注] - 添加订阅\n" +
	"/remove &lt;名称&gt; - 删除订阅\n" +
	"/list - 列出所有订阅\n" +
	"/check - 检查所有订阅状态\n" +
	"/note &lt;名称&gt; &lt;备注&gt; - 更新订阅备注\n" +
	"/setchecktime &lt;小时&gt; - 设置每日定时检查时间（0-23）"

const adminHelpText = "订阅管理机器人使用帮助：\n\n" +
	"管理员命令：\n" +
	"1. 添加订阅：\n" +
	"   /add 名称 URL [备注]\n" +
	"   例如：/add 机场1 https://example.com/sub\n\n" +
	"2. 删除订阅：\n" +
	"   /remove 名称\n\n" +
	"3. 查看所有订阅：\n" +
	"   /list\n\n" +
	"4. 检查订阅状态：\n" +
	"   /check\n\n" +
	"5. 更新订阅备注：\n" +
	"   /note 名称 新备注\n\n" +
	"6. 设置检查时间：\n" +
	"   /setchecktime 小时\n\n" +
	"7. 群组管理：\n" +
	"   /addgroup /removegroup /listgroups\n\n" +
	"所有用户可用命令：\n" +
	"1. 检查订阅链接：\n" +
	"   /sub &lt;链接&gt;\n" +
	"   或回复包含链接的消息，发送 /sub\n\n" +
	"注意：\n" +
	"- 管理员命令仅限管理员使用\n" +
	"- 群组管理命令只能在群组中使用\n" +
	"- 所有消息将在一段时间后自动删除"

const userHelpText = "订阅管理机器人使用帮助：\n\n" +
	"可用命令：\n" +
	"1. 检查订阅链接：\n" +
	"   /sub &lt;链接&gt;\n" +
	"   或回复包含链接的消息，发送 /sub\n\n" +
	"注意：\n" +
	"- 所有消息将在一段时间后自动删除"

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	if !b.requireGroup(ctx, msg) || !b.requireAdmin(msg) {
		return
	}
	b.reply(msg.Chat.ID, welcomeText)
}

func (b *Bot) handleHelp(ctx context.Context, msg *tgbotapi.Message) {
	isAdmin := b.isAdmin(msg)
	if isGroup(msg) && !b.groupAllowed(ctx, msg) && !isAdmin {
		b.reply(msg.Chat.ID, "此群组未授权使用机器人，请联系管理员添加群组。")
		return
	}
	if isAdmin {
		b.reply(msg.Chat.ID, adminHelpText)
		return
	}
	b.reply(msg.Chat.ID, userHelpText)
}

func (b *Bot) handleAdd(ctx context.Context, msg *tgbotapi.Message) {
	if !b.requireGroup(ctx, msg) || !b.requireAdmin(msg) {
		return
	}

	args := strings.Fields(msg.CommandArguments())
	if len(args) < 2 {
		b.reply(msg.Chat.ID, "请提供订阅名称和URL，格式：/add &lt;名称&gt; &lt;URL&gt; [备注]")
		return
	}
	name, url := args[0], args[1]
	note := strings.Join(args[2:], " ")

	err := b.roster.Add(ctx, name, url, note)
	switch {
	case err == nil:
		b.reply(msg.Chat.ID, fmt.Sprintf("订阅 %s 添加成功！", format.EscapeHTML(name)))
	case errors.Is(err, domain.ErrAlreadyExists):
		b.reply(msg.Chat.ID, fmt.Sprintf("订阅 %s 已存在！", format.EscapeHTML(name)))
	default:
		b.logger.Error("add subscription failed", zap.String("name", name), zap.Error(err))
		b.reply(msg.Chat.ID, fmt.Sprintf("添加失败：%s", format.EscapeHTML(err.Error())))
	}
}

func (b *Bot) handleRemove(ctx context.Context, msg *tgbotapi.Message) {
	if !b.requireGroup(ctx, msg) || !b.requireAdmin(msg) {
		return
	}

	args := strings.Fields(msg.CommandArguments())
	if len(args) == 0 {
		b.reply(msg.Chat.ID, "请提供要删除的订阅名称，格式：/remove &lt;名称&gt;")
		return
	}
	name := args[0]

	err := b.roster.Remove(ctx, name)
	switch {
	case err == nil:
		b.reply(msg.Chat.ID, fmt.Sprintf("订阅 %s 已删除！", format.EscapeHTML(name)))
	case errors.Is(err, domain.ErrNotFound):
		b.reply(msg.Chat.ID, fmt.Sprintf("订阅 %s 不存在！", format.EscapeHTML(name)))
	default:
		b.logger.Error("remove subscription failed", zap.String("name", name), zap.Error(err))
		b.reply(msg.Chat.ID, fmt.Sprintf("删除失败：%s", format.EscapeHTML(err.Error())))
	}
}

func (b *Bot) handleList(ctx context.Context, msg *tgbotapi.Message) {
	if !b.requireGroup(ctx, msg) || !b.requireAdmin(msg) {
		return
	}

	refs, err := b.roster.List(ctx)
	if err != nil {
		b.logger.Error("list subscriptions failed", zap.Error(err))
		b.reply(msg.Chat.ID, "获取订阅列表失败")
		return
	}
	if len(refs) == 0 {
		b.reply(msg.Chat.ID, "当前没有订阅！")
		return
	}

	var sb strings.Builder
	sb.WriteString("当前订阅列表：\n\n")
	for _, ref := range refs {
		sb.WriteString("名称：")
		sb.WriteString(format.EscapeHTML(ref.Name()))
		sb.WriteString("\nURL：<tg-spoiler>")
		sb.WriteString(format.EscapeHTML(ref.URL()))
		sb.WriteString("</tg-spoiler>\n")
		if ref.Note() != "" {
			sb.WriteString("备注：")
			sb.WriteString(format.EscapeHTML(ref.Note()))
			sb.WriteString("\n")
		}
		sb.WriteString("-------------------\n")
	}

	// In a group the list goes to the admin's private chat, URLs stay out
	// of the group history.
	if isGroup(msg) {
		if msg.From == nil {
			return
		}
		if err := b.replyPrivate(msg.From.ID, sb.String()); err != nil {
			b.logger.Warn("private list delivery failed", zap.Error(err))
			b.reply(msg.Chat.ID, "无法发送私聊消息，请先与机器人开始私聊。")
			return
		}
		b.reply(msg.Chat.ID, "已将订阅列表发送到私聊，请查看与机器人的私聊消息。")
		return
	}
	b.reply(msg.Chat.ID, sb.String())
}

func (b *Bot) handleCheck(ctx context.Context, msg *tgbotapi.Message) {
	if !b.requireGroup(ctx, msg) || !b.requireAdmin(msg) {
		return
	}

	progressID := b.sendProgress(msg.Chat.ID, "开始检查所有订阅...")
	if progressID == 0 {
		return
	}

	statuses, err := b.check.Run(ctx)
	if err != nil {
		b.logger.Error("batch check failed", zap.Error(err))
		b.edit(msg.Chat.ID, progressID, "检查失败，请稍后重试", "")
		return
	}
	b.edit(msg.Chat.ID, progressID, checkuc.RenderMarkdownV2(statuses), tgbotapi.ModeMarkdownV2)
}

func (b *Bot) handleSub(ctx context.Context, msg *tgbotapi.Message) {
	if !b.requireGroup(ctx, msg) {
		return
	}

	text := msg.CommandArguments()
	if reply := msg.ReplyToMessage; reply != nil {
		if reply.Text != "" {
			text = reply.Text
		} else {
			text = reply.Caption
		}
	}
	if strings.TrimSpace(text) == "" {
		b.reply(msg.Chat.ID, "请提供订阅链接，格式：/sub &lt;链接&gt; 或回复包含链接的消息")
		return
	}

	progressID := b.sendProgress(msg.Chat.ID, "正在解析订阅链接...")
	if progressID == 0 {
		return
	}

	report, found := b.inspect.Run(ctx, text)
	if !found {
		b.edit(msg.Chat.ID, progressID, "未找到有效的订阅链接，请确保消息中包含正确的链接", "")
		return
	}
	parseMode := ""
	if report.MarkdownV2 {
		parseMode = tgbotapi.ModeMarkdownV2
	}
	b.edit(msg.Chat.ID, progressID, report.Text, parseMode)
}

func (b *Bot) handleNote(ctx context.Context, msg *tgbotapi.Message) {
	if !b.requireGroup(ctx, msg) || !b.requireAdmin(msg) {
		return
	}

	args := strings.Fields(msg.CommandArguments())
	if len(args) < 2 {
		b.reply(msg.Chat.ID, "请提供订阅名称和新备注，格式：/note &lt;名称&gt; &lt;备注&gt;")
		return
	}
	name := args[0]
	note := strings.Join(args[1:], " ")

	err := b.roster.SetNote(ctx, name, note)
	switch {
	case err == nil:
		b.reply(msg.Chat.ID, fmt.Sprintf("订阅 %s 的备注已更新！", format.EscapeHTML(name)))
	case errors.Is(err, domain.ErrNotFound):
		b.reply(msg.Chat.ID, fmt.Sprintf("订阅 %s 不存在！", format.EscapeHTML(name)))
	default:
		b.logger.Error("update note failed", zap.String("name", name), zap.Error(err))
		b.reply(msg.Chat.ID, fmt.Sprintf("更新失败：%s", format.EscapeHTML(err.Error())))
	}
}

func (b *Bot) handleSetCheckTime(ctx context.Context, msg *tgbotapi.Message) {
	if !b.requireGroup(ctx, msg) || !b.requireAdmin(msg) {
		return
	}

	args := strings.Fields(msg.CommandArguments())
	if len(args) == 0 {
		b.reply(msg.Chat.ID, "请提供检查时间（0-23），格式：/setchecktime &lt;小时&gt;")
		return
	}
	hour, err := strconv.Atoi(args[0])
	if err != nil {
		b.reply(msg.Chat.ID, "请输入有效的时间！")
		return
	}
	if hour < 0 || hour > 23 {
		b.reply(msg.Chat.ID, "时间必须在 0-23 之间！")
		return
	}

	if err := b.settings.SetCheckHour(ctx, hour); err != nil {
		b.logger.Error("set check hour failed", zap.Int("hour", hour), zap.Error(err))
		b.reply(msg.Chat.ID, "设置失败，请稍后重试")
		return
	}
	b.reply(msg.Chat.ID, fmt.Sprintf("检查时间已设置为 %d:00", hour))
}

func (b *Bot) handleAddGroup(ctx context.Context, msg *tgbotapi.Message) {
	if !b.requireAdmin(msg) {
		return
	}
	if !isGroup(msg) {
		b.reply(msg.Chat.ID, "请在群组中使用此命令")
		return
	}

	exists, err := b.groups.Contains(ctx, msg.Chat.ID)
	if err != nil {
		b.logger.Error("group lookup failed", zap.Int64("chat_id", msg.Chat.ID), zap.Error(err))
		b.reply(msg.Chat.ID, "操作失败，请稍后重试")
		return
	}
	if exists {
		b.reply(msg.Chat.ID, "此群组已在列表中")
		return
	}

	if err := b.groups.Add(ctx, msg.Chat.ID); err != nil {
		b.logger.Error("add group failed", zap.Int64("chat_id", msg.Chat.ID), zap.Error(err))
		b.reply(msg.Chat.ID, "操作失败，请稍后重试")
		return
	}
	b.reply(msg.Chat.ID, fmt.Sprintf("群组 %s 已添加到列表", format.EscapeHTML(msg.Chat.Title)))
}

func (b *Bot) handleRemoveGroup(ctx context.Context, msg *tgbotapi.Message) {
	if !b.requireAdmin(msg) {
		return
	}
	if !isGroup(msg) {
		b.reply(msg.Chat.ID, "请在群组中使用此命令")
		return
	}

	exists, err := b.groups.Contains(ctx, msg.Chat.ID)
	if err != nil {
		b.logger.Error("group lookup failed", zap.Int64("chat_id", msg.Chat.ID), zap.Error(err))
		b.reply(msg.Chat.ID, "操作失败，请稍后重试")
		return
	}
	if !exists {
		b.reply(msg.Chat.ID, "此群组不在列表中")
		return
	}

	if err := b.groups.Remove(ctx, msg.Chat.ID); err != nil {
		b.logger.Error("remove group failed", zap.Int64("chat_id", msg.Chat.ID), zap.Error(err))
		b.reply(msg.Chat.ID, "操作失败，请稍后重试")
		return
	}
	b.reply(msg.Chat.ID, fmt.Sprintf("群组 %s 已从列表中移除", format.EscapeHTML(msg.Chat.Title)))
}

func (b *Bot) handleListGroups(ctx context.Context, msg *tgbotapi.Message) {
	if !b.requireAdmin(msg) {
		return
	}

	ids, err := b.groups.List(ctx)
	if err != nil {
		b.logger.Error("list groups failed", zap.Error(err))
		b.reply(msg.Chat.ID, "获取群组列表失败")
		return
	}
	if len(ids) == 0 {
		b.reply(msg.Chat.ID, "当前没有添加任何群组")
		return
	}

	var sb strings.Builder
	sb.WriteString("当前群组列表：\n\n")
	for _, id := range ids {
		chat, err := b.api.GetChat(tgbotapi.ChatInfoConfig{
			ChatConfig: tgbotapi.ChatConfig{ChatID: id},
		})
		if err == nil && chat.Title != "" {
			sb.WriteString("群组：")
			sb.WriteString(format.EscapeHTML(chat.Title))
			sb.WriteString("\n")
		}
		sb.WriteString("ID：")
		sb.WriteString(strconv.FormatInt(id, 10))
		sb.WriteString("\n-------------------\n")
	}
	b.reply(msg.Chat.ID, sb.String())
}
