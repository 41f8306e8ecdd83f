package check

import (
	"strings"

	"github.com/subwatch/subwatch/internal/domain/status"
	"github.com/subwatch/subwatch/internal/format"
)

const emptyRosterMessage = "❌ 没有订阅需要检查"

// RenderMarkdownV2 renders the batch result as one MarkdownV2 message, one
// block per subscription separated by blank lines.
func RenderMarkdownV2(statuses []status.Status) string {
	if len(statuses) == 0 {
		return format.EscapeMarkdownV2(emptyRosterMessage)
	}

	var b strings.Builder
	for _, st := range statuses {
		b.WriteString("订阅：")
		b.WriteString(format.EscapeMarkdownV2(st.Name()))
		b.WriteString("\n")

		if st.IsErr() {
			b.WriteString(format.EscapeMarkdownV2(st.Reason()))
		} else {
			u := st.Usage()
			b.WriteString("已用上行：")
			b.WriteString(format.EscapeMarkdownV2(u.Upload()))
			b.WriteString("\n已用下行：")
			b.WriteString(format.EscapeMarkdownV2(u.Download()))
			b.WriteString("\n剩余：")
			b.WriteString(format.EscapeMarkdownV2(u.Remaining()))
			b.WriteString("\n总共：")
			b.WriteString(format.EscapeMarkdownV2(u.Total()))
			b.WriteString("\n")
			b.WriteString(expiryLine(u))
		}

		if st.Note() != "" {
			b.WriteString("\n备注：")
			b.WriteString(format.EscapeMarkdownV2(st.Note()))
		}
		b.WriteString("\n\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func expiryLine(u status.Usage) string {
	if u.ExpireDate() == format.UnknownDate {
		return "到期时间：" + format.UnknownDate
	}
	date := format.EscapeMarkdownV2(u.ExpireDate())
	if u.Expired() {
		return "此订阅已于 " + date + " 过期！"
	}
	return "此订阅将于 " + date + " 过期，剩余 " + format.EscapeMarkdownV2(u.RemainingTime())
}

// RenderHTML renders the batch result as an HTML status report, the form
// used for the daily scheduled summary.
func RenderHTML(statuses []status.Status) string {
	if len(statuses) == 0 {
		return emptyRosterMessage
	}

	var b strings.Builder
	b.WriteString("📊 订阅状态报告\n\n")
	for _, st := range statuses {
		if st.IsErr() {
			b.WriteString("❌ ")
			b.WriteString(format.EscapeHTML(st.Name()))
			b.WriteString(": ")
			b.WriteString(format.EscapeHTML(st.Reason()))
			b.WriteString("\n")
		} else {
			u := st.Usage()
			b.WriteString("🔹 ")
			b.WriteString(format.EscapeHTML(st.Name()))
			b.WriteString("\n📥 剩余流量: ")
			b.WriteString(format.EscapeHTML(u.Remaining()))
			b.WriteString("\n📤 已用流量: ")
			b.WriteString(format.EscapeHTML(u.Used()))
			b.WriteString("\n📅 到期时间: ")
			b.WriteString(format.EscapeHTML(u.ExpireDate()))
			b.WriteString("\n")
		}
		if st.Note() != "" {
			b.WriteString("💬 备注: ")
			b.WriteString(format.EscapeHTML(st.Note()))
			b.WriteString("\n")
		}
		b.WriteString("➖➖➖➖➖➖➖➖➖➖\n")
	}
	return b.String()
}
