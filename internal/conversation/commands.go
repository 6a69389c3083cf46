package conversation

import "coursebot/internal/domain"

// Command is a symbolic menu action, decoupled from its button label
type Command int

const (
	CmdStart Command = iota + 1
	CmdMainMenu
	CmdSubjects
	CmdEnterVariant
	CmdBack
	CmdBackToPackages
	CmdConsultation
	CmdContactManager
	CmdCart
	CmdCheckout
	CmdClear
	CmdGuarantees
	CmdPrices
	CmdAbout
	CmdContacts

	CmdAdminPanel
	CmdAdminUsers
	CmdAdminOrders
	CmdAdminStats
	CmdBroadcast
	CmdLeavePanel
	CmdCancel
	CmdOrdersAll
	CmdOrdersReady
	CmdOrdersWorking
)

// Button labels
const (
	labelSubjects       = "📚 Предметы"
	labelGuarantees     = "ℹ️ Гарантии"
	labelPrices         = "💰 Цены"
	labelAbout          = "👨‍🎓 О нас"
	labelCart           = "🛒 Корзина"
	labelContacts       = "📞 Контакты"
	labelClearCart      = "🧹 Очистить корзину"
	labelClearChat      = "🧹 Очистить чат"
	labelBackToMenu     = "↩️ Назад в меню"
	labelHome           = "🏠 В главное меню"
	labelEnterVariant   = "✏️ Ввести вариант"
	labelBackToSubjects = "↩️ К выбору предмета"
	labelConsultation   = "📞 Заказать консультацию"
	labelBack           = "↩️ Назад"
	labelContactManager = "📞 Связаться с менеджером"
	labelBackToPackages = "↩️ Назад к тарифам"
	labelCheckout       = "✅ Оформить заказ"

	labelAdminUsers    = "👥 Пользователи"
	labelAdminOrders   = "📦 Заказы"
	labelBroadcast     = "📢 Общая рассылка"
	labelAdminStats    = "📊 Статистика"
	labelLeavePanel    = "🚪 Обычный режим"
	labelBackToPanel   = "↩️ Назад в админ-панель"
	labelOrdersAll     = "📦 Все заказы"
	labelOrdersReady   = "✅ Готовые заказы"
	labelOrdersWorking = "🔄 Заказы в работе"

	labelReplyPrefix = "💬 Ответить"
)

type commandEntry struct {
	label     string
	cmd       Command
	adminOnly bool
}

// commandTable maps every fixed label or slash command to its Command.
// Subjects and package names come from the catalog instead.
var commandTable = []commandEntry{
	{label: "/start", cmd: CmdStart},
	{label: labelBackToMenu, cmd: CmdMainMenu},
	{label: labelHome, cmd: CmdMainMenu},
	{label: labelSubjects, cmd: CmdSubjects},
	{label: labelBackToSubjects, cmd: CmdSubjects},
	{label: labelEnterVariant, cmd: CmdEnterVariant},
	{label: labelBack, cmd: CmdBack},
	{label: labelBackToPackages, cmd: CmdBackToPackages},
	{label: labelConsultation, cmd: CmdConsultation},
	{label: labelContactManager, cmd: CmdContactManager},
	{label: labelCart, cmd: CmdCart},
	{label: labelCheckout, cmd: CmdCheckout},
	{label: labelClearCart, cmd: CmdClear},
	{label: labelClearChat, cmd: CmdClear},
	{label: labelGuarantees, cmd: CmdGuarantees},
	{label: labelPrices, cmd: CmdPrices},
	{label: labelAbout, cmd: CmdAbout},
	{label: labelContacts, cmd: CmdContacts},

	{label: "/admin", cmd: CmdAdminPanel, adminOnly: true},
	{label: labelBackToPanel, cmd: CmdAdminPanel, adminOnly: true},
	{label: "/users", cmd: CmdAdminUsers, adminOnly: true},
	{label: labelAdminUsers, cmd: CmdAdminUsers, adminOnly: true},
	{label: labelAdminOrders, cmd: CmdAdminOrders, adminOnly: true},
	{label: "/stats", cmd: CmdAdminStats, adminOnly: true},
	{label: labelAdminStats, cmd: CmdAdminStats, adminOnly: true},
	{label: labelBroadcast, cmd: CmdBroadcast, adminOnly: true},
	{label: labelLeavePanel, cmd: CmdLeavePanel, adminOnly: true},
	{label: domain.CancelCommand, cmd: CmdCancel, adminOnly: true},
	{label: labelOrdersAll, cmd: CmdOrdersAll, adminOnly: true},
	{label: labelOrdersReady, cmd: CmdOrdersReady, adminOnly: true},
	{label: labelOrdersWorking, cmd: CmdOrdersWorking, adminOnly: true},
}

func buildCommandIndex() map[string]commandEntry {
	index := make(map[string]commandEntry, len(commandTable))
	for _, entry := range commandTable {
		index[entry.label] = entry
	}
	return index
}
