package service

import (
	"fmt"
	"strings"

	"coursebot/internal/domain"
	"coursebot/internal/messenger"
)

const timeLayout = "02.01.2006 15:04"

// OrderActionRows returns the inline actions attached to an order card
func OrderActionRows(orderID int64) [][]messenger.Button {
	return [][]messenger.Button{
		{
			{Text: "✅ Готов", Data: domain.OrderActionPayload(domain.ActionReady, orderID)},
			{Text: "🗑️ Удалить", Data: domain.OrderActionPayload(domain.ActionDelete, orderID)},
		},
		{
			{Text: "📦 Передан", Data: domain.OrderActionPayload(domain.ActionDelivered, orderID)},
			{Text: "💰 Оплачен", Data: domain.OrderActionPayload(domain.ActionPaid, orderID)},
		},
		{
			{Text: "💬 Комментарий", Data: domain.OrderActionPayload(domain.ActionComment, orderID)},
		},
	}
}

// QuickReplyRows returns the single "reply" button for a forwarded transcript
func QuickReplyRows(user domain.User) [][]messenger.Button {
	return [][]messenger.Button{
		{{Text: "💬 Ответить " + user.DisplayName(), Data: domain.QuickReplyPayload(user.ID)}},
	}
}

func handle(username string) string {
	if username == "" {
		return "нет"
	}
	return username
}

// NewOrderNotice is the admin's notification about a fresh order
func NewOrderNotice(order domain.Order, user domain.User) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🆕 НОВЫЙ ЗАКАЗ #%d\n\n", order.ID)
	b.WriteString("👤 Пользователь:\n")
	fmt.Fprintf(&b, "🆔 ID: %d\n", user.ID)
	fmt.Fprintf(&b, "👤 Имя: %s\n", user.FirstName)
	fmt.Fprintf(&b, "📱 @%s\n\n", handle(user.Username))
	b.WriteString("📋 Детали заказа:\n")
	fmt.Fprintf(&b, "📚 Предмет: %s\n", order.Subject)
	fmt.Fprintf(&b, "🔢 Вариант: %s\n", order.Variant)
	fmt.Fprintf(&b, "📦 Тариф: %s\n", order.Package)
	fmt.Fprintf(&b, "💰 Стоимость: %d руб.\n", order.Price)
	fmt.Fprintf(&b, "⏰ Время: %s", order.CreatedAt.Format(timeLayout))
	return b.String()
}

// OrderCard renders a single order with its owner for the admin
func OrderCard(order domain.Order, catalog *domain.Catalog) string {
	comment := order.Comment
	if comment == "" {
		comment = "нет"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🔹 Заказ #%d\n\n", order.ID)
	b.WriteString("👤 Пользователь:\n")
	fmt.Fprintf(&b, "├ Имя: %s\n", order.CustomerName)
	fmt.Fprintf(&b, "├ ID: %d\n", order.UserID)
	fmt.Fprintf(&b, "└ @%s\n\n", handle(order.CustomerUsername))
	b.WriteString("📋 Детали заказа:\n")
	fmt.Fprintf(&b, "├ Предмет: %s\n", order.Subject)
	fmt.Fprintf(&b, "├ Вариант: %s\n", order.Variant)
	fmt.Fprintf(&b, "├ Тариф: %s\n", order.Package)
	fmt.Fprintf(&b, "├ Стоимость: %d руб.\n", order.Price)
	fmt.Fprintf(&b, "├ Статус: %s\n", catalog.StatusLabel(order.Status))
	fmt.Fprintf(&b, "└ Создан: %s\n\n", order.CreatedAt.Format(timeLayout))
	fmt.Fprintf(&b, "💬 Комментарий: %s", comment)
	return b.String()
}

// StatusNotice is the owner's notification for a status change.
// Empty for statuses that don't notify.
func StatusNotice(orderID int64, status domain.OrderStatus, label, managerContact string) string {
	switch status {
	case domain.StatusReady:
		return fmt.Sprintf("✅ Ваш заказ готов!\n\n📋 Номер заказа: #%d\n📊 Статус: %s\n\n"+
			"💬 Свяжитесь с менеджером для получения работы:\n👤 %s\n\n📞 Мы ждем вашего сообщения!",
			orderID, label, managerContact)
	case domain.StatusPaid:
		return fmt.Sprintf("💰 Заказ оплачен!\n\n📋 Номер заказа: #%d\n📊 Статус: %s\n\n"+
			"💬 Спасибо за оплату! Работа выполняется.", orderID, label)
	case domain.StatusDelivered:
		return fmt.Sprintf("📦 Заказ передан!\n\n📋 Номер заказа: #%d\n📊 Статус: %s\n\n"+
			"💬 Работа передана вам. Спасибо за заказ!", orderID, label)
	}
	return ""
}
