package conversation

import (
	"fmt"
	"strings"
	"time"

	"coursebot/internal/domain"
)

const timeLayout = "02.01.2006 15:04"

const (
	textUseMenu         = "Пожалуйста, используй кнопки меню 👆"
	textGenericError    = "Произошла ошибка. Попробуйте позже."
	textChooseSubject   = "📚 Выберите предмет:"
	textVariantPrompt   = "✏️ Введите номер вашего варианта (только цифры):\n\nПример: 27"
	textVariantInvalid  = "❌ Пожалуйста, введите только номер варианта (цифры).\n\nПример: 27"
	textSubjectFirst    = "❌ Сначала выберите предмет"
	textDraftFirst      = "❌ Сначала выберите предмет и введите вариант"
	textPriceError      = "❌ Ошибка определения цены. Пожалуйста, начните заново."
	textCartIncomplete  = "❌ Не все параметры выбраны. Начните заново."
	textEmptyCart       = "🛒 Ваша корзина пуста\n\nВыберите предмет и тариф, чтобы оформить заказ."
	textCleared         = "🧹 Чат полностью очищен!\n\nВсе выборы сброшены. Начните заново 👇"
	textGuarantees      = "🛡️ Наши гарантии:\n\n✅ Работа выполняется с нуля под ваш вариант\n✅ Бесплатные доработки по замечаниям преподавателя\n✅ Соблюдение сроков\n✅ Оплата после проверки результата\n\nОстались вопросы? Напишите нам!"
	textAbout           = "👨‍🎓 О нас:\n\nМы команда выпускников строительных специальностей. Помогаем студентам с курсовыми работами по архитектуре, ТСП, ТГВ и ВиВ.\n\nБолее 500 выполненных работ 🎓"
	textAdminPanel      = "🛠️ Панель администратора"
	textLeftPanel       = "Вы перешли в обычный режим"
	textOrdersMenu      = "📦 Управление заказами\n\nВыберите категорию:"
	textNoActiveUsers   = "📭 Нет активных пользователей"
	textBroadcastPrompt = "📢 Введите сообщение для рассылки всем активным пользователям:"
	textNoBroadcastPeer = "❌ Нет активных пользователей для рассылки"
	textReplyFailed     = "❌ Ошибка отправки"
	textUserNotFound    = "❌ Пользователь не найден"
	textFormatError     = "❌ Ошибка формата"
	textReplyUsage      = "❌ Используйте формат: /reply <ID> <текст>"
	textCancelled       = "Действие отменено"
	textOrdersEmpty     = "❌ Заказы не найдены"
)

func textWelcome(name string) string {
	return fmt.Sprintf("Привет, %s! 👋\n\nЯ помогу оформить заказ на курсовую работу.\n\nВыберите раздел в меню 👇", name)
}

func textSubjectSelected(subject string) string {
	return fmt.Sprintf("📚 Вы выбрали: %s\n\nТеперь введите номер вашего варианта 👇", subject)
}

func textPackages(catalog *domain.Catalog, sel *domain.Selection) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📚 Предмет: %s\n🔢 Вариант: %s\n\n", sel.Subject, sel.Variant)
	b.WriteString("💼 Выберите тариф:\n\n")
	for _, p := range catalog.Packages {
		price := catalog.Price(sel.Subject, p.Key)
		if price > 0 {
			fmt.Fprintf(&b, "%s: %d руб.\n", p.Name, price)
		} else {
			fmt.Fprintf(&b, "%s: по запросу\n", p.Name)
		}
		if p.Description != "" {
			fmt.Fprintf(&b, "%s\n", p.Description)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func textCart(catalog *domain.Catalog, sel *domain.Selection) string {
	var b strings.Builder
	b.WriteString("🛒 Ваша корзина:\n\n")
	fmt.Fprintf(&b, "📚 Предмет: %s\n", sel.Subject)
	fmt.Fprintf(&b, "🔢 Вариант: %s\n", sel.Variant)
	fmt.Fprintf(&b, "📦 Тариф: %s\n", catalog.PackageName(sel.Package))
	fmt.Fprintf(&b, "💰 Стоимость: %d руб.\n\n", sel.Price)
	b.WriteString("Нажмите «Оформить заказ», чтобы подтвердить.")
	return b.String()
}

func textOrderCreated(order *domain.Order, catalog *domain.Catalog) string {
	return fmt.Sprintf("✅ Заказ #%d оформлен!\n\n📚 Предмет: %s\n🔢 Вариант: %s\n📦 Тариф: %s\n💰 Стоимость: %d руб.\n📊 Статус: %s\n\n"+
		"Менеджер свяжется с вами в ближайшее время.",
		order.ID, order.Subject, order.Variant, order.Package, order.Price, catalog.StatusLabel(order.Status))
}

func textConsultation(sel *domain.Selection, contact string) string {
	var b strings.Builder
	b.WriteString("📞 Консультация\n\n")
	if sel != nil && sel.Subject != "" {
		fmt.Fprintf(&b, "📚 Предмет: %s\n", sel.Subject)
		if sel.Variant != "" {
			fmt.Fprintf(&b, "🔢 Вариант: %s\n", sel.Variant)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Наш менеджер поможет подобрать тариф и ответит на вопросы.\n👤 %s", contact)
	return b.String()
}

func textContactManager(contact string) string {
	return fmt.Sprintf("💬 Напишите менеджеру: %s\n\nОн ответит в ближайшее время.", contact)
}

func textContacts(contact string) string {
	return fmt.Sprintf("📞 Контакты:\n\n👤 Менеджер: %s\n⏰ Работаем ежедневно с 9:00 до 21:00", contact)
}

// textPrices lists the lowest price of each package across subjects
func textPrices(catalog *domain.Catalog) string {
	var b strings.Builder
	b.WriteString("💰 Наши цены:\n\n")
	for _, p := range catalog.Packages {
		lowest := 0
		for _, subject := range catalog.Subjects {
			price := catalog.Price(subject, p.Key)
			if price > 0 && (lowest == 0 || price < lowest) {
				lowest = price
			}
		}
		if lowest > 0 {
			fmt.Fprintf(&b, "%s: от %d руб.\n", p.Name, lowest)
		} else {
			fmt.Fprintf(&b, "%s: по запросу\n", p.Name)
		}
	}
	b.WriteString("\nТочная стоимость зависит от предмета.")
	return b.String()
}

func textTranscript(user domain.User, message, reply string) string {
	var b strings.Builder
	b.WriteString("👤 Переписка с пользователем:\n\n")
	fmt.Fprintf(&b, "🆔 ID: %d\n", user.ID)
	fmt.Fprintf(&b, "👤 Имя: %s\n", user.DisplayName())
	if user.Username != "" {
		fmt.Fprintf(&b, "📱 @%s\n", user.Username)
	}
	fmt.Fprintf(&b, "\n💬 Сообщение пользователя:\n%s\n\n", message)
	fmt.Fprintf(&b, "📨 Ответ бота:\n%s", reply)
	return b.String()
}

func textUsers(users []domain.ActiveUser, window time.Duration) string {
	var b strings.Builder
	fmt.Fprintf(&b, "👥 Активные пользователи за %d ч. (%d):\n\n", int(window.Hours()), len(users))
	for _, u := range users {
		fmt.Fprintf(&b, "👤 %s (ID: %d)\n", u.DisplayName(), u.ID)
		if u.Username != "" {
			fmt.Fprintf(&b, "📱 @%s\n", u.Username)
		}
		if u.LastActivity != "" {
			fmt.Fprintf(&b, "📝 %s\n", u.LastActivity)
		}
		fmt.Fprintf(&b, "⏰ %s\n\n", u.LastActivityAt.Format(timeLayout))
	}
	return strings.TrimRight(b.String(), "\n")
}

func textOrders(title string, orders []domain.Order, catalog *domain.Catalog) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%d шт.):\n\n", title, len(orders))
	for _, o := range orders {
		fmt.Fprintf(&b, "🔹 Заказ #%d\n", o.ID)
		if o.CustomerUsername != "" {
			fmt.Fprintf(&b, "👤 %s (@%s)\n", o.CustomerName, o.CustomerUsername)
		} else {
			fmt.Fprintf(&b, "👤 %s\n", o.CustomerName)
		}
		fmt.Fprintf(&b, "📚 %s\n", o.Subject)
		fmt.Fprintf(&b, "🔢 Вариант: %s\n", o.Variant)
		fmt.Fprintf(&b, "📦 Тариф: %s\n", o.Package)
		fmt.Fprintf(&b, "💰 %d руб. | %s\n", o.Price, catalog.StatusLabel(o.Status))
		fmt.Fprintf(&b, "⏰ %s\n", o.CreatedAt.Format(timeLayout))
		if o.Comment != "" {
			fmt.Fprintf(&b, "💬 %s\n", o.Comment)
		}
		b.WriteString("━━━━━━━━━━━━━━━━━━━━\n\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func textStats(stats *domain.Stats, catalog *domain.Catalog, window time.Duration) string {
	var b strings.Builder
	b.WriteString("📊 Статистика бота\n\n")
	fmt.Fprintf(&b, "👥 Всего пользователей: %d\n", stats.TotalUsers)
	fmt.Fprintf(&b, "🔥 Активных за %d ч.: %d\n", int(window.Hours()), stats.ActiveUsers)
	fmt.Fprintf(&b, "📝 Открытых корзин: %d\n\n", stats.OpenSelections)
	b.WriteString("📦 Заказы:\n")
	for _, st := range domain.OrderStatuses {
		fmt.Fprintf(&b, "%s: %d\n", catalog.StatusLabel(st), stats.OrdersByStatus[st])
	}
	return strings.TrimRight(b.String(), "\n")
}

func textReplyPrompt(user domain.User) string {
	return fmt.Sprintf("💬 Введите текст ответа для пользователя %s (ID: %d):", user.DisplayName(), user.ID)
}

func textReplySent(name string, userID int64) string {
	return fmt.Sprintf("✅ Ответ отправлен пользователю %s (ID: %d)", name, userID)
}

func textBroadcastDone(sent, failed int) string {
	return fmt.Sprintf("📢 Рассылка завершена:\n\n✅ Успешно: %d\n❌ Неудачно: %d", sent, failed)
}

func textCancelledMode(mode domain.AdminMode) string {
	switch mode.(type) {
	case domain.ModeBroadcast:
		return "❌ Рассылка отменена"
	case domain.ModeReply:
		return "❌ Ответ отменен"
	case domain.ModeComment:
		return "❌ Добавление комментария отменено"
	}
	return textCancelled
}

func textOrderNotFound(orderID int64) string {
	return fmt.Sprintf("❌ Заказ #%d не найден", orderID)
}
