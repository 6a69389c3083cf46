package conversation

import (
	"context"
	"strings"
	"testing"
	"time"

	"coursebot/internal/domain"
	"coursebot/internal/service"
	"coursebot/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAdminID int64 = 999
	subjectArch       = "🏠 Архитектура"
	packageBasic      = "🏗️ БАЗОВЫЙ"
)

var adminUser = domain.User{ID: testAdminID, FirstName: "Admin"}

type routerFixture struct {
	store     *testutil.MemoryStore
	messenger *testutil.FakeMessenger
	orders    *service.OrderService
	router    *Router
}

func newRouterFixture(t *testing.T, failOn ...int64) *routerFixture {
	t.Helper()

	logger := testutil.NewTestLogger()
	store := testutil.NewMemoryStore()
	msg := testutil.NewFakeMessenger(failOn...)
	catalog := domain.DefaultCatalog()

	users := service.NewUserService(store, 24*time.Hour, logger)
	selections := service.NewSelectionService(store, catalog, logger)
	orders := service.NewOrderService(store, store, users, catalog, msg, service.OrderOptions{
		AdminID:        testAdminID,
		ManagerContact: "@manager",
	}, logger)
	admin := service.NewAdminService(testAdminID, users, orders, msg, 2, logger)
	stats := service.NewStatsService(store, store, 24*time.Hour, logger)

	return &routerFixture{
		store:     store,
		messenger: msg,
		orders:    orders,
		router: NewRouter(users, selections, orders, admin, stats, catalog, msg,
			Options{ManagerContact: "@manager"}, logger),
	}
}

func (f *routerFixture) send(t *testing.T, userID int64, text string) Response {
	t.Helper()
	return f.router.HandleText(context.Background(), Inbound{
		UserID:    userID,
		FirstName: "User",
		Username:  "user",
		Text:      text,
	})
}

// lastText returns the text of the final message in resp
func lastText(t *testing.T, resp Response) string {
	t.Helper()
	require.NotEmpty(t, resp.Messages)
	return resp.Messages[len(resp.Messages)-1].Text
}

func (f *routerFixture) checkout(t *testing.T, userID int64) {
	t.Helper()
	f.send(t, userID, "/start")
	f.send(t, userID, subjectArch)
	f.send(t, userID, "27")
	f.send(t, userID, packageBasic)
	resp := f.send(t, userID, labelCheckout)
	require.Contains(t, lastText(t, resp), "оформлен")
}

func TestRouter_CartFlow(t *testing.T) {
	f := newRouterFixture(t)
	ctx := context.Background()

	resp := f.send(t, 1, "/start")
	assert.Contains(t, lastText(t, resp), "Привет, User!")
	assert.Equal(t, mainKeyboard(), resp.Messages[0].Keyboard)

	resp = f.send(t, 1, labelSubjects)
	assert.Equal(t, subjectsKeyboard(domain.DefaultCatalog()), resp.Messages[0].Keyboard)

	resp = f.send(t, 1, subjectArch)
	assert.Contains(t, lastText(t, resp), subjectArch)

	resp = f.send(t, 1, "27")
	assert.Contains(t, lastText(t, resp), "🔢 Вариант: 27")
	assert.Contains(t, lastText(t, resp), "3000 руб.")
	assert.Equal(t, packagesKeyboard(domain.DefaultCatalog()), resp.Messages[0].Keyboard)

	resp = f.send(t, 1, packageBasic)
	assert.Contains(t, lastText(t, resp), "🛒 Ваша корзина")
	assert.Contains(t, lastText(t, resp), "💰 Стоимость: 3000 руб.")

	resp = f.send(t, 1, labelCart)
	assert.Contains(t, lastText(t, resp), packageBasic)

	resp = f.send(t, 1, labelCheckout)
	assert.Contains(t, lastText(t, resp), "✅ Заказ #1 оформлен!")

	f.orders.Wait()
	notices := f.messenger.SentTo(testAdminID)
	require.Len(t, notices, 1)
	assert.Contains(t, notices[0].Text, "🆕 НОВЫЙ ЗАКАЗ #1")
	assert.Equal(t, service.OrderActionRows(1), notices[0].Rows)

	order, err := f.orders.GetOrder(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusWorking, order.Status)

	resp = f.send(t, 1, labelCart)
	assert.Equal(t, textEmptyCart, lastText(t, resp))
}

func TestRouter_VariantValidation(t *testing.T) {
	f := newRouterFixture(t)

	f.send(t, 1, subjectArch)
	resp := f.send(t, 1, "двадцать семь")
	assert.Equal(t, textVariantInvalid, lastText(t, resp))

	resp = f.send(t, 1, packageBasic)
	assert.Equal(t, textDraftFirst, lastText(t, resp))
}

func TestRouter_PackageWithoutDraft(t *testing.T) {
	f := newRouterFixture(t)

	resp := f.send(t, 1, packageBasic)
	assert.Equal(t, textDraftFirst, lastText(t, resp))

	resp = f.send(t, 1, labelCheckout)
	assert.Equal(t, textCartIncomplete, lastText(t, resp))
}

func TestRouter_BackKeepsDraft(t *testing.T) {
	f := newRouterFixture(t)

	f.send(t, 1, subjectArch)
	f.send(t, 1, "27")

	resp := f.send(t, 1, labelBack)
	assert.Contains(t, lastText(t, resp), subjectArch)

	resp = f.send(t, 1, labelBackToPackages)
	assert.Contains(t, lastText(t, resp), "🔢 Вариант: 27")
}

func TestRouter_NewSubjectResetsDraft(t *testing.T) {
	f := newRouterFixture(t)

	f.send(t, 1, subjectArch)
	f.send(t, 1, "27")
	f.send(t, 1, packageBasic)

	f.send(t, 1, subjectArch)
	resp := f.send(t, 1, labelCart)
	assert.Equal(t, textEmptyCart, lastText(t, resp))
}

func TestRouter_UnknownMessageForwarded(t *testing.T) {
	f := newRouterFixture(t)

	resp := f.send(t, 1, "как дела?")
	assert.Equal(t, textUseMenu, lastText(t, resp))

	forwarded := f.messenger.SentTo(testAdminID)
	require.Len(t, forwarded, 1)
	assert.Contains(t, forwarded[0].Text, "как дела?")
	assert.Contains(t, forwarded[0].Text, textUseMenu)
	assert.Equal(t, domain.QuickReplyPayload(1), forwarded[0].Rows[0][0].Data)
}

func TestRouter_OneActivityPerExchange(t *testing.T) {
	f := newRouterFixture(t)

	f.send(t, 1, "как дела?")
	f.send(t, 1, labelGuarantees)

	var types []domain.ActivityType
	for _, a := range f.store.Activities() {
		if a.UserID == 1 {
			types = append(types, a.Type)
		}
	}
	assert.Equal(t, []domain.ActivityType{domain.ActivityUnknownMessage, domain.ActivityMenuClick}, types)
	assert.Len(t, f.messenger.SentTo(testAdminID), 2)
}

func TestRouter_AdminCommandsHiddenFromUsers(t *testing.T) {
	f := newRouterFixture(t)

	resp := f.send(t, 1, "/admin")
	assert.Equal(t, textUseMenu, lastText(t, resp))

	resp = f.send(t, testAdminID, "/admin")
	assert.Equal(t, textAdminPanel, lastText(t, resp))
	assert.Equal(t, adminPanelKeyboard(), resp.Messages[0].Keyboard)
}

func TestRouter_AdminMarksOrderReady(t *testing.T) {
	f := newRouterFixture(t)
	ctx := context.Background()
	f.checkout(t, 1)

	resp := f.router.HandleAction(ctx, adminUser, domain.OrderActionPayload(domain.ActionReady, 1))
	assert.True(t, resp.DeletePrompt)
	assert.Contains(t, lastText(t, resp), "#1 отмечен как готовый")

	f.orders.Wait()
	order, err := f.orders.GetOrder(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReady, order.Status)

	var notified bool
	for _, m := range f.messenger.SentTo(1) {
		if strings.Contains(m.Text, "Ваш заказ готов") {
			notified = true
		}
	}
	assert.True(t, notified)
}

func TestRouter_AdminEditsCardOnPaid(t *testing.T) {
	f := newRouterFixture(t)
	f.checkout(t, 1)

	resp := f.router.HandleAction(context.Background(), adminUser, domain.OrderActionPayload(domain.ActionPaid, 1))
	require.NotNil(t, resp.EditPrompt)
	assert.Contains(t, resp.EditPrompt.Text, "💰 Оплачен")
	assert.Equal(t, service.OrderActionRows(1), resp.EditPrompt.Inline)
	assert.NotEmpty(t, resp.Notice)
	f.orders.Wait()
}

func TestRouter_ActionFromNonAdminIgnored(t *testing.T) {
	f := newRouterFixture(t)
	ctx := context.Background()
	f.checkout(t, 1)

	resp := f.router.HandleAction(ctx, domain.User{ID: 1, FirstName: "User", Username: "user"}, domain.OrderActionPayload(domain.ActionDelete, 1))
	assert.Equal(t, Response{}, resp)

	_, err := f.orders.GetOrder(ctx, 1)
	assert.NoError(t, err)
	f.orders.Wait()
}

func TestRouter_ActionOnMissingOrder(t *testing.T) {
	f := newRouterFixture(t)

	resp := f.router.HandleAction(context.Background(), adminUser, domain.OrderActionPayload(domain.ActionDelete, 42))
	assert.False(t, resp.DeletePrompt)
	assert.Equal(t, textOrderNotFound(42), lastText(t, resp))

	resp = f.router.HandleAction(context.Background(), adminUser, "order-action:explode:1")
	assert.Equal(t, textFormatError, resp.Notice)
}

func TestRouter_ActionSavesCaller(t *testing.T) {
	f := newRouterFixture(t)
	ctx := context.Background()

	f.router.HandleAction(ctx, adminUser, "order-action:explode:1")
	f.router.HandleAction(ctx, domain.User{ID: 5, FirstName: "Anna", Username: "anna"}, domain.QuickReplyPayload(1))

	saved, err := f.store.GetUser(ctx, testAdminID)
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "Admin", saved.FirstName)

	saved, err = f.store.GetUser(ctx, 5)
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "anna", saved.Username)
}

func TestRouter_Broadcast(t *testing.T) {
	f := newRouterFixture(t, 3)
	for _, id := range []int64{1, 2, 3} {
		f.send(t, id, "/start")
	}

	resp := f.send(t, testAdminID, labelBroadcast)
	assert.Equal(t, textBroadcastPrompt, lastText(t, resp))
	assert.Equal(t, adminCancelKeyboard(), resp.Messages[0].Keyboard)

	resp = f.send(t, testAdminID, "Скидки до пятницы")
	assert.Equal(t, textBroadcastDone(2, 1), lastText(t, resp))

	got := f.messenger.SentTo(2)
	require.Len(t, got, 1)
	assert.Equal(t, "📢 Сообщение от поддержки:\n\nСкидки до пятницы", got[0].Text)

	// the mode is consumed, the next message is routed normally
	resp = f.send(t, testAdminID, "/admin")
	assert.Equal(t, textAdminPanel, lastText(t, resp))
}

func TestRouter_BroadcastCancelled(t *testing.T) {
	f := newRouterFixture(t)
	f.send(t, 1, "/start")

	f.send(t, testAdminID, labelBroadcast)
	resp := f.send(t, testAdminID, domain.CancelCommand)
	assert.Equal(t, "❌ Рассылка отменена", lastText(t, resp))
	assert.Empty(t, f.messenger.SentTo(1))
}

func TestRouter_QuickReply(t *testing.T) {
	f := newRouterFixture(t)
	ctx := context.Background()
	f.send(t, 1, "/start")

	resp := f.router.HandleAction(ctx, adminUser, domain.QuickReplyPayload(1))
	assert.Contains(t, resp.AppendPrompt, "Режим ответа для User активирован")
	assert.Equal(t, textReplyPrompt(domain.User{ID: 1, FirstName: "User"}), lastText(t, resp))

	resp = f.send(t, testAdminID, "Здравствуйте!")
	assert.Equal(t, textReplySent("User", 1), lastText(t, resp))

	got := f.messenger.SentTo(1)
	require.Len(t, got, 1)
	assert.Equal(t, "💬 Сообщение от поддержки:\n\nЗдравствуйте!", got[0].Text)
}

func TestRouter_ArmedModeKeepsTextAsTyped(t *testing.T) {
	f := newRouterFixture(t)
	ctx := context.Background()
	f.send(t, 1, "/start")

	f.router.HandleAction(ctx, adminUser, domain.QuickReplyPayload(1))
	resp := f.send(t, testAdminID, "  Здравствуйте!\n\n  Ваш заказ готов.\n")
	assert.Equal(t, textReplySent("User", 1), lastText(t, resp))

	got := f.messenger.SentTo(1)
	require.Len(t, got, 1)
	assert.Equal(t, "💬 Сообщение от поддержки:\n\n  Здравствуйте!\n\n  Ваш заказ готов.\n", got[0].Text)

	// cancel still matches with surrounding whitespace
	f.router.HandleAction(ctx, adminUser, domain.QuickReplyPayload(1))
	resp = f.send(t, testAdminID, " "+domain.CancelCommand+"\n")
	assert.Equal(t, "❌ Ответ отменен", lastText(t, resp))
	assert.Len(t, f.messenger.SentTo(1), 1)
}

func TestRouter_ReplyButtonAndCommand(t *testing.T) {
	f := newRouterFixture(t)
	f.send(t, 1, "/start")

	resp := f.send(t, testAdminID, "💬 Ответить User (ID: 1)")
	assert.Equal(t, adminCancelKeyboard(), resp.Messages[0].Keyboard)
	f.send(t, testAdminID, domain.CancelCommand)

	resp = f.send(t, testAdminID, "/reply 1 Ваш заказ в работе")
	assert.Equal(t, textReplySent("User", 1), lastText(t, resp))

	resp = f.send(t, testAdminID, "/reply_77 привет")
	assert.Equal(t, textUserNotFound, lastText(t, resp))

	resp = f.send(t, testAdminID, "/reply")
	assert.Equal(t, textReplyUsage, lastText(t, resp))
}

func TestRouter_Comment(t *testing.T) {
	f := newRouterFixture(t)
	ctx := context.Background()
	f.checkout(t, 1)

	resp := f.router.HandleAction(ctx, adminUser, domain.OrderActionPayload(domain.ActionComment, 1))
	assert.Contains(t, lastText(t, resp), "комментарий к заказу #1")

	resp = f.send(t, testAdminID, "позвонить в среду")
	assert.Contains(t, lastText(t, resp), "Комментарий добавлен к заказу #1")

	order, err := f.orders.GetOrder(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "позвонить в среду", order.Comment)
	f.orders.Wait()
}

func TestRouter_WorkingOrders(t *testing.T) {
	f := newRouterFixture(t)
	f.checkout(t, 1)
	f.checkout(t, 2)
	f.orders.Wait()

	resp := f.send(t, testAdminID, labelOrdersWorking)
	require.Len(t, resp.Messages, 3)
	assert.Contains(t, resp.Messages[0].Text, "(2 шт.)")
	assert.Equal(t, service.OrderActionRows(1), resp.Messages[1].Inline)
	assert.Equal(t, service.OrderActionRows(2), resp.Messages[2].Inline)

	resp = f.send(t, testAdminID, labelOrdersReady)
	assert.Equal(t, textOrdersEmpty, lastText(t, resp))
}

func TestRouter_Stats(t *testing.T) {
	f := newRouterFixture(t)
	f.checkout(t, 1)
	f.orders.Wait()

	resp := f.send(t, testAdminID, "/stats")
	assert.Contains(t, lastText(t, resp), "👥 Всего пользователей: 2")
	assert.Contains(t, lastText(t, resp), "🔄 В работе: 1")
}

func TestParseReplyCommand(t *testing.T) {
	tests := []struct {
		input  string
		id     int64
		body   string
		wantOK bool
	}{
		{input: "/reply 12 hello", id: 12, body: "hello", wantOK: true},
		{input: "/reply_12 hello there", id: 12, body: "hello there", wantOK: true},
		{input: "/reply 12 line1\nline2", id: 12, body: "line1\nline2", wantOK: true},
		{input: "/reply 12", wantOK: false},
		{input: "/reply abc hi", wantOK: false},
		{input: "/reply_0 hi", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			id, body, ok := parseReplyCommand(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.id, id)
			assert.Equal(t, tt.body, body)
		})
	}
}

func TestParseReplyButton(t *testing.T) {
	id, ok := parseReplyButton("💬 Ответить Иван (ID: 123)")
	assert.True(t, ok)
	assert.Equal(t, int64(123), id)

	_, ok = parseReplyButton("Ответить (ID: 123)")
	assert.False(t, ok)
}
