package conversation

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"coursebot/internal/domain"
	"coursebot/internal/service"

	"go.uber.org/zap"
)

var (
	replyCommandRe = regexp.MustCompile(`^/reply(?:_|\s+)(\d+)\s+((?s:.+))$`)
	replyButtonRe  = regexp.MustCompile(`ID: (\d+)\)`)
)

// parseReplyButton extracts the user id from a "💬 Ответить Name (ID: n)" label
func parseReplyButton(text string) (int64, bool) {
	if !strings.HasPrefix(text, labelReplyPrefix) {
		return 0, false
	}
	m := replyButtonRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	id, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// parseReplyCommand parses "/reply <id> <text>" and "/reply_<id> <text>"
func parseReplyCommand(text string) (int64, string, bool) {
	m := replyCommandRe.FindStringSubmatch(text)
	if m == nil {
		return 0, "", false
	}
	id, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil || id <= 0 {
		return 0, "", false
	}
	body := strings.TrimSpace(m[2])
	if body == "" {
		return 0, "", false
	}
	return id, body, true
}

func (r *Router) handleAdminPanel(_ context.Context, _ Inbound) (Response, error) {
	return reply(textAdminPanel, adminPanelKeyboard()), nil
}

func (r *Router) handleLeavePanel(_ context.Context, in Inbound) (Response, error) {
	r.admin.Cancel(in.UserID)
	return reply(textLeftPanel, mainKeyboard()), nil
}

func (r *Router) handleCancel(_ context.Context, in Inbound) (Response, error) {
	r.admin.Cancel(in.UserID)
	return reply(textCancelled, adminPanelKeyboard()), nil
}

func (r *Router) handleAdminUsers(ctx context.Context, _ Inbound) (Response, error) {
	users, err := r.users.ActiveUsers(ctx)
	if err != nil {
		return Response{}, err
	}

	// the admin never replies to themselves
	peers := users[:0:0]
	for _, u := range users {
		if !r.admin.IsAdmin(u.ID) {
			peers = append(peers, u)
		}
	}
	if len(peers) == 0 {
		return reply(textNoActiveUsers, adminPanelKeyboard()), nil
	}

	return replyLong(textUsers(peers, r.users.Window()), adminUsersKeyboard(peers)), nil
}

func (r *Router) handleAdminOrders(_ context.Context, _ Inbound) (Response, error) {
	return reply(textOrdersMenu, adminOrdersKeyboard()), nil
}

func (r *Router) handleAdminStats(ctx context.Context, _ Inbound) (Response, error) {
	stats, err := r.stats.Collect(ctx)
	if err != nil {
		return Response{}, err
	}
	return reply(textStats(stats, r.catalog, r.users.Window()), adminPanelKeyboard()), nil
}

func (r *Router) handleBroadcastStart(_ context.Context, in Inbound) (Response, error) {
	r.admin.StartBroadcast(in.UserID)
	return reply(textBroadcastPrompt, adminCancelKeyboard()), nil
}

func (r *Router) ordersList(title, filter string) handlerFunc {
	return func(ctx context.Context, _ Inbound) (Response, error) {
		orders, err := r.orders.ListOrders(ctx, filter)
		if err != nil {
			return Response{}, err
		}
		if len(orders) == 0 {
			return reply(textOrdersEmpty, adminOrdersKeyboard()), nil
		}
		return replyLong(textOrders(title, orders, r.catalog), adminOrdersKeyboard()), nil
	}
}

// handleWorkingOrders sends one card per order so each carries its own actions
func (r *Router) handleWorkingOrders(ctx context.Context, _ Inbound) (Response, error) {
	orders, err := r.orders.ListOrders(ctx, string(domain.StatusWorking))
	if err != nil {
		return Response{}, err
	}
	if len(orders) == 0 {
		return reply(textOrdersEmpty, adminOrdersKeyboard()), nil
	}

	resp := Response{Messages: make([]Message, 0, len(orders)+1)}
	resp.Messages = append(resp.Messages, Message{
		Text:     fmt.Sprintf("🔄 Заказы в работе (%d шт.):", len(orders)),
		Keyboard: adminOrdersKeyboard(),
	})
	for _, o := range orders {
		resp.Messages = append(resp.Messages, Message{
			Text:   service.OrderCard(o, r.catalog),
			Inline: service.OrderActionRows(o.ID),
		})
	}
	return resp, nil
}

// userName returns the display name of a known user, or a placeholder
func (r *Router) userName(ctx context.Context, userID int64) string {
	user, err := r.users.GetUser(ctx, userID)
	if err != nil || user == nil {
		return domain.User{}.DisplayName()
	}
	return user.DisplayName()
}

func (r *Router) startReply(ctx context.Context, adminID, targetID int64) (Response, error) {
	user, err := r.users.GetUser(ctx, targetID)
	if err != nil {
		return Response{}, err
	}
	if user == nil {
		return reply(textUserNotFound, adminPanelKeyboard()), nil
	}

	r.admin.StartReply(adminID, targetID)
	return reply(textReplyPrompt(*user), adminCancelKeyboard()), nil
}

func (r *Router) replyCommand(ctx context.Context, text string) (Response, error) {
	target, body, ok := parseReplyCommand(text)
	if !ok {
		return reply(textReplyUsage, adminPanelKeyboard()), nil
	}

	user, err := r.users.GetUser(ctx, target)
	if err != nil {
		return Response{}, err
	}
	if user == nil {
		return reply(textUserNotFound, adminPanelKeyboard()), nil
	}

	if err := r.admin.Reply(ctx, target, body); err != nil {
		return reply(textReplyFailed, adminPanelKeyboard()), nil
	}
	return reply(textReplySent(user.DisplayName(), target), adminPanelKeyboard()), nil
}

// dispatchAdmin hands the message to the armed admin mode and reports the outcome
func (r *Router) dispatchAdmin(ctx context.Context, in Inbound) (Response, error) {
	res, err := r.admin.Dispatch(ctx, in.UserID, in.Text)
	if err != nil {
		return Response{}, err
	}
	if res.Cancelled {
		return reply(textCancelledMode(res.Mode), adminPanelKeyboard()), nil
	}

	switch m := res.Mode.(type) {
	case domain.ModeBroadcast:
		if res.Broadcast.Total == 0 {
			return reply(textNoBroadcastPeer, adminPanelKeyboard()), nil
		}
		return reply(textBroadcastDone(res.Broadcast.Sent, res.Broadcast.Failed), adminPanelKeyboard()), nil

	case domain.ModeReply:
		if !res.Delivered {
			return reply(textReplyFailed, adminPanelKeyboard()), nil
		}
		return reply(textReplySent(r.userName(ctx, m.TargetUserID), m.TargetUserID), adminPanelKeyboard()), nil

	case domain.ModeComment:
		if !res.Applied {
			return reply(textOrderNotFound(m.TargetOrderID), adminOrdersKeyboard()), nil
		}
		return reply(fmt.Sprintf("✅ Комментарий добавлен к заказу #%d", m.TargetOrderID), adminOrdersKeyboard()), nil
	}

	return reply(textAdminPanel, adminPanelKeyboard()), nil
}

// HandleAction handles an inline button press. The caller's profile is
// saved either way; only the administrator's presses have any effect.
func (r *Router) HandleAction(ctx context.Context, caller domain.User, payload string) Response {
	callerID := caller.ID
	if err := r.users.Touch(ctx, caller); err != nil {
		r.logger.Error("Failed to save user", zap.Error(err), zap.Int64("user_id", callerID))
	}

	if !r.admin.IsAdmin(callerID) {
		r.logger.Warn("Button press from non-admin ignored", zap.Int64("user_id", callerID))
		return Response{}
	}

	action, err := domain.ParseButtonAction(payload)
	if err != nil {
		r.logger.Warn("Invalid button payload", zap.Error(err), zap.String("payload", payload))
		return Response{Notice: textFormatError}
	}

	resp, err := r.buttonAction(ctx, callerID, action)
	if err != nil {
		return r.errorResponse(callerID, err)
	}
	return resp
}

func (r *Router) buttonAction(ctx context.Context, callerID int64, action domain.ButtonAction) (Response, error) {
	if action.QuickReply {
		user, err := r.users.GetUser(ctx, action.TargetUser)
		if err != nil {
			return Response{}, err
		}
		if user == nil {
			return reply(textUserNotFound, adminPanelKeyboard()), nil
		}
		r.admin.StartReply(callerID, user.ID)
		resp := reply(textReplyPrompt(*user), adminCancelKeyboard())
		resp.AppendPrompt = fmt.Sprintf("\n\n🔄 Режим ответа для %s активирован", user.DisplayName())
		return resp, nil
	}

	id := action.OrderID
	switch action.Order {
	case domain.ActionReady:
		ok, err := r.orders.SetStatus(ctx, id, domain.StatusReady)
		if err != nil {
			return Response{}, err
		}
		if !ok {
			return reply(textOrderNotFound(id), adminOrdersKeyboard()), nil
		}
		resp := reply(fmt.Sprintf("✅ Заказ #%d отмечен как готовый и удален из списка", id), adminOrdersKeyboard())
		resp.DeletePrompt = true
		return resp, nil

	case domain.ActionDelivered, domain.ActionPaid:
		status, _ := action.Order.Status()
		ok, err := r.orders.SetStatus(ctx, id, status)
		if err != nil {
			return Response{}, err
		}
		if !ok {
			return reply(textOrderNotFound(id), adminOrdersKeyboard()), nil
		}
		order, err := r.orders.GetOrder(ctx, id)
		if err != nil {
			return Response{}, err
		}
		return Response{
			EditPrompt: &Message{Text: service.OrderCard(*order, r.catalog), Inline: service.OrderActionRows(id)},
			Notice:     "Статус: " + r.catalog.StatusLabel(status),
		}, nil

	case domain.ActionComment:
		if _, err := r.orders.GetOrder(ctx, id); err != nil {
			if isNotFound(err) {
				return reply(textOrderNotFound(id), adminOrdersKeyboard()), nil
			}
			return Response{}, err
		}
		r.admin.StartComment(callerID, id)
		return reply(fmt.Sprintf("💬 Введите комментарий к заказу #%d:", id), adminCancelKeyboard()), nil

	case domain.ActionDelete:
		ok, err := r.orders.DeleteOrder(ctx, id)
		if err != nil {
			return Response{}, err
		}
		if !ok {
			return reply(textOrderNotFound(id), adminOrdersKeyboard()), nil
		}
		resp := reply(fmt.Sprintf("🗑️ Заказ #%d удален", id), adminOrdersKeyboard())
		resp.DeletePrompt = true
		return resp, nil
	}

	return Response{Notice: textFormatError}, nil
}
