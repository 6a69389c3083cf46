package conversation

import (
	"context"
	"errors"
	"strings"

	"coursebot/internal/domain"
	"coursebot/internal/messenger"
	"coursebot/internal/service"

	"go.uber.org/zap"
)

// Inbound is one text message from a chat
type Inbound struct {
	UserID    int64
	FirstName string
	Username  string
	Text      string
}

// User returns the sender as a domain user
func (in Inbound) User() domain.User {
	return domain.User{ID: in.UserID, FirstName: in.FirstName, Username: in.Username}
}

// Message is one outgoing chat message. Keyboard is a reply keyboard,
// Inline is an inline keyboard; at most one is set.
type Message struct {
	Text     string
	Keyboard [][]string
	Inline   [][]messenger.Button
}

// Response is everything the transport should do for one update
type Response struct {
	Messages []Message
	// DeletePrompt removes the message carrying the pressed button
	DeletePrompt bool
	// EditPrompt replaces the message carrying the pressed button
	EditPrompt *Message
	// AppendPrompt is appended to the text of the message carrying the pressed button
	AppendPrompt string
	// Notice is shown as a callback toast
	Notice string
}

func reply(text string, keyboard [][]string) Response {
	return Response{Messages: []Message{{Text: text, Keyboard: keyboard}}}
}

// replyLong splits text into several messages, keyboard goes on the last one
func replyLong(text string, keyboard [][]string) Response {
	chunks := splitMessage(text, maxMessageLen)
	resp := Response{Messages: make([]Message, 0, len(chunks))}
	for i, chunk := range chunks {
		msg := Message{Text: chunk}
		if i == len(chunks)-1 {
			msg.Keyboard = keyboard
		}
		resp.Messages = append(resp.Messages, msg)
	}
	return resp
}

type handlerFunc func(ctx context.Context, in Inbound) (Response, error)

// Options carries static settings of the router
type Options struct {
	ManagerContact string
}

// Router turns inbound text and button presses into responses
type Router struct {
	users      *service.UserService
	selections *service.SelectionService
	orders     *service.OrderService
	admin      *service.AdminService
	stats      *service.StatsService
	catalog    *domain.Catalog
	messenger  messenger.Messenger
	opts       Options
	logger     *zap.Logger

	commands map[string]commandEntry
	handlers map[Command]handlerFunc
}

// NewRouter creates a new router
func NewRouter(
	users *service.UserService,
	selections *service.SelectionService,
	orders *service.OrderService,
	admin *service.AdminService,
	stats *service.StatsService,
	catalog *domain.Catalog,
	msg messenger.Messenger,
	opts Options,
	logger *zap.Logger,
) *Router {
	r := &Router{
		users:      users,
		selections: selections,
		orders:     orders,
		admin:      admin,
		stats:      stats,
		catalog:    catalog,
		messenger:  msg,
		opts:       opts,
		logger:     logger,
		commands:   buildCommandIndex(),
	}

	r.handlers = map[Command]handlerFunc{
		CmdStart:          r.handleStart,
		CmdMainMenu:       r.handleMainMenu,
		CmdSubjects:       r.handleSubjects,
		CmdEnterVariant:   r.handleEnterVariantPrompt,
		CmdBack:           r.handleBack,
		CmdBackToPackages: r.handleBackToPackages,
		CmdConsultation:   r.handleConsultation,
		CmdContactManager: r.handleContactManager,
		CmdCart:           r.handleCart,
		CmdCheckout:       r.handleCheckout,
		CmdClear:          r.handleClear,
		CmdGuarantees:     r.infoPage(func() string { return textGuarantees }),
		CmdPrices:         r.infoPage(func() string { return textPrices(r.catalog) }),
		CmdAbout:          r.infoPage(func() string { return textAbout }),
		CmdContacts:       r.infoPage(func() string { return textContacts(r.opts.ManagerContact) }),

		CmdAdminPanel:    r.handleAdminPanel,
		CmdAdminUsers:    r.handleAdminUsers,
		CmdAdminOrders:   r.handleAdminOrders,
		CmdAdminStats:    r.handleAdminStats,
		CmdBroadcast:     r.handleBroadcastStart,
		CmdLeavePanel:    r.handleLeavePanel,
		CmdCancel:        r.handleCancel,
		CmdOrdersAll:     r.ordersList("📦 Все заказы", domain.StatusFilterAll),
		CmdOrdersReady:   r.ordersList("✅ Готовые заказы", string(domain.StatusReady)),
		CmdOrdersWorking: r.handleWorkingOrders,
	}

	return r
}

// HandleText routes one text message. Rules apply in order: an armed admin
// mode consumes the message, then fixed commands, catalog labels, admin reply
// shortcuts, the awaited variant number, and finally the unknown fallback.
func (r *Router) HandleText(ctx context.Context, in Inbound) Response {
	if err := r.users.Touch(ctx, in.User()); err != nil {
		r.logger.Error("Failed to save user", zap.Error(err), zap.Int64("user_id", in.UserID))
	}

	resp, err := r.route(ctx, in)
	if err != nil {
		return r.errorResponse(in.UserID, err)
	}
	return resp
}

func (r *Router) route(ctx context.Context, in Inbound) (Response, error) {
	isAdmin := r.admin.IsAdmin(in.UserID)

	// armed modes get the text exactly as typed
	if isAdmin && !domain.IsIdle(r.admin.Mode(in.UserID)) {
		return r.dispatchAdmin(ctx, in)
	}

	in.Text = strings.TrimSpace(in.Text)

	if entry, ok := r.commands[in.Text]; ok && (!entry.adminOnly || isAdmin) {
		return r.handlers[entry.cmd](ctx, in)
	}

	if r.catalog.HasSubject(in.Text) {
		return r.selectSubject(ctx, in)
	}
	if pkg, ok := r.catalog.PackageByName(in.Text); ok {
		return r.selectPackage(ctx, in, pkg)
	}

	if isAdmin {
		if strings.HasPrefix(in.Text, "/reply") {
			return r.replyCommand(ctx, in.Text)
		}
		if target, ok := parseReplyButton(in.Text); ok {
			return r.startReply(ctx, in.UserID, target)
		}
	}

	sel, err := r.selections.GetSelection(ctx, in.UserID)
	if err != nil {
		return Response{}, err
	}
	if sel.AwaitingVariant() {
		return r.enterVariant(ctx, in)
	}

	return r.unknown(ctx, in), nil
}

// errorResponse maps an unexpected error to the generic user-facing reply
func (r *Router) errorResponse(userID int64, err error) Response {
	r.logger.Error("Failed to handle update", zap.Error(err), zap.Int64("user_id", userID))

	keyboard := mainKeyboard()
	if r.admin.IsAdmin(userID) {
		keyboard = adminPanelKeyboard()
	}
	if errors.Is(err, domain.ErrPriceLookup) {
		return reply(textPriceError, keyboard)
	}
	return reply(textGenericError, keyboard)
}

// forward records the exchange as one activity of the given kind and sends
// it to the administrator with a quick-reply button
func (r *Router) forward(ctx context.Context, in Inbound, kind domain.ActivityType, answer string) {
	r.users.Record(ctx, in.UserID, kind, in.Text, answer)
	if r.admin.IsAdmin(in.UserID) {
		return
	}

	user := in.User()
	err := r.messenger.Send(ctx, r.admin.AdminID(), textTranscript(user, in.Text, answer), service.QuickReplyRows(user)...)
	if err != nil {
		r.logger.Error("Failed to forward message to admin", zap.Error(err), zap.Int64("user_id", in.UserID))
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}

func (r *Router) unknown(ctx context.Context, in Inbound) Response {
	r.forward(ctx, in, domain.ActivityUnknownMessage, textUseMenu)
	return reply(textUseMenu, mainKeyboard())
}
