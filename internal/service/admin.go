package service

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"coursebot/internal/domain"
	"coursebot/internal/messenger"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	broadcastPrefix = "📢 Сообщение от поддержки:\n\n"
	replyPrefix     = "💬 Сообщение от поддержки:\n\n"
)

// BroadcastResult counts per-recipient outcomes of a broadcast
type BroadcastResult struct {
	Total  int
	Sent   int
	Failed int
}

// DispatchResult describes what the admin's armed message did
type DispatchResult struct {
	// Mode that consumed the message
	Mode      domain.AdminMode
	Cancelled bool
	Broadcast BroadcastResult
	// Delivered is set for replies, Applied for comments
	Delivered bool
	Applied   bool
}

// AdminService is the administrator's mode machine. Every operation is a
// no-op for callers other than the configured administrator.
type AdminService struct {
	adminID     int64
	users       *UserService
	orders      *OrderService
	messenger   messenger.Messenger
	concurrency int
	logger      *zap.Logger

	modeMux sync.Mutex
	modes   map[int64]domain.AdminMode
}

// NewAdminService creates a new admin service. concurrency bounds broadcast fan-out.
func NewAdminService(
	adminID int64,
	users *UserService,
	orders *OrderService,
	msg messenger.Messenger,
	concurrency int,
	logger *zap.Logger,
) *AdminService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &AdminService{
		adminID:     adminID,
		users:       users,
		orders:      orders,
		messenger:   msg,
		concurrency: concurrency,
		logger:      logger,
		modes:       make(map[int64]domain.AdminMode),
	}
}

// IsAdmin reports whether userID is the administrator
func (s *AdminService) IsAdmin(userID int64) bool {
	return s.adminID != 0 && userID == s.adminID
}

// AdminID returns the administrator identifier
func (s *AdminService) AdminID() int64 {
	return s.adminID
}

// Mode returns the caller's current mode; always idle for non-admins
func (s *AdminService) Mode(callerID int64) domain.AdminMode {
	if !s.IsAdmin(callerID) {
		return domain.ModeIdle{}
	}

	s.modeMux.Lock()
	defer s.modeMux.Unlock()

	if m, ok := s.modes[callerID]; ok {
		return m
	}
	return domain.ModeIdle{}
}

// StartBroadcast arms the next admin message as a broadcast
func (s *AdminService) StartBroadcast(callerID int64) bool {
	return s.setMode(callerID, domain.ModeBroadcast{})
}

// StartReply arms the next admin message as a reply to targetUserID
func (s *AdminService) StartReply(callerID, targetUserID int64) bool {
	return s.setMode(callerID, domain.ModeReply{TargetUserID: targetUserID})
}

// StartComment arms the next admin message as the comment of orderID
func (s *AdminService) StartComment(callerID, orderID int64) bool {
	return s.setMode(callerID, domain.ModeComment{TargetOrderID: orderID})
}

// Cancel returns the admin to idle
func (s *AdminService) Cancel(callerID int64) bool {
	return s.setMode(callerID, domain.ModeIdle{})
}

// Dispatch consumes text with the armed mode. The mode is reset to idle
// before the action runs, whatever its outcome.
func (s *AdminService) Dispatch(ctx context.Context, callerID int64, text string) (DispatchResult, error) {
	if !s.IsAdmin(callerID) {
		return DispatchResult{Mode: domain.ModeIdle{}}, nil
	}

	s.modeMux.Lock()
	mode, ok := s.modes[callerID]
	delete(s.modes, callerID)
	s.modeMux.Unlock()

	if !ok {
		mode = domain.ModeIdle{}
	}
	result := DispatchResult{Mode: mode}

	if strings.TrimSpace(text) == domain.CancelCommand {
		result.Cancelled = true
		s.logger.Info("Admin action cancelled", zap.String("mode", mode.String()))
		return result, nil
	}

	switch m := mode.(type) {
	case domain.ModeBroadcast:
		br, err := s.Broadcast(ctx, text)
		result.Broadcast = br
		return result, err

	case domain.ModeReply:
		result.Delivered = s.Reply(ctx, m.TargetUserID, text) == nil
		return result, nil

	case domain.ModeComment:
		applied, err := s.orders.SetComment(ctx, m.TargetOrderID, text)
		result.Applied = applied
		return result, err
	}

	return result, nil
}

// Broadcast sends text to every active user except the administrator.
// A failed send is counted and never stops the others.
func (s *AdminService) Broadcast(ctx context.Context, text string) (BroadcastResult, error) {
	users, err := s.users.ActiveUsers(ctx)
	if err != nil {
		return BroadcastResult{}, err
	}

	var sent, failed atomic.Int64
	var g errgroup.Group
	g.SetLimit(s.concurrency)

	total := 0
	for _, u := range users {
		if u.ID == s.adminID {
			continue
		}
		total++
		userID := u.ID

		g.Go(func() error {
			if err := s.messenger.Send(ctx, userID, broadcastPrefix+text); err != nil {
				failed.Add(1)
				s.logger.Error("Broadcast send failed", zap.Error(err), zap.Int64("user_id", userID))
				return nil
			}
			sent.Add(1)
			s.users.Record(ctx, userID, domain.ActivityBroadcast, text, "Рассылка")
			return nil
		})
	}
	_ = g.Wait()

	result := BroadcastResult{Total: total, Sent: int(sent.Load()), Failed: int(failed.Load())}
	s.logger.Info("Broadcast finished",
		zap.Int("total", result.Total),
		zap.Int("sent", result.Sent),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}

// Reply relays text to one user with the support prefix
func (s *AdminService) Reply(ctx context.Context, targetUserID int64, text string) error {
	if err := s.messenger.Send(ctx, targetUserID, replyPrefix+text); err != nil {
		s.logger.Error("Reply send failed", zap.Error(err), zap.Int64("user_id", targetUserID))
		return err
	}
	s.users.Record(ctx, targetUserID, domain.ActivityAdminReply, text, "Ответ отправлен")
	return nil
}

func (s *AdminService) setMode(callerID int64, mode domain.AdminMode) bool {
	if !s.IsAdmin(callerID) {
		return false
	}

	s.modeMux.Lock()
	defer s.modeMux.Unlock()

	if domain.IsIdle(mode) {
		delete(s.modes, callerID)
	} else {
		s.modes[callerID] = mode
	}
	return true
}
