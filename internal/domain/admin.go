package domain

// AdminMode is the administrator's current interaction mode.
// Only the types below implement it.
type AdminMode interface {
	adminMode()
	String() string
}

// ModeIdle means admin text is routed like any other user's
type ModeIdle struct{}

// ModeBroadcast arms the next admin message as a broadcast
type ModeBroadcast struct{}

// ModeReply arms the next admin message as a direct reply to TargetUserID
type ModeReply struct {
	TargetUserID int64
}

// ModeComment arms the next admin message as the comment of TargetOrderID
type ModeComment struct {
	TargetOrderID int64
}

func (ModeIdle) adminMode()      {}
func (ModeBroadcast) adminMode() {}
func (ModeReply) adminMode()     {}
func (ModeComment) adminMode()   {}

func (ModeIdle) String() string      { return "idle" }
func (ModeBroadcast) String() string { return "broadcast_pending" }
func (ModeReply) String() string     { return "reply_pending" }
func (ModeComment) String() string   { return "comment_pending" }

// IsIdle reports whether m is nil or ModeIdle
func IsIdle(m AdminMode) bool {
	if m == nil {
		return true
	}
	_, ok := m.(ModeIdle)
	return ok
}

// CancelCommand aborts any pending admin mode without applying it
const CancelCommand = "❌ Отмена"
