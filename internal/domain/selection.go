package domain

import "time"

// SelectionStage is the position of a draft in the ordering flow
type SelectionStage int

const (
	StageEmpty SelectionStage = iota
	StageSubjectChosen
	StageVariantChosen
	StagePackageChosen
)

func (s SelectionStage) String() string {
	switch s {
	case StageSubjectChosen:
		return "subject_chosen"
	case StageVariantChosen:
		return "variant_chosen"
	case StagePackageChosen:
		return "package_chosen"
	default:
		return "empty"
	}
}

// Selection is a user's in-progress order draft
type Selection struct {
	UserID    int64
	Subject   string
	Variant   string
	Package   string
	Price     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Stage reports how far the draft has progressed. A nil draft is empty.
func (s *Selection) Stage() SelectionStage {
	switch {
	case s == nil || s.Subject == "":
		return StageEmpty
	case s.Variant == "":
		return StageSubjectChosen
	case s.Package == "":
		return StageVariantChosen
	default:
		return StagePackageChosen
	}
}

// IsComplete reports whether the draft can be turned into an order
func (s *Selection) IsComplete() bool {
	return s.Stage() == StagePackageChosen && s.Price > 0
}

// AwaitingVariant reports whether the next free-text message is the variant number
func (s *Selection) AwaitingVariant() bool {
	return s != nil && s.Subject != "" && s.Package == ""
}

// SelectionPatch is a partial update of a draft. Nil fields keep their stored value.
// ResetForward clears every field after the last one set in the patch.
type SelectionPatch struct {
	Subject      *string
	Variant      *string
	Package      *string
	Price        *int
	ResetForward bool
}
