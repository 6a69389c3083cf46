package service

import (
	"context"
	"fmt"
	"strings"

	"coursebot/internal/domain"
	"coursebot/internal/repository"

	"go.uber.org/zap"
)

// SelectionService drives the per-user order draft:
// subject, then variant, then package with its price.
type SelectionService struct {
	selectionRepo repository.SelectionRepository
	catalog       *domain.Catalog
	logger        *zap.Logger
}

// NewSelectionService creates a new selection service
func NewSelectionService(selectionRepo repository.SelectionRepository, catalog *domain.Catalog, logger *zap.Logger) *SelectionService {
	return &SelectionService{
		selectionRepo: selectionRepo,
		catalog:       catalog,
		logger:        logger,
	}
}

// SelectSubject starts a fresh draft for subject, dropping variant, package and price
func (s *SelectionService) SelectSubject(ctx context.Context, userID int64, subject string) error {
	if !s.catalog.HasSubject(subject) {
		return fmt.Errorf("%w: unknown subject %q", domain.ErrInvalidInput, subject)
	}

	patch := domain.SelectionPatch{Subject: &subject, ResetForward: true}
	if err := s.selectionRepo.UpsertSelection(ctx, userID, patch); err != nil {
		return storeErr("save subject", err)
	}

	s.logger.Debug("Subject selected", zap.Int64("user_id", userID), zap.String("subject", subject))
	return nil
}

// EnterVariant stores a numeric variant. Package and price are dropped.
func (s *SelectionService) EnterVariant(ctx context.Context, userID int64, text string) (*domain.Selection, error) {
	sel, err := s.GetSelection(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sel == nil || sel.Subject == "" {
		return nil, fmt.Errorf("%w: no subject selected", domain.ErrPrecondition)
	}

	variant := strings.TrimSpace(text)
	if !isDigits(variant) {
		return nil, fmt.Errorf("%w: variant must be numeric, got %q", domain.ErrInvalidInput, variant)
	}

	patch := domain.SelectionPatch{Variant: &variant, ResetForward: true}
	if err := s.selectionRepo.UpsertSelection(ctx, userID, patch); err != nil {
		return nil, storeErr("save variant", err)
	}

	sel.Variant = variant
	sel.Package = ""
	sel.Price = 0
	return sel, nil
}

// SelectPackage prices the draft. Subject and variant must already be set.
func (s *SelectionService) SelectPackage(ctx context.Context, userID int64, packageKey string) (*domain.Selection, error) {
	if _, ok := s.catalog.PackageByKey(packageKey); !ok {
		return nil, fmt.Errorf("%w: unknown package %q", domain.ErrInvalidInput, packageKey)
	}

	sel, err := s.GetSelection(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sel == nil || sel.Subject == "" || sel.Variant == "" {
		return nil, fmt.Errorf("%w: subject and variant are required", domain.ErrPrecondition)
	}

	price := s.catalog.Price(sel.Subject, packageKey)
	if price <= 0 {
		s.logger.Error("No price for package",
			zap.Int64("user_id", userID),
			zap.String("subject", sel.Subject),
			zap.String("package", packageKey),
		)
		return nil, fmt.Errorf("%w: %s/%s", domain.ErrPriceLookup, sel.Subject, packageKey)
	}

	patch := domain.SelectionPatch{Package: &packageKey, Price: &price}
	if err := s.selectionRepo.UpsertSelection(ctx, userID, patch); err != nil {
		return nil, storeErr("save package", err)
	}

	sel.Package = packageKey
	sel.Price = price
	return sel, nil
}

// GetSelection returns the current draft or nil
func (s *SelectionService) GetSelection(ctx context.Context, userID int64) (*domain.Selection, error) {
	sel, err := s.selectionRepo.GetSelection(ctx, userID)
	if err != nil {
		return nil, storeErr("get selection", err)
	}
	return sel, nil
}

// ClearSelection removes the draft entirely
func (s *SelectionService) ClearSelection(ctx context.Context, userID int64) error {
	if err := s.selectionRepo.DeleteSelection(ctx, userID); err != nil {
		return storeErr("delete selection", err)
	}
	return nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
