package conversation

import (
	"context"
	"errors"
	"fmt"

	"coursebot/internal/domain"
)

func (r *Router) handleStart(ctx context.Context, in Inbound) (Response, error) {
	text := textWelcome(in.User().DisplayName())
	r.users.Record(ctx, in.UserID, domain.ActivityStart, in.Text, text)
	return reply(text, mainKeyboard()), nil
}

func (r *Router) handleMainMenu(ctx context.Context, in Inbound) (Response, error) {
	text := textWelcome(in.User().DisplayName())
	r.users.Record(ctx, in.UserID, domain.ActivityMenuClick, in.Text, text)
	return reply(text, mainKeyboard()), nil
}

func (r *Router) handleSubjects(ctx context.Context, in Inbound) (Response, error) {
	r.users.Record(ctx, in.UserID, domain.ActivityMenuClick, in.Text, textChooseSubject)
	return reply(textChooseSubject, subjectsKeyboard(r.catalog)), nil
}

func (r *Router) selectSubject(ctx context.Context, in Inbound) (Response, error) {
	if err := r.selections.SelectSubject(ctx, in.UserID, in.Text); err != nil {
		return Response{}, err
	}

	text := textSubjectSelected(in.Text)
	r.users.Record(ctx, in.UserID, domain.ActivitySubjectSelected, in.Text, text)
	return reply(text, subjectSelectedKeyboard()), nil
}

func (r *Router) handleEnterVariantPrompt(ctx context.Context, in Inbound) (Response, error) {
	sel, err := r.selections.GetSelection(ctx, in.UserID)
	if err != nil {
		return Response{}, err
	}
	if sel.Stage() == domain.StageEmpty {
		return reply(textSubjectFirst, subjectsKeyboard(r.catalog)), nil
	}

	r.users.Record(ctx, in.UserID, domain.ActivityMenuClick, in.Text, textVariantPrompt)
	return reply(textVariantPrompt, subjectSelectedKeyboard()), nil
}

func (r *Router) enterVariant(ctx context.Context, in Inbound) (Response, error) {
	sel, err := r.selections.EnterVariant(ctx, in.UserID, in.Text)
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return reply(textVariantInvalid, subjectSelectedKeyboard()), nil
	case errors.Is(err, domain.ErrPrecondition):
		return reply(textSubjectFirst, subjectsKeyboard(r.catalog)), nil
	case err != nil:
		return Response{}, err
	}

	text := textPackages(r.catalog, sel)
	r.users.Record(ctx, in.UserID, domain.ActivityVariantEntered,
		fmt.Sprintf("Ввел вариант: %s для %s", sel.Variant, sel.Subject), text)
	return reply(text, packagesKeyboard(r.catalog)), nil
}

func (r *Router) selectPackage(ctx context.Context, in Inbound, pkg domain.Package) (Response, error) {
	sel, err := r.selections.SelectPackage(ctx, in.UserID, pkg.Key)
	switch {
	case errors.Is(err, domain.ErrPrecondition):
		return reply(textDraftFirst, subjectsKeyboard(r.catalog)), nil
	case errors.Is(err, domain.ErrPriceLookup):
		return reply(textPriceError, mainKeyboard()), nil
	case err != nil:
		return Response{}, err
	}

	text := textCart(r.catalog, sel)
	r.users.Record(ctx, in.UserID, domain.ActivityPackageSelected, pkg.Name, text)
	return reply(text, cartKeyboard()), nil
}

// handleBack returns from the package list to the variant step, keeping the draft
func (r *Router) handleBack(ctx context.Context, in Inbound) (Response, error) {
	sel, err := r.selections.GetSelection(ctx, in.UserID)
	if err != nil {
		return Response{}, err
	}
	if sel.Stage() == domain.StageEmpty {
		return reply(textChooseSubject, subjectsKeyboard(r.catalog)), nil
	}
	return reply(textSubjectSelected(sel.Subject), subjectSelectedKeyboard()), nil
}

func (r *Router) handleBackToPackages(ctx context.Context, in Inbound) (Response, error) {
	sel, err := r.selections.GetSelection(ctx, in.UserID)
	if err != nil {
		return Response{}, err
	}
	if sel.Stage() < domain.StageVariantChosen {
		return reply(textDraftFirst, subjectsKeyboard(r.catalog)), nil
	}
	return reply(textPackages(r.catalog, sel), packagesKeyboard(r.catalog)), nil
}

func (r *Router) handleConsultation(ctx context.Context, in Inbound) (Response, error) {
	sel, err := r.selections.GetSelection(ctx, in.UserID)
	if err != nil {
		return Response{}, err
	}

	text := textConsultation(sel, r.opts.ManagerContact)
	r.users.Record(ctx, in.UserID, domain.ActivityConsultation, in.Text, text)
	return reply(text, consultationKeyboard()), nil
}

func (r *Router) handleContactManager(ctx context.Context, in Inbound) (Response, error) {
	text := textContactManager(r.opts.ManagerContact)
	r.forward(ctx, in, domain.ActivityMenuClick, text)
	return reply(text, consultationKeyboard()), nil
}

func (r *Router) handleCart(ctx context.Context, in Inbound) (Response, error) {
	sel, err := r.selections.GetSelection(ctx, in.UserID)
	if err != nil {
		return Response{}, err
	}
	if !sel.IsComplete() {
		r.users.Record(ctx, in.UserID, domain.ActivityEmptyCart, in.Text, textEmptyCart)
		return reply(textEmptyCart, mainKeyboard()), nil
	}

	text := textCart(r.catalog, sel)
	r.users.Record(ctx, in.UserID, domain.ActivityCartView, in.Text, text)
	return reply(text, cartKeyboard()), nil
}

func (r *Router) handleCheckout(ctx context.Context, in Inbound) (Response, error) {
	order, err := r.orders.Checkout(ctx, in.User())
	if errors.Is(err, domain.ErrPrecondition) {
		return reply(textCartIncomplete, mainKeyboard()), nil
	}
	if err != nil {
		return Response{}, err
	}
	return reply(textOrderCreated(order, r.catalog), mainKeyboard()), nil
}

func (r *Router) handleClear(ctx context.Context, in Inbound) (Response, error) {
	if err := r.selections.ClearSelection(ctx, in.UserID); err != nil {
		return Response{}, err
	}
	r.users.Record(ctx, in.UserID, domain.ActivityClearChat, in.Text, textCleared)
	return reply(textCleared, mainKeyboard()), nil
}

// infoPage answers with static text and forwards the exchange to the admin
func (r *Router) infoPage(render func() string) handlerFunc {
	return func(ctx context.Context, in Inbound) (Response, error) {
		text := render()
		r.forward(ctx, in, domain.ActivityMenuClick, text)
		return reply(text, mainKeyboard()), nil
	}
}
