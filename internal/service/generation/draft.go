package generation

import (
	"context"
	"strings"

	"github.com/heartmarshall/mog-workshop/internal/adapter/llm"
	"github.com/heartmarshall/mog-workshop/internal/domain"
)

const maxFeedbackBytes = 2000

// Draft writes fresh copy for platform from the item's attributes and stores
// it as the item's latest text for that platform.
func (s *Service) Draft(ctx context.Context, clientID, workID string, platform domain.Platform) domain.Result[*domain.WorkItem] {
	if !platform.IsValid() {
		return domain.Fail[*domain.WorkItem](nil, domain.NewValidationError("platform", "unknown platform"))
	}

	got := s.works.Get(ctx, clientID, workID)
	if !got.OK() {
		return got
	}
	item := got.Value

	text, err := s.complete(ctx, "draft", llm.Request{
		System:   systemPrompt(platform),
		Messages: []llm.Message{{Role: llm.RoleUser, Text: draftPrompt(item)}},
	})
	if err != nil {
		return genFail(item, err)
	}

	return s.works.SetGenerated(ctx, clientID, workID, platform, domain.StripEmphasis(text))
}

// Refine revises the current text for platform according to feedback.
func (s *Service) Refine(ctx context.Context, clientID, workID string, platform domain.Platform, feedback string) domain.Result[*domain.WorkItem] {
	feedback = strings.TrimSpace(feedback)
	var errs []domain.FieldError
	if !platform.IsValid() {
		errs = append(errs, domain.FieldError{Field: "platform", Message: "unknown platform"})
	}
	if feedback == "" {
		errs = append(errs, domain.FieldError{Field: "feedback", Message: "required"})
	}
	if len(feedback) > maxFeedbackBytes {
		errs = append(errs, domain.FieldError{Field: "feedback", Message: "max 2000 bytes"})
	}
	if len(errs) > 0 {
		return domain.Fail[*domain.WorkItem](nil, &domain.ValidationError{Errors: errs})
	}

	got := s.works.Get(ctx, clientID, workID)
	if !got.OK() {
		return got
	}
	item := got.Value

	current := item.GeneratedTexts[platform]
	if current == "" {
		return domain.Fail(item, domain.NewValidationError("platform", "no draft to refine"))
	}

	text, err := s.complete(ctx, "refine", llm.Request{
		System:   systemPrompt(platform),
		Messages: []llm.Message{{Role: llm.RoleUser, Text: refinePrompt(current, feedback)}},
	})
	if err != nil {
		return genFail(item, err)
	}

	return s.works.SetGenerated(ctx, clientID, workID, platform, domain.StripEmphasis(text))
}
