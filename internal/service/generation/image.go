package generation

import (
	"context"
	"strings"

	"github.com/heartmarshall/mog-workshop/internal/adapter/llm"
	"github.com/heartmarshall/mog-workshop/internal/domain"
)

// MaxImageBytes bounds uploaded photos.
const MaxImageBytes = 8 << 20

var imageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// AnalyzeImage describes a product photo and stores the description in the
// item's image_analysis attribute, where later drafts pick it up.
func (s *Service) AnalyzeImage(ctx context.Context, clientID, workID string, data []byte, mimeType string) domain.Result[*domain.WorkItem] {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	var errs []domain.FieldError
	if len(data) == 0 {
		errs = append(errs, domain.FieldError{Field: "image", Message: "required"})
	}
	if len(data) > MaxImageBytes {
		errs = append(errs, domain.FieldError{Field: "image", Message: "max 8 MiB"})
	}
	if !imageTypes[mimeType] {
		errs = append(errs, domain.FieldError{Field: "image", Message: "unsupported image type"})
	}
	if len(errs) > 0 {
		return domain.Fail[*domain.WorkItem](nil, &domain.ValidationError{Errors: errs})
	}

	got := s.works.Get(ctx, clientID, workID)
	if !got.OK() {
		return got
	}

	text, err := s.complete(ctx, "analyze_image", llm.Request{
		Messages: []llm.Message{{Role: llm.RoleUser, Text: imagePrompt}},
		Image:    &llm.Image{Data: data, MIMEType: mimeType},
	})
	if err != nil {
		return genFail(got.Value, err)
	}

	return s.works.SetField(ctx, clientID, workID, domain.FieldImageAnalysis, strings.TrimSpace(text))
}
