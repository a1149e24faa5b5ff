package work

import (
	"fmt"
	"strings"

	"github.com/heartmarshall/mog-workshop/internal/domain"
)

const (
	MaxFields         = 64
	MaxFieldKeyBytes  = 64
	MaxFieldValBytes  = 4000
	MaxGeneratedBytes = 20000
)

// normalizeFields validates fields and returns a copy with normalized keys.
func normalizeFields(fields map[string]string) (map[string]string, error) {
	var errs []domain.FieldError

	if len(fields) > MaxFields {
		errs = append(errs, domain.FieldError{Field: "fields", Message: fmt.Sprintf("max %d fields", MaxFields)})
	}

	out := make(map[string]string, len(fields))
	for k, v := range fields {
		key := domain.NormalizeKey(k)
		switch {
		case key == "":
			errs = append(errs, domain.FieldError{Field: "fields", Message: "empty field name"})
			continue
		case len(key) > MaxFieldKeyBytes:
			errs = append(errs, domain.FieldError{Field: "fields." + key[:MaxFieldKeyBytes], Message: fmt.Sprintf("name max %d bytes", MaxFieldKeyBytes)})
			continue
		case len(v) > MaxFieldValBytes:
			errs = append(errs, domain.FieldError{Field: "fields." + key, Message: fmt.Sprintf("max %d bytes", MaxFieldValBytes)})
			continue
		}
		out[key] = strings.TrimSpace(v)
	}

	if len(errs) > 0 {
		return nil, &domain.ValidationError{Errors: errs}
	}
	return out, nil
}

func validateOwner(clientID, workID string) error {
	if clientID == "" {
		return domain.ErrIdentityUnresolved
	}
	if strings.TrimSpace(workID) == "" {
		return domain.NewValidationError("work_id", "required")
	}
	return nil
}
