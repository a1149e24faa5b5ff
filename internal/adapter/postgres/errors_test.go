package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/heartmarshall/mog-workshop/internal/adapter/docstore"
	"github.com/heartmarshall/mog-workshop/internal/domain"
)

func TestMapError_Nil(t *testing.T) {
	t.Parallel()

	if got := mapError(nil, "put", "work_items"); got != nil {
		t.Errorf("mapError(nil) = %v, want nil", got)
	}
}

func TestMapError_Classification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name             string
		err              error
		wantMisconfig    bool
		wantUnavailable  bool
		wantCanceledPass bool
	}{
		{
			name:          "undefined table",
			err:           &pgconn.PgError{Code: "42P01", Message: "relation does not exist"},
			wantMisconfig: true,
		},
		{
			name:          "bad password",
			err:           fmt.Errorf("connect: %w", &pgconn.PgError{Code: "28P01"}),
			wantMisconfig: true,
		},
		{
			name:            "other pg error",
			err:             &pgconn.PgError{Code: "40001"},
			wantUnavailable: true,
		},
		{
			name:            "deadline",
			err:             context.DeadlineExceeded,
			wantUnavailable: true,
		},
		{
			name:            "network",
			err:             errors.New("dial tcp: connection refused"),
			wantUnavailable: true,
		},
		{
			name:             "canceled passes through",
			err:              context.Canceled,
			wantCanceledPass: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := mapError(tt.err, "query", "work_items")
			if !errors.Is(got, tt.err) {
				t.Errorf("original error lost: %v", got)
			}
			if errors.Is(got, domain.ErrMisconfigured) != tt.wantMisconfig {
				t.Errorf("misconfigured = %v, want %v (%v)", !tt.wantMisconfig, tt.wantMisconfig, got)
			}
			if errors.Is(got, docstore.ErrUnavailable) != tt.wantUnavailable {
				t.Errorf("unavailable = %v, want %v (%v)", !tt.wantUnavailable, tt.wantUnavailable, got)
			}
			if tt.wantCanceledPass && !errors.Is(got, context.Canceled) {
				t.Errorf("context.Canceled not preserved: %v", got)
			}
		})
	}
}
