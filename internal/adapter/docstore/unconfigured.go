package docstore

import (
	"context"
	"fmt"
)

// Unconfigured is a Store for a deployment without store credentials.
// Every call fails with ErrMisconfigured.
type Unconfigured struct {
	Reason string
}

func (u Unconfigured) err() error {
	return fmt.Errorf("%w: %s", ErrMisconfigured, u.Reason)
}

func (u Unconfigured) Put(context.Context, string, string, Document) error { return u.err() }

func (u Unconfigured) Query(context.Context, string, Filter) ([]Document, error) {
	return nil, u.err()
}

func (u Unconfigured) Delete(context.Context, string, string) error { return u.err() }

func (u Unconfigured) Ping(context.Context) error { return u.err() }

func (u Unconfigured) Close() error { return nil }
