package generation

import (
	"context"
	"sync"

	"github.com/heartmarshall/mog-workshop/internal/adapter/llm"
)

var _ completer = &completerMock{}

type completerMock struct {
	CompleteFunc func(ctx context.Context, req llm.Request) (string, error)

	calls struct {
		Complete []struct {
			Ctx context.Context
			Req llm.Request
		}
	}
	lockComplete sync.RWMutex
}

func (mock *completerMock) Complete(ctx context.Context, req llm.Request) (string, error) {
	if mock.CompleteFunc == nil {
		panic("completerMock.CompleteFunc: method is nil but completer.Complete was just called")
	}
	mock.lockComplete.Lock()
	mock.calls.Complete = append(mock.calls.Complete, struct {
		Ctx context.Context
		Req llm.Request
	}{ctx, req})
	mock.lockComplete.Unlock()
	return mock.CompleteFunc(ctx, req)
}

func (mock *completerMock) CompleteCalls() []struct {
	Ctx context.Context
	Req llm.Request
} {
	mock.lockComplete.RLock()
	defer mock.lockComplete.RUnlock()
	return mock.calls.Complete
}
