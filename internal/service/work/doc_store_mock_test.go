package work

import (
	"context"
	"sync"

	"github.com/heartmarshall/mog-workshop/internal/adapter/docstore"
)

var _ docStore = &docStoreMock{}

type docStoreMock struct {
	PutFunc    func(ctx context.Context, collection string, docID string, doc docstore.Document) error
	QueryFunc  func(ctx context.Context, collection string, filter docstore.Filter) ([]docstore.Document, error)
	DeleteFunc func(ctx context.Context, collection string, docID string) error

	calls struct {
		Put []struct {
			Collection string
			DocID      string
			Doc        docstore.Document
		}
		Query []struct {
			Collection string
			Filter     docstore.Filter
		}
		Delete []struct {
			Collection string
			DocID      string
		}
	}
	lockPut    sync.RWMutex
	lockQuery  sync.RWMutex
	lockDelete sync.RWMutex
}

func (mock *docStoreMock) Put(ctx context.Context, collection string, docID string, doc docstore.Document) error {
	if mock.PutFunc == nil {
		panic("docStoreMock.PutFunc: method is nil but docStore.Put was just called")
	}
	mock.lockPut.Lock()
	mock.calls.Put = append(mock.calls.Put, struct {
		Collection string
		DocID      string
		Doc        docstore.Document
	}{collection, docID, doc})
	mock.lockPut.Unlock()
	return mock.PutFunc(ctx, collection, docID, doc)
}

func (mock *docStoreMock) PutCalls() []struct {
	Collection string
	DocID      string
	Doc        docstore.Document
} {
	mock.lockPut.RLock()
	defer mock.lockPut.RUnlock()
	return mock.calls.Put
}

func (mock *docStoreMock) Query(ctx context.Context, collection string, filter docstore.Filter) ([]docstore.Document, error) {
	if mock.QueryFunc == nil {
		panic("docStoreMock.QueryFunc: method is nil but docStore.Query was just called")
	}
	mock.lockQuery.Lock()
	mock.calls.Query = append(mock.calls.Query, struct {
		Collection string
		Filter     docstore.Filter
	}{collection, filter})
	mock.lockQuery.Unlock()
	return mock.QueryFunc(ctx, collection, filter)
}

func (mock *docStoreMock) QueryCalls() []struct {
	Collection string
	Filter     docstore.Filter
} {
	mock.lockQuery.RLock()
	defer mock.lockQuery.RUnlock()
	return mock.calls.Query
}

func (mock *docStoreMock) Delete(ctx context.Context, collection string, docID string) error {
	if mock.DeleteFunc == nil {
		panic("docStoreMock.DeleteFunc: method is nil but docStore.Delete was just called")
	}
	mock.lockDelete.Lock()
	mock.calls.Delete = append(mock.calls.Delete, struct {
		Collection string
		DocID      string
	}{collection, docID})
	mock.lockDelete.Unlock()
	return mock.DeleteFunc(ctx, collection, docID)
}

func (mock *docStoreMock) DeleteCalls() []struct {
	Collection string
	DocID      string
} {
	mock.lockDelete.RLock()
	defer mock.lockDelete.RUnlock()
	return mock.calls.Delete
}
