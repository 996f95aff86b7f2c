package userstory

import (
	"context"
	"sync"

	"github.com/heartmarshall/apptracker/internal/domain"
)

var (
	_ storyRepo    = &storyRepoMock{}
	_ changeLogger = &changeLoggerMock{}
	_ txManager    = &txManagerMock{}
)

type storyRepoMock struct {
	CreateFunc           func(ctx context.Context, s domain.UserStory) (domain.UserStory, error)
	GetByIDFunc          func(ctx context.Context, id int64) (domain.UserStory, error)
	GetByIDForUpdateFunc func(ctx context.Context, id int64) (domain.UserStory, error)
	ListFunc             func(ctx context.Context, f domain.UserStoryFilter) ([]domain.UserStory, error)
	UpdateFunc           func(ctx context.Context, s domain.UserStory) (domain.UserStory, error)
	DeleteFunc           func(ctx context.Context, id int64) error
	AggregateFunc        func(ctx context.Context, applicationID *int64) ([]domain.UserStoryAggregate, error)

	calls struct {
		Create []struct {
			S domain.UserStory
		}
		List []struct {
			F domain.UserStoryFilter
		}
		Update []struct {
			S domain.UserStory
		}
		Delete []struct {
			ID int64
		}
	}
	lockCreate sync.RWMutex
	lockList   sync.RWMutex
	lockUpdate sync.RWMutex
	lockDelete sync.RWMutex
}

func (mock *storyRepoMock) Create(ctx context.Context, s domain.UserStory) (domain.UserStory, error) {
	if mock.CreateFunc == nil {
		panic("storyRepoMock.CreateFunc: method is nil but storyRepo.Create was just called")
	}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, struct{ S domain.UserStory }{S: s})
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, s)
}

func (mock *storyRepoMock) CreateCalls() []struct{ S domain.UserStory } {
	mock.lockCreate.RLock()
	defer mock.lockCreate.RUnlock()
	return mock.calls.Create
}

func (mock *storyRepoMock) GetByID(ctx context.Context, id int64) (domain.UserStory, error) {
	if mock.GetByIDFunc == nil {
		panic("storyRepoMock.GetByIDFunc: method is nil but storyRepo.GetByID was just called")
	}
	return mock.GetByIDFunc(ctx, id)
}

func (mock *storyRepoMock) GetByIDForUpdate(ctx context.Context, id int64) (domain.UserStory, error) {
	if mock.GetByIDForUpdateFunc == nil {
		panic("storyRepoMock.GetByIDForUpdateFunc: method is nil but storyRepo.GetByIDForUpdate was just called")
	}
	return mock.GetByIDForUpdateFunc(ctx, id)
}

func (mock *storyRepoMock) List(ctx context.Context, f domain.UserStoryFilter) ([]domain.UserStory, error) {
	if mock.ListFunc == nil {
		panic("storyRepoMock.ListFunc: method is nil but storyRepo.List was just called")
	}
	mock.lockList.Lock()
	mock.calls.List = append(mock.calls.List, struct{ F domain.UserStoryFilter }{F: f})
	mock.lockList.Unlock()
	return mock.ListFunc(ctx, f)
}

func (mock *storyRepoMock) ListCalls() []struct{ F domain.UserStoryFilter } {
	mock.lockList.RLock()
	defer mock.lockList.RUnlock()
	return mock.calls.List
}

func (mock *storyRepoMock) Update(ctx context.Context, s domain.UserStory) (domain.UserStory, error) {
	if mock.UpdateFunc == nil {
		panic("storyRepoMock.UpdateFunc: method is nil but storyRepo.Update was just called")
	}
	mock.lockUpdate.Lock()
	mock.calls.Update = append(mock.calls.Update, struct{ S domain.UserStory }{S: s})
	mock.lockUpdate.Unlock()
	return mock.UpdateFunc(ctx, s)
}

func (mock *storyRepoMock) UpdateCalls() []struct{ S domain.UserStory } {
	mock.lockUpdate.RLock()
	defer mock.lockUpdate.RUnlock()
	return mock.calls.Update
}

func (mock *storyRepoMock) Delete(ctx context.Context, id int64) error {
	if mock.DeleteFunc == nil {
		panic("storyRepoMock.DeleteFunc: method is nil but storyRepo.Delete was just called")
	}
	mock.lockDelete.Lock()
	mock.calls.Delete = append(mock.calls.Delete, struct{ ID int64 }{ID: id})
	mock.lockDelete.Unlock()
	return mock.DeleteFunc(ctx, id)
}

func (mock *storyRepoMock) DeleteCalls() []struct{ ID int64 } {
	mock.lockDelete.RLock()
	defer mock.lockDelete.RUnlock()
	return mock.calls.Delete
}

func (mock *storyRepoMock) Aggregate(ctx context.Context, applicationID *int64) ([]domain.UserStoryAggregate, error) {
	if mock.AggregateFunc == nil {
		panic("storyRepoMock.AggregateFunc: method is nil but storyRepo.Aggregate was just called")
	}
	return mock.AggregateFunc(ctx, applicationID)
}

type changeLoggerMock struct {
	LogFieldChangeFunc  func(ctx context.Context, applicationID int64, field, oldValue, newValue string, action domain.AuditAction) (bool, error)
	DeferEventsFunc     func(ctx context.Context) context.Context
	PublishDeferredFunc func(ctx context.Context)

	calls struct {
		LogFieldChange []struct {
			ApplicationID int64
			Field         string
			OldValue      string
			NewValue      string
			Action        domain.AuditAction
		}
		PublishDeferred []struct {
			Ctx context.Context
		}
	}
	lockLogFieldChange  sync.RWMutex
	lockPublishDeferred sync.RWMutex
}

func (mock *changeLoggerMock) LogFieldChange(ctx context.Context, applicationID int64, field, oldValue, newValue string, action domain.AuditAction) (bool, error) {
	if mock.LogFieldChangeFunc == nil {
		panic("changeLoggerMock.LogFieldChangeFunc: method is nil but changeLogger.LogFieldChange was just called")
	}
	mock.lockLogFieldChange.Lock()
	mock.calls.LogFieldChange = append(mock.calls.LogFieldChange, struct {
		ApplicationID int64
		Field         string
		OldValue      string
		NewValue      string
		Action        domain.AuditAction
	}{applicationID, field, oldValue, newValue, action})
	mock.lockLogFieldChange.Unlock()
	return mock.LogFieldChangeFunc(ctx, applicationID, field, oldValue, newValue, action)
}

func (mock *changeLoggerMock) LogFieldChangeCalls() []struct {
	ApplicationID int64
	Field         string
	OldValue      string
	NewValue      string
	Action        domain.AuditAction
} {
	mock.lockLogFieldChange.RLock()
	defer mock.lockLogFieldChange.RUnlock()
	return mock.calls.LogFieldChange
}

type txManagerMock struct {
	RunInTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (mock *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if mock.RunInTxFunc == nil {
		panic("txManagerMock.RunInTxFunc: method is nil but txManager.RunInTx was just called")
	}
	return mock.RunInTxFunc(ctx, fn)
}

func (mock *changeLoggerMock) DeferEvents(ctx context.Context) context.Context {
	if mock.DeferEventsFunc == nil {
		panic("changeLoggerMock.DeferEventsFunc: method is nil but changeLogger.DeferEvents was just called")
	}
	return mock.DeferEventsFunc(ctx)
}

func (mock *changeLoggerMock) PublishDeferred(ctx context.Context) {
	if mock.PublishDeferredFunc == nil {
		panic("changeLoggerMock.PublishDeferredFunc: method is nil but changeLogger.PublishDeferred was just called")
	}
	mock.lockPublishDeferred.Lock()
	mock.calls.PublishDeferred = append(mock.calls.PublishDeferred, struct {
		Ctx context.Context
	}{ctx})
	mock.lockPublishDeferred.Unlock()
	mock.PublishDeferredFunc(ctx)
}

func (mock *changeLoggerMock) PublishDeferredCalls() []struct {
	Ctx context.Context
} {
	mock.lockPublishDeferred.RLock()
	defer mock.lockPublishDeferred.RUnlock()
	return mock.calls.PublishDeferred
}
