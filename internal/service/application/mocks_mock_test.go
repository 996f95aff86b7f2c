package application

import (
	"context"
	"sync"

	"github.com/heartmarshall/apptracker/internal/domain"
)

var (
	_ appRepo         = &appRepoMock{}
	_ changeLogger    = &changeLoggerMock{}
	_ nameInvalidator = &nameInvalidatorMock{}
	_ txManager       = &txManagerMock{}
)

type appRepoMock struct {
	GetByIDFunc          func(ctx context.Context, id int64) (domain.Application, error)
	GetByIDForUpdateFunc func(ctx context.Context, id int64) (domain.Application, error)
	ListFunc             func(ctx context.Context, limit, offset int) ([]domain.Application, error)
	CreateFunc           func(ctx context.Context, app domain.Application) (domain.Application, error)
	UpdateFunc           func(ctx context.Context, app domain.Application) (domain.Application, error)

	calls struct {
		List []struct {
			Limit  int
			Offset int
		}
		Create []struct {
			App domain.Application
		}
		Update []struct {
			App domain.Application
		}
	}
	lockList   sync.RWMutex
	lockCreate sync.RWMutex
	lockUpdate sync.RWMutex
}

func (mock *appRepoMock) GetByID(ctx context.Context, id int64) (domain.Application, error) {
	if mock.GetByIDFunc == nil {
		panic("appRepoMock.GetByIDFunc: method is nil but appRepo.GetByID was just called")
	}
	return mock.GetByIDFunc(ctx, id)
}

func (mock *appRepoMock) GetByIDForUpdate(ctx context.Context, id int64) (domain.Application, error) {
	if mock.GetByIDForUpdateFunc == nil {
		panic("appRepoMock.GetByIDForUpdateFunc: method is nil but appRepo.GetByIDForUpdate was just called")
	}
	return mock.GetByIDForUpdateFunc(ctx, id)
}

func (mock *appRepoMock) List(ctx context.Context, limit, offset int) ([]domain.Application, error) {
	if mock.ListFunc == nil {
		panic("appRepoMock.ListFunc: method is nil but appRepo.List was just called")
	}
	mock.lockList.Lock()
	mock.calls.List = append(mock.calls.List, struct {
		Limit  int
		Offset int
	}{limit, offset})
	mock.lockList.Unlock()
	return mock.ListFunc(ctx, limit, offset)
}

func (mock *appRepoMock) ListCalls() []struct {
	Limit  int
	Offset int
} {
	mock.lockList.RLock()
	defer mock.lockList.RUnlock()
	return mock.calls.List
}

func (mock *appRepoMock) Create(ctx context.Context, app domain.Application) (domain.Application, error) {
	if mock.CreateFunc == nil {
		panic("appRepoMock.CreateFunc: method is nil but appRepo.Create was just called")
	}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, struct{ App domain.Application }{app})
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, app)
}

func (mock *appRepoMock) CreateCalls() []struct{ App domain.Application } {
	mock.lockCreate.RLock()
	defer mock.lockCreate.RUnlock()
	return mock.calls.Create
}

func (mock *appRepoMock) Update(ctx context.Context, app domain.Application) (domain.Application, error) {
	if mock.UpdateFunc == nil {
		panic("appRepoMock.UpdateFunc: method is nil but appRepo.Update was just called")
	}
	mock.lockUpdate.Lock()
	mock.calls.Update = append(mock.calls.Update, struct{ App domain.Application }{app})
	mock.lockUpdate.Unlock()
	return mock.UpdateFunc(ctx, app)
}

func (mock *appRepoMock) UpdateCalls() []struct{ App domain.Application } {
	mock.lockUpdate.RLock()
	defer mock.lockUpdate.RUnlock()
	return mock.calls.Update
}

type changeCall struct {
	ApplicationID int64
	Field         string
	OldValue      string
	NewValue      string
	Action        domain.AuditAction
}

type changeLoggerMock struct {
	LogFieldChangeFunc  func(ctx context.Context, applicationID int64, field, oldValue, newValue string, action domain.AuditAction) (bool, error)
	DeferEventsFunc     func(ctx context.Context) context.Context
	PublishDeferredFunc func(ctx context.Context)

	calls struct {
		LogFieldChange  []changeCall
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
	mock.calls.LogFieldChange = append(mock.calls.LogFieldChange, changeCall{applicationID, field, oldValue, newValue, action})
	mock.lockLogFieldChange.Unlock()
	return mock.LogFieldChangeFunc(ctx, applicationID, field, oldValue, newValue, action)
}

func (mock *changeLoggerMock) LogFieldChangeCalls() []changeCall {
	mock.lockLogFieldChange.RLock()
	defer mock.lockLogFieldChange.RUnlock()
	return mock.calls.LogFieldChange
}

type nameInvalidatorMock struct {
	InvalidateFunc func(ctx context.Context, id int64) error

	calls struct {
		Invalidate []struct {
			ID int64
		}
	}
	lockInvalidate sync.RWMutex
}

func (mock *nameInvalidatorMock) Invalidate(ctx context.Context, id int64) error {
	if mock.InvalidateFunc == nil {
		panic("nameInvalidatorMock.InvalidateFunc: method is nil but nameInvalidator.Invalidate was just called")
	}
	mock.lockInvalidate.Lock()
	mock.calls.Invalidate = append(mock.calls.Invalidate, struct{ ID int64 }{id})
	mock.lockInvalidate.Unlock()
	return mock.InvalidateFunc(ctx, id)
}

func (mock *nameInvalidatorMock) InvalidateCalls() []struct{ ID int64 } {
	mock.lockInvalidate.RLock()
	defer mock.lockInvalidate.RUnlock()
	return mock.calls.Invalidate
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
