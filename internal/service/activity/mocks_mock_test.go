package activity

import (
	"context"
	"sync"

	"github.com/heartmarshall/apptracker/internal/domain"
)

var (
	_ workNoteRepo   = &workNoteRepoMock{}
	_ auditRepo      = &auditRepoMock{}
	_ nameResolver   = &nameResolverMock{}
	_ eventPublisher = &eventPublisherMock{}
)

type workNoteRepoMock struct {
	CreateFunc             func(ctx context.Context, n domain.WorkNote) (domain.WorkNote, error)
	SetVisibilityFunc      func(ctx context.Context, id int64, visible bool) error
	ListByApplicationFunc  func(ctx context.Context, applicationID int64, f domain.ActivityFilter) ([]domain.WorkNote, error)
	CountByApplicationFunc func(ctx context.Context, applicationID int64, f domain.ActivityFilter) (int, error)
	GetAttachmentFunc      func(ctx context.Context, id int64) (domain.WorkNote, error)

	calls struct {
		Create []struct {
			N domain.WorkNote
		}
		SetVisibility []struct {
			ID      int64
			Visible bool
		}
		ListByApplication []struct {
			ApplicationID int64
			F             domain.ActivityFilter
		}
		CountByApplication []struct {
			ApplicationID int64
			F             domain.ActivityFilter
		}
		GetAttachment []struct {
			ID int64
		}
	}
	lockCreate             sync.RWMutex
	lockSetVisibility      sync.RWMutex
	lockListByApplication  sync.RWMutex
	lockCountByApplication sync.RWMutex
	lockGetAttachment      sync.RWMutex
}

func (mock *workNoteRepoMock) Create(ctx context.Context, n domain.WorkNote) (domain.WorkNote, error) {
	if mock.CreateFunc == nil {
		panic("workNoteRepoMock.CreateFunc: method is nil but workNoteRepo.Create was just called")
	}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, struct{ N domain.WorkNote }{N: n})
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, n)
}

func (mock *workNoteRepoMock) CreateCalls() []struct{ N domain.WorkNote } {
	mock.lockCreate.RLock()
	defer mock.lockCreate.RUnlock()
	return mock.calls.Create
}

func (mock *workNoteRepoMock) SetVisibility(ctx context.Context, id int64, visible bool) error {
	if mock.SetVisibilityFunc == nil {
		panic("workNoteRepoMock.SetVisibilityFunc: method is nil but workNoteRepo.SetVisibility was just called")
	}
	mock.lockSetVisibility.Lock()
	mock.calls.SetVisibility = append(mock.calls.SetVisibility, struct {
		ID      int64
		Visible bool
	}{ID: id, Visible: visible})
	mock.lockSetVisibility.Unlock()
	return mock.SetVisibilityFunc(ctx, id, visible)
}

func (mock *workNoteRepoMock) SetVisibilityCalls() []struct {
	ID      int64
	Visible bool
} {
	mock.lockSetVisibility.RLock()
	defer mock.lockSetVisibility.RUnlock()
	return mock.calls.SetVisibility
}

func (mock *workNoteRepoMock) ListByApplication(ctx context.Context, applicationID int64, f domain.ActivityFilter) ([]domain.WorkNote, error) {
	if mock.ListByApplicationFunc == nil {
		panic("workNoteRepoMock.ListByApplicationFunc: method is nil but workNoteRepo.ListByApplication was just called")
	}
	mock.lockListByApplication.Lock()
	mock.calls.ListByApplication = append(mock.calls.ListByApplication, struct {
		ApplicationID int64
		F             domain.ActivityFilter
	}{ApplicationID: applicationID, F: f})
	mock.lockListByApplication.Unlock()
	return mock.ListByApplicationFunc(ctx, applicationID, f)
}

func (mock *workNoteRepoMock) ListByApplicationCalls() []struct {
	ApplicationID int64
	F             domain.ActivityFilter
} {
	mock.lockListByApplication.RLock()
	defer mock.lockListByApplication.RUnlock()
	return mock.calls.ListByApplication
}

func (mock *workNoteRepoMock) CountByApplication(ctx context.Context, applicationID int64, f domain.ActivityFilter) (int, error) {
	if mock.CountByApplicationFunc == nil {
		panic("workNoteRepoMock.CountByApplicationFunc: method is nil but workNoteRepo.CountByApplication was just called")
	}
	mock.lockCountByApplication.Lock()
	mock.calls.CountByApplication = append(mock.calls.CountByApplication, struct {
		ApplicationID int64
		F             domain.ActivityFilter
	}{ApplicationID: applicationID, F: f})
	mock.lockCountByApplication.Unlock()
	return mock.CountByApplicationFunc(ctx, applicationID, f)
}

func (mock *workNoteRepoMock) CountByApplicationCalls() []struct {
	ApplicationID int64
	F             domain.ActivityFilter
} {
	mock.lockCountByApplication.RLock()
	defer mock.lockCountByApplication.RUnlock()
	return mock.calls.CountByApplication
}

func (mock *workNoteRepoMock) GetAttachment(ctx context.Context, id int64) (domain.WorkNote, error) {
	if mock.GetAttachmentFunc == nil {
		panic("workNoteRepoMock.GetAttachmentFunc: method is nil but workNoteRepo.GetAttachment was just called")
	}
	mock.lockGetAttachment.Lock()
	mock.calls.GetAttachment = append(mock.calls.GetAttachment, struct{ ID int64 }{ID: id})
	mock.lockGetAttachment.Unlock()
	return mock.GetAttachmentFunc(ctx, id)
}

type auditRepoMock struct {
	CreateFunc        func(ctx context.Context, e domain.AuditLogEntry) (domain.AuditLogEntry, error)
	ListByRecordFunc  func(ctx context.Context, table string, recordID int64, f domain.ActivityFilter) ([]domain.AuditLogEntry, error)
	CountByRecordFunc func(ctx context.Context, table string, recordID int64, f domain.ActivityFilter) (int, error)

	calls struct {
		Create []struct {
			E domain.AuditLogEntry
		}
		ListByRecord []struct {
			Table    string
			RecordID int64
			F        domain.ActivityFilter
		}
		CountByRecord []struct {
			Table    string
			RecordID int64
			F        domain.ActivityFilter
		}
	}
	lockCreate        sync.RWMutex
	lockListByRecord  sync.RWMutex
	lockCountByRecord sync.RWMutex
}

func (mock *auditRepoMock) Create(ctx context.Context, e domain.AuditLogEntry) (domain.AuditLogEntry, error) {
	if mock.CreateFunc == nil {
		panic("auditRepoMock.CreateFunc: method is nil but auditRepo.Create was just called")
	}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, struct{ E domain.AuditLogEntry }{E: e})
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, e)
}

func (mock *auditRepoMock) CreateCalls() []struct{ E domain.AuditLogEntry } {
	mock.lockCreate.RLock()
	defer mock.lockCreate.RUnlock()
	return mock.calls.Create
}

func (mock *auditRepoMock) ListByRecord(ctx context.Context, table string, recordID int64, f domain.ActivityFilter) ([]domain.AuditLogEntry, error) {
	if mock.ListByRecordFunc == nil {
		panic("auditRepoMock.ListByRecordFunc: method is nil but auditRepo.ListByRecord was just called")
	}
	mock.lockListByRecord.Lock()
	mock.calls.ListByRecord = append(mock.calls.ListByRecord, struct {
		Table    string
		RecordID int64
		F        domain.ActivityFilter
	}{Table: table, RecordID: recordID, F: f})
	mock.lockListByRecord.Unlock()
	return mock.ListByRecordFunc(ctx, table, recordID, f)
}

func (mock *auditRepoMock) ListByRecordCalls() []struct {
	Table    string
	RecordID int64
	F        domain.ActivityFilter
} {
	mock.lockListByRecord.RLock()
	defer mock.lockListByRecord.RUnlock()
	return mock.calls.ListByRecord
}

func (mock *auditRepoMock) CountByRecord(ctx context.Context, table string, recordID int64, f domain.ActivityFilter) (int, error) {
	if mock.CountByRecordFunc == nil {
		panic("auditRepoMock.CountByRecordFunc: method is nil but auditRepo.CountByRecord was just called")
	}
	mock.lockCountByRecord.Lock()
	mock.calls.CountByRecord = append(mock.calls.CountByRecord, struct {
		Table    string
		RecordID int64
		F        domain.ActivityFilter
	}{Table: table, RecordID: recordID, F: f})
	mock.lockCountByRecord.Unlock()
	return mock.CountByRecordFunc(ctx, table, recordID, f)
}

func (mock *auditRepoMock) CountByRecordCalls() []struct {
	Table    string
	RecordID int64
	F        domain.ActivityFilter
} {
	mock.lockCountByRecord.RLock()
	defer mock.lockCountByRecord.RUnlock()
	return mock.calls.CountByRecord
}

type nameResolverMock struct {
	ResolveNamesFunc func(ctx context.Context, ids []int64) (map[int64]string, error)

	calls struct {
		ResolveNames []struct {
			IDs []int64
		}
	}
	lockResolveNames sync.RWMutex
}

func (mock *nameResolverMock) ResolveNames(ctx context.Context, ids []int64) (map[int64]string, error) {
	if mock.ResolveNamesFunc == nil {
		panic("nameResolverMock.ResolveNamesFunc: method is nil but nameResolver.ResolveNames was just called")
	}
	mock.lockResolveNames.Lock()
	mock.calls.ResolveNames = append(mock.calls.ResolveNames, struct{ IDs []int64 }{IDs: ids})
	mock.lockResolveNames.Unlock()
	return mock.ResolveNamesFunc(ctx, ids)
}

func (mock *nameResolverMock) ResolveNamesCalls() []struct{ IDs []int64 } {
	mock.lockResolveNames.RLock()
	defer mock.lockResolveNames.RUnlock()
	return mock.calls.ResolveNames
}

type eventPublisherMock struct {
	PublishFunc func(ctx context.Context, e domain.ActivityEvent) error

	calls struct {
		Publish []struct {
			E domain.ActivityEvent
		}
	}
	lockPublish sync.RWMutex
}

func (mock *eventPublisherMock) Publish(ctx context.Context, e domain.ActivityEvent) error {
	if mock.PublishFunc == nil {
		panic("eventPublisherMock.PublishFunc: method is nil but eventPublisher.Publish was just called")
	}
	mock.lockPublish.Lock()
	mock.calls.Publish = append(mock.calls.Publish, struct{ E domain.ActivityEvent }{E: e})
	mock.lockPublish.Unlock()
	return mock.PublishFunc(ctx, e)
}

func (mock *eventPublisherMock) PublishCalls() []struct{ E domain.ActivityEvent } {
	mock.lockPublish.RLock()
	defer mock.lockPublish.RUnlock()
	return mock.calls.Publish
}
