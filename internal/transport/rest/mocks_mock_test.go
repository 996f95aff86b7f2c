package rest

import (
	"context"
	"io"

	"github.com/heartmarshall/apptracker/internal/domain"
	"github.com/heartmarshall/apptracker/internal/service/activity"
	"github.com/heartmarshall/apptracker/internal/service/application"
	"github.com/heartmarshall/apptracker/internal/service/handover"
	"github.com/heartmarshall/apptracker/internal/service/userstory"
)

var (
	_ activityService    = &activityServiceMock{}
	_ applicationService = &applicationServiceMock{}
	_ handoverService    = &handoverServiceMock{}
	_ userStoryService   = &userStoryServiceMock{}
)

type activityServiceMock struct {
	GetActivityPageFunc       func(ctx context.Context, applicationID int64, f domain.ActivityFilter, page domain.Page) ([]domain.ActivityItem, int, error)
	ExportActivityFeedFunc    func(ctx context.Context, applicationID int64, f domain.ActivityFilter, w io.Writer) error
	AddWorkNoteFunc           func(ctx context.Context, input activity.AddWorkNoteInput) (domain.WorkNote, error)
	GetWorkNoteAttachmentFunc func(ctx context.Context, id int64) (domain.WorkNote, error)
	HideActivityFunc          func(ctx context.Context, activityType domain.ActivityType, id int64) (bool, error)
	ShowActivityFunc          func(ctx context.Context, activityType domain.ActivityType, id int64) (bool, error)
}

func (mock *activityServiceMock) GetActivityPage(ctx context.Context, applicationID int64, f domain.ActivityFilter, page domain.Page) ([]domain.ActivityItem, int, error) {
	if mock.GetActivityPageFunc == nil {
		panic("activityServiceMock.GetActivityPageFunc: method is nil but activityService.GetActivityPage was just called")
	}
	return mock.GetActivityPageFunc(ctx, applicationID, f, page)
}

func (mock *activityServiceMock) ExportActivityFeed(ctx context.Context, applicationID int64, f domain.ActivityFilter, w io.Writer) error {
	if mock.ExportActivityFeedFunc == nil {
		panic("activityServiceMock.ExportActivityFeedFunc: method is nil but activityService.ExportActivityFeed was just called")
	}
	return mock.ExportActivityFeedFunc(ctx, applicationID, f, w)
}

func (mock *activityServiceMock) AddWorkNote(ctx context.Context, input activity.AddWorkNoteInput) (domain.WorkNote, error) {
	if mock.AddWorkNoteFunc == nil {
		panic("activityServiceMock.AddWorkNoteFunc: method is nil but activityService.AddWorkNote was just called")
	}
	return mock.AddWorkNoteFunc(ctx, input)
}

func (mock *activityServiceMock) GetWorkNoteAttachment(ctx context.Context, id int64) (domain.WorkNote, error) {
	if mock.GetWorkNoteAttachmentFunc == nil {
		panic("activityServiceMock.GetWorkNoteAttachmentFunc: method is nil but activityService.GetWorkNoteAttachment was just called")
	}
	return mock.GetWorkNoteAttachmentFunc(ctx, id)
}

func (mock *activityServiceMock) HideActivity(ctx context.Context, activityType domain.ActivityType, id int64) (bool, error) {
	if mock.HideActivityFunc == nil {
		panic("activityServiceMock.HideActivityFunc: method is nil but activityService.HideActivity was just called")
	}
	return mock.HideActivityFunc(ctx, activityType, id)
}

func (mock *activityServiceMock) ShowActivity(ctx context.Context, activityType domain.ActivityType, id int64) (bool, error) {
	if mock.ShowActivityFunc == nil {
		panic("activityServiceMock.ShowActivityFunc: method is nil but activityService.ShowActivity was just called")
	}
	return mock.ShowActivityFunc(ctx, activityType, id)
}

type applicationServiceMock struct {
	GetFunc    func(ctx context.Context, id int64) (domain.Application, error)
	ListFunc   func(ctx context.Context, limit, offset int) ([]domain.Application, error)
	CreateFunc func(ctx context.Context, input application.CreateInput) (domain.Application, error)
	UpdateFunc func(ctx context.Context, input application.UpdateInput) (domain.Application, error)
}

func (mock *applicationServiceMock) Get(ctx context.Context, id int64) (domain.Application, error) {
	if mock.GetFunc == nil {
		panic("applicationServiceMock.GetFunc: method is nil but applicationService.Get was just called")
	}
	return mock.GetFunc(ctx, id)
}

func (mock *applicationServiceMock) List(ctx context.Context, limit, offset int) ([]domain.Application, error) {
	if mock.ListFunc == nil {
		panic("applicationServiceMock.ListFunc: method is nil but applicationService.List was just called")
	}
	return mock.ListFunc(ctx, limit, offset)
}

func (mock *applicationServiceMock) Create(ctx context.Context, input application.CreateInput) (domain.Application, error) {
	if mock.CreateFunc == nil {
		panic("applicationServiceMock.CreateFunc: method is nil but applicationService.Create was just called")
	}
	return mock.CreateFunc(ctx, input)
}

func (mock *applicationServiceMock) Update(ctx context.Context, input application.UpdateInput) (domain.Application, error) {
	if mock.UpdateFunc == nil {
		panic("applicationServiceMock.UpdateFunc: method is nil but applicationService.Update was just called")
	}
	return mock.UpdateFunc(ctx, input)
}

type handoverServiceMock struct {
	CreateDocumentFunc func(ctx context.Context, input handover.CreateDocumentInput) (domain.HandoverDocument, error)
	GetDocumentFunc    func(ctx context.Context, id int64) (handover.DocumentView, error)
	ListDocumentsFunc  func(ctx context.Context) ([]domain.HandoverDocument, error)
	SaveSectionFunc    func(ctx context.Context, input handover.SaveSectionInput) (handover.SaveSectionResult, error)
	ToggleStepFunc     func(ctx context.Context, input handover.ToggleStepInput) ([]int, error)
}

func (mock *handoverServiceMock) CreateDocument(ctx context.Context, input handover.CreateDocumentInput) (domain.HandoverDocument, error) {
	if mock.CreateDocumentFunc == nil {
		panic("handoverServiceMock.CreateDocumentFunc: method is nil but handoverService.CreateDocument was just called")
	}
	return mock.CreateDocumentFunc(ctx, input)
}

func (mock *handoverServiceMock) GetDocument(ctx context.Context, id int64) (handover.DocumentView, error) {
	if mock.GetDocumentFunc == nil {
		panic("handoverServiceMock.GetDocumentFunc: method is nil but handoverService.GetDocument was just called")
	}
	return mock.GetDocumentFunc(ctx, id)
}

func (mock *handoverServiceMock) ListDocuments(ctx context.Context) ([]domain.HandoverDocument, error) {
	if mock.ListDocumentsFunc == nil {
		panic("handoverServiceMock.ListDocumentsFunc: method is nil but handoverService.ListDocuments was just called")
	}
	return mock.ListDocumentsFunc(ctx)
}

func (mock *handoverServiceMock) SaveSection(ctx context.Context, input handover.SaveSectionInput) (handover.SaveSectionResult, error) {
	if mock.SaveSectionFunc == nil {
		panic("handoverServiceMock.SaveSectionFunc: method is nil but handoverService.SaveSection was just called")
	}
	return mock.SaveSectionFunc(ctx, input)
}

func (mock *handoverServiceMock) ToggleStep(ctx context.Context, input handover.ToggleStepInput) ([]int, error) {
	if mock.ToggleStepFunc == nil {
		panic("handoverServiceMock.ToggleStepFunc: method is nil but handoverService.ToggleStep was just called")
	}
	return mock.ToggleStepFunc(ctx, input)
}

type userStoryServiceMock struct {
	CreateFunc func(ctx context.Context, input userstory.CreateInput) (domain.UserStory, error)
	GetFunc    func(ctx context.Context, id int64) (domain.UserStory, error)
	ListFunc   func(ctx context.Context, f domain.UserStoryFilter) ([]domain.UserStory, error)
	UpdateFunc func(ctx context.Context, input userstory.UpdateInput) (domain.UserStory, error)
	DeleteFunc func(ctx context.Context, id int64) error
	StatsFunc  func(ctx context.Context, applicationID *int64) (domain.UserStoryStats, error)
}

func (mock *userStoryServiceMock) Create(ctx context.Context, input userstory.CreateInput) (domain.UserStory, error) {
	if mock.CreateFunc == nil {
		panic("userStoryServiceMock.CreateFunc: method is nil but userStoryService.Create was just called")
	}
	return mock.CreateFunc(ctx, input)
}

func (mock *userStoryServiceMock) Get(ctx context.Context, id int64) (domain.UserStory, error) {
	if mock.GetFunc == nil {
		panic("userStoryServiceMock.GetFunc: method is nil but userStoryService.Get was just called")
	}
	return mock.GetFunc(ctx, id)
}

func (mock *userStoryServiceMock) List(ctx context.Context, f domain.UserStoryFilter) ([]domain.UserStory, error) {
	if mock.ListFunc == nil {
		panic("userStoryServiceMock.ListFunc: method is nil but userStoryService.List was just called")
	}
	return mock.ListFunc(ctx, f)
}

func (mock *userStoryServiceMock) Update(ctx context.Context, input userstory.UpdateInput) (domain.UserStory, error) {
	if mock.UpdateFunc == nil {
		panic("userStoryServiceMock.UpdateFunc: method is nil but userStoryService.Update was just called")
	}
	return mock.UpdateFunc(ctx, input)
}

func (mock *userStoryServiceMock) Delete(ctx context.Context, id int64) error {
	if mock.DeleteFunc == nil {
		panic("userStoryServiceMock.DeleteFunc: method is nil but userStoryService.Delete was just called")
	}
	return mock.DeleteFunc(ctx, id)
}

func (mock *userStoryServiceMock) Stats(ctx context.Context, applicationID *int64) (domain.UserStoryStats, error) {
	if mock.StatsFunc == nil {
		panic("userStoryServiceMock.StatsFunc: method is nil but userStoryService.Stats was just called")
	}
	return mock.StatsFunc(ctx, applicationID)
}
