package handover

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/heartmarshall/apptracker/internal/domain"
)

type fieldKey struct {
	section, field string
}

// memDocRepo is an in-memory documentRepo keyed like the handover tables.
type memDocRepo struct {
	mu           sync.Mutex
	nextID       int64
	docs         map[int64]domain.HandoverDocument
	fields       map[int64]map[fieldKey]string
	participants map[int64][]domain.HandoverParticipant

	upserts     int
	deletes     int
	forUpdate   int
	failUpserts error
}

func newMemDocRepo() *memDocRepo {
	return &memDocRepo{
		docs:         make(map[int64]domain.HandoverDocument),
		fields:       make(map[int64]map[fieldKey]string),
		participants: make(map[int64][]domain.HandoverParticipant),
	}
}

func (m *memDocRepo) seed(createdBy int64, steps ...int) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.docs[m.nextID] = domain.HandoverDocument{ID: m.nextID, CreatedBy: createdBy, CompletedSteps: steps}
	return m.nextID
}

func (m *memDocRepo) CreateDocument(_ context.Context, createdBy int64, applicationID *int64) (domain.HandoverDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	d := domain.HandoverDocument{ID: m.nextID, CreatedBy: createdBy, ApplicationID: applicationID, CompletedSteps: []int{}}
	m.docs[d.ID] = d
	return d, nil
}

func (m *memDocRepo) GetDocument(_ context.Context, id int64) (domain.HandoverDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.docs[id]
	if !ok {
		return domain.HandoverDocument{}, fmt.Errorf("handover_document %d: %w", id, domain.ErrNotFound)
	}
	return d, nil
}

func (m *memDocRepo) GetDocumentForUpdate(ctx context.Context, id int64) (domain.HandoverDocument, error) {
	m.mu.Lock()
	m.forUpdate++
	m.mu.Unlock()
	return m.GetDocument(ctx, id)
}

func (m *memDocRepo) ListDocuments(_ context.Context, createdBy *int64) ([]domain.HandoverDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.HandoverDocument
	for _, d := range m.docs {
		if createdBy == nil || d.CreatedBy == *createdBy {
			out = append(out, d)
		}
	}
	slices.SortFunc(out, func(a, b domain.HandoverDocument) int { return int(a.ID - b.ID) })
	return out, nil
}

func (m *memDocRepo) UpdateCompletion(_ context.Context, id int64, percentage float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d := m.docs[id]
	d.CompletionPercentage = percentage
	m.docs[id] = d
	return nil
}

func (m *memDocRepo) UpdateCompletedSteps(_ context.Context, id int64, steps []int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d := m.docs[id]
	d.CompletedSteps = steps
	m.docs[id] = d
	return nil
}

func (m *memDocRepo) UpsertField(_ context.Context, f domain.HandoverField) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failUpserts != nil {
		return m.failUpserts
	}
	if m.fields[f.DocumentID] == nil {
		m.fields[f.DocumentID] = make(map[fieldKey]string)
	}
	m.fields[f.DocumentID][fieldKey{f.SectionName, f.FieldName}] = f.Value
	m.upserts++
	return nil
}

func (m *memDocRepo) DeleteField(_ context.Context, documentID int64, section, field string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.fields[documentID], fieldKey{section, field})
	m.deletes++
	return nil
}

func (m *memDocRepo) ListFields(_ context.Context, documentID int64) ([]domain.HandoverField, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.HandoverField
	for k, v := range m.fields[documentID] {
		out = append(out, domain.HandoverField{DocumentID: documentID, SectionName: k.section, FieldName: k.field, Value: v})
	}
	return out, nil
}

func (m *memDocRepo) CountFilledSections(_ context.Context, documentID int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sections := make(map[string]struct{})
	for k := range m.fields[documentID] {
		sections[k.section] = struct{}{}
	}
	return len(sections), nil
}

func (m *memDocRepo) ReplaceParticipants(_ context.Context, documentID int64, participants []domain.HandoverParticipant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.participants[documentID] = slices.Clone(participants)
	return nil
}

func (m *memDocRepo) ListParticipants(_ context.Context, documentID int64) ([]domain.HandoverParticipant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.participants[documentID]), nil
}

func (m *memDocRepo) value(documentID int64, section, field string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.fields[documentID][fieldKey{section, field}]
	return v, ok
}

// ---------------------------------------------------------------------------
// moq-style mocks
// ---------------------------------------------------------------------------

var (
	_ txManager  = &txManagerMock{}
	_ stepLocker = &stepLockerMock{}
)

type txManagerMock struct {
	RunInTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error

	calls struct {
		RunInTx []struct {
			Fn func(ctx context.Context) error
		}
	}
	lockRunInTx sync.RWMutex
}

func (mock *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if mock.RunInTxFunc == nil {
		panic("txManagerMock.RunInTxFunc: method is nil but txManager.RunInTx was just called")
	}
	mock.lockRunInTx.Lock()
	mock.calls.RunInTx = append(mock.calls.RunInTx, struct {
		Fn func(ctx context.Context) error
	}{Fn: fn})
	mock.lockRunInTx.Unlock()
	return mock.RunInTxFunc(ctx, fn)
}

func (mock *txManagerMock) RunInTxCalls() []struct {
	Fn func(ctx context.Context) error
} {
	mock.lockRunInTx.RLock()
	defer mock.lockRunInTx.RUnlock()
	return mock.calls.RunInTx
}

type stepLockerMock struct {
	LockFunc func(ctx context.Context, key string) (func(), error)

	calls struct {
		Lock []struct {
			Key string
		}
	}
	lockLock sync.RWMutex
}

func (mock *stepLockerMock) Lock(ctx context.Context, key string) (func(), error) {
	if mock.LockFunc == nil {
		panic("stepLockerMock.LockFunc: method is nil but stepLocker.Lock was just called")
	}
	mock.lockLock.Lock()
	mock.calls.Lock = append(mock.calls.Lock, struct{ Key string }{Key: key})
	mock.lockLock.Unlock()
	return mock.LockFunc(ctx, key)
}

func (mock *stepLockerMock) LockCalls() []struct{ Key string } {
	mock.lockLock.RLock()
	defer mock.lockLock.RUnlock()
	return mock.calls.Lock
}
