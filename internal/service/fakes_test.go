package service

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/lexkit/practice-service/internal/domain"
	"github.com/lexkit/practice-service/internal/events"
	"github.com/lexkit/practice-service/internal/repository"
)

// passthroughTx runs the unit of work without any real transaction.
type passthroughTx struct{}

func (passthroughTx) WithinTransaction(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

// recordingDispatcher captures published events for assertions.
type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) ofType(eventType events.EventType) []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []events.Event
	for _, e := range d.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

// fakeCustomerRepo is an in-memory CustomerRepository honoring the
// versioned-update contract.
type fakeCustomerRepo struct {
	mu        sync.Mutex
	customers map[string]*domain.Customer
	nextID    int
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: make(map[string]*domain.Customer)}
}

func (r *fakeCustomerRepo) Create(_ context.Context, customer *domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	customer.ID = fakeID("cust", r.nextID)
	customer.Version = 1
	stored := *customer
	r.customers[customer.ID] = &stored
	return nil
}

func (r *fakeCustomerRepo) UpdateVersioned(_ context.Context, customer *domain.Customer, expectedVersion int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.customers[customer.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	if stored.Version != expectedVersion {
		return repository.ErrVersionConflict
	}
	customer.Version = expectedVersion + 1
	updated := *customer
	r.customers[customer.ID] = &updated
	return nil
}

func (r *fakeCustomerRepo) GetByID(_ context.Context, id string) (*domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.customers[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *stored
	return &copied, nil
}

func (r *fakeCustomerRepo) List(_ context.Context, filter repository.CustomerFilter) ([]domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Customer
	for _, c := range r.customers {
		if filter.AssignedTo != nil && (c.AssignedTo == nil || *c.AssignedTo != *filter.AssignedTo) {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, c.Status) {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return pageOf(out, filter.Limit, filter.Offset), nil
}

func containsStatus(statuses []domain.CustomerStatus, status domain.CustomerStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

// pageOf applies the limit/offset window the way the SQL repositories
// do, so tests exercise the same paging the live store would.
func pageOf[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return nil
		}
		items = items[offset:]
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}

// fakeHistoryRepo is an append-only log.
type fakeHistoryRepo struct {
	mu      sync.Mutex
	entries []domain.StatusHistoryEntry
	nextID  int
}

func (r *fakeHistoryRepo) Append(_ context.Context, entry *domain.StatusHistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	entry.ID = fakeID("hist", r.nextID)
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeHistoryRepo) ListByCustomer(_ context.Context, customerID string) ([]domain.StatusHistoryEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.StatusHistoryEntry
	for _, e := range r.entries {
		if e.CustomerID == customerID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeHistoryRepo) forCustomer(customerID string) []domain.StatusHistoryEntry {
	out, _ := r.ListByCustomer(context.Background(), customerID)
	return out
}

// fakeConsultantRepo serves a fixed closer roster.
type fakeConsultantRepo struct {
	consultants map[string]*domain.Consultant
}

func newFakeConsultantRepo(consultants ...*domain.Consultant) *fakeConsultantRepo {
	r := &fakeConsultantRepo{consultants: make(map[string]*domain.Consultant)}
	for _, c := range consultants {
		r.consultants[c.ID] = c
	}
	return r
}

func (r *fakeConsultantRepo) Create(_ context.Context, consultant *domain.Consultant) error {
	r.consultants[consultant.ID] = consultant
	return nil
}

func (r *fakeConsultantRepo) GetByID(_ context.Context, id string) (*domain.Consultant, error) {
	c, ok := r.consultants[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return c, nil
}

func (r *fakeConsultantRepo) GetByEmail(_ context.Context, email string) (*domain.Consultant, error) {
	for _, c := range r.consultants {
		if c.Email == email {
			return c, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeConsultantRepo) ListClosers(_ context.Context) ([]domain.Consultant, error) {
	var out []domain.Consultant
	for _, c := range r.consultants {
		if c.CanClose() {
			out = append(out, *c)
		}
	}
	return out, nil
}

// fakeCaseRepo is an in-memory CaseRepository.
type fakeCaseRepo struct {
	mu     sync.Mutex
	cases  map[string]*domain.Case
	nextID int
}

func newFakeCaseRepo() *fakeCaseRepo {
	return &fakeCaseRepo{cases: make(map[string]*domain.Case)}
}

func (r *fakeCaseRepo) Create(_ context.Context, c *domain.Case) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	c.ID = fakeID("case", r.nextID)
	stored := *c
	r.cases[c.ID] = &stored
	return nil
}

func (r *fakeCaseRepo) Update(_ context.Context, c *domain.Case) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cases[c.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *c
	r.cases[c.ID] = &stored
	return nil
}

func (r *fakeCaseRepo) GetByID(_ context.Context, id string) (*domain.Case, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.cases[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *stored
	return &copied, nil
}

func (r *fakeCaseRepo) List(_ context.Context, filter repository.CaseFilter) ([]domain.Case, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Case
	for _, c := range r.cases {
		if filter.AssignedTo != nil && (c.AssignedTo == nil || *c.AssignedTo != *filter.AssignedTo) {
			continue
		}
		if filter.CaseType != nil && c.CaseType != *filter.CaseType {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return pageOf(out, filter.Limit, filter.Offset), nil
}

// fakeCaseHistoryRepo is an append-only transition log.
type fakeCaseHistoryRepo struct {
	mu      sync.Mutex
	entries []domain.CaseHistoryEntry
	nextID  int
}

func (r *fakeCaseHistoryRepo) Append(_ context.Context, entry *domain.CaseHistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	entry.ID = fakeID("chist", r.nextID)
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeCaseHistoryRepo) ListByCase(_ context.Context, caseID string) ([]domain.CaseHistoryEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.CaseHistoryEntry
	for _, e := range r.entries {
		if e.CaseID == caseID {
			out = append(out, e)
		}
	}
	return out, nil
}

// fakeMeetingRepo is an in-memory MeetingRepository.
type fakeMeetingRepo struct {
	mu       sync.Mutex
	meetings map[string]*domain.Meeting
	nextID   int
}

func newFakeMeetingRepo() *fakeMeetingRepo {
	return &fakeMeetingRepo{meetings: make(map[string]*domain.Meeting)}
}

func (r *fakeMeetingRepo) Create(_ context.Context, m *domain.Meeting) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	m.ID = fakeID("meet", r.nextID)
	stored := *m
	r.meetings[m.ID] = &stored
	return nil
}

func (r *fakeMeetingRepo) Update(_ context.Context, m *domain.Meeting) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.meetings[m.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *m
	r.meetings[m.ID] = &stored
	return nil
}

func (r *fakeMeetingRepo) GetByID(_ context.Context, id string) (*domain.Meeting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.meetings[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *stored
	return &copied, nil
}

func (r *fakeMeetingRepo) List(_ context.Context, filter repository.MeetingFilter) ([]domain.Meeting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Meeting
	for _, m := range r.meetings {
		if filter.AssignedTo != nil && (m.AssignedTo == nil || *m.AssignedTo != *filter.AssignedTo) {
			continue
		}
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return pageOf(out, filter.Limit, filter.Offset), nil
}

// fakeNotificationRepo is an in-memory NotificationRepository.
type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications []domain.Notification
	nextID        int
}

func (r *fakeNotificationRepo) Create(_ context.Context, n *domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	n.ID = fakeID("note", r.nextID)
	r.notifications = append(r.notifications, *n)
	return nil
}

func (r *fakeNotificationRepo) List(_ context.Context) ([]domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Notification(nil), r.notifications...), nil
}

func (r *fakeNotificationRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, n := range r.notifications {
		if n.ID == id {
			r.notifications = append(r.notifications[:i], r.notifications[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

// memKV backs the dismissal cache without redis.
type memKV struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemKV() *memKV {
	return &memKV{data: make(map[string][]byte)}
}

func (m *memKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	return val, nil
}

func (m *memKV) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func fakeID(prefix string, n int) string {
	return prefix + "-" + strconv.Itoa(n)
}
