package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/deptadmin/seminar_scheduler/internal/model"
	"github.com/deptadmin/seminar_scheduler/internal/notify"
)

// memStore is an in-memory stand-in for the pgx repositories. It enforces
// the same uniqueness rules the real schema does, under one mutex, so the
// concurrency tests exercise the services against honest constraints.
type memStore struct {
	mu          sync.Mutex
	students    map[string]*model.Student
	bookings    []*model.Booking
	selections  []*model.Selection
	fines       []*model.Fine
	holidays    map[string]*model.Holiday
	reschedules []*model.RescheduleRecord

	selectionListCalls  int
	failSelectionListAt int // 1-based call number that errors; 0 = never
	failFineInsertFor   map[string]bool
}

func newMemStore() *memStore {
	return &memStore{
		students:          make(map[string]*model.Student),
		holidays:          make(map[string]*model.Holiday),
		failFineInsertFor: make(map[string]bool),
	}
}

func (m *memStore) addStudent(id, class string) *model.Student {
	m.mu.Lock()
	defer m.mu.Unlock()
	student := &model.Student{
		ID:        id,
		Name:      "Student " + id,
		Email:     id + "@dept.edu",
		ClassYear: class,
		CreatedAt: time.Now(),
	}
	m.students[id] = student
	return student
}

func (m *memStore) addBooking(studentID, date string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings = append(m.bookings, &model.Booking{
		ID:        uuid.NewString(),
		StudentID: studentID,
		Date:      date,
		CreatedAt: time.Now(),
		Student:   m.students[studentID],
	})
}

func (m *memStore) addSelection(studentID, date, class string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selections = append(m.selections, &model.Selection{
		ID:         uuid.NewString(),
		StudentID:  studentID,
		Date:       date,
		ClassYear:  class,
		SelectedAt: time.Now(),
		Student:    m.students[studentID],
	})
}

func (m *memStore) addHoliday(date, name string, affects bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.holidays[date] = &model.Holiday{
		ID:                   uuid.NewString(),
		Date:                 date,
		Name:                 name,
		AffectsPresentations: affects,
	}
}

func (m *memStore) selectionCount(date, class string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, selection := range m.selections {
		if selection.Date == date && selection.ClassYear == class {
			count++
		}
	}
	return count
}

func (m *memStore) fineCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.fines)
}

// BookingStore

func (m *memStore) ListByDate(ctx context.Context, date string) ([]*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Booking
	for _, booking := range m.bookings {
		if booking.Date == date {
			out = append(out, booking)
		}
	}
	return out, nil
}

// SelectionStore, wrapped separately so the one-method name collision with
// BookingStore.ListByDate stays out of the services' way.

type memSelections struct{ store *memStore }

func (m *memSelections) ListByDate(ctx context.Context, date string) ([]*model.Selection, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	m.store.selectionListCalls++
	if m.store.failSelectionListAt > 0 && m.store.selectionListCalls == m.store.failSelectionListAt {
		return nil, fmt.Errorf("storage unavailable")
	}
	var out []*model.Selection
	for _, selection := range m.store.selections {
		if selection.Date == date {
			out = append(out, selection)
		}
	}
	return out, nil
}

func (m *memSelections) SelectedStudentIDs(ctx context.Context) (map[string]bool, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	selected := make(map[string]bool)
	for _, selection := range m.store.selections {
		selected[selection.StudentID] = true
	}
	return selected, nil
}

func (m *memSelections) Insert(ctx context.Context, selection *model.Selection) (bool, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	for _, existing := range m.store.selections {
		if existing.StudentID == selection.StudentID {
			return false, nil
		}
		if existing.Date == selection.Date && existing.ClassYear == selection.ClassYear {
			return false, nil
		}
	}
	if selection.ID == "" {
		selection.ID = uuid.NewString()
	}
	selection.SelectedAt = time.Now()
	m.store.selections = append(m.store.selections, selection)
	return true, nil
}

func (m *memSelections) MoveDate(ctx context.Context, originalDate, newDate string) (int64, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	var moved int64
	for _, selection := range m.store.selections {
		if selection.Date == originalDate {
			selection.Date = newDate
			moved++
		}
	}
	return moved, nil
}

// FineStore

type memFines struct{ store *memStore }

func (m *memFines) InsertIgnoreDuplicate(ctx context.Context, fine *model.Fine) (bool, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	if m.store.failFineInsertFor[fine.StudentID] {
		return false, fmt.Errorf("insert rejected")
	}
	for _, existing := range m.store.fines {
		if existing.StudentID == fine.StudentID &&
			existing.FineType == fine.FineType &&
			existing.ReferenceDate == fine.ReferenceDate {
			return false, nil
		}
	}
	if fine.ID == "" {
		fine.ID = uuid.NewString()
	}
	fine.CreatedAt = time.Now()
	m.store.fines = append(m.store.fines, fine)
	return true, nil
}

func (m *memFines) FinedStudentIDs(ctx context.Context, fineType model.FineType, date string) (map[string]bool, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	fined := make(map[string]bool)
	for _, fine := range m.store.fines {
		if fine.FineType == fineType && fine.ReferenceDate == date {
			fined[fine.StudentID] = true
		}
	}
	return fined, nil
}

func (m *memFines) AdjustTotal(ctx context.Context, studentID string, delta int) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	student, ok := m.store.students[studentID]
	if !ok {
		return fmt.Errorf("student not found")
	}
	student.PendingFineTotal += delta
	return nil
}

func (m *memFines) GetByID(ctx context.Context, id string) (*model.Fine, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	for _, fine := range m.store.fines {
		if fine.ID == id {
			copied := *fine
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memFines) UpdateStatus(ctx context.Context, id string, status model.PaymentStatus) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	for _, fine := range m.store.fines {
		if fine.ID == id {
			fine.PaymentStatus = status
			return nil
		}
	}
	return fmt.Errorf("fine not found")
}

func (m *memFines) Delete(ctx context.Context, id string) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	for i, fine := range m.store.fines {
		if fine.ID == id {
			m.store.fines = append(m.store.fines[:i], m.store.fines[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("fine not found")
}

// StudentStore

type memStudents struct{ store *memStore }

func (m *memStudents) ListByClasses(ctx context.Context, classes []string) ([]*model.Student, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	tracked := make(map[string]bool, len(classes))
	for _, class := range classes {
		tracked[class] = true
	}
	var out []*model.Student
	for _, student := range m.store.students {
		if tracked[student.ClassYear] {
			out = append(out, student)
		}
	}
	return out, nil
}

// HolidayStore

type memHolidays struct{ store *memStore }

func (m *memHolidays) GetByDate(ctx context.Context, date string) (*model.Holiday, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	return m.store.holidays[date], nil
}

// RescheduleStore

type memReschedules struct{ store *memStore }

func (m *memReschedules) Create(ctx context.Context, record *model.RescheduleRecord) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	record.CreatedAt = time.Now()
	m.store.reschedules = append(m.store.reschedules, record)
	return nil
}

// recordingNotifier captures notifications; optionally fails every send.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []string
	fail bool
}

func (n *recordingNotifier) Notify(ctx context.Context, student *model.Student, msg notify.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail {
		return fmt.Errorf("delivery failed")
	}
	n.sent = append(n.sent, student.ID)
	return nil
}

// fixture wires the full service stack over one memStore.
type fixture struct {
	store     *memStore
	notifier  *recordingNotifier
	holiday   *HolidayService
	selection *SelectionService
	fines     *FineService
	pipeline  *PipelineService
}

var testClasses = []string{"year_3", "year_4"}

func newFixture(exempt ...string) *fixture {
	store := newMemStore()
	notifier := &recordingNotifier{}
	logger := zap.NewNop()

	holiday := NewHolidayService(
		&memHolidays{store}, &memSelections{store}, &memReschedules{store},
		notifier, time.Sunday, logger,
	)
	selection := NewSelectionService(store, &memSelections{store}, testClasses, logger)
	fines := NewFineService(
		&memStudents{store}, store, &memSelections{store}, &memFines{store},
		holiday, testClasses, 10, exempt, logger,
	)
	pipeline := NewPipelineService(holiday, selection, fines, notifier, time.Sunday, logger)

	return &fixture{
		store:     store,
		notifier:  notifier,
		holiday:   holiday,
		selection: selection,
		fines:     fines,
		pipeline:  pipeline,
	}
}
