package appointment

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/hyperlocal-booking/internal/audit"
	domain "github.com/BruksfildServices01/hyperlocal-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/infra/repository"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/metrics"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/notify"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/testutil"
)

var fixedNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

var admin = domain.Actor{ID: uuid.New(), Role: domain.RoleAdmin}

type recordingAuditor struct {
	mu     sync.Mutex
	events []audit.Event
}

func (a *recordingAuditor) Dispatch(ev audit.Event) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, ev)
}

func (a *recordingAuditor) actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.events))
	for _, ev := range a.events {
		out = append(out, ev.Action)
	}
	return out
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notify.Notification
}

func (n *recordingNotifier) Notify(msg notify.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
}

func (n *recordingNotifier) titles() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.sent))
	for _, msg := range n.sent {
		out = append(out, msg.Title)
	}
	return out
}

type fixture struct {
	db       *gorm.DB
	repo     *repository.AppointmentGormRepository
	audit    *recordingAuditor
	notifier *recordingNotifier
	metrics  *metrics.Metrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	return &fixture{
		db:       db,
		repo:     repository.NewAppointmentGormRepository(db),
		audit:    &recordingAuditor{},
		notifier: &recordingNotifier{},
		metrics:  metrics.New(prometheus.NewRegistry()),
	}
}

func (f *fixture) book() *BookAppointment {
	return NewBookAppointment(f.repo, f.audit, f.notifier, f.metrics,
		SearchRadius{DefaultKm: 5, MaxKm: 50}).WithClock(func() time.Time { return fixedNow })
}

func (f *fixture) assign() *AssignBarber {
	return NewAssignBarber(f.repo, f.audit, f.notifier, f.metrics).
		WithClock(func() time.Time { return fixedNow })
}

func (f *fixture) changeStatus(releaseOnCancel bool) *ChangeStatus {
	return NewChangeStatus(f.repo, f.audit, f.notifier, f.metrics, releaseOnCancel).
		WithClock(func() time.Time { return fixedNow.Add(time.Hour) })
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ptr[T any](v T) *T { return &v }
