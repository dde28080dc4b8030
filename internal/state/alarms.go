package state

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/JokerTrickster/weather-alarm/internal/domain"
	"github.com/JokerTrickster/weather-alarm/internal/observability"
)

var (
	// ErrOperationInProgress rejects a mutation while another is in flight.
	ErrOperationInProgress = errors.New(domain.MsgOperationInProgress)

	// ErrMaxAlarms rejects a create when the local list is at capacity.
	ErrMaxAlarms = errors.New(domain.MsgMaxAlarmsReached)

	errNotHydrated = errors.New("session has not hydrated yet")
)

// AlarmService is the slice of the alarms service the context depends on.
type AlarmService interface {
	List(ctx context.Context) ([]domain.Alarm, error)
	Create(ctx context.Context, req domain.CreateAlarmRequest) (domain.Alarm, error)
	Update(ctx context.Context, req domain.UpdateAlarmRequest) (domain.Alarm, error)
	Delete(ctx context.Context, id string) error
	Toggle(ctx context.Context, id string, enabled bool) (domain.Alarm, error)
}

// Alarms holds the current user's alarm list. The list is the single source
// of truth after each successful round-trip: the server's response is
// applied verbatim and nothing is changed optimistically.
//
// Mutations (Create, Update, Delete, Toggle) are single-flight: while one is
// in flight, another fails immediately with ErrOperationInProgress and makes
// no network request. Fetch is deliberately outside that guard (it can run
// alongside a mutation; both paths only ever install server responses, and
// the mutex below keeps the list itself consistent).
type Alarms struct {
	svc     AlarmService
	metrics *observability.Metrics
	logger  *slog.Logger

	inFlight atomic.Bool

	mu      sync.RWMutex
	alarms  []domain.Alarm
	loading bool
	lastErr error
}

// NewAlarms creates an empty alarms context.
func NewAlarms(svc AlarmService, metrics *observability.Metrics, logger *slog.Logger) *Alarms {
	return &Alarms{svc: svc, metrics: metrics, logger: logger}
}

// Fetch replaces the local list with the server's list. On failure the
// prior list is left untouched and the error is recorded; the loading flag
// clears on every path.
func (a *Alarms) Fetch(ctx context.Context) error {
	a.mu.Lock()
	a.loading = true
	a.lastErr = nil
	a.mu.Unlock()

	list, err := a.svc.List(ctx)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.loading = false
	if err != nil {
		a.lastErr = err
		a.logger.Warn("fetch alarms failed", "error", err)
		return err
	}
	a.alarms = list
	a.metrics.AlarmCount.Set(float64(len(a.alarms)))
	return nil
}

// Create registers a new alarm and appends the server's record. At capacity
// it rejects with ErrMaxAlarms before any network traffic; the server
// enforces the quota authoritatively as well.
func (a *Alarms) Create(ctx context.Context, req domain.CreateAlarmRequest) (domain.Alarm, error) {
	release, err := a.acquire()
	if err != nil {
		return domain.Alarm{}, err
	}
	defer release()

	a.mu.RLock()
	atCapacity := len(a.alarms) >= domain.MaxAlarms
	a.mu.RUnlock()
	if atCapacity {
		return domain.Alarm{}, ErrMaxAlarms
	}

	alarm, err := a.svc.Create(ctx, req)
	if err != nil {
		return domain.Alarm{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.alarms = append(a.alarms, alarm)
	a.metrics.AlarmCount.Set(float64(len(a.alarms)))
	return alarm, nil
}

// Update applies a partial update and replaces the matching entry with the
// server's record.
func (a *Alarms) Update(ctx context.Context, req domain.UpdateAlarmRequest) (domain.Alarm, error) {
	release, err := a.acquire()
	if err != nil {
		return domain.Alarm{}, err
	}
	defer release()

	alarm, err := a.svc.Update(ctx, req)
	if err != nil {
		return domain.Alarm{}, err
	}

	a.replace(alarm)
	return alarm, nil
}

// Delete removes the alarm with the given id from the backend and then from
// the local list.
func (a *Alarms) Delete(ctx context.Context, id string) error {
	release, err := a.acquire()
	if err != nil {
		return err
	}
	defer release()

	if err := a.svc.Delete(ctx, id); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	kept := a.alarms[:0]
	for _, alarm := range a.alarms {
		if alarm.ID != id {
			kept = append(kept, alarm)
		}
	}
	a.alarms = kept
	a.metrics.AlarmCount.Set(float64(len(a.alarms)))
	return nil
}

// Toggle flips the enabled flag and replaces the matching entry with the
// server's record.
func (a *Alarms) Toggle(ctx context.Context, id string, enabled bool) (domain.Alarm, error) {
	release, err := a.acquire()
	if err != nil {
		return domain.Alarm{}, err
	}
	defer release()

	alarm, err := a.svc.Toggle(ctx, id, enabled)
	if err != nil {
		return domain.Alarm{}, err
	}

	a.replace(alarm)
	return alarm, nil
}

// Alarms returns a copy of the local list.
func (a *Alarms) Alarms() []domain.Alarm {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]domain.Alarm, len(a.alarms))
	copy(out, a.alarms)
	return out
}

// IsLoading reports whether a Fetch is in progress.
func (a *Alarms) IsLoading() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.loading
}

// Err returns the error recorded by the last Fetch, or nil.
func (a *Alarms) Err() error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.lastErr
}

// OperationInFlight reports whether a mutation currently holds the guard.
func (a *Alarms) OperationInFlight() bool {
	return a.inFlight.Load()
}

// acquire takes the single-flight guard. The returned release runs in a
// defer on every exit path, so a failed mutation can never leave the
// context locked out.
func (a *Alarms) acquire() (release func(), err error) {
	if !a.inFlight.CompareAndSwap(false, true) {
		a.metrics.MutationConflicts.Inc()
		return nil, ErrOperationInProgress
	}
	return func() { a.inFlight.Store(false) }, nil
}

// replace swaps in the server's record for the entry with the same id.
// An id the list no longer holds is ignored; the next Fetch reconciles.
func (a *Alarms) replace(alarm domain.Alarm) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := range a.alarms {
		if a.alarms[i].ID == alarm.ID {
			a.alarms[i] = alarm
			return
		}
	}
}
