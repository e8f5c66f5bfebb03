package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/domain/interval"
	"github.com/BruksfildServices01/booking-engine/internal/models"
)

// MemoryRepository keeps everything in process. Transactions are serialized
// against each other and roll back by restoring a snapshot.
type MemoryRepository struct {
	st   *memStore
	inTx bool
}

type memStore struct {
	txMu sync.Mutex
	mu   sync.RWMutex

	tenants       map[uuid.UUID]models.Tenant
	staff         map[uuid.UUID]models.Staff
	services      map[uuid.UUID]models.Service
	businessHours []models.BusinessHours
	availability  []models.StaffAvailability
	appointments  map[uuid.UUID]models.Appointment
	holds         map[uuid.UUID]models.AppointmentHold
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{st: &memStore{
		tenants:      map[uuid.UUID]models.Tenant{},
		staff:        map[uuid.UUID]models.Staff{},
		services:     map[uuid.UUID]models.Service{},
		appointments: map[uuid.UUID]models.Appointment{},
		holds:        map[uuid.UUID]models.AppointmentHold{},
	}}
}

// --------------------------------------------------
// Seeding
// --------------------------------------------------

func (r *MemoryRepository) AddTenant(t models.Tenant) models.Tenant {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	r.st.tenants[t.ID] = t
	return t
}

func (r *MemoryRepository) AddStaff(s models.Staff) models.Staff {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.mutate(func(st *memStore) { st.staff[s.ID] = s })
	return s
}

func (r *MemoryRepository) AddService(s models.Service) models.Service {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	r.st.services[s.ID] = s
	return s
}

func (r *MemoryRepository) AddBusinessHours(rows ...models.BusinessHours) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	r.st.businessHours = append(r.st.businessHours, rows...)
}

func (r *MemoryRepository) AddStaffAvailability(rows ...models.StaffAvailability) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	r.st.availability = append(r.st.availability, rows...)
}

// --------------------------------------------------
// Tenant / Staff / Service
// --------------------------------------------------

func (r *MemoryRepository) GetTenant(_ context.Context, tenantID uuid.UUID) (*models.Tenant, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()

	t, ok := r.st.tenants[tenantID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &t, nil
}

func (r *MemoryRepository) GetStaff(_ context.Context, tenantID, staffID uuid.UUID) (*models.Staff, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()

	s, ok := r.st.staff[staffID]
	if !ok || s.TenantID != tenantID {
		return nil, domain.ErrNotFound
	}
	return &s, nil
}

func (r *MemoryRepository) UpdateStaffOverride(_ context.Context, tenantID, staffID uuid.UUID, doc string) error {
	err := domain.ErrNotFound
	r.mutate(func(st *memStore) {
		s, ok := st.staff[staffID]
		if !ok || s.TenantID != tenantID {
			return
		}
		s.SettingsOverride = doc
		s.UpdatedAt = time.Now().UTC()
		st.staff[staffID] = s
		err = nil
	})
	return err
}

func (r *MemoryRepository) ListActiveStaff(_ context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]models.Staff, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()

	want := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}

	var out []models.Staff
	for _, s := range r.st.staff {
		if s.TenantID != tenantID || !s.Active {
			continue
		}
		if len(want) > 0 && !want[s.ID] {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DisplayName != out[j].DisplayName {
			return out[i].DisplayName < out[j].DisplayName
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (r *MemoryRepository) GetService(_ context.Context, tenantID, serviceID uuid.UUID) (*models.Service, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()

	s, ok := r.st.services[serviceID]
	if !ok || s.TenantID != tenantID {
		return nil, domain.ErrNotFound
	}
	return &s, nil
}

// --------------------------------------------------
// Hours
// --------------------------------------------------

func (r *MemoryRepository) ListBusinessHours(_ context.Context, tenantID uuid.UUID, weekday int) ([]models.BusinessHours, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()

	var out []models.BusinessHours
	for _, bh := range r.st.businessHours {
		if bh.TenantID == tenantID && bh.Weekday == weekday {
			out = append(out, bh)
		}
	}
	return out, nil
}

func (r *MemoryRepository) ListStaffAvailability(_ context.Context, tenantID, staffID uuid.UUID, weekday int) ([]models.StaffAvailability, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()

	var out []models.StaffAvailability
	for _, a := range r.st.availability {
		if a.TenantID == tenantID && a.StaffID == staffID && a.Weekday == weekday {
			out = append(out, a)
		}
	}
	return out, nil
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *MemoryRepository) ListBusyAppointments(
	_ context.Context,
	tenantID uuid.UUID,
	staffID uuid.UUID,
	rng interval.Range,
	excludeID *uuid.UUID,
) ([]models.Appointment, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()

	var out []models.Appointment
	for _, ap := range r.st.appointments {
		if ap.TenantID != tenantID || ap.StaffID != staffID {
			continue
		}
		if !domain.Status(ap.Status).BlocksTime() {
			continue
		}
		if excludeID != nil && ap.ID == *excludeID {
			continue
		}
		if domain.Span(ap).Overlaps(rng) {
			out = append(out, ap)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartUtc.Before(out[j].StartUtc) })
	return out, nil
}

func (r *MemoryRepository) GetAppointment(_ context.Context, tenantID, appointmentID uuid.UUID) (*models.Appointment, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()

	ap, ok := r.st.appointments[appointmentID]
	if !ok || ap.TenantID != tenantID {
		return nil, domain.ErrNotFound
	}
	return &ap, nil
}

func (r *MemoryRepository) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	if ap.ID == uuid.Nil {
		ap.ID = uuid.New()
	}
	if ap.CreatedAt.IsZero() {
		ap.CreatedAt = time.Now().UTC()
	}

	r.mutate(func(st *memStore) {
		st.appointments[ap.ID] = *ap
	})
	return nil
}

func (r *MemoryRepository) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	var err error
	r.mutate(func(st *memStore) {
		if _, ok := st.appointments[ap.ID]; !ok {
			err = domain.ErrNotFound
			return
		}
		st.appointments[ap.ID] = *ap
	})
	return err
}

// --------------------------------------------------
// Hold
// --------------------------------------------------

func (r *MemoryRepository) ListLiveHolds(
	_ context.Context,
	tenantID uuid.UUID,
	staffID uuid.UUID,
	rng interval.Range,
	now time.Time,
) ([]models.AppointmentHold, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()

	var out []models.AppointmentHold
	for _, h := range r.st.holds {
		if h.TenantID != tenantID || h.StaffID != staffID || !domain.IsLive(h, now) {
			continue
		}
		if domain.HoldSpan(h).Overlaps(rng) {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartUtc.Before(out[j].StartUtc) })
	return out, nil
}

func (r *MemoryRepository) GetLiveHold(_ context.Context, tenantID uuid.UUID, token string, now time.Time) (*models.AppointmentHold, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()

	for _, h := range r.st.holds {
		if h.TenantID == tenantID && h.Token == token && domain.IsLive(h, now) {
			return &h, nil
		}
	}
	return nil, domain.ErrHoldInvalidOrExpired
}

func (r *MemoryRepository) CreateHold(_ context.Context, h *models.AppointmentHold) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	if h.CreatedAt.IsZero() {
		h.CreatedAt = time.Now().UTC()
	}

	r.mutate(func(st *memStore) {
		st.holds[h.ID] = *h
	})
	return nil
}

func (r *MemoryRepository) DeleteHold(_ context.Context, tenantID uuid.UUID, token string) (bool, error) {
	deleted := false
	r.mutate(func(st *memStore) {
		for id, h := range st.holds {
			if h.TenantID == tenantID && h.Token == token {
				delete(st.holds, id)
				deleted = true
				return
			}
		}
	})
	return deleted, nil
}

func (r *MemoryRepository) DeleteExpiredHolds(_ context.Context, now time.Time) (int64, error) {
	var n int64
	r.mutate(func(st *memStore) {
		for id, h := range st.holds {
			if !domain.IsLive(h, now) {
				delete(st.holds, id)
				n++
			}
		}
	})
	return n, nil
}

// --------------------------------------------------
// Tx
// --------------------------------------------------

// mutate applies a write to the snapshotted tables. Outside a transaction it
// waits for any running one, so a rollback cannot undo the write.
func (r *MemoryRepository) mutate(fn func(st *memStore)) {
	if !r.inTx {
		r.st.txMu.Lock()
		defer r.st.txMu.Unlock()
	}
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	fn(r.st)
}

func (r *MemoryRepository) Transaction(ctx context.Context, fn func(tx domain.Repository) error) error {
	if r.inTx {
		return fn(r)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.st.txMu.Lock()
	defer r.st.txMu.Unlock()

	snap := r.st.snapshot()
	if err := fn(&MemoryRepository{st: r.st, inTx: true}); err != nil {
		r.st.restore(snap)
		return err
	}
	return nil
}

type memSnapshot struct {
	staff        map[uuid.UUID]models.Staff
	appointments map[uuid.UUID]models.Appointment
	holds        map[uuid.UUID]models.AppointmentHold
}

// snapshot covers the tables the engine writes.
func (s *memStore) snapshot() memSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := memSnapshot{
		staff:        make(map[uuid.UUID]models.Staff, len(s.staff)),
		appointments: make(map[uuid.UUID]models.Appointment, len(s.appointments)),
		holds:        make(map[uuid.UUID]models.AppointmentHold, len(s.holds)),
	}
	for k, v := range s.staff {
		snap.staff[k] = v
	}
	for k, v := range s.appointments {
		snap.appointments[k] = v
	}
	for k, v := range s.holds {
		snap.holds[k] = v
	}
	return snap
}

func (s *memStore) restore(snap memSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staff = snap.staff
	s.appointments = snap.appointments
	s.holds = snap.holds
}

// Compile-time check
var _ domain.Repository = (*MemoryRepository)(nil)
