package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"parking_enforcement/internal/domain"
	"parking_enforcement/internal/repository"
)

var errBackend = errors.New("backend unavailable")

type fakeAreaRepo struct {
	areas   map[int]*domain.Area
	info    []domain.AreaSummary
	infoErr error
}

func (r *fakeAreaRepo) Create(_ context.Context, a *domain.Area) (*domain.Area, error) {
	a.ID = len(r.areas) + 1
	r.areas[a.ID] = a
	return a, nil
}

func (r *fakeAreaRepo) FindByID(_ context.Context, id int) (*domain.Area, error) {
	if a, ok := r.areas[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (r *fakeAreaRepo) ParkingInfo(context.Context) ([]domain.AreaSummary, error) {
	if r.infoErr != nil {
		return nil, r.infoErr
	}
	return append([]domain.AreaSummary(nil), r.info...), nil
}

func (r *fakeAreaRepo) Update(_ context.Context, a *domain.Area) (*domain.Area, error) {
	r.areas[a.ID] = a
	return a, nil
}

func (r *fakeAreaRepo) Delete(_ context.Context, id int) error {
	delete(r.areas, id)
	return nil
}

// fakeStreetRepo is read concurrently by the inventory fan-out; it is never
// written during those reads.
type fakeStreetRepo struct {
	streets   []domain.Street
	counts    map[int]domain.StreetParkingCount
	countErr  map[int]error
	streetErr error
}

func (r *fakeStreetRepo) Create(_ context.Context, s *domain.Street) (*domain.Street, error) {
	s.ID = len(r.streets) + 1
	r.streets = append(r.streets, *s)
	return s, nil
}

func (r *fakeStreetRepo) FindByID(_ context.Context, id int) (*domain.Street, error) {
	for _, s := range r.streets {
		if s.ID == id {
			cp := s
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeStreetRepo) FindByAreaID(_ context.Context, areaID int) ([]domain.Street, error) {
	if r.streetErr != nil {
		return nil, r.streetErr
	}
	out := []domain.Street{}
	for _, s := range r.streets {
		if s.AreaID == areaID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeStreetRepo) CountsByType(_ context.Context, streetID int) (*domain.StreetParkingCount, error) {
	if err := r.countErr[streetID]; err != nil {
		return nil, err
	}
	c, ok := r.counts[streetID]
	if !ok {
		return &domain.StreetParkingCount{StreetID: streetID}, nil
	}
	return &c, nil
}

func (r *fakeStreetRepo) Update(_ context.Context, s *domain.Street) (*domain.Street, error) {
	return s, nil
}

func (r *fakeStreetRepo) Delete(context.Context, int) error { return nil }

type fakeSpotRepo struct {
	mu      sync.Mutex
	spots   map[int]domain.ParkingSpotDetail
	spotErr map[int]error // keyed by street id
}

func newFakeSpotRepo(spots ...domain.ParkingSpotDetail) *fakeSpotRepo {
	r := &fakeSpotRepo{spots: map[int]domain.ParkingSpotDetail{}, spotErr: map[int]error{}}
	for _, s := range spots {
		r.spots[s.ID] = s
	}
	return r
}

func (r *fakeSpotRepo) Create(_ context.Context, s *domain.ParkingSpot) (*domain.ParkingSpot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.ID = len(r.spots) + 1
	r.spots[s.ID] = domain.ParkingSpotDetail{ParkingSpot: *s}
	return s, nil
}

func (r *fakeSpotRepo) FindByID(_ context.Context, id int) (*domain.ParkingSpotDetail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.spots[id]; ok {
		return &s, nil
	}
	return nil, repository.ErrNotFound
}

func (r *fakeSpotRepo) FindByIDs(_ context.Context, ids []int) (map[int]domain.ParkingSpotDetail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[int]domain.ParkingSpotDetail{}
	for _, id := range ids {
		if s, ok := r.spots[id]; ok {
			out[id] = s
		}
	}
	return out, nil
}

func (r *fakeSpotRepo) FindByStreetID(_ context.Context, streetID int) ([]domain.ParkingSpotDetail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.spotErr[streetID]; err != nil {
		return nil, err
	}
	out := []domain.ParkingSpotDetail{}
	for _, s := range r.spots {
		if s.StreetID == streetID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeSpotRepo) Update(_ context.Context, s *domain.ParkingSpot) (*domain.ParkingSpot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d := r.spots[s.ID]
	d.ParkingSpot = *s
	r.spots[s.ID] = d
	return s, nil
}

func (r *fakeSpotRepo) UpdateAvailability(_ context.Context, id int, available bool) (*domain.ParkingSpot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.spots[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	d.IsAvailable = available
	r.spots[id] = d
	spot := d.ParkingSpot
	return &spot, nil
}

func (r *fakeSpotRepo) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.spots, id)
	return nil
}

type fakeSessionRepo struct {
	sessions map[int]*domain.ParkingSession
	nextID   int
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[int]*domain.ParkingSession{}}
}

func (r *fakeSessionRepo) Create(_ context.Context, s *domain.ParkingSession) (*domain.ParkingSession, error) {
	r.nextID++
	s.ID = r.nextID
	s.CreatedAt = time.Now().UTC()
	cp := *s
	r.sessions[s.ID] = &cp
	return s, nil
}

func (r *fakeSessionRepo) FindByID(_ context.Context, id int) (*domain.ParkingSession, error) {
	if s, ok := r.sessions[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (r *fakeSessionRepo) FindActiveByPlate(_ context.Context, plate string) (*domain.ParkingSession, error) {
	for _, s := range r.sessions {
		if s.PlateNumber == plate && s.Status == domain.SessionActive {
			cp := *s
			return &cp, nil
		}
	}
	return nil, repository.ErrNoActiveSession
}

func (r *fakeSessionRepo) Find(_ context.Context, filter domain.ParkingSessionFilterDTO) ([]domain.ParkingSession, error) {
	out := []domain.ParkingSession{}
	for _, s := range r.sessions {
		if filter.Status != nil && string(s.Status) != *filter.Status {
			continue
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeSessionRepo) Update(_ context.Context, s *domain.ParkingSession, from domain.ParkingSessionStatus) (*domain.ParkingSession, error) {
	stored, ok := r.sessions[s.ID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if stored.Status != from {
		return nil, repository.ErrStaleStatus
	}
	cp := *s
	r.sessions[s.ID] = &cp
	return s, nil
}

func (r *fakeSessionRepo) ExpireOverdue(_ context.Context, now time.Time) ([]int, error) {
	var ids []int
	for _, s := range r.sessions {
		if s.Status == domain.SessionActive && s.EndTime.Valid && !s.EndTime.Time.After(now) {
			s.Status = domain.SessionExpired
			ids = append(ids, s.ID)
		}
	}
	sort.Ints(ids)
	return ids, nil
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []domain.Notification
}

func (n *fakeNotifier) Broadcast(note domain.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, note)
}

func (n *fakeNotifier) types() []domain.NotificationType {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []domain.NotificationType
	for _, s := range n.sent {
		out = append(out, s.Type)
	}
	return out
}

type fakeUserRepo struct {
	users map[string]*domain.User
}

func (r *fakeUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	u.ID = fmt.Sprintf("user-%d", len(r.users)+1)
	r.users[u.ID] = u
	return u, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id string, hash string) error {
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Password = hash
	return nil
}

type fakeOfficialRepo struct {
	users     *fakeUserRepo
	officials map[int]*domain.Official
}

func (r *fakeOfficialRepo) CreateWithUser(ctx context.Context, u *domain.User, o *domain.Official) (*domain.Official, error) {
	if _, err := r.users.FindByEmail(ctx, u.Email); err == nil {
		return nil, fmt.Errorf("%w: user '%s'", repository.ErrDuplicateEntry, u.Email)
	}
	created, _ := r.users.Create(ctx, u)
	o.ID = len(r.officials) + 1
	o.UserID = created.ID
	r.officials[o.ID] = o
	return o, nil
}

func (r *fakeOfficialRepo) FindByID(_ context.Context, id int) (*domain.Official, error) {
	if o, ok := r.officials[id]; ok {
		cp := *o
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (r *fakeOfficialRepo) FindByUserID(_ context.Context, userID string) (*domain.Official, error) {
	for _, o := range r.officials {
		if o.UserID == userID {
			cp := *o
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeOfficialRepo) FindAll(context.Context) ([]domain.Official, error) {
	out := []domain.Official{}
	for _, o := range r.officials {
		out = append(out, *o)
	}
	return out, nil
}

func (r *fakeOfficialRepo) Update(_ context.Context, o *domain.Official) (*domain.Official, error) {
	r.officials[o.ID] = o
	return o, nil
}

func (r *fakeOfficialRepo) Delete(_ context.Context, id int) error {
	delete(r.officials, id)
	return nil
}

type fakeViolationRepo struct {
	violations map[int]domain.Violation
}

func (r *fakeViolationRepo) FindAll(context.Context) ([]domain.Violation, error) {
	out := []domain.Violation{}
	for _, v := range r.violations {
		out = append(out, v)
	}
	return out, nil
}

func (r *fakeViolationRepo) FindByID(_ context.Context, id int) (*domain.Violation, error) {
	if v, ok := r.violations[id]; ok {
		return &v, nil
	}
	return nil, repository.ErrNotFound
}

type fakeCompoundRepo struct {
	violations *fakeViolationRepo
	compounds  map[int]*domain.Compound
	issuedAt   time.Time
}

func (r *fakeCompoundRepo) Create(ctx context.Context, dto domain.CreateCompoundDTO, issuedBy string) (*domain.Compound, error) {
	v, err := r.violations.FindByID(ctx, dto.ViolationID)
	if err != nil {
		return nil, fmt.Errorf("%w: violation %d", repository.ErrForeignKey, dto.ViolationID)
	}
	id := len(r.compounds) + 1
	c := &domain.Compound{
		ID:             id,
		CompoundNumber: fmt.Sprintf("CMP-%04d", id),
		ViolationID:    dto.ViolationID,
		PlateNumber:    dto.PlateNumber,
		Location:       dto.Location,
		Status:         domain.CompoundUnpaid,
		IssuedAt:       r.issuedAt,
		Violation:      v,
	}
	c.IssuedBy.SetValid(issuedBy)
	r.compounds[id] = c
	cp := *c
	return &cp, nil
}

func (r *fakeCompoundRepo) FindByID(_ context.Context, id int) (*domain.Compound, error) {
	if c, ok := r.compounds[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (r *fakeCompoundRepo) Find(context.Context, domain.CompoundFilterDTO) ([]domain.Compound, error) {
	out := []domain.Compound{}
	for _, c := range r.compounds {
		out = append(out, *c)
	}
	return out, nil
}

func (r *fakeCompoundRepo) Update(_ context.Context, c *domain.Compound, from domain.CompoundStatus) (*domain.Compound, error) {
	stored, ok := r.compounds[c.ID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if stored.Status != from {
		return nil, repository.ErrStaleStatus
	}
	cp := *c
	r.compounds[c.ID] = &cp
	return c, nil
}
