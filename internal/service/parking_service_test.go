package service

import (
	"context"
	"testing"
	"time"

	"parking_enforcement/internal/domain"
	"parking_enforcement/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/guregu/null.v4"
)

type parkingFixture struct {
	svc      *ParkingService
	spots    *fakeSpotRepo
	sessions *fakeSessionRepo
	notifier *fakeNotifier
	now      time.Time
}

func newParkingFixture() *parkingFixture {
	f := &parkingFixture{
		spots:    newFakeSpotRepo(spot(1, 1, domain.SpotGreen, true), spot(2, 1, domain.SpotYellow, false)),
		sessions: newFakeSessionRepo(),
		notifier: &fakeNotifier{},
		now:      time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
	areas := &fakeAreaRepo{areas: map[int]*domain.Area{1: {ID: 1, Name: "Bukit Bintang"}}}
	streets := &fakeStreetRepo{streets: []domain.Street{{ID: 1, Name: "Jalan Alor", AreaID: 1}}}
	f.svc = NewParkingService(areas, streets, f.spots, f.sessions, f.notifier, zap.NewNop().Sugar())
	f.svc.now = func() time.Time { return f.now }
	return f
}

func TestCreateSession_OccupiesSpot(t *testing.T) {
	f := newParkingFixture()

	detail, err := f.svc.CreateSession(context.Background(), domain.CreateParkingSessionDTO{
		PlateNumber:     " wxy 1234 ",
		ParkingSpotID:   1,
		DurationMinutes: 90,
		Cost:            3,
	})
	require.NoError(t, err)

	assert.Equal(t, "WXY1234", detail.PlateNumber)
	assert.Equal(t, domain.SessionActive, detail.Status)
	assert.Equal(t, f.now.Add(90*time.Minute), detail.EndTime.Time)
	assert.Equal(t, "1h 30m", detail.TimeRemaining)
	assert.Equal(t, "green", detail.StatusColor)
	require.NotNil(t, detail.Spot)
	assert.False(t, detail.Spot.IsAvailable)

	stored, _ := f.spots.FindByID(context.Background(), 1)
	assert.False(t, stored.IsAvailable)
	assert.Equal(t, []domain.NotificationType{domain.NotificationSpotAvailability}, f.notifier.types())
}

func TestCreateSession_Rejections(t *testing.T) {
	f := newParkingFixture()
	ctx := context.Background()

	_, err := f.svc.CreateSession(ctx, domain.CreateParkingSessionDTO{PlateNumber: "ABC1", ParkingSpotID: 2, DurationMinutes: 30})
	assert.ErrorIs(t, err, ErrSpotOccupied)

	_, err = f.svc.CreateSession(ctx, domain.CreateParkingSessionDTO{PlateNumber: "ABC1", ParkingSpotID: 42, DurationMinutes: 30})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.CreateSession(ctx, domain.CreateParkingSessionDTO{PlateNumber: "ABC1", ParkingSpotID: 1, DurationMinutes: 30, StartTime: "yesterday"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.CreateSession(ctx, domain.CreateParkingSessionDTO{PlateNumber: "ABC1", ParkingSpotID: 1, DurationMinutes: 30})
	require.NoError(t, err)
	_, err = f.svc.UpdateSpot(ctx, 1, domain.ParkingSpotDTO{StreetID: 1, Latitude: ptr(3.1), Longitude: ptr(101.7), Type: domain.SpotGreen, IsAvailable: ptr(true)})
	require.NoError(t, err)
	_, err = f.svc.CreateSession(ctx, domain.CreateParkingSessionDTO{PlateNumber: "abc 1", ParkingSpotID: 1, DurationMinutes: 30})
	assert.ErrorIs(t, err, repository.ErrDuplicateEntry, "one active session per plate")
}

func TestEndSession_ProratesCostAndReleasesSpot(t *testing.T) {
	f := newParkingFixture()
	ctx := context.Background()

	created, err := f.svc.CreateSession(ctx, domain.CreateParkingSessionDTO{PlateNumber: "WXY1234", ParkingSpotID: 1, DurationMinutes: 120, Cost: 4})
	require.NoError(t, err)

	f.now = f.now.Add(30 * time.Minute)
	ended, err := f.svc.EndSession(ctx, created.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.SessionCompleted, ended.Status)
	assert.Equal(t, int64(30), ended.DurationMinutes.Int64)
	assert.Equal(t, 1.0, ended.Cost.Float64)
	assert.Equal(t, f.now, ended.EndTime.Time)
	assert.Equal(t, "gray", ended.StatusColor)
	assert.True(t, ended.Spot.IsAvailable)

	_, err = f.svc.EndSession(ctx, created.ID)
	assert.ErrorIs(t, err, ErrSessionNotActive)
}

func TestEndSession_AfterBookedEndChargesFullCost(t *testing.T) {
	f := newParkingFixture()
	ctx := context.Background()

	created, err := f.svc.CreateSession(ctx, domain.CreateParkingSessionDTO{PlateNumber: "WXY1234", ParkingSpotID: 1, DurationMinutes: 60, Cost: 2})
	require.NoError(t, err)

	f.now = f.now.Add(3 * time.Hour)
	ended, err := f.svc.EndSession(ctx, created.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(60), ended.DurationMinutes.Int64)
	assert.Equal(t, 2.0, ended.Cost.Float64)
	assert.Equal(t, ExpiredLabel, ended.TimeRemaining)
}

func TestCancelSession(t *testing.T) {
	f := newParkingFixture()
	ctx := context.Background()

	created, err := f.svc.CreateSession(ctx, domain.CreateParkingSessionDTO{PlateNumber: "WXY1234", ParkingSpotID: 1, DurationMinutes: 60})
	require.NoError(t, err)

	cancelled, err := f.svc.CancelSession(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionCancelled, cancelled.Status)
	assert.Equal(t, "orange", cancelled.StatusColor)

	_, err = f.svc.CancelSession(ctx, 999)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestExpireOverdueSessions(t *testing.T) {
	f := newParkingFixture()
	ctx := context.Background()

	created, err := f.svc.CreateSession(ctx, domain.CreateParkingSessionDTO{PlateNumber: "WXY1234", ParkingSpotID: 1, DurationMinutes: 15})
	require.NoError(t, err)

	count, err := f.svc.ExpireOverdueSessions(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	f.now = f.now.Add(15 * time.Minute)
	count, err = f.svc.ExpireOverdueSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	detail, err := f.svc.GetSession(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionExpired, detail.Status)
	assert.Equal(t, "red", detail.StatusColor)
	assert.Contains(t, f.notifier.types(), domain.NotificationSessionExpired)
	last := f.notifier.sent[len(f.notifier.sent)-1]
	assert.Equal(t, domain.SessionExpiredPayload{SessionID: created.ID}, last.Payload)
}

func TestFindSessions_AttachesSpotsAndCountdown(t *testing.T) {
	f := newParkingFixture()
	ctx := context.Background()
	f.sessions.sessions[1] = &domain.ParkingSession{ID: 1, PlateNumber: "A1", ParkingSpotID: 1, Status: domain.SessionActive,
		StartTime: f.now, EndTime: null.TimeFrom(f.now.Add(45 * time.Minute))}
	f.sessions.sessions[2] = &domain.ParkingSession{ID: 2, PlateNumber: "B2", ParkingSpotID: 77, Status: domain.SessionActive,
		StartTime: f.now}

	details, err := f.svc.FindSessions(ctx, domain.ParkingSessionFilterDTO{})
	require.NoError(t, err)
	require.Len(t, details, 2)

	assert.Equal(t, "45m", details[0].TimeRemaining)
	require.NotNil(t, details[0].Spot)
	assert.Equal(t, 1, details[0].Spot.ID)

	assert.Nil(t, details[1].Spot)
	assert.Equal(t, InvalidDateLabel, details[1].TimeRemaining)
}

func TestCountdown(t *testing.T) {
	f := newParkingFixture()
	f.sessions.sessions[5] = &domain.ParkingSession{ID: 5, ParkingSpotID: 1, Status: domain.SessionActive,
		StartTime: f.now, EndTime: null.TimeFrom(f.now.Add(2 * time.Hour))}

	update, err := f.svc.Countdown(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 5, update.SessionID)
	assert.Equal(t, "2h", update.TimeRemaining)
	assert.Equal(t, "green", update.StatusColor)
	assert.Equal(t, f.now, update.SentAt)
}

func TestCreateStreet_UnknownArea(t *testing.T) {
	f := newParkingFixture()

	_, err := f.svc.CreateStreet(context.Background(), domain.StreetDTO{Name: "Jalan Baru", AreaID: 404})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestProratedCost(t *testing.T) {
	assert.Equal(t, 0.0, proratedCost(null.Float{}, null.IntFrom(60), 30))
	assert.Equal(t, 5.0, proratedCost(null.FloatFrom(5), null.Int{}, 30))
	assert.Equal(t, 1.67, proratedCost(null.FloatFrom(5), null.IntFrom(90), 30))
	assert.Equal(t, 5.0, proratedCost(null.FloatFrom(5), null.IntFrom(90), 120))
}

func ptr[T any](v T) *T { return &v }

// staleSessionRepo answers reads from a snapshot taken before another request
// closed the session.
type staleSessionRepo struct {
	*fakeSessionRepo
	snapshot domain.ParkingSession
}

func (r *staleSessionRepo) FindByID(context.Context, int) (*domain.ParkingSession, error) {
	cp := r.snapshot
	return &cp, nil
}

func TestCloseSession_SecondRequestLoses(t *testing.T) {
	f := newParkingFixture()
	ctx := context.Background()

	created, err := f.svc.CreateSession(ctx, domain.CreateParkingSessionDTO{PlateNumber: "WXY1234", ParkingSpotID: 1, DurationMinutes: 120, Cost: 4})
	require.NoError(t, err)
	snapshot := *f.sessions.sessions[created.ID]

	f.now = f.now.Add(30 * time.Minute)
	_, err = f.svc.EndSession(ctx, created.ID)
	require.NoError(t, err)

	f.svc.sessionRepo = &staleSessionRepo{fakeSessionRepo: f.sessions, snapshot: snapshot}
	f.now = f.now.Add(30 * time.Minute)

	_, err = f.svc.EndSession(ctx, created.ID)
	assert.ErrorIs(t, err, ErrSessionNotActive)
	_, err = f.svc.CancelSession(ctx, created.ID)
	assert.ErrorIs(t, err, ErrSessionNotActive)

	stored := f.sessions.sessions[created.ID]
	assert.Equal(t, domain.SessionCompleted, stored.Status)
	assert.Equal(t, 1.0, stored.Cost.Float64)
	assert.Equal(t, int64(30), stored.DurationMinutes.Int64)
}
