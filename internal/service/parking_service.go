package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"parking_enforcement/internal/domain"
	"parking_enforcement/internal/repository"

	"go.uber.org/zap"
	"gopkg.in/guregu/null.v4"
)

type ParkingService struct {
	areaRepo    repository.AreaRepository
	streetRepo  repository.StreetRepository
	spotRepo    repository.ParkingSpotRepository
	sessionRepo repository.ParkingSessionRepository
	notifier    Notifier
	log         *zap.SugaredLogger
	now         func() time.Time
}

func NewParkingService(
	areaRepo repository.AreaRepository,
	streetRepo repository.StreetRepository,
	spotRepo repository.ParkingSpotRepository,
	sessionRepo repository.ParkingSessionRepository,
	notifier Notifier,
	log *zap.SugaredLogger,
) *ParkingService {
	return &ParkingService{
		areaRepo:    areaRepo,
		streetRepo:  streetRepo,
		spotRepo:    spotRepo,
		sessionRepo: sessionRepo,
		notifier:    notifier,
		log:         log,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// --- Area ---
func (s *ParkingService) GetArea(ctx context.Context, id int) (*domain.Area, error) {
	return s.areaRepo.FindByID(ctx, id)
}

func (s *ParkingService) CreateArea(ctx context.Context, dto domain.AreaDTO) (*domain.Area, error) {
	area := &domain.Area{
		Name:      strings.TrimSpace(dto.Name),
		Latitude:  *dto.Latitude,
		Longitude: *dto.Longitude,
	}
	return s.areaRepo.Create(ctx, area)
}

func (s *ParkingService) UpdateArea(ctx context.Context, id int, dto domain.AreaDTO) (*domain.Area, error) {
	area, err := s.areaRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	area.Name = strings.TrimSpace(dto.Name)
	area.Latitude = *dto.Latitude
	area.Longitude = *dto.Longitude
	return s.areaRepo.Update(ctx, area)
}

func (s *ParkingService) DeleteArea(ctx context.Context, id int) error {
	return s.areaRepo.Delete(ctx, id)
}

// --- Street ---
func (s *ParkingService) GetStreetsByArea(ctx context.Context, areaID int) ([]domain.Street, error) {
	if _, err := s.areaRepo.FindByID(ctx, areaID); err != nil {
		return nil, err
	}
	return s.streetRepo.FindByAreaID(ctx, areaID)
}

func (s *ParkingService) GetStreet(ctx context.Context, id int) (*domain.Street, error) {
	return s.streetRepo.FindByID(ctx, id)
}

func (s *ParkingService) CreateStreet(ctx context.Context, dto domain.StreetDTO) (*domain.Street, error) {
	if err := s.requireArea(ctx, dto.AreaID); err != nil {
		return nil, err
	}
	street := &domain.Street{Name: strings.TrimSpace(dto.Name), AreaID: dto.AreaID}
	return s.streetRepo.Create(ctx, street)
}

func (s *ParkingService) UpdateStreet(ctx context.Context, id int, dto domain.StreetDTO) (*domain.Street, error) {
	street, err := s.streetRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if dto.AreaID != street.AreaID {
		if err := s.requireArea(ctx, dto.AreaID); err != nil {
			return nil, err
		}
	}
	street.Name = strings.TrimSpace(dto.Name)
	street.AreaID = dto.AreaID
	return s.streetRepo.Update(ctx, street)
}

func (s *ParkingService) DeleteStreet(ctx context.Context, id int) error {
	return s.streetRepo.Delete(ctx, id)
}

func (s *ParkingService) requireArea(ctx context.Context, areaID int) error {
	if _, err := s.areaRepo.FindByID(ctx, areaID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: area %d does not exist", ErrValidation, areaID)
		}
		return fmt.Errorf("checking area %d: %w", areaID, err)
	}
	return nil
}

// --- ParkingSpot ---
func (s *ParkingService) GetSpotsByStreet(ctx context.Context, streetID int) ([]domain.ParkingSpotDetail, error) {
	if _, err := s.streetRepo.FindByID(ctx, streetID); err != nil {
		return nil, err
	}
	return s.spotRepo.FindByStreetID(ctx, streetID)
}

func (s *ParkingService) GetSpot(ctx context.Context, id int) (*domain.ParkingSpotDetail, error) {
	return s.spotRepo.FindByID(ctx, id)
}

func (s *ParkingService) CreateSpot(ctx context.Context, dto domain.ParkingSpotDTO) (*domain.ParkingSpot, error) {
	if err := s.requireStreet(ctx, dto.StreetID); err != nil {
		return nil, err
	}
	spot := &domain.ParkingSpot{
		StreetID:    dto.StreetID,
		Latitude:    *dto.Latitude,
		Longitude:   *dto.Longitude,
		Type:        dto.Type,
		IsAvailable: true,
	}
	if dto.IsAvailable != nil {
		spot.IsAvailable = *dto.IsAvailable
	}
	return s.spotRepo.Create(ctx, spot)
}

func (s *ParkingService) UpdateSpot(ctx context.Context, id int, dto domain.ParkingSpotDTO) (*domain.ParkingSpot, error) {
	current, err := s.spotRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if dto.StreetID != current.StreetID {
		if err := s.requireStreet(ctx, dto.StreetID); err != nil {
			return nil, err
		}
	}
	spot := current.ParkingSpot
	spot.StreetID = dto.StreetID
	spot.Latitude = *dto.Latitude
	spot.Longitude = *dto.Longitude
	spot.Type = dto.Type
	if dto.IsAvailable != nil {
		spot.IsAvailable = *dto.IsAvailable
	}
	return s.spotRepo.Update(ctx, &spot)
}

// SetSpotAvailability flips a spot and tells connected officers about it.
func (s *ParkingService) SetSpotAvailability(ctx context.Context, id int, available bool) (*domain.ParkingSpot, error) {
	spot, err := s.spotRepo.UpdateAvailability(ctx, id, available)
	if err != nil {
		return nil, err
	}
	notify(s.notifier, domain.NotificationSpotAvailability, domain.SpotAvailabilityChanged{
		ParkingSpotID: spot.ID,
		StreetID:      spot.StreetID,
		IsAvailable:   spot.IsAvailable,
	})
	return spot, nil
}

func (s *ParkingService) DeleteSpot(ctx context.Context, id int) error {
	return s.spotRepo.Delete(ctx, id)
}

func (s *ParkingService) requireStreet(ctx context.Context, streetID int) error {
	if _, err := s.streetRepo.FindByID(ctx, streetID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: street %d does not exist", ErrValidation, streetID)
		}
		return fmt.Errorf("checking street %d: %w", streetID, err)
	}
	return nil
}

// --- ParkingSession ---
func (s *ParkingService) FindSessions(ctx context.Context, filter domain.ParkingSessionFilterDTO) ([]domain.ParkingSessionDetail, error) {
	sessions, err := s.sessionRepo.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	ids := make([]int, 0, len(sessions))
	for _, sess := range sessions {
		ids = append(ids, sess.ParkingSpotID)
	}
	spots, err := s.spotRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("loading spots for sessions: %w", err)
	}

	now := s.now()
	details := make([]domain.ParkingSessionDetail, 0, len(sessions))
	for _, sess := range sessions {
		var spot *domain.ParkingSpotDetail
		if sp, ok := spots[sess.ParkingSpotID]; ok {
			spot = &sp
		}
		details = append(details, sessionDetail(sess, spot, now))
	}
	return details, nil
}

func (s *ParkingService) GetSession(ctx context.Context, id int) (*domain.ParkingSessionDetail, error) {
	sess, err := s.sessionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withSpot(ctx, sess)
}

// GetActiveSessionByPlate is the enforcement check: does this vehicle hold a
// running session right now.
func (s *ParkingService) GetActiveSessionByPlate(ctx context.Context, plate string) (*domain.ParkingSessionDetail, error) {
	sess, err := s.sessionRepo.FindActiveByPlate(ctx, plate)
	if err != nil {
		return nil, err
	}
	return s.withSpot(ctx, sess)
}

// Countdown renders the current countdown state of a session.
func (s *ParkingService) Countdown(ctx context.Context, id int) (*domain.CountdownUpdate, error) {
	sess, err := s.sessionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	detail := sessionDetail(*sess, nil, now)
	return &domain.CountdownUpdate{
		SessionID:     sess.ID,
		Status:        sess.Status,
		TimeRemaining: detail.TimeRemaining,
		StatusColor:   detail.StatusColor,
		SentAt:        now,
	}, nil
}

func (s *ParkingService) CreateSession(ctx context.Context, dto domain.CreateParkingSessionDTO) (*domain.ParkingSessionDetail, error) {
	plate := normalizePlate(dto.PlateNumber)
	if plate == "" {
		return nil, fmt.Errorf("%w: plate number is empty", ErrValidation)
	}

	spot, err := s.spotRepo.FindByID(ctx, dto.ParkingSpotID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: parking spot %d does not exist", ErrValidation, dto.ParkingSpotID)
		}
		return nil, fmt.Errorf("checking parking spot: %w", err)
	}
	if !spot.IsAvailable {
		return nil, fmt.Errorf("%w: spot %d", ErrSpotOccupied, spot.ID)
	}

	existing, err := s.sessionRepo.FindActiveByPlate(ctx, plate)
	if err != nil && !errors.Is(err, repository.ErrNoActiveSession) {
		return nil, fmt.Errorf("checking active session: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: vehicle '%s' already has active session %d", repository.ErrDuplicateEntry, plate, existing.ID)
	}

	start := s.now()
	if dto.StartTime != "" {
		parsed, err := time.Parse(time.RFC3339Nano, dto.StartTime)
		if err != nil {
			return nil, fmt.Errorf("%w: start_time must be RFC 3339", ErrValidation)
		}
		start = parsed.UTC()
	}

	session := &domain.ParkingSession{
		PlateNumber:     plate,
		ParkingSpotID:   spot.ID,
		StartTime:       start,
		EndTime:         null.TimeFrom(start.Add(time.Duration(dto.DurationMinutes) * time.Minute)),
		Status:          domain.SessionActive,
		Cost:            null.FloatFrom(dto.Cost),
		DurationMinutes: null.IntFrom(int64(dto.DurationMinutes)),
	}
	created, err := s.sessionRepo.Create(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("creating parking session: %w", err)
	}

	if _, err := s.SetSpotAvailability(ctx, spot.ID, false); err != nil {
		s.log.Warnw("could not mark spot occupied", "spot_id", spot.ID, "session_id", created.ID, "error", err)
	} else {
		spot.IsAvailable = false
	}

	s.log.Infow("parking session started", "session_id", created.ID, "plate", plate, "spot_id", spot.ID)
	detail := sessionDetail(*created, spot, s.now())
	return &detail, nil
}

// EndSession completes an active session now. Duration becomes the minutes
// actually parked and the cost is pro-rated against the booked duration.
func (s *ParkingService) EndSession(ctx context.Context, id int) (*domain.ParkingSessionDetail, error) {
	sess, err := s.sessionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.Status != domain.SessionActive {
		return nil, fmt.Errorf("%w: session %d is %s", ErrSessionNotActive, id, sess.Status)
	}

	now := s.now()
	end := now
	if sess.EndTime.Valid && sess.EndTime.Time.Before(now) {
		end = sess.EndTime.Time
	}
	if end.Before(sess.StartTime) {
		end = sess.StartTime
	}

	actual := int64(end.Sub(sess.StartTime).Minutes())
	sess.Cost = null.FloatFrom(proratedCost(sess.Cost, sess.DurationMinutes, actual))
	sess.DurationMinutes = null.IntFrom(actual)
	sess.EndTime = null.TimeFrom(end)
	sess.Status = domain.SessionCompleted

	updated, err := s.closeSession(ctx, sess)
	if err != nil {
		return nil, fmt.Errorf("ending parking session: %w", err)
	}
	s.releaseSpot(ctx, updated)
	s.log.Infow("parking session completed", "session_id", updated.ID, "minutes", actual, "cost", updated.Cost.Float64)
	return s.withSpot(ctx, updated)
}

func (s *ParkingService) CancelSession(ctx context.Context, id int) (*domain.ParkingSessionDetail, error) {
	sess, err := s.sessionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.Status != domain.SessionActive {
		return nil, fmt.Errorf("%w: session %d is %s", ErrSessionNotActive, id, sess.Status)
	}
	sess.Status = domain.SessionCancelled
	updated, err := s.closeSession(ctx, sess)
	if err != nil {
		return nil, fmt.Errorf("cancelling parking session: %w", err)
	}
	s.releaseSpot(ctx, updated)
	return s.withSpot(ctx, updated)
}

// ExpireOverdueSessions marks active sessions past their end time as expired
// and returns how many were changed.
func (s *ParkingService) ExpireOverdueSessions(ctx context.Context) (int, error) {
	ids, err := s.sessionRepo.ExpireOverdue(ctx, s.now())
	if err != nil {
		return 0, err
	}
	for _, id := range ids {
		notify(s.notifier, domain.NotificationSessionExpired, domain.SessionExpiredPayload{SessionID: id})
	}
	return len(ids), nil
}

// closeSession persists a session leaving the active state. Only one of
// end, cancel and the expiry sweep can win for a given session.
func (s *ParkingService) closeSession(ctx context.Context, sess *domain.ParkingSession) (*domain.ParkingSession, error) {
	updated, err := s.sessionRepo.Update(ctx, sess, domain.SessionActive)
	if errors.Is(err, repository.ErrStaleStatus) {
		return nil, fmt.Errorf("%w: session %d changed concurrently", ErrSessionNotActive, sess.ID)
	}
	return updated, err
}

func (s *ParkingService) releaseSpot(ctx context.Context, sess *domain.ParkingSession) {
	if _, err := s.SetSpotAvailability(ctx, sess.ParkingSpotID, true); err != nil {
		s.log.Warnw("could not release spot", "spot_id", sess.ParkingSpotID, "session_id", sess.ID, "error", err)
	}
}

func (s *ParkingService) withSpot(ctx context.Context, sess *domain.ParkingSession) (*domain.ParkingSessionDetail, error) {
	spot, err := s.spotRepo.FindByID(ctx, sess.ParkingSpotID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("loading spot %d: %w", sess.ParkingSpotID, err)
	}
	detail := sessionDetail(*sess, spot, s.now())
	return &detail, nil
}

func sessionDetail(sess domain.ParkingSession, spot *domain.ParkingSpotDetail, now time.Time) domain.ParkingSessionDetail {
	remaining := InvalidDateLabel
	if sess.EndTime.Valid {
		remaining = TimeRemainingAt(sess.EndTime.Time, now)
	}
	return domain.ParkingSessionDetail{
		ParkingSession: sess,
		Spot:           spot,
		TimeRemaining:  remaining,
		StatusColor:    sess.Status.Color(),
	}
}

func proratedCost(booked null.Float, bookedMinutes null.Int, actualMinutes int64) float64 {
	if !booked.Valid || !bookedMinutes.Valid || bookedMinutes.Int64 <= 0 {
		return booked.Float64
	}
	if actualMinutes >= bookedMinutes.Int64 {
		return booked.Float64
	}
	cost := booked.Float64 * float64(actualMinutes) / float64(bookedMinutes.Int64)
	return math.Round(cost*100) / 100
}

func normalizePlate(plate string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(plate), " ", ""))
}
