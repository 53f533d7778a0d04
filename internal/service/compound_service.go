package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"parking_enforcement/internal/domain"
	"parking_enforcement/internal/repository"

	"go.uber.org/zap"
	"gopkg.in/guregu/null.v4"
)

type CompoundService struct {
	violationRepo repository.ViolationRepository
	compoundRepo  repository.CompoundRepository
	parking       *ParkingService
	lpr           *LPRService
	notifier      Notifier
	log           *zap.SugaredLogger
	now           func() time.Time
}

func NewCompoundService(
	violationRepo repository.ViolationRepository,
	compoundRepo repository.CompoundRepository,
	parking *ParkingService,
	lpr *LPRService,
	notifier Notifier,
	log *zap.SugaredLogger,
) *CompoundService {
	return &CompoundService{
		violationRepo: violationRepo,
		compoundRepo:  compoundRepo,
		parking:       parking,
		lpr:           lpr,
		notifier:      notifier,
		log:           log,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// --- Violation ---
func (s *CompoundService) GetViolations(ctx context.Context) ([]domain.Violation, error) {
	return s.violationRepo.FindAll(ctx)
}

func (s *CompoundService) GetViolation(ctx context.Context, id int) (*domain.Violation, error) {
	return s.violationRepo.FindByID(ctx, id)
}

// --- Compound ---
func (s *CompoundService) FindCompounds(ctx context.Context, filter domain.CompoundFilterDTO) ([]domain.Compound, error) {
	return s.compoundRepo.Find(ctx, filter)
}

func (s *CompoundService) GetCompound(ctx context.Context, id int) (*domain.Compound, error) {
	return s.compoundRepo.FindByID(ctx, id)
}

// IssueCompound records a new unpaid compound on behalf of issuedBy.
func (s *CompoundService) IssueCompound(ctx context.Context, issuedBy string, dto domain.CreateCompoundDTO) (*domain.Compound, error) {
	dto.PlateNumber = normalizePlate(dto.PlateNumber)
	dto.Location = strings.TrimSpace(dto.Location)
	if dto.PlateNumber == "" || dto.Location == "" {
		return nil, fmt.Errorf("%w: plate number and location are required", ErrValidation)
	}

	compound, err := s.compoundRepo.Create(ctx, dto, issuedBy)
	if err != nil {
		return nil, err
	}
	notify(s.notifier, domain.NotificationCompoundIssued, domain.CompoundIssued{
		CompoundID:     compound.ID,
		CompoundNumber: compound.CompoundNumber,
		PlateNumber:    compound.PlateNumber,
		Location:       compound.Location,
	})
	s.log.Infow("compound issued", "compound_number", compound.CompoundNumber, "plate", compound.PlateNumber,
		"violation_id", compound.ViolationID, "issued_by", issuedBy)
	return compound, nil
}

// PayCompound settles an unpaid compound. Without an explicit amount the fine
// due on the payment date is charged.
func (s *CompoundService) PayCompound(ctx context.Context, id int, dto domain.PayCompoundDTO) (*domain.Compound, error) {
	compound, err := s.compoundRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if compound.Status != domain.CompoundUnpaid {
		return nil, fmt.Errorf("%w: compound %s is %s", ErrCompoundNotUnpaid, compound.CompoundNumber, compound.Status)
	}

	paidAt := s.now()
	if dto.PaymentDate != "" {
		parsed, err := time.Parse(time.RFC3339Nano, dto.PaymentDate)
		if err != nil {
			return nil, fmt.Errorf("%w: payment_date must be RFC 3339", ErrValidation)
		}
		paidAt = parsed.UTC()
	}
	if paidAt.Before(compound.IssuedAt) {
		return nil, fmt.Errorf("%w: payment_date precedes issue date", ErrValidation)
	}

	violation := compound.Violation
	if violation == nil {
		if violation, err = s.violationRepo.FindByID(ctx, compound.ViolationID); err != nil {
			return nil, fmt.Errorf("loading violation %d: %w", compound.ViolationID, err)
		}
	}
	amount := violation.FineDue(compound.IssuedAt, paidAt)
	if dto.PaymentAmount != nil {
		amount = *dto.PaymentAmount
	}

	compound.Status = domain.CompoundPaid
	compound.PaymentDate = null.TimeFrom(paidAt)
	compound.PaymentAmount = null.FloatFrom(amount)
	return s.settle(ctx, compound)
}

func (s *CompoundService) CancelCompound(ctx context.Context, id int) (*domain.Compound, error) {
	compound, err := s.compoundRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if compound.Status != domain.CompoundUnpaid {
		return nil, fmt.Errorf("%w: compound %s is %s", ErrCompoundNotUnpaid, compound.CompoundNumber, compound.Status)
	}
	compound.Status = domain.CompoundCancelled
	return s.settle(ctx, compound)
}

// settle writes a status change that is only valid while the compound is
// still unpaid; a concurrent payment or cancellation wins.
func (s *CompoundService) settle(ctx context.Context, compound *domain.Compound) (*domain.Compound, error) {
	updated, err := s.compoundRepo.Update(ctx, compound, domain.CompoundUnpaid)
	if errors.Is(err, repository.ErrStaleStatus) {
		return nil, fmt.Errorf("%w: compound %s was settled concurrently", ErrCompoundNotUnpaid, compound.CompoundNumber)
	}
	return updated, err
}

// RecognizePlate reads the plate from a photo and looks up whether the
// vehicle currently holds an active parking session.
func (s *CompoundService) RecognizePlate(ctx context.Context, imageBase64 string) (*domain.LPRResponseDTO, error) {
	image, err := DecodeImage(imageBase64)
	if err != nil {
		return nil, err
	}
	plate, confidence, err := s.lpr.RecognizePlate(ctx, image)
	if err != nil {
		return nil, err
	}

	resp := &domain.LPRResponseDTO{DetectedPlate: plate, Confidence: confidence}
	session, err := s.parking.GetActiveSessionByPlate(ctx, plate)
	switch {
	case err == nil:
		resp.ActiveSession = session
	case errors.Is(err, repository.ErrNoActiveSession):
		resp.ErrorMessage = "no active parking session"
	default:
		return nil, err
	}
	return resp, nil
}
