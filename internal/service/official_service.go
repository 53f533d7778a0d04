package service

import (
	"context"
	"fmt"
	"strings"

	"parking_enforcement/internal/domain"
	"parking_enforcement/internal/repository"
)

type OfficialService struct {
	officialRepo repository.OfficialRepository
}

func NewOfficialService(officialRepo repository.OfficialRepository) *OfficialService {
	return &OfficialService{officialRepo: officialRepo}
}

func (s *OfficialService) GetOfficials(ctx context.Context) ([]domain.Official, error) {
	return s.officialRepo.FindAll(ctx)
}

func (s *OfficialService) GetOfficial(ctx context.Context, id int) (*domain.Official, error) {
	return s.officialRepo.FindByID(ctx, id)
}

func (s *OfficialService) UpdateOfficial(ctx context.Context, id int, dto domain.UpdateOfficialDTO) (*domain.Official, error) {
	officialType := domain.OfficialType(dto.Type)
	if !officialType.Valid() {
		return nil, fmt.Errorf("%w: unknown official type '%s'", ErrValidation, dto.Type)
	}
	official, err := s.officialRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	official.Name = strings.TrimSpace(dto.Name)
	official.OfficialID = strings.TrimSpace(dto.OfficialID)
	official.Type = officialType
	return s.officialRepo.Update(ctx, official)
}

// DeleteOfficial removes the official together with their login.
func (s *OfficialService) DeleteOfficial(ctx context.Context, id int) error {
	return s.officialRepo.Delete(ctx, id)
}
