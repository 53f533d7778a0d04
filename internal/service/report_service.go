package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"parking_enforcement/internal/domain"
	"parking_enforcement/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ImageStore holds report photos.
type ImageStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, key string) error
}

var imageExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/gif":  "gif",
}

type ReportService struct {
	reportRepo repository.ReportRepository
	spotRepo   repository.ParkingSpotRepository
	images     ImageStore
	log        *zap.SugaredLogger
}

func NewReportService(
	reportRepo repository.ReportRepository,
	spotRepo repository.ParkingSpotRepository,
	images ImageStore,
	log *zap.SugaredLogger,
) *ReportService {
	return &ReportService{reportRepo: reportRepo, spotRepo: spotRepo, images: images, log: log}
}

func (s *ReportService) FindReports(ctx context.Context, filter domain.ReportFilterDTO) ([]domain.Report, error) {
	if filter.Status != nil && !domain.ReportStatus(*filter.Status).Valid() {
		return nil, fmt.Errorf("%w: unknown report status '%s'", ErrValidation, *filter.Status)
	}
	return s.reportRepo.Find(ctx, filter)
}

func (s *ReportService) GetReport(ctx context.Context, id int) (*domain.Report, error) {
	return s.reportRepo.FindByID(ctx, id)
}

// CreateReport files a report for the signed-in user, uploading the photo
// first when one is attached.
func (s *ReportService) CreateReport(ctx context.Context, userID string, dto domain.CreateReportDTO) (*domain.Report, error) {
	if _, err := s.spotRepo.FindByID(ctx, dto.ParkingSpotID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: parking spot %d does not exist", ErrValidation, dto.ParkingSpotID)
		}
		return nil, fmt.Errorf("checking parking spot: %w", err)
	}

	report := &domain.Report{
		UserID:        userID,
		ParkingSpotID: dto.ParkingSpotID,
		IssueType:     strings.TrimSpace(dto.IssueType),
		Description:   strings.TrimSpace(dto.Description),
		Status:        domain.ReportPending,
	}

	if dto.ImageBase64 != "" {
		key, err := s.uploadImage(ctx, dto.ImageBase64)
		if err != nil {
			return nil, err
		}
		report.ImageName = key
	}

	created, err := s.reportRepo.Create(ctx, report)
	if err != nil {
		if report.ImageName != "" {
			if delErr := s.images.Delete(ctx, report.ImageName); delErr != nil {
				s.log.Warnw("could not remove image of unsaved report", "key", report.ImageName, "error", delErr)
			}
		}
		return nil, err
	}
	s.log.Infow("report filed", "report_id", created.ID, "spot_id", created.ParkingSpotID, "issue_type", created.IssueType)
	return created, nil
}

func (s *ReportService) UpdateReportStatus(ctx context.Context, id int, status domain.ReportStatus) (*domain.Report, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown report status '%s'", ErrValidation, status)
	}
	return s.reportRepo.UpdateStatus(ctx, id, status)
}

func (s *ReportService) DeleteReport(ctx context.Context, id int) error {
	return s.reportRepo.Delete(ctx, id)
}

// ReportImage opens the photo attached to a report.
func (s *ReportService) ReportImage(ctx context.Context, id int) (io.ReadCloser, string, error) {
	if s.images == nil {
		return nil, "", ErrStorageDisabled
	}
	report, err := s.reportRepo.FindByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if report.ImageName == "" {
		return nil, "", fmt.Errorf("%w: report %d has no image", repository.ErrNotFound, id)
	}
	return s.images.Get(ctx, report.ImageName)
}

func (s *ReportService) uploadImage(ctx context.Context, encoded string) (string, error) {
	if s.images == nil {
		return "", ErrStorageDisabled
	}
	data, err := DecodeImage(encoded)
	if err != nil {
		return "", err
	}
	contentType := http.DetectContentType(data)
	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", fmt.Errorf("%w: unsupported image type %s", ErrValidation, contentType)
	}
	key := fmt.Sprintf("reports/%s.%s", uuid.NewString(), ext)
	if err := s.images.Put(ctx, key, data, contentType); err != nil {
		return "", fmt.Errorf("uploading report image: %w", err)
	}
	return key, nil
}

// DecodeImage accepts raw base64 or a data URI.
func DecodeImage(encoded string) ([]byte, error) {
	if i := strings.Index(encoded, ","); i >= 0 && strings.HasPrefix(encoded, "data:") {
		encoded = encoded[i+1:]
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return nil, fmt.Errorf("%w: image is not valid base64", ErrValidation)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: image is empty", ErrValidation)
	}
	return data, nil
}
