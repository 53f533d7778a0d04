package service

import (
	"context"
	"fmt"
	"math"
	"sort"

	"parking_enforcement/internal/domain"
	"parking_enforcement/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const earthRadiusKm = 6371.0

type InventoryService struct {
	areaRepo   repository.AreaRepository
	streetRepo repository.StreetRepository
	spotRepo   repository.ParkingSpotRepository
	// concurrency bounds the per-street fan-out; 1 means strictly sequential.
	concurrency int
	log         *zap.SugaredLogger
}

func NewInventoryService(
	areaRepo repository.AreaRepository,
	streetRepo repository.StreetRepository,
	spotRepo repository.ParkingSpotRepository,
	concurrency int,
	log *zap.SugaredLogger,
) *InventoryService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &InventoryService{
		areaRepo:    areaRepo,
		streetRepo:  streetRepo,
		spotRepo:    spotRepo,
		concurrency: concurrency,
		log:         log,
	}
}

// AreaInventory returns every street of the area composed with its spots and
// availability counts, in backend street order.
//
// A failed count lookup degrades that street to zero counts. A failed street
// or spot lookup fails the whole call.
func (s *InventoryService) AreaInventory(ctx context.Context, areaID int) ([]domain.StreetInventory, error) {
	streets, err := s.streetRepo.FindByAreaID(ctx, areaID)
	if err != nil {
		return nil, fmt.Errorf("InventoryService.AreaInventory: fetching streets of area %d: %w", areaID, err)
	}

	result := make([]domain.StreetInventory, len(streets))
	if len(streets) == 0 {
		return result, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, street := range streets {
		i, street := i, street
		g.Go(func() error {
			spots, err := s.spotRepo.FindByStreetID(gctx, street.ID)
			if err != nil {
				return fmt.Errorf("fetching spots of street %d: %w", street.ID, err)
			}

			counts, err := s.streetRepo.CountsByType(gctx, street.ID)
			if err != nil {
				s.log.Warnw("street counts unavailable, reporting zero",
					"area_id", areaID, "street_id", street.ID, "error", err)
				counts = nil
			}

			result[i] = ComposeStreet(street, spots, counts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("InventoryService.AreaInventory: %w", err)
	}
	return result, nil
}

// ComposeStreet merges a street row, its spots and its aggregate counts. A nil
// counts value yields zero for every count field.
func ComposeStreet(street domain.Street, spots []domain.ParkingSpotDetail, counts *domain.StreetParkingCount) domain.StreetInventory {
	inv := domain.StreetInventory{
		ID:         street.ID,
		Name:       street.Name,
		AreaID:     street.AreaID,
		TotalCount: len(spots),
		Spots:      spots,
	}
	if inv.Spots == nil {
		inv.Spots = []domain.ParkingSpotDetail{}
	}
	if counts != nil {
		inv.GreenCount = counts.GreenCount
		inv.YellowCount = counts.YellowCount
		inv.RedCount = counts.RedCount
		inv.DisableCount = counts.DisableCount
		inv.AvailableCount = counts.AvailableCount
	}
	return inv
}

// ListAreas returns every area with its parking totals. When origin is set the
// areas are ranked nearest first and carry their distance in kilometres.
func (s *InventoryService) ListAreas(ctx context.Context, origin *domain.GeoPoint) ([]domain.AreaSummary, error) {
	areas, err := s.areaRepo.ParkingInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("InventoryService.ListAreas: %w", err)
	}
	if origin == nil {
		return areas, nil
	}

	for i := range areas {
		d := Haversine(origin.Latitude, origin.Longitude, areas[i].Latitude, areas[i].Longitude)
		areas[i].DistanceKm = &d
	}
	sort.SliceStable(areas, func(i, j int) bool {
		return *areas[i].DistanceKm < *areas[j].DistanceKm
	})
	return areas, nil
}

// Haversine returns the great-circle distance in kilometres.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	rad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := rad(lat2 - lat1)
	dLon := rad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
