package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"parking_enforcement/internal/domain"
	"parking_enforcement/internal/repository"
	"parking_enforcement/internal/repository/postgresql"
	"parking_enforcement/internal/service"

	"github.com/jaswdr/faker"
	"github.com/spf13/cobra"
)

var (
	seedAreas          int
	seedStreetsPerArea int
	seedSpotsPerStreet int
	seedAdminEmail     string
	seedAdminPassword  string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill the database with demo areas, streets, spots and violations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := postgresql.NewDB(cfg)
		if err != nil {
			return err
		}
		defer db.Close()
		return seed(cmd.Context(), db)
	},
}

func init() {
	seedCmd.Flags().IntVar(&seedAreas, "areas", 3, "Number of areas to create")
	seedCmd.Flags().IntVar(&seedStreetsPerArea, "streets", 4, "Streets per area")
	seedCmd.Flags().IntVar(&seedSpotsPerStreet, "spots", 10, "Parking spots per street")
	seedCmd.Flags().StringVar(&seedAdminEmail, "admin-email", "admin@city.gov.my", "Email of the seeded city official")
	seedCmd.Flags().StringVar(&seedAdminPassword, "admin-password", "change-me", "Password of the seeded city official")
}

// Kuala Lumpur city centre; demo areas are scattered around it.
const (
	seedBaseLat = 3.1478
	seedBaseLon = 101.6953
)

var seedViolations = []domain.Violation{
	{Code: "P01", Section: "Sec 48(1)", Description: "Parking without a valid session", FineTier1: 30, FineTier2: 50, FineTier3: 80, FineTier4: 100},
	{Code: "P02", Section: "Sec 48(2)", Description: "Parking outside marked bay", FineTier1: 50, FineTier2: 80, FineTier3: 100, FineTier4: 150},
	{Code: "P03", Section: "Sec 52", Description: "Parking in a disabled bay without permit", FineTier1: 100, FineTier2: 150, FineTier3: 200, FineTier4: 300},
	{Code: "P04", Section: "Sec 53", Description: "Obstructing traffic", FineTier1: 80, FineTier2: 100, FineTier3: 150, FineTier4: 200},
}

var seedSpotTypes = []string{
	string(domain.SpotGreen), string(domain.SpotGreen), string(domain.SpotGreen),
	string(domain.SpotYellow), string(domain.SpotRed), string(domain.SpotDisable),
}

func seed(ctx context.Context, db *sql.DB) error {
	fake := faker.New()

	areaRepo := postgresql.NewPgAreaRepository(db)
	streetRepo := postgresql.NewPgStreetRepository(db)
	spotRepo := postgresql.NewPgParkingSpotRepository(db)

	for i := 0; i < seedAreas; i++ {
		area, err := areaRepo.Create(ctx, &domain.Area{
			Name:      fmt.Sprintf("%s %d", fake.Address().City(), i+1),
			Latitude:  seedBaseLat - 0.05 + fake.Float64(6, 0, 100)/1000,
			Longitude: seedBaseLon - 0.05 + fake.Float64(6, 0, 100)/1000,
		})
		if err != nil {
			return fmt.Errorf("seeding area: %w", err)
		}

		for j := 0; j < seedStreetsPerArea; j++ {
			street, err := streetRepo.Create(ctx, &domain.Street{
				Name:   fmt.Sprintf("%s %d", fake.Address().StreetName(), j+1),
				AreaID: area.ID,
			})
			if err != nil {
				return fmt.Errorf("seeding street: %w", err)
			}

			for k := 0; k < seedSpotsPerStreet; k++ {
				_, err := spotRepo.Create(ctx, &domain.ParkingSpot{
					StreetID:    street.ID,
					Latitude:    area.Latitude - 0.005 + fake.Float64(6, 0, 10)/1000,
					Longitude:   area.Longitude - 0.005 + fake.Float64(6, 0, 10)/1000,
					Type:        domain.SpotType(fake.RandomStringElement(seedSpotTypes)),
					IsAvailable: fake.IntBetween(0, 3) > 0,
				})
				if err != nil {
					return fmt.Errorf("seeding spot: %w", err)
				}
			}
		}
		logger.Infow("seeded area", "area", area.Name, "streets", seedStreetsPerArea, "spots_per_street", seedSpotsPerStreet)
	}

	for _, v := range seedViolations {
		_, err := db.ExecContext(ctx,
			`INSERT INTO violations (code, section, description, fine_tier1, fine_tier2, fine_tier3, fine_tier4)
			 VALUES ($1, $2, $3, $4, $5, $6, $7) ON CONFLICT (code) DO NOTHING`,
			v.Code, v.Section, v.Description, v.FineTier1, v.FineTier2, v.FineTier3, v.FineTier4)
		if err != nil {
			return fmt.Errorf("seeding violation %s: %w", v.Code, err)
		}
	}

	authService := service.NewAuthService(postgresql.NewPgUserRepository(db), postgresql.NewPgOfficialRepository(db),
		cfg.JWTSecret, cfg.JWTExpirationHours, logger)
	_, err := authService.CreateAccount(ctx, domain.CreateAccountDTO{
		Email:      seedAdminEmail,
		Password:   seedAdminPassword,
		Name:       fake.Person().Name(),
		OfficialID: fmt.Sprintf("DBKL-%04d", fake.IntBetween(1, 9999)),
		Type:       string(domain.OfficialCity),
	})
	switch {
	case err == nil:
		logger.Infow("seeded city official", "email", seedAdminEmail)
	case errors.Is(err, repository.ErrDuplicateEntry):
		logger.Infow("city official already exists", "email", seedAdminEmail)
	default:
		return fmt.Errorf("seeding city official: %w", err)
	}
	return nil
}
