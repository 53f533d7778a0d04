package api

import (
	"net/http"

	"parking_enforcement/internal/api/handler"
	"parking_enforcement/internal/api/middleware"
	"parking_enforcement/internal/domain"
	"parking_enforcement/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

// Services bundles everything the HTTP layer routes to.
type Services struct {
	Auth        *service.AuthService
	Parking     *service.ParkingService
	Inventory   *service.InventoryService
	Reports     *service.ReportService
	Compounds   *service.CompoundService
	Officials   *service.OfficialService
	Transaction *service.TransactionService
}

func SetupRouter(svc Services, authMw *middleware.AuthMiddleware, wsHandler *handler.WebSocketHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	city := authMw.AuthorizeRole(string(domain.OfficialCity))
	anyOfficial := authMw.AuthorizeRole(string(domain.OfficialCity), string(domain.OfficialEnforcement))

	authHandler := handler.NewAuthHandler(svc.Auth)
	r.POST("/auth/login", authHandler.Login)

	ws := r.Group("/ws")
	ws.Use(authMw.Authenticate(), anyOfficial)
	{
		ws.GET("", wsHandler.HandleWebSocket)
		ws.GET("/sessions/:id/countdown", wsHandler.HandleCountdown)
	}

	v1 := r.Group("/api/v1")
	v1.Use(authMw.Authenticate(), anyOfficial)
	{
		v1.POST("/functions/create-account", city, authHandler.CreateAccount)

		me := v1.Group("/me")
		{
			me.GET("", authHandler.Me)
			me.PUT("/password", authHandler.ChangePassword)
			me.GET("/menu", authHandler.Menu)
		}

		areaH := handler.NewAreaHandler(svc.Parking, svc.Inventory)
		areaRoutes := v1.Group("/areas")
		{
			areaRoutes.GET("", areaH.ListAreas)
			areaRoutes.GET("/:id", areaH.GetArea)
			areaRoutes.GET("/:id/inventory", areaH.GetInventory)
			areaRoutes.GET("/:id/streets", areaH.GetStreets)
			areaRoutes.POST("", city, areaH.CreateArea)
			areaRoutes.PUT("/:id", city, areaH.UpdateArea)
			areaRoutes.DELETE("/:id", city, areaH.DeleteArea)
		}

		streetH := handler.NewStreetHandler(svc.Parking)
		streetRoutes := v1.Group("/streets")
		{
			streetRoutes.GET("/:id", streetH.GetStreet)
			streetRoutes.GET("/:id/spots", streetH.GetSpots)
			streetRoutes.POST("", city, streetH.CreateStreet)
			streetRoutes.PUT("/:id", city, streetH.UpdateStreet)
			streetRoutes.DELETE("/:id", city, streetH.DeleteStreet)
		}

		spotH := handler.NewSpotHandler(svc.Parking)
		spotRoutes := v1.Group("/spots")
		{
			spotRoutes.GET("/:id", spotH.GetSpot)
			spotRoutes.PATCH("/:id/availability", spotH.SetAvailability)
			spotRoutes.POST("", city, spotH.CreateSpot)
			spotRoutes.PUT("/:id", city, spotH.UpdateSpot)
			spotRoutes.DELETE("/:id", city, spotH.DeleteSpot)
		}

		sessionH := handler.NewParkingSessionHandler(svc.Parking)
		sessionRoutes := v1.Group("/sessions")
		{
			sessionRoutes.GET("", sessionH.FindSessions)
			sessionRoutes.GET("/active/:plate", sessionH.GetActiveByPlate)
			sessionRoutes.GET("/:id", sessionH.GetSession)
			sessionRoutes.POST("", sessionH.CreateSession)
			sessionRoutes.POST("/:id/end", sessionH.EndSession)
			sessionRoutes.POST("/:id/cancel", sessionH.CancelSession)
		}

		reportH := handler.NewReportHandler(svc.Reports)
		reportRoutes := v1.Group("/reports")
		{
			reportRoutes.GET("", reportH.FindReports)
			reportRoutes.GET("/:id", reportH.GetReport)
			reportRoutes.GET("/:id/image", reportH.GetReportImage)
			reportRoutes.POST("", reportH.CreateReport)
			reportRoutes.PATCH("/:id/status", reportH.UpdateReportStatus)
			reportRoutes.DELETE("/:id", city, reportH.DeleteReport)
		}

		compoundH := handler.NewCompoundHandler(svc.Compounds)
		v1.GET("/violations", compoundH.GetViolations)
		v1.GET("/violations/:id", compoundH.GetViolation)
		compoundRoutes := v1.Group("/compounds")
		{
			compoundRoutes.GET("", compoundH.FindCompounds)
			compoundRoutes.GET("/:id", compoundH.GetCompound)
			compoundRoutes.POST("", compoundH.IssueCompound)
			compoundRoutes.POST("/recognize-plate", compoundH.RecognizePlate)
			compoundRoutes.POST("/:id/pay", compoundH.PayCompound)
			compoundRoutes.POST("/:id/cancel", compoundH.CancelCompound)
		}

		officialH := handler.NewOfficialHandler(svc.Officials)
		officialRoutes := v1.Group("/officials")
		officialRoutes.Use(city)
		{
			officialRoutes.GET("", officialH.GetOfficials)
			officialRoutes.GET("/:id", officialH.GetOfficial)
			officialRoutes.PUT("/:id", officialH.UpdateOfficial)
			officialRoutes.DELETE("/:id", officialH.DeleteOfficial)
		}

		transactionH := handler.NewTransactionHandler(svc.Transaction)
		transactionRoutes := v1.Group("/transactions")
		transactionRoutes.Use(city)
		{
			transactionRoutes.GET("", transactionH.FindTransactions)
			transactionRoutes.GET("/:id", transactionH.GetTransaction)
			transactionRoutes.POST("", transactionH.CreateTransaction)
		}
	}
	return r
}

// WithCORS wraps the engine for the mobile and web clients.
func WithCORS(h http.Handler, allowedOrigins []string) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Content-Length", "Accept-Encoding", "X-CSRF-Token", "Authorization"},
		AllowCredentials: true,
	})
	return c.Handler(h)
}
