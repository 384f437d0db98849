package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/italianshoes/catalog/app/analytics"
	"github.com/italianshoes/catalog/app/api"
	"github.com/italianshoes/catalog/app/auth"
	"github.com/italianshoes/catalog/app/catalog"
	"github.com/italianshoes/catalog/app/materials"
	"github.com/italianshoes/catalog/app/metrics"
	"github.com/italianshoes/catalog/app/options"
	"github.com/italianshoes/catalog/app/settings"
	"github.com/italianshoes/catalog/app/sizes"
	"github.com/italianshoes/catalog/app/soles"
	"github.com/italianshoes/catalog/app/styles"
	"github.com/italianshoes/catalog/app/variants"
	"github.com/italianshoes/catalog/models"
)

// Deps are the collaborators the HTTP surface is built from.
type Deps struct {
	DB              *gorm.DB
	SettingsStore   settings.Store
	Authorizer      auth.Authorizer
	Registry        *prometheus.Registry
	Logger          *zap.Logger
	// MaxCombinations caps one generation run. Zero keeps the generator
	// default and a negative value removes the cap.
	MaxCombinations int
}

// NewRouter wires repositories, handlers and middleware into one handler.
func NewRouter(d Deps) http.Handler {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	admin := auth.RequireAdmin(d.Authorizer, logger)

	productsRepo := models.NewProductsRepository(d.DB)
	optionsRepo := models.NewOptionsRepository(d.DB)
	variantsRepo := models.NewVariantsRepository(d.DB)
	sizesRepo := models.NewSizesRepository(d.DB)
	analyticsRepo := models.NewAnalyticsRepository(d.DB)

	genOpts := []variants.Option{
		variants.WithLogger(logger.Named("variants")),
		variants.WithRecorder(metrics.NewGeneration(d.Registry)),
	}
	if d.MaxCombinations != 0 {
		genOpts = append(genOpts, variants.WithMaxCombinations(d.MaxCombinations))
	}
	generator := variants.NewGenerator(variantsRepo, genOpts...)

	catalogHandler := catalog.NewCatalogHandler(productsRepo, logger)
	optionsHandler := options.NewOptionsHandler(optionsRepo, logger)
	variantsHandler := variants.NewVariantsHandler(generator, variantsRepo, logger)
	sizesHandler := sizes.NewSizeHandler(sizesRepo, logger)
	stylesHandler := styles.NewStyleHandler(models.NewStylesRepository(d.DB), logger)
	solesHandler := soles.NewSoleHandler(models.NewSolesRepository(d.DB), logger)
	materialsHandler := materials.NewMaterialHandler(models.NewMaterialsRepository(d.DB), logger)
	settingsHandler := settings.NewSettingsHandler(settings.NewService(d.SettingsStore), logger)
	analyticsHandler := analytics.NewAnalyticsHandler(analyticsRepo, logger)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		api.OKResponse(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle("GET /metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))

	mux.HandleFunc("GET /products", catalogHandler.HandleGet)
	mux.Handle("POST /products", admin(http.HandlerFunc(catalogHandler.HandleCreate)))
	mux.HandleFunc("GET /products/{id}", catalogHandler.HandleGetProduct)
	mux.Handle("PUT /products/{id}", admin(http.HandlerFunc(catalogHandler.HandleUpdate)))
	mux.Handle("DELETE /products/{id}", admin(http.HandlerFunc(catalogHandler.HandleDelete)))

	mux.HandleFunc("GET /products/{id}/options", optionsHandler.HandleList)
	mux.Handle("POST /products/{id}/options", admin(http.HandlerFunc(optionsHandler.HandleCreate)))
	mux.Handle("POST /products/{id}/options/{optionId}/values", admin(http.HandlerFunc(optionsHandler.HandleCreateValue)))
	mux.Handle("PATCH /products/{id}/options/{optionId}/values/{valueId}", admin(http.HandlerFunc(optionsHandler.HandleUpdateValue)))

	mux.HandleFunc("GET /products/{id}/variants", variantsHandler.HandleList)
	mux.Handle("POST /products/{id}/variants", admin(http.HandlerFunc(variantsHandler.HandleGenerate)))

	mux.HandleFunc("GET /sizes", sizesHandler.HandleGetAll)
	mux.Handle("POST /sizes", admin(http.HandlerFunc(sizesHandler.HandleCreate)))
	mux.Handle("POST /sizes/bulk", admin(http.HandlerFunc(sizesHandler.HandleBulkCreate)))

	mux.HandleFunc("GET /styles", stylesHandler.HandleGetAll)
	mux.HandleFunc("GET /styles/active", stylesHandler.HandleGetActive)
	mux.Handle("POST /styles", admin(http.HandlerFunc(stylesHandler.HandleCreate)))

	mux.HandleFunc("GET /soles", solesHandler.HandleGetAll)
	mux.HandleFunc("GET /soles/active", solesHandler.HandleGetActive)
	mux.Handle("POST /soles", admin(http.HandlerFunc(solesHandler.HandleCreate)))

	mux.HandleFunc("GET /materials/colors", materialsHandler.HandleGetColors)
	mux.Handle("POST /materials/colors", admin(http.HandlerFunc(materialsHandler.HandleCreateColor)))

	mux.HandleFunc("GET /settings", settingsHandler.HandleGet)
	mux.Handle("PUT /settings", admin(http.HandlerFunc(settingsHandler.HandleUpdate)))

	mux.Handle("GET /analytics/overview", admin(http.HandlerFunc(analyticsHandler.HandleOverview)))

	return logRequests(logger, mux)
}
