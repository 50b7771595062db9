package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	agencypersistence "github.com/crewdir/crewdir/modules/agency/infrastructure/persistence"
	agencycontrollers "github.com/crewdir/crewdir/modules/agency/presentation/controllers"
	agencyservices "github.com/crewdir/crewdir/modules/agency/services"
	bulkimportcontrollers "github.com/crewdir/crewdir/modules/bulkimport/presentation/controllers"
	bulkimportservices "github.com/crewdir/crewdir/modules/bulkimport/services"
	claimpersistence "github.com/crewdir/crewdir/modules/claim/infrastructure/persistence"
	claimcontrollers "github.com/crewdir/crewdir/modules/claim/presentation/controllers"
	claimservices "github.com/crewdir/crewdir/modules/claim/services"
	requestpersistence "github.com/crewdir/crewdir/modules/request/infrastructure/persistence"
	requestcontrollers "github.com/crewdir/crewdir/modules/request/presentation/controllers"
	requestservices "github.com/crewdir/crewdir/modules/request/services"
	"github.com/crewdir/crewdir/pkg/configuration"
	"github.com/crewdir/crewdir/pkg/eventbus"
	"github.com/crewdir/crewdir/pkg/httpapi"
	"github.com/crewdir/crewdir/pkg/metrics"
	"github.com/crewdir/crewdir/pkg/middleware"
	"github.com/crewdir/crewdir/pkg/server"
)

type DefaultOptions struct {
	Logger        *logrus.Logger
	Configuration *configuration.Configuration
	Pool          *pgxpool.Pool
	EventBus      eventbus.EventBus
}

// Default assembles the directory service: repositories, services,
// controllers and the shared middleware stack.
func Default(options *DefaultOptions) (*server.HTTPServer, error) {
	conf := options.Configuration

	agencyRepo := agencypersistence.NewAgencyRepository()
	requestRepo := requestpersistence.NewLaborRequestRepository()
	claimRepo := claimpersistence.NewClaimRepository()

	agencyService := agencyservices.NewAgencyService(agencyRepo, options.EventBus)
	importService := bulkimportservices.NewImportService(agencyRepo, options.EventBus, conf.Import.MaxRows)
	requestService := requestservices.NewLaborRequestService(requestRepo, options.EventBus)
	claimService := claimservices.NewClaimService(claimRepo, agencyRepo, options.EventBus)

	if options.EventBus != nil {
		subscribeAuditLog(options.Logger, options.EventBus)
	}

	// The bulk import controller owns /api/agencies/template and must
	// register before the agency controller's /api/agencies/{id} route.
	controllers := []server.Controller{
		bulkimportcontrollers.NewBulkImportController(importService),
		agencycontrollers.NewAgencyAPIController(agencyService),
		requestcontrollers.NewLaborRequestController(requestService),
		claimcontrollers.NewClaimController(claimService),
	}
	if conf.Prometheus.Enabled {
		controllers = append(controllers, metrics.NewPrometheusController(conf.Prometheus.Path))
	}

	middlewares := []mux.MiddlewareFunc{
		middleware.WithLogger(options.Logger),
		middleware.WithPool(options.Pool),
		middleware.Cors(conf.Origin),
	}

	return &server.HTTPServer{
		Controllers:             controllers,
		Middlewares:             middlewares,
		NotFoundHandler:         notFound(),
		MethodNotAllowedHandler: methodNotAllowed(),
	}, nil
}

// subscribeAuditLog gives every domain event an in-process consumer so the
// operator log carries an audit trail of directory changes.
func subscribeAuditLog(logger *logrus.Logger, bus eventbus.EventBus) {
	bus.Subscribe(func(e *agencyservices.AgencyCreatedEvent) {
		logger.WithFields(logrus.Fields{
			"agency_id": e.ID,
			"name":      e.Name,
			"source":    e.Source,
		}).Info("agency created")
	})
	bus.Subscribe(func(e *bulkimportservices.ImportCompletedEvent) {
		logger.WithFields(logrus.Fields{
			"total":   e.Summary.Total,
			"created": e.Summary.Created,
			"skipped": e.Summary.Skipped,
			"failed":  e.Summary.Failed,
		}).Info("bulk import batch committed")
	})
	bus.Subscribe(func(e *requestservices.LaborRequestSubmittedEvent) {
		logger.WithFields(logrus.Fields{
			"request_id": e.ID,
			"trade":      e.Trade,
		}).Info("labor request submitted")
	})
	bus.Subscribe(func(e *claimservices.ClaimDecidedEvent) {
		logger.WithFields(logrus.Fields{
			"claim_id":  e.ID,
			"agency_id": e.AgencyID,
			"status":    e.Status,
		}).Info("agency claim decided")
	})
}

func notFound() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = httpapi.WriteError(w, http.StatusNotFound, "NOT_FOUND", "resource not found", nil)
	})
}

func methodNotAllowed() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = httpapi.WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed", nil)
	})
}
