package controllers

import (
	"net/http"

	viewsvc "github.com/ddvlanck/tree-index-1/internal/services/views"
	logpkg "github.com/ddvlanck/tree-index-1/pkg/log"
)

// ControllerRegistry manages all HTTP controllers.
//
// It provides a centralized way to register all controller routes
// and manages the lifecycle of individual controllers.
type ControllerRegistry struct {
	general *GeneralController
	data    *DataController
}

// NewControllerRegistry creates a new controller registry. metrics may be nil.
func NewControllerRegistry(health HealthChecker, views *viewsvc.Service, metrics http.Handler, logger logpkg.Logger) *ControllerRegistry {
	return &ControllerRegistry{
		general: NewGeneralController(health, metrics),
		data:    NewDataController(views, logger),
	}
}

// RegisterAllRoutes registers all controller routes with the given mux.
func (r *ControllerRegistry) RegisterAllRoutes(mux *http.ServeMux) {
	r.general.RegisterRoutes(mux)
	r.data.RegisterRoutes(mux)
}
