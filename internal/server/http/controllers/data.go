package controllers

import (
	"context"
	"errors"
	"net/http"

	viewsvc "github.com/ddvlanck/tree-index-1/internal/services/views"
	logpkg "github.com/ddvlanck/tree-index-1/pkg/log"
)

// DataController serves the TREE views under /data.
type DataController struct {
	views  *viewsvc.Service
	logger logpkg.Logger
}

// NewDataController creates a new data controller.
func NewDataController(views *viewsvc.Service, logger logpkg.Logger) *DataController {
	return &DataController{views: views, logger: logger}
}

// RegisterRoutes registers:
// - GET /data/{stream}
// - GET /data/{stream}/{fragmentation}
// - GET /data/{stream}/{fragmentation}/{bucket}
func (c *DataController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /data/{stream}", c.handleStream)
	mux.HandleFunc("GET /data/{stream}/{fragmentation}", c.handleFragmentation)
	mux.HandleFunc("GET /data/{stream}/{fragmentation}/{bucket}", c.handleBucket)
}

func (c *DataController) handleStream(w http.ResponseWriter, r *http.Request) {
	res, err := c.views.StreamView(r.Context(), r.PathValue("stream"), r.URL.Query().Get(viewsvc.SinceParam))
	c.respond(w, r, res, err)
}

func (c *DataController) handleFragmentation(w http.ResponseWriter, r *http.Request) {
	res, err := c.views.FragmentationView(r.Context(), r.PathValue("stream"), r.PathValue("fragmentation"))
	c.respond(w, r, res, err)
}

func (c *DataController) handleBucket(w http.ResponseWriter, r *http.Request) {
	res, err := c.views.BucketView(r.Context(),
		r.PathValue("stream"), r.PathValue("fragmentation"), r.PathValue("bucket"),
		r.URL.Query().Get(viewsvc.SinceParam))
	c.respond(w, r, res, err)
}

func (c *DataController) respond(w http.ResponseWriter, r *http.Request, res viewsvc.Result, err error) {
	if err != nil {
		status, message := statusFor(err)
		log := c.logger.WithContext(r.Context()).WithError(err)
		switch {
		case status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable:
			log.Error("view failed", logpkg.Str("path", r.URL.Path))
		default:
			log.Debug("view rejected", logpkg.Str("path", r.URL.Path), logpkg.Int("status", status))
		}
		writeError(w, status, message)
		return
	}
	if res.Redirect != "" {
		http.Redirect(w, r, res.Redirect, http.StatusMovedPermanently)
		return
	}
	if err := writeDocument(w, res.Document); err != nil {
		c.logger.WithContext(r.Context()).WithError(err).Error("write document", logpkg.Str("path", r.URL.Path))
	}
}

// statusFor maps view errors to a status and a fixed public message. The
// message never echoes the request, so an unknown and a disabled
// fragmentation produce byte-identical responses.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, viewsvc.ErrInvalidStreamName):
		return http.StatusNotFound, "stream name is invalid"
	case errors.Is(err, viewsvc.ErrInvalidFragmentation):
		return http.StatusNotFound, "fragmentation name is invalid"
	case errors.Is(err, viewsvc.ErrInvalidCursor):
		return http.StatusBadRequest, "since must be an ISO 8601 timestamp"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "request cancelled"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}
