package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"SMACrossover/internal/model"
	"SMACrossover/internal/recorder"
	"SMACrossover/internal/runner"
)

// Server exposes backtests over HTTP.
type Server struct {
	Runner   *runner.Runner
	Recorder recorder.Recorder
	http     *http.Server
}

// NewServer builds the router and an http.Server listening on addr.
func NewServer(addr string, r *runner.Runner, rec recorder.Recorder) *Server {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	s := &Server{Runner: r, Recorder: rec}
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the CORS-wrapped gin router.
func (s *Server) Handler() http.Handler {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(ErrorHandler())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	{
		v1.POST("/backtest", s.runBacktest)
		v1.GET("/runs", s.listRuns)
		v1.GET("/runs/:id/frame", s.runCurves)
	}

	router.NoRoute(func(c *gin.Context) {
		abortWith(c, http.StatusNotFound, "NOT_FOUND", "no route for %s", c.Request.URL.Path)
	})
	return withCORS(router)
}

// ListenAndServe blocks until the server stops. http.ErrServerClosed is not an error.
func (s *Server) ListenAndServe() error {
	log.Printf("[INFO] API server listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("api server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// runBacktest handles POST /api/v1/backtest
func (s *Server) runBacktest(c *gin.Context) {
	var req BacktestRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		abortWith(c, http.StatusBadRequest, "INVALID_REQUEST", "%v", err)
		return
	}

	r, err := s.Runner.WithParams(req.apply(s.Runner.Engine.Params))
	if err != nil {
		abortWith(c, http.StatusBadRequest, "INVALID_PARAMS", "%v", err)
		return
	}

	res, err := r.Run(c.Request.Context())
	if err != nil {
		status, code := classify(err)
		if status == http.StatusInternalServerError {
			log.Printf("[ERROR] api backtest: %v", err)
		}
		abortWith(c, status, code, "%v", err)
		return
	}

	out := *res
	if !req.IncludeFrame {
		out.Frame = nil
	}
	c.JSON(http.StatusOK, BacktestResponse{Status: "ok", Result: &out})
}

// listRuns handles GET /api/v1/runs
func (s *Server) listRuns(c *gin.Context) {
	limit := 20
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			abortWith(c, http.StatusBadRequest, "INVALID_LIMIT", "limit must be a positive integer, got %q", v)
			return
		}
		limit = n
	}

	runs, err := s.Recorder.ListRuns(c.Request.Context(), limit)
	if err != nil {
		log.Printf("[ERROR] api list runs: %v", err)
		abortWith(c, http.StatusInternalServerError, "STORAGE_ERROR", "%v", err)
		return
	}
	if runs == nil {
		runs = []recorder.RunSummary{}
	}
	c.JSON(http.StatusOK, RunsResponse{Runs: runs})
}

// runCurves handles GET /api/v1/runs/:id/frame
func (s *Server) runCurves(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		abortWith(c, http.StatusBadRequest, "INVALID_RUN_ID", "run id must be a positive integer, got %q", c.Param("id"))
		return
	}

	frame, err := s.Recorder.LoadFrame(c.Request.Context(), id)
	if err != nil {
		log.Printf("[ERROR] api load frame %d: %v", id, err)
		abortWith(c, http.StatusInternalServerError, "STORAGE_ERROR", "%v", err)
		return
	}
	if len(frame) == 0 {
		abortWith(c, http.StatusNotFound, "RUN_NOT_FOUND", "no recorded frame for run %d", id)
		return
	}

	times := make([]time.Time, len(frame))
	for i, row := range frame {
		times[i] = row.Time
	}
	c.JSON(http.StatusOK, CurvesResponse{
		RunID:             id,
		Times:             times,
		CumReturn:         frame.CumReturns(),
		CumStrategyReturn: frame.CumStrategyReturns(),
	})
}

// classify maps engine failures onto HTTP status codes.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, model.ErrInsufficientData):
		return http.StatusUnprocessableEntity, "INSUFFICIENT_DATA"
	case errors.Is(err, model.ErrDivisionByZero):
		return http.StatusUnprocessableEntity, "DIVISION_BY_ZERO"
	case errors.Is(err, model.ErrDegenerateRange):
		return http.StatusUnprocessableEntity, "DEGENERATE_RANGE"
	case errors.Is(err, model.ErrNonFiniteResult):
		return http.StatusUnprocessableEntity, "NON_FINITE_RESULT"
	case errors.Is(err, model.ErrNonPositivePrice):
		return http.StatusUnprocessableEntity, "NON_POSITIVE_PRICE"
	case errors.Is(err, model.ErrUnorderedSeries):
		return http.StatusUnprocessableEntity, "UNORDERED_SERIES"
	case errors.Is(err, model.ErrInvalidParams):
		return http.StatusBadRequest, "INVALID_PARAMS"
	default:
		return http.StatusInternalServerError, "BACKTEST_FAILED"
	}
}
