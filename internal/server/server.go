// Package server exposes the assessment engine over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	pkgerrors "github.com/pkg/errors"

	"writing_assessor/internal/assess"
	"writing_assessor/internal/db"
	"writing_assessor/internal/logging"
)

const defaultHistoryLimit = 20

type Service struct {
	// embedded web server handling assessment requests
	e *echo.Echo
	// the unique name of this service when running multiple instances
	serviceName string
	// the unique id of this service when running multiple instances
	serviceID   string
	serviceHost string
	servicePort int
	bodyLimit   string

	engine *assess.Engine
	// optional, history routes are only registered when set
	store  *db.Store
	logger logging.Logger
}

// AssessRequest can be supplied as a json payload, form fields or query params.
type AssessRequest struct {
	Text                  string `json:"text" form:"text" query:"text"`
	TargetPromptWordCount int    `json:"targetPromptWordCount" form:"targetPromptWordCount" query:"targetPromptWordCount"`
	TargetPrompt          string `json:"targetPrompt" form:"targetPrompt" query:"targetPrompt"`
	// label stored with the record, e.g. a file name or student reference
	Source string `json:"source" form:"source" query:"source"`
}

type AssessResponse struct {
	ID          string        `json:"id,omitempty"`
	Result      assess.Result `json:"result"`
	ServiceID   string        `json:"serviceID"`
	ServiceName string        `json:"serviceName"`
}

func New(options ...Option) (*Service, error) {
	srvc := Service{}

	if err := srvc.setOptions(append(defaultOptions(), options...)...); err != nil {
		return nil, err
	}
	if srvc.servicePort == 0 {
		if err := srvc.setOptions(Port(0)); err != nil {
			return nil, err
		}
	}
	if srvc.engine == nil {
		srvc.engine = assess.New(assess.DefaultConfig(), nil, srvc.logger)
	}

	srvc.e = echo.New()
	srvc.e.HideBanner = true
	if g, ok := srvc.logger.(*logging.Gommon); ok {
		srvc.e.Logger = g.Backend()
	} else {
		srvc.e.Logger.SetLevel(log.INFO)
	}
	srvc.e.Use(middleware.BodyLimit(srvc.bodyLimit))
	srvc.e.Use(middleware.Recover())
	// pingable route to know we're up
	srvc.e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, "OK")
	})
	srvc.e.POST("/assess", srvc.buildAssessHandler())
	if srvc.store != nil {
		srvc.e.GET("/assessments", srvc.buildHistoryHandler())
		srvc.e.GET("/assessments/:id", srvc.buildRecordHandler())
	}

	return &srvc, nil
}

func (s *Service) Handler() http.Handler {
	return s.e
}

func (s *Service) Address() string {
	return fmt.Sprintf("%s:%d", s.serviceHost, s.servicePort)
}

// Start runs the server in the background. A listener failure raises SIGINT
// so the process shuts down through its signal handler.
func (s *Service) Start() {
	go func(addr string) {
		if err := s.e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Log(logging.Error, "HTTP", "server stopped", err.Error())
			p, _ := os.FindProcess(os.Getpid())
			p.Signal(os.Interrupt)
		}
	}(s.Address())
}

func (s *Service) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.e.Shutdown(ctx); err != nil {
		return pkgerrors.Wrap(err, "could not shut down server cleanly")
	}
	return nil
}

func (s *Service) buildAssessHandler() echo.HandlerFunc {
	sName := s.serviceName
	sID := s.serviceID

	return func(c echo.Context) error {
		req := &AssessRequest{}
		if err := c.Bind(req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}

		analysis, err := s.engine.Analyze(req.Text, assess.TaskContext{
			TargetPromptWordCount: req.TargetPromptWordCount,
			TargetPrompt:          req.TargetPrompt,
		})
		if err != nil {
			if assess.IsInputError(err) {
				return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
			}
			err = pkgerrors.Wrap(err, "assessment failed")
			s.logger.Log(logging.Error, "HTTP", "assessment failed", err.Error())
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}

		result := analysis.Result
		resp := AssessResponse{Result: result, ServiceID: sID, ServiceName: sName}
		if s.store != nil {
			source := req.Source
			if source == "" {
				source = "http"
			}
			rec, err := s.store.Save(source, analysis.Words, result)
			if err != nil {
				err = pkgerrors.Wrap(err, "cannot store assessment")
				s.logger.Log(logging.Error, "HTTP", "store failed", err.Error())
				return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
			}
			resp.ID = rec.ID
		}
		s.logger.Log(logging.Info, "HTTP", "assessment served",
			fmt.Sprintf("id=%s band=%s", resp.ID, result.CEFRLevel))

		return c.JSON(http.StatusOK, resp)
	}
}

func (s *Service) buildHistoryHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		limit := defaultHistoryLimit
		if raw := c.QueryParam("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				return echo.NewHTTPError(http.StatusBadRequest, "limit must be a non-negative integer")
			}
			limit = n
		}
		summaries, err := s.store.List(limit)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, pkgerrors.Wrap(err, "cannot list assessments").Error())
		}
		return c.JSON(http.StatusOK, summaries)
	}
}

func (s *Service) buildRecordHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		rec, err := s.store.Get(c.Param("id"))
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return echo.NewHTTPError(http.StatusNotFound, err.Error())
			}
			return echo.NewHTTPError(http.StatusInternalServerError, pkgerrors.Wrap(err, "cannot load assessment").Error())
		}
		return c.JSON(http.StatusOK, rec)
	}
}

func (s *Service) PrintConfig(w io.Writer) {
	fmt.Fprintln(w, "\n\tCEFR Assessment Service Configuration")
	fmt.Fprintln(w, "\t-------------------------------------")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "\tservice name:\t\t", s.serviceName)
	fmt.Fprintln(w, "\tservice ID:\t\t", s.serviceID)
	fmt.Fprintln(w, "\tservice host:\t\t", s.serviceHost)
	fmt.Fprintln(w, "\tservice port:\t\t", s.servicePort)
	fmt.Fprintln(w, "\tbody limit:\t\t", s.bodyLimit)
	fmt.Fprintln(w, "\thistory enabled:\t", s.store != nil)
}
