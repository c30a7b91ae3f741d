package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"realtor_ads_automation/generator"
	"realtor_ads_automation/googleads"
	"realtor_ads_automation/logging"
)

// requestTimeout bounds handlers that call the LLM or Google Ads.
const requestTimeout = 60 * time.Second

// AccountService creates Google Ads accounts and campaigns.
type AccountService interface {
	CreateAccount(ctx context.Context) (string, error)
	CreateCampaign(ctx context.Context, customerID, name string) (string, error)
}

// Server serves ad sessions, EV scoring and Google Ads setup over HTTP.
type Server struct {
	agent    *generator.Agent
	scorer   *generator.Scorer
	accounts AccountService
	store    *sessionStore
	logger   *zap.Logger
}

type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*generator.Session
}

func newStore() *sessionStore {
	return &sessionStore{sessions: make(map[string]*generator.Session)}
}

func (s *sessionStore) set(id string, sess *generator.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = sess
}

func (s *sessionStore) get(id string) (*generator.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// New wires the HTTP surface. accounts may be nil when Google Ads is not configured.
func New(agent *generator.Agent, scorer *generator.Scorer, accounts AccountService, logger *zap.Logger) (*Server, error) {
	if agent == nil {
		return nil, errors.New("generator agent required")
	}
	if scorer == nil {
		return nil, errors.New("ev scorer required")
	}
	return &Server{
		agent:    agent,
		scorer:   scorer,
		accounts: accounts,
		store:    newStore(),
		logger:   logging.OrNop(logger),
	}, nil
}

// Routes builds the echo router.
func (s *Server) Routes() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = s.errorHandler
	e.Use(middleware.Recover())
	e.Use(s.requestLogger())

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api")
	api.POST("/ads", s.handleAdCreate)
	api.GET("/ads/:id", s.handleAdGet)
	api.POST("/ads/:id/regenerate", s.handleAdRegenerate)
	api.POST("/ev", s.handleEV)
	api.POST("/accounts", s.handleAccountCreate)
	api.POST("/accounts/:id/campaigns", s.handleCampaignCreate)
	return e
}

// --- Handlers ---

type adCreateReq struct {
	Information []string `json:"information"`
}

type evReq struct {
	RealtorEmail string            `json:"realtor_email"`
	Emails       []generator.Email `json:"emails"`
}

type evResp struct {
	EV int `json:"ev"`
}

type campaignReq struct {
	Name string `json:"name"`
}

func (s *Server) handleAdCreate(c echo.Context) error {
	var req adCreateReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	info := make(generator.Information, 0, len(req.Information))
	for _, line := range req.Information {
		if line = strings.TrimSpace(line); line != "" {
			info = append(info, line)
		}
	}
	if len(info) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "information is required")
	}

	id := uuid.NewString()
	sess := generator.NewSession(id, info, s.agent)
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()
	_, err := sess.Propose(ctx)
	// failed attempts are kept so the caller can regenerate
	s.store.set(id, sess)
	c.Response().Header().Set("X-Session-ID", id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, sess.View())
}

func (s *Server) handleAdGet(c echo.Context) error {
	sess, err := s.session(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sess.View())
}

func (s *Server) handleAdRegenerate(c echo.Context) error {
	sess, err := s.session(c)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()
	if _, err := sess.Regenerate(ctx); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sess.View())
}

func (s *Server) handleEV(c echo.Context) error {
	var req evReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.RealtorEmail == "" || len(req.Emails) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "realtor_email and emails are required")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()
	ev, err := s.scorer.ScoreEmails(ctx, req.RealtorEmail, req.Emails)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, evResp{EV: ev})
}

func (s *Server) handleAccountCreate(c echo.Context) error {
	if s.accounts == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "google ads is not configured")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()
	id, err := s.accounts.CreateAccount(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]string{"customer_id": id})
}

func (s *Server) handleCampaignCreate(c echo.Context) error {
	if s.accounts == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "google ads is not configured")
	}
	var req campaignReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()
	resource, err := s.accounts.CreateCampaign(ctx, c.Param("id"), req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]string{"resource_name": resource})
}

// --- Helpers ---

func (s *Server) session(c echo.Context) (*generator.Session, error) {
	sess, ok := s.store.get(c.Param("id"))
	if !ok {
		return nil, echo.NewHTTPError(http.StatusNotFound, "session not found")
	}
	return sess, nil
}

type errorResp struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
	Body  string `json:"provider_body,omitempty"`
}

func (s *Server) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	status := http.StatusInternalServerError
	resp := errorResp{Error: err.Error()}

	var (
		he *echo.HTTPError
		ve *generator.ValidationError
		pe *generator.ProviderError
		ae *googleads.APIError
	)
	switch {
	case errors.As(err, &he):
		status = he.Code
		if msg, ok := he.Message.(string); ok {
			resp.Error = msg
		}
	case errors.As(err, &ve):
		status = http.StatusUnprocessableEntity
		resp.Kind = "validation"
	case errors.As(err, &pe):
		status = http.StatusBadGateway
		resp.Kind = "provider"
		resp.Body = pe.Body
	case errors.Is(err, generator.ErrInvalidScore):
		status = http.StatusBadGateway
		resp.Kind = "invalid_score"
	case errors.As(err, &ae):
		s.logger.Warn("google ads request failed", zap.String("path", c.Path()), zap.Error(err))
		status = http.StatusBadGateway
		resp.Kind = "google_ads"
	default:
		s.logger.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	}
	if err := c.JSON(status, resp); err != nil {
		s.logger.Warn("write error response", zap.Error(err))
	}
}

func (s *Server) requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogMethod:  true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			s.logger.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency))
			return nil
		},
	})
}
