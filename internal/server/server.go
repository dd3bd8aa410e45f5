// Package server exposes the chat service over HTTP.
package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v5"

	"github.com/lunawell/luna/internal/metrics"
	"github.com/lunawell/luna/internal/models"
	"github.com/lunawell/luna/internal/service"
	"github.com/lunawell/luna/internal/store"
)

// Server wires the REST surface to the store and the chat orchestrator.
type Server struct {
	echo     *echo.Echo
	store    store.Store
	chat     *service.ChatService
	metrics  *metrics.Collector
	logger   *slog.Logger
	validate *validator.Validate
}

// successResponse is the body returned by delete operations.
type successResponse struct {
	Success bool `json:"success"`
}

// New creates the HTTP server and registers all routes.
func New(st store.Store, chat *service.ChatService, collector *metrics.Collector, logger *slog.Logger) *Server {
	if collector == nil {
		collector = metrics.NewCollector()
	}

	s := &Server{
		echo:     echo.New(),
		store:    st,
		chat:     chat,
		metrics:  collector,
		logger:   logger,
		validate: validator.New(),
	}

	s.echo.Use(RequestLogger(logger))
	s.registerRoutes()

	return s
}

// Handler returns the server as an http.Handler for mounting.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) registerRoutes() {
	s.echo.GET("/healthz", s.handleHealth)

	api := s.echo.Group("/api")
	api.POST("/chat", s.handleChat)
	api.GET("/conversations", s.listConversations)
	api.GET("/conversations/:id", s.getConversation)
	api.DELETE("/conversations/:id", s.deleteConversation)
	api.DELETE("/conversations", s.clearConversations)
	api.GET("/resources", s.listResources)
	api.POST("/resources", s.createResource)
	api.GET("/stats", s.handleStats)
	api.GET("/ws", s.handleChatSocket)
}

func (s *Server) handleHealth(c *echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func (s *Server) handleChat(c *echo.Context) error {
	var req models.ChatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := s.validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "message required")
	}

	resp, err := s.chat.Chat(c.Request().Context(), req)
	if err != nil {
		s.logger.Error("chat turn failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate response")
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) listConversations(c *echo.Context) error {
	convs, err := s.store.ListConversations(c.Request().Context())
	if err != nil {
		s.logger.Error("list conversations failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch conversations")
	}
	return c.JSON(http.StatusOK, convs)
}

func (s *Server) getConversation(c *echo.Context) error {
	conv, err := s.store.GetConversation(c.Request().Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Conversation not found")
	}
	if err != nil {
		s.logger.Error("get conversation failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch conversation")
	}
	return c.JSON(http.StatusOK, conv)
}

func (s *Server) deleteConversation(c *echo.Context) error {
	deleted, err := s.store.DeleteConversation(c.Request().Context(), c.Param("id"))
	if err != nil {
		s.logger.Error("delete conversation failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete conversation")
	}
	if !deleted {
		return echo.NewHTTPError(http.StatusNotFound, "Conversation not found")
	}
	return c.JSON(http.StatusOK, successResponse{Success: true})
}

func (s *Server) clearConversations(c *echo.Context) error {
	if err := s.store.DeleteAllConversations(c.Request().Context()); err != nil {
		s.logger.Error("clear conversations failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to clear conversations")
	}
	return c.JSON(http.StatusOK, successResponse{Success: true})
}

func (s *Server) listResources(c *echo.Context) error {
	ctx := c.Request().Context()

	var (
		resources []*models.Resource
		err       error
	)
	if category := c.QueryParam("category"); category != "" {
		resources, err = s.store.ListResourcesByCategory(ctx, category)
	} else {
		resources, err = s.store.ListResources(ctx)
	}
	if err != nil {
		s.logger.Error("list resources failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch resources")
	}
	return c.JSON(http.StatusOK, resources)
}

func (s *Server) createResource(c *echo.Context) error {
	var resource models.Resource
	if err := c.Bind(&resource); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if resource.Title == "" || resource.Category == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title and category required")
	}

	created, err := s.store.CreateResource(c.Request().Context(), resource)
	if err != nil {
		s.logger.Error("create resource failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create resource")
	}
	return c.JSON(http.StatusCreated, created)
}

func (s *Server) handleStats(c *echo.Context) error {
	return c.JSON(http.StatusOK, s.metrics.Snapshot())
}
