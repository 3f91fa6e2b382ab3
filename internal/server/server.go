// Package server is the HTTP surface of the dashboard: a JSON API the SPA
// frontend talks to.
package server

import (
	"net/http"
	"time"

	"coop_crm/internal/apperr"
	"coop_crm/internal/domain"
	"coop_crm/internal/service/auth"
	"coop_crm/internal/service/consult"
	"coop_crm/internal/service/customer"
	"coop_crm/internal/service/tasks"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

type Server struct {
	auth      *auth.Service
	consult   *consult.Service
	tasks     *tasks.Tracker
	customers *customer.Service
	tables    domain.TableSource
	audit     domain.AuditLog
	logger    *zap.Logger

	// viewed remembers the last customer each session looked at, so repeat
	// views of the same detail page produce one 조회 audit entry, not many.
	viewed *gocache.Cache
}

func New(authSvc *auth.Service, consultSvc *consult.Service, tracker *tasks.Tracker,
	customers *customer.Service, tables domain.TableSource, auditLog domain.AuditLog,
	logger *zap.Logger) *Server {
	return &Server{
		auth:      authSvc,
		consult:   consultSvc,
		tasks:     tracker,
		customers: customers,
		tables:    tables,
		audit:     auditLog,
		logger:    logger,
		viewed:    gocache.New(auth.DefaultSessionTTL, time.Hour),
	}
}

// Router wires all routes. Everything except login sits behind the session
// middleware.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, HeaderToken)
	r.Use(cors.New(corsCfg))

	api := r.Group("/api")
	api.POST("/login", s.handleLogin)

	authed := api.Group("", requireSession(s.auth))
	authed.POST("/logout", s.handleLogout)
	authed.GET("/feed", s.handleFeed)
	authed.GET("/customers", s.handleSearch)
	authed.GET("/customers/:id", s.handleCustomer)
	authed.PATCH("/customers/:id", s.handleCustomerUpdate)
	authed.GET("/customers/:id/finance", s.handleFinance)
	authed.GET("/customers/:id/consultations", s.handleHistory)
	authed.GET("/tags", s.handleTags)
	authed.POST("/consultations", s.handleSaveNote)
	authed.GET("/tasks", s.handleTasks)
	authed.POST("/tasks/complete", s.handleCompleteTask)
	authed.POST("/refresh", s.handleRefresh)

	return r
}

// fail maps an error kind to an HTTP status and writes the JSON error body.
func (s *Server) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch apperr.KindOf(err) {
	case apperr.ValidationFailed:
		status = http.StatusBadRequest
	case apperr.Unauthorized:
		status = http.StatusUnauthorized
	case apperr.NotFound:
		status = http.StatusNotFound
	case apperr.RemoteUnavailable:
		status = http.StatusBadGateway
	}
	if status >= http.StatusInternalServerError || status == http.StatusBadGateway {
		s.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error(), "kind": apperr.KindOf(err).String()})
}
