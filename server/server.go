// Package server exposes the converter over HTTP: a single endpoint that
// accepts an RDLT description and answers with the full conversion payload.
package server

import (
	"fmt"
	"net/http"

	"github.com/L8zn/CMSC-199.2-Thesis/convert"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Server struct {
	logger   *zap.Logger
	maxSteps int
	engine   *gin.Engine
}

// ConvertRequest is the request body of POST /api/convert. Extend defaults
// to true.
type ConvertRequest struct {
	Input  string `json:"input" binding:"required"`
	Extend *bool  `json:"extend,omitempty"`
}

// New builds the router. A maxSteps of zero keeps the simulator default.
func New(logger *zap.Logger, maxSteps int) *Server {
	s := &Server{logger: logger, maxSteps: maxSteps}
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.POST("/api/convert", s.handleConvert)
	engine.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	s.engine = engine
	return s
}

func (s *Server) handleConvert(c *gin.Context) {
	requestID := uuid.NewString()
	var req ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.logger.Warn("bad request", zap.String("request", requestID), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	extend := true
	if req.Extend != nil {
		extend = *req.Extend
	}

	res := convert.Convert(req.Input, extend)
	if res.Err != "" {
		s.logger.Error("conversion failed",
			zap.String("request", requestID),
			zap.String("error", res.Err))
		c.JSON(http.StatusInternalServerError, res)
		return
	}
	s.logger.Info("converted",
		zap.String("request", requestID),
		zap.Bool("extend", extend),
		zap.Int("warnings", len(res.Warnings)))
	c.JSON(http.StatusOK, res)
}

// Run serves until the listener fails.
func (s *Server) Run(port int) error {
	s.logger.Info("listening", zap.Int("port", port))
	return s.engine.Run(fmt.Sprintf(":%d", port))
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler { return s.engine }
