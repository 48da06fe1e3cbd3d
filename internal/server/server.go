package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-json-experiment/json"
	"go.uber.org/zap"

	"github.com/jgoulah/energyview/internal/chart"
	"github.com/jgoulah/energyview/internal/dashboard"
	"github.com/jgoulah/energyview/internal/render"
	"github.com/jgoulah/energyview/pkg/models"
)

// Source is the component the server presents
type Source interface {
	State() dashboard.State
	Dataset() models.Dataset
	Options() chart.Options
}

// Server exposes the chart page and its data over HTTP
type Server struct {
	src    Source
	page   render.Renderer
	image  *render.Image
	log    *zap.Logger
	engine *gin.Engine
}

// New wires the routes. page renders the interactive chart, image the static one.
func New(src Source, page render.Renderer, image *render.Image, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{src: src, page: page, image: image, log: log}

	s.engine = gin.New()
	s.engine.Use(gin.Recovery(), s.requestLog())
	s.engine.GET("/", s.index)
	s.engine.GET("/chart.png", s.chartImage)
	s.engine.GET("/health", s.health)

	api := s.engine.Group("/api/v1")
	api.GET("/options", s.options)
	api.GET("/data", s.data)
	api.GET("/state", s.state)
	api.GET("/tooltip/:index", s.tooltip)
	return s
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.engine
}

// ListenAndServe serves on addr until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listening on %s: %w", addr, err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down server: %w", err)
		}
		return nil
	}
}

func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", time.Since(start)),
		)
	}
}

func (s *Server) index(c *gin.Context) {
	var buf bytes.Buffer
	if err := s.page.Render(&buf, s.src.Options()); err != nil {
		s.log.Error("rendering chart page", zap.Error(err))
		c.String(http.StatusInternalServerError, "rendering chart: %v", err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (s *Server) chartImage(c *gin.Context) {
	var buf bytes.Buffer
	if err := s.image.Render(&buf, s.src.Options()); err != nil {
		s.log.Error("rendering chart image", zap.Error(err))
		c.String(http.StatusInternalServerError, "rendering chart: %v", err)
		return
	}
	c.Data(http.StatusOK, s.image.ContentType(), buf.Bytes())
}

func (s *Server) health(c *gin.Context) {
	s.writeJSON(c, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) options(c *gin.Context) {
	s.writeJSON(c, http.StatusOK, s.src.Options())
}

// data answers null until a dataset has been loaded
func (s *Server) data(c *gin.Context) {
	s.writeJSON(c, http.StatusOK, s.src.Dataset())
}

func (s *Server) state(c *gin.Context) {
	s.writeJSON(c, http.StatusOK, map[string]any{
		"state":   s.src.State().String(),
		"records": len(s.src.Dataset()),
	})
}

func (s *Server) tooltip(c *gin.Context) {
	i, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		s.writeJSON(c, http.StatusBadRequest, map[string]any{"error": "index must be an integer"})
		return
	}
	text, ok := s.src.Options().Tooltip(i)
	if !ok {
		s.writeJSON(c, http.StatusNotFound, map[string]any{"error": "no point at index " + strconv.Itoa(i)})
		return
	}
	s.writeJSON(c, http.StatusOK, map[string]any{"index": i, "tooltip": text})
}

func (s *Server) writeJSON(c *gin.Context, status int, v any) {
	b, err := json.Marshal(v, json.Deterministic(true), json.FormatNilSliceAsNull(true))
	if err != nil {
		s.log.Error("encoding response", zap.Error(err))
		c.String(http.StatusInternalServerError, "encoding response: %v", err)
		return
	}
	c.Data(status, "application/json", b)
}
