package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/agenthands/ledger/internal/core"
	"github.com/agenthands/ledger/internal/core/model"
)

// Server answers read-only queries over one pipeline result.
type Server struct {
	Result *core.Result
	Logger zerolog.Logger
}

func NewServer(res *core.Result, logger zerolog.Logger) *Server {
	return &Server{
		Result: res,
		Logger: logger,
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/health", s.Health)
	r.GET("/summary", s.Summary)

	r.GET("/entities", s.SearchEntities)
	r.POST("/search", s.Search)
	r.GET("/entities/:id", s.GetEntity)
	r.GET("/entities/:id/relationships", s.GetRelationships)
	r.GET("/entities/:id/communications", s.GetCommunications)
	r.GET("/resolve", s.Resolve)
	r.GET("/projects/:id/developer", s.GetProjectDeveloper)

	r.GET("/duplicates", s.Duplicates)
	r.GET("/clusters", s.Clusters)

	return r
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		s.Logger.Debug().
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Msg("request")
	}
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "run_id": s.Result.RunID})
}

func (s *Server) Summary(c *gin.Context) {
	c.JSON(http.StatusOK, s.Result.Summary)
}

func (s *Server) SearchEntities(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusOK, gin.H{"results": s.Result.MasterEntities})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": s.Result.Search(q)})
}

type SearchRequest struct {
	Query string `json:"query" binding:"required"`
}

func (s *Server) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": s.Result.Search(req.Query)})
}

func (s *Server) GetEntity(c *gin.Context) {
	e, err := s.Result.Entity(c.Param("id"))
	if err != nil {
		s.notFound(c, err, "entity not found")
		return
	}
	c.JSON(http.StatusOK, e)
}

func (s *Server) GetRelationships(c *gin.Context) {
	id := c.Param("id")
	if _, err := s.Result.Entity(id); err != nil {
		s.notFound(c, err, "entity not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": s.Result.RelationshipsOf(id)})
}

func (s *Server) GetCommunications(c *gin.Context) {
	id := c.Param("id")
	if _, err := s.Result.Entity(id); err != nil {
		s.notFound(c, err, "entity not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": s.Result.CommunicationsOf(id)})
}

func (s *Server) Resolve(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	results, err := s.Result.Resolve(name)
	if err != nil {
		s.notFound(c, err, "no entity matches name")
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

func (s *Server) GetProjectDeveloper(c *gin.Context) {
	e, err := s.Result.ProjectDeveloper(c.Param("id"))
	if err != nil {
		s.notFound(c, err, "project not found")
		return
	}
	c.JSON(http.StatusOK, e)
}

func (s *Server) Duplicates(c *gin.Context) {
	out := []model.DuplicateCandidate{}
	entityType := model.EntityType(c.Query("type"))
	for _, d := range s.Result.Duplicates {
		if entityType == "" || d.Type == entityType {
			out = append(out, d)
		}
	}
	c.JSON(http.StatusOK, gin.H{"results": out})
}

func (s *Server) Clusters(c *gin.Context) {
	clusters := s.Result.Clusters
	if clusters == nil {
		clusters = []model.Cluster{}
	}
	c.JSON(http.StatusOK, gin.H{"results": clusters})
}

func (s *Server) notFound(c *gin.Context, err error, msg string) {
	if errors.Is(err, model.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": msg})
		return
	}
	s.Logger.Error().Err(err).Str("path", c.FullPath()).Msg("query failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query"})
}
