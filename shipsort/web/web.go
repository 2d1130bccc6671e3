// Package web serves a small HTTP API to inspect and edit item positions while the server runs.
package web

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/smell-of-curry/shipsort/shipsort/catalog"
	"github.com/smell-of-curry/shipsort/shipsort/internal"
	"github.com/smell-of-curry/shipsort/shipsort/layers"
	"github.com/smell-of-curry/shipsort/shipsort/position"
	"github.com/smell-of-curry/shipsort/shipsort/resolve"
)

// Service is the HTTP API.
type Service struct {
	log      *slog.Logger
	store    *layers.Store
	resolver *resolve.Resolver
	catalog  *catalog.Catalog

	router *gin.Engine

	mu  sync.Mutex
	srv *http.Server
}

// New creates the API. Every request must carry apiKey in its authorization header.
func New(log *slog.Logger, apiKey string, store *layers.Store, r *resolve.Resolver, c *catalog.Catalog) *Service {
	s := &Service{log: log, store: store, resolver: r, catalog: c}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(func(c *gin.Context) {
		if c.GetHeader("authorization") != apiKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	})
	router.GET("/positions/:item", s.position)
	router.PUT("/positions/:item", s.setPosition)
	router.GET("/parse", s.parse)
	router.GET("/custom", s.custom)
	router.PUT("/custom", s.setCustom)
	router.GET("/validate", s.validate)
	s.router = router
	return s
}

// Handler ...
func (s *Service) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves the API on addr until it fails.
func (s *Service) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:        addr,
		Handler:     s.router,
		ReadTimeout: internal.ServiceReadTimeout,
	}
	s.mu.Lock()
	s.srv = srv
	s.mu.Unlock()
	s.log.Info("serving position api", "address", addr)
	return srv.ListenAndServe()
}

// Close stops serving the API.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.srv == nil {
		return nil
	}
	return s.srv.Close()
}

// position resolves the position of an item.
func (s *Service) position(c *gin.Context) {
	key := layers.Key(c.Param("item"))
	category := layers.OneHanded
	if e, ok := s.catalog.Find(c.Param("item")); ok {
		key, category = e.Key, e.ItemCategory()
	}
	if q := c.Query("category"); q != "" {
		cat, err := layers.ParseCategory(q)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		category = cat
	}

	res, err := s.resolver.Explain(key, category)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"item":     key,
		"category": category.String(),
		"layer":    res.Layer,
		"merged":   res.Merged,
		"position": res.Spec.String(),
	})
}

// setPosition saves the position of an item. The body is the position text.
func (s *Service) setPosition(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	key := layers.Key(c.Param("item"))
	if e, ok := s.catalog.Find(c.Param("item")); ok {
		key = e.Key
	}

	section, err := s.store.SetItem(key, strings.TrimSpace(string(body)))
	switch {
	case errors.Is(err, layers.ErrUnknownItem):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": errorKind(err)})
		return
	}
	s.log.Info("item position updated over http", "item", key, "section", section)
	c.JSON(http.StatusOK, gin.H{"item": key, "section": section})
}

// parse parses the text query parameter and returns its fields.
func (s *Service) parse(c *gin.Context) {
	spec, err := s.store.Parser().Parse(c.Query("text"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": errorKind(err)})
		return
	}
	c.JSON(http.StatusOK, specJSON(spec))
}

// custom returns the custom position map.
func (s *Service) custom(c *gin.Context) {
	m := s.store.Custom()
	c.JSON(http.StatusOK, gin.H{
		"blob":      m.String(),
		"positions": m.Texts(),
	})
}

// setCustom replaces the custom position map. The body is the raw blob.
func (s *Service) setCustom(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err = s.store.SetCustom(string(body)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"positions": s.store.Custom().Texts()})
}

// validate checks the configuration as a whole.
func (s *Service) validate(c *gin.Context) {
	warnings, err := s.store.Validate()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "warnings": warnings})
		return
	}
	c.JSON(http.StatusOK, gin.H{"warnings": warnings})
}

// errorKind names the sentinel a parse error unwraps to.
func errorKind(err error) string {
	for kind, target := range map[string]error{
		"invalid_format":   position.ErrInvalidFormat,
		"invalid_number":   position.ErrInvalidNumber,
		"unknown_anchor":   position.ErrUnknownAnchor,
		"anchor_not_found": position.ErrAnchorNotFound,
		"unknown_flag":     position.ErrUnknownFlag,
	} {
		if errors.Is(err, target) {
			return kind
		}
	}
	return "unknown"
}

// specJSON ...
func specJSON(spec position.Spec) gin.H {
	h := gin.H{
		"formatted": spec.String(),
		"flags":     spec.Flags.String(),
	}
	if spec.Position != nil {
		h["position"] = vec(*spec.Position)
	}
	if spec.PositionOffset != nil {
		h["position_offset"] = vec(*spec.PositionOffset)
	}
	if spec.Anchor != nil {
		h["anchor"] = spec.Anchor.Path()
	}
	if spec.Rotation != nil {
		h["rotation"] = *spec.Rotation
	}
	if spec.RotationOffset != nil {
		h["rotation_offset"] = *spec.RotationOffset
	}
	if spec.RandomOffset != nil {
		h["random_offset"] = *spec.RandomOffset
	}
	return h
}

// vec ...
func vec(v mgl64.Vec3) []float64 {
	return []float64{v[0], v[1], v[2]}
}
