package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fusiondb/models"
	"fusiondb/store"
)

func pagination(c *gin.Context) (*int, int) {
	var size *int
	if raw := c.Query("size"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			size = &n
		}
	}
	offset := 0
	if raw := c.Query("offset"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			offset = n
		}
	}
	return size, offset
}

// FindEntities List rows of a kind, paginated with ?size and ?offset.
// ?format=geojson returns the Feature projection for geometry-bearing kinds.
func FindEntities(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		size, offset := pagination(c)
		spec := store.SearchSpec{Type: c.Param("kind")}
		opts := store.SearchOptions{Size: size, Offset: offset, Order: c.Query("order")}

		var results []map[string]interface{}
		var err error
		if c.Query("format") == "geojson" {
			results, err = s.SearchFeatures(spec, opts)
		} else {
			results, err = s.Search(spec, opts)
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": results})
	}
}

// FindEntity Find one row by kind and id
func FindEntity(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		e, err := s.GetCreate(c.Param("kind"), c.Param("id"), nil)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if e == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Record not found!"})
			return
		}

		if c.Query("format") == "geojson" {
			if gf, ok := e.(models.GeoFeature); ok {
				c.JSON(http.StatusOK, gin.H{"data": gf.ToGeoJSON()})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": "kind has no geometry"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": e.ToMap()})
	}
}

// DeleteEntity Delete one row by kind and id, optionally narrowed to an owning
// ?user and/or ?session
func DeleteEntity(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		removed, err := s.GetRemove(c.Param("kind"), c.Param("id"), c.Query("user"), c.Query("session"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if !removed {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Record not found!"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": true})
	}
}

// CountEntities Distinct row count of a kind
func CountEntities(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"data": s.Count(c.Param("kind"))})
	}
}

// EntityNames Name projection of a kind
func EntityNames(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		size, offset := pagination(c)
		c.JSON(http.StatusOK, gin.H{"data": s.GetNames(c.Param("kind"), size, offset)})
	}
}
