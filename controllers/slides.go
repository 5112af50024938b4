package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"fusiondb/store"
)

// CreateSlide Ingest one fully-resolved slide description
func CreateSlide(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input store.SlideDescription
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if input.ID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "slide id is required"})
			return
		}

		log.Info(fmt.Sprintf("Ingesting slide %s (%s) with %d layers",
			input.ID, input.Name, len(input.ProcessedAnnotations)))

		if err := s.AddSlide(input); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		item, err := s.GetCreate("item", input.ID, nil)
		if err != nil || item == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "slide not persisted"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": item.ToMap()})
	}
}

// GetSlideAnnotations Load the persisted annotations of one slide as GeoJSON
// FeatureCollections (plus overlay rows for raster layers)
func GetSlideAnnotations(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		annotations, err := s.ItemAnnotations(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": annotations})
	}
}
