package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fusiondb/store"
)

// SearchInput is the request body of the search endpoint: the search spec plus
// pagination and ordering.
type SearchInput struct {
	Type    string                         `json:"type" binding:"required"`
	Filters map[string][]store.FieldFilter `json:"filters"`
	Size    *int                           `json:"size"`
	Offset  int                            `json:"offset"`
	Order   string                         `json:"order"`
	Format  string                         `json:"format"`
}

// SearchEntities Run a filtered search over one entity kind
func SearchEntities(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input SearchInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		spec := store.SearchSpec{Type: input.Type, Filters: input.Filters}
		opts := store.SearchOptions{Size: input.Size, Offset: input.Offset, Order: input.Order}

		var results []map[string]interface{}
		var err error
		if input.Format == "geojson" {
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
