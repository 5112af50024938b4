package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"

	"fusiondb/models"
	"fusiondb/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	dial := gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}
	db, err := gorm.Open(dial, &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite (modernc): %v", err)
	}
	if err := models.Migrate(db); err != nil {
		t.Fatalf("failed to automigrate: %v", err)
	}
	return store.New(db)
}

func newTestRouter(s *store.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	v1 := r.Group("/api/v1")
	v1.GET("/db/:kind", FindEntities(s))
	v1.GET("/db/:kind/:id", FindEntity(s))
	v1.DELETE("/db/:kind/:id", DeleteEntity(s))
	v1.GET("/count/:kind", CountEntities(s))
	v1.GET("/names/:kind", EntityNames(s))
	v1.POST("/search", SearchEntities(s))
	v1.POST("/slides", CreateSlide(s))
	v1.GET("/slides/:id/annotations", GetSlideAnnotations(s))
	return r
}

type dataResponse struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

func doRequest(t *testing.T, r *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, dataResponse) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp dataResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func ingestTestSlide(t *testing.T, s *store.Store) {
	t.Helper()
	err := s.AddSlide(store.SlideDescription{
		ID:   "abc123abc123abc123abc123",
		Name: "Slide A",
		ProcessedAnnotations: []store.AnnotationLayer{
			{
				Properties: store.LayerProperties{ID: "layertumor00000000000001", Name: "Tumor"},
				Features: []store.Feature{
					{
						Geometry:   map[string]interface{}{"type": "Point", "coordinates": []interface{}{1.0, 2.0}},
						Properties: map[string]interface{}{"_id": "structtumor0000000000001"},
					},
					{
						Geometry:   map[string]interface{}{"type": "Point", "coordinates": []interface{}{3.0, 4.0}},
						Properties: map[string]interface{}{"_id": "structtumor0000000000002"},
					},
				},
			},
		},
	})
	assert.NoError(t, err)
}

func TestSearchEndpoint(t *testing.T) {
	s := newTestStore(t)
	ingestTestSlide(t, s)
	r := newTestRouter(s)

	// Tuple filter form, joined through the layer name
	body := map[string]interface{}{
		"type": "structure",
		"filters": map[string]interface{}{
			"layer": []interface{}{[]interface{}{"name", map[string]interface{}{"==": "Tumor"}}},
		},
	}
	w, resp := doRequest(t, r, http.MethodPost, "/api/v1/search", body)
	assert.Equal(t, http.StatusOK, w.Code)

	var rows []map[string]interface{}
	assert.NoError(t, json.Unmarshal(resp.Data, &rows))
	assert.Len(t, rows, 2)
}

func TestSearchEndpoint_UnknownKind(t *testing.T) {
	s := newTestStore(t)
	r := newTestRouter(s)

	w, resp := doRequest(t, r, http.MethodPost, "/api/v1/search", map[string]interface{}{"type": "not_a_real_kind"})
	assert.Equal(t, http.StatusOK, w.Code)

	var rows []map[string]interface{}
	assert.NoError(t, json.Unmarshal(resp.Data, &rows))
	assert.Empty(t, rows)
}

func TestSlideIngestAndEntityRoutes(t *testing.T) {
	s := newTestStore(t)
	r := newTestRouter(s)

	slide := map[string]interface{}{
		"id":   "abc123abc123abc123abc123",
		"name": "Slide A",
		"processed_annotations": []interface{}{
			map[string]interface{}{
				"properties": map[string]interface{}{"_id": "layertumor00000000000001", "name": "Tumor"},
				"features": []interface{}{
					map[string]interface{}{
						"geometry":   map[string]interface{}{"type": "Point"},
						"properties": map[string]interface{}{"_id": "structtumor0000000000001"},
					},
				},
			},
		},
	}
	w, _ := doRequest(t, r, http.MethodPost, "/api/v1/slides", slide)
	assert.Equal(t, http.StatusOK, w.Code)

	w, resp := doRequest(t, r, http.MethodGet, "/api/v1/count/structure", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", string(resp.Data))

	w, resp = doRequest(t, r, http.MethodGet, "/api/v1/db/item/abc123abc123abc123abc123", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var item map[string]interface{}
	assert.NoError(t, json.Unmarshal(resp.Data, &item))
	assert.Equal(t, "Slide A", item["name"])

	w, resp = doRequest(t, r, http.MethodGet, "/api/v1/names/layer", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var names []string
	assert.NoError(t, json.Unmarshal(resp.Data, &names))
	assert.Equal(t, []string{"Tumor"}, names)

	w, resp = doRequest(t, r, http.MethodGet, "/api/v1/slides/abc123abc123abc123abc123/annotations", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var annotations []map[string]interface{}
	assert.NoError(t, json.Unmarshal(resp.Data, &annotations))
	assert.Len(t, annotations, 1)

	// GeoJSON projection of a single structure
	w, resp = doRequest(t, r, http.MethodGet, "/api/v1/db/structure/structtumor0000000000001?format=geojson", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var feature map[string]interface{}
	assert.NoError(t, json.Unmarshal(resp.Data, &feature))
	assert.Equal(t, "Feature", feature["type"])

	// Unknown row
	w, resp = doRequest(t, r, http.MethodGet, "/api/v1/db/item/ffffffffffffffffffffffff", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Record not found!", resp.Error)
}

func TestDeleteEntityRoute(t *testing.T) {
	s := newTestStore(t)
	ingestTestSlide(t, s)
	r := newTestRouter(s)

	w, resp := doRequest(t, r, http.MethodDelete, "/api/v1/db/structure/structtumor0000000000001", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "true", string(resp.Data))
	assert.Equal(t, int64(1), s.Count("structure"))

	w, _ = doRequest(t, r, http.MethodDelete, "/api/v1/db/structure/structtumor0000000000001", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
