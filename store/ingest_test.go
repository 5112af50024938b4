package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func tumorSlide() SlideDescription {
	return SlideDescription{
		ID:            "abc123abc123abc123abc123",
		Name:          "Slide A",
		Metadata:      map[string]interface{}{"stain": "H&E"},
		ImageMetadata: map[string]interface{}{"mpp": 0.25},
		ImageFilepath: "/data/slide_a.svs",
		ProcessedAnnotations: []AnnotationLayer{
			{
				Properties: LayerProperties{ID: "layertumor00000000000001", Name: "Tumor"},
				Features: []Feature{
					{
						Geometry: map[string]interface{}{
							"type":        "Polygon",
							"coordinates": []interface{}{},
						},
						Properties: map[string]interface{}{"_id": "structtumor0000000000001"},
					},
					{
						Geometry: map[string]interface{}{
							"type":        "Polygon",
							"coordinates": []interface{}{},
						},
						Properties: map[string]interface{}{"_id": "structtumor0000000000002"},
					},
				},
			},
		},
	}
}

func TestAddSlide_IdempotentIngestion(t *testing.T) {
	s := newTestStore(t)

	assert.NoError(t, s.AddSlide(tumorSlide()))

	assert.Equal(t, int64(1), s.Count("item"))
	assert.Equal(t, int64(1), s.Count("layer"))
	assert.Equal(t, int64(2), s.Count("structure"))

	// Re-ingesting the same slide is a no-op read, not a duplicate write
	assert.NoError(t, s.AddSlide(tumorSlide()))

	assert.Equal(t, int64(1), s.Count("item"))
	assert.Equal(t, int64(1), s.Count("layer"))
	assert.Equal(t, int64(2), s.Count("structure"))
}

func TestAddSlide_SearchByLayerName(t *testing.T) {
	s := newTestStore(t)
	assert.NoError(t, s.AddSlide(tumorSlide()))

	results, err := s.Search(SearchSpec{
		Type: "structure",
		Filters: map[string][]FieldFilter{
			"layer": {{Field: "name", Value: map[string]interface{}{"==": "Tumor"}}},
		},
	}, SearchOptions{})
	assert.NoError(t, err)
	assert.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, "layertumor00000000000001", r["layer"])
		assert.Equal(t, "abc123abc123abc123abc123", r["item"])
	}
}

func TestAddSlide_RasterOverlayLayer(t *testing.T) {
	s := newTestStore(t)

	slide := SlideDescription{
		ID:   "slideoverlay000000000001",
		Name: "Slide B",
		ProcessedAnnotations: []AnnotationLayer{
			{
				Properties:      LayerProperties{ID: "layeroverlay000000000001", Name: "Heatmap"},
				ImageBounds:     []float64{0, 0, 512, 256},
				ImageProperties: map[string]interface{}{"opacity": 0.5},
				ImagePath:       "/data/heatmap.png",
			},
		},
	}
	assert.NoError(t, s.AddSlide(slide))

	assert.Equal(t, int64(1), s.Count("layer"))
	assert.Equal(t, int64(1), s.Count("image_overlay"))
	assert.Equal(t, int64(0), s.Count("structure"))

	overlays, err := s.Search(SearchSpec{
		Type: "image_overlay",
		Filters: map[string][]FieldFilter{
			"image_overlay": {{Field: "layer", Value: "layeroverlay000000000001"}},
		},
	}, SearchOptions{})
	assert.NoError(t, err)
	if assert.Len(t, overlays, 1) {
		assert.Equal(t, "/data/heatmap.png", overlays[0]["image_src"])
		assert.Equal(t, []interface{}{0.0, 0.0, 512.0, 256.0}, overlays[0]["bounds"])
	}
}

func TestAddSlide_FeatureWithoutIDIsSkipped(t *testing.T) {
	s := newTestStore(t)

	slide := tumorSlide()
	slide.ProcessedAnnotations[0].Features = append(slide.ProcessedAnnotations[0].Features, Feature{
		Geometry:   map[string]interface{}{"type": "Point"},
		Properties: map[string]interface{}{},
	})
	assert.NoError(t, s.AddSlide(slide))
	assert.Equal(t, int64(2), s.Count("structure"))
}

func TestAnnotationScenario(t *testing.T) {
	s := newTestStore(t)
	assert.NoError(t, s.AddSlide(tumorSlide()))

	user, err := s.GetCreate("user", "", map[string]interface{}{"login": "pathologist"})
	assert.NoError(t, err)
	session, err := s.GetCreate("visSession", "", map[string]interface{}{"user": user.GetID()})
	assert.NoError(t, err)

	ann, err := s.GetCreate("annotation", "", map[string]interface{}{
		"user":      user.GetID(),
		"session":   session.GetID(),
		"item":      "abc123abc123abc123abc123",
		"layer":     "layertumor00000000000001",
		"structure": "structtumor0000000000001",
		"classifications": []interface{}{
			map[string]interface{}{"type": "class", "value": "tumor"},
		},
	})
	assert.NoError(t, err)
	assert.NotNil(t, ann)

	// Re-fetch by id returns the same record
	again, err := s.GetCreate("annotation", ann.GetID(), nil)
	assert.NoError(t, err)
	if assert.NotNil(t, again) {
		assert.Equal(t, ann.GetID(), again.GetID())
		assert.Equal(t, ann.ToMap()["classifications"], again.ToMap()["classifications"])
	}

	// Search by structure and user returns exactly that one annotation
	results, err := s.Search(SearchSpec{
		Type: "annotation",
		Filters: map[string][]FieldFilter{
			"annotation": {
				{Field: "structure", Value: "structtumor0000000000001"},
				{Field: "user", Value: user.GetID()},
			},
		},
	}, SearchOptions{})
	assert.NoError(t, err)
	if assert.Len(t, results, 1) {
		assert.Equal(t, ann.GetID(), results[0]["id"])
	}
}

func TestAddVisSession(t *testing.T) {
	s := newTestStore(t)

	state := VisSessionState{
		SessionID: "sessionaaaaaaaaaaaaaaaa1",
		Data:      map[string]interface{}{"zoom": 2.0},
		Current:   []SlideDescription{tumorSlide()},
	}
	assert.NoError(t, s.AddVisSession(state))

	assert.Equal(t, int64(1), s.Count("visSession"))
	assert.Equal(t, int64(1), s.Count("item"))

	sess, err := s.GetCreate("visSession", "sessionaaaaaaaaaaaaaaaa1", nil)
	assert.NoError(t, err)
	if assert.NotNil(t, sess) {
		// Guest owner is generated when no user is supplied
		owner, _ := sess.ToMap()["user"].(string)
		assert.Len(t, owner, 24)
		assert.Contains(t, owner, "guestuser")
	}

	// The current slide is attached to the session
	item, err := s.GetCreate("item", "abc123abc123abc123abc123", nil)
	assert.NoError(t, err)
	if assert.NotNil(t, item) {
		assert.Equal(t, "sessionaaaaaaaaaaaaaaaa1", item.ToMap()["session"])
	}
}
