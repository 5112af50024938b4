package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindFromName(t *testing.T) {
	for _, name := range []string{"user", "visSession", "item", "layer", "structure", "image_overlay", "annotation"} {
		kind, ok := KindFromName(name)
		assert.True(t, ok, name)
		assert.Equal(t, name, kind.Table())
		assert.NotNil(t, kind.New())
	}

	_, ok := KindFromName("not_a_real_kind")
	assert.False(t, ok)
}

func TestHasColumn(t *testing.T) {
	assert.True(t, KindItem.HasColumn("name"))
	assert.True(t, KindItem.HasColumn("session"))
	assert.False(t, KindItem.HasColumn("geom"))
	assert.False(t, KindUser.HasColumn("name"))

	assert.True(t, KindItem.HasName())
	assert.False(t, KindAnnotation.HasName())
}

func TestJoinClause(t *testing.T) {
	// Forward: the primary kind owns the foreign key
	clause, ok := JoinClause(KindStructure, KindLayer)
	assert.True(t, ok)
	assert.Equal(t, `JOIN "layer" ON "layer"."id" = "structure"."layer"`, clause)

	// Reverse: the related kind owns the foreign key
	clause, ok = JoinClause(KindItem, KindLayer)
	assert.True(t, ok)
	assert.Equal(t, `JOIN "layer" ON "layer"."item" = "item"."id"`, clause)

	// No declared relationship
	_, ok = JoinClause(KindUser, KindStructure)
	assert.False(t, ok)
}

func TestApplyFieldsDropsWrongTypes(t *testing.T) {
	item := &Item{}
	item.ApplyFields(map[string]interface{}{
		"name":     "Slide A",
		"meta":     map[string]interface{}{"stain": "H&E"},
		"filepath": 42, // wrong type, dropped
	})
	assert.Equal(t, "Slide A", item.Name)
	assert.Equal(t, "H&E", item.Meta["stain"])
	assert.Equal(t, "", item.Filepath)
}

func TestStructureToGeoJSON(t *testing.T) {
	s := &Structure{}
	s.ApplyFields(map[string]interface{}{
		"geom":       map[string]interface{}{"type": "Point", "coordinates": []interface{}{1.0, 2.0}},
		"properties": map[string]interface{}{"_id": "abc"},
	})

	f := s.ToGeoJSON()
	assert.Equal(t, "Feature", f["type"])
	geometry, _ := f["geometry"].(map[string]interface{})
	assert.Equal(t, "Point", geometry["type"])
}

func TestImageOverlayToGeoJSON(t *testing.T) {
	o := &ImageOverlay{}
	o.ApplyFields(map[string]interface{}{
		"bounds":     []float64{0, 0, 10, 20},
		"properties": map[string]interface{}{"opacity": 0.5},
		"image_src":  "/data/heatmap.png",
	})

	f := o.ToGeoJSON()
	assert.Equal(t, "Feature", f["type"])

	geometry, ok := f["geometry"].(map[string]interface{})
	if assert.True(t, ok) {
		assert.Equal(t, "Polygon", geometry["type"])
		rings, _ := geometry["coordinates"].([][][2]float64)
		if assert.Len(t, rings, 1) {
			// Closed ring around the bounds rectangle
			assert.Len(t, rings[0], 5)
			assert.Equal(t, rings[0][0], rings[0][4])
		}
	}

	// Malformed bounds degrade to a nil geometry
	bad := &ImageOverlay{}
	bad.ApplyFields(map[string]interface{}{"bounds": []float64{1, 2}})
	assert.Nil(t, bad.ToGeoJSON()["geometry"])
}
