package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// ImageOverlay is a raster overlay attached to a layer, the raster counterpart
// of a vector Structure. Bounds are an axis-aligned box stored as
// [minx, miny, maxx, maxy].
type ImageOverlay struct {
	ID         string            `json:"id" gorm:"column:id;primaryKey;size:24"`
	Bounds     datatypes.JSON    `json:"bounds" gorm:"column:bounds"`
	Properties datatypes.JSONMap `json:"properties" gorm:"column:properties"`
	ImageSrc   string            `json:"image_src" gorm:"column:image_src"`
	Layer      string            `json:"layer" gorm:"column:layer;size:24;index"`
	Updated    time.Time         `json:"updated" gorm:"column:updated"`
}

func (ImageOverlay) TableName() string { return "image_overlay" }

func (o *ImageOverlay) GetID() string          { return o.ID }
func (o *ImageOverlay) SetID(id string)        { o.ID = id }
func (o *ImageOverlay) SetUpdated(t time.Time) { o.Updated = t }

func (o *ImageOverlay) ApplyFields(fields map[string]interface{}) {
	if v, ok := jsonField(fields, "bounds"); ok {
		o.Bounds = v
	}
	if v, ok := mapField(fields, "properties"); ok {
		o.Properties = v
	}
	if v, ok := stringField(fields, "image_src"); ok {
		o.ImageSrc = v
	}
	if v, ok := stringField(fields, "layer"); ok {
		o.Layer = v
	}
}

func (o *ImageOverlay) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"id":         o.ID,
		"bounds":     jsonValue(o.Bounds),
		"properties": map[string]interface{}(o.Properties),
		"image_src":  o.ImageSrc,
		"layer":      o.Layer,
		"updated":    o.Updated,
	}
}

// boundsBox decodes the stored bounds. Returns false unless all four numbers
// are present.
func (o *ImageOverlay) boundsBox() ([4]float64, bool) {
	var box [4]float64
	var raw []float64
	if err := json.Unmarshal(o.Bounds, &raw); err != nil || len(raw) != 4 {
		return box, false
	}
	copy(box[:], raw)
	return box, true
}

// ToGeoJSON projects the overlay as a single GeoJSON Feature whose geometry is
// the rectangle spanned by the stored bounds.
func (o *ImageOverlay) ToGeoJSON() map[string]interface{} {
	var geometry interface{}
	if b, ok := o.boundsBox(); ok {
		minx, miny, maxx, maxy := b[0], b[1], b[2], b[3]
		geometry = map[string]interface{}{
			"type": "Polygon",
			"coordinates": [][][2]float64{{
				{maxx, miny},
				{maxx, maxy},
				{minx, maxy},
				{minx, miny},
				{maxx, miny},
			}},
		}
	}
	return map[string]interface{}{
		"type":       "Feature",
		"geometry":   geometry,
		"properties": map[string]interface{}(o.Properties),
	}
}
