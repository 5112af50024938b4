package models

import (
	"time"

	"gorm.io/datatypes"
)

// Structure is one annotated object (polygon, point, ...) within a layer.
// The item reference is denormalized so item-level queries skip a join.
// Geometry and properties are opaque to the query layer.
type Structure struct {
	ID         string            `json:"id" gorm:"column:id;primaryKey;size:24"`
	Geom       datatypes.JSONMap `json:"geom" gorm:"column:geom"`
	Properties datatypes.JSONMap `json:"properties" gorm:"column:properties"`
	Layer      string            `json:"layer" gorm:"column:layer;size:24;index"`
	Item       string            `json:"item" gorm:"column:item;size:24;index"`
	Updated    time.Time         `json:"updated" gorm:"column:updated"`
}

func (Structure) TableName() string { return "structure" }

func (s *Structure) GetID() string          { return s.ID }
func (s *Structure) SetID(id string)        { s.ID = id }
func (s *Structure) SetUpdated(t time.Time) { s.Updated = t }

func (s *Structure) ApplyFields(fields map[string]interface{}) {
	if v, ok := mapField(fields, "geom"); ok {
		s.Geom = v
	}
	if v, ok := mapField(fields, "properties"); ok {
		s.Properties = v
	}
	if v, ok := stringField(fields, "layer"); ok {
		s.Layer = v
	}
	if v, ok := stringField(fields, "item"); ok {
		s.Item = v
	}
}

func (s *Structure) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"id":         s.ID,
		"geom":       map[string]interface{}(s.Geom),
		"properties": map[string]interface{}(s.Properties),
		"layer":      s.Layer,
		"item":       s.Item,
		"updated":    s.Updated,
	}
}

// ToGeoJSON projects the structure as a single GeoJSON Feature.
func (s *Structure) ToGeoJSON() map[string]interface{} {
	return map[string]interface{}{
		"type":       "Feature",
		"geometry":   map[string]interface{}(s.Geom),
		"properties": map[string]interface{}(s.Properties),
	}
}
