package models

import (
	"time"

	"gorm.io/datatypes"
)

// Annotation is one user's label/edit record against one structure within one
// session. The only kind routinely re-written by id after creation: fetch,
// merge new classification/segmentation data, write back. Last writer wins.
type Annotation struct {
	ID              string         `json:"id" gorm:"column:id;primaryKey;size:24"`
	User            string         `json:"user" gorm:"column:user;size:24;index"`
	Session         string         `json:"session" gorm:"column:session;size:24;index"`
	Item            string         `json:"item" gorm:"column:item;size:24;index"`
	Layer           string         `json:"layer" gorm:"column:layer;size:24;index"`
	Structure       string         `json:"structure" gorm:"column:structure;size:24;index"`
	Classifications datatypes.JSON `json:"classifications" gorm:"column:classifications"`
	Segmentations   datatypes.JSON `json:"segmentations" gorm:"column:segmentations"`
	Updated         time.Time      `json:"updated" gorm:"column:updated"`
}

func (Annotation) TableName() string { return "annotation" }

func (a *Annotation) GetID() string          { return a.ID }
func (a *Annotation) SetID(id string)        { a.ID = id }
func (a *Annotation) SetUpdated(t time.Time) { a.Updated = t }

func (a *Annotation) ApplyFields(fields map[string]interface{}) {
	if v, ok := stringField(fields, "user"); ok {
		a.User = v
	}
	if v, ok := stringField(fields, "session"); ok {
		a.Session = v
	}
	if v, ok := stringField(fields, "item"); ok {
		a.Item = v
	}
	if v, ok := stringField(fields, "layer"); ok {
		a.Layer = v
	}
	if v, ok := stringField(fields, "structure"); ok {
		a.Structure = v
	}
	if v, ok := jsonField(fields, "classifications"); ok {
		a.Classifications = v
	}
	if v, ok := jsonField(fields, "segmentations"); ok {
		a.Segmentations = v
	}
}

func (a *Annotation) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"id":              a.ID,
		"user":            a.User,
		"session":         a.Session,
		"item":            a.Item,
		"layer":           a.Layer,
		"structure":       a.Structure,
		"classifications": jsonValue(a.Classifications),
		"segmentations":   jsonValue(a.Segmentations),
		"updated":         a.Updated,
	}
}
