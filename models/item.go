package models

import (
	"time"

	"gorm.io/datatypes"
)

// Item is one slide/image. Created once per slide the first time the store
// touches it, idempotent on id.
type Item struct {
	ID        string            `json:"id" gorm:"column:id;primaryKey;size:24"`
	Name      string            `json:"name" gorm:"column:name"`
	Meta      datatypes.JSONMap `json:"meta" gorm:"column:meta"`
	ImageMeta datatypes.JSONMap `json:"image_meta" gorm:"column:image_meta"`
	AnnMeta   datatypes.JSONMap `json:"ann_meta" gorm:"column:ann_meta"`
	Filepath  string            `json:"filepath" gorm:"column:filepath"`
	Session   string            `json:"session" gorm:"column:session;size:24;index"`
	User      string            `json:"user" gorm:"column:user;size:24;index"`
	Updated   time.Time         `json:"updated" gorm:"column:updated"`
}

func (Item) TableName() string { return "item" }

func (i *Item) GetID() string          { return i.ID }
func (i *Item) SetID(id string)        { i.ID = id }
func (i *Item) SetUpdated(t time.Time) { i.Updated = t }

func (i *Item) ApplyFields(fields map[string]interface{}) {
	if v, ok := stringField(fields, "name"); ok {
		i.Name = v
	}
	if v, ok := mapField(fields, "meta"); ok {
		i.Meta = v
	}
	if v, ok := mapField(fields, "image_meta"); ok {
		i.ImageMeta = v
	}
	if v, ok := mapField(fields, "ann_meta"); ok {
		i.AnnMeta = v
	}
	if v, ok := stringField(fields, "filepath"); ok {
		i.Filepath = v
	}
	if v, ok := stringField(fields, "session"); ok {
		i.Session = v
	}
	if v, ok := stringField(fields, "user"); ok {
		i.User = v
	}
}

func (i *Item) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"id":         i.ID,
		"name":       i.Name,
		"meta":       map[string]interface{}(i.Meta),
		"image_meta": map[string]interface{}(i.ImageMeta),
		"ann_meta":   map[string]interface{}(i.AnnMeta),
		"filepath":   i.Filepath,
		"session":    i.Session,
		"user":       i.User,
		"updated":    i.Updated,
	}
}
