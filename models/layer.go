package models

import "time"

// Layer is one named annotation collection (e.g. "Tumor") within an item.
type Layer struct {
	ID      string    `json:"id" gorm:"column:id;primaryKey;size:24"`
	Name    string    `json:"name" gorm:"column:name"`
	Item    string    `json:"item" gorm:"column:item;size:24;index"`
	Updated time.Time `json:"updated" gorm:"column:updated"`
}

func (Layer) TableName() string { return "layer" }

func (l *Layer) GetID() string          { return l.ID }
func (l *Layer) SetID(id string)        { l.ID = id }
func (l *Layer) SetUpdated(t time.Time) { l.Updated = t }

func (l *Layer) ApplyFields(fields map[string]interface{}) {
	if v, ok := stringField(fields, "name"); ok {
		l.Name = v
	}
	if v, ok := stringField(fields, "item"); ok {
		l.Item = v
	}
}

func (l *Layer) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"id":      l.ID,
		"name":    l.Name,
		"item":    l.Item,
		"updated": l.Updated,
	}
}
