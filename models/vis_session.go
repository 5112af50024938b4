package models

import (
	"time"

	"gorm.io/datatypes"
)

// VisSession is one browsing/annotation session. The owning user is nullable,
// guest sessions exist. Rows are created at session start and never mutated;
// expiry is handled outside the store.
type VisSession struct {
	ID      string            `json:"id" gorm:"column:id;primaryKey;size:24"`
	User    string            `json:"user" gorm:"column:user;size:24;index"`
	Data    datatypes.JSONMap `json:"data" gorm:"column:data"`
	Updated time.Time         `json:"updated" gorm:"column:updated"`
}

func (VisSession) TableName() string { return "visSession" }

func (s *VisSession) GetID() string          { return s.ID }
func (s *VisSession) SetID(id string)        { s.ID = id }
func (s *VisSession) SetUpdated(t time.Time) { s.Updated = t }

func (s *VisSession) ApplyFields(fields map[string]interface{}) {
	if v, ok := stringField(fields, "user"); ok {
		s.User = v
	}
	if v, ok := mapField(fields, "data"); ok {
		s.Data = v
	}
}

func (s *VisSession) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"id":      s.ID,
		"user":    s.User,
		"data":    map[string]interface{}(s.Data),
		"updated": s.Updated,
	}
}
