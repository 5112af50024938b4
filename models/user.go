package models

import "time"

// User mirrors the archive user a record belongs to. Created on first
// reference; admin status only changes through explicit admin action.
type User struct {
	ID        string    `json:"id" gorm:"column:id;primaryKey;size:24"`
	Login     string    `json:"login" gorm:"column:login"`
	FirstName string    `json:"firstName" gorm:"column:firstName"`
	LastName  string    `json:"lastName" gorm:"column:lastName"`
	Email     string    `json:"email" gorm:"column:email"`
	Admin     bool      `json:"admin" gorm:"column:admin"`
	Updated   time.Time `json:"updated" gorm:"column:updated"`
}

func (User) TableName() string { return "user" }

func (u *User) GetID() string          { return u.ID }
func (u *User) SetID(id string)        { u.ID = id }
func (u *User) SetUpdated(t time.Time) { u.Updated = t }

func (u *User) ApplyFields(fields map[string]interface{}) {
	if v, ok := stringField(fields, "login"); ok {
		u.Login = v
	}
	if v, ok := stringField(fields, "firstName"); ok {
		u.FirstName = v
	}
	if v, ok := stringField(fields, "lastName"); ok {
		u.LastName = v
	}
	if v, ok := stringField(fields, "email"); ok {
		u.Email = v
	}
	if v, ok := boolField(fields, "admin"); ok {
		u.Admin = v
	}
}

func (u *User) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"id":        u.ID,
		"login":     u.Login,
		"firstName": u.FirstName,
		"lastName":  u.LastName,
		"email":     u.Email,
		"admin":     u.Admin,
		"updated":   u.Updated,
	}
}
