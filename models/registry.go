package models

import (
	"fmt"
	"time"
)

// Kind enumerates the entity kinds the store recognizes. Caller-supplied kind
// names are resolved through KindFromName; everything past that boundary works
// with the enum.
type Kind int

const (
	KindUser Kind = iota
	KindVisSession
	KindItem
	KindLayer
	KindStructure
	KindImageOverlay
	KindAnnotation
)

// Entity is implemented by every row type in the schema.
type Entity interface {
	GetID() string
	SetID(id string)
	SetUpdated(t time.Time)
	// ApplyFields fills the entity from a loosely-typed field map. Unknown
	// keys and wrongly-typed values are ignored.
	ApplyFields(fields map[string]interface{})
	// ToMap returns the plain field->value projection of the row.
	ToMap() map[string]interface{}
}

// GeoFeature is implemented by geometry-bearing kinds (structure,
// image_overlay) which support a single-feature GeoJSON projection.
type GeoFeature interface {
	ToGeoJSON() map[string]interface{}
}

var kindNames = map[string]Kind{
	"user":          KindUser,
	"visSession":    KindVisSession,
	"item":          KindItem,
	"layer":         KindLayer,
	"structure":     KindStructure,
	"image_overlay": KindImageOverlay,
	"annotation":    KindAnnotation,
}

// KindFromName resolves a caller-supplied kind name. The second return value
// is false for unrecognized names; callers degrade to empty results.
func KindFromName(name string) (Kind, bool) {
	k, ok := kindNames[name]
	return k, ok
}

var tableNames = map[Kind]string{
	KindUser:         "user",
	KindVisSession:   "visSession",
	KindItem:         "item",
	KindLayer:        "layer",
	KindStructure:    "structure",
	KindImageOverlay: "image_overlay",
	KindAnnotation:   "annotation",
}

func (k Kind) String() string { return tableNames[k] }

// Table returns the backing table name of the kind.
func (k Kind) Table() string { return tableNames[k] }

// New returns a fresh empty entity of the kind.
func (k Kind) New() Entity {
	switch k {
	case KindUser:
		return &User{}
	case KindVisSession:
		return &VisSession{}
	case KindItem:
		return &Item{}
	case KindLayer:
		return &Layer{}
	case KindStructure:
		return &Structure{}
	case KindImageOverlay:
		return &ImageOverlay{}
	case KindAnnotation:
		return &Annotation{}
	}
	return nil
}

var kindColumns = map[Kind]map[string]bool{
	KindUser:         {"id": true, "login": true, "firstName": true, "lastName": true, "email": true, "admin": true, "updated": true},
	KindVisSession:   {"id": true, "user": true, "data": true, "updated": true},
	KindItem:         {"id": true, "name": true, "meta": true, "image_meta": true, "ann_meta": true, "filepath": true, "session": true, "user": true, "updated": true},
	KindLayer:        {"id": true, "name": true, "item": true, "updated": true},
	KindStructure:    {"id": true, "geom": true, "properties": true, "layer": true, "item": true, "updated": true},
	KindImageOverlay: {"id": true, "bounds": true, "properties": true, "image_src": true, "layer": true, "updated": true},
	KindAnnotation:   {"id": true, "user": true, "session": true, "item": true, "layer": true, "structure": true, "classifications": true, "segmentations": true, "updated": true},
}

// HasColumn reports whether the kind's table carries the named column.
// Used to validate filter and order fields before they reach SQL.
func (k Kind) HasColumn(column string) bool {
	return kindColumns[k][column]
}

// HasName reports whether the kind's table carries a "name" column.
func (k Kind) HasName() bool {
	return k.HasColumn("name")
}

// foreignKeys maps owner kind -> referenced kind -> owning column. The column
// stores the id of the referenced row.
var foreignKeys = map[Kind]map[Kind]string{
	KindVisSession:   {KindUser: "user"},
	KindItem:         {KindVisSession: "session", KindUser: "user"},
	KindLayer:        {KindItem: "item"},
	KindStructure:    {KindLayer: "layer", KindItem: "item"},
	KindImageOverlay: {KindLayer: "layer"},
	KindAnnotation: {
		KindUser:       "user",
		KindVisSession: "session",
		KindItem:       "item",
		KindLayer:      "layer",
		KindStructure:  "structure",
	},
}

// JoinClause derives the equality join between the primary kind and a related
// kind from the declared foreign keys, in whichever direction the key points.
// Returns false when no relationship is declared.
func JoinClause(primary, related Kind) (string, bool) {
	if col, ok := foreignKeys[primary][related]; ok {
		return fmt.Sprintf(`JOIN %q ON %q.%q = %q.%q`,
			related.Table(), related.Table(), "id", primary.Table(), col), true
	}
	if col, ok := foreignKeys[related][primary]; ok {
		return fmt.Sprintf(`JOIN %q ON %q.%q = %q.%q`,
			related.Table(), related.Table(), col, primary.Table(), "id"), true
	}
	return "", false
}
