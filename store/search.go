package store

import (
	"encoding/json"
	"fmt"
	"sort"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"fusiondb/models"
)

// SearchSpec selects a primary entity kind and an optional set of predicates.
// Filters are keyed by related-kind name; naming a kind other than the primary
// joins it in via the declared foreign key before the predicates apply.
type SearchSpec struct {
	Type    string                   `json:"type"`
	Filters map[string][]FieldFilter `json:"filters,omitempty"`
}

// FieldFilter is one (field, predicate) pair. The predicate is either a
// literal scalar (equality) or a single-key operator object.
type FieldFilter struct {
	Field string      `json:"field"`
	Value interface{} `json:"value"`
}

// UnmarshalJSON accepts both the tuple form ["name", {"==": "x"}] and the
// object form {"field": "name", "value": {"==": "x"}}.
func (f *FieldFilter) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err == nil {
		if len(pair) != 2 {
			return fmt.Errorf("filter pair must have exactly two elements, got %d", len(pair))
		}
		if err := json.Unmarshal(pair[0], &f.Field); err != nil {
			return err
		}
		return json.Unmarshal(pair[1], &f.Value)
	}

	type plain FieldFilter
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*f = FieldFilter(p)
	return nil
}

// SearchOptions carries pagination and ordering. A nil Size returns all
// matches from Offset onward.
type SearchOptions struct {
	Size   *int
	Offset int
	Order  string
}

// Search runs the spec and returns plain field->value maps. An unrecognized
// primary kind returns an empty list; malformed filters are dropped from the
// query by the predicate engine.
func (s *Store) Search(spec SearchSpec, opts SearchOptions) ([]map[string]interface{}, error) {
	rows, err := s.searchRows(spec, opts)
	if err != nil {
		return nil, err
	}

	out := make([]map[string]interface{}, 0, len(rows))
	for _, e := range rows {
		out = append(out, e.ToMap())
	}
	return out, nil
}

// SearchFeatures runs the spec and returns the GeoJSON Feature projection.
// Only geometry-bearing kinds (structure, image_overlay) produce features;
// other kinds yield an empty list.
func (s *Store) SearchFeatures(spec SearchSpec, opts SearchOptions) ([]map[string]interface{}, error) {
	rows, err := s.searchRows(spec, opts)
	if err != nil {
		return nil, err
	}

	out := make([]map[string]interface{}, 0, len(rows))
	for _, e := range rows {
		if gf, ok := e.(models.GeoFeature); ok {
			out = append(out, gf.ToGeoJSON())
		}
	}
	return out, nil
}

func (s *Store) searchRows(spec SearchSpec, opts SearchOptions) ([]models.Entity, error) {
	kind, ok := models.KindFromName(spec.Type)
	if !ok {
		log.Warn("search on unrecognized kind ", spec.Type)
		return []models.Entity{}, nil
	}

	q := s.db.Model(kind.New()).Distinct(fmt.Sprintf("%q.*", kind.Table()))

	// Join keys are sorted so generated SQL is deterministic; joins are
	// conjunctive, so order cannot change which rows match.
	related := make([]string, 0, len(spec.Filters))
	for name := range spec.Filters {
		related = append(related, name)
	}
	sort.Strings(related)

	for _, name := range related {
		relKind, ok := models.KindFromName(name)
		if !ok {
			log.Warn("ignoring search filters for unrecognized kind ", name)
			continue
		}
		if relKind != kind {
			clause, ok := models.JoinClause(kind, relKind)
			if !ok {
				log.Warnf("ignoring search filters for %s: no relationship to %s", name, spec.Type)
				continue
			}
			q = q.Joins(clause)
		}
		for _, f := range spec.Filters[name] {
			q = ApplyFilter(q, relKind, f.Field, f.Value)
		}
	}

	if opts.Order != "" {
		if kind.HasColumn(opts.Order) {
			q = q.Order(fmt.Sprintf("%q.%q", kind.Table(), opts.Order))
		} else {
			log.Warnf("ignoring order by unknown column %s.%s", kind.Table(), opts.Order)
		}
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	if opts.Size != nil {
		q = q.Limit(*opts.Size)
	}

	return findRowsFor(kind, q)
}

func findRowsFor(kind models.Kind, q *gorm.DB) ([]models.Entity, error) {
	switch kind {
	case models.KindUser:
		return findRows[models.User](q)
	case models.KindVisSession:
		return findRows[models.VisSession](q)
	case models.KindItem:
		return findRows[models.Item](q)
	case models.KindLayer:
		return findRows[models.Layer](q)
	case models.KindStructure:
		return findRows[models.Structure](q)
	case models.KindImageOverlay:
		return findRows[models.ImageOverlay](q)
	case models.KindAnnotation:
		return findRows[models.Annotation](q)
	}
	return []models.Entity{}, nil
}

func findRows[T any, PT interface {
	*T
	models.Entity
}](q *gorm.DB) ([]models.Entity, error) {
	var rows []T
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]models.Entity, len(rows))
	for i := range rows {
		out[i] = PT(&rows[i])
	}
	return out, nil
}
