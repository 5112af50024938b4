package store

import (
	"errors"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	uuid "github.com/twinj/uuid"
	"gorm.io/gorm"

	"fusiondb/models"
)

// Store wraps the database handle and exposes the entity operations. Every
// write commits individually; there is no multi-write transaction spanning an
// ingestion run, so a partial ingest is completed by an idempotent re-run.
type Store struct {
	db *gorm.DB
}

// New creates a store around an open database handle.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// NewID generates a 24-character hex id, the same shape as the external
// archive ids so rows can mirror archive records 1:1.
func NewID() string {
	hex := strings.ReplaceAll(uuid.NewV4().String(), "-", "")
	return hex[:24]
}

// GuestUserID generates an id for an anonymous session owner.
func GuestUserID() string {
	return "guestuser" + NewID()[:15]
}

// Add persists a fully-constructed entity and commits immediately. Storage
// errors (including duplicate primary keys through this low-level path)
// propagate to the caller unmodified.
func (s *Store) Add(e models.Entity) error {
	return s.db.Create(e).Error
}

// Remove deletes an entity row.
func (s *Store) Remove(e models.Entity) error {
	return s.db.Delete(e).Error
}

// FindByID looks up a row of the kind by id. Returns gorm.ErrRecordNotFound
// when absent.
func (s *Store) FindByID(kind models.Kind, id string) (models.Entity, error) {
	e := kind.New()
	if err := s.db.Where("id = ?", id).First(e).Error; err != nil {
		return nil, err
	}
	return e, nil
}

// Create constructs a row of the kind from the field map and persists it. An
// empty id gets a freshly generated one.
func (s *Store) Create(kind models.Kind, id string, fields map[string]interface{}) (models.Entity, error) {
	if id == "" {
		id = NewID()
	}
	e := kind.New()
	e.SetID(id)
	e.ApplyFields(fields)
	e.SetUpdated(time.Now())
	if err := s.Add(e); err != nil {
		return nil, err
	}
	return e, nil
}

// GetCreate is the loosely-typed boundary operation used by ingestion and the
// REST layer. With an id it returns the stored row unchanged when present
// (fields are ignored on the lookup path, there is no update-on-conflict);
// when absent it creates the row with that id if fields were supplied, and
// returns nil otherwise. Without an id it always creates. Unrecognized kind
// names return nil rather than failing.
func (s *Store) GetCreate(kindName, id string, fields map[string]interface{}) (models.Entity, error) {
	kind, ok := models.KindFromName(kindName)
	if !ok {
		log.Warn("get_create on unrecognized kind ", kindName)
		return nil, nil
	}

	if id == "" {
		return s.Create(kind, "", fields)
	}

	e, err := s.FindByID(kind, id)
	if err == nil {
		return e, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if fields == nil {
		return nil, nil
	}
	return s.Create(kind, id, fields)
}

// GetRemove deletes the row of the kind with the given id, optionally narrowed
// to a user and/or session when the kind carries those columns. Reports
// whether anything was deleted. Unrecognized kinds and missing rows are
// non-fatal.
func (s *Store) GetRemove(kindName, id, userID, visSessionID string) (bool, error) {
	kind, ok := models.KindFromName(kindName)
	if !ok {
		log.Warn("get_remove on unrecognized kind ", kindName)
		return false, nil
	}
	if id == "" {
		return false, nil
	}

	q := s.db.Model(kind.New()).Where("id = ?", id)
	if userID != "" && kind.HasColumn("user") {
		q = q.Where(`"user" = ?`, userID)
	}
	if visSessionID != "" && kind.HasColumn("session") {
		q = q.Where(`"session" = ?`, visSessionID)
	}

	res := q.Delete(kind.New())
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Count returns the distinct id count of the kind. Unrecognized kinds count 0.
func (s *Store) Count(kindName string) int64 {
	kind, ok := models.KindFromName(kindName)
	if !ok {
		return 0
	}
	var n int64
	if err := s.db.Model(kind.New()).Distinct("id").Count(&n).Error; err != nil {
		log.Warn("count failed for kind ", kindName, ": ", err)
		return 0
	}
	return n
}

// GetNames returns the name column of the kind with search pagination
// semantics. Kinds without a name column yield an empty list.
func (s *Store) GetNames(kindName string, size *int, offset int) []string {
	return s.pluckColumn(kindName, "name", size, offset)
}

// GetIDs returns the id column of the kind with search pagination semantics.
func (s *Store) GetIDs(kindName string, size *int, offset int) []string {
	return s.pluckColumn(kindName, "id", size, offset)
}

func (s *Store) pluckColumn(kindName, column string, size *int, offset int) []string {
	values := []string{}
	kind, ok := models.KindFromName(kindName)
	if !ok || !kind.HasColumn(column) {
		return values
	}

	q := s.db.Model(kind.New())
	if offset > 0 {
		q = q.Offset(offset)
	}
	if size != nil {
		q = q.Limit(*size)
	}
	if err := q.Pluck(column, &values).Error; err != nil {
		log.Warn("column projection failed for kind ", kindName, ": ", err)
		return []string{}
	}
	return values
}
