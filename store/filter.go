package store

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"fusiondb/models"
)

// The predicate engine. Filter specs originate from loosely-typed caller data
// (UI state, request bodies), so the engine is total: every (operator,
// operand-type) pair either extends the query or is a logged no-op. It never
// panics and never fails the surrounding search.

var sqlOps = map[string]string{
	"==": "=",
	"!=": "<>",
	">":  ">",
	">=": ">=",
	"<":  "<",
	"<=": "<=",
}

// ApplyFilter extends the in-flight query with one (kind, field, predicate)
// constraint. A literal scalar is an equality test; a single-key map is an
// operator object.
func ApplyFilter(q *gorm.DB, kind models.Kind, field string, value interface{}) *gorm.DB {
	if !kind.HasColumn(field) {
		log.Warnf("ignoring search filter on unknown column %s.%s", kind.Table(), field)
		return q
	}
	column := fmt.Sprintf("%q.%q", kind.Table(), field)

	switch v := value.(type) {
	case string:
		return q.Where(column+" = ?", v)
	case bool:
		return q.Where(column+" = ?", v)
	case map[string]interface{}:
		return applyOp(q, kind, column, field, v)
	default:
		if isNumber(v) {
			return q.Where(column+" = ?", v)
		}
		log.Warnf("ignoring search filter with unsupported literal on %s.%s", kind.Table(), field)
		return q
	}
}

func applyOp(q *gorm.DB, kind models.Kind, column, field string, op map[string]interface{}) *gorm.DB {
	if len(op) != 1 {
		log.Warnf("ignoring search filter on %s.%s: operator object must have exactly one key", kind.Table(), field)
		return q
	}

	var opType string
	var operand interface{}
	for k, v := range op {
		opType, operand = k, v
	}

	switch opType {
	case "==", "!=":
		if !isNumber(operand) && !isString(operand) {
			return skip(q, kind, field, opType)
		}
		return q.Where(column+" "+sqlOps[opType]+" ?", operand)
	case ">", ">=", "<", "<=":
		if !isNumber(operand) {
			return skip(q, kind, field, opType)
		}
		return q.Where(column+" "+sqlOps[opType]+" ?", operand)
	case "in":
		list, ok := operandList(operand)
		if !ok {
			return skip(q, kind, field, opType)
		}
		return q.Where(column+" IN ?", list)
	case "!in":
		list, ok := operandList(operand)
		if !ok {
			return skip(q, kind, field, opType)
		}
		return q.Where(column+" NOT IN ?", list)
	default:
		log.Warnf("ignoring search filter on %s.%s: unknown operator %q", kind.Table(), field, opType)
		return q
	}
}

func skip(q *gorm.DB, kind models.Kind, field, opType string) *gorm.DB {
	log.Warnf("ignoring search filter on %s.%s: operand type does not match operator %q", kind.Table(), field, opType)
	return q
}

func isString(v interface{}) bool {
	_, ok := v.(string)
	return ok
}

func isNumber(v interface{}) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	}
	return false
}

func operandList(v interface{}) ([]interface{}, bool) {
	switch list := v.(type) {
	case []interface{}:
		return list, true
	case []string:
		out := make([]interface{}, len(list))
		for i, s := range list {
			out[i] = s
		}
		return out, true
	case []float64:
		out := make([]interface{}, len(list))
		for i, f := range list {
			out[i] = f
		}
		return out, true
	}
	return nil, false
}
