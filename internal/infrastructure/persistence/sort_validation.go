package persistence

import (
	"strings"

	"github.com/menuhub/backend/internal/domain/shared"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// sortColumns maps domain sort fields to SQL columns. Anything else is ignored.
var sortColumns = map[string]string{
	"name":      "name",
	"price":     "price",
	"sales":     "sales",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

// applySort adds ORDER BY clauses for the whitelisted fields, falling back to newest first
func applySort(query *gorm.DB, fields []shared.SortField) *gorm.DB {
	if len(fields) == 0 {
		fields = shared.DefaultSort()
	}
	applied := false
	for _, f := range fields {
		column, ok := sortColumns[f.Field]
		if !ok {
			continue
		}
		query = query.Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: f.Desc})
		applied = true
	}
	if !applied {
		query = query.Order(clause.OrderByColumn{Column: clause.Column{Name: "created_at"}, Desc: true})
	}
	return query
}

// likePattern builds a case-insensitive substring pattern for LOWER(column) LIKE ?
func likePattern(search string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(cases.Lower(language.Und).String(strings.TrimSpace(search)))
	return "%" + escaped + "%"
}

// saveModel updates the row addressed by model's primary key, inserting it when
// no row matched. Timestamps come from the entity, not from GORM.
func saveModel(db *gorm.DB, model any, omit ...string) error {
	omit = append([]string{"id", "created_at"}, omit...)
	result := db.Model(model).Select("*").Omit(omit...).UpdateColumns(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}
	return db.Create(model).Error
}
