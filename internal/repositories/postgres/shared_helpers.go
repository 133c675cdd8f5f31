package postgres

import (
	"gorm.io/gorm"

	"github.com/result-academic/records-service/internal/authz"
)

// SharedHelpers contains query fragments common to the result repositories.
type SharedHelpers struct {
	db *gorm.DB
}

func NewSharedHelpers(db *gorm.DB) *SharedHelpers {
	return &SharedHelpers{db: db}
}

// ApplyResultScope narrows a result query to the resolved visibility scope.
// table is the result table, joinTable the authorship join table and fkColumn
// the result foreign key inside it. Department scope matches rows where any
// author belongs to the department; own scope rows authored by the user; none
// matches nothing.
func (h *SharedHelpers) ApplyResultScope(query *gorm.DB, table, joinTable, fkColumn string, scope authz.Scope) *gorm.DB {
	switch scope.Kind {
	case authz.ScopeAll:
		return query
	case authz.ScopeDepartment:
		sub := h.db.Table(joinTable).
			Select(joinTable+"."+fkColumn).
			Joins("JOIN users ON users.id = "+joinTable+".user_id").
			Where("users.department_id = ?", scope.DepartmentID)
		return query.Where(table+".id IN (?)", sub)
	case authz.ScopeOwn:
		sub := h.db.Table(joinTable).
			Select(fkColumn).
			Where("user_id = ?", scope.UserID)
		return query.Where(table+".id IN (?)", sub)
	default:
		return query.Where("1 = 0")
	}
}

// ApplyResultOrdering sorts results by date descending, newest first, with id
// as tie breaker for stable pages.
func (h *SharedHelpers) ApplyResultOrdering(query *gorm.DB, table string) *gorm.DB {
	return query.Order(table + ".date DESC").Order(table + ".id DESC")
}

// ApplyPagination applies limit and offset when set.
func (h *SharedHelpers) ApplyPagination(query *gorm.DB, limit, offset int) *gorm.DB {
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	return query
}
