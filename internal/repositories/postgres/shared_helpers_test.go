package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/result-academic/records-service/internal/authz"
)

// buildScopedSQL renders the SQL a scoped award listing would produce without
// touching the database.
func buildScopedSQL(t *testing.T, scope authz.Scope) string {
	t.Helper()

	db, _ := newMockDB(t)
	dry := db.Session(&gorm.Session{DryRun: true})
	helpers := NewSharedHelpers(dry)

	query := dry.Table("awards")
	query = helpers.ApplyResultScope(query, "awards", "award_user", "award_id", scope)

	var rows []map[string]interface{}
	return query.Find(&rows).Statement.SQL.String()
}

func TestApplyResultScope(t *testing.T) {
	t.Run("all scope leaves the query unrestricted", func(t *testing.T) {
		sql := buildScopedSQL(t, authz.Scope{Kind: authz.ScopeAll})
		assert.NotContains(t, sql, "WHERE")
	})

	t.Run("department scope filters through the authorship join", func(t *testing.T) {
		sql := buildScopedSQL(t, authz.Scope{Kind: authz.ScopeDepartment, DepartmentID: 4})
		assert.Contains(t, sql, "awards.id IN")
		assert.Contains(t, sql, "JOIN users ON users.id = award_user.user_id")
		assert.Contains(t, sql, "users.department_id")
	})

	t.Run("own scope filters on the acting user", func(t *testing.T) {
		sql := buildScopedSQL(t, authz.Scope{Kind: authz.ScopeOwn, UserID: 9})
		assert.Contains(t, sql, "awards.id IN")
		assert.Contains(t, sql, "user_id")
		assert.NotContains(t, sql, "JOIN users")
	})

	t.Run("none scope matches nothing", func(t *testing.T) {
		sql := buildScopedSQL(t, authz.Scope{Kind: authz.ScopeNone})
		assert.Contains(t, sql, "1 = 0")
	})
}

func TestApplyPagination(t *testing.T) {
	db, _ := newMockDB(t)
	dry := db.Session(&gorm.Session{DryRun: true})
	helpers := NewSharedHelpers(dry)

	t.Run("zero limit means no pagination", func(t *testing.T) {
		var rows []map[string]interface{}
		query := helpers.ApplyPagination(dry.Table("awards"), 0, 0)
		sql := query.Find(&rows).Statement.SQL.String()
		assert.NotContains(t, sql, "LIMIT")
		assert.NotContains(t, sql, "OFFSET")
	})

	t.Run("limit and offset applied when positive", func(t *testing.T) {
		var rows []map[string]interface{}
		query := helpers.ApplyPagination(dry.Table("awards"), 10, 20)
		sql := query.Find(&rows).Statement.SQL.String()
		assert.Contains(t, sql, "LIMIT")
		assert.Contains(t, sql, "OFFSET")
	})
}

func TestApplyResultOrdering(t *testing.T) {
	db, _ := newMockDB(t)
	dry := db.Session(&gorm.Session{DryRun: true})
	helpers := NewSharedHelpers(dry)

	var rows []map[string]interface{}
	query := helpers.ApplyResultOrdering(dry.Table("awards"), "awards")
	sql := query.Find(&rows).Statement.SQL.String()
	assert.Contains(t, sql, "awards.date DESC")
	assert.Contains(t, sql, "awards.id DESC")
}
