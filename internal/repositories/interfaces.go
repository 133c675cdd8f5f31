package repositories

import (
	"github.com/result-academic/records-service/internal/authz"
)

// ===== SHARED FILTER STRUCTS =====

// ResultFilters scope and paginate academic result queries. The scope is
// applied as a SQL predicate so out-of-scope rows never leave the database.
type ResultFilters struct {
	Scope  authz.Scope `json:"-"`
	Limit  int         `json:"limit"`
	Offset int         `json:"offset"`
}

// UserFilters defines filters for user queries
type UserFilters struct {
	Query        string  // Search query for name or email
	DepartmentID *uint   // Filter by department
	RoleName     *string // Filter by role name
	EnabledOnly  bool    // Restrict to enabled accounts
	Limit        int     // Page size
	Offset       int     // Offset for pagination
}

// DepartmentFilters defines filters for department queries
type DepartmentFilters struct {
	Query  string
	Limit  int
	Offset int
}
