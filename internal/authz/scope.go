package authz

import "github.com/result-academic/records-service/internal/models"

// Action is an operation on academic results subject to scoped authorization.
type Action string

const (
	ActionView   Action = "view"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
)

// ScopeKind orders the visibility tiers from narrowest to widest.
type ScopeKind int

const (
	ScopeNone ScopeKind = iota
	ScopeOwn
	ScopeDepartment
	ScopeAll
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeOwn:
		return "own"
	case ScopeDepartment:
		return "department"
	case ScopeAll:
		return "all"
	default:
		return "none"
	}
}

// Scope is the resolved reach of a user's action over results. DepartmentID is
// set only for ScopeDepartment, UserID only for ScopeOwn.
type Scope struct {
	Kind         ScopeKind
	DepartmentID uint
	UserID       uint
}

// tier names the three permissions of an action family.
type tier struct {
	all        string
	department string
	own        string
}

var actionTiers = map[Action]tier{
	ActionView:   {PermViewAllResults, PermViewDepartmentResults, PermViewOwnResults},
	ActionEdit:   {PermEditAnyResult, PermEditDepartmentResults, PermEditOwnResult},
	ActionDelete: {PermDeleteAnyResult, PermDeleteDepartmentResults, PermDeleteOwnResult},
}

// ResolveScope picks exactly one visibility tier for the action. The widest
// held tier wins and tiers are never combined. A department-tier permission
// held by a user without a department degrades to own scope. Holding no tier
// of the family yields ScopeNone: lists come back empty and single-resource
// operations are denied.
func ResolveScope(perms PermissionSet, action Action, user *models.User) Scope {
	tiers, ok := actionTiers[action]
	if !ok {
		return Scope{Kind: ScopeNone}
	}

	if perms.Has(tiers.all) {
		return Scope{Kind: ScopeAll}
	}
	if perms.Has(tiers.department) {
		if user.HasDepartment() {
			return Scope{Kind: ScopeDepartment, DepartmentID: *user.DepartmentID}
		}
		return Scope{Kind: ScopeOwn, UserID: user.ID}
	}
	if perms.Has(tiers.own) {
		return Scope{Kind: ScopeOwn, UserID: user.ID}
	}
	return Scope{Kind: ScopeNone}
}

// Allows reports whether a result with the given author set falls inside the
// scope. Department scope matches when any author belongs to the department;
// own scope when the acting user is among the authors.
func (s Scope) Allows(authors []models.User) bool {
	switch s.Kind {
	case ScopeAll:
		return true
	case ScopeDepartment:
		for _, a := range authors {
			if a.DepartmentID != nil && *a.DepartmentID == s.DepartmentID {
				return true
			}
		}
		return false
	case ScopeOwn:
		for _, a := range authors {
			if a.ID == s.UserID {
				return true
			}
		}
		return false
	default:
		return false
	}
}
