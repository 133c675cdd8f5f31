package authz

// Permission names. These are the canonical spellings; singular variants of
// the department-tier result permissions are accepted as aliases because both
// spellings exist in older seed data.
const (
	PermViewAllResults        = "view_all_results"
	PermViewDepartmentResults = "view_department_results"
	PermViewOwnResults        = "view_own_results"

	PermCreateResult            = "create_result"
	PermEditAnyResult           = "edit_any_result"
	PermEditDepartmentResults   = "edit_department_results"
	PermEditOwnResult           = "edit_own_result"
	PermDeleteAnyResult         = "delete_any_result"
	PermDeleteDepartmentResults = "delete_department_results"
	PermDeleteOwnResult         = "delete_own_result"

	PermManageUsers  = "manage_users"
	PermAssignRoles  = "assign_roles"
	PermViewAllUsers = "view_all_users"

	PermCreateDepartment   = "create_department"
	PermEditDepartment     = "edit_department"
	PermDeleteDepartment   = "delete_department"
	PermViewAllDepartments = "view_all_departments"

	PermManageRolesPermissions = "manage_roles_permissions"
	PermAdminSystem            = "admin_system"
)

var aliases = map[string]string{
	"edit_department_result":   PermEditDepartmentResults,
	"delete_department_result": PermDeleteDepartmentResults,
}

// Normalize maps alias spellings to the canonical permission name.
func Normalize(name string) string {
	if canonical, ok := aliases[name]; ok {
		return canonical
	}
	return name
}

// AllPermissions returns the canonical vocabulary in seed order.
func AllPermissions() []string {
	return []string{
		PermViewAllResults,
		PermViewDepartmentResults,
		PermViewOwnResults,
		PermCreateResult,
		PermEditAnyResult,
		PermEditDepartmentResults,
		PermEditOwnResult,
		PermDeleteAnyResult,
		PermDeleteDepartmentResults,
		PermDeleteOwnResult,
		PermManageUsers,
		PermAssignRoles,
		PermViewAllUsers,
		PermCreateDepartment,
		PermEditDepartment,
		PermDeleteDepartment,
		PermViewAllDepartments,
		PermManageRolesPermissions,
		PermAdminSystem,
	}
}

// IsKnownPermission reports whether name (after normalization) belongs to the
// vocabulary.
func IsKnownPermission(name string) bool {
	normalized := Normalize(name)
	for _, p := range AllPermissions() {
		if p == normalized {
			return true
		}
	}
	return false
}

// PermissionSet is the normalized set of permission names a user holds.
type PermissionSet map[string]struct{}

// NewPermissionSet builds a set from raw names, normalizing aliases.
func NewPermissionSet(names []string) PermissionSet {
	set := make(PermissionSet, len(names))
	for _, name := range names {
		set[Normalize(name)] = struct{}{}
	}
	return set
}

// Has reports whether the set contains the permission, accepting aliases.
func (s PermissionSet) Has(name string) bool {
	_, ok := s[Normalize(name)]
	return ok
}

// Names returns the contained permission names in unspecified order.
func (s PermissionSet) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	return names
}
