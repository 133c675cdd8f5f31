package pkg

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/result-academic/records-service/internal/authz"
	"github.com/result-academic/records-service/internal/config"
	"github.com/result-academic/records-service/internal/models"
	"github.com/result-academic/records-service/internal/repositories"
)

// defaultRolePermissions maps each built-in role to the permissions it is
// granted on first creation. Later changes through the roles API are not
// overwritten on restart.
var defaultRolePermissions = map[string][]string{
	models.RoleAdmin: {
		authz.PermViewAllResults,
		authz.PermCreateResult,
		authz.PermEditAnyResult,
		authz.PermDeleteAnyResult,
		authz.PermManageUsers,
		authz.PermAssignRoles,
		authz.PermViewAllUsers,
		authz.PermCreateDepartment,
		authz.PermEditDepartment,
		authz.PermDeleteDepartment,
		authz.PermViewAllDepartments,
		authz.PermManageRolesPermissions,
		authz.PermAdminSystem,
	},
	models.RoleDirective: {
		authz.PermViewAllResults,
		authz.PermCreateResult,
		authz.PermEditAnyResult,
		authz.PermViewAllUsers,
		authz.PermViewAllDepartments,
	},
	models.RoleHeadOfDepartment: {
		authz.PermViewDepartmentResults,
		authz.PermCreateResult,
		authz.PermEditDepartmentResults,
		authz.PermViewAllDepartments,
	},
	models.RoleProfessor: {
		authz.PermViewOwnResults,
		authz.PermCreateResult,
	},
}

var roleDescriptions = map[string]string{
	models.RoleAdmin:            "Full system administration",
	models.RoleDirective:        "Institution-wide read access to results",
	models.RoleHeadOfDepartment: "Manages the results of one department",
	models.RoleProfessor:        "Default role for registered staff",
}

// SeedAuthData creates the permission vocabulary and the built-in roles if
// they do not exist yet. Safe to run on every startup.
func SeedAuthData(ctx context.Context, repo repositories.Repository, logger *slog.Logger) error {
	return repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		permissions, err := txRepo.Role().EnsurePermissions(ctx, authz.AllPermissions())
		if err != nil {
			return fmt.Errorf("failed to seed permissions: %w", err)
		}

		byName := make(map[string]models.Permission, len(permissions))
		for _, p := range permissions {
			byName[p.Name] = p
		}

		for _, roleName := range []string{
			models.RoleAdmin,
			models.RoleDirective,
			models.RoleHeadOfDepartment,
			models.RoleProfessor,
		} {
			if _, err := txRepo.Role().GetByName(ctx, roleName); err == nil {
				continue
			}

			role := &models.Role{
				Name:        roleName,
				Description: roleDescriptions[roleName],
			}
			if err := txRepo.Role().Create(ctx, role); err != nil {
				return fmt.Errorf("failed to seed role %s: %w", roleName, err)
			}

			granted := make([]models.Permission, 0, len(defaultRolePermissions[roleName]))
			for _, name := range defaultRolePermissions[roleName] {
				if p, ok := byName[name]; ok {
					granted = append(granted, p)
				}
			}
			if err := txRepo.Role().SyncPermissions(ctx, role.ID, granted); err != nil {
				return fmt.Errorf("failed to grant permissions to role %s: %w", roleName, err)
			}

			logger.Info("Seeded role", "role", roleName, "permissions", len(granted))
		}

		return nil
	})
}

// SeedAdminAccount creates the first admin account when no enabled admin
// exists. Public registration only hands out the professor role, so without
// this a fresh database has no way to reach the admin endpoints. Safe to run
// on every startup.
func SeedAdminAccount(ctx context.Context, repo repositories.Repository, cfg *config.Config, logger *slog.Logger) error {
	count, err := repo.User().CountEnabledWithRole(ctx, models.RoleAdmin)
	if err != nil {
		return fmt.Errorf("failed to count admin accounts: %w", err)
	}
	if count > 0 {
		return nil
	}

	if cfg.AdminPassword == "" {
		logger.Warn("No enabled admin account and ADMIN_PASSWORD is not set, skipping admin seed")
		return nil
	}

	if _, err := repo.User().GetByEmail(ctx, cfg.AdminEmail); err == nil {
		logger.Warn("Admin seed email already taken by a non-admin or disabled account, skipping",
			"email", cfg.AdminEmail)
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check admin email: %w", err)
	}

	role, err := repo.Role().GetByName(ctx, models.RoleAdmin)
	if err != nil {
		return fmt.Errorf("failed to load admin role: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &models.User{
		Name:              cfg.AdminName,
		Email:             cfg.AdminEmail,
		CI:                cfg.AdminCI,
		Password:          string(hash),
		RoleID:            role.ID,
		ProfessionalLevel: models.LevelMaster,
		IsEnabled:         true,
	}
	if err := repo.User().Create(ctx, admin); err != nil {
		return fmt.Errorf("failed to seed admin account: %w", err)
	}

	logger.Info("Seeded admin account", "email", cfg.AdminEmail)
	return nil
}
