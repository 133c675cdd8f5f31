package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/result-academic/records-service/internal/authz"
	"github.com/result-academic/records-service/internal/models"
	"github.com/result-academic/records-service/internal/repositories"
	"github.com/result-academic/records-service/internal/validator"
)

type departmentService struct {
	repo      repositories.Repository
	policy    *resultPolicy
	validator *validator.Validator
	logger    *slog.Logger
}

func NewDepartmentService(
	repo repositories.Repository,
	resolver *authz.Resolver,
	v *validator.Validator,
	logger *slog.Logger,
) DepartmentService {
	return &departmentService{
		repo:      repo,
		policy:    newResultPolicy(repo, resolver),
		validator: v,
		logger:    logger,
	}
}

func (s *departmentService) requirePermission(ctx context.Context, actingUserID uint, permission, action string) error {
	actor, err := s.policy.actor(ctx, actingUserID)
	if err != nil {
		return err
	}
	perms, err := s.policy.permissions(ctx, actor)
	if err != nil {
		return err
	}
	if !perms.Has(permission) {
		return NewPermissionError(actingUserID, "department", action, "missing "+permission+" permission")
	}
	return nil
}

func (s *departmentService) Create(ctx context.Context, req *CreateDepartmentRequest, actingUserID uint) (*models.Department, error) {
	s.logger.Info("Creating department", "name", req.Name, "acting_user_id", actingUserID)

	if err := s.requirePermission(ctx, actingUserID, authz.PermCreateDepartment, "create"); err != nil {
		return nil, err
	}
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	if taken, err := s.repo.Department().ExistsByName(ctx, req.Name, 0); err != nil {
		return nil, fmt.Errorf("failed to check department name: %w", err)
	} else if taken {
		return nil, NewConflictError("department name is already in use")
	}

	var head *models.User
	if req.HeadUserID != nil {
		var err error
		head, err = s.headCandidate(ctx, *req.HeadUserID, 0)
		if err != nil {
			return nil, err
		}
	}

	department := &models.Department{
		Name:        req.Name,
		Description: req.Description,
		HeadUserID:  req.HeadUserID,
	}

	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Department().Create(ctx, department); err != nil {
			return err
		}
		if head != nil {
			return s.promoteHead(ctx, txRepo, head, department.ID)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create department: %w", err)
	}

	s.logger.Info("Department created", "department_id", department.ID)
	return s.repo.Department().GetByID(ctx, department.ID)
}

func (s *departmentService) Update(ctx context.Context, id uint, req *UpdateDepartmentRequest, actingUserID uint) (*models.Department, error) {
	s.logger.Info("Updating department", "department_id", id, "acting_user_id", actingUserID)

	if err := s.requirePermission(ctx, actingUserID, authz.PermEditDepartment, "update"); err != nil {
		return nil, err
	}
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	department, err := s.repo.Department().GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrDepartmentNotFound
		}
		return nil, fmt.Errorf("failed to load department: %w", err)
	}

	if taken, err := s.repo.Department().ExistsByName(ctx, req.Name, id); err != nil {
		return nil, fmt.Errorf("failed to check department name: %w", err)
	} else if taken {
		return nil, NewConflictError("department name is already in use")
	}

	headChanged := !uintPtrEqual(department.HeadUserID, req.HeadUserID)

	var newHead *models.User
	if headChanged && req.HeadUserID != nil {
		newHead, err = s.headCandidate(ctx, *req.HeadUserID, id)
		if err != nil {
			return nil, err
		}
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if headChanged && department.HeadUserID != nil {
			if err := s.demoteHead(ctx, txRepo, *department.HeadUserID); err != nil {
				return err
			}
		}

		department.Name = req.Name
		department.Description = req.Description
		department.HeadUserID = req.HeadUserID
		if err := txRepo.Department().Update(ctx, department); err != nil {
			return err
		}

		if newHead != nil {
			return s.promoteHead(ctx, txRepo, newHead, id)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update department: %w", err)
	}

	s.logger.Info("Department updated", "department_id", id)
	return s.repo.Department().GetByID(ctx, id)
}

func (s *departmentService) Delete(ctx context.Context, id uint, actingUserID uint) error {
	s.logger.Info("Deleting department", "department_id", id, "acting_user_id", actingUserID)

	if err := s.requirePermission(ctx, actingUserID, authz.PermDeleteDepartment, "delete"); err != nil {
		return err
	}

	if _, err := s.repo.Department().GetByID(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrDepartmentNotFound
		}
		return fmt.Errorf("failed to load department: %w", err)
	}

	members, err := s.repo.Department().CountMembers(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count department members: %w", err)
	}
	if members > 0 {
		return NewConflictError("department still has members and cannot be deleted")
	}

	if err := s.repo.Department().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete department: %w", err)
	}

	s.logger.Info("Department deleted", "department_id", id)
	return nil
}

func (s *departmentService) GetByID(ctx context.Context, id uint, actingUserID uint) (*models.Department, error) {
	if _, err := s.policy.actor(ctx, actingUserID); err != nil {
		return nil, err
	}

	department, err := s.repo.Department().GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrDepartmentNotFound
		}
		return nil, fmt.Errorf("failed to load department: %w", err)
	}
	return department, nil
}

// List returns every department. Available to any enabled account since the
// list backs profile and registration forms.
func (s *departmentService) List(ctx context.Context, actingUserID uint) (*DepartmentListResponse, error) {
	if _, err := s.policy.actor(ctx, actingUserID); err != nil {
		return nil, err
	}

	departments, total, err := s.repo.Department().List(ctx, repositories.DepartmentFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	return &DepartmentListResponse{Departments: departments, Total: total}, nil
}

// headCandidate validates a prospective department head. The candidate must
// exist, be enabled and either belong to no department or already belong to
// the department in question.
func (s *departmentService) headCandidate(ctx context.Context, userID, departmentID uint) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load head candidate: %w", err)
	}
	if !user.IsEnabled {
		return nil, NewBusinessRuleError("department_head", "head candidate account is disabled")
	}
	if user.DepartmentID != nil && *user.DepartmentID != departmentID {
		return nil, NewConflictError("head candidate already belongs to another department")
	}
	return user, nil
}

// promoteHead moves the candidate into the department and grants the
// head_of_department role.
func (s *departmentService) promoteHead(ctx context.Context, txRepo repositories.Repository, head *models.User, departmentID uint) error {
	role, err := txRepo.Role().GetByName(ctx, models.RoleHeadOfDepartment)
	if err != nil {
		return fmt.Errorf("failed to load head role: %w", err)
	}
	head.DepartmentID = &departmentID
	head.RoleID = role.ID
	if err := txRepo.User().Update(ctx, head); err != nil {
		return fmt.Errorf("failed to promote department head: %w", err)
	}
	return nil
}

// demoteHead returns a replaced head to the default professor role. The user
// keeps their department membership.
func (s *departmentService) demoteHead(ctx context.Context, txRepo repositories.Repository, userID uint) error {
	user, err := txRepo.User().GetByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return fmt.Errorf("failed to load outgoing head: %w", err)
	}
	role, err := txRepo.Role().GetByName(ctx, models.RoleProfessor)
	if err != nil {
		return fmt.Errorf("failed to load professor role: %w", err)
	}
	user.RoleID = role.ID
	if err := txRepo.User().Update(ctx, user); err != nil {
		return fmt.Errorf("failed to demote outgoing head: %w", err)
	}
	return nil
}

func uintPtrEqual(a, b *uint) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
