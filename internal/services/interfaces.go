package services

import (
	"context"

	"github.com/xuri/excelize/v2"

	"github.com/result-academic/records-service/internal/models"
	"github.com/result-academic/records-service/internal/validator"
)

// DefaultPageSize is the fixed page size for result listings.
const DefaultPageSize = 10

// ===== REQUEST DTOs =====

// Use validator request types directly.
type RegisterRequest = validator.RegisterRequest
type LoginRequest = validator.LoginRequest
type CreateUserRequest = validator.UserCreateRequest
type UpdateUserRequest = validator.UserUpdateRequest
type CreateDepartmentRequest = validator.DepartmentCreateRequest
type UpdateDepartmentRequest = validator.DepartmentUpdateRequest
type CreateRoleRequest = validator.RoleCreateRequest
type CreatePublicationRequest = validator.PublicationCreateRequest
type UpdatePublicationRequest = validator.PublicationUpdateRequest
type CreateAwardRequest = validator.AwardCreateRequest
type UpdateAwardRequest = validator.AwardUpdateRequest
type CreateRecognitionRequest = validator.RecognitionCreateRequest
type UpdateRecognitionRequest = validator.RecognitionUpdateRequest
type CreateEventRequest = validator.EventCreateRequest
type UpdateEventRequest = validator.EventUpdateRequest

// DeleteOutcome distinguishes a full delete from an own-scope detach where
// only the acting user's authorship link was removed.
type DeleteOutcome string

const (
	OutcomeDeleted  DeleteOutcome = "deleted"
	OutcomeDetached DeleteOutcome = "detached"
)

// ===== RESPONSE TYPES =====

type PublicationResponse struct {
	*models.Publication
	CanEdit   bool `json:"can_edit"`
	CanDelete bool `json:"can_delete"`
}

type PublicationListResponse struct {
	Publications []*PublicationResponse `json:"publications"`
	Total        int64                  `json:"total"`
	Page         int                    `json:"page"`
	Size         int                    `json:"size"`
}

type AwardResponse struct {
	*models.Award
	CanEdit   bool `json:"can_edit"`
	CanDelete bool `json:"can_delete"`
}

type AwardListResponse struct {
	Awards []*AwardResponse `json:"awards"`
	Total  int64            `json:"total"`
	Page   int              `json:"page"`
	Size   int              `json:"size"`
}

type RecognitionResponse struct {
	*models.Recognition
	CanEdit   bool `json:"can_edit"`
	CanDelete bool `json:"can_delete"`
}

type RecognitionListResponse struct {
	Recognitions []*RecognitionResponse `json:"recognitions"`
	Total        int64                  `json:"total"`
	Page         int                    `json:"page"`
	Size         int                    `json:"size"`
}

type EventResponse struct {
	*models.Event
	CanEdit   bool `json:"can_edit"`
	CanDelete bool `json:"can_delete"`
}

type EventListResponse struct {
	Events []*EventResponse `json:"events"`
	Total  int64            `json:"total"`
	Page   int              `json:"page"`
	Size   int              `json:"size"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type UserListResponse struct {
	Users []*models.User `json:"users"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Size  int            `json:"size"`
}

type DepartmentListResponse struct {
	Departments []*models.Department `json:"departments"`
	Total       int64                `json:"total"`
}

// ===== SERVICE INTERFACES =====

// PublicationService manages publications under scoped visibility rules.
type PublicationService interface {
	Create(ctx context.Context, req *CreatePublicationRequest, userID uint) (*PublicationResponse, error)
	GetByID(ctx context.Context, id uint, userID uint) (*PublicationResponse, error)
	List(ctx context.Context, page int, userID uint) (*PublicationListResponse, error)
	Update(ctx context.Context, id uint, req *UpdatePublicationRequest, userID uint) (*PublicationResponse, error)
	Delete(ctx context.Context, id uint, userID uint) (DeleteOutcome, error)
}

type AwardService interface {
	Create(ctx context.Context, req *CreateAwardRequest, userID uint) (*AwardResponse, error)
	GetByID(ctx context.Context, id uint, userID uint) (*AwardResponse, error)
	List(ctx context.Context, page int, userID uint) (*AwardListResponse, error)
	Update(ctx context.Context, id uint, req *UpdateAwardRequest, userID uint) (*AwardResponse, error)
	Delete(ctx context.Context, id uint, userID uint) (DeleteOutcome, error)
}

type RecognitionService interface {
	Create(ctx context.Context, req *CreateRecognitionRequest, userID uint) (*RecognitionResponse, error)
	GetByID(ctx context.Context, id uint, userID uint) (*RecognitionResponse, error)
	List(ctx context.Context, page int, userID uint) (*RecognitionListResponse, error)
	Update(ctx context.Context, id uint, req *UpdateRecognitionRequest, userID uint) (*RecognitionResponse, error)
	Delete(ctx context.Context, id uint, userID uint) (DeleteOutcome, error)
}

type EventService interface {
	Create(ctx context.Context, req *CreateEventRequest, userID uint) (*EventResponse, error)
	GetByID(ctx context.Context, id uint, userID uint) (*EventResponse, error)
	List(ctx context.Context, page int, userID uint) (*EventListResponse, error)
	Update(ctx context.Context, id uint, req *UpdateEventRequest, userID uint) (*EventResponse, error)
	Delete(ctx context.Context, id uint, userID uint) (DeleteOutcome, error)
}

// AuthService handles registration and login.
type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error)
}

// UserService manages accounts. Mutating operations require the manage_users
// permission.
type UserService interface {
	Create(ctx context.Context, req *CreateUserRequest, actingUserID uint) (*models.User, error)
	Update(ctx context.Context, id uint, req *UpdateUserRequest, actingUserID uint) (*models.User, error)
	GetByID(ctx context.Context, id uint, actingUserID uint) (*models.User, error)
	List(ctx context.Context, page, size int, actingUserID uint) (*UserListResponse, error)
	Search(ctx context.Context, query string, page, size int, actingUserID uint) (*UserListResponse, error)

	// SetStatus enables or disables an account. Disabling yourself or the
	// last enabled admin is rejected.
	SetStatus(ctx context.Context, id uint, enabled bool, actingUserID uint) (*models.User, error)

	// Disable is the delete operation. Accounts are disabled, never removed.
	Disable(ctx context.Context, id uint, actingUserID uint) (*models.User, error)
}

type DepartmentService interface {
	Create(ctx context.Context, req *CreateDepartmentRequest, actingUserID uint) (*models.Department, error)
	Update(ctx context.Context, id uint, req *UpdateDepartmentRequest, actingUserID uint) (*models.Department, error)
	Delete(ctx context.Context, id uint, actingUserID uint) error
	GetByID(ctx context.Context, id uint, actingUserID uint) (*models.Department, error)
	List(ctx context.Context, actingUserID uint) (*DepartmentListResponse, error)
}

type RoleService interface {
	List(ctx context.Context, actingUserID uint) ([]*models.Role, error)
	ListPermissions(ctx context.Context, actingUserID uint) ([]*models.Permission, error)
	Create(ctx context.Context, req *CreateRoleRequest, actingUserID uint) (*models.Role, error)
	SyncPermissions(ctx context.Context, roleID uint, permissions []string, actingUserID uint) (*models.Role, error)
	Delete(ctx context.Context, roleID uint, actingUserID uint) error
}

// ReportService exports the caller's visible results.
type ReportService interface {
	ExportResults(ctx context.Context, userID uint) (*excelize.File, error)
}

// ServiceManager provides access to all services.
type ServiceManager interface {
	Auth() AuthService
	User() UserService
	Department() DepartmentService
	Role() RoleService
	Publication() PublicationService
	Award() AwardService
	Recognition() RecognitionService
	Event() EventService
	Report() ReportService

	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
