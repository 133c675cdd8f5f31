package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/result-academic/records-service/internal/authz"
	"github.com/result-academic/records-service/internal/events"
	"github.com/result-academic/records-service/internal/repositories"
	"github.com/result-academic/records-service/internal/validator"
)

// ServiceManagerConfig carries the cross-service settings.
type ServiceManagerConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// serviceManager implements ServiceManager interface
type serviceManager struct {
	// Dependencies
	repo      repositories.Repository
	resolver  *authz.Resolver
	validator *validator.Validator
	publisher events.EventPublisher
	logger    *slog.Logger
	config    ServiceManagerConfig

	// Service instances
	authService        AuthService
	userService        UserService
	departmentService  DepartmentService
	roleService        RoleService
	publicationService PublicationService
	awardService       AwardService
	recognitionService RecognitionService
	eventService       EventService
	reportService      ReportService

	// Lifecycle management
	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a service manager with all dependencies.
func NewServiceManager(
	repo repositories.Repository,
	resolver *authz.Resolver,
	v *validator.Validator,
	publisher events.EventPublisher,
	logger *slog.Logger,
	config ServiceManagerConfig,
) ServiceManager {
	return &serviceManager{
		repo:      repo,
		resolver:  resolver,
		validator: v,
		publisher: publisher,
		logger:    logger,
		config:    config,
	}
}

// Initialize sets up all services.
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.logger.Info("Initializing service manager")

	sm.authService = NewAuthService(sm.repo, sm.validator, sm.logger, sm.config.JWTSecret, sm.config.TokenTTL)
	sm.userService = NewUserService(sm.repo, sm.resolver, sm.validator, sm.publisher, sm.logger)
	sm.departmentService = NewDepartmentService(sm.repo, sm.resolver, sm.validator, sm.logger)
	sm.roleService = NewRoleService(sm.repo, sm.resolver, sm.validator, sm.logger)
	sm.publicationService = NewPublicationService(sm.repo, sm.resolver, sm.validator, sm.publisher, sm.logger)
	sm.awardService = NewAwardService(sm.repo, sm.resolver, sm.validator, sm.publisher, sm.logger)
	sm.recognitionService = NewRecognitionService(sm.repo, sm.resolver, sm.validator, sm.publisher, sm.logger)
	sm.eventService = NewEventService(sm.repo, sm.resolver, sm.validator, sm.publisher, sm.logger)
	sm.reportService = NewReportService(sm.repo, sm.resolver, sm.logger)

	sm.initialized = true
	sm.logger.Info("Service manager initialized successfully")

	return nil
}

// Service getters
func (sm *serviceManager) Auth() AuthService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.authService
}

func (sm *serviceManager) User() UserService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.userService
}

func (sm *serviceManager) Department() DepartmentService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.departmentService
}

func (sm *serviceManager) Role() RoleService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.roleService
}

func (sm *serviceManager) Publication() PublicationService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.publicationService
}

func (sm *serviceManager) Award() AwardService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.awardService
}

func (sm *serviceManager) Recognition() RecognitionService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.recognitionService
}

func (sm *serviceManager) Event() EventService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.eventService
}

func (sm *serviceManager) Report() ReportService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.reportService
}

// Health and lifecycle
func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}
	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	if err := sm.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}

	return nil
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.logger.Info("Shutting down service manager")

	if err := sm.publisher.Close(); err != nil {
		sm.logger.Error("Failed to close event publisher", "error", err)
	}
	if err := sm.repo.Close(); err != nil {
		sm.logger.Error("Failed to close repository", "error", err)
	}

	sm.shutdown = true
	sm.logger.Info("Service manager shut down completed")

	return nil
}
