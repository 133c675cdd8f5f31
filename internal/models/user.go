package models

import (
	"time"

	"gorm.io/gorm"
)

// Teaching category values (closed set, optional per user)
const (
	TeachingPrincipal = "profesor_principal"
	TeachingAssistant = "profesor_ayudante"
	TeachingTrainer   = "profesor_entrenador"
)

// Scientific category values (closed set, optional per user)
const (
	ScientificAspirant  = "aspirante"
	ScientificAssociate = "investigador_agregado"
	ScientificTitular   = "investigador_titular"
)

// Professional level values (closed set, required per user)
const (
	LevelTechnician = "tecnico"
	LevelSpecialist = "especialista"
	LevelWorker     = "obrero"
	LevelGraduate   = "licenciado"
	LevelMaster     = "master"
	LevelDoctorate  = "doctor_en_ciencias"
)

type User struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Name     string `json:"name" gorm:"not null;size:255"`
	Email    string `json:"email" gorm:"uniqueIndex;not null;size:255"`
	CI       string `json:"ci" gorm:"uniqueIndex;not null;size:11"`
	Password string `json:"-" gorm:"not null;size:255"`

	RoleID uint  `json:"role_id" gorm:"not null;index"`
	Role   *Role `json:"role,omitempty" gorm:"foreignKey:RoleID"`

	DepartmentID *uint       `json:"department_id"`
	Department   *Department `json:"department,omitempty" gorm:"foreignKey:DepartmentID"`

	// Academic profile
	TeachingCategory   *string `json:"teaching_category" gorm:"size:50"`
	ScientificCategory *string `json:"scientific_category" gorm:"size:50"`
	ProfessionalLevel  string  `json:"professional_level" gorm:"not null;size:50"`

	// Accounts are disabled, never deleted
	IsEnabled bool `json:"is_enabled" gorm:"default:true;not null"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (User) TableName() string {
	return "users"
}

// HasDepartment reports whether the user belongs to a department.
func (u *User) HasDepartment() bool {
	return u.DepartmentID != nil && *u.DepartmentID != 0
}

// RoleName returns the name of the preloaded role, or "" when not loaded.
func (u *User) RoleName() string {
	if u.Role == nil {
		return ""
	}
	return u.Role.Name
}

func ValidTeachingCategories() []string {
	return []string{TeachingPrincipal, TeachingAssistant, TeachingTrainer}
}

func ValidScientificCategories() []string {
	return []string{ScientificAspirant, ScientificAssociate, ScientificTitular}
}

func ValidProfessionalLevels() []string {
	return []string{LevelTechnician, LevelSpecialist, LevelWorker, LevelGraduate, LevelMaster, LevelDoctorate}
}
