package validator

// ===== AUTH =====

// RegisterRequest is the public self-registration payload. New accounts get
// the default professor role.
type RegisterRequest struct {
	Name                 string  `json:"name" validate:"required,max=255"`
	Email                string  `json:"email" validate:"required,email,max=255"`
	CI                   string  `json:"ci" validate:"required,ci_digits"`
	Password             string  `json:"password" validate:"required,password_complexity"`
	PasswordConfirmation string  `json:"password_confirmation" validate:"required,eqfield=Password"`
	TeachingCategory     *string `json:"teaching_category" validate:"omitempty,teaching_category"`
	ScientificCategory   *string `json:"scientific_category" validate:"omitempty,scientific_category"`
	ProfessionalLevel    string  `json:"professional_level" validate:"required,professional_level"`
	DepartmentID         *uint   `json:"department_id"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ===== USERS (admin) =====

type UserCreateRequest struct {
	Name                 string  `json:"name" validate:"required,max=255"`
	Email                string  `json:"email" validate:"required,email,max=255"`
	CI                   string  `json:"ci" validate:"required,ci_digits"`
	Password             string  `json:"password" validate:"required,password_complexity"`
	PasswordConfirmation string  `json:"password_confirmation" validate:"required,eqfield=Password"`
	TeachingCategory     *string `json:"teaching_category" validate:"omitempty,teaching_category"`
	ScientificCategory   *string `json:"scientific_category" validate:"omitempty,scientific_category"`
	ProfessionalLevel    string  `json:"professional_level" validate:"required,professional_level"`
	DepartmentID         *uint   `json:"department_id"`
	Role                 string  `json:"role" validate:"required"`
}

// UserUpdateRequest replaces the user's profile. Password is optional; when
// present it must meet complexity and be confirmed.
type UserUpdateRequest struct {
	Name                 string  `json:"name" validate:"required,max=255"`
	Email                string  `json:"email" validate:"required,email,max=255"`
	CI                   string  `json:"ci" validate:"required,ci_digits"`
	Password             *string `json:"password" validate:"omitempty,password_complexity"`
	PasswordConfirmation *string `json:"password_confirmation" validate:"required_with=Password,omitempty,eqfield=Password"`
	TeachingCategory     *string `json:"teaching_category" validate:"omitempty,teaching_category"`
	ScientificCategory   *string `json:"scientific_category" validate:"omitempty,scientific_category"`
	ProfessionalLevel    string  `json:"professional_level" validate:"required,professional_level"`
	DepartmentID         *uint   `json:"department_id"`
	Role                 string  `json:"role" validate:"required"`
}

type UserStatusRequest struct {
	IsEnabled *bool `json:"is_enabled" validate:"required"`
}

// ===== DEPARTMENTS =====

type DepartmentCreateRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description" validate:"omitempty,max=1000"`
	HeadUserID  *uint  `json:"head_user_id"`
}

type DepartmentUpdateRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description" validate:"omitempty,max=1000"`
	HeadUserID  *uint  `json:"head_user_id"`
}

// ===== ROLES =====

type RoleCreateRequest struct {
	Name        string   `json:"name" validate:"required,max=100"`
	Description string   `json:"description" validate:"omitempty,max=255"`
	Permissions []string `json:"permissions"`
}

type RolePermissionsRequest struct {
	Permissions []string `json:"permissions" validate:"required"`
}

// ===== RESULTS =====

// MagazineRequest carries journal article details.
type MagazineRequest struct {
	Name   string `json:"name" validate:"required,max=255"`
	Number string `json:"number" validate:"required,max=50"`
	Volume string `json:"volume" validate:"required,max=50"`
	DOI    string `json:"doi" validate:"omitempty,max=255"`
}

// BookRequest carries book publication details.
type BookRequest struct {
	Editorial string `json:"editorial" validate:"required,max=255"`
	Place     string `json:"place" validate:"required,max=255"`
}

// ChapterRequest carries book chapter details.
type ChapterRequest struct {
	BookName  string `json:"book_name" validate:"required,max=255"`
	Author    string `json:"author" validate:"required,max=255"`
	Editorial string `json:"editorial" validate:"required,max=255"`
	Place     string `json:"place" validate:"omitempty,max=255"`
}

// PublicationCreateRequest creates a publication with its detail record.
// Exactly one of Magazine, Book or Chapter must be present, matching Type.
type PublicationCreateRequest struct {
	Name        string       `json:"name" validate:"required,max=255"`
	Type        string       `json:"type" validate:"required,publication_type"`
	Date        string       `json:"date" validate:"required,result_date"`
	Description string       `json:"description" validate:"omitempty,max=2000"`
	AuthorIDs   []FlexibleID `json:"authors"`

	Magazine *MagazineRequest `json:"magazine" validate:"omitempty"`
	Book     *BookRequest     `json:"book" validate:"omitempty"`
	Chapter  *ChapterRequest  `json:"chapter" validate:"omitempty"`
}

// PublicationUpdateRequest fully replaces a publication. A type change swaps
// the detail record.
type PublicationUpdateRequest = PublicationCreateRequest

type AwardCreateRequest struct {
	Name        string       `json:"name" validate:"required,max=255"`
	Type        string       `json:"type" validate:"required,max=100"`
	Date        string       `json:"date" validate:"required,result_date"`
	Description string       `json:"description" validate:"omitempty,max=2000"`
	AuthorIDs   []FlexibleID `json:"authors"`
}

type AwardUpdateRequest = AwardCreateRequest

// RecognitionCreateRequest creates a recognition. Only the name is mandatory;
// type, date and description are optional.
type RecognitionCreateRequest struct {
	Name        string       `json:"name" validate:"required,max=255"`
	Type        string       `json:"type" validate:"omitempty,max=100"`
	Date        string       `json:"date" validate:"omitempty,result_date"`
	Description string       `json:"description" validate:"omitempty,max=2000"`
	AuthorIDs   []FlexibleID `json:"authors"`
}

type RecognitionUpdateRequest = RecognitionCreateRequest

// EventCreateRequest creates a scientific event participation. Only the name
// is mandatory; category, date and description are optional.
type EventCreateRequest struct {
	Name        string       `json:"name" validate:"required,max=255"`
	Category    string       `json:"category" validate:"omitempty,max=100"`
	Date        string       `json:"date" validate:"omitempty,result_date"`
	Description string       `json:"description" validate:"omitempty,max=2000"`
	AuthorIDs   []FlexibleID `json:"authors"`
}

type EventUpdateRequest = EventCreateRequest
