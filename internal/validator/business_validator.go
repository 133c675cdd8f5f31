package validator

import (
	"github.com/result-academic/records-service/internal/models"
)

// ValidatePublicationPayload checks that exactly the detail record matching
// the publication type is present.
func (v *Validator) ValidatePublicationPayload(req *PublicationCreateRequest) ValidationErrors {
	errors := v.Validate(req)

	switch models.PublicationType(req.Type) {
	case models.PublicationJournal:
		if req.Magazine == nil {
			errors = append(errors, ValidationError{
				Field:   "magazine",
				Message: "is required for journal publications",
				Rule:    "publication_detail",
			})
		} else {
			errors = append(errors, v.Validate(req.Magazine)...)
		}
		if req.Book != nil || req.Chapter != nil {
			errors = append(errors, ValidationError{
				Field:   "type",
				Message: "journal publications accept only magazine details",
				Rule:    "publication_detail",
			})
		}
	case models.PublicationBook:
		if req.Book == nil {
			errors = append(errors, ValidationError{
				Field:   "book",
				Message: "is required for book publications",
				Rule:    "publication_detail",
			})
		} else {
			errors = append(errors, v.Validate(req.Book)...)
		}
		if req.Magazine != nil || req.Chapter != nil {
			errors = append(errors, ValidationError{
				Field:   "type",
				Message: "book publications accept only book details",
				Rule:    "publication_detail",
			})
		}
	case models.PublicationBookChapter:
		if req.Chapter == nil {
			errors = append(errors, ValidationError{
				Field:   "chapter",
				Message: "is required for book chapter publications",
				Rule:    "publication_detail",
			})
		} else {
			errors = append(errors, v.Validate(req.Chapter)...)
		}
		if req.Magazine != nil || req.Book != nil {
			errors = append(errors, ValidationError{
				Field:   "type",
				Message: "book chapter publications accept only chapter details",
				Rule:    "publication_detail",
			})
		}
	}

	return errors
}
