package validator

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/result-academic/records-service/internal/models"
)

func TestPasswordMeetsComplexity(t *testing.T) {
	cases := []struct {
		password string
		want     bool
	}{
		{"abc123!@", true},
		{"P4ssword!", true},
		{"abcdefgh", false},   // no digit, no special
		{"12345678", false},   // no letter, no special
		{"abcd1234", false},   // no special
		{"a1!", false},        // too short
		{"!@#$%^&*", false},   // no letter, no digit
		{"", false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, PasswordMeetsComplexity(tc.password), "password %q", tc.password)
	}
}

func TestValidateRegisterRequest(t *testing.T) {
	v := New()

	valid := &RegisterRequest{
		Name:                 "Ana Torres",
		Email:                "ana@example.com",
		CI:                   "85042312345",
		Password:             "abc123!@",
		PasswordConfirmation: "abc123!@",
		ProfessionalLevel:    models.LevelMaster,
	}
	assert.Empty(t, v.Validate(valid))

	t.Run("ci must be 11 digits", func(t *testing.T) {
		req := *valid
		req.CI = "1234567890" // 10 digits
		errs := v.Validate(&req)
		require.Len(t, errs, 1)
		assert.Equal(t, "ci_digits", errs[0].Rule)

		req.CI = "8504231234a"
		errs = v.Validate(&req)
		require.Len(t, errs, 1)
		assert.Equal(t, "ci_digits", errs[0].Rule)
	})

	t.Run("password confirmation must match", func(t *testing.T) {
		req := *valid
		req.PasswordConfirmation = "other123!@"
		errs := v.Validate(&req)
		require.Len(t, errs, 1)
		assert.Equal(t, "PasswordConfirmation", errs[0].Field)
	})

	t.Run("professional level is a closed set", func(t *testing.T) {
		req := *valid
		req.ProfessionalLevel = "ingeniero"
		errs := v.Validate(&req)
		require.Len(t, errs, 1)
		assert.Equal(t, "professional_level", errs[0].Rule)
	})

	t.Run("teaching category is optional but validated", func(t *testing.T) {
		req := *valid
		bad := "profesor_emerito"
		req.TeachingCategory = &bad
		errs := v.Validate(&req)
		require.Len(t, errs, 1)
		assert.Equal(t, "teaching_category", errs[0].Rule)

		good := models.TeachingPrincipal
		req.TeachingCategory = &good
		assert.Empty(t, v.Validate(&req))
	})
}

func TestValidateResultDate(t *testing.T) {
	v := New()

	req := &AwardCreateRequest{
		Name: "Premio Nacional",
		Type: "nacional",
		Date: "2024-03-15",
	}
	assert.Empty(t, v.Validate(req))

	req.Date = "15/03/2024"
	errs := v.Validate(req)
	require.Len(t, errs, 1)
	assert.Equal(t, "result_date", errs[0].Rule)

	req.Date = "2024-13-01"
	errs = v.Validate(req)
	require.Len(t, errs, 1)
	assert.Equal(t, "result_date", errs[0].Rule)
}

func TestValidatePublicationPayload(t *testing.T) {
	v := New()

	base := PublicationCreateRequest{
		Name: "Deep Learning en agricultura",
		Date: "2024-05-01",
	}

	t.Run("journal requires magazine detail", func(t *testing.T) {
		req := base
		req.Type = string(models.PublicationJournal)
		errs := v.ValidatePublicationPayload(&req)
		require.Len(t, errs, 1)
		assert.Equal(t, "magazine", errs[0].Field)
		assert.Equal(t, "publication_detail", errs[0].Rule)

		req.Magazine = &MagazineRequest{Name: "Revista Ciencias", Number: "3", Volume: "12"}
		assert.Empty(t, v.ValidatePublicationPayload(&req))
	})

	t.Run("journal requires number and volume", func(t *testing.T) {
		req := base
		req.Type = string(models.PublicationJournal)
		req.Magazine = &MagazineRequest{Name: "Revista Ciencias"}
		errs := v.ValidatePublicationPayload(&req)
		require.Len(t, errs, 2)
		assert.ElementsMatch(t, []string{"Number", "Volume"}, []string{errs[0].Field, errs[1].Field})
	})

	t.Run("journal rejects foreign details", func(t *testing.T) {
		req := base
		req.Type = string(models.PublicationJournal)
		req.Magazine = &MagazineRequest{Name: "Revista Ciencias", Number: "3", Volume: "12"}
		req.Book = &BookRequest{Editorial: "Editorial UH"}
		errs := v.ValidatePublicationPayload(&req)
		require.Len(t, errs, 1)
		assert.Equal(t, "type", errs[0].Field)
	})

	t.Run("book requires editorial and place", func(t *testing.T) {
		req := base
		req.Type = string(models.PublicationBook)
		req.Book = &BookRequest{}
		errs := v.ValidatePublicationPayload(&req)
		require.Len(t, errs, 2)
		assert.ElementsMatch(t, []string{"Editorial", "Place"}, []string{errs[0].Field, errs[1].Field})

		req.Book = &BookRequest{Editorial: "Editorial UH", Place: "La Habana"}
		assert.Empty(t, v.ValidatePublicationPayload(&req))
	})

	t.Run("chapter requires book name, author and publisher", func(t *testing.T) {
		req := base
		req.Type = string(models.PublicationBookChapter)
		errs := v.ValidatePublicationPayload(&req)
		require.Len(t, errs, 1)
		assert.Equal(t, "chapter", errs[0].Field)

		req.Chapter = &ChapterRequest{BookName: "Avances en IA"}
		errs = v.ValidatePublicationPayload(&req)
		require.Len(t, errs, 2)
		assert.ElementsMatch(t, []string{"Author", "Editorial"}, []string{errs[0].Field, errs[1].Field})

		req.Chapter = &ChapterRequest{BookName: "Avances en IA", Author: "Luis Mena", Editorial: "Editorial UH"}
		assert.Empty(t, v.ValidatePublicationPayload(&req))
	})

	t.Run("unknown type fails struct validation", func(t *testing.T) {
		req := base
		req.Type = "thesis"
		errs := v.ValidatePublicationPayload(&req)
		require.Len(t, errs, 1)
		assert.Equal(t, "publication_type", errs[0].Rule)
	})
}

func TestEventAndRecognitionOptionalFields(t *testing.T) {
	v := New()

	// Only the name is mandatory for events and recognitions.
	assert.Empty(t, v.Validate(&EventCreateRequest{
		Name:      "Conferencia de clausura",
		AuthorIDs: []FlexibleID{1},
	}))
	assert.Empty(t, v.Validate(&RecognitionCreateRequest{
		Name: "Sello Forjadores del Futuro",
	}))

	t.Run("date is validated when present", func(t *testing.T) {
		errs := v.Validate(&EventCreateRequest{Name: "Foro", Date: "20/09/2024"})
		require.Len(t, errs, 1)
		assert.Equal(t, "result_date", errs[0].Rule)

		errs = v.Validate(&RecognitionCreateRequest{Name: "Sello", Date: "2024-13-01"})
		require.Len(t, errs, 1)
		assert.Equal(t, "result_date", errs[0].Rule)
	})

	t.Run("name is still required", func(t *testing.T) {
		errs := v.Validate(&EventCreateRequest{Category: "taller"})
		require.Len(t, errs, 1)
		assert.Equal(t, "Name", errs[0].Field)
	})
}

func TestFlexibleIDUnmarshal(t *testing.T) {
	var payload struct {
		Authors []FlexibleID `json:"authors"`
	}

	// Clients send IDs both as numbers and as strings.
	err := json.Unmarshal([]byte(`{"authors": [7, "12", 3]}`), &payload)
	require.NoError(t, err)
	assert.Equal(t, []uint{7, 12, 3}, UintSlice(payload.Authors))

	err = json.Unmarshal([]byte(`{"authors": ["abc"]}`), &payload)
	assert.Error(t, err)

	err = json.Unmarshal([]byte(`{"authors": [null]}`), &payload)
	assert.Error(t, err)
}

func TestUserUpdateRequestOptionalPassword(t *testing.T) {
	v := New()

	req := &UserUpdateRequest{
		Name:              "Luis Mena",
		Email:             "luis@example.com",
		CI:                "90011223344",
		ProfessionalLevel: models.LevelGraduate,
		Role:              "professor",
	}
	assert.Empty(t, v.Validate(req))

	weak := "short"
	req.Password = &weak
	confirmation := "short"
	req.PasswordConfirmation = &confirmation
	errs := v.Validate(req)
	require.Len(t, errs, 1)
	assert.Equal(t, "password_complexity", errs[0].Rule)

	strong := "abc123!@"
	req.Password = &strong
	req.PasswordConfirmation = &strong
	assert.Empty(t, v.Validate(req))
}
