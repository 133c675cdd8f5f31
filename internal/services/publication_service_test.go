package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/result-academic/records-service/internal/models"
	"github.com/result-academic/records-service/internal/validator"
)

func newPublicationService(fx *fixture) PublicationService {
	return NewPublicationService(fx.repo, fx.resolver, fx.validator, fx.publisher, fx.logger)
}

func journalRequest() *CreatePublicationRequest {
	return &CreatePublicationRequest{
		Name:     "Optimización de redes neuronales",
		Type:     string(models.PublicationJournal),
		Date:     "2024-03-10",
		Magazine: &validator.MagazineRequest{Name: "Revista Ciencias", Volume: "12", Number: "3"},
	}
}

func TestPublicationService_Create_WithDetail(t *testing.T) {
	fx := newFixture()
	svc := newPublicationService(fx)
	ctx := context.Background()

	prof := fx.addUser("Ana Torres", models.RoleProfessor, nil)

	resp, err := svc.Create(ctx, journalRequest(), prof.ID)
	require.NoError(t, err)

	assert.Equal(t, models.PublicationJournal, resp.Publication.Type)
	require.NotNil(t, resp.Magazine)
	assert.Equal(t, "Revista Ciencias", resp.Magazine.Name)
	assert.Nil(t, resp.Book)
	assert.Nil(t, resp.Chapter)
	require.Len(t, resp.Authors, 1)
	assert.Equal(t, prof.ID, resp.Authors[0].ID)
}

func TestPublicationService_Create_DetailMismatch(t *testing.T) {
	fx := newFixture()
	svc := newPublicationService(fx)
	ctx := context.Background()

	prof := fx.addUser("Ana Torres", models.RoleProfessor, nil)

	t.Run("missing detail", func(t *testing.T) {
		req := journalRequest()
		req.Magazine = nil

		_, err := svc.Create(ctx, req, prof.ID)
		var errs ValidationErrors
		require.ErrorAs(t, err, &errs)
		assert.Equal(t, "magazine", errs[0].Field)
	})

	t.Run("foreign detail", func(t *testing.T) {
		req := journalRequest()
		req.Book = &validator.BookRequest{Editorial: "Editorial UH"}

		_, err := svc.Create(ctx, req, prof.ID)
		var errs ValidationErrors
		require.ErrorAs(t, err, &errs)
		assert.Equal(t, "publication_detail", errs[0].Rule)
	})
}

func TestPublicationService_Update_TypeChangeSwapsDetail(t *testing.T) {
	fx := newFixture()
	svc := newPublicationService(fx)
	ctx := context.Background()

	prof := fx.addUser("Ana Torres", models.RoleProfessor, nil)

	created, err := svc.Create(ctx, journalRequest(), prof.ID)
	require.NoError(t, err)

	update := &UpdatePublicationRequest{
		Name: "Optimización de redes neuronales",
		Type: string(models.PublicationBook),
		Date: "2024-03-10",
		Book: &validator.BookRequest{Editorial: "Editorial UH", Place: "La Habana"},
	}

	resp, err := svc.Update(ctx, created.ID, update, prof.ID)
	require.NoError(t, err)

	assert.Equal(t, models.PublicationBook, resp.Publication.Type)
	require.NotNil(t, resp.Book)
	assert.Equal(t, "Editorial UH", resp.Book.Editorial)
	// The stale journal detail is gone after the type change.
	assert.Nil(t, resp.Magazine)
}

func TestPublicationService_GetByID_HidesOutOfScope(t *testing.T) {
	fx := newFixture()
	svc := newPublicationService(fx)
	ctx := context.Background()

	prof := fx.addUser("Ana Torres", models.RoleProfessor, nil)
	other := fx.addUser("Pedro Díaz", models.RoleProfessor, nil)

	created, err := svc.Create(ctx, journalRequest(), prof.ID)
	require.NoError(t, err)

	_, err = svc.GetByID(ctx, created.ID, other.ID)
	assert.ErrorIs(t, err, ErrPublicationNotFound)
}

func TestPublicationService_List_Pagination(t *testing.T) {
	fx := newFixture()
	svc := newPublicationService(fx)
	ctx := context.Background()

	admin := fx.addUser("Admin", models.RoleAdmin, nil)
	prof := fx.addUser("Ana Torres", models.RoleProfessor, nil)

	for i := 0; i < DefaultPageSize+3; i++ {
		req := journalRequest()
		_, err := svc.Create(ctx, req, prof.ID)
		require.NoError(t, err)
	}

	first, err := svc.List(ctx, 1, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(DefaultPageSize+3), first.Total)
	assert.Len(t, first.Publications, DefaultPageSize)
	assert.Equal(t, 1, first.Page)

	second, err := svc.List(ctx, 2, admin.ID)
	require.NoError(t, err)
	assert.Len(t, second.Publications, 3)
	assert.Equal(t, 2, second.Page)
}
