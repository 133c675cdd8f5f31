package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/result-academic/records-service/internal/models"
)

func TestEventService_CreateAndDelete(t *testing.T) {
	fx := newFixture()
	svc := NewEventService(fx.repo, fx.resolver, fx.validator, fx.publisher, fx.logger)
	ctx := context.Background()

	prof := fx.addUser("Ana Torres", models.RoleProfessor, nil)
	coauthor := fx.addUser("Luis Mena", models.RoleProfessor, nil)

	resp, err := svc.Create(ctx, &CreateEventRequest{
		Name:      "Congreso Internacional de Matemática",
		Category:  "conferencia",
		Date:      "2024-09-20",
		AuthorIDs: flexibleIDs(coauthor.ID),
	}, prof.ID)
	require.NoError(t, err)
	assert.Len(t, resp.Authors, 2)
	assert.Equal(t, "conferencia", resp.Event.Category)

	// Co-authored own-scope delete detaches instead of removing.
	outcome, err := svc.Delete(ctx, resp.ID, prof.ID)
	require.NoError(t, err)
	assert.Equal(t, OutcomeDetached, outcome)

	outcome, err = svc.Delete(ctx, resp.ID, coauthor.ID)
	require.NoError(t, err)
	assert.Equal(t, OutcomeDeleted, outcome)
}

func TestEventService_Create_OptionalFields(t *testing.T) {
	fx := newFixture()
	svc := NewEventService(fx.repo, fx.resolver, fx.validator, fx.publisher, fx.logger)
	ctx := context.Background()

	prof := fx.addUser("Ana Torres", models.RoleProfessor, nil)

	// Category and date may be omitted entirely.
	resp, err := svc.Create(ctx, &CreateEventRequest{
		Name: "Taller de divulgación científica",
	}, prof.ID)
	require.NoError(t, err)
	assert.Empty(t, resp.Event.Category)
	assert.Nil(t, resp.Event.Date)

	// A date, when present, still has to parse.
	_, err = svc.Create(ctx, &CreateEventRequest{
		Name: "Foro de energía",
		Date: "20/09/2024",
	}, prof.ID)
	var errs ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, "result_date", errs[0].Rule)
}

func TestRecognitionService_Create_OptionalFields(t *testing.T) {
	fx := newFixture()
	svc := NewRecognitionService(fx.repo, fx.resolver, fx.validator, fx.publisher, fx.logger)
	ctx := context.Background()

	prof := fx.addUser("Ana Torres", models.RoleProfessor, nil)

	resp, err := svc.Create(ctx, &CreateRecognitionRequest{
		Name: "Reconocimiento por años de servicio",
	}, prof.ID)
	require.NoError(t, err)
	assert.Empty(t, resp.Recognition.Type)
	assert.Nil(t, resp.Recognition.Date)
}

func TestRecognitionService_CreateAndList(t *testing.T) {
	fx := newFixture()
	svc := NewRecognitionService(fx.repo, fx.resolver, fx.validator, fx.publisher, fx.logger)
	ctx := context.Background()

	dept := fx.addDepartment("Matemática")
	head := fx.addUser("Jefa", models.RoleHeadOfDepartment, &dept.ID)
	prof := fx.addUser("Ana Torres", models.RoleProfessor, &dept.ID)

	created, err := svc.Create(ctx, &CreateRecognitionRequest{
		Name: "Sello Forjadores del Futuro",
		Type: "institucional",
		Date: "2024-02-01",
	}, prof.ID)
	require.NoError(t, err)

	// Department heads see and may edit their members' recognitions.
	resp, err := svc.List(ctx, 1, head.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), resp.Total)
	assert.Equal(t, created.ID, resp.Recognitions[0].ID)
	assert.True(t, resp.Recognitions[0].CanEdit)
	assert.False(t, resp.Recognitions[0].CanDelete)
}
