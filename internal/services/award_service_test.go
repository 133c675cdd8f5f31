package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/result-academic/records-service/internal/events"
	"github.com/result-academic/records-service/internal/models"
	"github.com/result-academic/records-service/internal/validator"
)

func newAwardService(fx *fixture) AwardService {
	return NewAwardService(fx.repo, fx.resolver, fx.validator, fx.publisher, fx.logger)
}

func TestAwardService_Create(t *testing.T) {
	fx := newFixture()
	svc := newAwardService(fx)
	ctx := context.Background()

	dept := fx.addDepartment("Matemática")
	prof := fx.addUser("Ana Torres", models.RoleProfessor, &dept.ID)
	coauthor := fx.addUser("Luis Mena", models.RoleProfessor, &dept.ID)

	req := &CreateAwardRequest{
		Name:      "Premio Nacional de Ciencias",
		Type:      "nacional",
		Date:      "2024-06-01",
		AuthorIDs: flexibleIDs(coauthor.ID),
	}

	resp, err := svc.Create(ctx, req, prof.ID)
	require.NoError(t, err)
	require.NotNil(t, resp)

	// The acting user is always an author, even when not listed.
	authorIDs := make([]uint, len(resp.Authors))
	for i, a := range resp.Authors {
		authorIDs[i] = a.ID
	}
	assert.ElementsMatch(t, []uint{prof.ID, coauthor.ID}, authorIDs)

	// Own scope over an authored result grants both flags.
	assert.True(t, resp.CanEdit)
	assert.True(t, resp.CanDelete)

	published := fx.publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.TypeResultCreated, published[0].Type)
	data, ok := published[0].Data.(events.ResultEventData)
	require.True(t, ok)
	assert.Equal(t, "award", data.Resource)
	assert.Equal(t, resp.ID, data.ResultID)
	assert.Equal(t, prof.ID, data.ActorID)
}

func TestAwardService_Create_Denied(t *testing.T) {
	fx := newFixture()
	svc := newAwardService(fx)
	ctx := context.Background()

	t.Run("missing create permission", func(t *testing.T) {
		fx.addRole("reader", "view_own_results")
		reader := fx.addUser("Solo Lectura", "reader", nil)

		_, err := svc.Create(ctx, &CreateAwardRequest{
			Name: "Premio", Type: "nacional", Date: "2024-06-01",
		}, reader.ID)

		var permErr *PermissionError
		require.ErrorAs(t, err, &permErr)
		assert.Equal(t, "create", permErr.Action)
	})

	t.Run("disabled actor", func(t *testing.T) {
		prof := fx.addUser("Inactivo", models.RoleProfessor, nil)
		fx.disableUser(prof.ID)

		_, err := svc.Create(ctx, &CreateAwardRequest{
			Name: "Premio", Type: "nacional", Date: "2024-06-01",
		}, prof.ID)
		assert.ErrorIs(t, err, ErrAccountDisabled)
	})

	t.Run("unknown actor", func(t *testing.T) {
		_, err := svc.Create(ctx, &CreateAwardRequest{
			Name: "Premio", Type: "nacional", Date: "2024-06-01",
		}, 9999)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("invalid date", func(t *testing.T) {
		prof := fx.addUser("Con Permiso", models.RoleProfessor, nil)

		_, err := svc.Create(ctx, &CreateAwardRequest{
			Name: "Premio", Type: "nacional", Date: "01/06/2024",
		}, prof.ID)

		var errs ValidationErrors
		require.ErrorAs(t, err, &errs)
		assert.Equal(t, "result_date", errs[0].Rule)
	})

	t.Run("nonexistent author", func(t *testing.T) {
		prof := fx.addUser("Autor Real", models.RoleProfessor, nil)

		_, err := svc.Create(ctx, &CreateAwardRequest{
			Name: "Premio", Type: "nacional", Date: "2024-06-01",
			AuthorIDs: flexibleIDs(4242),
		}, prof.ID)

		var errs ValidationErrors
		require.ErrorAs(t, err, &errs)
		assert.Equal(t, "author_exists", errs[0].Rule)
	})
}

func TestAwardService_GetByID_Scoping(t *testing.T) {
	fx := newFixture()
	svc := newAwardService(fx)
	ctx := context.Background()

	math := fx.addDepartment("Matemática")
	physics := fx.addDepartment("Física")
	admin := fx.addUser("Admin", models.RoleAdmin, nil)
	head := fx.addUser("Jefa Matemática", models.RoleHeadOfDepartment, &math.ID)
	prof := fx.addUser("Ana Torres", models.RoleProfessor, &math.ID)
	outsider := fx.addUser("Pedro Díaz", models.RoleProfessor, &physics.ID)

	award := fx.addAward("Premio Anual", prof)

	t.Run("author sees own result", func(t *testing.T) {
		resp, err := svc.GetByID(ctx, award.ID, prof.ID)
		require.NoError(t, err)
		assert.Equal(t, award.ID, resp.ID)
		assert.True(t, resp.CanEdit)
	})

	t.Run("department head sees department result", func(t *testing.T) {
		resp, err := svc.GetByID(ctx, award.ID, head.ID)
		require.NoError(t, err)
		assert.True(t, resp.CanEdit)
		// The head role has no delete tier.
		assert.False(t, resp.CanDelete)
	})

	t.Run("admin sees everything", func(t *testing.T) {
		resp, err := svc.GetByID(ctx, award.ID, admin.ID)
		require.NoError(t, err)
		assert.True(t, resp.CanEdit)
		assert.True(t, resp.CanDelete)
	})

	t.Run("out of scope reads as not found", func(t *testing.T) {
		_, err := svc.GetByID(ctx, award.ID, outsider.ID)
		assert.ErrorIs(t, err, ErrAwardNotFound)
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := svc.GetByID(ctx, 9999, admin.ID)
		assert.ErrorIs(t, err, ErrAwardNotFound)
	})
}

func TestAwardService_List_Scoping(t *testing.T) {
	fx := newFixture()
	svc := newAwardService(fx)
	ctx := context.Background()

	math := fx.addDepartment("Matemática")
	physics := fx.addDepartment("Física")
	admin := fx.addUser("Admin", models.RoleAdmin, nil)
	head := fx.addUser("Jefa Matemática", models.RoleHeadOfDepartment, &math.ID)
	prof := fx.addUser("Ana Torres", models.RoleProfessor, &math.ID)
	outsider := fx.addUser("Pedro Díaz", models.RoleProfessor, &physics.ID)

	fx.addAward("Premio de Ana", prof)
	fx.addAward("Premio de Pedro", outsider)
	fx.addAward("Premio compartido", prof, outsider)

	t.Run("admin lists all", func(t *testing.T) {
		resp, err := svc.List(ctx, 1, admin.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(3), resp.Total)
		assert.Len(t, resp.Awards, 3)
	})

	t.Run("head lists department results", func(t *testing.T) {
		resp, err := svc.List(ctx, 1, head.ID)
		require.NoError(t, err)
		// Ana's award plus the shared one; Pedro's own stays out.
		assert.Equal(t, int64(2), resp.Total)
		for _, a := range resp.Awards {
			assert.True(t, a.CanEdit)
			assert.False(t, a.CanDelete)
		}
	})

	t.Run("professor lists own results", func(t *testing.T) {
		resp, err := svc.List(ctx, 1, prof.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), resp.Total)
	})

	t.Run("no view tier lists empty", func(t *testing.T) {
		fx.addRole("blind", "create_result")
		blind := fx.addUser("Sin Vista", "blind", nil)

		resp, err := svc.List(ctx, 1, blind.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), resp.Total)
		assert.Empty(t, resp.Awards)
	})
}

func TestAwardService_Update_OutOfScope(t *testing.T) {
	fx := newFixture()
	svc := newAwardService(fx)
	ctx := context.Background()

	prof := fx.addUser("Ana Torres", models.RoleProfessor, nil)
	other := fx.addUser("Pedro Díaz", models.RoleProfessor, nil)
	award := fx.addAward("Premio de Ana", prof)

	_, err := svc.Update(ctx, award.ID, &UpdateAwardRequest{
		Name: "Robado", Type: "nacional", Date: "2024-06-01",
	}, other.ID)

	var permErr *PermissionError
	require.ErrorAs(t, err, &permErr)
	assert.Equal(t, "edit", permErr.Action)
}

func TestAwardService_Update(t *testing.T) {
	fx := newFixture()
	svc := newAwardService(fx)
	ctx := context.Background()

	prof := fx.addUser("Ana Torres", models.RoleProfessor, nil)
	award := fx.addAward("Premio de Ana", prof)

	resp, err := svc.Update(ctx, award.ID, &UpdateAwardRequest{
		Name: "Premio renombrado", Type: "internacional", Date: "2024-07-01",
	}, prof.ID)
	require.NoError(t, err)
	assert.Equal(t, "Premio renombrado", resp.Name)
	assert.Equal(t, "internacional", resp.Type)

	published := fx.publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.TypeResultUpdated, published[0].Type)
}

func TestAwardService_Delete_DetachVersusDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("own scope co-authored detaches", func(t *testing.T) {
		fx := newFixture()
		svc := newAwardService(fx)

		prof := fx.addUser("Ana Torres", models.RoleProfessor, nil)
		coauthor := fx.addUser("Luis Mena", models.RoleProfessor, nil)
		award := fx.addAward("Premio compartido", prof, coauthor)

		outcome, err := svc.Delete(ctx, award.ID, prof.ID)
		require.NoError(t, err)
		assert.Equal(t, OutcomeDetached, outcome)

		// The result survives for the remaining author.
		remaining, err := fx.repo.Award().GetByID(ctx, award.ID)
		require.NoError(t, err)
		require.Len(t, remaining.Authors, 1)
		assert.Equal(t, coauthor.ID, remaining.Authors[0].ID)

		published := fx.publisher.GetPublishedEvents()
		require.Len(t, published, 1)
		assert.Equal(t, events.TypeResultDetached, published[0].Type)
	})

	t.Run("own scope sole author deletes", func(t *testing.T) {
		fx := newFixture()
		svc := newAwardService(fx)

		prof := fx.addUser("Ana Torres", models.RoleProfessor, nil)
		award := fx.addAward("Premio propio", prof)

		outcome, err := svc.Delete(ctx, award.ID, prof.ID)
		require.NoError(t, err)
		assert.Equal(t, OutcomeDeleted, outcome)

		_, err = fx.repo.Award().GetByID(ctx, award.ID)
		assert.Error(t, err)

		published := fx.publisher.GetPublishedEvents()
		require.Len(t, published, 1)
		assert.Equal(t, events.TypeResultDeleted, published[0].Type)
	})

	t.Run("all scope deletes co-authored outright", func(t *testing.T) {
		fx := newFixture()
		svc := newAwardService(fx)

		admin := fx.addUser("Admin", models.RoleAdmin, nil)
		prof := fx.addUser("Ana Torres", models.RoleProfessor, nil)
		coauthor := fx.addUser("Luis Mena", models.RoleProfessor, nil)
		award := fx.addAward("Premio compartido", prof, coauthor)

		outcome, err := svc.Delete(ctx, award.ID, admin.ID)
		require.NoError(t, err)
		assert.Equal(t, OutcomeDeleted, outcome)

		_, err = fx.repo.Award().GetByID(ctx, award.ID)
		assert.Error(t, err)
	})

	t.Run("out of scope is forbidden", func(t *testing.T) {
		fx := newFixture()
		svc := newAwardService(fx)

		prof := fx.addUser("Ana Torres", models.RoleProfessor, nil)
		other := fx.addUser("Pedro Díaz", models.RoleProfessor, nil)
		award := fx.addAward("Premio de Ana", prof)

		_, err := svc.Delete(ctx, award.ID, other.ID)
		var permErr *PermissionError
		require.ErrorAs(t, err, &permErr)
		assert.Equal(t, "delete", permErr.Action)
	})
}

// flexibleIDs builds the wire author list from plain IDs.
func flexibleIDs(ids ...uint) []validator.FlexibleID {
	out := make([]validator.FlexibleID, len(ids))
	for i, id := range ids {
		out[i] = validator.FlexibleID(id)
	}
	return out
}
