package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/result-academic/records-service/internal/models"
)

func newReportServiceUnderTest(fx *fixture) ReportService {
	return NewReportService(fx.repo, fx.resolver, fx.logger)
}

func TestReportService_ExportResults(t *testing.T) {
	fx := newFixture()
	svc := newReportServiceUnderTest(fx)
	ctx := context.Background()

	admin := fx.addUser("Admin", models.RoleAdmin, nil)
	prof := fx.addUser("Ana Torres", models.RoleProfessor, nil)
	other := fx.addUser("Pedro Díaz", models.RoleProfessor, nil)

	fx.addAward("Premio de Ana", prof)
	fx.addAward("Premio de Pedro", other)

	t.Run("workbook has one sheet per result kind", func(t *testing.T) {
		workbook, err := svc.ExportResults(ctx, admin.ID)
		require.NoError(t, err)
		defer workbook.Close()

		assert.ElementsMatch(t,
			[]string{"Publications", "Awards", "Recognitions", "Events"},
			workbook.GetSheetList())

		rows, err := workbook.GetRows("Awards")
		require.NoError(t, err)
		// Header plus both awards for the all scope.
		require.Len(t, rows, 3)
		assert.Equal(t, "Name", rows[0][0])
		assert.Equal(t, "Premio de Ana", rows[1][0])
		assert.Equal(t, "Ana Torres", rows[1][4])
	})

	t.Run("export honors the view scope", func(t *testing.T) {
		workbook, err := svc.ExportResults(ctx, prof.ID)
		require.NoError(t, err)
		defer workbook.Close()

		rows, err := workbook.GetRows("Awards")
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "Premio de Ana", rows[1][0])
	})

	t.Run("disabled actor is rejected", func(t *testing.T) {
		disabled := fx.addUser("Inactivo", models.RoleProfessor, nil)
		fx.disableUser(disabled.ID)

		_, err := svc.ExportResults(ctx, disabled.ID)
		assert.ErrorIs(t, err, ErrAccountDisabled)
	})
}
