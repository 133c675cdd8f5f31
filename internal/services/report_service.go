package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"gorm.io/datatypes"

	"github.com/result-academic/records-service/internal/authz"
	"github.com/result-academic/records-service/internal/models"
	"github.com/result-academic/records-service/internal/repositories"
)

type reportService struct {
	repo   repositories.Repository
	policy *resultPolicy
	logger *slog.Logger
}

func NewReportService(repo repositories.Repository, resolver *authz.Resolver, logger *slog.Logger) ReportService {
	return &reportService{
		repo:   repo,
		policy: newResultPolicy(repo, resolver),
		logger: logger,
	}
}

// ExportResults builds a workbook with one sheet per result kind, limited to
// what the caller's view scope covers.
func (s *reportService) ExportResults(ctx context.Context, userID uint) (*excelize.File, error) {
	s.logger.Info("Exporting results report", "user_id", userID)

	actor, err := s.policy.actor(ctx, userID)
	if err != nil {
		return nil, err
	}
	scope, err := s.policy.scopeFor(ctx, actor, authz.ActionView)
	if err != nil {
		return nil, err
	}

	// No pagination: the export covers everything visible.
	filters := repositories.ResultFilters{Scope: scope}

	f := excelize.NewFile()

	publications, _, err := s.repo.Publication().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to load publications for report: %w", err)
	}
	if err := s.writePublicationSheet(f, publications); err != nil {
		return nil, err
	}

	awards, _, err := s.repo.Award().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to load awards for report: %w", err)
	}
	if err := s.writeResultSheet(f, "Awards", "Type", awardRows(awards)); err != nil {
		return nil, err
	}

	recognitions, _, err := s.repo.Recognition().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to load recognitions for report: %w", err)
	}
	if err := s.writeResultSheet(f, "Recognitions", "Type", recognitionRows(recognitions)); err != nil {
		return nil, err
	}

	eventsList, _, err := s.repo.Event().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to load events for report: %w", err)
	}
	if err := s.writeResultSheet(f, "Events", "Category", eventRows(eventsList)); err != nil {
		return nil, err
	}

	s.logger.Info("Results report built", "user_id", userID,
		"publications", len(publications), "awards", len(awards),
		"recognitions", len(recognitions), "events", len(eventsList))
	return f, nil
}

func (s *reportService) writePublicationSheet(f *excelize.File, publications []*models.Publication) error {
	const sheet = "Publications"
	// The workbook starts with a default sheet; rename it for the first kind.
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	headers := []interface{}{"Name", "Type", "Date", "Description", "Authors", "Detail"}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return fmt.Errorf("failed to write headers for %s: %w", sheet, err)
	}
	for i, p := range publications {
		row := []interface{}{
			p.Name,
			string(p.Type),
			formatReportDate(p.Date),
			p.Description,
			authorNames(p.Authors),
			publicationDetailSummary(p),
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row for %s: %w", sheet, err)
		}
	}
	return nil
}

func (s *reportService) writeResultSheet(f *excelize.File, sheet, classifier string, rows [][]interface{}) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	headers := []interface{}{"Name", classifier, "Date", "Description", "Authors"}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return fmt.Errorf("failed to write headers for %s: %w", sheet, err)
	}
	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+2)
		r := row
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			return fmt.Errorf("failed to write row for %s: %w", sheet, err)
		}
	}
	return nil
}

func awardRows(awards []*models.Award) [][]interface{} {
	rows := make([][]interface{}, len(awards))
	for i, a := range awards {
		rows[i] = []interface{}{a.Name, a.Type, formatReportDate(a.Date), a.Description, authorNames(a.Authors)}
	}
	return rows
}

func recognitionRows(recognitions []*models.Recognition) [][]interface{} {
	rows := make([][]interface{}, len(recognitions))
	for i, r := range recognitions {
		rows[i] = []interface{}{r.Name, r.Type, formatOptionalReportDate(r.Date), r.Description, authorNames(r.Authors)}
	}
	return rows
}

func eventRows(eventsList []*models.Event) [][]interface{} {
	rows := make([][]interface{}, len(eventsList))
	for i, e := range eventsList {
		rows[i] = []interface{}{e.Name, e.Category, formatOptionalReportDate(e.Date), e.Description, authorNames(e.Authors)}
	}
	return rows
}

func publicationDetailSummary(p *models.Publication) string {
	switch p.Type {
	case models.PublicationJournal:
		if p.Magazine != nil {
			return fmt.Sprintf("%s vol. %s no. %s", p.Magazine.Name, p.Magazine.Volume, p.Magazine.Number)
		}
	case models.PublicationBook:
		if p.Book != nil {
			return fmt.Sprintf("%s, %s", p.Book.Editorial, p.Book.Place)
		}
	case models.PublicationBookChapter:
		if p.Chapter != nil {
			return fmt.Sprintf("in %s (%s)", p.Chapter.BookName, p.Chapter.Editorial)
		}
	}
	return ""
}

func authorNames(authors []models.User) string {
	names := make([]string, len(authors))
	for i, a := range authors {
		names[i] = a.Name
	}
	return strings.Join(names, ", ")
}

func formatReportDate(d datatypes.Date) string {
	return time.Time(d).Format("2006-01-02")
}

func formatOptionalReportDate(d *datatypes.Date) string {
	if d == nil {
		return ""
	}
	return formatReportDate(*d)
}
