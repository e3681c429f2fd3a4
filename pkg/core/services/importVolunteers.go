package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/agendaccp/agenda-ccp/pkg/clients/sheetsclient"
	"github.com/agendaccp/agenda-ccp/pkg/core/model"
	"github.com/agendaccp/agenda-ccp/pkg/core/rules"
	"github.com/agendaccp/agenda-ccp/pkg/db"
)

// VolunteerSheetReader reads a volunteer roster tab
type VolunteerSheetReader interface {
	ListVolunteerRows(spreadsheetID, tab string) ([]sheetsclient.VolunteerRow, error)
}

// ImportSkip is a roster row that was not imported
type ImportSkip struct {
	Row    int
	Name   string
	Reason string
}

// ImportResult reports a roster import
type ImportResult struct {
	Created []model.Volunteer
	Skipped []ImportSkip
}

// ImportVolunteers registers every roster row whose CPF is valid and not yet
// registered. Bad rows are skipped and reported; store failures abort.
func ImportVolunteers(ctx context.Context, store db.VolunteerStore, reader VolunteerSheetReader, logger *zap.Logger, ministryID, spreadsheetID, tab string) (*ImportResult, error) {
	rows, err := reader.ListVolunteerRows(spreadsheetID, tab)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster: %w", err)
	}

	logger.Debug("Read roster", zap.String("tab", tab), zap.Int("rows", len(rows)))

	result := &ImportResult{}
	for _, row := range rows {
		in := VolunteerInput{Name: row.Name, CPF: row.CPF}
		if row.Status != "" {
			status, ok := model.ParseStatus(row.Status)
			if !ok {
				result.Skipped = append(result.Skipped, ImportSkip{Row: row.Row, Name: row.Name, Reason: fmt.Sprintf("status inválido %q", row.Status)})
				continue
			}
			in.Status = status
		}

		volunteer, err := CreateVolunteer(ctx, store, logger, ministryID, in)
		switch {
		case err == nil:
			result.Created = append(result.Created, *volunteer)
		case errors.Is(err, ErrCPFTaken), errors.Is(err, ErrInvalidInput), errors.Is(err, rules.ErrInvalidFormat):
			result.Skipped = append(result.Skipped, ImportSkip{Row: row.Row, Name: row.Name, Reason: skipReason(err)})
		default:
			return result, fmt.Errorf("failed to import row %d: %w", row.Row, err)
		}
	}

	logger.Info("Roster imported",
		zap.Int("created", len(result.Created)),
		zap.Int("skipped", len(result.Skipped)))
	return result, nil
}

func skipReason(err error) string {
	switch {
	case errors.Is(err, ErrCPFTaken):
		return ErrCPFTaken.Error()
	case errors.Is(err, rules.ErrInvalidFormat):
		return rules.Message(err)
	default:
		return err.Error()
	}
}
