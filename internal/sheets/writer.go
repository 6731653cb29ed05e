package sheets

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/calderlab/cardia/internal/analytics"
	"github.com/calderlab/cardia/internal/common"
	"github.com/calderlab/cardia/internal/model"
)

const reportSheetName = "Verification"

// Writer exports analytics snapshots to one Google spreadsheet.
type Writer struct {
	service *sheetsapi.Service
	config  Config
}

// NewWriter creates a Google Sheets report writer.
func NewWriter(ctx context.Context, config Config) (*Writer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	service, err := createService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Writer{
		config:  config,
		service: service,
	}, nil
}

func createService(ctx context.Context, config Config) (*sheetsapi.Service, error) {
	if config.ServiceAccountPath != "" {
		return sheetsapi.NewService(ctx,
			option.WithCredentialsFile(config.ServiceAccountPath),
			option.WithScopes(sheetsapi.SpreadsheetsScope))
	}

	oauthConfig := &oauth2.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{sheetsapi.SpreadsheetsScope},
	}
	token := &oauth2.Token{RefreshToken: config.RefreshToken}
	return sheetsapi.NewService(ctx,
		option.WithTokenSource(oauthConfig.TokenSource(ctx, token)))
}

// Write replaces the report sheet with the current snapshot and roster.
func (w *Writer) Write(ctx context.Context, snap analytics.Snapshot, participants []model.Participant) error {
	spreadsheetID, err := w.getOrCreateSpreadsheet(ctx)
	if err != nil {
		return fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	clearRange := reportSheetName + "!A:Z"
	if _, err := w.service.Spreadsheets.Values.Clear(spreadsheetID, clearRange,
		&sheetsapi.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to clear sheet: %w", err)
	}

	values := buildRows(snap, participants)
	valueRange := &sheetsapi.ValueRange{Values: values}
	if _, err := w.service.Spreadsheets.Values.Update(spreadsheetID,
		reportSheetName+"!A1", valueRange).
		ValueInputOption("USER_ENTERED").Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	common.LogInfo("Exported analytics report", common.Fields{
		"spreadsheet_id": spreadsheetID,
		"attempts":       snap.AttemptsLogged,
		"participants":   len(participants),
	})
	return nil
}

func (w *Writer) getOrCreateSpreadsheet(ctx context.Context) (string, error) {
	if w.config.SpreadsheetID != "" {
		return w.config.SpreadsheetID, nil
	}

	spreadsheet := &sheetsapi.Spreadsheet{
		Properties: &sheetsapi.SpreadsheetProperties{
			Title: w.config.SpreadsheetName,
		},
		Sheets: []*sheetsapi.Sheet{
			{Properties: &sheetsapi.SheetProperties{Title: reportSheetName}},
		},
	}
	created, err := w.service.Spreadsheets.Create(spreadsheet).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to create spreadsheet: %w", err)
	}
	return created.SpreadsheetId, nil
}

func buildRows(snap analytics.Snapshot, participants []model.Participant) [][]any {
	rows := [][]any{
		{"Generated", time.Now().Format("2006-01-02 15:04:05")},
		{"Attempts logged", snap.AttemptsLogged},
		{"Genuine attempts", snap.GenuineCount},
		{"Impostor attempts", snap.ImpostorCount},
		{"False accept rate", snap.FalseAcceptRate},
		{"False reject rate", snap.FalseRejectRate},
		{"EER estimate", snap.EqualErrorRateEstimate},
		{},
		{"Participant", "Sessions", "Last session", "Enrollment"},
	}
	for _, p := range participants {
		lastSeen := ""
		if !p.LastSessionAt.IsZero() {
			lastSeen = p.LastSessionAt.Format("2006-01-02 15:04:05")
		}
		rows = append(rows, []any{
			p.DisplayName(), p.SessionCount, lastSeen,
			fmt.Sprintf("%.0f%%", p.EnrollmentProgress*100),
		})
	}

	rows = append(rows, []any{}, []any{"Time", "Participant", "Score", "Threshold", "Label"})
	for _, point := range snap.TimeSeries {
		rows = append(rows, []any{
			point.Time, point.ParticipantLabel, point.Score, point.Threshold, string(point.Label),
		})
	}
	return rows
}
