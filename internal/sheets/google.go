package sheets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

const valueInputRaw = "RAW"

// GoogleSheets talks to one spreadsheet through the Sheets v4 API.
type GoogleSheets struct {
	service       *sheetsapi.Service
	spreadsheetID string
}

// NewGoogleSheets constructs a Sheets client for the given spreadsheet.
func NewGoogleSheets(ctx context.Context, spreadsheetID, credentialsFile string) (*GoogleSheets, error) {
	if strings.TrimSpace(spreadsheetID) == "" {
		return nil, errors.New("GOOGLE_SHEETS_SPREADSHEET_ID is required")
	}

	opts := []option.ClientOption{option.WithScopes(sheetsapi.SpreadsheetsScope)}
	if strings.TrimSpace(credentialsFile) != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	return newGoogleSheets(ctx, spreadsheetID, opts...)
}

func newGoogleSheets(ctx context.Context, spreadsheetID string, opts ...option.ClientOption) (*GoogleSheets, error) {
	service, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &GoogleSheets{
		service:       service,
		spreadsheetID: spreadsheetID,
	}, nil
}

func (g *GoogleSheets) Read(ctx context.Context, rng Range) ([][]string, error) {
	resp, err := g.service.Spreadsheets.Values.Get(g.spreadsheetID, rng.String()).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return fromValues(resp.Values), nil
}

func (g *GoogleSheets) Write(ctx context.Context, rng Range, rows [][]string) error {
	_, err := g.service.Spreadsheets.Values.
		Update(g.spreadsheetID, rng.String(), &sheetsapi.ValueRange{Values: toValues(rows)}).
		ValueInputOption(valueInputRaw).
		Context(ctx).
		Do()
	return err
}

func (g *GoogleSheets) Append(ctx context.Context, rng Range, rows [][]string) error {
	_, err := g.service.Spreadsheets.Values.
		Append(g.spreadsheetID, rng.String(), &sheetsapi.ValueRange{Values: toValues(rows)}).
		ValueInputOption(valueInputRaw).
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	return err
}

func (g *GoogleSheets) BatchWrite(ctx context.Context, updates []Update) error {
	data := make([]*sheetsapi.ValueRange, 0, len(updates))
	for _, u := range updates {
		data = append(data, &sheetsapi.ValueRange{
			Range:  u.Range.String(),
			Values: toValues(u.Values),
		})
	}

	_, err := g.service.Spreadsheets.Values.
		BatchUpdate(g.spreadsheetID, &sheetsapi.BatchUpdateValuesRequest{
			ValueInputOption: valueInputRaw,
			Data:             data,
		}).
		Context(ctx).
		Do()
	return err
}

func (g *GoogleSheets) Clear(ctx context.Context, rng Range) error {
	_, err := g.service.Spreadsheets.Values.
		Clear(g.spreadsheetID, rng.String(), &sheetsapi.ClearValuesRequest{}).
		Context(ctx).
		Do()
	return err
}

func (g *GoogleSheets) Title(ctx context.Context) (string, error) {
	resp, err := g.service.Spreadsheets.Get(g.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return "", err
	}
	if resp.Properties == nil {
		return "", nil
	}
	return resp.Properties.Title, nil
}

// SpreadsheetID returns the configured spreadsheet id.
func (g *GoogleSheets) SpreadsheetID() string {
	return g.spreadsheetID
}

func fromValues(values [][]interface{}) [][]string {
	rows := make([][]string, 0, len(values))
	for _, raw := range values {
		row := make([]string, 0, len(raw))
		for _, cell := range raw {
			if cell == nil {
				row = append(row, "")
				continue
			}
			row = append(row, fmt.Sprint(cell))
		}
		rows = append(rows, row)
	}
	return rows
}

func toValues(rows [][]string) [][]interface{} {
	values := make([][]interface{}, 0, len(rows))
	for _, row := range rows {
		cells := make([]interface{}, 0, len(row))
		for _, cell := range row {
			cells = append(cells, cell)
		}
		values = append(values, cells)
	}
	return values
}
