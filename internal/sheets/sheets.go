package sheets

import (
	"context"
	"errors"
	"strings"

	"github.com/harari-inventory/apiserver/internal/logger"
)

var (
	// ErrProtected is returned by local backends when a write hits a protected sheet.
	ErrProtected = errors.New("protected cell or object")
	// ErrSheetNotFound is returned when a range names a sheet that does not exist.
	ErrSheetNotFound = errors.New("sheet not found")
)

// Update is one range write inside a batch.
type Update struct {
	Range  Range
	Values [][]string
}

// Backend defines the tabular operations used by the app.
type Backend interface {
	Read(ctx context.Context, rng Range) ([][]string, error)
	Write(ctx context.Context, rng Range, rows [][]string) error
	Append(ctx context.Context, rng Range, rows [][]string) error
	BatchWrite(ctx context.Context, updates []Update) error
	Clear(ctx context.Context, rng Range) error
	Title(ctx context.Context) (string, error)
}

// Client wraps a Backend with a stable API.
// A batch is not atomic: a remote failure may leave part of it applied.
type Client struct {
	backend Backend
	log     *logger.Logger
}

// NewClient constructs a Client for the provided backend.
func NewClient(backend Backend, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Nop()
	}
	return &Client{backend: backend, log: log}
}

// Read returns the rows of a range, header row included when the range starts at row 1.
func (c *Client) Read(ctx context.Context, rng Range) ([][]string, error) {
	c.log.Debug(c.log.WithField(ctx, "range", rng.String()), "sheets.read")
	return c.backend.Read(ctx, rng)
}

// Write replaces cell contents starting at the range origin.
func (c *Client) Write(ctx context.Context, rng Range, rows [][]string) error {
	c.log.Debug(c.log.WithFields(ctx, map[string]any{"range": rng.String(), "rows": len(rows)}), "sheets.write")
	return c.backend.Write(ctx, rng, rows)
}

// Append inserts rows after the last populated row of the sheet.
func (c *Client) Append(ctx context.Context, rng Range, rows [][]string) error {
	c.log.Debug(c.log.WithFields(ctx, map[string]any{"range": rng.String(), "rows": len(rows)}), "sheets.append")
	return c.backend.Append(ctx, rng, rows)
}

// BatchWrite applies several writes in one round trip.
func (c *Client) BatchWrite(ctx context.Context, updates []Update) error {
	if len(updates) == 0 {
		return nil
	}
	c.log.Debug(c.log.WithField(ctx, "updates", len(updates)), "sheets.batch_write")
	return c.backend.BatchWrite(ctx, updates)
}

// Clear blanks every cell of the range.
func (c *Client) Clear(ctx context.Context, rng Range) error {
	c.log.Debug(c.log.WithField(ctx, "range", rng.String()), "sheets.clear")
	return c.backend.Clear(ctx, rng)
}

// Title returns the spreadsheet title; it doubles as a connectivity probe.
func (c *Client) Title(ctx context.Context) (string, error) {
	return c.backend.Title(ctx)
}

// SpreadsheetID returns the remote spreadsheet id, or "" for local backends.
func (c *Client) SpreadsheetID() string {
	if identified, ok := c.backend.(interface{ SpreadsheetID() string }); ok {
		return identified.SpreadsheetID()
	}
	return ""
}

// IsProtected reports whether err looks like a write against a protected range.
func IsProtected(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrProtected) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "protected")
}
