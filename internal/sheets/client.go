// Package sheets is the row-source boundary: it reads whole tables out of
// the plant's Google Sheets workbook and hands them over as string-keyed
// rows. The workbook is the system of record and is strictly read-only from
// here.
package sheets

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"golang.org/x/oauth2/google"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/plantaops/planta-dashboard/internal/config"
	"github.com/plantaops/planta-dashboard/internal/domain"
)

// RowSource returns all current rows of one logical table. Implementations
// must tolerate arbitrary row order; callers re-filter and re-sort.
type RowSource interface {
	Rows(ctx context.Context, table string) ([]domain.RawRow, error)
}

// Client reads the plant workbook through the Sheets API.
type Client struct {
	srv           *sheetsapi.Service
	spreadsheetID string
}

// NewClient builds a Client from service-account credentials. Credentials
// are taken from the inline JSON when present, otherwise from the file path.
func NewClient(ctx context.Context, cfg config.SheetsConfig) (*Client, error) {
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet id must be configured")
	}

	credentials := []byte(cfg.CredentialsJSON)
	if len(credentials) == 0 && cfg.CredentialsFile != "" {
		data, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read credentials file: %w", err)
		}
		credentials = data
	}
	if len(credentials) == 0 {
		return nil, fmt.Errorf("sheets credentials must be configured")
	}

	jwtConfig, err := google.JWTConfigFromJSON(credentials, sheetsapi.SpreadsheetsReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse service account credentials: %w", err)
	}

	srv, err := sheetsapi.NewService(ctx, option.WithHTTPClient(jwtConfig.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("unable to build sheets service: %w", err)
	}

	return &Client{srv: srv, spreadsheetID: cfg.SpreadsheetID}, nil
}

// Rows fetches every row of the named sheet tab. The first row is the
// header; following rows become header-keyed maps. Cells past the header
// width are ignored, short rows read as empty strings.
func (c *Client) Rows(ctx context.Context, table string) ([]domain.RawRow, error) {
	resp, err := c.srv.Spreadsheets.Values.
		Get(c.spreadsheetID, fmt.Sprintf("'%s'", table)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("fetch sheet %q: %w", table, err)
	}
	return RowsFromValues(resp.Values), nil
}

// RowsFromValues converts a raw ValueRange grid into RawRows.
func RowsFromValues(values [][]interface{}) []domain.RawRow {
	if len(values) < 2 {
		return nil
	}

	header := make([]string, len(values[0]))
	for i, cell := range values[0] {
		header[i] = cellString(cell)
	}

	rows := make([]domain.RawRow, 0, len(values)-1)
	for _, raw := range values[1:] {
		row := make(domain.RawRow, len(header))
		for i, col := range header {
			if col == "" {
				continue
			}
			if i < len(raw) {
				row[col] = cellString(raw[i])
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func cellString(cell interface{}) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

// MultiRows fetches several tables concurrently and returns them keyed by
// table name. One failing table fails the whole fetch.
func MultiRows(ctx context.Context, source RowSource, tables ...string) (map[string][]domain.RawRow, error) {
	results := make([][]domain.RawRow, len(tables))

	g, gctx := errgroup.WithContext(ctx)
	for i, table := range tables {
		i, table := i, table
		g.Go(func() error {
			rows, err := source.Rows(gctx, table)
			if err != nil {
				return err
			}
			results[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string][]domain.RawRow, len(tables))
	for i, table := range tables {
		out[table] = results[i]
	}
	return out, nil
}
