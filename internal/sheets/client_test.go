package sheets

import (
	"context"
	"errors"
	"testing"

	"github.com/plantaops/planta-dashboard/internal/domain"
)

func TestRowsFromValues(t *testing.T) {
	values := [][]interface{}{
		{"FECHA", "MAQUINA", "MINUTOS", ""},
		{"01/03/2025", "Ensacadora 1", float64(45)},
		{"02/03/2025", "Paletizadora", "30", "ignored"},
		{"03/03/2025"},
	}

	rows := RowsFromValues(values)
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}

	if got := rows[0].Get("MINUTOS"); got != "45" {
		t.Errorf("numeric cell = %q, want %q", got, "45")
	}
	if got := rows[1].Get("MINUTOS"); got != "30" {
		t.Errorf("string cell = %q, want %q", got, "30")
	}
	if got := rows[2].Get("MAQUINA"); got != "" {
		t.Errorf("short row cell = %q, want empty", got)
	}
	if _, ok := rows[1][""]; ok {
		t.Error("blank header column should be dropped")
	}
}

func TestRowsFromValuesHeaderOnly(t *testing.T) {
	if rows := RowsFromValues([][]interface{}{{"FECHA"}}); rows != nil {
		t.Fatalf("header-only grid should produce nil, got %v", rows)
	}
}

type stubSource struct {
	tables map[string][]domain.RawRow
	err    error
}

func (s stubSource) Rows(_ context.Context, table string) ([]domain.RawRow, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.tables[table], nil
}

func TestMultiRows(t *testing.T) {
	source := stubSource{tables: map[string][]domain.RawRow{
		"A": {{"x": "1"}},
		"B": {{"y": "2"}, {"y": "3"}},
	}}

	got, err := MultiRows(context.Background(), source, "A", "B")
	if err != nil {
		t.Fatalf("MultiRows: %v", err)
	}
	if len(got["A"]) != 1 || len(got["B"]) != 2 {
		t.Fatalf("unexpected result sizes: %d/%d", len(got["A"]), len(got["B"]))
	}
}

func TestMultiRowsPropagatesError(t *testing.T) {
	wantErr := errors.New("boom")
	if _, err := MultiRows(context.Background(), stubSource{err: wantErr}, "A"); !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
}
