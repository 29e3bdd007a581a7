package leads

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"zapbot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleLead(id string) *models.Lead {
	return &models.Lead{
		ID:           id,
		Phone:        "5511999990000",
		Name:         "Maria",
		ContactPhone: "11988887777",
		Profile:      "Marcenaria",
		Company:      "Móveis Maria Ltda",
		TaxID:        "12345678000199",
		Address:      "Rua das Flores, 100 - São Paulo/SP",
		Email:        "maria@exemplo.com.br",
		Mode:         models.ModeOrder,
		OrderCode:    "PED-0000-20260831-1",
		Items: []models.CartItem{
			{Product: "Rezymol 982 NI", Quantity: 2},
		},
		CreatedAt: time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC),
	}
}

func readRecords(t *testing.T, path string) [][]string {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	return records
}

func TestCSVSink_WritesHeaderOnFirstSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leads.csv")
	sink := NewCSVSink(path)

	require.NoError(t, sink.Save(context.Background(), sampleLead("lead-1")))

	records := readRecords(t, path)
	require.Len(t, records, 2)
	assert.Equal(t, csvHeader, records[0])
	assert.Equal(t, "lead-1", records[1][0])
	assert.Equal(t, "5511999990000", records[1][1])
	assert.Equal(t, "order", records[1][9])
	assert.Equal(t, "Rezymol 982 NI x2", records[1][11])
}

func TestCSVSink_AppendsWithoutDuplicatingHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leads.csv")
	sink := NewCSVSink(path)

	require.NoError(t, sink.Save(context.Background(), sampleLead("lead-1")))
	require.NoError(t, sink.Save(context.Background(), sampleLead("lead-2")))

	records := readRecords(t, path)
	require.Len(t, records, 3)
	assert.Equal(t, "lead-1", records[1][0])
	assert.Equal(t, "lead-2", records[2][0])
}

func TestCSVSink_EmptyCartSerializesAsDash(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leads.csv")
	sink := NewCSVSink(path)

	lead := sampleLead("lead-1")
	lead.Items = nil
	require.NoError(t, sink.Save(context.Background(), lead))

	records := readRecords(t, path)
	assert.Equal(t, "—", records[1][11])
}
