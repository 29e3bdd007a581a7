package leads

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"sync"

	"zapbot/internal/models"
)

var csvHeader = []string{
	"id", "phone", "name", "contact_phone", "profile", "company",
	"tax_id", "address", "email", "mode", "order_code", "items", "created_at",
}

// CSVSink appends completed leads to a flat file, writing the header the
// first time the file is created.
type CSVSink struct {
	mu   sync.Mutex
	path string
}

// NewCSVSink creates a CSV-backed lead sink at the given path.
func NewCSVSink(path string) *CSVSink {
	return &CSVSink{path: path}
}

func (s *CSVSink) Save(ctx context.Context, lead *models.Lead) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, statErr := os.Stat(s.path)
	writeHeader := os.IsNotExist(statErr)

	file, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open leads file: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if writeHeader {
		if err := w.Write(csvHeader); err != nil {
			return fmt.Errorf("failed to write leads header: %w", err)
		}
	}

	record := []string{
		lead.ID,
		lead.Phone,
		lead.Name,
		lead.ContactPhone,
		lead.Profile,
		lead.Company,
		lead.TaxID,
		lead.Address,
		lead.Email,
		string(lead.Mode),
		lead.OrderCode,
		lead.ItemsString(),
		lead.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
	if err := w.Write(record); err != nil {
		return fmt.Errorf("failed to write lead record: %w", err)
	}

	w.Flush()
	return w.Error()
}

func (s *CSVSink) Close() error {
	return nil
}
