package leads

import (
	"context"
	"path/filepath"
	"testing"

	"zapbot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLiteSink(t *testing.T) *SQLiteSink {
	t.Helper()
	sink, err := NewSQLiteSink(filepath.Join(t.TempDir(), "leads.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, sink.Close())
	})
	return sink
}

func TestSQLiteSink_SaveAndCount(t *testing.T) {
	sink := newTestSQLiteSink(t)
	ctx := context.Background()

	require.NoError(t, sink.Save(ctx, sampleLead("lead-1")))

	catalogLead := sampleLead("lead-2")
	catalogLead.Mode = models.ModeCatalog
	catalogLead.Items = nil
	require.NoError(t, sink.Save(ctx, catalogLead))

	counts, err := sink.CountByMode(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"order": 1, "catalog": 1}, counts)
}

func TestSQLiteSink_DuplicateIDRejected(t *testing.T) {
	sink := newTestSQLiteSink(t)
	ctx := context.Background()

	require.NoError(t, sink.Save(ctx, sampleLead("lead-1")))
	err := sink.Save(ctx, sampleLead("lead-1"))
	assert.Error(t, err)
}

func TestNewSQLiteSink_EmptyPath(t *testing.T) {
	_, err := NewSQLiteSink("")
	assert.Error(t, err)
}
