package di

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thoughtgraph/application/commands"
	"thoughtgraph/application/queries"
	"thoughtgraph/infrastructure/config"
	pkgerrors "thoughtgraph/pkg/errors"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Environment = "test"
	cfg.DBPath = MemoryDBPath
	cfg.LogFile = ""
	cfg.MetricsFile = filepath.Join(t.TempDir(), "thoughts.prom")
	return cfg
}

func TestInitializeContainer_CommandsAndQueries(t *testing.T) {
	ctx := context.Background()
	container, err := InitializeContainer(ctx, testConfig(t))
	require.NoError(t, err)

	id := uuid.NewString()
	require.NoError(t, container.CommandBus.Send(ctx, commands.CreateEntryCommand{
		EntryID: id,
		Text:    "Pruned the tomatoes this morning #garden",
	}))

	result, err := container.QueryBus.Ask(ctx, queries.ListEntriesQuery{})
	require.NoError(t, err)
	listed := result.(*queries.ListEntriesResult)
	require.Len(t, listed.Entries, 1)
	assert.Equal(t, id, listed.Entries[0].ID)
	assert.Equal(t, []string{"garden"}, listed.Entries[0].Tags)

	require.NoError(t, container.Shutdown(ctx))

	metrics, err := os.ReadFile(container.Config.MetricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "thoughts_commands_total")
	assert.Contains(t, string(metrics), "thoughts_store_operations_total")
}

func TestInitializeContainer_SQLiteStore(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	cfg.DBPath = filepath.Join(t.TempDir(), "nested", "thoughts.db")

	container, err := InitializeContainer(ctx, cfg)
	require.NoError(t, err)
	defer container.Shutdown(ctx)

	_, err = os.Stat(cfg.DBPath)
	assert.NoError(t, err)
	assert.Equal(t, cfg.Visualization.Threshold, container.DomainConfig.DefaultThreshold)
}

func TestInitializeContainer_UnreadableStore(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	cfg.DBPath = filepath.Join(t.TempDir(), "thoughts.db")
	require.NoError(t, os.WriteFile(cfg.DBPath, []byte(strings.Repeat("garbage", 200)), 0o644))

	_, err := InitializeContainer(ctx, cfg)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeDatabase))

	cfg.TolerateStoreErrors = true
	container, err := InitializeContainer(ctx, cfg)
	require.NoError(t, err)
	defer container.Shutdown(ctx)

	assert.Empty(t, container.Entries.ListActiveEntries(ctx))
}

func TestInitializeContainer_InvalidDomainConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Visualization.PinPolicy = "sticky"

	_, err := InitializeContainer(context.Background(), cfg)
	assert.Error(t, err)
}
