package app_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/bye2money/internal/app"
	"github.com/MrJamesThe3rd/bye2money/internal/config"
	"github.com/MrJamesThe3rd/bye2money/internal/entry"
)

func draft() entry.Draft {
	return entry.Draft{
		Date: "2025-11-05", Sign: entry.SignExpense, Amount: "4500",
		Content: "coffee", Payment: entry.PaymentCash, Category: entry.CategoryFood,
	}
}

func testConfig(t *testing.T, driver string) *config.Config {
	t.Helper()

	t.Setenv("STORAGE_DRIVER", driver)
	t.Setenv("STORAGE_DIR", t.TempDir())
	t.Setenv("SQLITE_PATH", t.TempDir()+"/ledger.db")

	cfg, err := config.Load()
	require.NoError(t, err)

	return cfg
}

func TestNew_PersistsAcrossInstances(t *testing.T) {
	for _, driver := range []string{"file", "sqlite"} {
		t.Run(driver, func(t *testing.T) {
			ctx := context.Background()
			cfg := testConfig(t, driver)

			first, err := app.New(ctx, cfg)
			require.NoError(t, err)

			e, err := first.Factory.Create(draft())
			require.NoError(t, err)
			require.NoError(t, first.Ledger.Append(ctx, e))
			require.NoError(t, first.Close())

			second, err := app.New(ctx, cfg)
			require.NoError(t, err)
			defer second.Close()

			require.Len(t, second.Ledger.Entries(), 1)
			assert.Equal(t, e.ID, second.Ledger.Entries()[0].ID)

			next, err := second.Factory.Create(draft())
			require.NoError(t, err)
			assert.Greater(t, next.ID, e.ID)
		})
	}
}

func TestRun_NothingToConsume(t *testing.T) {
	a, err := app.New(context.Background(), testConfig(t, "memory"))
	require.NoError(t, err)
	defer a.Close()

	assert.NoError(t, a.Run(context.Background()))
	assert.NotEmpty(t, a.Origin)
}
