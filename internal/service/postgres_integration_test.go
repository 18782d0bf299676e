//go:build integration

package service

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/kaira_store/internal/database"
	"github.com/GTDGit/kaira_store/internal/repository"
)

// Run with: KAIRA_TEST_DATABASE_URL=postgres://... go test -tags integration ./internal/service/
//
// Each test works in its own throwaway schema on one connection, so the
// database's existing tables are never touched.
func newPostgresRepo(t *testing.T) *repository.ProductRepository {
	t.Helper()
	dsn := os.Getenv("KAIRA_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("KAIRA_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := sqlx.Connect("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	conn, err := db.Connx(ctx)
	require.NoError(t, err)

	schema := fmt.Sprintf("kaira_it_%d", time.Now().UnixNano())
	_, err = conn.ExecContext(ctx, "CREATE SCHEMA "+schema)
	require.NoError(t, err)
	_, err = conn.ExecContext(ctx, "SET search_path TO "+schema)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = conn.ExecContext(context.Background(), "DROP SCHEMA "+schema+" CASCADE")
		conn.Close()
	})

	require.NoError(t, database.EnsureSchema(ctx, conn))
	return repository.NewProductRepository(conn)
}

func TestPostgresSeedOrderingAndDashboard(t *testing.T) {
	repo := newPostgresRepo(t)
	ctx := context.Background()

	require.NoError(t, NewSeeder(repo, nil).SeedIfEmpty(ctx))
	require.NoError(t, NewSeeder(repo, nil).SeedIfEmpty(ctx))

	// the demo rows share one created_at, so id DESC decides
	products, err := NewCatalogService(repo).ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, products, len(DemoProducts))
	assert.Equal(t, DemoProducts[len(DemoProducts)-1].Name, products[0].Name)
	for i := 1; i < len(products); i++ {
		prev, cur := products[i-1], products[i]
		assert.False(t, cur.CreatedAt.After(prev.CreatedAt), "created_at must not increase")
		if cur.CreatedAt.Equal(prev.CreatedAt) {
			assert.Less(t, cur.ID, prev.ID, "ties break on id DESC")
		}
	}

	related, err := NewCatalogService(repo).ListRelated(ctx, products[0].ID, RelatedLimit)
	require.NoError(t, err)
	assert.Len(t, related, RelatedLimit)
	for _, p := range related {
		assert.NotEqual(t, products[0].ID, p.ID)
	}

	stats, err := NewDashboardService(repo).Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(DemoProducts), stats.Total)
	assert.Equal(t, products[0].Name, stats.Latest)

	sum := 0
	for i, c := range stats.Breakdown {
		sum += c.Count
		if i > 0 {
			prev := stats.Breakdown[i-1]
			assert.True(t, prev.Count > c.Count || (prev.Count == c.Count && prev.Category < c.Category),
				"breakdown ordered by count DESC, category ASC")
		}
	}
	assert.Equal(t, stats.Total, sum)
	assert.Len(t, stats.Breakdown, stats.Categories)

	require.Len(t, stats.Activity, ActivityWindowDays)
	assert.Equal(t, time.Now().UTC().Format(dayKeyLayout), stats.Activity[ActivityWindowDays-1].Date)
	assert.Equal(t, stats.Total, stats.Activity[ActivityWindowDays-1].Count)
}

func TestPostgresUpdateKeepsCreatedAt(t *testing.T) {
	repo := newPostgresRepo(t)
	ctx := context.Background()

	svc := NewProductAdminService(repo, nil)
	id, err := svc.Create(ctx, &ProductForm{Name: "Shoe", Category: "Running", Price: "10", Description: "Light"}, nil)
	require.NoError(t, err)
	before, err := repo.GetByID(ctx, id)
	require.NoError(t, err)

	after, err := svc.Update(ctx, id, &ProductForm{Name: "Shoe 2", Category: "Trail", Price: "12.5", Description: "Grip"}, nil)
	require.NoError(t, err)
	stored, err := repo.GetByID(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, "Shoe 2", stored.Name)
	assert.True(t, before.CreatedAt.Equal(stored.CreatedAt))
	assert.True(t, after.CreatedAt.Equal(stored.CreatedAt))

	require.NoError(t, svc.Delete(ctx, id))
	require.NoError(t, svc.Delete(ctx, id))
	_, err = repo.GetByID(ctx, id)
	assert.Error(t, err)
}
