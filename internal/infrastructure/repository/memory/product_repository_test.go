package memory

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/mrops-br/product-catalog-api/internal/domain"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

func newTestRepository(t *testing.T, products ...*domain.Product) *ProductRepository {
	t.Helper()
	repo := NewProductRepository(SeedCategories(), noop.NewTracerProvider().Tracer("test"), slog.New(slog.NewTextHandler(io.Discard, nil)))
	for _, p := range products {
		require.NoError(t, repo.Create(context.Background(), p))
	}
	return repo
}

func TestProductRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Create_AssignsIDAndKeepsInsertionOrder", func(t *testing.T) {
		repo := newTestRepository(t)

		first := &domain.Product{Name: "Dune", Price: 10, CategoryID: 2, IsActive: true}
		second := &domain.Product{Name: "Emma", Price: 8, CategoryID: 1}
		require.NoError(t, repo.Create(ctx, first))
		require.NoError(t, repo.Create(ctx, second))

		require.Equal(t, 1, first.ID)
		require.Equal(t, 2, second.ID)

		all, err := repo.ListAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		require.Equal(t, "Dune", all[0].Name)
		require.Equal(t, "Emma", all[1].Name)
	})

	t.Run("Create_ListContainsExactlyOneEqualEntry", func(t *testing.T) {
		repo := newTestRepository(t, &domain.Product{Name: "Emma", Price: 8, CategoryID: 1})

		p := &domain.Product{Name: "Dune", Price: 10, CategoryID: 2, Image: "x.png", IsActive: true}
		require.NoError(t, repo.Create(ctx, p))

		all, err := repo.ListAll(ctx)
		require.NoError(t, err)
		matches := 0
		for _, got := range all {
			if got.ID == p.ID {
				matches++
				require.Equal(t, p, got)
			}
		}
		require.Equal(t, 1, matches)
	})

	t.Run("Create_NeverReusesIDsAfterDelete", func(t *testing.T) {
		repo := newTestRepository(t,
			&domain.Product{Name: "A", Price: 1, CategoryID: 1},
			&domain.Product{Name: "B", Price: 1, CategoryID: 1},
		)
		require.NoError(t, repo.Delete(ctx, 2))

		p := &domain.Product{Name: "C", Price: 1, CategoryID: 1}
		require.NoError(t, repo.Create(ctx, p))
		require.Equal(t, 3, p.ID)
	})

	t.Run("Create_ConcurrentCallsGetUniqueIDs", func(t *testing.T) {
		repo := newTestRepository(t)

		const n = 50
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = repo.Create(ctx, &domain.Product{Name: "P", Price: 1, CategoryID: 1})
			}()
		}
		wg.Wait()

		all, err := repo.ListAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, n)
		seen := make(map[int]bool, n)
		for _, p := range all {
			require.False(t, seen[p.ID], "duplicate id %d", p.ID)
			seen[p.ID] = true
		}
	})

	t.Run("ListActive_ReturnsOnlyActive", func(t *testing.T) {
		repo := newTestRepository(t,
			&domain.Product{Name: "A", Price: 1, CategoryID: 1, IsActive: true},
			&domain.Product{Name: "B", Price: 1, CategoryID: 1},
			&domain.Product{Name: "C", Price: 1, CategoryID: 1, IsActive: true},
		)

		active, err := repo.ListActive(ctx)
		require.NoError(t, err)
		require.Len(t, active, 2)
		require.Equal(t, "A", active[0].Name)
		require.Equal(t, "C", active[1].Name)
	})

	t.Run("ListAll_ReturnsCopies", func(t *testing.T) {
		repo := newTestRepository(t, &domain.Product{Name: "A", Price: 1, CategoryID: 1})

		all, err := repo.ListAll(ctx)
		require.NoError(t, err)
		all[0].Name = "mutated"

		stored, err := repo.FindByID(ctx, all[0].ID)
		require.NoError(t, err)
		require.Equal(t, "A", stored.Name)
	})

	t.Run("ListCategories_ReturnsSeed", func(t *testing.T) {
		repo := newTestRepository(t)

		categories, err := repo.ListCategories(ctx)
		require.NoError(t, err)
		require.Equal(t, SeedCategories(), categories)
	})

	t.Run("Update_ReplacesAllFields", func(t *testing.T) {
		repo := newTestRepository(t, &domain.Product{Name: "A", Price: 1, CategoryID: 1, Image: "a.png"})

		updated := &domain.Product{ID: 1, Name: "B", Price: 2, CategoryID: 3, Image: "b.png", IsActive: true}
		require.NoError(t, repo.Update(ctx, updated))

		stored, err := repo.FindByID(ctx, 1)
		require.NoError(t, err)
		require.Equal(t, updated, stored)
	})

	t.Run("Update_FailsOnMissingProduct", func(t *testing.T) {
		repo := newTestRepository(t, &domain.Product{Name: "A", Price: 1, CategoryID: 1})
		before, _ := repo.ListAll(ctx)

		err := repo.Update(ctx, &domain.Product{ID: 42, Name: "B", Price: 2, CategoryID: 1})
		require.ErrorIs(t, err, domain.ErrProductNotFound)

		after, _ := repo.ListAll(ctx)
		require.Equal(t, before, after)
	})

	t.Run("Delete_RemovesOnlyThatEntry", func(t *testing.T) {
		repo := newTestRepository(t,
			&domain.Product{Name: "A", Price: 1, CategoryID: 1},
			&domain.Product{Name: "B", Price: 2, CategoryID: 2},
			&domain.Product{Name: "C", Price: 3, CategoryID: 3},
		)
		before, _ := repo.ListAll(ctx)

		require.NoError(t, repo.Delete(ctx, 2))

		after, err := repo.ListAll(ctx)
		require.NoError(t, err)
		require.Equal(t, []*domain.Product{before[0], before[2]}, after)

		_, err = repo.FindByID(ctx, 2)
		require.ErrorIs(t, err, domain.ErrProductNotFound)
	})

	t.Run("Delete_FailsOnMissingProduct", func(t *testing.T) {
		repo := newTestRepository(t)
		require.ErrorIs(t, repo.Delete(ctx, 7), domain.ErrProductNotFound)
	})

	t.Run("NewSeededProductRepository_LoadsCatalog", func(t *testing.T) {
		repo := NewSeededProductRepository(noop.NewTracerProvider().Tracer("test"), slog.New(slog.NewTextHandler(io.Discard, nil)))

		all, err := repo.ListAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, len(SeedProducts()))
		for i, p := range all {
			require.Equal(t, i+1, p.ID)
		}

		p := &domain.Product{Name: "New", Price: 1, CategoryID: 1}
		require.NoError(t, repo.Create(ctx, p))
		require.Equal(t, len(all)+1, p.ID)
	})
}
