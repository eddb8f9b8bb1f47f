package service_test

import (
	"testing"

	"github.com/shopcore/storefront/internal/core/domain"
	"github.com/shopcore/storefront/internal/core/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() []domain.Product {
	return []domain.Product{
		{ProductID: "p-anchor", Categories: []string{"A"}},
		{ProductID: "p-exact", Categories: []string{"A"}},
		{ProductID: "p-wider", Categories: []string{"A", "B"}},
		{ProductID: "p-other", Categories: []string{"C"}},
		{ProductID: "p-bare"},
	}
}

func TestRecommendByProduct(t *testing.T) {

	t.Run("AnchorAbsent", func(t *testing.T) {
		catalog := new(MockCatalogStore)
		users := new(MockUserStore)
		catalog.On("Product", t.Context(), "p-404").
			Return(domain.Product{}, domain.ErrProductNotFound)

		s := service.NewRecommendation(catalog, users)
		_, err := s.RecommendByProduct(t.Context(), "p-404", 5)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})

	t.Run("JaccardOrdering", func(t *testing.T) {
		catalog := new(MockCatalogStore)
		users := new(MockUserStore)
		catalog.On("Product", t.Context(), "p-anchor").
			Return(testCatalog()[0], nil)
		catalog.On("Products", t.Context()).Return(testCatalog(), nil)

		s := service.NewRecommendation(catalog, users)
		got, err := s.RecommendByProduct(t.Context(), "p-anchor", 5)
		require.NoError(t, err)

		require.Len(t, got, 4)
		// {A}~{A}=1.0 beats {A}~{A,B}=0.5; zero scorers follow by id
		assert.Equal(t, "p-exact", got[0].ProductID)
		assert.Equal(t, "p-wider", got[1].ProductID)
		assert.Equal(t, "p-bare", got[2].ProductID)
		assert.Equal(t, "p-other", got[3].ProductID)
	})

	t.Run("AnchorExcluded", func(t *testing.T) {
		catalog := new(MockCatalogStore)
		users := new(MockUserStore)
		catalog.On("Product", t.Context(), "p-anchor").
			Return(testCatalog()[0], nil)
		catalog.On("Products", t.Context()).Return(testCatalog(), nil)

		s := service.NewRecommendation(catalog, users)
		got, err := s.RecommendByProduct(t.Context(), "p-anchor", 100)
		require.NoError(t, err)
		for _, p := range got {
			assert.NotEqual(t, "p-anchor", p.ProductID)
		}
	})

	t.Run("ZeroLimit", func(t *testing.T) {
		catalog := new(MockCatalogStore)
		users := new(MockUserStore)
		catalog.On("Product", t.Context(), "p-anchor").
			Return(testCatalog()[0], nil)
		catalog.On("Products", t.Context()).Return(testCatalog(), nil)

		s := service.NewRecommendation(catalog, users)
		got, err := s.RecommendByProduct(t.Context(), "p-anchor", 0)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("DeterministicTieBreak", func(t *testing.T) {
		products := []domain.Product{
			{ProductID: "p-anchor", Categories: []string{"A"}},
			{ProductID: "p-z", Categories: []string{"A"}},
			{ProductID: "p-a", Categories: []string{"A"}},
			{ProductID: "p-m", Categories: []string{"A"}},
		}
		catalog := new(MockCatalogStore)
		users := new(MockUserStore)
		catalog.On("Product", t.Context(), "p-anchor").
			Return(products[0], nil)
		catalog.On("Products", t.Context()).Return(products, nil)

		s := service.NewRecommendation(catalog, users)
		for range 5 {
			got, err := s.RecommendByProduct(t.Context(), "p-anchor", 3)
			require.NoError(t, err)
			require.Len(t, got, 3)
			assert.Equal(t, "p-a", got[0].ProductID)
			assert.Equal(t, "p-m", got[1].ProductID)
			assert.Equal(t, "p-z", got[2].ProductID)
		}
	})
}

func TestRecommendByUser(t *testing.T) {

	t.Run("UserAbsent", func(t *testing.T) {
		catalog := new(MockCatalogStore)
		users := new(MockUserStore)
		users.On("Preferences", t.Context(), "u-404").
			Return([]string(nil), domain.ErrUserNotFound)

		s := service.NewRecommendation(catalog, users)
		_, err := s.RecommendByUser(t.Context(), "u-404", 5)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("MatchScoreOrdering", func(t *testing.T) {
		products := []domain.Product{
			{ProductID: "p-1", Categories: []string{"A"}},
			{ProductID: "p-2", Categories: []string{"A", "B", "C"}},
			{ProductID: "p-3", Categories: []string{"D"}},
		}
		catalog := new(MockCatalogStore)
		users := new(MockUserStore)
		users.On("Preferences", t.Context(), testUserID).
			Return([]string{"A", "B"}, nil)
		catalog.On("Products", t.Context()).Return(products, nil)

		s := service.NewRecommendation(catalog, users)
		got, err := s.RecommendByUser(t.Context(), testUserID, 3)
		require.NoError(t, err)

		require.Len(t, got, 3)
		// score 2 beats score 1 beats score 0
		assert.Equal(t, "p-2", got[0].ProductID)
		assert.Equal(t, "p-1", got[1].ProductID)
		assert.Equal(t, "p-3", got[2].ProductID)
	})

	t.Run("EmptyPreferencesFallsBackToStock", func(t *testing.T) {
		products := []domain.Product{
			{ProductID: "p-low", Stock: 3},
			{ProductID: "p-high", Stock: 50},
			{ProductID: "p-mid", Stock: 20},
		}
		catalog := new(MockCatalogStore)
		users := new(MockUserStore)
		users.On("Preferences", t.Context(), testUserID).
			Return([]string{}, nil)
		catalog.On("Products", t.Context()).Return(products, nil)

		s := service.NewRecommendation(catalog, users)
		got, err := s.RecommendByUser(t.Context(), testUserID, 2)
		require.NoError(t, err)

		require.Len(t, got, 2)
		assert.Equal(t, "p-high", got[0].ProductID)
		assert.Equal(t, "p-mid", got[1].ProductID)
	})

	t.Run("LimitTruncates", func(t *testing.T) {
		catalog := new(MockCatalogStore)
		users := new(MockUserStore)
		users.On("Preferences", t.Context(), testUserID).
			Return([]string{"A"}, nil)
		catalog.On("Products", t.Context()).Return(testCatalog(), nil)

		s := service.NewRecommendation(catalog, users)
		got, err := s.RecommendByUser(t.Context(), testUserID, 2)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})
}
