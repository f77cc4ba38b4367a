package service

import (
	"context"
	"errors"
	"testing"

	pDomain "github.com/ridloal/pos-forecast-engine/internal/product/domain"
	pRepo "github.com/ridloal/pos-forecast-engine/internal/product/repository"
	"github.com/ridloal/pos-forecast-engine/internal/product/repository/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSeedCatalogue(t *testing.T) {
	ctx := context.Background()

	t.Run("Seeds an empty store once", func(t *testing.T) {
		repo := pRepo.NewMemoryProductRepository()

		n, err := SeedCatalogue(ctx, repo)
		require.NoError(t, err)
		assert.Equal(t, 8, n)

		n, err = SeedCatalogue(ctx, repo)
		require.NoError(t, err)
		assert.Equal(t, 0, n)

		products, err := repo.ListProducts(ctx, pDomain.ProductFilter{})
		require.NoError(t, err)
		assert.Len(t, products, 8)
	})

	t.Run("Listing failure", func(t *testing.T) {
		repo := new(mocks.MockProductRepository)
		repo.On("ListProducts", ctx, pDomain.ProductFilter{}).Return(nil, errors.New("db down")).Once()

		_, err := SeedCatalogue(ctx, repo)
		assert.Error(t, err)
		repo.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything)
	})

	t.Run("Stops at first insert failure", func(t *testing.T) {
		repo := new(mocks.MockProductRepository)
		repo.On("ListProducts", ctx, pDomain.ProductFilter{}).Return([]pDomain.Product{}, nil).Once()
		repo.On("CreateProduct", ctx, mock.AnythingOfType("*domain.Product")).Return(nil).Once()
		repo.On("CreateProduct", ctx, mock.AnythingOfType("*domain.Product")).Return(errors.New("constraint")).Once()

		n, err := SeedCatalogue(ctx, repo)
		assert.Error(t, err)
		assert.Equal(t, 1, n)
		repo.AssertExpectations(t)
	})
}
