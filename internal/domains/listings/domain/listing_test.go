package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewListing_TrimsAndDerivesSoldOut(t *testing.T) {
	listing, err := NewListing(10, "  Galla Goat  ", AnimalGoat, "  Galla ", 12, 800_000, "hardy breed", 3)
	require.NoError(t, err)

	assert.Equal(t, "Galla Goat", listing.Name)
	assert.Equal(t, "Galla", listing.Breed)
	assert.Equal(t, int64(10), listing.FarmerID)
	assert.False(t, listing.SoldOut)

	empty, err := NewListing(10, "Galla Goat", AnimalGoat, "Galla", 12, 800_000, "", 0)
	require.NoError(t, err)
	assert.True(t, empty.SoldOut)
}

func TestNewListing_Validation(t *testing.T) {
	cases := []struct {
		name     string
		build    func() (*Listing, error)
		expected error
	}{
		{"blank name", func() (*Listing, error) {
			return NewListing(10, "   ", AnimalGoat, "Galla", 12, 800_000, "", 1)
		}, ErrEmptyName},
		{"unknown animal", func() (*Listing, error) {
			return NewListing(10, "Galla Goat", "DRAGON", "Galla", 12, 800_000, "", 1)
		}, ErrInvalidAnimalType},
		{"zero price", func() (*Listing, error) {
			return NewListing(10, "Galla Goat", AnimalGoat, "Galla", 12, 0, "", 1)
		}, ErrInvalidPrice},
		{"negative age", func() (*Listing, error) {
			return NewListing(10, "Galla Goat", AnimalGoat, "Galla", -1, 800_000, "", 1)
		}, ErrInvalidAge},
		{"negative quantity", func() (*Listing, error) {
			return NewListing(10, "Galla Goat", AnimalGoat, "Galla", 12, 800_000, "", -1)
		}, ErrNegativeQuantity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.build()
			require.ErrorIs(t, err, tc.expected)
		})
	}
}

func TestRestock_ClearsSoldOut(t *testing.T) {
	listing, err := NewListing(10, "Galla Goat", AnimalGoat, "Galla", 12, 800_000, "", 0)
	require.NoError(t, err)
	require.True(t, listing.SoldOut)

	require.NoError(t, listing.Restock(5))
	assert.Equal(t, int64(5), listing.Quantity)
	assert.False(t, listing.SoldOut)

	require.ErrorIs(t, listing.Restock(0), ErrInvalidRestock)
	require.ErrorIs(t, listing.Restock(-2), ErrInvalidRestock)
}

func TestValidate_RealignsSoldOutWithQuantity(t *testing.T) {
	listing, err := NewListing(10, "Galla Goat", AnimalGoat, "Galla", 12, 800_000, "", 3)
	require.NoError(t, err)

	listing.Quantity = 0
	require.NoError(t, listing.Validate())
	assert.True(t, listing.SoldOut)

	listing.Quantity = 2
	require.NoError(t, listing.Validate())
	assert.False(t, listing.SoldOut)
}
