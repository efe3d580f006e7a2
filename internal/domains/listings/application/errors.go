package application

import (
	"errors"
	"fmt"

	"github.com/farmart-ke/farmart-api/internal/domains/listings/domain"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid listing input")
	// ErrNotFarmer rejects listing writes from non-farmer accounts.
	ErrNotFarmer = errors.New("only farmers can manage listings")
	// ErrNotOwner rejects writes against another farmer's listing.
	ErrNotOwner = errors.New("listing belongs to another farmer")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyName) ||
		errors.Is(err, domain.ErrInvalidAnimalType) ||
		errors.Is(err, domain.ErrInvalidPrice) ||
		errors.Is(err, domain.ErrInvalidAge) ||
		errors.Is(err, domain.ErrNegativeQuantity) ||
		errors.Is(err, domain.ErrInvalidRestock) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
