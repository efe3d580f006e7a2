package domain

import (
	"errors"
	"strings"
)

// AnimalType enumerates the livestock categories of the marketplace.
type AnimalType string

const (
	AnimalCow     AnimalType = "COW"
	AnimalGoat    AnimalType = "GOAT"
	AnimalSheep   AnimalType = "SHEEP"
	AnimalChicken AnimalType = "CHICKEN"
	AnimalPig     AnimalType = "PIG"
)

var (
	ErrEmptyName         = errors.New("listing name is required")
	ErrInvalidAnimalType = errors.New("animal type is invalid")
	ErrInvalidPrice      = errors.New("price must be greater than zero")
	ErrInvalidAge        = errors.New("age must not be negative")
	ErrNegativeQuantity  = errors.New("quantity must not be negative")
	ErrInvalidRestock    = errors.New("restock amount must be greater than zero")
)

// Listing is a saleable unit of livestock. Quantity is decremented only by
// the order transaction coordinator; SoldOut is derived and must equal
// (Quantity == 0) after every mutation.
type Listing struct {
	ID          int64
	FarmerID    int64
	Name        string
	AnimalType  AnimalType
	Breed       string
	AgeMonths   int32
	PriceCents  int64
	Description string
	ImageURLs   []string
	Quantity    int64
	SoldOut     bool
}

// NewListing validates and constructs a listing owned by the given farmer.
func NewListing(farmerID int64, name string, animalType AnimalType, breed string, ageMonths int32, priceCents int64, description string, quantity int64) (*Listing, error) {
	l := &Listing{
		FarmerID:    farmerID,
		Breed:       strings.TrimSpace(breed),
		Description: description,
	}
	if err := l.SetName(name); err != nil {
		return nil, err
	}
	if err := l.SetAnimalType(animalType); err != nil {
		return nil, err
	}
	if err := l.SetAge(ageMonths); err != nil {
		return nil, err
	}
	if err := l.SetPrice(priceCents); err != nil {
		return nil, err
	}
	if quantity < 0 {
		return nil, ErrNegativeQuantity
	}
	l.Quantity = quantity
	l.SoldOut = quantity == 0
	return l, nil
}

func (l *Listing) SetName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	l.Name = name
	return nil
}

func (l *Listing) SetAnimalType(t AnimalType) error {
	switch t {
	case AnimalCow, AnimalGoat, AnimalSheep, AnimalChicken, AnimalPig:
		l.AnimalType = t
		return nil
	default:
		return ErrInvalidAnimalType
	}
}

func (l *Listing) SetPrice(priceCents int64) error {
	if priceCents <= 0 {
		return ErrInvalidPrice
	}
	l.PriceCents = priceCents
	return nil
}

func (l *Listing) SetAge(ageMonths int32) error {
	if ageMonths < 0 {
		return ErrInvalidAge
	}
	l.AgeMonths = ageMonths
	return nil
}

// Restock adds quantity and clears the sold-out flag.
func (l *Listing) Restock(amount int64) error {
	if amount <= 0 {
		return ErrInvalidRestock
	}
	l.Quantity += amount
	l.SoldOut = false
	return nil
}

// Validate re-applies the aggregate invariants, including the derived
// sold-out flag.
func (l *Listing) Validate() error {
	if err := l.SetName(l.Name); err != nil {
		return err
	}
	if err := l.SetAnimalType(l.AnimalType); err != nil {
		return err
	}
	if err := l.SetPrice(l.PriceCents); err != nil {
		return err
	}
	if err := l.SetAge(l.AgeMonths); err != nil {
		return err
	}
	if l.Quantity < 0 {
		return ErrNegativeQuantity
	}
	l.SoldOut = l.Quantity == 0
	return nil
}
