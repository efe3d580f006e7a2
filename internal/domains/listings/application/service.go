package application

import (
	"context"

	"github.com/farmart-ke/farmart-api/internal/domains/listings/domain"
	"github.com/farmart-ke/farmart-api/internal/domains/listings/ports"
	"github.com/farmart-ke/farmart-api/internal/shared/access"
)

// Service orchestrates listing use cases.
type Service struct {
	repo ports.Repository
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

// Create persists a new listing owned by the calling farmer.
func (s *Service) Create(ctx context.Context, actor access.Actor, input ports.CreateInput) (*domain.Listing, error) {
	if !actor.IsFarmer() {
		return nil, ErrNotFarmer
	}
	listing, err := domain.NewListing(actor.ID, input.Name, input.AnimalType, input.Breed, input.AgeMonths, input.PriceCents, input.Description, input.Quantity)
	if err != nil {
		return nil, mapError(err)
	}
	listing.ImageURLs = input.ImageURLs
	return s.repo.Save(ctx, listing)
}

// Update applies the supplied fields to an owned listing.
func (s *Service) Update(ctx context.Context, actor access.Actor, id int64, input ports.UpdateInput) (*domain.Listing, error) {
	listing, err := s.ownedListing(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		if err := listing.SetName(*input.Name); err != nil {
			return nil, mapError(err)
		}
	}
	if input.Breed != nil {
		listing.Breed = *input.Breed
	}
	if input.AgeMonths != nil {
		if err := listing.SetAge(*input.AgeMonths); err != nil {
			return nil, mapError(err)
		}
	}
	if input.PriceCents != nil {
		if err := listing.SetPrice(*input.PriceCents); err != nil {
			return nil, mapError(err)
		}
	}
	if input.Description != nil {
		listing.Description = *input.Description
	}
	if input.ImageURLs != nil {
		listing.ImageURLs = input.ImageURLs
	}
	return s.repo.Save(ctx, listing)
}

// Restock adds stock to an owned listing and clears its sold-out flag.
func (s *Service) Restock(ctx context.Context, actor access.Actor, id int64, amount int64) (*domain.Listing, error) {
	listing, err := s.ownedListing(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := listing.Restock(amount); err != nil {
		return nil, mapError(err)
	}
	return s.repo.Save(ctx, listing)
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Listing, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns available listings; farmers additionally see their own
// sold-out listings.
func (s *Service) List(ctx context.Context, actor access.Actor) ([]*domain.Listing, error) {
	if actor.IsFarmer() {
		return s.repo.List(ctx, ports.ListFilter{FarmerID: actor.ID, IncludeSoldOut: true})
	}
	return s.repo.List(ctx, ports.ListFilter{})
}

// Delete removes an owned listing. The repository rejects deletion while any
// order line references it.
func (s *Service) Delete(ctx context.Context, actor access.Actor, id int64) error {
	if _, err := s.ownedListing(ctx, actor, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) ownedListing(ctx context.Context, actor access.Actor, id int64) (*domain.Listing, error) {
	listing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.CanManage(actor, access.Listing{OwnerID: listing.FarmerID}) {
		if !actor.IsFarmer() && !actor.Staff {
			return nil, ErrNotFarmer
		}
		return nil, ErrNotOwner
	}
	return listing, nil
}

var _ ports.Service = (*Service)(nil)
