package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	listingdomain "github.com/farmart-ke/farmart-api/internal/domains/listings/domain"
	listingports "github.com/farmart-ke/farmart-api/internal/domains/listings/ports"
	apierrors "github.com/farmart-ke/farmart-api/internal/shared/errors"
)

// ListingAPI serves the listing catalog endpoints.
type ListingAPI struct {
	service listingports.Service
}

func NewListingAPI(service listingports.Service) ListingAPI {
	return ListingAPI{service: service}
}

type createListingRequest struct {
	Name        string   `json:"name" binding:"required"`
	AnimalType  string   `json:"animalType" binding:"required"`
	Breed       string   `json:"breed"`
	AgeMonths   int32    `json:"ageMonths"`
	PriceCents  int64    `json:"priceCents" binding:"required"`
	Description string   `json:"description"`
	ImageURLs   []string `json:"imageUrls"`
	Quantity    int64    `json:"quantity" binding:"required"`
}

type updateListingRequest struct {
	Name        *string  `json:"name"`
	Breed       *string  `json:"breed"`
	AgeMonths   *int32   `json:"ageMonths"`
	PriceCents  *int64   `json:"priceCents"`
	Description *string  `json:"description"`
	ImageURLs   []string `json:"imageUrls"`
}

type restockRequest struct {
	Amount int64 `json:"amount" binding:"required"`
}

type listingResponse struct {
	ID          int64    `json:"id"`
	FarmerID    int64    `json:"farmerId"`
	Name        string   `json:"name"`
	AnimalType  string   `json:"animalType"`
	Breed       string   `json:"breed"`
	AgeMonths   int32    `json:"ageMonths"`
	PriceCents  int64    `json:"priceCents"`
	Description string   `json:"description"`
	ImageURLs   []string `json:"imageUrls"`
	Quantity    int64    `json:"quantity"`
	SoldOut     bool     `json:"soldOut"`
}

func toListingResponse(listing *listingdomain.Listing) listingResponse {
	return listingResponse{
		ID:          listing.ID,
		FarmerID:    listing.FarmerID,
		Name:        listing.Name,
		AnimalType:  string(listing.AnimalType),
		Breed:       listing.Breed,
		AgeMonths:   listing.AgeMonths,
		PriceCents:  listing.PriceCents,
		Description: listing.Description,
		ImageURLs:   listing.ImageURLs,
		Quantity:    listing.Quantity,
		SoldOut:     listing.SoldOut,
	}
}

func toListingResponses(listings []*listingdomain.Listing) []listingResponse {
	out := make([]listingResponse, 0, len(listings))
	for _, listing := range listings {
		out = append(out, toListingResponse(listing))
	}
	return out
}

// Post /v1/listings
func (api *ListingAPI) Create(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	var payload createListingRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	listing, err := api.service.Create(c.Request.Context(), actor, listingports.CreateInput{
		Name:        payload.Name,
		AnimalType:  listingdomain.AnimalType(payload.AnimalType),
		Breed:       payload.Breed,
		AgeMonths:   payload.AgeMonths,
		PriceCents:  payload.PriceCents,
		Description: payload.Description,
		ImageURLs:   payload.ImageURLs,
		Quantity:    payload.Quantity,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toListingResponse(listing))
}

// Get /v1/listings
func (api *ListingAPI) List(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	listings, err := api.service.List(c.Request.Context(), actor)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toListingResponses(listings))
}

// Get /v1/listings/:listingId
func (api *ListingAPI) Get(c *gin.Context) {
	id, ok := pathID(c, "listingId")
	if !ok {
		return
	}
	listing, err := api.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toListingResponse(listing))
}

// Put /v1/listings/:listingId
func (api *ListingAPI) Update(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "listingId")
	if !ok {
		return
	}
	var payload updateListingRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	listing, err := api.service.Update(c.Request.Context(), actor, id, listingports.UpdateInput{
		Name:        payload.Name,
		Breed:       payload.Breed,
		AgeMonths:   payload.AgeMonths,
		PriceCents:  payload.PriceCents,
		Description: payload.Description,
		ImageURLs:   payload.ImageURLs,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toListingResponse(listing))
}

// Post /v1/listings/:listingId/restock
func (api *ListingAPI) Restock(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "listingId")
	if !ok {
		return
	}
	var payload restockRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	listing, err := api.service.Restock(c.Request.Context(), actor, id, payload.Amount)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toListingResponse(listing))
}

// Delete /v1/listings/:listingId
func (api *ListingAPI) Delete(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "listingId")
	if !ok {
		return
	}
	if err := api.service.Delete(c.Request.Context(), actor, id); err != nil {
		respondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// pathID parses a numeric path parameter, responding 400 on garbage.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		apierrors.Respond(c, apierrors.ErrBadRequest.WithDetail(name+" must be a positive integer"))
		return 0, false
	}
	return id, true
}
