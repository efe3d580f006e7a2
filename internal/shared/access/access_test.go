package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	buyer       = Actor{ID: 1, Role: RoleBuyer}
	farmer      = Actor{ID: 10, Role: RoleFarmer}
	otherFarmer = Actor{ID: 11, Role: RoleFarmer}
	staff       = Actor{ID: 99, Role: RoleBuyer, Staff: true}
)

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleBuyer.Valid())
	assert.True(t, RoleFarmer.Valid())
	assert.False(t, Role("ADMIN").Valid())
	assert.False(t, Role("").Valid())
}

func TestCanManageListing(t *testing.T) {
	listing := Listing{OwnerID: farmer.ID}

	assert.True(t, CanManage(farmer, listing))
	assert.True(t, CanManage(staff, listing))
	assert.False(t, CanManage(otherFarmer, listing))
	assert.False(t, CanManage(buyer, listing))
}

func TestCanManageOrder(t *testing.T) {
	order := Order{BuyerID: buyer.ID, FarmerIDs: []int64{farmer.ID}}

	assert.True(t, CanManage(buyer, order))
	assert.True(t, CanManage(staff, order))
	assert.False(t, CanManage(farmer, order))
}

func TestCanViewListing(t *testing.T) {
	listing := Listing{OwnerID: farmer.ID}

	for _, actor := range []Actor{buyer, farmer, otherFarmer, staff} {
		assert.True(t, CanView(actor, listing))
	}
}

func TestCanViewOrder(t *testing.T) {
	order := Order{BuyerID: buyer.ID, FarmerIDs: []int64{farmer.ID}}

	assert.True(t, CanView(buyer, order))
	assert.True(t, CanView(farmer, order))
	assert.True(t, CanView(staff, order))
	assert.False(t, CanView(otherFarmer, order))
	assert.False(t, CanView(Actor{ID: 2, Role: RoleBuyer}, order))
}

func TestCanSettle(t *testing.T) {
	order := Order{BuyerID: buyer.ID, FarmerIDs: []int64{farmer.ID}}

	assert.True(t, CanSettle(farmer, order))
	assert.True(t, CanSettle(staff, order))
	assert.False(t, CanSettle(otherFarmer, order))
	assert.False(t, CanSettle(buyer, order))
}
