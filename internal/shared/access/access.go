// Package access centralizes role and ownership decisions for protected
// resources. Resources form a closed set so every permission check names the
// concrete owner reference it inspects.
package access

// Role distinguishes the two account types of the marketplace.
type Role string

const (
	RoleBuyer  Role = "BUYER"
	RoleFarmer Role = "FARMER"
)

// Valid reports whether the role is one of the known account types.
func (r Role) Valid() bool {
	return r == RoleBuyer || r == RoleFarmer
}

// Actor identifies the authenticated caller of a request.
type Actor struct {
	ID    int64
	Role  Role
	Staff bool
}

func (a Actor) IsBuyer() bool  { return a.Role == RoleBuyer }
func (a Actor) IsFarmer() bool { return a.Role == RoleFarmer }

// Resource is the closed set of protected resources. Each variant carries the
// typed owner reference its checks depend on.
type Resource interface {
	isResource()
}

// Listing is a saleable unit owned by the farmer who created it.
type Listing struct {
	OwnerID int64
}

// Order belongs to its buyer; the farmers whose listings appear in it get
// read access and may drive its confirmation lifecycle.
type Order struct {
	BuyerID   int64
	FarmerIDs []int64
}

func (Listing) isResource() {}
func (Order) isResource()   {}

// CanManage reports whether the actor may mutate the resource. Staff may
// mutate anything; otherwise a listing is managed by its owner and an order
// by its buyer.
func CanManage(a Actor, r Resource) bool {
	if a.Staff {
		return true
	}
	switch res := r.(type) {
	case Listing:
		return a.IsFarmer() && res.OwnerID == a.ID
	case Order:
		return res.BuyerID == a.ID
	default:
		return false
	}
}

// CanView reports whether the actor may read the resource. Listings are
// visible to any authenticated actor; orders only to their buyer, the
// farmers involved, and staff.
func CanView(a Actor, r Resource) bool {
	if a.Staff {
		return true
	}
	switch res := r.(type) {
	case Listing:
		return true
	case Order:
		if res.BuyerID == a.ID {
			return true
		}
		for _, id := range res.FarmerIDs {
			if id == a.ID {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// CanSettle reports whether the actor may confirm, reject, or mark delivery
// of the order: staff, or a farmer with a listing in it.
func CanSettle(a Actor, o Order) bool {
	if a.Staff {
		return true
	}
	if !a.IsFarmer() {
		return false
	}
	for _, id := range o.FarmerIDs {
		if id == a.ID {
			return true
		}
	}
	return false
}
