package model

// Role is the access level of a user account.
type Role string

const (
	RoleUser  Role = "user"
	RoleRider Role = "rider"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleRider, RoleAdmin:
		return true
	}
	return false
}

// RiderStatus is the review state of a rider application.
type RiderStatus string

const (
	RiderStatusPending  RiderStatus = "pending"
	RiderStatusApproved RiderStatus = "approved"
	RiderStatusRejected RiderStatus = "rejected"
)

// WorkStatus tells whether an approved rider can take a new parcel.
type WorkStatus string

const (
	WorkStatusAvailable WorkStatus = "available"
	WorkStatusInProcess WorkStatus = "in-process"
)

// DeliveryStatus is the delivery stage of a parcel. Values outside the
// constants below are stored as given.
type DeliveryStatus string

const (
	DeliveryStatusPendingPickup   DeliveryStatus = "pending-pickup"
	DeliveryStatusDriverAssigned  DeliveryStatus = "driver-assigned"
	DeliveryStatusRiderArriving   DeliveryStatus = "rider-arriving"
	DeliveryStatusParcelPickedUp  DeliveryStatus = "parcel-picked-up"
	DeliveryStatusParcelDelivered DeliveryStatus = "parcel-delivered"
)

// Known reports whether s is one of the named delivery stages.
func (s DeliveryStatus) Known() bool {
	switch s {
	case DeliveryStatusPendingPickup,
		DeliveryStatusDriverAssigned,
		DeliveryStatusRiderArriving,
		DeliveryStatusParcelPickedUp,
		DeliveryStatusParcelDelivered:
		return true
	}
	return false
}

// PaymentStatus is the payment state of a parcel or payment record.
type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "unpaid"
	PaymentStatusPaid   PaymentStatus = "paid"
)
