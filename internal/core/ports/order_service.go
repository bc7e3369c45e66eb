package ports

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/kernel"
)

// PackageEvent is a milestone pushed back to the order backend so customers
// can follow their delivery.
type PackageEvent string

const (
	EventDriverAssigned         PackageEvent = "DRIVER_ASSIGNED"
	EventDriverConfirmed        PackageEvent = "DRIVER_CONFIRMED"
	EventDriverDepartingPickUp  PackageEvent = "DRIVER_DEPARTING_PICK_UP"
	EventDriverArrivedPickUp    PackageEvent = "DRIVER_ARRIVED_PICK_UP"
	EventPackagePickedUp        PackageEvent = "PACKAGE_PICKED_UP"
	EventDriverDepartingDropOff PackageEvent = "DRIVER_DEPARTING_DROP_OFF"
	EventDriverArrivedDropOff   PackageEvent = "DRIVER_ARRIVED_DROP_OFF"
	EventPackageDelivered       PackageEvent = "PACKAGE_DELIVERED"
)

// PackageAddress is one end of a delivery as the order backend knows it.
type PackageAddress struct {
	Text        string
	Coordinates kernel.Coordinates
}

// Package is the order backend's view of a delivery. The dispatch side never
// owns packages, it only links assignments to them.
type Package struct {
	ID             string
	TrackingNumber string
	IsExpress      bool
	PickUpStart    time.Time
	PickUp         PackageAddress
	DropOff        PackageAddress
}

// PackageLinkage is what the order backend learns about a package once a
// driver is assigned to it.
type PackageLinkage struct {
	AssignmentID kernel.UUID
	DriverID     kernel.UUID
	DriverName   string
	DriverPhone  string
}

// OrderService is the client for the order backend that owns packages.
// Failures surface as UpstreamFailure errors.
type OrderService interface {
	// GetPackage fetches one package by id.
	GetPackage(ctx context.Context, packageID string) (*Package, error)

	// GetDispatchablePackages lists the placed packages awaiting a driver,
	// ordered by pick up start.
	GetDispatchablePackages(ctx context.Context) ([]*Package, error)

	// SetLinkage records the assignment and driver on a package.
	SetLinkage(ctx context.Context, packageID string, linkage PackageLinkage) error

	// ClearLinkage detaches a package from its assignment, putting it back
	// in the dispatchable pool.
	ClearLinkage(ctx context.Context, packageID string) error

	// SendEvent reports a delivery milestone for a package, tagged with the
	// assignment the milestone happened under.
	SendEvent(ctx context.Context, packageID string, event PackageEvent, assignmentID kernel.UUID) error
}
