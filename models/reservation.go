package models

import (
	"strings"
	"time"
)

// ReservationOrigin records which store accepted the booking. It is fixed at
// creation and decides which side owns the reservation's lifecycle.
type ReservationOrigin string

const (
	OriginPrimary       ReservationOrigin = "primary"
	OriginLocalFallback ReservationOrigin = "local-fallback"
)

// Reservation statuses.
const (
	ReservationPending   = "Pending"
	ReservationConfirmed = "Confirmed"
	ReservationCancelled = "Cancelled"
)

// Session types and communication methods for a visit.
const (
	SessionOnline   = "Online"
	SessionInPerson = "InPerson"
)

// VisitMeta carries the intake details collected from the booking form.
type VisitMeta struct {
	ReasonForVisit      string `bson:"reasonForVisit" json:"reasonForVisit"`
	SessionType         string `bson:"sessionType" json:"sessionType"`
	CommunicationMethod string `bson:"communicationMethod,omitempty" json:"communicationMethod,omitempty"` // set only for Online sessions
	ConsentGiven        bool   `bson:"consentGiven" json:"consentGiven"`
}

// Reservation is one unit of booking work.
type Reservation struct {
	ReservationID string            `bson:"reservationId" json:"reservationId"`
	ProviderRef   string            `bson:"providerRef" json:"providerRef"` // id as the caller supplied it, either key format
	UserID        string            `bson:"userId" json:"userId"`
	SlotDate      string            `bson:"slotDate" json:"slotDate"` // "2006-01-02"
	SlotTime      string            `bson:"slotTime" json:"slotTime"` // "15:04"
	Visit         VisitMeta         `bson:"visit" json:"visit"`
	Origin        ReservationOrigin `bson:"origin" json:"origin"`
	Status        string            `bson:"status" json:"status"`
	Fee           float64           `bson:"fee" json:"fee"`
	CreatedAt     time.Time         `bson:"createdAt" json:"createdAt"`
}

// AppointmentSummary is the denormalized row written for admin visibility.
type AppointmentSummary struct {
	ReservationID string    `bson:"reservationId" json:"reservationId"`
	ProviderRef   string    `bson:"providerRef" json:"providerRef"`
	ProviderName  string    `bson:"providerName,omitempty" json:"providerName,omitempty"`
	UserID        string    `bson:"userId" json:"userId"`
	UserName      string    `bson:"userName" json:"userName"`
	UserEmail     string    `bson:"userEmail" json:"userEmail"`
	SlotDate      string    `bson:"slotDate" json:"slotDate"`
	SlotTime      string    `bson:"slotTime" json:"slotTime"`
	SessionType   string    `bson:"sessionType" json:"sessionType"`
	Origin        string    `bson:"origin" json:"origin"`
	Fee           float64   `bson:"fee" json:"fee"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
}

// LocalMarker prefixes every identifier minted for the local-fallback path.
const LocalMarker = "local-"

// HasLocalMarker reports whether an identifier was minted locally rather than
// by the clinic system-of-record.
func HasLocalMarker(id string) bool {
	return strings.HasPrefix(id, LocalMarker)
}
