// Package models defines the core domain models for agency staffing jobs:
// the Job itself, its per-day headcount ledger, and the pending edit
// requests awaiting administrative approval.
package models

import (
	"time"

	"github.com/google/uuid"
)

// StatusNewJob is the initial status label assigned to every created job.
const StatusNewJob = "New Job"

// EditRequestPending is the status of a freshly submitted edit request.
// Terminal states are managed by the admin side, outside this service.
const EditRequestPending = "pending"

// Job is a staffing assignment created by an agency partner.
// Dates are carried as DD/MM/YYYY strings end to end; they are never a
// native date type, so a store-level zero-date default can never leak in.
type Job struct {
	// ID is the unique identifier for the job.
	ID uuid.UUID
	// PartnerID is the partner (owner) who created the job.
	PartnerID uuid.UUID
	// GroupName names the guest group the staff is booked for.
	GroupName string
	// Note is free-form text attached by the partner.
	Note string
	// StartDate is the first working day, DD/MM/YYYY.
	StartDate string
	// EndDate is the last working day, DD/MM/YYYY.
	EndDate string
	// HotelName is the venue the staff works at.
	HotelName string
	// Accommodation describes where the staff is housed.
	Accommodation string
	// MaleOutfit and FemaleOutfit describe the required dress code.
	MaleOutfit   string
	FemaleOutfit string
	// MaleHosts and FemaleHosts are the baseline daily headcounts.
	MaleHosts   int
	FemaleHosts int
	// Status is a free-text label, "New Job" on creation.
	Status string
	// DeleteRequest is 1 when the owner has asked for removal, else 0.
	// It is always a concrete 0/1 by the time a Job leaves the store.
	DeleteRequest int
	// CreatedAt and UpdatedAt record row timestamps.
	CreatedAt time.Time
	UpdatedAt time.Time

	// HostCounts is the per-day ledger, attached on reads.
	HostCounts []HeadcountEntry
	// CreatorName is the owner's display name, attached when the job is
	// listed for an agency mate rather than the owner.
	CreatorName string
}

// JobUpdate carries a proposed change to a Job. Pointer fields distinguish
// "not supplied" from an explicit empty value. Only the headcounts are
// applied to the live job; everything else becomes an edit request.
type JobUpdate struct {
	GroupName     *string
	Note          *string
	StartDate     *string
	EndDate       *string
	HotelName     *string
	Accommodation *string
	MaleOutfit    *string
	FemaleOutfit  *string
	MaleHosts     *int
	FemaleHosts   *int
}

// HeadcountEntry is one calendar day's required staff within a job's span.
type HeadcountEntry struct {
	JobID       uuid.UUID
	Date        string
	MaleHosts   int
	FemaleHosts int
	// TotalHosts is derived (male + female) and attached on reads.
	TotalHosts int
}

// EditRequest is a full proposed-field snapshot for a job, appended on
// every update call and left for the admin side to resolve.
type EditRequest struct {
	ID            uuid.UUID
	JobID         uuid.UUID
	PartnerID     uuid.UUID
	GroupName     string
	StartDate     string
	EndDate       string
	HotelName     string
	Accommodation string
	MaleOutfit    string
	FemaleOutfit  string
	Note          string
	Status        string
	CreatedAt     time.Time
}

// JobList is the result of listing jobs for a partner: their own jobs plus
// jobs owned by other partners of the same agency.
type JobList struct {
	UserJobs   []*Job
	AgencyJobs []*Job
}

// Message is a status message sent to a partner by the administrators.
type Message struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Subject   string
	Body      string
	IsRead    int
	CreatedAt time.Time
}

// MessageList bundles a partner's messages with the unread count.
type MessageList struct {
	Messages    []*Message
	UnreadCount int
}

// UserProfile is the partner-facing view of a directory user.
type UserProfile struct {
	ID          uuid.UUID
	Username    string
	Email       string
	DisplayName string
	FirstName   string
	LastName    string
	Agency      string
}

// ProfileUpdate carries the editable profile fields.
type ProfileUpdate struct {
	DisplayName *string
	FirstName   *string
	LastName    *string
}

// Options are the configured choice lists the client renders its job form
// from.
type Options struct {
	Hotels         []string
	Accommodations []string
	MaleOutfits    []string
	FemaleOutfits  []string
}
