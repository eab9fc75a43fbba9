// Package authz decides what an acting partner may do with a given job.
// Access is either ownership or same-agency membership; the two grant
// different rights, so the decision is an explicit enum rather than a
// boolean scattered across call sites.
package authz

import (
	"github.com/google/uuid"
)

// Decision classifies an actor's relationship to a job.
type Decision int

const (
	// Denied means no access at all.
	Denied Decision = iota
	// Owner is the partner who created the job.
	Owner
	// SameAgency is a different partner sharing the owner's agency.
	SameAgency
)

func (d Decision) String() string {
	switch d {
	case Owner:
		return "owner"
	case SameAgency:
		return "same-agency"
	default:
		return "denied"
	}
}

// Actor is the authenticated partner attempting an operation.
type Actor struct {
	ID     uuid.UUID
	Agency string
}

// Decide classifies the actor against a job's owner. An empty agency never
// matches: partners without an agency only ever see their own jobs.
func Decide(actor Actor, ownerID uuid.UUID, ownerAgency string) Decision {
	if actor.ID == ownerID {
		return Owner
	}
	if actor.Agency != "" && actor.Agency == ownerAgency {
		return SameAgency
	}
	return Denied
}

// CanView reports whether the actor may read the job.
func (d Decision) CanView() bool {
	return d != Denied
}

// CanSubmitEdit reports whether the actor may submit an edit request.
// Agency mates may propose edits; the admin side arbitrates.
func (d Decision) CanSubmitEdit() bool {
	return d != Denied
}

// CanRequestDeletion reports whether the actor may flag the job for
// deletion. Only the owner may; agency mates never can.
func (d Decision) CanRequestDeletion() bool {
	return d == Owner
}
