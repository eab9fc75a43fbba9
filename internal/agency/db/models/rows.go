// Package models contains the persisted row shapes for the job store,
// configured to work using GORM as the ORM. The row structs are kept
// separate from the domain models so storage concerns (nullable legacy
// columns, table names, column sizes) stay out of the service layer.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Job is one row in the jobs table. The date columns are deliberately
// loose varchar, never a native date type: legacy deployments carried a
// zero-date column default that this schema must not reintroduce.
type Job struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	PartnerID     uuid.UUID `gorm:"type:uuid;index"`
	GroupName     string    `gorm:"size:255"`
	Note          string    `gorm:"type:text"`
	StartDate     string    `gorm:"type:varchar(20)"`
	EndDate       string    `gorm:"type:varchar(20)"`
	HotelName     string    `gorm:"size:255"`
	Accommodation string    `gorm:"size:255"`
	MaleOutfit    string    `gorm:"size:255"`
	FemaleOutfit  string    `gorm:"size:255"`
	MaleHosts     int
	FemaleHosts   int
	Status        string `gorm:"size:50"`
	// DeleteRequest is nullable on purpose: rows written by older
	// deployments carry NULL here and are healed to 0 on read.
	DeleteRequest *int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (Job) TableName() string { return "jobs" }

// HostCount is one calendar day's headcount row within a job's span.
type HostCount struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"`
	JobID       uuid.UUID `gorm:"type:uuid;index"`
	Date        string    `gorm:"type:varchar(20)"`
	MaleHosts   int
	FemaleHosts int
}

func (HostCount) TableName() string { return "job_host_counts" }

// EditRequest is a pending proposed-field snapshot for a job.
type EditRequest struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	JobID         uuid.UUID `gorm:"type:uuid;index"`
	PartnerID     uuid.UUID `gorm:"type:uuid"`
	GroupName     string    `gorm:"size:255"`
	StartDate     string    `gorm:"type:varchar(20)"`
	EndDate       string    `gorm:"type:varchar(20)"`
	HotelName     string    `gorm:"size:255"`
	Accommodation string    `gorm:"size:255"`
	MaleOutfit    string    `gorm:"size:255"`
	FemaleOutfit  string    `gorm:"size:255"`
	Note          string    `gorm:"type:text"`
	Status        string    `gorm:"size:20"`
	CreatedAt     time.Time
}

func (EditRequest) TableName() string { return "job_edit_requests" }

// Message is an admin-to-partner status message row.
type Message struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;index"`
	Subject   string    `gorm:"size:255"`
	Body      string    `gorm:"type:text"`
	IsRead    int
	CreatedAt time.Time
}

func (Message) TableName() string { return "messages" }

// User is a partner account in the directory. Agency is the plain string
// key that groups partners into one organization.
type User struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username    string    `gorm:"size:60;uniqueIndex"`
	Email       string    `gorm:"size:255"`
	DisplayName string    `gorm:"size:255"`
	FirstName   string    `gorm:"size:100"`
	LastName    string    `gorm:"size:100"`
	Agency      string    `gorm:"size:255;index"`
}

func (User) TableName() string { return "users" }

// Option is a named, comma-separated choice list (hotels, accommodations,
// outfits) that the client renders its job form from.
type Option struct {
	Name  string `gorm:"primaryKey;size:64"`
	Value string `gorm:"type:text"`
}

func (Option) TableName() string { return "agency_options" }
