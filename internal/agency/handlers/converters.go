package handlers

import (
	"github.com/stafflink/stafflink/internal/agency/models"
)

// jobResponse is the wire shape of a job.
type jobResponse struct {
	ID            string              `json:"id"`
	PartnerID     string              `json:"partner_id"`
	GroupName     string              `json:"group_name"`
	Note          string              `json:"note,omitempty"`
	StartDate     string              `json:"start_date"`
	EndDate       string              `json:"end_date"`
	HotelName     string              `json:"hotel_name"`
	Accommodation string              `json:"accommodation"`
	MaleOutfit    string              `json:"male_outfit"`
	FemaleOutfit  string              `json:"female_outfit"`
	MaleHosts     int                 `json:"male_hosts"`
	FemaleHosts   int                 `json:"female_hosts"`
	Status        string              `json:"status"`
	DeleteRequest int                 `json:"delete_request"`
	CreatorName   string              `json:"creator_name,omitempty"`
	HostCounts    []headcountResponse `json:"host_counts"`
}

type headcountResponse struct {
	Date        string `json:"date"`
	MaleHosts   int    `json:"male_hosts"`
	FemaleHosts int    `json:"female_hosts"`
	TotalHosts  int    `json:"total_hosts"`
}

type jobListResponse struct {
	UserJobs   []jobResponse `json:"user_jobs"`
	AgencyJobs []jobResponse `json:"agency_jobs"`
}

type messageResponse struct {
	ID      string `json:"id"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	IsRead  int    `json:"is_read"`
}

type messageListResponse struct {
	Messages    []messageResponse `json:"messages"`
	UnreadCount int               `json:"unread_count"`
}

type profileResponse struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Agency      string `json:"agency"`
}

type optionsResponse struct {
	Hotels         []string `json:"hotels"`
	Accommodations []string `json:"accommodations"`
	MaleOutfits    []string `json:"male_outfits"`
	FemaleOutfits  []string `json:"female_outfits"`
}

// updateJobRequest mirrors models.JobUpdate: absent fields stay nil so the
// service can tell "not supplied" from an explicit empty value.
type updateJobRequest struct {
	GroupName     *string `json:"group_name"`
	Note          *string `json:"note"`
	StartDate     *string `json:"start_date"`
	EndDate       *string `json:"end_date"`
	HotelName     *string `json:"hotel_name"`
	Accommodation *string `json:"accommodation"`
	MaleOutfit    *string `json:"male_outfit"`
	FemaleOutfit  *string `json:"female_outfit"`
	MaleHosts     *int    `json:"male_hosts"`
	FemaleHosts   *int    `json:"female_hosts"`
}

type updateProfileRequest struct {
	DisplayName *string `json:"display_name"`
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
}

func jobToResponse(job *models.Job) jobResponse {
	counts := make([]headcountResponse, 0, len(job.HostCounts))
	for _, entry := range job.HostCounts {
		counts = append(counts, headcountResponse{
			Date:        entry.Date,
			MaleHosts:   entry.MaleHosts,
			FemaleHosts: entry.FemaleHosts,
			TotalHosts:  entry.TotalHosts,
		})
	}

	return jobResponse{
		ID:            job.ID.String(),
		PartnerID:     job.PartnerID.String(),
		GroupName:     job.GroupName,
		Note:          job.Note,
		StartDate:     job.StartDate,
		EndDate:       job.EndDate,
		HotelName:     job.HotelName,
		Accommodation: job.Accommodation,
		MaleOutfit:    job.MaleOutfit,
		FemaleOutfit:  job.FemaleOutfit,
		MaleHosts:     job.MaleHosts,
		FemaleHosts:   job.FemaleHosts,
		Status:        job.Status,
		DeleteRequest: job.DeleteRequest,
		CreatorName:   job.CreatorName,
		HostCounts:    counts,
	}
}

func jobsToResponses(jobs []*models.Job) []jobResponse {
	out := make([]jobResponse, 0, len(jobs))
	for _, job := range jobs {
		out = append(out, jobToResponse(job))
	}
	return out
}

func messageListToResponse(list *models.MessageList) messageListResponse {
	msgs := make([]messageResponse, 0, len(list.Messages))
	for _, msg := range list.Messages {
		msgs = append(msgs, messageResponse{
			ID:      msg.ID.String(),
			Subject: msg.Subject,
			Body:    msg.Body,
			IsRead:  msg.IsRead,
		})
	}
	return messageListResponse{Messages: msgs, UnreadCount: list.UnreadCount}
}

func profileToResponse(profile *models.UserProfile) profileResponse {
	return profileResponse{
		ID:          profile.ID.String(),
		Username:    profile.Username,
		Email:       profile.Email,
		DisplayName: profile.DisplayName,
		FirstName:   profile.FirstName,
		LastName:    profile.LastName,
		Agency:      profile.Agency,
	}
}

func (r *updateJobRequest) toModel() *models.JobUpdate {
	return &models.JobUpdate{
		GroupName:     r.GroupName,
		Note:          r.Note,
		StartDate:     r.StartDate,
		EndDate:       r.EndDate,
		HotelName:     r.HotelName,
		Accommodation: r.Accommodation,
		MaleOutfit:    r.MaleOutfit,
		FemaleOutfit:  r.FemaleOutfit,
		MaleHosts:     r.MaleHosts,
		FemaleHosts:   r.FemaleHosts,
	}
}

func (r *updateProfileRequest) toModel() *models.ProfileUpdate {
	return &models.ProfileUpdate{
		DisplayName: r.DisplayName,
		FirstName:   r.FirstName,
		LastName:    r.LastName,
	}
}
