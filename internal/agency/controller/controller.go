// Package controller implements the core business logic (service layer)
// for the job lifecycle: creation with its per-day headcount ledger,
// edit-request submission, deletion flagging and agency-scoped listings,
// orchestrating repository transactions and notification side effects.
package controller

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stafflink/stafflink/internal/agency/authz"
	"github.com/stafflink/stafflink/internal/agency/dates"
	"github.com/stafflink/stafflink/internal/agency/db"
	e "github.com/stafflink/stafflink/internal/agency/errors"
	"github.com/stafflink/stafflink/internal/agency/events"
	"github.com/stafflink/stafflink/internal/agency/models"
	"go.uber.org/zap"
)

type EventProducer interface {
	Produce(eventType events.EventType, job *models.Job)
}

// Notifier sends a best-effort message to the administrators. It never
// returns an error: delivery failures are the notifier's problem, not the
// mutation's.
type Notifier interface {
	Send(recipient, subject, body string)
}

// Repository defines the storage interface for jobs, their headcount
// ledger, edit requests and messages.
type Repository interface {
	CreateJob(ctx context.Context, job *models.Job) error
	GetJob(ctx context.Context, id uuid.UUID) (*models.Job, error)
	ListJobsByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Job, error)
	ListAllJobs(ctx context.Context) ([]*models.Job, error)
	SetDeleteRequest(ctx context.Context, id uuid.UUID) error
	FetchHostCounts(ctx context.Context, jobID uuid.UUID) ([]models.HeadcountEntry, error)
	LatestEditRequest(ctx context.Context, jobID uuid.UUID) (*models.EditRequest, error)
	ListMessages(ctx context.Context, userID uuid.UUID) ([]*models.Message, error)
	GetMessage(ctx context.Context, id uuid.UUID) (*models.Message, error)
	MarkMessageRead(ctx context.Context, id uuid.UUID) error
	GetOptions(ctx context.Context) (*models.Options, error)
	WithTransaction(ctx context.Context, fn func(repo *db.Repository) error) error
	Close() error
}

// Directory resolves partner identity attributes owned by the user store.
type Directory interface {
	GetAgency(ctx context.Context, userID uuid.UUID) (string, error)
	GetDisplayName(ctx context.Context, userID uuid.UUID) (string, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, upd *models.ProfileUpdate) error
}

// CreateJobInput carries the job-create payload. The seven required
// fields mirror what the booking form collects; headcounts default to 0.
type CreateJobInput struct {
	GroupName     string `json:"group_name" validate:"required"`
	Note          string `json:"note"`
	StartDate     string `json:"start_date" validate:"required"`
	EndDate       string `json:"end_date" validate:"required"`
	HotelName     string `json:"hotel_name" validate:"required"`
	Accommodation string `json:"accommodation" validate:"required"`
	MaleOutfit    string `json:"male_outfit" validate:"required"`
	FemaleOutfit  string `json:"female_outfit" validate:"required"`
	MaleHosts     int    `json:"male_hosts"`
	FemaleHosts   int    `json:"female_hosts"`
}

// JobService provides the job lifecycle operations on top of the
// repository, directory, event producer and notifier.
type JobService struct {
	repo       Repository
	dir        Directory
	producer   EventProducer
	notifier   Notifier
	normalizer *dates.Normalizer
	validate   *validator.Validate
	adminEmail string
	panelURL   string
	logger     *zap.Logger
}

// NewJobService constructs a JobService. adminEmail is the fixed recipient
// for edit-request notifications; panelURL is the admin review deep link
// included in them.
func NewJobService(
	repo Repository,
	dir Directory,
	producer EventProducer,
	notifier Notifier,
	normalizer *dates.Normalizer,
	adminEmail string,
	panelURL string,
	logger *zap.Logger,
) *JobService {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &JobService{
		repo:       repo,
		dir:        dir,
		producer:   producer,
		notifier:   notifier,
		normalizer: normalizer,
		validate:   validate,
		adminEmail: adminEmail,
		panelURL:   panelURL,
		logger:     logger.Named("job_service"),
	}
}

// CreateJob validates the payload, repairs the date pair and writes the
// job row plus one ledger row per day in a single transaction.
func (s *JobService) CreateJob(ctx context.Context, actingUserID uuid.UUID, in *CreateJobInput) (*models.Job, error) {
	if err := s.validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return nil, &e.ValidationError{Field: verrs[0].Field()}
		}
		return nil, fmt.Errorf("%w: %v", e.ErrInvalidInput, err)
	}

	startDate, endDate := s.normalizer.NormalizePair(in.StartDate, in.EndDate)

	job := &models.Job{
		ID:            uuid.New(),
		PartnerID:     actingUserID,
		GroupName:     in.GroupName,
		Note:          in.Note,
		StartDate:     startDate,
		EndDate:       endDate,
		HotelName:     in.HotelName,
		Accommodation: in.Accommodation,
		MaleOutfit:    in.MaleOutfit,
		FemaleOutfit:  in.FemaleOutfit,
		MaleHosts:     in.MaleHosts,
		FemaleHosts:   in.FemaleHosts,
		Status:        models.StatusNewJob,
		DeleteRequest: 0,
	}

	err := s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		if err := tx.CreateJob(ctx, job); err != nil {
			return fmt.Errorf("failed to create job: %w", err)
		}
		if err := tx.ExpandRange(ctx, job.ID, startDate, endDate, in.MaleHosts, in.FemaleHosts); err != nil {
			return fmt.Errorf("failed to write host counts: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	go func() {
		s.producer.Produce(events.JobCreated, job)
	}()
	return job, nil
}

// UpdateJob records a pending edit request carrying the full proposed
// field set. Live job data stays untouched with one exception: headcount
// changes apply immediately to the ledger and the job's baseline counts,
// because staffing numbers cannot wait for administrative sign-off.
func (s *JobService) UpdateJob(ctx context.Context, actingUserID, jobID uuid.UUID, upd *models.JobUpdate) error {
	job, err := s.repo.GetJob(ctx, jobID)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to get job: %w", err)
	}

	decision, err := s.decide(ctx, actingUserID, job)
	if err != nil {
		return err
	}
	if !decision.CanSubmitEdit() {
		return e.ErrNotAuthorized
	}

	s.normalizeUpdateDates(upd)

	// A still-pending request is informational only; it never blocks a
	// further edit.
	if last, lerr := s.repo.LatestEditRequest(ctx, jobID); lerr == nil && last != nil && last.Status == models.EditRequestPending {
		s.logger.Info("job already has a pending edit request",
			zap.String("job_id", jobID.String()),
			zap.String("requested_by", last.PartnerID.String()),
		)
	}

	req := buildEditRequest(actingUserID, job, upd)

	maleHosts := job.MaleHosts
	if upd.MaleHosts != nil {
		maleHosts = *upd.MaleHosts
	}
	femaleHosts := job.FemaleHosts
	if upd.FemaleHosts != nil {
		femaleHosts = *upd.FemaleHosts
	}
	hostsChanged := upd.MaleHosts != nil || upd.FemaleHosts != nil

	err = s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		if err := tx.InsertEditRequest(ctx, req); err != nil {
			return fmt.Errorf("failed to record edit request: %w", err)
		}
		if hostsChanged {
			if err := tx.RewriteCounts(ctx, jobID, maleHosts, femaleHosts, req.StartDate, req.EndDate); err != nil {
				return fmt.Errorf("failed to rewrite host counts: %w", err)
			}
			if err := tx.UpdateHostBaseline(ctx, jobID, maleHosts, femaleHosts); err != nil {
				return fmt.Errorf("failed to update host baseline: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.notifyAdmin(ctx, actingUserID, jobID)
	go func() {
		s.producer.Produce(events.EditRequestSubmitted, job)
		if hostsChanged {
			// The live job changed too, not just the proposal queue.
			job.MaleHosts, job.FemaleHosts = maleHosts, femaleHosts
			s.producer.Produce(events.JobUpdated, job)
		}
	}()
	return nil
}

// RequestJobDeletion flips the one-way delete_request flag. Strictly
// owner-only: agency mates may propose edits but never deletion.
func (s *JobService) RequestJobDeletion(ctx context.Context, actingUserID, jobID uuid.UUID) error {
	job, err := s.repo.GetJob(ctx, jobID)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to get job: %w", err)
	}

	decision, err := s.decide(ctx, actingUserID, job)
	if err != nil {
		return err
	}
	if !decision.CanRequestDeletion() {
		return e.ErrNotAuthorized
	}

	if err := s.repo.SetDeleteRequest(ctx, jobID); err != nil {
		return fmt.Errorf("failed to set delete request: %w", err)
	}

	job.DeleteRequest = 1
	go func() {
		s.producer.Produce(events.DeletionRequested, job)
	}()
	return nil
}

// ListJobs returns the partner's own jobs plus jobs owned by other
// partners of the same agency, each annotated with its headcount ledger.
func (s *JobService) ListJobs(ctx context.Context, actingUserID uuid.UUID) (*models.JobList, error) {
	ownJobs, err := s.repo.ListJobsByOwner(ctx, actingUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	for _, job := range ownJobs {
		if err := s.attachHostCounts(ctx, job); err != nil {
			return nil, err
		}
	}

	agency, err := s.agencyOf(ctx, actingUserID)
	if err != nil {
		return nil, err
	}

	var agencyJobs []*models.Job
	if agency != "" {
		allJobs, err := s.repo.ListAllJobs(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list jobs: %w", err)
		}
		for _, job := range allJobs {
			if job.PartnerID == actingUserID {
				continue
			}
			ownerAgency, err := s.agencyOf(ctx, job.PartnerID)
			if err != nil || ownerAgency != agency {
				continue
			}
			if name, err := s.dir.GetDisplayName(ctx, job.PartnerID); err == nil {
				job.CreatorName = name
			}
			if err := s.attachHostCounts(ctx, job); err != nil {
				return nil, err
			}
			agencyJobs = append(agencyJobs, job)
		}
	}

	return &models.JobList{UserJobs: ownJobs, AgencyJobs: agencyJobs}, nil
}

// GetJob returns a single job with its ledger if the actor is its owner
// or an agency mate, along with the access decision.
func (s *JobService) GetJob(ctx context.Context, actingUserID, jobID uuid.UUID) (*models.Job, authz.Decision, error) {
	job, err := s.repo.GetJob(ctx, jobID)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, authz.Denied, err
		}
		return nil, authz.Denied, fmt.Errorf("failed to get job: %w", err)
	}

	decision, err := s.decide(ctx, actingUserID, job)
	if err != nil {
		return nil, authz.Denied, err
	}
	if !decision.CanView() {
		return nil, authz.Denied, e.ErrNotAuthorized
	}

	if decision == authz.SameAgency {
		if name, err := s.dir.GetDisplayName(ctx, job.PartnerID); err == nil {
			job.CreatorName = name
		}
	}
	if err := s.attachHostCounts(ctx, job); err != nil {
		return nil, authz.Denied, err
	}
	return job, decision, nil
}

// ListMessages returns the partner's messages, newest first, with the
// unread count.
func (s *JobService) ListMessages(ctx context.Context, userID uuid.UUID) (*models.MessageList, error) {
	msgs, err := s.repo.ListMessages(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	unread := 0
	for _, msg := range msgs {
		if msg.IsRead == 0 {
			unread++
		}
	}
	return &models.MessageList{Messages: msgs, UnreadCount: unread}, nil
}

// MarkMessageRead marks one of the partner's own messages as read.
func (s *JobService) MarkMessageRead(ctx context.Context, userID, messageID uuid.UUID) error {
	msg, err := s.repo.GetMessage(ctx, messageID)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to get message: %w", err)
	}
	if msg.UserID != userID {
		return e.ErrNotAuthorized
	}

	if err := s.repo.MarkMessageRead(ctx, messageID); err != nil {
		return fmt.Errorf("failed to mark message read: %w", err)
	}
	return nil
}

func (s *JobService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	profile, err := s.dir.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}

func (s *JobService) UpdateProfile(ctx context.Context, userID uuid.UUID, upd *models.ProfileUpdate) error {
	if err := s.dir.UpdateProfile(ctx, userID, upd); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}

func (s *JobService) GetOptions(ctx context.Context) (*models.Options, error) {
	opts, err := s.repo.GetOptions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get options: %w", err)
	}
	return opts, nil
}

func (s *JobService) decide(ctx context.Context, actingUserID uuid.UUID, job *models.Job) (authz.Decision, error) {
	if actingUserID == job.PartnerID {
		return authz.Owner, nil
	}

	actorAgency, err := s.agencyOf(ctx, actingUserID)
	if err != nil {
		return authz.Denied, err
	}
	ownerAgency, err := s.agencyOf(ctx, job.PartnerID)
	if err != nil {
		return authz.Denied, err
	}

	actor := authz.Actor{ID: actingUserID, Agency: actorAgency}
	return authz.Decide(actor, job.PartnerID, ownerAgency), nil
}

// agencyOf resolves a user's agency, treating a user absent from the
// directory as having none.
func (s *JobService) agencyOf(ctx context.Context, userID uuid.UUID) (string, error) {
	agency, err := s.dir.GetAgency(ctx, userID)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to resolve agency: %w", err)
	}
	return agency, nil
}

// normalizeUpdateDates repairs any supplied date fields in place. When
// both are present they are repaired as a pair so a reversed range cannot
// slip into the proposal.
func (s *JobService) normalizeUpdateDates(upd *models.JobUpdate) {
	switch {
	case upd.StartDate != nil && upd.EndDate != nil:
		start, end := s.normalizer.NormalizePair(*upd.StartDate, *upd.EndDate)
		upd.StartDate, upd.EndDate = &start, &end
	case upd.StartDate != nil:
		start := s.normalizer.Normalize(*upd.StartDate, dates.FallbackToday)
		upd.StartDate = &start
	case upd.EndDate != nil:
		end := s.normalizer.Normalize(*upd.EndDate, dates.FallbackTomorrow)
		upd.EndDate = &end
	}
}

func (s *JobService) notifyAdmin(ctx context.Context, actingUserID, jobID uuid.UUID) {
	requester := actingUserID.String()
	if name, err := s.dir.GetDisplayName(ctx, actingUserID); err == nil && name != "" {
		requester = name
	}

	body := fmt.Sprintf(
		"Hello,\n\n%s submitted an edit request for job %s.\n\nReview it in the admin panel:\n%s\n",
		requester, jobID, s.panelURL,
	)
	s.notifier.Send(s.adminEmail, "New job edit request", body)
}

func (s *JobService) attachHostCounts(ctx context.Context, job *models.Job) error {
	entries, err := s.repo.FetchHostCounts(ctx, job.ID)
	if err != nil {
		return fmt.Errorf("failed to fetch host counts: %w", err)
	}
	job.HostCounts = entries
	return nil
}

// buildEditRequest snapshots the full editable field set, falling back to
// the live job's current values for anything the caller omitted.
func buildEditRequest(actingUserID uuid.UUID, job *models.Job, upd *models.JobUpdate) *models.EditRequest {
	pick := func(p *string, current string) string {
		if p != nil {
			return *p
		}
		return current
	}

	return &models.EditRequest{
		ID:            uuid.New(),
		JobID:         job.ID,
		PartnerID:     actingUserID,
		GroupName:     pick(upd.GroupName, job.GroupName),
		StartDate:     pick(upd.StartDate, job.StartDate),
		EndDate:       pick(upd.EndDate, job.EndDate),
		HotelName:     pick(upd.HotelName, job.HotelName),
		Accommodation: pick(upd.Accommodation, job.Accommodation),
		MaleOutfit:    pick(upd.MaleOutfit, job.MaleOutfit),
		FemaleOutfit:  pick(upd.FemaleOutfit, job.FemaleOutfit),
		Note:          pick(upd.Note, job.Note),
		Status:        models.EditRequestPending,
	}
}
