package db

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/google/uuid"
	rows "github.com/stafflink/stafflink/internal/agency/db/models"
	e "github.com/stafflink/stafflink/internal/agency/errors"
	"github.com/stafflink/stafflink/internal/agency/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJob(owner uuid.UUID) *models.Job {
	return &models.Job{
		ID:            uuid.New(),
		PartnerID:     owner,
		GroupName:     "Summit Group",
		StartDate:     "10/06/2025",
		EndDate:       "12/06/2025",
		HotelName:     "Grand Plaza",
		Accommodation: "Half board",
		MaleOutfit:    "Suit",
		FemaleOutfit:  "Dress",
		MaleHosts:     2,
		FemaleHosts:   1,
		Status:        models.StatusNewJob,
	}
}

func TestCreateJobAndGet(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	job := testJob(uuid.New())
	require.NoError(t, repo.CreateJob(ctx, job), "CreateJob should succeed")

	got, err := repo.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, job.GroupName, got.GroupName)
	assert.Equal(t, "10/06/2025", got.StartDate)
	assert.Equal(t, "12/06/2025", got.EndDate)
	assert.Equal(t, models.StatusNewJob, got.Status)
	assert.Equal(t, 0, got.DeleteRequest)
}

func TestGetJobNotFound(t *testing.T) {
	repo := SetupTestDB(t)

	_, err := repo.GetJob(context.Background(), uuid.New())
	assert.ErrorIs(t, err, e.ErrNotFound)
}

// Legacy rows carry NULL in delete_request; listing must heal them to a
// persisted 0 so callers only ever see 0/1.
func TestListJobsByOwnerHealsDeleteRequest(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()
	owner := uuid.New()
	jobID := uuid.New()

	err := repo.Exec(ctx,
		"INSERT INTO jobs (id, partner_id, group_name, start_date, end_date, status, delete_request) VALUES (?, ?, ?, ?, ?, ?, NULL)",
		jobID, owner, "Legacy Group", "01/05/2025", "02/05/2025", models.StatusNewJob,
	)
	require.NoError(t, err)

	jobs, err := repo.ListJobsByOwner(ctx, owner)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, 0, jobs[0].DeleteRequest)

	// The heal must be persisted, not just shown.
	var raw sql.NullInt64
	err = repo.db.Raw("SELECT delete_request FROM jobs WHERE id = ?", jobID).Scan(&raw).Error
	require.NoError(t, err)
	require.True(t, raw.Valid, "delete_request should no longer be NULL")
	assert.EqualValues(t, 0, raw.Int64)
}

func TestSetDeleteRequest(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	job := testJob(uuid.New())
	require.NoError(t, repo.CreateJob(ctx, job))

	require.NoError(t, repo.SetDeleteRequest(ctx, job.ID))

	got, err := repo.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.DeleteRequest)

	assert.ErrorIs(t, repo.SetDeleteRequest(ctx, uuid.New()), e.ErrNotFound)
}

func TestUpdateHostBaseline(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	job := testJob(uuid.New())
	require.NoError(t, repo.CreateJob(ctx, job))

	require.NoError(t, repo.UpdateHostBaseline(ctx, job.ID, 5, 4))

	got, err := repo.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.MaleHosts)
	assert.Equal(t, 4, got.FemaleHosts)
}

func TestExpandRange(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()
	jobID := uuid.New()

	require.NoError(t, repo.ExpandRange(ctx, jobID, "01/01/2024", "03/01/2024", 2, 3))

	entries, err := repo.FetchHostCounts(ctx, jobID)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, []string{"01/01/2024", "02/01/2024", "03/01/2024"},
		[]string{entries[0].Date, entries[1].Date, entries[2].Date})
	for _, entry := range entries {
		assert.Equal(t, 2, entry.MaleHosts)
		assert.Equal(t, 3, entry.FemaleHosts)
		assert.Equal(t, 5, entry.TotalHosts)
	}
}

func TestRewriteCountsPreservesDateSet(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()
	jobID := uuid.New()

	require.NoError(t, repo.ExpandRange(ctx, jobID, "10/06/2025", "12/06/2025", 2, 1))
	require.NoError(t, repo.RewriteCounts(ctx, jobID, 7, 6, "01/01/2030", "05/01/2030"))

	entries, err := repo.FetchHostCounts(ctx, jobID)
	require.NoError(t, err)
	// Counts change, the date set does not.
	require.Len(t, entries, 3)
	assert.Equal(t, "10/06/2025", entries[0].Date)
	for _, entry := range entries {
		assert.Equal(t, 7, entry.MaleHosts)
		assert.Equal(t, 6, entry.FemaleHosts)
		assert.Equal(t, 13, entry.TotalHosts)
	}
}

func TestRewriteCountsRegeneratesWhenEmpty(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()
	jobID := uuid.New()

	require.NoError(t, repo.RewriteCounts(ctx, jobID, 1, 2, "01/03/2025", "02/03/2025"))

	entries, err := repo.FetchHostCounts(ctx, jobID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "01/03/2025", entries[0].Date)
	assert.Equal(t, "02/03/2025", entries[1].Date)
}

func TestRewriteCountsFallsBackOnBadDates(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()
	jobID := uuid.New()

	require.NoError(t, repo.RewriteCounts(ctx, jobID, 1, 1, "garbage", "also garbage"))

	entries, err := repo.FetchHostCounts(ctx, jobID)
	require.NoError(t, err)
	// Two-day today/tomorrow fallback.
	assert.Len(t, entries, 2)
}

func TestFetchHostCountsChronologicalOrder(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()
	jobID := uuid.New()

	// Inserted out of order and crossing a year boundary: a lexical sort
	// of DD/MM/YYYY would get this wrong.
	for _, day := range []string{"02/01/2025", "30/12/2024", "01/01/2025", "31/12/2024"} {
		require.NoError(t, repo.db.Create(&rows.HostCount{
			JobID: jobID, Date: day, MaleHosts: 1, FemaleHosts: 1,
		}).Error)
	}

	entries, err := repo.FetchHostCounts(ctx, jobID)
	require.NoError(t, err)
	got := make([]string, len(entries))
	for i, entry := range entries {
		got[i] = entry.Date
	}
	assert.Equal(t, []string{"30/12/2024", "31/12/2024", "01/01/2025", "02/01/2025"}, got)
}

func TestEditRequests(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()
	jobID := uuid.New()
	partner := uuid.New()

	latest, err := repo.LatestEditRequest(ctx, jobID)
	require.NoError(t, err)
	assert.Nil(t, latest, "no request yet")

	for i := 0; i < 2; i++ {
		err = repo.InsertEditRequest(ctx, &models.EditRequest{
			ID:        uuid.New(),
			JobID:     jobID,
			PartnerID: partner,
			GroupName: fmt.Sprintf("Group %d", i),
			StartDate: "10/06/2025",
			EndDate:   "12/06/2025",
			Status:    models.EditRequestPending,
		})
		require.NoError(t, err)
	}

	latest, err = repo.LatestEditRequest(ctx, jobID)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, models.EditRequestPending, latest.Status)

	all, err := repo.ListEditRequests(ctx, jobID)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestMessages(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()
	userID := uuid.New()
	msgID := uuid.New()

	require.NoError(t, repo.db.Create(&rows.Message{
		ID: msgID, UserID: userID, Subject: "Job approved", Body: "See panel",
	}).Error)

	msgs, err := repo.ListMessages(ctx, userID)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, 0, msgs[0].IsRead)

	require.NoError(t, repo.MarkMessageRead(ctx, msgID))
	msg, err := repo.GetMessage(ctx, msgID)
	require.NoError(t, err)
	assert.Equal(t, 1, msg.IsRead)

	assert.ErrorIs(t, repo.MarkMessageRead(ctx, uuid.New()), e.ErrNotFound)
}

func TestDirectory(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, repo.db.Create(&rows.User{
		ID: userID, Username: "ayse", Email: "ayse@example.com",
		DisplayName: "Ayse K", Agency: "Aegean Tours",
	}).Error)

	agency, err := repo.GetAgency(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "Aegean Tours", agency)

	name, err := repo.GetDisplayName(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "Ayse K", name)

	newName := "Ayse Kaya"
	require.NoError(t, repo.UpdateProfile(ctx, userID, &models.ProfileUpdate{DisplayName: &newName}))

	profile, err := repo.GetProfile(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "Ayse Kaya", profile.DisplayName)

	_, err = repo.GetAgency(ctx, uuid.New())
	assert.ErrorIs(t, err, e.ErrNotFound)
}

func TestGetOptions(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.db.Create(&rows.Option{
		Name: "hotel_names", Value: "Grand Plaza, Sea View , ,Marina",
	}).Error)

	opts, err := repo.GetOptions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Grand Plaza", "Sea View", "Marina"}, opts.Hotels)
	assert.Empty(t, opts.Accommodations)
}

func TestWithTransactionRollback(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	job := testJob(uuid.New())
	err := repo.WithTransaction(ctx, func(tx *Repository) error {
		if err := tx.CreateJob(ctx, job); err != nil {
			return err
		}
		if err := tx.ExpandRange(ctx, job.ID, job.StartDate, job.EndDate, 2, 1); err != nil {
			return err
		}
		return fmt.Errorf("boom")
	})
	require.Error(t, err)

	// Neither the job nor any ledger row may survive.
	_, err = repo.GetJob(ctx, job.ID)
	assert.ErrorIs(t, err, e.ErrNotFound)

	entries, err := repo.FetchHostCounts(ctx, job.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
