package donations

import (
	"sync"
	"testing"

	"github.com/blooner/bloodlink/internal/pkg/pagination"
	"github.com/blooner/bloodlink/internal/testutil"
	apperrors "github.com/blooner/bloodlink/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newRequest(requester string) *DonationRequest {
	return &DonationRequest{
		RequesterName:     "Rahim",
		RequesterEmail:    requester,
		RecipientName:     "Karim",
		RecipientDistrict: "Dhaka",
		RecipientUpazila:  "Mirpur",
		HospitalName:      "DMCH",
		FullAddress:       "Bakshibazar",
		BloodGroup:        "B+",
		DonationDate:      "2026-11-02",
		DonationTime:      "09:00",
	}
}

func TestRepositoryAssignIsCompareAndSwap(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewRepository(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	dr := newRequest("r@x.com")
	require.NoError(t, repo.Create(ctx, dr))
	assert.Equal(t, StatusPending, dr.Status)

	const donors = 6
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		winners   int
		conflicts int
	)
	for i := 0; i < donors; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.Assign(ctx, dr.ID, "Donor", "donor@x.com")
			mu.Lock()
			defer mu.Unlock()
			switch apperrors.KindOf(err) {
			case apperrors.KindConflict:
				conflicts++
			default:
				if err == nil {
					winners++
				} else {
					t.Errorf("assign %d: %v", i, err)
				}
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, winners)
	assert.Equal(t, donors-1, conflicts)

	got, err := repo.FindByID(ctx, dr.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, got.Status)
	assert.Equal(t, "donor@x.com", got.DonorEmail)

	_, err = repo.Assign(ctx, primitive.NewObjectID(), "x", "x@x.com")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestRepositoryUpdateStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewRepository(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	dr := newRequest("r@x.com")
	require.NoError(t, repo.Create(ctx, dr))

	_, err := repo.UpdateStatus(ctx, dr.ID, StatusDone)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))

	for _, next := range []Status{StatusInProgress, StatusDone} {
		got, err := repo.UpdateStatus(ctx, dr.ID, next)
		require.NoError(t, err)
		assert.Equal(t, next, got.Status)
	}

	_, err = repo.UpdateStatus(ctx, dr.ID, StatusCanceled)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
}

func TestRepositoryListPagination(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewRepository(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for i := 0; i < 7; i++ {
		require.NoError(t, repo.Create(ctx, newRequest("mine@x.com")))
	}
	require.NoError(t, repo.Create(ctx, newRequest("theirs@x.com")))

	page := pagination.FromRequest("3", "3")
	items, total, err := repo.List(ctx, ListFilter{RequesterEmail: "mine@x.com"}, page)
	require.NoError(t, err)
	assert.Equal(t, int64(7), total)
	assert.Len(t, items, 1)

	items, total, err = repo.List(ctx, ListFilter{Status: StatusPending}, pagination.FromRequest("1", "5"))
	require.NoError(t, err)
	assert.Equal(t, int64(8), total)
	assert.Len(t, items, 5)

	pending, err := repo.ListPending(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 8)
}

func TestRepositoryUpdateFieldsAndDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewRepository(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	dr := newRequest("r@x.com")
	require.NoError(t, repo.Create(ctx, dr))

	got, err := repo.UpdateFields(ctx, dr.ID, map[string]string{"hospitalName": "Square"})
	require.NoError(t, err)
	assert.Equal(t, "Square", got.HospitalName)
	assert.Equal(t, StatusPending, got.Status)

	require.NoError(t, repo.Delete(ctx, dr.ID))
	assert.ErrorIs(t, repo.Delete(ctx, dr.ID), apperrors.ErrNotFound)
}
