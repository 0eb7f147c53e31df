package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lovihub/lovi-backend/models"
)

func TestBookingCreateRejectsDuplicates(t *testing.T) {
	repo := NewInMemoryBookingRepository()
	require.NoError(t, repo.Create(&models.Booking{UserID: 1, DealID: 1, Code: "LOVY-0001"}))

	err := repo.Create(&models.Booking{UserID: 2, DealID: 2, Code: "LOVY-0001"})
	assert.Equal(t, ErrDuplicate, err, "reused code")

	err = repo.Create(&models.Booking{UserID: 1, DealID: 1, Code: "LOVY-0002"})
	assert.Equal(t, ErrDuplicate, err, "second join on the same deal")
}

func TestBookingDeleteFreesSlot(t *testing.T) {
	repo := NewInMemoryBookingRepository()
	booking := &models.Booking{UserID: 1, DealID: 1, Code: "LOVY-0001"}
	require.NoError(t, repo.Create(booking))
	require.NoError(t, repo.Delete(booking.ID))

	// Both the code and the (user, deal) pair are free again.
	require.NoError(t, repo.Create(&models.Booking{UserID: 1, DealID: 1, Code: "LOVY-0001"}))

	assert.Equal(t, ErrNotFound, repo.Delete(999))
}

func TestSetBusinessConfirmedRequiresActivated(t *testing.T) {
	repo := NewInMemoryBookingRepository()
	booking := &models.Booking{UserID: 1, DealID: 1, Code: "LOVY-0001", Status: models.BookingStatusPending}
	require.NoError(t, repo.Create(booking))

	_, err := repo.SetBusinessConfirmed(booking.ID, time.Now())
	assert.Equal(t, ErrStaleTransition, err)

	// The row is untouched.
	reloaded, err := repo.GetByID(booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusPending, reloaded.Status)
	assert.False(t, reloaded.BusinessConfirmed)
	assert.Nil(t, reloaded.BusinessConfirmedAt)
}

func TestSetUserConfirmedRequiresUsed(t *testing.T) {
	repo := NewInMemoryBookingRepository()
	booking := &models.Booking{UserID: 1, DealID: 1, Code: "LOVY-0001", Status: models.BookingStatusActivated}
	require.NoError(t, repo.Create(booking))

	_, err := repo.SetUserConfirmed(booking.ID, time.Now())
	assert.Equal(t, ErrStaleTransition, err)

	at := time.Now()
	used, err := repo.SetBusinessConfirmed(booking.ID, at)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusUsed, used.Status)

	confirmed, err := repo.SetUserConfirmed(booking.ID, at)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusConfirmed, confirmed.Status)
	assert.True(t, confirmed.UserConfirmed)

	// A second confirm races against nothing: the status already moved on.
	_, err = repo.SetUserConfirmed(booking.ID, at)
	assert.Equal(t, ErrStaleTransition, err)
}
