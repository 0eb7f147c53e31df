package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lovihub/lovi-backend/models"
)

func newTestNotifier(env *testEnv, sender *recordingSender) *NotificationService {
	return NewNotificationService(sender, env.users, env.businesses, 0)
}

func TestNotifyCustomersAboutActivationFansOut(t *testing.T) {
	env := newTestEnv()
	sender := &recordingSender{}
	notifier := newTestNotifier(env, sender)
	business := env.addBusiness()
	alice := env.addUser(11)
	bob := env.addUser(22)
	deal := env.addDeal(business.ID, 2)
	deal.Business = *business

	bookings := []models.Booking{
		{ID: 1, UserID: alice.ID, DealID: deal.ID, Code: "LOVY-0001", ExpiresAt: env.clock.Now().AddDate(0, 0, 14)},
		{ID: 2, UserID: bob.ID, DealID: deal.ID, Code: "LOVY-0002", ExpiresAt: env.clock.Now().AddDate(0, 0, 14)},
	}
	notifier.NotifyCustomersAboutActivation(deal, bookings)

	require.Equal(t, 2, sender.count())
	assert.Equal(t, []int64{11, 22}, sender.chats)
	assert.Contains(t, sender.messages[0], "LOVY-0001")
	assert.Contains(t, sender.messages[0], "15.06.2025")
	assert.Contains(t, sender.messages[0], "40%")
}

func TestNotifyCustomersSkipsUnknownUsers(t *testing.T) {
	env := newTestEnv()
	sender := &recordingSender{}
	notifier := newTestNotifier(env, sender)
	business := env.addBusiness()
	bob := env.addUser(22)
	deal := env.addDeal(business.ID, 2)

	bookings := []models.Booking{
		{ID: 1, UserID: 999, DealID: deal.ID, Code: "LOVY-0001"},
		{ID: 2, UserID: bob.ID, DealID: deal.ID, Code: "LOVY-0002"},
	}
	notifier.NotifyCustomersAboutActivation(deal, bookings)

	require.Equal(t, 1, sender.count(), "an unresolvable recipient never blocks the rest")
	assert.Equal(t, []int64{22}, sender.chats)
}

func TestNotifyBusinessAboutNewParticipantRateLimit(t *testing.T) {
	env := newTestEnv()
	sender := &recordingSender{}
	notifier := newTestNotifier(env, sender)
	business := env.addBusiness()
	deal := env.addDeal(business.ID, 10)

	// 3 of 10: not a milestone, 7 remaining. Suppressed.
	deal.CurrentPeople = 3
	notifier.NotifyBusinessAboutNewParticipant(deal)
	assert.Equal(t, 0, sender.count())

	// 5 of 10: milestone.
	deal.CurrentPeople = 5
	notifier.NotifyBusinessAboutNewParticipant(deal)
	require.Equal(t, 1, sender.count())
	assert.Contains(t, sender.messages[0], "5 of 10")

	// 8 of 10: only 2 to go.
	deal.CurrentPeople = 8
	notifier.NotifyBusinessAboutNewParticipant(deal)
	require.Equal(t, 2, sender.count())
	assert.Contains(t, sender.messages[1], "Only 2 to go")
}

func TestNotifyBusinessAboutActivation(t *testing.T) {
	env := newTestEnv()
	sender := &recordingSender{}
	notifier := newTestNotifier(env, sender)
	business := env.addBusiness()
	deal := env.addDeal(business.ID, 5)

	notifier.NotifyBusinessAboutActivation(deal, 5)

	require.Equal(t, 1, sender.count())
	assert.Equal(t, []int64{business.ChatID}, sender.chats)
	assert.Contains(t, sender.messages[0], "5 participants")
}
