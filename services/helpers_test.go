package services

import (
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/lovihub/lovi-backend/models"
	"github.com/lovihub/lovi-backend/repository"
)

// recordingNotifier captures notification calls for assertions.
type recordingNotifier struct {
	mu                    sync.Mutex
	customerActivations   int
	businessActivations   int
	newParticipants       int
	redemptionConfirms    int
	reviewRequests        []uint
	expiryReminders       []uint
	lastActivatedBookings []models.Booking
}

func (n *recordingNotifier) NotifyCustomersAboutActivation(deal *models.Deal, bookings []models.Booking) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.customerActivations++
	n.lastActivatedBookings = bookings
}

func (n *recordingNotifier) NotifyBusinessAboutActivation(deal *models.Deal, participants int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.businessActivations++
}

func (n *recordingNotifier) NotifyBusinessAboutNewParticipant(deal *models.Deal) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.newParticipants++
}

func (n *recordingNotifier) NotifyCustomerOfRedemptionConfirmation(booking *models.Booking, deal *models.Deal) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.redemptionConfirms++
}

func (n *recordingNotifier) SendReviewRequest(booking *models.Booking, deal *models.Deal) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.reviewRequests = append(n.reviewRequests, booking.ID)
}

func (n *recordingNotifier) SendCodeExpiryReminder(booking *models.Booking, deal *models.Deal) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.expiryReminders = append(n.expiryReminders, booking.ID)
}

// recordingSender captures raw outbound messages for notifier tests.
type recordingSender struct {
	mu       sync.Mutex
	messages []string
	chats    []int64
}

func (s *recordingSender) Send(chatID int64, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chats = append(s.chats, chatID)
	s.messages = append(s.messages, text)
	return nil
}

func (s *recordingSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

// testEnv bundles the in-memory repositories and wired services every
// service test needs.
type testEnv struct {
	deals      *repository.InMemoryDealRepository
	bookings   *repository.InMemoryBookingRepository
	reports    *repository.InMemoryReportRepository
	reviews    *repository.InMemoryReviewRepository
	users      *repository.InMemoryUserRepository
	businesses *repository.InMemoryBusinessRepository
	complaints *repository.InMemoryComplaintRepository
	catalog    *repository.InMemoryCatalogRepository

	notifier *recordingNotifier
	clock    *FixedClock

	engine    *DealService
	ledger    *BookingService
	antifraud *AntifraudService
	merchant  *BusinessService
}

func newTestEnv() *testEnv {
	env := &testEnv{
		deals:      repository.NewInMemoryDealRepository(),
		bookings:   repository.NewInMemoryBookingRepository(),
		reports:    repository.NewInMemoryReportRepository(),
		reviews:    repository.NewInMemoryReviewRepository(),
		users:      repository.NewInMemoryUserRepository(),
		businesses: repository.NewInMemoryBusinessRepository(),
		complaints: repository.NewInMemoryComplaintRepository(),
		catalog:    repository.NewInMemoryCatalogRepository(),
		notifier:   &recordingNotifier{},
		clock:      &FixedClock{Instant: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
	}
	env.catalog.Cities = []models.City{{Model: gorm.Model{ID: 1}, Name: "Almaty", Slug: "almaty", IsActive: true}}
	env.catalog.Categories = []models.Category{{Model: gorm.Model{ID: 1}, Name: "Coffee", Slug: "coffee"}}
	env.engine = NewDealService(env.deals, env.bookings, env.reports, env.businesses,
		env.notifier, nil, env.clock, 0.15)
	env.ledger = NewBookingService(env.bookings, env.deals, env.users, env.businesses,
		env.reviews, env.engine, env.notifier, env.clock, "LOVY", 14)
	env.antifraud = NewAntifraudService(env.businesses, env.complaints, env.reports)
	env.merchant = NewBusinessService(env.businesses, env.catalog, env.deals, env.engine,
		env.ledger, env.antifraud)
	return env
}

func (env *testEnv) addBusiness() *models.Business {
	business := &models.Business{
		ChatID:     1000,
		Name:       "Coffee Corner",
		IsActive:   true,
		IsCurrent:  true,
		TrustScore: 100,
	}
	_ = env.businesses.Create(business)
	return business
}

func (env *testEnv) addUser(chatID int64) *models.User {
	user := &models.User{ChatID: chatID, FirstName: "Test"}
	_ = env.users.Upsert(user)
	return user
}

func (env *testEnv) addDeal(businessID uint, minPeople int) *models.Deal {
	deal := &models.Deal{
		BusinessID:    businessID,
		Title:         "Morning coffee special",
		OriginalPrice: 500,
		DiscountPrice: 300,
		MinPeople:     minPeople,
		ValidityDays:  14,
		Status:        models.DealStatusCollecting,
		ExpiresAt:     env.clock.Now().AddDate(0, 0, 7),
	}
	_ = env.deals.Create(deal)
	return deal
}
