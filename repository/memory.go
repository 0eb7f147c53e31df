package repository

import (
	"sort"
	"sync"
	"time"

	"github.com/lovihub/lovi-backend/models"
	"github.com/lovihub/lovi-backend/utils"
)

// InMemoryDealRepository is a map-backed DealRepository for tests and
// local development. All methods are safe for concurrent use.
type InMemoryDealRepository struct {
	mu     sync.Mutex
	nextID uint
	deals  map[uint]models.Deal
}

// NewInMemoryDealRepository creates an empty in-memory deal repository.
func NewInMemoryDealRepository() *InMemoryDealRepository {
	return &InMemoryDealRepository{nextID: 1, deals: make(map[uint]models.Deal)}
}

func (r *InMemoryDealRepository) Create(deal *models.Deal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	deal.ID = r.nextID
	r.nextID++
	if deal.Status == "" {
		deal.Status = models.DealStatusCollecting
	}
	r.deals[deal.ID] = *deal
	return nil
}

func (r *InMemoryDealRepository) GetByID(id uint) (*models.Deal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	deal, ok := r.deals[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &deal, nil
}

func (r *InMemoryDealRepository) GetByBusiness(businessID uint) ([]models.Deal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var deals []models.Deal
	for _, deal := range r.deals {
		if deal.BusinessID == businessID {
			deals = append(deals, deal)
		}
	}
	sortDealsByID(deals)
	return deals, nil
}

func (r *InMemoryDealRepository) ListActive(cityID uint, categorySlug string, limit int) ([]models.Deal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var deals []models.Deal
	for _, deal := range r.deals {
		if deal.Status == models.DealStatusCollecting || deal.Status == models.DealStatusActivated {
			deals = append(deals, deal)
		}
	}
	sortDealsByID(deals)
	if limit > 0 && len(deals) > limit {
		deals = deals[:limit]
	}
	return deals, nil
}

func (r *InMemoryDealRepository) ListHot(cityID uint, limit int) ([]models.Deal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var deals []models.Deal
	for _, deal := range r.deals {
		if deal.Status == models.DealStatusCollecting {
			deals = append(deals, deal)
		}
	}
	sort.Slice(deals, func(i, j int) bool { return deals[i].CurrentPeople > deals[j].CurrentPeople })
	if limit > 0 && len(deals) > limit {
		deals = deals[:limit]
	}
	return deals, nil
}

func (r *InMemoryDealRepository) ListCollectingAboveThreshold() ([]models.Deal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var deals []models.Deal
	for _, deal := range r.deals {
		if deal.Status == models.DealStatusCollecting && deal.CurrentPeople >= deal.MinPeople {
			deals = append(deals, deal)
		}
	}
	sortDealsByID(deals)
	return deals, nil
}

func (r *InMemoryDealRepository) ListPastDeadlineNonTerminal(now time.Time) ([]models.Deal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var deals []models.Deal
	for _, deal := range r.deals {
		if (deal.Status == models.DealStatusCollecting || deal.Status == models.DealStatusActivated) &&
			deal.ExpiresAt.Before(now) {
			deals = append(deals, deal)
		}
	}
	sortDealsByID(deals)
	return deals, nil
}

func (r *InMemoryDealRepository) TransitionStatus(id uint, from, to string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	deal, ok := r.deals[id]
	if !ok || deal.Status != from {
		return false, nil
	}
	deal.Status = to
	switch to {
	case models.DealStatusActivated:
		deal.ActivatedAt = &at
	case models.DealStatusCompleted:
		deal.CompletedAt = &at
	}
	r.deals[id] = deal
	return true, nil
}

func (r *InMemoryDealRepository) IncrementParticipants(id uint) (*models.Deal, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	deal, ok := r.deals[id]
	if !ok || deal.Status != models.DealStatusCollecting {
		return nil, false, nil
	}
	deal.CurrentPeople++
	r.deals[id] = deal
	return &deal, true, nil
}

func sortDealsByID(deals []models.Deal) {
	sort.Slice(deals, func(i, j int) bool { return deals[i].ID < deals[j].ID })
}

// InMemoryBookingRepository is a map-backed BookingRepository. Uniqueness
// of codes and of (user, deal) pairs is enforced the same way the database
// constraints do it.
type InMemoryBookingRepository struct {
	mu       sync.Mutex
	nextID   uint
	bookings map[uint]models.Booking
}

// NewInMemoryBookingRepository creates an empty in-memory booking repository.
func NewInMemoryBookingRepository() *InMemoryBookingRepository {
	return &InMemoryBookingRepository{nextID: 1, bookings: make(map[uint]models.Booking)}
}

func (r *InMemoryBookingRepository) Create(booking *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking.Code = utils.NormalizeCode(booking.Code)
	for _, existing := range r.bookings {
		if existing.Code == booking.Code {
			return ErrDuplicate
		}
		if existing.UserID == booking.UserID && existing.DealID == booking.DealID {
			return ErrDuplicate
		}
	}
	booking.ID = r.nextID
	r.nextID++
	if booking.Status == "" {
		booking.Status = models.BookingStatusPending
	}
	r.bookings[booking.ID] = *booking
	return nil
}

func (r *InMemoryBookingRepository) Delete(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[id]; !ok {
		return ErrNotFound
	}
	delete(r.bookings, id)
	return nil
}

func (r *InMemoryBookingRepository) GetByID(id uint) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &booking, nil
}

func (r *InMemoryBookingRepository) GetByCode(code string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	normalized := utils.NormalizeCode(code)
	for _, booking := range r.bookings {
		if booking.Code == normalized {
			b := booking
			return &b, nil
		}
	}
	return nil, ErrNotFound
}

func (r *InMemoryBookingRepository) GetByUserAndDeal(userID, dealID uint) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, booking := range r.bookings {
		if booking.UserID == userID && booking.DealID == dealID {
			b := booking
			return &b, nil
		}
	}
	return nil, ErrNotFound
}

func (r *InMemoryBookingRepository) ListByDeal(dealID uint) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var bookings []models.Booking
	for _, booking := range r.bookings {
		if booking.DealID == dealID {
			bookings = append(bookings, booking)
		}
	}
	sortBookingsByID(bookings)
	return bookings, nil
}

func (r *InMemoryBookingRepository) ListByUser(userID uint, statuses ...string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var bookings []models.Booking
	for _, booking := range r.bookings {
		if booking.UserID != userID {
			continue
		}
		if len(statuses) > 0 && !containsStatus(statuses, booking.Status) {
			continue
		}
		bookings = append(bookings, booking)
	}
	sortBookingsByID(bookings)
	return bookings, nil
}

func (r *InMemoryBookingRepository) TransitionStatus(id uint, from, to string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.bookings[id]
	if !ok || booking.Status != from {
		return false, nil
	}
	booking.Status = to
	r.bookings[id] = booking
	return true, nil
}

func (r *InMemoryBookingRepository) ActivateForDeal(dealID uint) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var activated []models.Booking
	for id, booking := range r.bookings {
		if booking.DealID == dealID && booking.Status == models.BookingStatusPending {
			booking.Status = models.BookingStatusActivated
			r.bookings[id] = booking
			activated = append(activated, booking)
		}
	}
	sortBookingsByID(activated)
	return activated, nil
}

func (r *InMemoryBookingRepository) CancelForDeal(dealID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, booking := range r.bookings {
		if booking.DealID == dealID &&
			(booking.Status == models.BookingStatusPending || booking.Status == models.BookingStatusActivated) {
			booking.Status = models.BookingStatusCancelled
			r.bookings[id] = booking
		}
	}
	return nil
}

func (r *InMemoryBookingRepository) SetBusinessConfirmed(id uint, at time.Time) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	if booking.Status != models.BookingStatusActivated {
		return nil, ErrStaleTransition
	}
	booking.BusinessConfirmed = true
	booking.BusinessConfirmedAt = &at
	booking.Status = models.BookingStatusUsed
	r.bookings[id] = booking
	return &booking, nil
}

func (r *InMemoryBookingRepository) SetUserConfirmed(id uint, at time.Time) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	if booking.Status != models.BookingStatusUsed {
		return nil, ErrStaleTransition
	}
	booking.UserConfirmed = true
	booking.UserConfirmedAt = &at
	booking.Status = models.BookingStatusConfirmed
	r.bookings[id] = booking
	return &booking, nil
}

func (r *InMemoryBookingRepository) ListUsedAwaitingReview(olderThan time.Time) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var bookings []models.Booking
	for _, booking := range r.bookings {
		if booking.Status == models.BookingStatusUsed && !booking.ReviewRequested &&
			booking.BusinessConfirmedAt != nil && booking.BusinessConfirmedAt.Before(olderThan) {
			bookings = append(bookings, booking)
		}
	}
	sortBookingsByID(bookings)
	return bookings, nil
}

func (r *InMemoryBookingRepository) ListActivatedAwaitingReminder(windowStart, windowEnd time.Time) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var bookings []models.Booking
	for _, booking := range r.bookings {
		if booking.Status == models.BookingStatusActivated && !booking.ReminderSent &&
			booking.ExpiresAt.After(windowStart) && !booking.ExpiresAt.After(windowEnd) {
			bookings = append(bookings, booking)
		}
	}
	sortBookingsByID(bookings)
	return bookings, nil
}

func (r *InMemoryBookingRepository) MarkReviewRequested(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.bookings[id]
	if !ok {
		return ErrNotFound
	}
	booking.ReviewRequested = true
	r.bookings[id] = booking
	return nil
}

func (r *InMemoryBookingRepository) MarkReminderSent(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.bookings[id]
	if !ok {
		return ErrNotFound
	}
	booking.ReminderSent = true
	r.bookings[id] = booking
	return nil
}

func sortBookingsByID(bookings []models.Booking) {
	sort.Slice(bookings, func(i, j int) bool { return bookings[i].ID < bookings[j].ID })
}

func containsStatus(statuses []string, status string) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

// InMemoryReportRepository is a map-backed ReportRepository.
type InMemoryReportRepository struct {
	mu      sync.Mutex
	nextID  uint
	reports map[uint]models.BusinessReport // keyed by deal ID
}

// NewInMemoryReportRepository creates an empty in-memory report repository.
func NewInMemoryReportRepository() *InMemoryReportRepository {
	return &InMemoryReportRepository{nextID: 1, reports: make(map[uint]models.BusinessReport)}
}

func (r *InMemoryReportRepository) GetByDeal(dealID uint) (*models.BusinessReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	report, ok := r.reports[dealID]
	if !ok {
		return nil, ErrNotFound
	}
	return &report, nil
}

func (r *InMemoryReportRepository) ListByBusiness(businessID uint) ([]models.BusinessReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var reports []models.BusinessReport
	for _, report := range r.reports {
		if report.BusinessID == businessID {
			reports = append(reports, report)
		}
	}
	sort.Slice(reports, func(i, j int) bool { return reports[i].ID < reports[j].ID })
	return reports, nil
}

func (r *InMemoryReportRepository) Upsert(report *models.BusinessReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.reports[report.DealID]
	if ok {
		existing.TotalBookings = report.TotalBookings
		existing.CodesUsed = report.CodesUsed
		existing.CodesConfirmed = report.CodesConfirmed
		existing.Revenue = report.Revenue
		existing.Commission = report.Commission
		r.reports[report.DealID] = existing
		*report = existing
		return nil
	}
	report.ID = r.nextID
	r.nextID++
	r.reports[report.DealID] = *report
	return nil
}

// InMemoryReviewRepository is a slice-backed ReviewRepository.
type InMemoryReviewRepository struct {
	mu      sync.Mutex
	nextID  uint
	Reviews []models.Review
}

// NewInMemoryReviewRepository creates an empty in-memory review repository.
func NewInMemoryReviewRepository() *InMemoryReviewRepository {
	return &InMemoryReviewRepository{nextID: 1}
}

func (r *InMemoryReviewRepository) Create(review *models.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	review.ID = r.nextID
	r.nextID++
	r.Reviews = append(r.Reviews, *review)
	return nil
}

func (r *InMemoryReviewRepository) ListByBusiness(businessID uint, limit int) ([]models.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var reviews []models.Review
	for _, review := range r.Reviews {
		if review.BusinessID == businessID {
			reviews = append(reviews, review)
		}
	}
	if limit > 0 && len(reviews) > limit {
		reviews = reviews[:limit]
	}
	return reviews, nil
}

// InMemoryUserRepository is a map-backed UserRepository.
type InMemoryUserRepository struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]models.User
}

// NewInMemoryUserRepository creates an empty in-memory user repository.
func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{nextID: 1, users: make(map[uint]models.User)}
}

func (r *InMemoryUserRepository) GetByID(id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (r *InMemoryUserRepository) GetByChatID(chatID int64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.ChatID == chatID {
			u := user
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (r *InMemoryUserRepository) Upsert(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, existing := range r.users {
		if existing.ChatID == user.ChatID {
			existing.Username = user.Username
			existing.FirstName = user.FirstName
			r.users[id] = existing
			*user = existing
			return nil
		}
	}
	user.ID = r.nextID
	r.nextID++
	r.users[user.ID] = *user
	return nil
}

func (r *InMemoryUserRepository) UpdateCity(chatID int64, cityID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, user := range r.users {
		if user.ChatID == chatID {
			user.CityID = cityID
			r.users[id] = user
			return nil
		}
	}
	return ErrNotFound
}

func (r *InMemoryUserRepository) UpdateState(id uint, state models.ConversationState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return ErrNotFound
	}
	user.State = state
	r.users[id] = user
	return nil
}

func (r *InMemoryUserRepository) AddBonusPoints(id uint, points int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return ErrNotFound
	}
	user.BonusPoints += points
	r.users[id] = user
	return nil
}

func (r *InMemoryUserRepository) IncrementStats(id uint, saved float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return ErrNotFound
	}
	user.DealsUsed++
	user.TotalSaved += saved
	r.users[id] = user
	return nil
}

// InMemoryBusinessRepository is a map-backed BusinessRepository.
type InMemoryBusinessRepository struct {
	mu         sync.Mutex
	nextID     uint
	businesses map[uint]models.Business
}

// NewInMemoryBusinessRepository creates an empty in-memory business repository.
func NewInMemoryBusinessRepository() *InMemoryBusinessRepository {
	return &InMemoryBusinessRepository{nextID: 1, businesses: make(map[uint]models.Business)}
}

func (r *InMemoryBusinessRepository) Create(business *models.Business) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	business.ID = r.nextID
	r.nextID++
	r.businesses[business.ID] = *business
	return nil
}

func (r *InMemoryBusinessRepository) Update(business *models.Business) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.businesses[business.ID]; !ok {
		return ErrNotFound
	}
	r.businesses[business.ID] = *business
	return nil
}

func (r *InMemoryBusinessRepository) GetByID(id uint) (*models.Business, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	business, ok := r.businesses[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &business, nil
}

func (r *InMemoryBusinessRepository) GetCurrentByChatID(chatID int64) (*models.Business, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, business := range r.businesses {
		if business.ChatID == chatID && business.IsCurrent {
			b := business
			return &b, nil
		}
	}
	return nil, ErrNotFound
}

func (r *InMemoryBusinessRepository) ListByChatID(chatID int64) ([]models.Business, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var businesses []models.Business
	for _, business := range r.businesses {
		if business.ChatID == chatID {
			businesses = append(businesses, business)
		}
	}
	sort.Slice(businesses, func(i, j int) bool { return businesses[i].ID < businesses[j].ID })
	return businesses, nil
}

func (r *InMemoryBusinessRepository) ListActive() ([]models.Business, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var businesses []models.Business
	for _, business := range r.businesses {
		if business.IsActive {
			businesses = append(businesses, business)
		}
	}
	sort.Slice(businesses, func(i, j int) bool { return businesses[i].ID < businesses[j].ID })
	return businesses, nil
}

func (r *InMemoryBusinessRepository) SetCurrent(chatID int64, businessID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	target, ok := r.businesses[businessID]
	if !ok || target.ChatID != chatID {
		return ErrNotFound
	}
	for id, business := range r.businesses {
		if business.ChatID == chatID {
			business.IsCurrent = id == businessID
			r.businesses[id] = business
		}
	}
	return nil
}

func (r *InMemoryBusinessRepository) UpdateState(id uint, state models.ConversationState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	business, ok := r.businesses[id]
	if !ok {
		return ErrNotFound
	}
	business.State = state
	r.businesses[id] = business
	return nil
}

func (r *InMemoryBusinessRepository) AdjustTrustScore(id uint, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	business, ok := r.businesses[id]
	if !ok {
		return ErrNotFound
	}
	business.TrustScore += delta
	if business.TrustScore < 0 {
		business.TrustScore = 0
	}
	if business.TrustScore > 100 {
		business.TrustScore = 100
	}
	r.businesses[id] = business
	return nil
}

func (r *InMemoryBusinessRepository) AddRating(id uint, rating int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	business, ok := r.businesses[id]
	if !ok {
		return ErrNotFound
	}
	business.Rating = (business.Rating*float64(business.ReviewCount) + float64(rating)) /
		float64(business.ReviewCount+1)
	business.ReviewCount++
	r.businesses[id] = business
	return nil
}

// InMemoryComplaintRepository is a map-backed ComplaintRepository.
type InMemoryComplaintRepository struct {
	mu         sync.Mutex
	nextID     uint
	complaints map[uint]models.Complaint
}

// NewInMemoryComplaintRepository creates an empty in-memory complaint repository.
func NewInMemoryComplaintRepository() *InMemoryComplaintRepository {
	return &InMemoryComplaintRepository{nextID: 1, complaints: make(map[uint]models.Complaint)}
}

func (r *InMemoryComplaintRepository) Create(complaint *models.Complaint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	complaint.ID = r.nextID
	r.nextID++
	if complaint.Status == "" {
		complaint.Status = models.ComplaintStatusOpen
	}
	r.complaints[complaint.ID] = *complaint
	return nil
}

func (r *InMemoryComplaintRepository) GetByID(id uint) (*models.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	complaint, ok := r.complaints[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &complaint, nil
}

func (r *InMemoryComplaintRepository) CountOpenByBusiness(businessID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, complaint := range r.complaints {
		if complaint.BusinessID == businessID && complaint.Status == models.ComplaintStatusOpen {
			count++
		}
	}
	return count, nil
}

func (r *InMemoryComplaintRepository) ListOpen() ([]models.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var complaints []models.Complaint
	for _, complaint := range r.complaints {
		if complaint.Status == models.ComplaintStatusOpen {
			complaints = append(complaints, complaint)
		}
	}
	sort.Slice(complaints, func(i, j int) bool { return complaints[i].ID < complaints[j].ID })
	return complaints, nil
}

func (r *InMemoryComplaintRepository) Resolve(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	complaint, ok := r.complaints[id]
	if !ok {
		return ErrNotFound
	}
	complaint.Status = models.ComplaintStatusResolved
	r.complaints[id] = complaint
	return nil
}

// InMemoryCatalogRepository is a slice-backed CatalogRepository. Tests
// seed the exported slices directly.
type InMemoryCatalogRepository struct {
	Cities     []models.City
	Categories []models.Category
}

// NewInMemoryCatalogRepository creates an empty in-memory catalog.
func NewInMemoryCatalogRepository() *InMemoryCatalogRepository {
	return &InMemoryCatalogRepository{}
}

func (r *InMemoryCatalogRepository) ListCities() ([]models.City, error) {
	return r.Cities, nil
}

func (r *InMemoryCatalogRepository) GetCityBySlug(slug string) (*models.City, error) {
	for i := range r.Cities {
		if r.Cities[i].Slug == slug {
			return &r.Cities[i], nil
		}
	}
	return nil, ErrNotFound
}

func (r *InMemoryCatalogRepository) ListCategories() ([]models.Category, error) {
	return r.Categories, nil
}

func (r *InMemoryCatalogRepository) GetCategoryBySlug(slug string) (*models.Category, error) {
	for i := range r.Categories {
		if r.Categories[i].Slug == slug {
			return &r.Categories[i], nil
		}
	}
	return nil, ErrNotFound
}
