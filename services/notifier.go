package services

import (
	"fmt"
	"time"

	"github.com/lovihub/lovi-backend/models"
	"github.com/lovihub/lovi-backend/repository"
	"github.com/lovihub/lovi-backend/utils"
)

// MessageSender delivers a text message to a chat identity. The production
// implementation talks to the messaging platform; tests record the calls.
type MessageSender interface {
	Send(chatID int64, text string) error
}

// Notifier dispatches all outbound event notifications. A send failure to
// one recipient never blocks the rest.
type Notifier interface {
	NotifyCustomersAboutActivation(deal *models.Deal, bookings []models.Booking)
	NotifyBusinessAboutActivation(deal *models.Deal, participants int)
	NotifyBusinessAboutNewParticipant(deal *models.Deal)
	NotifyCustomerOfRedemptionConfirmation(booking *models.Booking, deal *models.Deal)
	SendReviewRequest(booking *models.Booking, deal *models.Deal)
	SendCodeExpiryReminder(booking *models.Booking, deal *models.Deal)
}

// NotificationService implements Notifier on top of a MessageSender,
// resolving recipient chat IDs through the user and business repositories.
type NotificationService struct {
	sender     MessageSender
	users      repository.UserRepository
	businesses repository.BusinessRepository
	sendDelay  time.Duration
}

// NewNotificationService creates a notification dispatcher. sendDelay is the
// pause between consecutive sends in a fan-out, to stay under platform
// rate limits.
func NewNotificationService(sender MessageSender, users repository.UserRepository, businesses repository.BusinessRepository, sendDelay time.Duration) *NotificationService {
	return &NotificationService{
		sender:     sender,
		users:      users,
		businesses: businesses,
		sendDelay:  sendDelay,
	}
}

// NotifyCustomersAboutActivation tells every participant that the deal
// reached critical mass and their code is now active.
func (s *NotificationService) NotifyCustomersAboutActivation(deal *models.Deal, bookings []models.Booking) {
	for i, booking := range bookings {
		if i > 0 && s.sendDelay > 0 {
			time.Sleep(s.sendDelay)
		}
		user, err := s.users.GetByID(booking.UserID)
		if err != nil {
			utils.LogError("notifier: resolve user %d for booking %d: %v", booking.UserID, booking.ID, err)
			continue
		}
		text := fmt.Sprintf(
			"🎉 Deal activated: %s\n\nYour code %s is now active. Show it at %s before %s to claim your %d%% discount.",
			deal.Title, booking.Code, deal.Business.Name,
			booking.ExpiresAt.Format("02.01.2006"), deal.DiscountPercent(),
		)
		if err := s.sender.Send(user.ChatID, text); err != nil {
			utils.LogError("notifier: activation message to chat %d: %v", user.ChatID, err)
		}
	}
}

// NotifyBusinessAboutActivation tells the merchant the deal went live.
func (s *NotificationService) NotifyBusinessAboutActivation(deal *models.Deal, participants int) {
	business, err := s.businesses.GetByID(deal.BusinessID)
	if err != nil {
		utils.LogError("notifier: resolve business %d for deal %d: %v", deal.BusinessID, deal.ID, err)
		return
	}
	text := fmt.Sprintf(
		"✅ Your deal \"%s\" is activated with %d participants. Customers will start arriving with their codes.",
		deal.Title, participants,
	)
	if err := s.sender.Send(business.ChatID, text); err != nil {
		utils.LogError("notifier: business activation message to chat %d: %v", business.ChatID, err)
	}
}

// NotifyBusinessAboutNewParticipant pings the merchant about collection
// progress, but only at milestones (every 5th participant) or when the
// deal is within 3 people of activating, to keep the noise down.
func (s *NotificationService) NotifyBusinessAboutNewParticipant(deal *models.Deal) {
	remaining := deal.MinPeople - deal.CurrentPeople
	if deal.CurrentPeople%5 != 0 && remaining > 3 {
		return
	}
	business, err := s.businesses.GetByID(deal.BusinessID)
	if err != nil {
		utils.LogError("notifier: resolve business %d for deal %d: %v", deal.BusinessID, deal.ID, err)
		return
	}
	text := fmt.Sprintf(
		"👥 \"%s\": %d of %d participants collected.",
		deal.Title, deal.CurrentPeople, deal.MinPeople,
	)
	if remaining > 0 && remaining <= 3 {
		text += fmt.Sprintf(" Only %d to go!", remaining)
	}
	if err := s.sender.Send(business.ChatID, text); err != nil {
		utils.LogError("notifier: participant message to chat %d: %v", business.ChatID, err)
	}
}

// NotifyCustomerOfRedemptionConfirmation thanks the customer after the
// business marks their code as used and asks them to confirm the visit.
func (s *NotificationService) NotifyCustomerOfRedemptionConfirmation(booking *models.Booking, deal *models.Deal) {
	user, err := s.users.GetByID(booking.UserID)
	if err != nil {
		utils.LogError("notifier: resolve user %d for booking %d: %v", booking.UserID, booking.ID, err)
		return
	}
	text := fmt.Sprintf(
		"✔️ Your code %s for \"%s\" was accepted. Did everything go well? Confirm your visit to earn %d bonus points.",
		booking.Code, deal.Title, utils.ReviewBonusPoints,
	)
	if err := s.sender.Send(user.ChatID, text); err != nil {
		utils.LogError("notifier: redemption message to chat %d: %v", user.ChatID, err)
	}
}

// SendReviewRequest asks a customer who visited more than a day ago to
// confirm the visit and leave a review.
func (s *NotificationService) SendReviewRequest(booking *models.Booking, deal *models.Deal) {
	user, err := s.users.GetByID(booking.UserID)
	if err != nil {
		utils.LogError("notifier: resolve user %d for booking %d: %v", booking.UserID, booking.ID, err)
		return
	}
	text := fmt.Sprintf(
		"⭐ How was your visit for \"%s\"? Confirm it and leave a review to earn %d bonus points.",
		deal.Title, utils.ReviewBonusPoints,
	)
	if err := s.sender.Send(user.ChatID, text); err != nil {
		utils.LogError("notifier: review request to chat %d: %v", user.ChatID, err)
	}
}

// SendCodeExpiryReminder warns the customer their activated code is about
// to expire unused.
func (s *NotificationService) SendCodeExpiryReminder(booking *models.Booking, deal *models.Deal) {
	user, err := s.users.GetByID(booking.UserID)
	if err != nil {
		utils.LogError("notifier: resolve user %d for booking %d: %v", booking.UserID, booking.ID, err)
		return
	}
	text := fmt.Sprintf(
		"⏰ Your code %s for \"%s\" expires on %s. Visit %s before then so it doesn't go to waste.",
		booking.Code, deal.Title, booking.ExpiresAt.Format("02.01.2006"), deal.Business.Name,
	)
	if err := s.sender.Send(user.ChatID, text); err != nil {
		utils.LogError("notifier: expiry reminder to chat %d: %v", user.ChatID, err)
	}
}
