package services

import "github.com/lovihub/lovi-backend/utils"

// LogMessageSender writes outbound messages to the application log. It is
// the default sender when no chat transport is attached; swap in a real
// MessageSender to deliver through a messaging platform.
type LogMessageSender struct{}

func (LogMessageSender) Send(chatID int64, text string) error {
	utils.LogInfo("outbound message to chat %d: %s", chatID, text)
	return nil
}
