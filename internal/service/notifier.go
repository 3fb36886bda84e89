package service

import "aral_lms_backend/internal/model"

// NotificationInput is the payload handed to the notification sink. Both
// language variants are built by the caller so the sink stays dumb.
type NotificationInput struct {
	Type     model.NotificationType
	TitleEn  string
	TitleFil string
	BodyEn   string
	BodyFil  string
	Link     string
}

// Notifier is fire-and-forget: implementations log their own failures and
// must never propagate them into the operation that triggered the event.
type Notifier interface {
	Notify(userID uint, input NotificationInput)
}
