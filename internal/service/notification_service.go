package service

import (
	"aral_lms_backend/internal/model"
	"aral_lms_backend/internal/repository"
	"aral_lms_backend/pkg/logger"
	"aral_lms_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// NotificationService persists notifications and fans them out over the
// websocket hub, with an email copy for users who have one enabled channel.
// It implements Notifier; all failures are logged and swallowed so a broken
// sink can never fail the operation that produced the event.
type NotificationService struct {
	Repo     *repository.NotificationRepository
	UserRepo *repository.UserRepository
	Hub      *NotificationHub
	Mailer   Mailer
}

func NewNotificationService(repo *repository.NotificationRepository, userRepo *repository.UserRepository, hub *NotificationHub, mailer Mailer) *NotificationService {
	return &NotificationService{Repo: repo, UserRepo: userRepo, Hub: hub, Mailer: mailer}
}

func (s *NotificationService) Notify(userID uint, input NotificationInput) {
	n := &model.Notification{
		UserID:   userID,
		Type:     input.Type,
		TitleEn:  input.TitleEn,
		TitleFil: input.TitleFil,
		BodyEn:   input.BodyEn,
		BodyFil:  input.BodyFil,
		Link:     input.Link,
	}
	if err := s.Repo.Create(n); err != nil {
		logger.Log.Error("failed to persist notification",
			zap.Uint("userId", userID),
			zap.String("type", string(input.Type)),
			zap.Error(err))
		return
	}
	monitoring.NotificationCounter.WithLabelValues(string(input.Type), "db").Inc()

	if s.Hub != nil {
		s.Hub.Push(userID, WSMessage{Type: "NOTIFICATION", Data: n})
	}

	go s.sendEmailCopy(userID, n)
}

// sendEmailCopy mails the notification in the user's preferred language.
// Only module unlocks and enrollment confirmations go to email; reply and
// review events stay in-app. Runs fire-and-forget so the sendgrid round
// trip never sits on the request path.
func (s *NotificationService) sendEmailCopy(userID uint, n *model.Notification) {
	if s.Mailer == nil {
		return
	}
	if n.Type != model.NotifyModuleUnlocked && n.Type != model.NotifyEnrollmentConfirmed {
		return
	}

	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		logger.Log.Warn("notification email skipped, user lookup failed",
			zap.Uint("userId", userID), zap.Error(err))
		return
	}

	title, body := n.TitleEn, n.BodyEn
	if user.Language == model.Filipino && n.TitleFil != "" {
		title, body = n.TitleFil, n.BodyFil
	}
	if err := s.Mailer.Send(user.Name, user.Email, title, body, "<p>"+body+"</p>"); err != nil {
		logger.Log.Warn("notification email failed",
			zap.Uint("userId", userID), zap.Error(err))
		return
	}
	monitoring.NotificationCounter.WithLabelValues(string(n.Type), "email").Inc()
}

func (s *NotificationService) List(userID uint, offset, limit int) ([]model.Notification, int64, int64, error) {
	notifications, total, err := s.Repo.FindWithPagination(userID, offset, limit)
	if err != nil {
		return nil, 0, 0, err
	}
	unread, err := s.Repo.UnreadCount(userID)
	if err != nil {
		return nil, 0, 0, err
	}
	return notifications, total, unread, nil
}

func (s *NotificationService) MarkRead(id, userID uint) error {
	return s.Repo.MarkAsRead(id, userID)
}

func (s *NotificationService) MarkAllRead(userID uint) error {
	return s.Repo.MarkAllAsRead(userID)
}
