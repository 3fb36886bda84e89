package service

import (
	"errors"
	"fmt"

	"aral_lms_backend/internal/model"
	"aral_lms_backend/internal/repository"
	"aral_lms_backend/internal/util"

	"gorm.io/gorm"
)

type DiscussionService struct {
	Repo     *repository.DiscussionRepository
	Notifier Notifier
}

func NewDiscussionService(repo *repository.DiscussionRepository, notifier Notifier) *DiscussionService {
	return &DiscussionService{Repo: repo, Notifier: notifier}
}

func (s *DiscussionService) ListThreads(moduleID uint, page, pageSize int) ([]model.DiscussionThread, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.Repo.FindThreadsWithPagination(moduleID, (page-1)*pageSize, pageSize)
}

func (s *DiscussionService) GetThread(id uint) (*model.DiscussionThread, error) {
	thread, err := s.Repo.FindThreadByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrThreadNotFound
		}
		return nil, err
	}
	return thread, nil
}

func (s *DiscussionService) CreateThread(thread *model.DiscussionThread) error {
	return s.Repo.CreateThread(thread)
}

// Reply appends to a thread and notifies the thread author, unless they are
// replying to themselves.
func (s *DiscussionService) Reply(userID, threadID uint, body string) (*model.DiscussionReply, error) {
	thread, err := s.Repo.FindThreadByID(threadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrThreadNotFound
		}
		return nil, err
	}
	if thread.IsLocked {
		return nil, util.ErrThreadLocked
	}

	reply := &model.DiscussionReply{
		ThreadID: threadID,
		UserID:   userID,
		Body:     body,
	}
	if err := s.Repo.CreateReply(reply); err != nil {
		return nil, err
	}

	if s.Notifier != nil && thread.UserID != userID {
		titleFil := thread.TitleFil
		if titleFil == "" {
			titleFil = thread.TitleEn
		}
		s.Notifier.Notify(thread.UserID, NotificationInput{
			Type:     model.NotifyReplyInThread,
			TitleEn:  "New reply in your thread",
			TitleFil: "May bagong sagot sa iyong thread",
			BodyEn:   fmt.Sprintf("Someone replied to \"%s\".", thread.TitleEn),
			BodyFil:  fmt.Sprintf("May sumagot sa \"%s\".", titleFil),
			Link:     fmt.Sprintf("/discussions/%d", thread.ID),
		})
	}
	return reply, nil
}

// DeleteThread allows the owner or an admin to remove a thread with its
// replies.
func (s *DiscussionService) DeleteThread(threadID, userID uint, role model.UserRole) error {
	thread, err := s.Repo.FindThreadByID(threadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrThreadNotFound
		}
		return err
	}
	if thread.UserID != userID && role != model.Admin {
		return util.ErrPermissionDenied
	}
	return s.Repo.DeleteThread(threadID)
}

// DeleteReply allows the reply author or an admin to remove a single reply.
func (s *DiscussionService) DeleteReply(replyID, userID uint, role model.UserRole) error {
	reply, err := s.Repo.FindReplyByID(replyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrThreadNotFound
		}
		return err
	}
	if reply.UserID != userID && role != model.Admin {
		return util.ErrPermissionDenied
	}
	return s.Repo.DeleteReply(replyID)
}

func (s *DiscussionService) SetPinned(threadID uint, pinned bool) error {
	thread, err := s.Repo.FindThreadByID(threadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrThreadNotFound
		}
		return err
	}
	thread.IsPinned = pinned
	return s.Repo.UpdateThread(thread)
}

func (s *DiscussionService) SetLocked(threadID uint, locked bool) error {
	thread, err := s.Repo.FindThreadByID(threadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrThreadNotFound
		}
		return err
	}
	thread.IsLocked = locked
	return s.Repo.UpdateThread(thread)
}
