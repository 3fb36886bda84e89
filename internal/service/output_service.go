package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"aral_lms_backend/internal/model"
	"aral_lms_backend/internal/repository"
	"aral_lms_backend/internal/util"

	"gorm.io/gorm"
)

var outputMimeTypes = []string{
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument",
	"image/",
	"video/",
	"text/plain",
	"application/zip",
}

type OutputService struct {
	Repo     *repository.OutputRepository
	Storage  StorageProvider
	Notifier Notifier
}

func NewOutputService(repo *repository.OutputRepository, storage StorageProvider, notifier Notifier) *OutputService {
	return &OutputService{Repo: repo, Storage: storage, Notifier: notifier}
}

// Submit stores a student's work for manual review, with an optional file
// attachment.
func (s *OutputService) Submit(ctx context.Context, userID uint, outputType, title, content string, courseID, moduleID *uint, file *multipart.FileHeader) (*model.StudentOutput, error) {
	output := &model.StudentOutput{
		UserID:      userID,
		Type:        outputType,
		Title:       title,
		Content:     content,
		CourseID:    courseID,
		ModuleID:    moduleID,
		Status:      model.OutputPending,
		SubmittedAt: time.Now(),
	}

	if file != nil {
		src, err := file.Open()
		if err != nil {
			return nil, err
		}
		defer src.Close()

		mimeType, err := util.ValidateMimeType(src, outputMimeTypes)
		if err != nil {
			return nil, err
		}
		if _, err := src.Seek(0, 0); err != nil {
			return nil, err
		}

		url, err := s.Storage.Save(ctx, "outputs", file.Filename, src, file.Size, mimeType)
		if err != nil {
			return nil, err
		}
		output.FileURL = url
	}

	if err := s.Repo.Create(output); err != nil {
		return nil, err
	}
	return output, nil
}

func (s *OutputService) ListMine(userID uint) ([]model.StudentOutput, error) {
	return s.Repo.ListByUser(userID)
}

func (s *OutputService) ListForReview(courseID uint, status model.OutputStatus, page, pageSize int) ([]model.StudentOutput, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.Repo.ListForReview(courseID, status, (page-1)*pageSize, pageSize)
}

// Review records the reviewer's verdict and notifies the student.
func (s *OutputService) Review(outputID, reviewerID uint, status model.OutputStatus, comment string) (*model.StudentOutput, error) {
	if status != model.OutputReviewed && status != model.OutputReturned {
		return nil, errors.New("review status must be REVIEWED or RETURNED")
	}

	output, err := s.Repo.FindByID(outputID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, err
	}

	now := time.Now()
	output.Status = status
	output.AdminComment = comment
	output.ReviewedAt = &now
	output.ReviewedByID = &reviewerID
	if err := s.Repo.Update(output); err != nil {
		return nil, err
	}

	if s.Notifier != nil {
		s.Notifier.Notify(output.UserID, NotificationInput{
			Type:     model.NotifyOutputReviewed,
			TitleEn:  "Your submission was reviewed",
			TitleFil: "Na-review na ang iyong isinumite",
			BodyEn:   fmt.Sprintf("\"%s\" has been marked %s.", output.Title, status),
			BodyFil:  fmt.Sprintf("Ang \"%s\" ay minarkahang %s.", output.Title, status),
			Link:     fmt.Sprintf("/outputs/%d", output.ID),
		})
	}
	return output, nil
}
