package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"math"
	"mime/multipart"
	"os"

	"aral_lms_backend/internal/model"
	"aral_lms_backend/internal/repository"
	"aral_lms_backend/internal/util"
	"aral_lms_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var materialMimeTypes = []string{
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument",
	"application/vnd.ms-powerpoint",
	"image/",
	"text/plain",
	"application/zip",
}

type LessonService struct {
	ModuleRepo *repository.ModuleRepository
	LessonRepo *repository.LessonRepository
	Storage    StorageProvider
}

func NewLessonService(moduleRepo *repository.ModuleRepository, lessonRepo *repository.LessonRepository, storage StorageProvider) *LessonService {
	return &LessonService{ModuleRepo: moduleRepo, LessonRepo: lessonRepo, Storage: storage}
}

func (s *LessonService) CreateModule(mod *model.Module) error {
	return s.ModuleRepo.Create(mod)
}

func (s *LessonService) GetModule(id uint) (*model.Module, error) {
	mod, err := s.ModuleRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrModuleNotFound
		}
		return nil, err
	}
	return mod, nil
}

func (s *LessonService) ListModules(courseID uint) ([]model.Module, error) {
	return s.ModuleRepo.ListByCourse(courseID)
}

func (s *LessonService) UpdateModule(mod *model.Module) error {
	return s.ModuleRepo.Update(mod)
}

func (s *LessonService) DeleteModule(id uint) error {
	return s.ModuleRepo.Delete(id)
}

func (s *LessonService) CreateLesson(lesson *model.Lesson) error {
	if _, err := s.ModuleRepo.FindByID(lesson.ModuleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrModuleNotFound
		}
		return err
	}
	return s.LessonRepo.Create(lesson)
}

func (s *LessonService) GetLesson(id uint) (*model.Lesson, error) {
	lesson, err := s.LessonRepo.FindByIDWithMaterials(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}
	return lesson, nil
}

func (s *LessonService) UpdateLesson(lesson *model.Lesson) error {
	return s.LessonRepo.Update(lesson)
}

func (s *LessonService) DeleteLesson(id uint) error {
	return s.LessonRepo.Delete(id)
}

// UploadVideo stores a lesson's mp4 and probes it so DurationSecs is filled
// without trusting the client. The probe runs on a temp copy because the
// storage backend may be remote.
func (s *LessonService) UploadVideo(ctx context.Context, lessonID uint, file *multipart.FileHeader) (*model.Lesson, error) {
	lesson, err := s.LessonRepo.FindByID(lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	head := make([]byte, 512)
	n, err := src.Read(head)
	if err != nil && err != io.EOF {
		return nil, err
	}
	mimeType, err := util.ValidateMimeType(bytes.NewReader(head[:n]), []string{"video/"})
	if err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp("", "lesson-video-*")
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if _, err := tmp.Write(head[:n]); err != nil {
		return nil, err
	}
	if _, err := io.Copy(tmp, src); err != nil {
		return nil, err
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	url, err := s.Storage.Save(ctx, "videos", file.Filename, tmp, file.Size, mimeType)
	if err != nil {
		return nil, err
	}

	lesson.Mp4URL = url
	if info, err := util.GetVideoInfo(tmp.Name()); err == nil {
		lesson.DurationSecs = int(math.Round(info.Duration))
	} else {
		logger.Log.Warn("video probe failed, duration left unset",
			zap.Uint("lessonId", lessonID), zap.Error(err))
	}

	if err := s.LessonRepo.Update(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

// AddMaterial uploads a supplementary file and attaches it to the lesson.
func (s *LessonService) AddMaterial(ctx context.Context, lessonID uint, title string, file *multipart.FileHeader) (*model.LessonMaterial, error) {
	lesson, err := s.LessonRepo.FindByID(lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	head := make([]byte, 512)
	n, err := src.Read(head)
	if err != nil && err != io.EOF {
		return nil, err
	}
	mimeType, err := util.ValidateMimeType(bytes.NewReader(head[:n]), materialMimeTypes)
	if err != nil {
		return nil, err
	}

	reader := io.MultiReader(bytes.NewReader(head[:n]), src)
	url, err := s.Storage.Save(ctx, "materials", file.Filename, reader, file.Size, mimeType)
	if err != nil {
		return nil, err
	}

	material := &model.LessonMaterial{
		LessonID: lesson.ID,
		Title:    title,
		FileURL:  url,
	}
	if err := s.LessonRepo.AddMaterial(material); err != nil {
		return nil, err
	}
	return material, nil
}
