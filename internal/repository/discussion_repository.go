package repository

import (
	"aral_lms_backend/internal/model"

	"gorm.io/gorm"
)

type DiscussionRepository struct {
	DB *gorm.DB
}

func NewDiscussionRepository(db *gorm.DB) *DiscussionRepository {
	return &DiscussionRepository{DB: db}
}

// FindThreadsWithPagination lists a module's threads, pinned first.
func (r *DiscussionRepository) FindThreadsWithPagination(moduleID uint, offset, limit int) ([]model.DiscussionThread, int64, error) {
	var threads []model.DiscussionThread
	var total int64

	query := r.DB.Model(&model.DiscussionThread{}).Where("module_id = ?", moduleID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("is_pinned DESC, created_at DESC").
		Offset(offset).Limit(limit).
		Preload("User").
		Find(&threads).Error
	if err != nil {
		return nil, 0, err
	}

	return threads, total, nil
}

func (r *DiscussionRepository) FindThreadByID(id uint) (*model.DiscussionThread, error) {
	var thread model.DiscussionThread
	err := r.DB.
		Preload("User").
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Replies.User").
		First(&thread, id).Error
	return &thread, err
}

func (r *DiscussionRepository) CreateThread(thread *model.DiscussionThread) error {
	return r.DB.Create(thread).Error
}

func (r *DiscussionRepository) UpdateThread(thread *model.DiscussionThread) error {
	return r.DB.Save(thread).Error
}

func (r *DiscussionRepository) DeleteThread(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("thread_id = ?", id).Delete(&model.DiscussionReply{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.DiscussionThread{}, id).Error
	})
}

func (r *DiscussionRepository) CreateReply(reply *model.DiscussionReply) error {
	return r.DB.Create(reply).Error
}

func (r *DiscussionRepository) FindReplyByID(id uint) (*model.DiscussionReply, error) {
	var reply model.DiscussionReply
	err := r.DB.First(&reply, id).Error
	return &reply, err
}

func (r *DiscussionRepository) DeleteReply(id uint) error {
	return r.DB.Delete(&model.DiscussionReply{}, id).Error
}
