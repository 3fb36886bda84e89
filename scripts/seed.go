// Seeds a demo course with gated modules for local development.
//
// Usage: go run scripts/seed.go

package main

import (
	"log"

	"aral_lms_backend/internal/config"
	"aral_lms_backend/internal/model"
	"aral_lms_backend/internal/util"
	"aral_lms_backend/pkg/database"
	"aral_lms_backend/pkg/logger"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger.InitLogger(cfg)

	db, err := database.InitDB(&cfg.Database, true)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	hashed, _ := bcrypt.GenerateFromPassword([]byte("admin12345"), bcrypt.DefaultCost)
	admin := model.User{
		Name:          "Admin",
		Email:         "admin@aral-lms.ph",
		Password:      string(hashed),
		Role:          model.Admin,
		IsActive:      true,
		EmailVerified: true,
	}
	if err := db.Where("email = ?", admin.Email).FirstOrCreate(&admin).Error; err != nil {
		log.Fatalf("seeding admin failed: %v", err)
	}

	course := model.Course{
		Slug:         "intro-to-filipino",
		TitleEn:      "Introduction to Filipino",
		TitleFil:     "Panimula sa Filipino",
		Status:       model.CoursePublished,
		IsInviteOnly: true,
		Order:        1,
		CreatedByID:  admin.ID,
	}
	if err := db.Where("slug = ?", course.Slug).FirstOrCreate(&course).Error; err != nil {
		log.Fatalf("seeding course failed: %v", err)
	}

	modules := []model.Module{
		{
			CourseID:           course.ID,
			TitleEn:            "Greetings and Basics",
			TitleFil:           "Pagbati at mga Pangunahing Kaalaman",
			Order:              1,
			RequiresPreTest:    true,
			RequiresAllLessons: true,
			RequiresPostTest:   true,
		},
		{
			CourseID:           course.ID,
			TitleEn:            "Everyday Conversation",
			TitleFil:           "Pang-araw-araw na Usapan",
			Order:              2,
			RequiresPreTest:    false,
			RequiresAllLessons: true,
			RequiresPostTest:   false,
		},
	}
	for i := range modules {
		m := &modules[i]
		if err := db.Where("course_id = ? AND `order` = ?", m.CourseID, m.Order).FirstOrCreate(m).Error; err != nil {
			log.Fatalf("seeding module failed: %v", err)
		}

		for j := 1; j <= 3; j++ {
			lesson := model.Lesson{
				ModuleID: m.ID,
				TitleEn:  m.TitleEn,
				Order:    j,
				Status:   model.LessonPublished,
			}
			if err := db.Where("module_id = ? AND `order` = ?", m.ID, j).FirstOrCreate(&lesson).Error; err != nil {
				log.Fatalf("seeding lesson failed: %v", err)
			}
		}
	}

	invite := model.InviteCode{
		CourseID:    course.ID,
		Code:        util.GenerateInviteCode(""),
		UsageLimit:  0,
		IsActive:    true,
		Note:        "development seed code",
		CreatedByID: admin.ID,
	}
	if err := db.Where("course_id = ? AND note = ?", course.ID, invite.Note).FirstOrCreate(&invite).Error; err != nil {
		log.Fatalf("seeding invite code failed: %v", err)
	}

	log.Printf("seed complete: admin=%s invite=%s", admin.Email, invite.Code)
}
