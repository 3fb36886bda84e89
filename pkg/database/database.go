package database

import (
	"aral_lms_backend/internal/config"
	"aral_lms_backend/internal/model"
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB opens the MySQL connection. Migrations run automatically outside
// release mode; in release they need the -migrate flag.
func InitDB(cfg *config.DatabaseConfig, migrate bool) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Info),
		TranslateError: true,
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if migrate {
		if err := Migrate(db); err != nil {
			return nil, err
		}
		log.Println("Database migration completed")
	}

	return db, nil
}

// Migrate runs AutoMigrate for every model. Shared with the sqlite-backed
// test databases.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.OtpChallenge{},
		&model.Course{},
		&model.Module{},
		&model.Lesson{},
		&model.LessonMaterial{},
		&model.LessonProgress{},
		&model.ModuleProgress{},
		&model.ModuleLockStatus{},
		&model.Quiz{},
		&model.Question{},
		&model.AnswerOption{},
		&model.QuizAttempt{},
		&model.QuizAnswer{},
		&model.InviteCode{},
		&model.InviteCodeUse{},
		&model.Enrollment{},
		&model.DiscussionThread{},
		&model.DiscussionReply{},
		&model.Notification{},
		&model.StudentOutput{},
	)
}
