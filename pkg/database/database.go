package database

import (
	"fmt"
	"log"
	"projectk_backend/internal/config"
	"projectk_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig, mode string) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	logLevel := logger.Warn
	if mode == "debug" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")
	return db, nil
}

// Migrate 自动迁移全部表结构
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.User{},
		&model.StudentProfile{},
		&model.TeacherProfile{},
		&model.ClassRoom{},
		&model.ClassMember{},
		&model.Question{},
		&model.PracticeAttempt{},
		&model.ChatSession{},
		&model.ChatMessage{},
		&model.Notification{},
		&model.CalendarEvent{},
		&model.MindfulnessSession{},
		&model.StudyNote{},
	)
	if err != nil {
		return err
	}

	log.Println("Database migration completed")
	return nil
}
