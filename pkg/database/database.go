package database

import (
	"fmt"
	"log"

	"exam_admin_backend/internal/config"
	"exam_admin_backend/internal/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DBName,
		cfg.Database.Charset,
		cfg.Database.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	// release 模式默认不自动迁移，需通过 -migrate / -migrate-only 显式触发
	if cfg.Server.Mode != "release" || cfg.ForceMigrate {
		err = db.AutoMigrate(
			&model.User{},
			&model.Question{},
			&model.Option{},
			&model.Exam{},
			&model.ExamQuestion{},
			&model.ExamAttempt{},
			&model.ExamAttemptQuestion{},
			&model.ExamAttemptOption{},
		)
		if err != nil {
			return nil, err
		}
		log.Println("Database migration completed")
	}

	// 默认管理员账号（首次启动时写入）
	var count int64
	db.Model(&model.User{}).Where("email = ?", "admin@test.com").Count(&count)
	if count == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		admin := &model.User{
			Email:    "admin@test.com",
			Password: string(hash),
			Role:     model.Admin,
		}
		db.Create(admin)
		log.Println("Seeded default admin user")
	}

	return db, nil
}
