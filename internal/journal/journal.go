// Package journal stores evaluated sources and what they printed in a
// sqlite database through gorm.
package journal

import (
	"context"
	"crypto/rand"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Entry is one evaluation. Stdout and Stderr hold newline-joined lines.
type Entry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SessionID string    `gorm:"index;not null" json:"sessionId"`
	Source    string    `gorm:"not null" json:"source"`
	Stdout    string    `json:"stdout"`
	Stderr    string    `json:"stderr"`
	Failed    bool      `json:"failed"`
	CreatedAt time.Time `json:"createdAt"`
}

// BeforeCreate is a GORM hook that sets default values before inserting
func (e *Entry) BeforeCreate(tx *gorm.DB) error {
	if e.SessionID == "" {
		e.SessionID = NewID()
	}
	return nil
}

type Journal struct {
	db *gorm.DB
}

// Open opens the journal at path, creating the file, its directory and the
// schema when needed.
func Open(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating journal directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening journal %s: %w", path, err)
	}
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("migrating journal: %w", err)
	}
	return &Journal{db: db}, nil
}

func (j *Journal) Record(ctx context.Context, e Entry) error {
	if err := j.db.WithContext(ctx).Create(&e).Error; err != nil {
		return fmt.Errorf("recording entry: %w", err)
	}
	return nil
}

// Recent returns the n latest entries, newest first.
func (j *Journal) Recent(ctx context.Context, n int) ([]Entry, error) {
	var entries []Entry
	if err := j.db.WithContext(ctx).Order("id desc").Limit(n).Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	return entries, nil
}

// Session returns the entries of one session in evaluation order.
func (j *Journal) Session(ctx context.Context, id string) ([]Entry, error) {
	var entries []Entry
	err := j.db.WithContext(ctx).Where("session_id = ?", id).Order("id asc").Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("listing session %s: %w", id, err)
	}
	return entries, nil
}

func (j *Journal) Close() error {
	sqlDB, err := j.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// NewID generates a UUID v4 string
func NewID() string {
	b := make([]byte, 16)
	rand.Read(b)
	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80
	return fmt.Sprintf("%08x-%04x-%04x-%04x-%012x", b[0:4], b[4:6], b[6:8], b[8:10], b[10:16])
}
