package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// VocabularyEntry stores generated learning content for one word in one
// thread item. The (word, thread_item_id) pair is unique so a retried
// generation request updates the existing row instead of duplicating it.
type VocabularyEntry struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Word         string         `gorm:"not null;index:idx_vocab_word_item,unique,priority:1;column:word" json:"word"`
	ThreadItemID uuid.UUID      `gorm:"type:uuid;not null;index:idx_vocab_word_item,unique,priority:2;column:thread_item_id" json:"threadItemId"`
	ThreadItem   *ThreadItem    `gorm:"constraint:OnDelete:CASCADE;foreignKey:ThreadItemID;references:ID" json:"-"`
	UserID       string         `gorm:"not null;index;column:user_id" json:"userId"`
	Content      datatypes.JSON `gorm:"type:jsonb;not null;column:content" json:"content"`
	CreatedAt    time.Time      `gorm:"not null;default:now()" json:"createdAt"`
	UpdatedAt    time.Time      `gorm:"not null;default:now()" json:"updatedAt"`
}

func (VocabularyEntry) TableName() string { return "vocabulary_entries" }
