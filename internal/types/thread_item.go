package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ThreadItem is one query/answer exchange. SearchResults, Citations and
// Vocabulary stay null until the pipeline stage that produces them has
// run; IsComplete flips to true exactly once, together with LLMResponse,
// Citations and Vocabulary in the same update.
type ThreadItem struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ThreadID      uuid.UUID      `gorm:"type:uuid;not null;index;column:thread_id" json:"threadId"`
	Thread        *Thread        `gorm:"constraint:OnDelete:CASCADE;foreignKey:ThreadID;references:ID" json:"-"`
	UserID        string         `gorm:"column:user_id" json:"userId,omitempty"`
	Query         string         `gorm:"not null;column:query" json:"query"`
	SearchResults datatypes.JSON `gorm:"type:jsonb;column:search_results" json:"searchResults,omitempty"`
	LLMResponse   string         `gorm:"column:llm_response" json:"llmResponse,omitempty"`
	IsComplete    bool           `gorm:"not null;default:false;column:is_complete" json:"isComplete"`
	Citations     datatypes.JSON `gorm:"type:jsonb;column:citations" json:"citations,omitempty"`
	Vocabulary    datatypes.JSON `gorm:"type:jsonb;column:vocabulary" json:"vocabulary,omitempty"`
	CreatedAt     time.Time      `gorm:"not null;default:now()" json:"createdAt"`
}

func (ThreadItem) TableName() string { return "thread_items" }
