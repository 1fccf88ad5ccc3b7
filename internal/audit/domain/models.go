package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/tailorline/pkg/db/pagination"
	"gorm.io/datatypes"
)

// ActivityLog is an append-only record of state-changing actions.
type ActivityLog struct {
	ID         snowflake.ID      `json:"id" gorm:"primaryKey"`
	ActorID    *snowflake.ID     `json:"actor_id,omitempty" gorm:"index"`
	ActorName  string            `json:"actor_name" gorm:"type:text"`
	Action     string            `json:"action" gorm:"type:text;not null;index"`
	TargetType string            `json:"target_type" gorm:"type:text;not null"`
	TargetID   string            `json:"target_id" gorm:"type:text;index"`
	Metadata   datatypes.JSONMap `json:"metadata,omitempty" gorm:"type:jsonb"`
	CreatedAt  time.Time         `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP;index"`
}

func (ActivityLog) TableName() string { return "activity_logs" }

type Service interface {
	Record(ctx context.Context, entry Entry) error
	List(ctx context.Context, req ListRequest) ([]ActivityLog, pagination.PageInfo, error)
}

type Entry struct {
	ActorID    *snowflake.ID
	ActorName  string
	Action     string
	TargetType string
	TargetID   string
	Metadata   map[string]any
}

type ListRequest struct {
	Action     string
	TargetType string
	TargetID   string
	Limit      int
	Offset     int
}

var ErrInvalidAction = errors.New("invalid_action")
