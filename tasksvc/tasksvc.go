package tasksvc

import (
	"context"
	"fmt"
	"time"

	"github.com/laxuman02230135/task-management/apperr"
)

type Task struct {
	ID        uint64    `json:"id" gorm:"primaryKey"`
	Title     string    `json:"title" gorm:"not null"`
	Completed bool      `json:"completed" gorm:"not null;default:false"`
	UserID    uint64    `json:"userId" gorm:"index;not null"`
	CreatedAt time.Time `json:"createdAt"`
}

// TaskRepository stores tasks. Every method is scoped to userID: a task owned
// by somebody else behaves exactly like one that does not exist.
type TaskRepository interface {
	Create(ctx context.Context, title string, userID uint64) (Task, error)
	FindAll(ctx context.Context, userID uint64) ([]Task, error)
	Find(ctx context.Context, userID, taskID uint64) (Task, error)
	SetCompleted(ctx context.Context, userID, taskID uint64, completed bool) (Task, error)
	Delete(ctx context.Context, userID, taskID uint64) error
}

var ErrTaskNotFound = fmt.Errorf("task %w", apperr.ErrNotFound)

const MaxTitleLength = 500
