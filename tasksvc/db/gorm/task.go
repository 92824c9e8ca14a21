package gorm

import (
	"context"
	"errors"

	"github.com/laxuman02230135/task-management/tasksvc"
	stdgorm "gorm.io/gorm"
)

type taskRepository struct {
	db *stdgorm.DB
}

func NewTaskRepository(db *stdgorm.DB) tasksvc.TaskRepository {
	return &taskRepository{db}
}

func (t taskRepository) Create(ctx context.Context, title string, userID uint64) (tasksvc.Task, error) {
	task := tasksvc.Task{Title: title, Completed: false, UserID: userID}
	result := t.db.WithContext(ctx).Create(&task)

	return task, result.Error
}

func (t taskRepository) FindAll(ctx context.Context, userID uint64) ([]tasksvc.Task, error) {
	tasks := []tasksvc.Task{}
	result := t.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&tasks)

	return tasks, result.Error
}

func (t taskRepository) Find(ctx context.Context, userID, taskID uint64) (tasksvc.Task, error) {
	return find(t.db.WithContext(ctx), userID, taskID)
}

func (t taskRepository) SetCompleted(ctx context.Context, userID, taskID uint64, completed bool) (tasksvc.Task, error) {
	var task tasksvc.Task
	err := t.db.WithContext(ctx).Transaction(func(tx *stdgorm.DB) error {
		var err error
		if task, err = find(tx, userID, taskID); err != nil {
			return err
		}

		task.Completed = completed
		return tx.Model(&task).Update("completed", completed).Error
	})
	if err != nil {
		return tasksvc.Task{}, err
	}

	return task, nil
}

func (t taskRepository) Delete(ctx context.Context, userID, taskID uint64) error {
	result := t.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", taskID, userID).
		Delete(&tasksvc.Task{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return tasksvc.ErrTaskNotFound
	}
	return nil
}

func find(db *stdgorm.DB, userID, taskID uint64) (tasksvc.Task, error) {
	var task tasksvc.Task
	result := db.Where("id = ? AND user_id = ?", taskID, userID).First(&task)

	if errors.Is(result.Error, stdgorm.ErrRecordNotFound) {
		return tasksvc.Task{}, tasksvc.ErrTaskNotFound
	}
	return task, result.Error
}
