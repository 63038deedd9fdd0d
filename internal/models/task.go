package models

import "time"

// TaskItem представляет задачу пользователя.
// ID, Owner и CreatedAt не меняются после создания.
type TaskItem struct {
	ID          int64      `json:"item_id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `json:"created_at"`
	ModifiedAt  *time.Time `json:"modified_at"` // null до первого обновления
	Owner       string     `json:"user_as"`
	Deadline    string     `json:"deadline"` // формат не проверяется
}

// CreateTaskRequest представляет тело запроса на создание задачи.
// Указатели позволяют отличить отсутствующее поле от пустой строки.
type CreateTaskRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Deadline    *string `json:"deadline"`
}

// UpdateTaskRequest представляет тело запроса на частичное обновление задачи.
// Поле со значением nil оставляет прежнее значение без изменений.
type UpdateTaskRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Deadline    *string `json:"deadline"`
}

// Apply применяет переданные поля к задаче.
func (u UpdateTaskRequest) Apply(t *TaskItem) {
	if u.Name != nil {
		t.Name = *u.Name
	}
	if u.Description != nil {
		t.Description = *u.Description
	}
	if u.Deadline != nil {
		t.Deadline = *u.Deadline
	}
}
