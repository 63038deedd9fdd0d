package handlers

import (
	"net/http"

	"github.com/maynagashev/taskkeeper/internal/apierror"
	"github.com/maynagashev/taskkeeper/internal/logging"
	"github.com/maynagashev/taskkeeper/internal/middleware"
	"github.com/maynagashev/taskkeeper/internal/models"
	"github.com/maynagashev/taskkeeper/internal/services"
)

// TaskHandler обрабатывает HTTP-запросы к задачам текущего пользователя.
// Все маршруты монтируются за middleware.Authenticator.
type TaskHandler struct {
	taskService services.TaskService
	log         logging.Logger
}

// NewTaskHandler создает новый экземпляр TaskHandler.
func NewTaskHandler(ts services.TaskService, log logging.Logger) *TaskHandler {
	return &TaskHandler{taskService: ts, log: log}
}

// currentUser достает subject из контекста. Без него обработчик отвечает 500:
// это значит, что маршрут смонтирован без Authenticator.
func (h *TaskHandler) currentUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	username, ok := middleware.GetUsernameFromContext(r.Context())
	if !ok {
		h.log.Error(r.Context(), "не удалось получить имя пользователя из контекста", "path", r.URL.Path)
		apierror.Write(r.Context(), h.log, w, http.StatusInternalServerError, apierror.MsgInternal)
	}
	return username, ok
}

// Create обрабатывает POST /create.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	username, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	var req models.CreateTaskRequest
	if !decodeJSON(ctx, h.log, w, r, &req) {
		return
	}

	task, err := h.taskService.Create(ctx, username, req)
	if err != nil {
		writeError(ctx, h.log, w, err)
		return
	}
	writeJSON(ctx, h.log, w, http.StatusCreated, task)
}

// List обрабатывает GET /all.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	username, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	tasks, err := h.taskService.List(ctx, username)
	if err != nil {
		writeError(ctx, h.log, w, err)
		return
	}
	if tasks == nil {
		tasks = []models.TaskItem{}
	}
	writeJSON(ctx, h.log, w, http.StatusOK, tasks)
}

// Update обрабатывает PUT /update/{id}.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	username, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	id, ok := taskIDParam(r)
	if !ok {
		apierror.Write(ctx, h.log, w, http.StatusNotFound, apierror.MsgNotFound)
		return
	}

	var req models.UpdateTaskRequest
	if !decodeJSON(ctx, h.log, w, r, &req) {
		return
	}

	task, err := h.taskService.Update(ctx, username, id, req)
	if err != nil {
		writeError(ctx, h.log, w, err)
		return
	}
	writeJSON(ctx, h.log, w, http.StatusOK, task)
}

// Delete обрабатывает DELETE /delete/{id}. В ответе - ID удаленной задачи.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	username, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	id, ok := taskIDParam(r)
	if !ok {
		apierror.Write(ctx, h.log, w, http.StatusNotFound, apierror.MsgNotFound)
		return
	}

	if err := h.taskService.Delete(ctx, username, id); err != nil {
		writeError(ctx, h.log, w, err)
		return
	}
	writeJSON(ctx, h.log, w, http.StatusOK, id)
}
