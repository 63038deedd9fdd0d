package handlers

import "net/http"

// WelcomeMessage - ответ корневого маршрута.
const WelcomeMessage = "Welcome to the task list REST API"

// Welcome обрабатывает GET /.
func Welcome(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(WelcomeMessage))
}
