package ollama

import "github.com/xavierca1/zapvendas/internal/entity"

type chatRequest struct {
	Model    string                 `json:"model"`
	Messages []entity.PromptMessage `json:"messages"`
	Stream   bool                   `json:"stream"`
	Options  chatOptions            `json:"options"`
}

type chatOptions struct {
	Temperature float64 `json:"temperature"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
	Done bool `json:"done"`
}

type errorResponse struct {
	Error string `json:"error"`
}
