package dto

type TodoItem struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Completed bool    `json:"completed"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
	DeletedAt *string `json:"deletedAt"`
}

// Titles are checked by the service, not by binding.
type CreateTodoRequest struct {
	Title string `json:"title"`
}

type UpdateTitleRequest struct {
	Title string `json:"title"`
}

type ToggleTodoRequest struct {
	Completed *bool `json:"completed" binding:"required"`
}

type OkResponse struct {
	OK bool `json:"ok"`
}

type RemoveTodoResponse struct {
	OK   bool      `json:"ok"`
	Todo *TodoItem `json:"todo"`
}
