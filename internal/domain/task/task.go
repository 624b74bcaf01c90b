package task

type Task struct {
	ID          int64  `json:"id"`
	Task        string `json:"task"`
	Description string `json:"description"`
	Priority    int    `json:"priority"`
	Status      bool   `json:"status"`
	OwnerID     int64  `json:"owner_id"`
}

type CreateTaskRequest struct {
	Task        string `json:"task" binding:"required"`
	Description string `json:"description" binding:"required"`
	Priority    int    `json:"priority" binding:"required,min=1,max=5"`
	Status      bool   `json:"status"`
}
