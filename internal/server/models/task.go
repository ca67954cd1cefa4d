package models

// Default task provisioned on a user's first dashboard visit.
const (
	DefaultTaskName        = "Default Task"
	DefaultTaskDescription = "This is a default task"
	DefaultTaskDueDate     = "2024-05-23"
	StatusPending          = "Pending"
)

// Task is a to-do item owned by exactly one user.
type Task struct {
	ID          int64
	UserID      int64
	Name        string
	Description string
	// DueDate is a calendar date in YYYY-MM-DD form.
	DueDate string
	// Status is nil for tasks created by the user; auto-provisioned tasks
	// carry StatusPending.
	Status *string
}

// NewDefaultTask returns the task provisioned for a user with an empty list.
func NewDefaultTask(userID int64) *Task {
	status := StatusPending
	return &Task{
		UserID:      userID,
		Name:        DefaultTaskName,
		Description: DefaultTaskDescription,
		DueDate:     DefaultTaskDueDate,
		Status:      &status,
	}
}
