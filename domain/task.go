package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Task is a single to-do item as stored in the task collection. The ObjectID
// renders as a hex string and timestamps as RFC 3339 text in JSON.
type Task struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Category    string             `bson:"category,omitempty" json:"category,omitempty"`
	DueDate     *time.Time         `bson:"due_date,omitempty" json:"due_date,omitempty"`
	Priority    string             `bson:"priority,omitempty" json:"priority,omitempty"`
	Completed   bool               `bson:"completed" json:"completed"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// TaskCreate carries the fields a client may supply when creating a task.
// The identifier, completion flag and timestamps are assigned server-side.
type TaskCreate struct {
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	DueDate     *time.Time `json:"due_date"`
	Priority    string     `json:"priority"`
}

// TaskUpdate is a partial update. Nil fields are left untouched; a JSON null
// is indistinguishable from an omitted field and is treated as omitted.
type TaskUpdate struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Category    *string    `json:"category"`
	DueDate     *time.Time `json:"due_date"`
	Priority    *string    `json:"priority"`
	Completed   *bool      `json:"completed"`
}

// Empty reports whether the update carries no fields at all. Such an update
// still refreshes the task's updated_at timestamp.
func (u TaskUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && u.Category == nil &&
		u.DueDate == nil && u.Priority == nil && u.Completed == nil
}

// ListFilter narrows a task listing. Category is an equality match; Query is
// a case-insensitive substring match against title or description.
type ListFilter struct {
	Category string
	Query    string
}

// Empty reports whether the filter matches every task.
func (f ListFilter) Empty() bool {
	return f.Category == "" && f.Query == ""
}
