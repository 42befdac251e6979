package tasks

import "time"

// Task is the persistent task model. UserID is the owner's subject identifier
// as issued by the identity provider.
type Task struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	Title       string    `bson:"title" json:"title"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	Completed   bool      `bson:"completed" json:"completed"`
	UserID      string    `bson:"userId" json:"userId"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Patch carries a partial task update; nil fields are left unchanged.
type Patch struct {
	Title       *string
	Description *string
	Completed   *bool
}
