package domain

// Task represents a user-owned to-do item. ID and UserID are assigned at
// creation time (ID by the store, UserID from the verified caller) and never
// change afterwards.
type Task struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
	UserID      string `json:"user_id"`
	ID          string `json:"id"`
}

// TaskFields is the flattened form of a partial update: only the keys present
// in the map are written to the store.
type TaskFields map[string]interface{}

// TaskUpdate carries a partial task modification. A nil field was absent from
// the request and must be left untouched; a non-nil pointer to a zero value is
// still an explicit write.
type TaskUpdate struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

// Fields returns only the explicitly supplied keys.
func (u TaskUpdate) Fields() TaskFields {
	fields := TaskFields{}
	if u.Title != nil {
		fields["title"] = *u.Title
	}
	if u.Description != nil {
		fields["description"] = *u.Description
	}
	if u.Completed != nil {
		fields["completed"] = *u.Completed
	}
	return fields
}
