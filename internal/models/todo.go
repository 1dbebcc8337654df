package models

import "time"

// MaxTodoTextLength is the storage limit for todo text (VARCHAR(500))
const MaxTodoTextLength = 500

// TodoItem represents one entry in a day's list.
// SortOrder is the zero-based position within the item's date and defines
// display order. CreatedAt breaks ties when sort orders are equal or absent.
type TodoItem struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	Date      string    `json:"date,omitempty"`
	SortOrder int       `json:"-"`
	CreatedAt time.Time `json:"-"`
}

// DailyStat is the per-date completion breakdown used for insight generation.
type DailyStat struct {
	Date        string `json:"todo_date"`
	DoneCount   int    `json:"done_count"`
	UndoneCount int    `json:"undone_count"`
}
