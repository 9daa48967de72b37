package model

import (
	"strings"
	"time"

	apperrors "campus-events/pkg/app_errors"

	"github.com/google/uuid"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Event 活動模型，建立後不再修改
type Event struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Date        string    `json:"date" db:"date_iso"`
	Time        string    `json:"time" db:"time"`
	Venue       string    `json:"venue" db:"venue"`
	Description string    `json:"description" db:"description"`
	Tags        []string  `json:"tags" db:"tags"`
	// Capacity 0 代表不限人數
	Capacity  int       `json:"capacity" db:"capacity"`
	CreatedBy string    `json:"created_by" db:"created_by"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// HasCapacity 檢查活動是否有人數上限
func (e *Event) HasCapacity() bool {
	return e.Capacity > 0
}

// SortKey 日期與時間串接，ISO 格式可直接用字串比較
func (e *Event) SortKey() string {
	t := e.Time
	if t == "" {
		t = "00:00"
	}
	return e.Date + t
}

// StartsAt 以指定時區解析活動開始時間
func (e *Event) StartsAt(loc *time.Location) (time.Time, error) {
	t := e.Time
	if t == "" {
		t = "00:00"
	}
	return time.ParseInLocation(DateLayout+" "+TimeLayout, e.Date+" "+t, loc)
}

// HasAnyTag 檢查活動是否包含任一指定標籤
func (e *Event) HasAnyTag(tags []string) bool {
	for _, want := range tags {
		for _, have := range e.Tags {
			if have == want {
				return true
			}
		}
	}
	return false
}

// SearchText 用於全文搜尋的小寫字串
func (e *Event) SearchText() string {
	parts := []string{e.Title, e.Description, e.Venue}
	parts = append(parts, e.Tags...)
	return strings.ToLower(strings.Join(parts, " "))
}

// EventDraft 主辦方送出的活動草稿
type EventDraft struct {
	Title       string   `json:"title" binding:"required"`
	Date        string   `json:"date" binding:"required"`
	Time        string   `json:"time" binding:"required"`
	Venue       string   `json:"venue" binding:"required"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Capacity    int      `json:"capacity" binding:"min=0"`
}

// Validate 檢查必填欄位與日期時間格式
func (d *EventDraft) Validate() error {
	if strings.TrimSpace(d.Title) == "" || strings.TrimSpace(d.Venue) == "" {
		return apperrors.ErrInvalidInput
	}
	if _, err := time.Parse(DateLayout, strings.TrimSpace(d.Date)); err != nil {
		return apperrors.ErrInvalidInput
	}
	if _, err := time.Parse(TimeLayout, strings.TrimSpace(d.Time)); err != nil {
		return apperrors.ErrInvalidInput
	}
	if d.Capacity < 0 {
		return apperrors.ErrInvalidInput
	}
	return nil
}

// ToEvent 轉成待寫入的活動，ID 與建立時間由 service 指定
func (d *EventDraft) ToEvent(createdBy string) *Event {
	return &Event{
		Title:       strings.TrimSpace(d.Title),
		Date:        strings.TrimSpace(d.Date),
		Time:        strings.TrimSpace(d.Time),
		Venue:       strings.TrimSpace(d.Venue),
		Description: strings.TrimSpace(d.Description),
		Tags:        NormalizeTags(d.Tags),
		Capacity:    d.Capacity,
		CreatedBy:   createdBy,
	}
}
