package service_test

import (
	"time"

	"campus-events/internal/model"

	"github.com/google/uuid"
)

var (
	student   = &model.User{ID: "stu-1", Name: "Ada", Email: "ada@example.edu", Role: model.RoleStudent}
	organizer = &model.User{ID: "org-1", Name: "Grace", Email: "grace@example.edu", Role: model.RoleOrganizer}
)

func newEvent(title, date, clock string, capacity int) *model.Event {
	return &model.Event{
		ID:        uuid.New(),
		Title:     title,
		Date:      date,
		Time:      clock,
		Venue:     "Main Hall",
		Tags:      []string{"tech"},
		Capacity:  capacity,
		CreatedBy: organizer.ID,
		CreatedAt: time.Now().UTC(),
	}
}

// sequenceCodes 依序回傳預先給定的票券代碼
type sequenceCodes struct {
	codes []string
	calls int
}

func (g *sequenceCodes) Generate() (string, error) {
	code := g.codes[g.calls%len(g.codes)]
	g.calls++
	return code, nil
}
