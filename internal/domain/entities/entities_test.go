package entities

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTaskIsOverdueAt(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name string
		task Task
		want bool
	}{
		{
			name: "past due and pending",
			task: Task{DueDate: &past},
			want: true,
		},
		{
			name: "past due but completed",
			task: Task{DueDate: &past, IsCompleted: true},
			want: false,
		},
		{
			name: "no due date",
			task: Task{},
			want: false,
		},
		{
			name: "no due date and completed",
			task: Task{IsCompleted: true},
			want: false,
		},
		{
			name: "due in the future",
			task: Task{DueDate: &future},
			want: false,
		},
		{
			name: "due exactly now",
			task: Task{DueDate: &now},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.task.IsOverdueAt(now); got != tt.want {
				t.Errorf("IsOverdueAt() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTaskMarshalIncludesDerivedOverdueFlag(t *testing.T) {
	past := time.Now().Add(-24 * time.Hour)
	task := Task{Title: "Pay rent", DueDate: &past, Priority: PriorityHigh}

	encoded, err := json.Marshal(task)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	overdue, ok := decoded["isOverdue"].(bool)
	if !ok || !overdue {
		t.Errorf("isOverdue = %v, want true", decoded["isOverdue"])
	}
}

func TestPriorityIsValid(t *testing.T) {
	tests := []struct {
		priority Priority
		want     bool
	}{
		{PriorityLow, true},
		{PriorityMedium, true},
		{PriorityHigh, true},
		{Priority("urgent"), false},
		{Priority(""), false},
		{Priority("HIGH"), false},
	}

	for _, tt := range tests {
		if got := tt.priority.IsValid(); got != tt.want {
			t.Errorf("Priority(%q).IsValid() = %v, want %v", tt.priority, got, tt.want)
		}
	}
}

func TestPriorityRankOrdering(t *testing.T) {
	if !(PriorityHigh.Rank() < PriorityMedium.Rank() && PriorityMedium.Rank() < PriorityLow.Rank()) {
		t.Errorf("priority ranks out of order: high=%d medium=%d low=%d",
			PriorityHigh.Rank(), PriorityMedium.Rank(), PriorityLow.Rank())
	}
}
