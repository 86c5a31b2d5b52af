package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestTaskJSONRendering(t *testing.T) {
	id := primitive.NewObjectID()
	created := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)
	task := Task{
		ID:        id,
		Title:     "buy milk",
		Completed: false,
		CreatedAt: created,
		UpdatedAt: created,
	}

	data, err := sonic.Marshal(task)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	body := string(data)
	if !strings.Contains(body, `"id":"`+id.Hex()+`"`) {
		t.Fatalf("expected id rendered as hex string, got %s", body)
	}
	if !strings.Contains(body, `"created_at":"2024-03-01T10:30:00Z"`) {
		t.Fatalf("expected RFC 3339 created_at, got %s", body)
	}
	if strings.Contains(body, "due_date") {
		t.Fatalf("expected empty due_date to be omitted, got %s", body)
	}
	if strings.Contains(body, "description") {
		t.Fatalf("expected empty description to be omitted, got %s", body)
	}
	if !strings.Contains(body, `"completed":false`) {
		t.Fatalf("expected completed to always render, got %s", body)
	}
}

func TestTaskUpdateNullMatchesOmitted(t *testing.T) {
	var omitted TaskUpdate
	if err := sonic.Unmarshal([]byte(`{"completed":true}`), &omitted); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	var nulled TaskUpdate
	if err := sonic.Unmarshal([]byte(`{"title":null,"completed":true}`), &nulled); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if omitted.Title != nil || nulled.Title != nil {
		t.Fatalf("expected nil title in both decodings")
	}
	if omitted.Completed == nil || !*omitted.Completed {
		t.Fatalf("expected completed=true to decode")
	}
}

func TestTaskUpdateEmpty(t *testing.T) {
	if !(TaskUpdate{}).Empty() {
		t.Fatalf("zero update should be empty")
	}
	done := true
	if (TaskUpdate{Completed: &done}).Empty() {
		t.Fatalf("update with completed set should not be empty")
	}
}

func TestListFilterEmpty(t *testing.T) {
	if !(ListFilter{}).Empty() {
		t.Fatalf("zero filter should be empty")
	}
	if (ListFilter{Category: "work"}).Empty() {
		t.Fatalf("category filter should not be empty")
	}
	if (ListFilter{Query: "foo"}).Empty() {
		t.Fatalf("query filter should not be empty")
	}
}
