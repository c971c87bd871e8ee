package services

import (
	"context"
	"testing"
	"time"

	"taskboard/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUpdateChangesDiffsOnlyTitleAndGroup(t *testing.T) {
	old := &models.Task{Title: "A", GroupID: "g1", Description: "old", Status: 1}
	updated := &models.Task{Title: "B", GroupID: "g2", Description: "new", Status: 6, Completed: true}

	changes := UpdateChanges(old, updated)
	if len(changes) != 2 {
		t.Fatalf("changes = %v, want exactly title and group", changes)
	}
	if changes["title"] != "B" {
		t.Errorf("title change = %v, want B", changes["title"])
	}
	if changes["group"] != "g2" {
		t.Errorf("group change = %v, want g2", changes["group"])
	}

	// No diffable change at all.
	same := UpdateChanges(old, &models.Task{Title: "A", GroupID: "g1", Description: "completely different"})
	if len(same) != 0 {
		t.Errorf("changes = %v, want empty", same)
	}
}

func TestTrailIsNewestFirstWithNames(t *testing.T) {
	users := newMemUserRepo()
	repo := newMemAuditRepo()
	service := NewAuditService(repo, users)

	actor := users.add("Ana")
	taskID := primitive.NewObjectID().Hex()

	base := time.Now()
	repo.records = append(repo.records,
		models.AuditRecord{TaskID: taskID, Action: models.AuditCreate, ChangedBy: actor.ID.Hex(), Timestamp: base.Add(-2 * time.Minute)},
		models.AuditRecord{TaskID: taskID, Action: models.AuditUpdate, ChangedBy: actor.ID.Hex(), Timestamp: base.Add(-1 * time.Minute)},
		models.AuditRecord{TaskID: taskID, Action: models.AuditDelete, ChangedBy: "not-an-object-id", Timestamp: base},
	)

	entries, err := service.Trail(context.Background(), taskID)
	if err != nil {
		t.Fatalf("Trail: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}

	wantOrder := []models.AuditAction{models.AuditDelete, models.AuditUpdate, models.AuditCreate}
	for i, want := range wantOrder {
		if entries[i].Action != want {
			t.Errorf("entry %d action = %s, want %s", i, entries[i].Action, want)
		}
	}

	if entries[1].ChangedByName != "Ana" {
		t.Errorf("changedByName = %q, want Ana", entries[1].ChangedByName)
	}
	if entries[0].ChangedByName != "" {
		t.Errorf("unresolvable actor name = %q, want empty", entries[0].ChangedByName)
	}
}

func TestRecordStampsActorAndTime(t *testing.T) {
	users := newMemUserRepo()
	repo := newMemAuditRepo()
	service := NewAuditService(repo, users)

	actor := users.add("Ana")
	taskID := primitive.NewObjectID().Hex()

	before := time.Now()
	if err := service.Record(context.Background(), taskID, models.AuditCreate, actor.ID, map[string]interface{}{"title": "x"}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	records := repo.forTask(taskID)
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	record := records[0]
	if record.ChangedBy != actor.ID.Hex() {
		t.Errorf("changedBy = %s, want %s", record.ChangedBy, actor.ID.Hex())
	}
	if record.Timestamp.Before(before) {
		t.Error("timestamp predates the call")
	}
}
