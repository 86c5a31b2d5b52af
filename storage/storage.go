package storage

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"todo-api/domain"
)

const taskCollection = "task"

// ErrUnavailable is returned by every data operation when no database
// connection was configured.
var ErrUnavailable = errors.New("database not available")

type notFoundError struct{}

func (notFoundError) Error() string { return "task not found" }
func (notFoundError) NotFound()     {}

// Storage provides single-document CRUD over the task collection.
type Storage struct {
	client *mongo.Client
	db     *mongo.Database
	tasks  *mongo.Collection
}

// New creates a Storage from the given connection string. The connection is
// lazy: an unreachable server does not fail here, only individual operations.
// An empty connection string or a malformed URI yields a disconnected Storage
// whose operations return ErrUnavailable, so the caller can keep serving
// diagnostics.
func New(ctx context.Context, connStr, dbName string) (*Storage, error) {
	if connStr == "" {
		return &Storage{}, nil
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(connStr))
	if err != nil {
		return &Storage{}, err
	}
	db := client.Database(dbName)
	return &Storage{client: client, db: db, tasks: db.Collection(taskCollection)}, nil
}

// Connected reports whether a database client was configured. It says nothing
// about server reachability.
func (s *Storage) Connected() bool {
	return s.client != nil
}

// Close releases the underlying client.
func (s *Storage) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

// InsertTask stores a new task with completed=false and server-assigned
// timestamps, returning the generated identifier as a hex string.
func (s *Storage) InsertTask(ctx context.Context, t domain.TaskCreate) (string, error) {
	if s.tasks == nil {
		return "", ErrUnavailable
	}
	now := time.Now().UTC()
	task := domain.Task{
		Title:       t.Title,
		Description: t.Description,
		Category:    t.Category,
		DueDate:     t.DueDate,
		Priority:    t.Priority,
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	res, err := s.tasks.InsertOne(ctx, task)
	if err != nil {
		return "", err
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

// ListTasks returns all tasks matching the filter in store order.
func (s *Storage) ListTasks(ctx context.Context, f domain.ListFilter) ([]domain.Task, error) {
	if s.tasks == nil {
		return nil, ErrUnavailable
	}
	cur, err := s.tasks.Find(ctx, listFilter(f))
	if err != nil {
		return nil, err
	}
	tasks := []domain.Task{}
	if err := cur.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// UpdateTask applies the non-nil fields of changes to the task with the given
// id and returns the updated document. updated_at is always refreshed, even
// for an otherwise empty update.
func (s *Storage) UpdateTask(ctx context.Context, id string, changes domain.TaskUpdate) (domain.Task, error) {
	if s.tasks == nil {
		return domain.Task{}, ErrUnavailable
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.Task{}, fmt.Errorf("invalid task id %q: %w", id, err)
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	res := s.tasks.FindOneAndUpdate(ctx, bson.M{"_id": oid}, updateDocument(changes, time.Now().UTC()), opts)
	var task domain.Task
	if err := res.Decode(&task); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Task{}, notFoundError{}
		}
		return domain.Task{}, err
	}
	return task, nil
}

// DeleteTask removes the task with the given id. A zero delete count is the
// not-found signal; there is no distinction between never-existed and
// already-deleted.
func (s *Storage) DeleteTask(ctx context.Context, id string) error {
	if s.tasks == nil {
		return ErrUnavailable
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid task id %q: %w", id, err)
	}
	res, err := s.tasks.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return notFoundError{}
	}
	return nil
}

// CollectionNames enumerates the database's collections for diagnostics.
func (s *Storage) CollectionNames(ctx context.Context) ([]string, error) {
	if s.db == nil {
		return nil, ErrUnavailable
	}
	return s.db.ListCollectionNames(ctx, bson.D{})
}

// listFilter builds the Mongo filter document. Query input is escaped before
// being embedded in the regex so metacharacters match literally.
func listFilter(f domain.ListFilter) bson.M {
	filter := bson.M{}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.Query != "" {
		pattern := regexp.QuoteMeta(f.Query)
		filter["$or"] = bson.A{
			bson.M{"title": primitive.Regex{Pattern: pattern, Options: "i"}},
			bson.M{"description": primitive.Regex{Pattern: pattern, Options: "i"}},
		}
	}
	return filter
}

// updateDocument builds the $set document for a partial update. Only non-nil
// fields are included; updated_at is always set.
func updateDocument(changes domain.TaskUpdate, now time.Time) bson.M {
	set := bson.M{"updated_at": now}
	if changes.Title != nil {
		set["title"] = *changes.Title
	}
	if changes.Description != nil {
		set["description"] = *changes.Description
	}
	if changes.Category != nil {
		set["category"] = *changes.Category
	}
	if changes.DueDate != nil {
		set["due_date"] = *changes.DueDate
	}
	if changes.Priority != nil {
		set["priority"] = *changes.Priority
	}
	if changes.Completed != nil {
		set["completed"] = *changes.Completed
	}
	return bson.M{"$set": set}
}
