package storage

import (
	"context"
	"fmt"
	"time"

	"linkedin-autoconnect/internal/connection"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Begin inserts the run document and returns a recorder bound to it.
func (db *DB) Begin(ctx context.Context, run *Run) (connection.Recorder, error) {
	if run.ID.IsZero() {
		run.ID = primitive.NewObjectID()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}

	if _, err := db.runs.InsertOne(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to save run: %w", err)
	}
	return &runRecorder{db: db, runID: run.ID}, nil
}

// Finish stores the final tallies of a run started with Begin.
func (db *DB) Finish(ctx context.Context, run *Run) error {
	now := time.Now()
	run.FinishedAt = &now

	update := bson.M{
		"$set": bson.M{
			"finished_at": now,
			"sent":        run.Sent,
			"found":       run.Found,
			"processed":   run.Processed,
			"outcomes":    run.Outcomes,
			"state":       run.State,
			"error":       run.Error,
		},
	}

	if _, err := db.runs.UpdateByID(ctx, run.ID, update); err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	return nil
}

func (db *DB) SaveAttempt(ctx context.Context, attempt *Attempt) error {
	if attempt.ID.IsZero() {
		attempt.ID = primitive.NewObjectID()
	}
	if _, err := db.attempts.InsertOne(ctx, attempt); err != nil {
		return fmt.Errorf("failed to save attempt: %w", err)
	}
	return nil
}

type runRecorder struct {
	db    *DB
	runID primitive.ObjectID
}

func (r *runRecorder) RecordAttempt(ctx context.Context, a connection.Attempt) error {
	doc := &Attempt{
		RunID:     r.runID,
		Index:     a.Index,
		Outcome:   a.Outcome.String(),
		Total:     a.Total,
		CreatedAt: a.At,
	}
	if a.Err != nil {
		doc.Error = a.Err.Error()
	}
	return r.db.SaveAttempt(ctx, doc)
}

// Nop is the activity log used when no MongoDB is configured.
type Nop struct{}

func (Nop) Begin(ctx context.Context, run *Run) (connection.Recorder, error) {
	return nopRecorder{}, nil
}

func (Nop) Finish(ctx context.Context, run *Run) error { return nil }

type nopRecorder struct{}

func (nopRecorder) RecordAttempt(context.Context, connection.Attempt) error { return nil }
