package storage

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Run struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	StartedAt  time.Time          `bson:"started_at" json:"started_at"`
	FinishedAt *time.Time         `bson:"finished_at,omitempty" json:"finished_at,omitempty"`
	Keyword    string             `bson:"keyword" json:"keyword"`
	Location   string             `bson:"location,omitempty" json:"location,omitempty"`
	MaxInvites int                `bson:"max_invites" json:"max_invites"`
	Sent       int                `bson:"sent" json:"sent"`
	Found      int                `bson:"found" json:"found"`
	Processed  int                `bson:"processed" json:"processed"`
	Outcomes   map[string]int     `bson:"outcomes,omitempty" json:"outcomes,omitempty"`
	State      string             `bson:"state" json:"state"` // final session state
	Error      string             `bson:"error,omitempty" json:"error,omitempty"`
}

type Attempt struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RunID     primitive.ObjectID `bson:"run_id" json:"run_id"`
	Index     int                `bson:"index" json:"index"` // position in document order
	Outcome   string             `bson:"outcome" json:"outcome"`
	Error     string             `bson:"error,omitempty" json:"error,omitempty"`
	Total     int                `bson:"total" json:"total"` // counter value after this attempt
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
