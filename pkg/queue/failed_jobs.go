package queue

import (
	"context"
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shashiranjanraj/chefhut/pkg/logger"
)

// failedJobDoc is the shape persisted to Mongo for inspection and replay.
type failedJobDoc struct {
	JobType  string    `bson:"jobType"`
	Payload  string    `bson:"payload"`
	Error    string    `bson:"error"`
	Attempts int       `bson:"attempts"`
	FailedAt time.Time `bson:"failedAt"`
}

var failedCol *mongo.Collection

// PersistFailedTo configures a Mongo collection where exhausted jobs are
// recorded. Without it failures are kept in memory only.
func PersistFailedTo(col *mongo.Collection) {
	failedCol = col
}

func (m *Manager) persistFailed(job Job, typeName string, err error, attempts int) {
	m.mu.Lock()
	m.failed = append(m.failed, FailedJob{
		Job:      job,
		Err:      err,
		FailedAt: time.Now(),
		Attempts: attempts,
	})
	m.mu.Unlock()

	if failedCol == nil {
		return
	}

	payload := ""
	if raw, mErr := marshalPayload(job); mErr == nil {
		payload = raw
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_, insErr := failedCol.InsertOne(ctx, failedJobDoc{
		JobType:  typeName,
		Payload:  payload,
		Error:    err.Error(),
		Attempts: attempts,
		FailedAt: time.Now(),
	})
	if insErr != nil {
		logger.Error("queue: persist failed job", "error", insErr)
	}
}

func marshalPayload(job Job) (string, error) {
	raw, err := json.Marshal(job)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
