package models

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// IndexDist selects the similarity metric used for nearest-neighbor
// lookups against a job's embeddings. The score sign convention per
// metric is fixed here and relied on by the search engine:
//
//   - cosine-hnsw: score is cosine similarity, higher is better.
//   - ip-hnsw: score is the raw inner product, higher is better.
//   - l2-hnsw: score is the negated Euclidean distance, higher is better.
//
// All three therefore sort non-increasing, best match first.
type IndexDist string

const (
	IndexDistCosine IndexDist = "cosine-hnsw"
	IndexDistIP     IndexDist = "ip-hnsw"
	IndexDistL2     IndexDist = "l2-hnsw"
)

// ParseIndexDist validates s against the closed set of supported values.
func ParseIndexDist(s string) (IndexDist, error) {
	switch IndexDist(s) {
	case IndexDistCosine, IndexDistIP, IndexDistL2:
		return IndexDist(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidIndexDist, s)
}

// TableMethod selects how embeddings are stored relative to the source
// table. "join" keeps them in a derived table joined on the primary key;
// "append" requests an embedding column on the source table itself. The
// embedded store realizes both as the join layout.
type TableMethod string

const (
	TableMethodJoin   TableMethod = "join"
	TableMethodAppend TableMethod = "append"
)

// ParseTableMethod validates s against the closed set of supported values.
func ParseTableMethod(s string) (TableMethod, error) {
	switch TableMethod(s) {
	case TableMethodJoin, TableMethodAppend:
		return TableMethod(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidTableMethod, s)
}

// ScheduleRealtime is the sentinel schedule for trigger-based refresh
// instead of a cron cadence.
const ScheduleRealtime = "realtime"

// ValidateSchedule accepts either the realtime sentinel or a standard
// five-field cron expression.
func ValidateSchedule(s string) error {
	if s == ScheduleRealtime {
		return nil
	}
	if _, err := cron.ParseStandard(s); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidSchedule, s, err)
	}
	return nil
}

// Job is a registered binding of a source table and its text columns to
// an embedding model, distance metric, and refresh schedule. Name is the
// unique key; re-registering a name updates the existing record in place.
type Job struct {
	ID          string
	Name        string
	Schema      string
	Table       string
	Columns     []string
	PrimaryKey  string
	UpdateCol   string
	IndexDist   IndexDist
	Model       Model
	TableMethod TableMethod
	Schedule    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate checks the invariants every persisted job must satisfy.
func (j *Job) Validate() error {
	if j.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidJob)
	}
	if len(j.Columns) == 0 {
		return fmt.Errorf("%w: job %q has no columns", ErrInvalidJob, j.Name)
	}
	if j.Table == "" {
		return fmt.Errorf("%w: job %q has no table", ErrInvalidJob, j.Name)
	}
	if j.PrimaryKey == "" {
		return fmt.Errorf("%w: job %q has no primary key", ErrInvalidJob, j.Name)
	}
	if _, err := ParseIndexDist(string(j.IndexDist)); err != nil {
		return err
	}
	if _, err := ParseTableMethod(string(j.TableMethod)); err != nil {
		return err
	}
	return ValidateSchedule(j.Schedule)
}
