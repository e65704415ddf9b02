package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.opencensus.io/trace"

	"github.com/tokenizedart/settlement/internal/platform/db"
)

const storageKey = "events"

// Journal is the append-only notification log. Records are stored as
// individual documents keyed by sequence number so replay order matches
// append order.
type Journal struct {
	dbConn *db.DB

	mu      sync.Mutex
	nextSeq uint64
}

// OpenJournal loads the journal state from storage. The next sequence number
// continues after the highest stored record.
func OpenJournal(ctx context.Context, dbConn *db.DB) (*Journal, error) {
	ctx, span := trace.StartSpan(ctx, "events.OpenJournal")
	defer span.End()

	keys, err := dbConn.List(ctx, storageKey)
	if err != nil {
		return nil, errors.Wrap(err, "list journal")
	}

	j := &Journal{dbConn: dbConn}
	if len(keys) > 0 {
		last := keys[len(keys)-1]
		var seq uint64
		if _, err := fmt.Sscanf(last, storageKey+"/%d", &seq); err != nil {
			return nil, errors.Wrapf(err, "parse journal key %s", last)
		}
		j.nextSeq = seq + 1
	}

	return j, nil
}

// Append writes one notification to the journal.
func (j *Journal) Append(ctx context.Context, typ Type, payload interface{}, now int64) error {
	ctx, span := trace.StartSpan(ctx, "events.Journal.Append")
	defer span.End()

	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "marshal payload")
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	rec := Record{
		ID:        uuid.New().String(),
		Seq:       j.nextSeq,
		Type:      typ,
		Timestamp: now,
		Payload:   body,
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return errors.Wrap(err, "marshal record")
	}

	if err := j.dbConn.Put(ctx, buildStoragePath(rec.Seq), data); err != nil {
		return errors.Wrap(err, "write record")
	}

	j.nextSeq++
	return nil
}

// Replay invokes fn for every record in sequence order. Replay stops on the
// first error from fn.
func (j *Journal) Replay(ctx context.Context, fn func(Record) error) error {
	ctx, span := trace.StartSpan(ctx, "events.Journal.Replay")
	defer span.End()

	keys, err := j.dbConn.List(ctx, storageKey)
	if err != nil {
		return errors.Wrap(err, "list journal")
	}

	for _, key := range keys {
		data, err := j.dbConn.Fetch(ctx, key)
		if err != nil {
			return errors.Wrapf(err, "fetch %s", key)
		}

		var rec Record
		if err := json.Unmarshal(data, &rec); err != nil {
			return errors.Wrapf(err, "unmarshal %s", key)
		}

		if err := fn(rec); err != nil {
			return err
		}
	}

	return nil
}

// Len returns the number of appended records.
func (j *Journal) Len() uint64 {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.nextSeq
}

// Now returns the current unix timestamp used for journal records when the
// caller does not carry one.
func Now() int64 {
	return time.Now().Unix()
}

func buildStoragePath(seq uint64) string {
	return fmt.Sprintf("%s/%012d", storageKey, seq)
}
