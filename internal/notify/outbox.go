// Package notify delivers user notifications outside the request that caused
// them. Messages are first written to a local bbolt outbox, then handed to
// worker goroutines; whatever the workers fail to deliver stays in the outbox
// for the next sweep.
package notify

import (
	"fmt"
	"sort"
	"time"

	"github.com/goccy/go-json"
	bolt "go.etcd.io/bbolt"
)

var (
	pendingBucket = []byte("pending")
	deadBucket    = []byte("dead")
)

// Message is one notification waiting for delivery.
type Message struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	Attempts  int       `json:"attempts"`
	LastError string    `json:"last_error,omitempty"`
}

type Outbox struct {
	db *bolt.DB
}

func OpenOutbox(path string) (*Outbox, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("error opening outbox %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{pendingBucket, deadBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("error preparing outbox: %w", err)
	}
	return &Outbox{db: db}, nil
}

func (o *Outbox) Close() error {
	return o.db.Close()
}

// Put stores or replaces a pending message.
func (o *Outbox) Put(msg Message) error {
	return o.put(pendingBucket, msg)
}

func (o *Outbox) put(bucket []byte, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return o.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Put([]byte(msg.ID), data)
	})
}

// Ack removes a delivered message. Acking an unknown ID is not an error.
func (o *Outbox) Ack(id string) error {
	return o.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(pendingBucket).Delete([]byte(id))
	})
}

// Bury moves a message that keeps failing out of the pending set.
func (o *Outbox) Bury(msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return o.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(deadBucket).Put([]byte(msg.ID), data); err != nil {
			return err
		}
		return tx.Bucket(pendingBucket).Delete([]byte(msg.ID))
	})
}

// Pending returns the messages still waiting, oldest first.
func (o *Outbox) Pending() ([]Message, error) {
	return o.list(pendingBucket)
}

func (o *Outbox) Dead() ([]Message, error) {
	return o.list(deadBucket)
}

func (o *Outbox) list(bucket []byte) ([]Message, error) {
	var out []Message
	err := o.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).ForEach(func(_, v []byte) error {
			var msg Message
			if err := json.Unmarshal(v, &msg); err != nil {
				return err
			}
			out = append(out, msg)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("error reading outbox: %w", err)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
