package storage

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	ConfigBucket = []byte("config") // Journal version, creation time, vault id
	EventsBucket = []byte("events") // Mutation history keyed by sequence
)

// Config keys
var (
	ConfigVersion = []byte("version")
	ConfigCreated = []byte("created")
	ConfigVaultID = []byte("vault_id")
)

const journalVersion = "1"

var ErrVaultIDNotFound = errors.New("vault_id not found")

// Event describes one completed mutation of the codex. Secrets are never
// recorded.
type Event struct {
	Seq    uint64    `json:"seq"`
	Op     string    `json:"op"`
	Alias  string    `json:"alias,omitempty"`
	Detail string    `json:"detail,omitempty"`
	Backup string    `json:"backup,omitempty"`
	At     time.Time `json:"at"`
}

// Journal is the BBolt database kept next to the codex
type Journal struct {
	db *bolt.DB
}

// OpenJournal opens or creates a journal database and its buckets
func OpenJournal(path string) (*Journal, error) {
	if err := EnsureParentDirs(path); err != nil {
		return nil, err
	}

	db, err := bolt.Open(path, FilePermSecure, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	j := &Journal{db: db}
	if err := j.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return j, nil
}

// Close closes the database
func (j *Journal) Close() error {
	return j.db.Close()
}

func (j *Journal) initialize() error {
	return j.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{ConfigBucket, EventsBucket} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}

		config := tx.Bucket(ConfigBucket)
		if config.Get(ConfigVersion) != nil {
			return nil
		}
		if err := config.Put(ConfigVersion, []byte(journalVersion)); err != nil {
			return err
		}
		created, _ := time.Now().MarshalBinary()
		return config.Put(ConfigCreated, created)
	})
}

// GetCreated returns when the journal was first initialized
func (j *Journal) GetCreated() (time.Time, error) {
	var created time.Time
	err := j.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(ConfigBucket).Get(ConfigCreated)
		if data == nil {
			return fmt.Errorf("created time not found")
		}
		return created.UnmarshalBinary(data)
	})
	return created, err
}

// GetVaultID retrieves the vault ID from config bucket
func (j *Journal) GetVaultID() (string, error) {
	var vaultID string
	err := j.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(ConfigBucket).Get(ConfigVaultID)
		if data == nil {
			return ErrVaultIDNotFound
		}
		vaultID = string(data)
		return nil
	})
	return vaultID, err
}

// GetOrCreateVaultID retrieves existing vault ID or generates a new one
func (j *Journal) GetOrCreateVaultID() (string, error) {
	vaultID, err := j.GetVaultID()
	if err == nil {
		return vaultID, nil
	}
	if !errors.Is(err, ErrVaultIDNotFound) {
		return "", err
	}

	err = j.db.Update(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		// Another process may have won the race
		if existing := config.Get(ConfigVaultID); existing != nil {
			vaultID = string(existing)
			return nil
		}
		vaultID = uuid.NewString()
		return config.Put(ConfigVaultID, []byte(vaultID))
	})
	if err != nil {
		return "", fmt.Errorf("failed to store vault ID: %w", err)
	}
	return vaultID, nil
}

// AppendEvent stores an event under the next sequence number
func (j *Journal) AppendEvent(ev Event) (uint64, error) {
	var seq uint64
	err := j.db.Update(func(tx *bolt.Tx) error {
		events := tx.Bucket(EventsBucket)
		next, err := events.NextSequence()
		if err != nil {
			return err
		}
		seq = next
		ev.Seq = seq
		if ev.At.IsZero() {
			ev.At = time.Now()
		}

		data, err := json.Marshal(ev)
		if err != nil {
			return err
		}
		return events.Put(seqKey(seq), data)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to append journal event: %w", err)
	}
	return seq, nil
}

// Events returns up to limit events, newest first. A limit of zero or less
// returns every event.
func (j *Journal) Events(limit int) ([]Event, error) {
	var events []Event
	err := j.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(EventsBucket).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(events) >= limit {
				break
			}
			var ev Event
			if err := json.Unmarshal(v, &ev); err != nil {
				// Skip corrupt entries
				continue
			}
			events = append(events, ev)
		}
		return nil
	})
	return events, err
}

func seqKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}
