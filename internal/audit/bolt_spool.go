package audit

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	bolt "github.com/boltdb/bolt"
)

const spoolBucket = "audit_spool"

// BoltSpool is a file-backed Spool. Keys are bolt sequence numbers so
// records drain in the order they were spooled.
type BoltSpool struct {
	db *bolt.DB
}

// OpenBoltSpool opens (or creates) the spool file at path.
func OpenBoltSpool(path string) (*BoltSpool, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open audit spool: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(spoolBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create audit spool bucket: %w", err)
	}
	return &BoltSpool{db: db}, nil
}

// Close releases the file lock.
func (s *BoltSpool) Close() error {
	return s.db.Close()
}

// Put appends rec to the spool.
func (s *BoltSpool) Put(rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(spoolBucket))
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		return b.Put(itob(seq), data)
	})
}

// Drain calls fn for each spooled record in order, removing it once fn
// succeeds. It returns how many records were drained.
func (s *BoltSpool) Drain(fn func(Record) error) (int, error) {
	drained := 0
	for {
		key, rec, ok, err := s.first()
		if err != nil || !ok {
			return drained, err
		}
		if err := fn(rec); err != nil {
			return drained, err
		}
		err = s.db.Update(func(tx *bolt.Tx) error {
			return tx.Bucket([]byte(spoolBucket)).Delete(key)
		})
		if err != nil {
			return drained, err
		}
		drained++
	}
}

// Len returns the number of spooled records.
func (s *BoltSpool) Len() (int, error) {
	n := 0
	err := s.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket([]byte(spoolBucket)).Stats().KeyN
		return nil
	})
	return n, err
}

func (s *BoltSpool) first() ([]byte, Record, bool, error) {
	var (
		key []byte
		rec Record
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		k, v := tx.Bucket([]byte(spoolBucket)).Cursor().First()
		if k == nil {
			return nil
		}
		key = append([]byte(nil), k...)
		return json.Unmarshal(v, &rec)
	})
	if err != nil {
		return nil, Record{}, false, err
	}
	return key, rec, key != nil, nil
}

func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}
