package relay

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/0xPolygon/lanebridge/lane"
	bolt "go.etcd.io/bbolt"
)

const checkpointFileMode = os.FileMode(0600)

var checkpointBucket = []byte("checkpoints")

// Checkpoint is the progress of a lane. Submitted is the last nonce sent to the target,
// Confirmed the last nonce confirmed back to the source.
type Checkpoint struct {
	Submitted uint64 `json:"submitted"`
	Confirmed uint64 `json:"confirmed"`
}

// CheckpointStore keeps one Checkpoint per lane in a bbolt file
type CheckpointStore struct {
	db *bolt.DB
}

func NewCheckpointStore(path string) (*CheckpointStore, error) {
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, checkpointFileMode, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("error opening checkpoint store %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(checkpointBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &CheckpointStore{db: db}, nil
}

// Get returns the checkpoint of the lane, the zero one if the lane was never relayed
func (s *CheckpointStore) Get(id lane.LaneID) (Checkpoint, error) {
	var cp Checkpoint
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(checkpointBucket).Get(id[:])
		if v == nil {
			return nil
		}
		return json.Unmarshal(v, &cp)
	})
	return cp, err
}

func (s *CheckpointStore) Put(id lane.LaneID, cp Checkpoint) error {
	v, err := json.Marshal(cp)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(checkpointBucket).Put(id[:], v)
	})
}

func (s *CheckpointStore) Close() error {
	return s.db.Close()
}
