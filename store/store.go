// Package store connects to the data store and manages sessions,
// preferences, and activity counters
package store

import (
	"encoding/json"
	"errors"
	"io/fs"
	"time"

	bolt "go.etcd.io/bbolt"
	berrors "go.etcd.io/bbolt/errors"

	"github.com/halcyon-app/tend/internal/models"
)

const appBucket = "app"

// Storage keys. These mirror the keys used by the mobile client so a
// synced export stays readable on both sides.
const (
	keySessions    = "coaching_sessions"
	keyPreferences = "notification_preferences"
	keyActivity    = "userActivityData"
)

var pathToDB string

var errTendRunning = errors.New(
	"is tend already running? Only one instance can be active at a time",
)

// Client is a BoltDB database client.
type Client struct {
	*bolt.DB
}

func (c *Client) SaveSessions(sessions []*models.Session) error {
	value, err := json.Marshal(sessions)
	if err != nil {
		return err
	}

	return c.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(appBucket)).Put([]byte(keySessions), value)
	})
}

func (c *Client) Sessions() ([]*models.Session, error) {
	var sessions []*models.Session

	err := c.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(appBucket)).Get([]byte(keySessions))
		if len(b) == 0 {
			// no sessions have been saved yet
			return nil
		}

		return json.Unmarshal(b, &sessions)
	})

	return sessions, err
}

func (c *Client) SavePreferences(prefs *models.Preferences) error {
	value, err := json.Marshal(prefs)
	if err != nil {
		return err
	}

	return c.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(appBucket)).Put([]byte(keyPreferences), value)
	})
}

func (c *Client) Preferences(dest *models.Preferences) (bool, error) {
	var found bool

	err := c.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(appBucket)).Get([]byte(keyPreferences))
		if len(b) == 0 {
			return nil
		}

		found = true

		// unmarshalling over dest keeps defaults for any keys missing
		// from the stored object
		return json.Unmarshal(b, dest)
	})

	return found, err
}

func (c *Client) IncrementTotalSessions() (int, error) {
	var total int

	err := c.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(appBucket))

		var data models.ActivityData

		b := bucket.Get([]byte(keyActivity))
		if len(b) != 0 {
			err := json.Unmarshal(b, &data)
			if err != nil {
				return err
			}
		}

		data.TotalSessions++
		total = data.TotalSessions

		value, err := json.Marshal(&data)
		if err != nil {
			return err
		}

		return bucket.Put([]byte(keyActivity), value)
	})

	return total, err
}

func (c *Client) ActivityData() (*models.ActivityData, error) {
	var data models.ActivityData

	err := c.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(appBucket)).Get([]byte(keyActivity))
		if len(b) == 0 {
			return nil
		}

		return json.Unmarshal(b, &data)
	})

	return &data, err
}

func (c *Client) Open() error {
	db, err := openDB(pathToDB)
	if err != nil {
		return err
	}

	*c = Client{
		db,
	}

	return nil
}

// openDB creates or opens a database and locks it.
func openDB(pathToDB string) (*bolt.DB, error) {
	var fileMode fs.FileMode = 0o600

	db, err := bolt.Open(
		pathToDB,
		fileMode,
		&bolt.Options{Timeout: 1 * time.Second},
	)
	if err != nil {
		// a second instance holding the file lock surfaces as a
		// timeout here
		if errors.Is(err, berrors.ErrTimeout) {
			return nil, errTendRunning
		}

		return nil, err
	}

	return db, nil
}

// NewClient returns a wrapper to a BoltDB connection.
func NewClient(dbPath string) (*Client, error) {
	pathToDB = dbPath

	db, err := openDB(pathToDB)
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err = tx.CreateBucketIfNotExists([]byte(appBucket))
		return err
	})
	if err != nil {
		return nil, err
	}

	return &Client{
		db,
	}, nil
}
