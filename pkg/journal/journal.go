package journal

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go/service/s3"
	log "github.com/sirupsen/logrus"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/Zane-/cryptobot/pkg/s3client"
	"github.com/Zane-/cryptobot/pkg/types"
)

// Entry is one executed order plus when the bot recorded it.
type Entry struct {
	Time  time.Time          `msgpack:"time"`
	Order *types.OrderRecord `msgpack:"order"`
}

// Journal keeps the session's order records: one flat msgpack file,
// rewritten on every snapshot. It is a trade log for operators, not a
// database.
type Journal struct {
	mu      sync.Mutex
	path    string
	entries []Entry
	logger  *log.Entry
}

// Open loads the journal at path, or starts an empty one if the file does
// not exist yet.
func Open(path string) (*Journal, error) {
	j := &Journal{
		path:   path,
		logger: log.WithFields(log.Fields{"component": "journal", "path": path}),
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return j, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fail to open journal: %w", err)
	}
	if err := msgpack.Unmarshal(data, &j.entries); err != nil {
		return nil, fmt.Errorf("fail to decode journal: %w", err)
	}
	return j, nil
}

// Append records an executed order.
func (j *Journal) Append(rec *types.OrderRecord) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, Entry{Time: time.Now(), Order: rec})
}

// Last returns the most recent entry, if any.
func (j *Journal) Last() (Entry, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if len(j.entries) == 0 {
		return Entry{}, false
	}
	return j.entries[len(j.entries)-1], true
}

// Symbols returns the distinct symbols traded this session.
func (j *Journal) Symbols() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	seen := make(map[string]bool, len(j.entries))
	symbols := make([]string, 0, len(j.entries))
	for _, e := range j.entries {
		if e.Order == nil || seen[e.Order.Symbol] {
			continue
		}
		seen[e.Order.Symbol] = true
		symbols = append(symbols, e.Order.Symbol)
	}
	return symbols
}

// Len returns the number of recorded entries.
func (j *Journal) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.entries)
}

// Snapshot writes the full journal to disk.
func (j *Journal) Snapshot() error {
	j.mu.Lock()
	data, err := msgpack.Marshal(j.entries)
	j.mu.Unlock()
	if err != nil {
		return fmt.Errorf("fail to encode journal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(j.path), 0o755); err != nil {
		return fmt.Errorf("fail to create journal dir: %w", err)
	}
	if err := os.WriteFile(j.path, data, 0o644); err != nil {
		return fmt.Errorf("fail to write journal: %w", err)
	}
	return nil
}

// Backup uploads the current journal snapshot to S3.
func (j *Journal) Backup(client *s3.S3, bucket, key string) error {
	j.mu.Lock()
	data, err := msgpack.Marshal(j.entries)
	j.mu.Unlock()
	if err != nil {
		return fmt.Errorf("fail to encode journal: %w", err)
	}
	if err := s3client.UploadObject(client, bucket, key, data); err != nil {
		return fmt.Errorf("fail to upload journal backup: %w", err)
	}
	j.logger.WithFields(log.Fields{"bucket": bucket, "key": key}).Info("journal backed up")
	return nil
}
