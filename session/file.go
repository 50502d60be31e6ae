package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/agentmc/core"
)

// FileStore is a TranscriptStore writing one YAML document per transcript
// into a directory.
type FileStore struct {
	mu  sync.Mutex
	dir string
}

// NewFileStore creates a store rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create transcript dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

type transcriptFile struct {
	ID       string        `yaml:"id"`
	SavedAt  time.Time     `yaml:"saved_at"`
	Messages []messageLine `yaml:"messages"`
}

type messageLine struct {
	ID        string    `yaml:"id"`
	Sender    string    `yaml:"sender"`
	Content   string    `yaml:"content"`
	Timestamp time.Time `yaml:"timestamp"`
}

// Path returns the file backing transcript id. Ids must be plain file
// names; anything that would resolve outside the store's directory is
// rejected with core.ErrInvalidTranscriptID.
func (s *FileStore) Path(id string) (string, error) {
	if id == "" || id == "." || id == ".." || filepath.Base(id) != id || filepath.IsAbs(id) {
		return "", fmt.Errorf("%w: %q", core.ErrInvalidTranscriptID, id)
	}
	return filepath.Join(s.dir, id+".yaml"), nil
}

// Save writes messages to the transcript file, replacing it atomically.
func (s *FileStore) Save(id string, messages []core.Message) error {
	path, err := s.Path(id)
	if err != nil {
		return err
	}

	doc := transcriptFile{ID: id, SavedAt: time.Now().UTC(), Messages: make([]messageLine, len(messages))}
	for i, m := range messages {
		doc.Messages[i] = messageLine{ID: m.ID, Sender: m.Sender, Content: m.Content, Timestamp: m.Timestamp}
	}

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("encode transcript: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}

	return nil
}

// Load reads transcript id. Message indexes are reassigned from file order.
func (s *FileStore) Load(id string) ([]core.Message, error) {
	path, err := s.Path(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	data, err := os.ReadFile(path)
	s.mu.Unlock()

	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", core.ErrTranscriptNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}

	var doc transcriptFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode transcript: %w", err)
	}

	msgs := make([]core.Message, len(doc.Messages))
	for i, l := range doc.Messages {
		msgs[i] = core.Message{ID: l.ID, Index: i, Sender: l.Sender, Content: l.Content, Timestamp: l.Timestamp}
	}

	return msgs, nil
}
