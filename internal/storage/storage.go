package storage

import (
	"encoding/json"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/hailam/hexplay/internal/board"
	"github.com/hailam/hexplay/internal/book"
	"github.com/hailam/hexplay/internal/engine"
)

// Storage keys
const (
	keyPreferences = "preferences"
	keyFirstLaunch = "first_launch"
	prefixBook     = "book/"
)

// Preferences stores engine settings between sessions.
type Preferences struct {
	BoardSize    int               `json:"board_size"`
	Difficulty   engine.Difficulty `json:"difficulty"`
	EnginePlayer board.Player      `json:"engine_player"`
	TimeBudget   time.Duration     `json:"time_budget"`
	Threads      int               `json:"threads"`
	Weights      engine.Weights    `json:"weights"`
	LastUsed     time.Time         `json:"last_used"`
}

// DefaultPreferences returns default preferences
func DefaultPreferences() *Preferences {
	return &Preferences{
		BoardSize:    11,
		Difficulty:   engine.Medium,
		EnginePlayer: board.PlayerB,
		TimeBudget:   engine.DifficultySettings[engine.Medium].MoveTime,
		Threads:      1,
		Weights:      engine.DefaultWeights(),
		LastUsed:     time.Now(),
	}
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db *badger.DB
}

// NewStorage opens the database in the platform data directory.
func NewStorage() (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return Open(dbDir)
}

// Open opens or creates the database in dir.
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging
	return open(opts)
}

// OpenInMemory opens a database that lives only as long as the process.
func OpenInMemory() (*Storage, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	return open(opts)
}

func open(opts badger.Options) (*Storage, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// IsFirstLaunch returns true if this is the first launch
func (s *Storage) IsFirstLaunch() (bool, error) {
	firstLaunch := true

	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(keyFirstLaunch))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		firstLaunch = false
		return nil
	})

	return firstLaunch, err
}

// MarkFirstLaunchComplete marks that first launch setup is complete
func (s *Storage) MarkFirstLaunchComplete() error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyFirstLaunch), []byte("done"))
	})
}

// SavePreferences saves preferences
func (s *Storage) SavePreferences(prefs *Preferences) error {
	prefs.LastUsed = time.Now()

	data, err := json.Marshal(prefs)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPreferences), data)
	})
}

// LoadPreferences loads preferences, returns defaults if not found
func (s *Storage) LoadPreferences() (*Preferences, error) {
	prefs := DefaultPreferences()

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPreferences))
		if err == badger.ErrKeyNotFound {
			return nil // Use defaults
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, prefs)
		})
	})

	return prefs, err
}

// SaveBook replaces the stored opening book with bk.
func (s *Storage) SaveBook(bk *book.Book) error {
	if err := s.db.DropPrefix([]byte(prefixBook)); err != nil {
		return err
	}

	wb := s.db.NewWriteBatch()
	defer wb.Cancel()

	for _, e := range bk.Entries() {
		buf := book.EncodeEntry(e)
		if err := wb.Set(bookKey(buf), buf[:]); err != nil {
			return err
		}
	}
	return wb.Flush()
}

// LoadBook loads the stored opening book. The book is empty if none was
// saved.
func (s *Storage) LoadBook(opts ...book.Option) (*book.Book, error) {
	bk := book.New(opts...)
	prefix := []byte(prefixBook)

	err := s.db.View(func(txn *badger.Txn) error {
		itOpts := badger.DefaultIteratorOptions
		itOpts.Prefix = prefix
		it := txn.NewIterator(itOpts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				e, err := book.DecodeEntry(val)
				if err != nil {
					return err
				}
				bk.AddEntry(e)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return bk, nil
}

// bookKey is the book prefix followed by the entry's position key, player
// and cell, which identify it uniquely.
func bookKey(encoded [16]byte) []byte {
	key := make([]byte, 0, len(prefixBook)+11)
	key = append(key, prefixBook...)
	return append(key, encoded[:11]...)
}
