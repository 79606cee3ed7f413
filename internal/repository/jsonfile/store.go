// Package jsonfile keeps each collection in its own JSON document inside a
// data directory, the layout the restaurant front end was built against.
package jsonfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/mutex/v2"
	"github.com/juju/utils/v4"

	"restaurant-ordering/internal/common/logger"
	"restaurant-ordering/internal/domain"
)

const (
	MenuFile            = "menu.json"
	OrdersFile          = "orders.json"
	PaidOrdersFile      = "paidorders.json"
	CompletedOrdersFile = "completedOrders.json"
	BestsellerFile      = "bestseller.json"
)

const (
	lockDelay   = 10 * time.Millisecond
	lockTimeout = 10 * time.Second
)

type stageFile struct{ name, key string }

var stageFiles = map[domain.Stage]stageFile{
	domain.StageOpen:      {OrdersFile, "orders"},
	domain.StagePaid:      {PaidOrdersFile, "paidOrders"},
	domain.StageCompleted: {CompletedOrdersFile, "completedOrders"},
}

type Options struct {
	// ProcessLock also serialises writers in other processes sharing the
	// directory, such as the bestseller CLI running next to the server.
	ProcessLock bool
	Clock       clock.Clock
	Logger      *logger.Logger
}

type Store struct {
	dir         string
	mu          sync.Mutex
	processLock bool
	lockName    string
	clock       clock.Clock
	log         *logger.Logger
}

// Open prepares dir, creating empty collections that are missing, and
// repairs orders left in two stages by an interrupted move.
func Open(dir string, opts Options) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Annotatef(err, "create data dir %s", dir)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Trace(err)
	}
	s := &Store{
		dir:         abs,
		processLock: opts.ProcessLock,
		lockName:    lockName(abs),
		clock:       opts.Clock,
		log:         opts.Logger,
	}
	if s.clock == nil {
		s.clock = clock.WallClock
	}
	if s.log == nil {
		s.log = logger.New("jsonfile-store")
	}

	err = s.withLock(func() error {
		if err := s.ensureFiles(); err != nil {
			return err
		}
		return s.reconcile()
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) Dir() string { return s.dir }

func (s *Store) Menu() *MenuRepository { return &MenuRepository{s: s} }
func (s *Store) Orders() *OrderRepository { return &OrderRepository{s: s} }
func (s *Store) Bestsellers() *BestsellerRepository { return &BestsellerRepository{s: s} }

func lockName(dir string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(dir))
	return fmt.Sprintf("restaurant-%08x", h.Sum32())
}

func (s *Store) withLock(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.processLock {
		releaser, err := mutex.Acquire(mutex.Spec{
			Name:    s.lockName,
			Clock:   clock.WallClock,
			Delay:   lockDelay,
			Timeout: lockTimeout,
		})
		if err != nil {
			return errors.Annotate(err, "acquire data dir lock")
		}
		defer releaser.Release()
	}
	return fn()
}

func (s *Store) path(name string) string { return filepath.Join(s.dir, name) }

func (s *Store) ensureFiles() error {
	if _, err := os.Stat(s.path(MenuFile)); os.IsNotExist(err) {
		m := domain.Menu{Items: []domain.MenuItem{}, Categories: []domain.Category{}, LastUpdated: s.now()}
		if err := s.write(MenuFile, m); err != nil {
			return err
		}
	}
	for _, st := range domain.Stages {
		f := stageFiles[st]
		if _, err := os.Stat(s.path(f.name)); os.IsNotExist(err) {
			if err := s.writeStage(st, nil); err != nil {
				return err
			}
		}
	}
	return nil
}

// reconcile keeps every order id only in the most advanced stage holding it.
// Moves write the destination before the source, so a crash in between
// leaves a duplicate, never a loss.
func (s *Store) reconcile() error {
	seen := map[string]bool{}
	for i := len(domain.Stages) - 1; i >= 0; i-- {
		st := domain.Stages[i]
		orders, err := s.readStage(st)
		if err != nil {
			return err
		}
		kept := orders[:0]
		for _, o := range orders {
			if seen[o.ID] {
				s.log.Warn("reconcile_duplicate_order", map[string]any{"order_id": o.ID, "dropped_from": string(st)})
				continue
			}
			seen[o.ID] = true
			kept = append(kept, o)
		}
		if len(kept) != len(orders) {
			if err := s.writeStage(st, kept); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Store) now() time.Time { return s.clock.Now().UTC() }

// read decodes name into v. It reports false when the file is missing or empty.
func (s *Store) read(name string, v any) (bool, error) {
	b, err := os.ReadFile(s.path(name))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, errors.Annotatef(err, "read %s", name)
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(b, v); err != nil {
		return false, errors.Annotatef(err, "decode %s", name)
	}
	return true, nil
}

func (s *Store) write(name string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Annotatef(err, "encode %s", name)
	}
	b = append(b, '\n')
	if err := utils.AtomicWriteFile(s.path(name), b, 0o644); err != nil {
		return errors.Annotatef(err, "write %s", name)
	}
	return nil
}

func (s *Store) readStage(st domain.Stage) ([]domain.Order, error) {
	f, ok := stageFiles[st]
	if !ok {
		return nil, errors.NotValidf("stage %q", st)
	}
	var env map[string]json.RawMessage
	if _, err := s.read(f.name, &env); err != nil {
		return nil, err
	}
	orders := []domain.Order{}
	if raw, ok := env[f.key]; ok {
		if err := json.Unmarshal(raw, &orders); err != nil {
			return nil, errors.Annotatef(err, "decode %s", f.name)
		}
		if orders == nil {
			orders = []domain.Order{}
		}
	}
	return orders, nil
}

func (s *Store) writeStage(st domain.Stage, orders []domain.Order) error {
	f, ok := stageFiles[st]
	if !ok {
		return errors.NotValidf("stage %q", st)
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return s.write(f.name, map[string]any{f.key: orders, "lastUpdated": s.now()})
}
