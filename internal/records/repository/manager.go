package repository

import (
	"context"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/Fatherly-P-Titus/SAM-SchoolSystem/internal/errors"
	"github.com/Fatherly-P-Titus/SAM-SchoolSystem/internal/logging"
	recordsDomain "github.com/Fatherly-P-Titus/SAM-SchoolSystem/internal/records/domain"
)

// Per-entity repository file names under the data directory.
const (
	studentsFile  = "students_records.txt"
	staffFile     = "staff_records.txt"
	usersFile     = "users_records.txt"
	expensesFile  = "expenses_records.txt"
	inventoryFile = "inventory_records.txt"
	feesFile      = "fees_records.txt"
	scoresFile    = "scores_records.txt"
	subjectsFile  = "subjects_records.txt"
)

// lineRepository is the slice of the generic repository the manager drives
// uniformly.
type lineRepository interface {
	Name() string
	Load() error
	Persist() error
	Dirty() bool
}

// ManagerConfig configures a Manager.
type ManagerConfig struct {
	// DataDir is the directory holding every repository file.
	DataDir string

	// Crypter seals every repository line.
	Crypter LineCrypter

	// Logger records load and persist events. Optional.
	Logger logging.Logger
}

// Manager owns the eight entity repositories and drives them as a unit:
// concurrent load at startup, concurrent save of whatever is dirty at
// shutdown.
type Manager struct {
	Students  *StudentRepository
	Staff     *Repository[recordsDomain.Staff]
	Users     *Repository[recordsDomain.User]
	Expenses  *Repository[recordsDomain.Expense]
	Inventory *Repository[recordsDomain.InventoryItem]
	Fees      *Repository[recordsDomain.FeeRecord]
	Scores    *Repository[recordsDomain.ScoreRecord]
	Subjects  *Repository[recordsDomain.Subject]

	all []lineRepository
}

// NewManager creates the full repository set under dataDir.
func NewManager(cfg ManagerConfig) (*Manager, error) {
	if cfg.DataDir == "" {
		return nil, errors.Wrap(errors.ErrInvalidInput, "records manager requires a data directory")
	}
	if cfg.Crypter == nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, "records manager requires a crypter")
	}

	path := func(name string) string { return filepath.Join(cfg.DataDir, name) }

	students, err := NewStudentRepository(path(studentsFile), cfg.Crypter, cfg.Logger)
	if err != nil {
		return nil, err
	}
	staff, err := NewRepository("staff", path(staffFile), cfg.Crypter, cfg.Logger, recordsDomain.ParseStaff)
	if err != nil {
		return nil, err
	}
	users, err := NewRepository("user", path(usersFile), cfg.Crypter, cfg.Logger, recordsDomain.ParseUser)
	if err != nil {
		return nil, err
	}
	expenses, err := NewRepository("expense", path(expensesFile), cfg.Crypter, cfg.Logger, recordsDomain.ParseExpense)
	if err != nil {
		return nil, err
	}
	inventory, err := NewRepository("inventory", path(inventoryFile), cfg.Crypter, cfg.Logger, recordsDomain.ParseInventoryItem)
	if err != nil {
		return nil, err
	}
	fees, err := NewRepository("fee", path(feesFile), cfg.Crypter, cfg.Logger, recordsDomain.ParseFeeRecord)
	if err != nil {
		return nil, err
	}
	scores, err := NewRepository("score", path(scoresFile), cfg.Crypter, cfg.Logger, recordsDomain.ParseScoreRecord)
	if err != nil {
		return nil, err
	}
	subjects, err := NewRepository("subject", path(subjectsFile), cfg.Crypter, cfg.Logger, recordsDomain.ParseSubject)
	if err != nil {
		return nil, err
	}

	m := &Manager{
		Students:  students,
		Staff:     staff,
		Users:     users,
		Expenses:  expenses,
		Inventory: inventory,
		Fees:      fees,
		Scores:    scores,
		Subjects:  subjects,
	}
	m.all = []lineRepository{
		students, staff, users, expenses, inventory, fees, scores, subjects,
	}
	return m, nil
}

// LoadAll loads every repository concurrently. The first failure cancels the
// rest and is returned; per-line corruption inside one repository is not a
// failure.
func (m *Manager) LoadAll(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, repo := range m.all {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return repo.Load()
		})
	}
	return g.Wait()
}

// SaveAll persists every dirty repository concurrently.
func (m *Manager) SaveAll(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, repo := range m.all {
		if !repo.Dirty() {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return repo.Persist()
		})
	}
	return g.Wait()
}

// Dirty names the repositories holding unpersisted changes.
func (m *Manager) Dirty() []string {
	var names []string
	for _, repo := range m.all {
		if repo.Dirty() {
			names = append(names, repo.Name())
		}
	}
	return names
}
