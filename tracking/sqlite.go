// Package tracking persists training runs and their per-epoch metrics
// to a SQLite database so experiments can be compared after the fact.
package tracking

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	_ "modernc.org/sqlite"

	"github.com/YuminosukeSato/pengo/neural"
	"github.com/YuminosukeSato/pengo/pkg/errors"
)

// Store wraps a SQLite database used as an experiment tracker.
type Store struct {
	db *sql.DB
}

// Run is one recorded training run.
type Run struct {
	ID              int64
	Name            string
	StartedAt       time.Time
	FinishedAt      time.Time
	Hyperparameters map[string]interface{}
	FinalLoss       float64
	FinalAccuracy   float64
	Finished        bool
}

// Open opens or creates the tracking database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open tracking database %s", path)
	}
	if _, err := db.Exec(`PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL;`); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to configure tracking database")
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS runs (
	  id INTEGER PRIMARY KEY AUTOINCREMENT,
	  name TEXT NOT NULL,
	  started_at INTEGER NOT NULL,
	  finished_at INTEGER,
	  hyperparams TEXT,
	  final_loss REAL,
	  final_accuracy REAL
	);
	CREATE TABLE IF NOT EXISTS epochs (
	  id INTEGER PRIMARY KEY AUTOINCREMENT,
	  run_id INTEGER NOT NULL REFERENCES runs(id),
	  epoch INTEGER NOT NULL,
	  loss REAL NOT NULL,
	  accuracy REAL NOT NULL,
	  val_loss REAL NOT NULL,
	  val_accuracy REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_epochs_run ON epochs(run_id, epoch);
	`)
	if err != nil {
		return errors.Wrap(err, "failed to migrate tracking database")
	}
	return nil
}

// StartRun records the start of a training run and returns its id.
func (s *Store) StartRun(ctx context.Context, name string, hyperparams map[string]interface{}) (int64, error) {
	var hp *string
	if hyperparams != nil {
		data, err := json.Marshal(hyperparams)
		if err != nil {
			return 0, errors.Wrap(err, "failed to encode hyperparameters")
		}
		str := string(data)
		hp = &str
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO runs(name, started_at, hyperparams) VALUES(?,?,?)`,
		name, time.Now().Unix(), hp)
	if err != nil {
		return 0, errors.Wrap(err, "failed to start run")
	}
	return result.LastInsertId()
}

// LogEpoch appends one epoch record to a run.
func (s *Store) LogEpoch(ctx context.Context, runID int64, m neural.EpochMetrics) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO epochs(run_id, epoch, loss, accuracy, val_loss, val_accuracy) VALUES(?,?,?,?,?,?)`,
		runID, m.Epoch, m.Loss, m.Accuracy, m.ValLoss, m.ValAccuracy)
	if err != nil {
		return errors.Wrapf(err, "failed to log epoch %d for run %d", m.Epoch, runID)
	}
	return nil
}

// FinishRun marks a run as finished and records its final metrics.
func (s *Store) FinishRun(ctx context.Context, runID int64, finalLoss, finalAccuracy float64) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE runs SET finished_at=?, final_loss=?, final_accuracy=? WHERE id=?`,
		time.Now().Unix(), finalLoss, finalAccuracy, runID)
	if err != nil {
		return errors.Wrapf(err, "failed to finish run %d", runID)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to finish run")
	}
	if affected == 0 {
		return errors.Newf("pengo: no tracking run with id %d", runID)
	}
	return nil
}

// EpochHistory returns every epoch record of a run in epoch order.
func (s *Store) EpochHistory(ctx context.Context, runID int64) ([]neural.EpochMetrics, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT epoch, loss, accuracy, val_loss, val_accuracy FROM epochs WHERE run_id=? ORDER BY epoch`,
		runID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read epochs for run %d", runID)
	}
	defer rows.Close()

	var history []neural.EpochMetrics
	for rows.Next() {
		var m neural.EpochMetrics
		if err := rows.Scan(&m.Epoch, &m.Loss, &m.Accuracy, &m.ValLoss, &m.ValAccuracy); err != nil {
			return nil, errors.Wrap(err, "failed to scan epoch record")
		}
		history = append(history, m)
	}
	return history, rows.Err()
}

// Runs returns every recorded run, most recent first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, started_at, COALESCE(finished_at, 0),
		       COALESCE(hyperparams, ''), COALESCE(final_loss, 0), COALESCE(final_accuracy, 0)
		FROM runs ORDER BY started_at DESC, id DESC`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read runs")
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r          Run
			startedAt  int64
			finishedAt int64
			hp         string
		)
		if err := rows.Scan(&r.ID, &r.Name, &startedAt, &finishedAt, &hp, &r.FinalLoss, &r.FinalAccuracy); err != nil {
			return nil, errors.Wrap(err, "failed to scan run record")
		}
		r.StartedAt = time.Unix(startedAt, 0).UTC()
		if finishedAt > 0 {
			r.FinishedAt = time.Unix(finishedAt, 0).UTC()
			r.Finished = true
		}
		if hp != "" {
			if err := json.Unmarshal([]byte(hp), &r.Hyperparameters); err != nil {
				return nil, errors.Wrapf(err, "failed to decode hyperparameters of run %d", r.ID)
			}
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
