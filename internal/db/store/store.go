// Package store implements the request-scoped unit of work shared by all
// persisted entities. Saves and deletes run inside one pending transaction;
// any persistence failure rolls back the whole transaction, including
// unrelated changes made earlier in the same request, and releases the
// underlying session. Error kinds are typed values so the web boundary can
// translate them to transport status codes.
package store

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoAdminBase/GoAdminBase/internal/db/models"
)

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrUnitClosed is returned when an operation runs on a released unit of work.
	ErrUnitClosed = errors.New("unit of work already released")
	// ErrUnprocessable marks a persistence failure the client caused
	// (constraint violation, malformed data). The wrapped message carries
	// the underlying database error text.
	ErrUnprocessable = errors.New("unprocessable entity")
	// ErrRollbackFailed marks a rollback the storage layer could not
	// perform. This is an internal fault, never a client error.
	ErrRollbackFailed = errors.New("database rollback failed")
)

// Unprocessable wraps a persistence failure with its client-facing kind.
func Unprocessable(cause error) error {
	return fmt.Errorf("%w: %s", ErrUnprocessable, cause)
}

// UnitOfWork is one pending transaction. All writes of a request go through
// the same unit; the first failing write invalidates every pending change.
type UnitOfWork struct {
	tx       *gorm.DB
	released bool
}

// Begin opens a new unit of work on the given database handle.
func Begin(db *gorm.DB) (*UnitOfWork, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	return &UnitOfWork{tx: tx}, nil
}

// DB exposes the pending transaction for reads and controller queries.
func (u *UnitOfWork) DB() *gorm.DB {
	return u.tx
}

// Save persists an entity (insert or update) inside the pending transaction.
// On failure the whole transaction is rolled back, the session released, and
// an unprocessable error carrying the cause text is returned.
func (u *UnitOfWork) Save(entity any) error {
	if u.released {
		return ErrUnitClosed
	}

	if err := u.tx.Save(entity).Error; err != nil {
		log.Error().Err(err).Msg("store: save failed, discarding pending transaction")
		u.discard()

		return Unprocessable(err)
	}

	if tracked, ok := entity.(models.Tracked); ok {
		tracked.MarkPersisted()
	}

	return nil
}

// Delete removes an entity inside the pending transaction, with the same
// failure semantics as Save.
func (u *UnitOfWork) Delete(entity any) error {
	if u.released {
		return ErrUnitClosed
	}

	if err := u.tx.Delete(entity).Error; err != nil {
		log.Error().Err(err).Msg("store: delete failed, discarding pending transaction")
		u.discard()

		return Unprocessable(err)
	}

	return nil
}

// Commit finishes the unit of work and makes all pending changes durable.
func (u *UnitOfWork) Commit() error {
	if u.released {
		return ErrUnitClosed
	}

	u.released = true

	if err := u.tx.Commit().Error; err != nil {
		log.Error().Err(err).Msg("store: commit failed")

		return Unprocessable(err)
	}

	return nil
}

// Rollback explicitly discards the pending transaction. A failing rollback
// indicates an unrecoverable storage-layer problem and is reported as an
// internal error. The session is released on every exit path.
func (u *UnitOfWork) Rollback() error {
	if u.released {
		return nil
	}

	u.released = true

	if err := u.tx.Rollback().Error; err != nil {
		log.Error().Err(err).Msg("store: rollback failed")

		return fmt.Errorf("%w: %s", ErrRollbackFailed, err)
	}

	return nil
}

// Release discards the transaction if it is still pending. It is safe to
// call on every exit path, including after a failed save or a commit.
func (u *UnitOfWork) Release() {
	if u.released {
		return
	}

	u.discard()
}

func (u *UnitOfWork) discard() {
	u.released = true

	if err := u.tx.Rollback().Error; err != nil {
		log.Error().Err(err).Msg("store: rollback during release failed")
	}
}
