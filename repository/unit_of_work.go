package repository

import (
	"context"
	"fmt"

	"apostas/database"
	"apostas/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

type unitOfWorkFactory struct {
	db *database.DB
}

// NewUnitOfWorkFactory creates a new unit of work factory
func NewUnitOfWorkFactory(db *database.DB) interfaces.UnitOfWorkFactory {
	return &unitOfWorkFactory{db: db}
}

func (f *unitOfWorkFactory) Create() interfaces.UnitOfWork {
	return &unitOfWork{db: f.db}
}

// unitOfWork implements interfaces.UnitOfWork on a single pgx transaction.
type unitOfWork struct {
	db  *database.DB
	tx  pgx.Tx
	ctx context.Context

	playerRepo *PlayerRepository
	betRepo    *BetRepository
	queueRepo  *QueueRepository
	levelRepo  *PlayerLevelRepository
	seasonRepo *SeasonRankingRepository
}

// Begin starts the transaction and binds the repositories to it.
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx
	u.playerRepo = newPlayerRepository(tx)
	u.betRepo = newBetRepository(tx)
	u.queueRepo = newQueueRepository(tx)
	u.levelRepo = newPlayerLevelRepository(tx)
	u.seasonRepo = newSeasonRankingRepository(tx)
	return nil
}

// Commit commits the transaction.
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}
	if err := u.tx.Commit(u.ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	u.tx = nil
	return nil
}

// Rollback rolls back the transaction. Rolling back after a commit is a
// no-op, so it is safe to defer.
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil
	}
	err := u.tx.Rollback(u.ctx)
	u.tx = nil
	if err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}

func (u *unitOfWork) PlayerRepository() interfaces.PlayerRepository {
	u.mustBegin()
	return u.playerRepo
}

func (u *unitOfWork) BetRepository() interfaces.BetRepository {
	u.mustBegin()
	return u.betRepo
}

func (u *unitOfWork) QueueRepository() interfaces.QueueRepository {
	u.mustBegin()
	return u.queueRepo
}

func (u *unitOfWork) PlayerLevelRepository() interfaces.PlayerLevelRepository {
	u.mustBegin()
	return u.levelRepo
}

func (u *unitOfWork) SeasonRankingRepository() interfaces.SeasonRankingRepository {
	u.mustBegin()
	return u.seasonRepo
}

func (u *unitOfWork) mustBegin() {
	if u.tx == nil {
		panic("unit of work: repository accessed before Begin")
	}
}
