// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package govvm runs weighted threshold governance over a key-value database.
package govvm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"sync"
	"time"

	"github.com/luxfi/database"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"
	"github.com/luxfi/metric"

	"github.com/luxfi/govvm/api"
	"github.com/luxfi/govvm/config"
	"github.com/luxfi/govvm/governance"
	"github.com/luxfi/govvm/metrics"
	"github.com/luxfi/govvm/state"
	"github.com/luxfi/govvm/txs"
	"github.com/luxfi/govvm/txs/executor"
	"github.com/luxfi/govvm/utils/timer/mockable"
)

const (
	// Name is the metrics namespace and the default API route.
	Name = "govvm"

	Version = "v0.1.0"
)

var (
	_ api.Backend = (*VM)(nil)

	errNotReady           = errors.New("vm is not ready")
	errAlreadyInitialized = errors.New("vm is already initialized")
)

type VM struct {
	config.Config

	// Runtime executes instructions of passed normal proposals. Nil selects
	// a runtime that only logs them.
	Runtime executor.Runtime

	log        log.Logger
	metrics    metrics.Metrics
	registerer metric.Registry

	// Used to check local time
	clock mockable.Clock

	// Serializes tx execution. Queries take the read lock.
	lock      sync.RWMutex
	lifecycle Lifecycle

	baseDB  database.Database
	state   state.State
	backend *executor.Backend
}

func (vm *VM) Initialize(
	_ context.Context,
	db database.Database,
	configBytes []byte,
	registerer metric.Registry,
) error {
	vm.lock.Lock()
	defer vm.lock.Unlock()

	if vm.lifecycle != Uninitialized {
		return fmt.Errorf("%w: %s", errAlreadyInitialized, vm.lifecycle)
	}
	if vm.log == nil {
		vm.log = log.NewNoOpLogger()
	}

	cfg, err := config.ParseConfig(configBytes)
	if err != nil {
		return err
	}
	vm.Config = cfg

	vm.log.Info("VM config initialized",
		log.Int("maxProposalAssets", cfg.MaxProposalAssets),
		log.Int("stateCacheSize", cfg.StateCacheSize),
		log.Bool("queryAPIEnabled", cfg.QueryAPIEnabled),
	)

	vm.registerer = registerer
	vm.metrics, err = metrics.New(Name, registerer)
	if err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}

	vm.state, err = state.New(db, cfg.StateCacheSize, vm.log)
	if err != nil {
		return err
	}
	vm.baseDB = db

	if vm.Runtime == nil {
		vm.Runtime = executor.NewLogRuntime(vm.log)
	}
	vm.backend = &executor.Backend{
		Config:  &vm.Config,
		Clk:     &vm.clock,
		Log:     vm.log,
		Metrics: vm.metrics,
		Runtime: vm.Runtime,
	}
	vm.lifecycle = Ready
	return nil
}

func (vm *VM) Shutdown(context.Context) error {
	vm.lock.Lock()
	defer vm.lock.Unlock()

	if vm.lifecycle != Ready {
		return nil
	}
	vm.lifecycle = Stopped

	return errors.Join(
		vm.state.Close(),
		vm.baseDB.Close(),
	)
}

func (*VM) Version(context.Context) (string, error) {
	return Version, nil
}

func (vm *VM) CreateHandlers(context.Context) (map[string]http.Handler, error) {
	vm.lock.RLock()
	defer vm.lock.RUnlock()

	if vm.lifecycle != Ready {
		return nil, errNotReady
	}

	handler, err := api.NewHandler(vm.log, vm, vm.QueryAPIEnabled, Name, vm.registerer)
	if err != nil {
		return nil, err
	}
	return map[string]http.Handler{
		"": handler,
	}, nil
}

// IssueTx executes a serialized tx. A tx that fails is not applied, except
// that an expired proposal is still recorded as Expired.
func (vm *VM) IssueTx(ctx context.Context, txBytes []byte) (ids.ID, error) {
	tx, err := txs.Parse(txBytes)
	if err != nil {
		return ids.Empty, err
	}

	vm.lock.Lock()
	defer vm.lock.Unlock()

	if vm.lifecycle != Ready {
		return tx.ID(), errNotReady
	}
	return tx.ID(), vm.executeTx(ctx, tx)
}

// View runs f against the committed state.
func (vm *VM) View(f func(state.Chain) error) error {
	vm.lock.RLock()
	defer vm.lock.RUnlock()

	if vm.lifecycle != Ready {
		return errNotReady
	}
	return f(vm.state)
}

// Invariant: vm.lock is held.
func (vm *VM) executeTx(ctx context.Context, tx *txs.Tx) error {
	txID := tx.ID()
	txType := typeName(tx.Unsigned)

	err := tx.SyntacticVerify()
	if err == nil {
		start := time.Now()
		err = tx.Unsigned.Visit(&executor.StandardTxExecutor{
			Backend: vm.backend,
			Ctx:     ctx,
			State:   vm.state,
			Tx:      tx,
		})
		vm.metrics.ObserveExecution(time.Since(start))
	}
	vm.metrics.MarkTx(txType, err)

	if err == nil || errors.Is(err, governance.ErrProposalExpired) {
		if commitErr := vm.state.Commit(); commitErr != nil {
			vm.state.Abort()
			return fmt.Errorf("failed to commit tx %s: %w", txID, commitErr)
		}
	} else {
		vm.state.Abort()
	}

	if err != nil {
		vm.log.Debug("tx rejected",
			log.Stringer("txID", txID),
			log.String("txType", txType),
			log.Err(err),
		)
		return err
	}
	vm.log.Debug("tx accepted",
		log.Stringer("txID", txID),
		log.String("txType", txType),
	)
	return nil
}

func typeName(unsigned txs.UnsignedTx) string {
	if unsigned == nil {
		return "nil"
	}
	t := reflect.TypeOf(unsigned)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}
