// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package controller executes commands against the durable store one at a
// time and serves read-only queries of committed state.
package controller

import (
	"context"
	"fmt"
	"sync"

	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/ava-labs/crowdfund/actions"
	"github.com/ava-labs/crowdfund/amount"
	"github.com/ava-labs/crowdfund/auth"
	"github.com/ava-labs/crowdfund/codec"
	"github.com/ava-labs/crowdfund/config"
	"github.com/ava-labs/crowdfund/state"
	"github.com/ava-labs/crowdfund/storage"
)

type Controller struct {
	config  *config.Config
	db      state.Backend
	log     logging.Logger
	tracer  trace.Tracer
	metrics *metrics

	// Execute holds the write lock for the whole command so that no two
	// commands interleave and queries never observe a partial commit.
	lock     sync.RWMutex
	executed atomic.Uint64
}

func New(
	cfg *config.Config,
	db state.Backend,
	log logging.Logger,
	tracer trace.Tracer,
	registerer prometheus.Registerer,
) (*Controller, error) {
	m, err := newMetrics(registerer)
	if err != nil {
		return nil, err
	}
	return &Controller{
		config:  cfg,
		db:      db,
		log:     log,
		tracer:  tracer,
		metrics: m,
	}, nil
}

// Init creates the empty campaign registry if it does not exist yet.
func (c *Controller) Init(ctx context.Context) error {
	ctx, span := c.tracer.Start(ctx, "Controller.Init")
	defer span.End()

	c.lock.Lock()
	defer c.lock.Unlock()

	mu := state.NewSimpleMutable(c.db)
	created, err := storage.InitRegistry(ctx, mu)
	if err != nil {
		return err
	}
	if err := mu.Commit(ctx); err != nil {
		return fmt.Errorf("unable to commit registry: %w", err)
	}
	names, err := storage.GetCampaignNames(ctx, state.ReadOnly{KeyValueReader: c.db})
	if err != nil {
		return err
	}
	c.metrics.campaigns.Set(float64(len(names)))
	c.log.Info("initialized controller",
		zap.Bool("createdRegistry", created),
		zap.Int("campaigns", len(names)),
		zap.Stringer("contract", c.config.GetContractAddress()),
	)
	return nil
}

// Execute runs [action] on behalf of [actor] with [funds] attached. Every
// write the action made is committed in one batch on success and dropped on
// failure.
func (c *Controller) Execute(
	ctx context.Context,
	actor codec.Address,
	funds []actions.Coin,
	action actions.Action,
) (*actions.Result, error) {
	name := actions.Name(action)
	ctx, span := c.tracer.Start(ctx, "Controller.Execute",
		oteltrace.WithAttributes(
			attribute.String("action", name),
			attribute.String("actor", actor.String()),
		),
	)
	defer span.End()

	c.lock.Lock()
	defer c.lock.Unlock()

	buffer := state.NewSimpleMutable(c.db)
	scoped := state.NewScopedMutable(buffer, action.StateKeys(actor, c.config))
	result, err := action.Execute(ctx, c.config, scoped, actor, funds)
	if err != nil {
		buffer.Discard()
		c.metrics.failed(action, err)
		c.log.Info("command failed",
			zap.String("action", name),
			zap.Stringer("actor", actor),
			zap.Error(err),
		)
		return nil, err
	}
	if err := buffer.Commit(ctx); err != nil {
		buffer.Discard()
		c.metrics.failed(action, err)
		c.log.Warn("unable to commit command",
			zap.String("action", name),
			zap.Stringer("actor", actor),
			zap.Error(err),
		)
		return nil, fmt.Errorf("unable to commit %s: %w", name, err)
	}
	sequence := c.executed.Inc()
	c.metrics.succeeded(action)
	c.log.Debug("executed command",
		zap.Uint64("sequence", sequence),
		zap.String("action", name),
		zap.Stringer("actor", actor),
		zap.String("status", result.Status),
	)
	return result, nil
}

// Submit authenticates [cmd] and executes it.
func (c *Controller) Submit(ctx context.Context, cmd *auth.SignedCommand) (*actions.Result, error) {
	actor, err := cmd.Actor()
	if err != nil {
		return nil, err
	}
	return c.Execute(ctx, actor, cmd.Funds, cmd.Action)
}

// Executed is the number of commands committed since the controller was
// created.
func (c *Controller) Executed() uint64 {
	return c.executed.Load()
}

func (c *Controller) Campaigns(ctx context.Context) ([]string, error) {
	ctx, span := c.tracer.Start(ctx, "Controller.Campaigns")
	defer span.End()

	c.lock.RLock()
	defer c.lock.RUnlock()
	return storage.GetCampaignNames(ctx, state.ReadOnly{KeyValueReader: c.db})
}

func (c *Controller) Campaign(ctx context.Context, name string) (*storage.Campaign, error) {
	ctx, span := c.tracer.Start(ctx, "Controller.Campaign")
	defer span.End()

	c.lock.RLock()
	defer c.lock.RUnlock()
	return storage.GetCampaign(ctx, state.ReadOnly{KeyValueReader: c.db}, name)
}

func (c *Controller) Balance(ctx context.Context, addr codec.Address) (amount.Amount, error) {
	ctx, span := c.tracer.Start(ctx, "Controller.Balance")
	defer span.End()

	c.lock.RLock()
	defer c.lock.RUnlock()
	return storage.GetBalance(ctx, state.ReadOnly{KeyValueReader: c.db}, addr)
}

func (c *Controller) ContractAddress() codec.Address {
	return c.config.GetContractAddress()
}

func (c *Controller) Rules() actions.Rules {
	return c.config
}

func (c *Controller) Tracer() trace.Tracer {
	return c.tracer
}
