// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package controller

import (
	"errors"

	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ava-labs/crowdfund/actions"
	"github.com/ava-labs/crowdfund/state"
	"github.com/ava-labs/crowdfund/storage"
)

const namespace = "crowdfund"

type metrics struct {
	create   prometheus.Counter
	donate   prometheus.Counter
	withdraw prometheus.Counter

	failures  *prometheus.CounterVec
	campaigns prometheus.Gauge
}

func newMetrics(r prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		create: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "actions",
			Name:      "create",
			Help:      "number of successful create actions",
		}),
		donate: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "actions",
			Name:      "donate",
			Help:      "number of successful donate actions",
		}),
		withdraw: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "actions",
			Name:      "withdraw",
			Help:      "number of successful withdraw actions",
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "actions",
			Name:      "failures",
			Help:      "number of failed actions by action and reason",
		}, []string{"action", "reason"}),
		campaigns: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "campaigns",
			Help:      "number of entries in the campaign registry",
		}),
	}
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.create),
		r.Register(m.donate),
		r.Register(m.withdraw),
		r.Register(m.failures),
		r.Register(m.campaigns),
	)
	return m, errs.Err
}

func (m *metrics) succeeded(a actions.Action) {
	switch a.(type) {
	case *actions.Create:
		m.create.Inc()
		m.campaigns.Inc()
	case *actions.Donate:
		m.donate.Inc()
	case *actions.Withdraw:
		m.withdraw.Inc()
	}
}

func (m *metrics) failed(a actions.Action, err error) {
	m.failures.WithLabelValues(actions.Name(a), reason(err)).Inc()
}

// reason buckets [err] into a small set of metric labels.
func reason(err error) string {
	switch {
	case errors.Is(err, storage.ErrCampaignNotFound):
		return "not_found"
	case errors.Is(err, storage.ErrCampaignExists):
		return "exists"
	case errors.Is(err, actions.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, actions.ErrInvalidDonation), errors.Is(err, actions.ErrUnexpectedFunds):
		return "invalid_donation"
	case errors.Is(err, actions.ErrInvalidName), errors.Is(err, actions.ErrInvalidDescription):
		return "invalid_input"
	case errors.Is(err, storage.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, storage.ErrOverflow):
		return "overflow"
	case errors.Is(err, storage.ErrCorruptedData):
		return "corrupted_data"
	case errors.Is(err, storage.ErrRegistryFull):
		return "registry_full"
	case errors.Is(err, state.ErrKeyNotSpecified), errors.Is(err, state.ErrInsufficientPermissions):
		return "state_access"
	default:
		return "other"
	}
}
