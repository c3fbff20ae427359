package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/aretw0/silverconnect/pkg/domain"
	"github.com/aretw0/silverconnect/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	hooks := m.Hooks()
	ctx := context.Background()
	base := domain.EventBase{Engine: domain.EngineActivity, SessionID: "elder1:activity", Username: "elder1"}

	hooks.OnStateEnter(ctx, &domain.StateEvent{EventBase: base, State: domain.KindFindActivity})
	hooks.OnStateEnter(ctx, &domain.StateEvent{EventBase: base, State: domain.KindFindActivity})
	hooks.OnTransition(ctx, &domain.TransitionEvent{EventBase: base, Outcome: domain.OutcomeTerminal, Rule: domain.RuleCapacityFull})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.StateVisits.WithLabelValues(domain.EngineActivity, "FindActivity")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Transitions.WithLabelValues(domain.EngineActivity, "terminal")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Violations.WithLabelValues(domain.EngineActivity, domain.RuleCapacityFull)))

	m.ObserveOperation("FindAndBookActivity", true, 10*time.Millisecond)
	assert.Equal(t, 1, testutil.CollectAndCount(m.OperationDur))
}

func TestNewMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := observability.NewMetrics(reg)
	require.NoError(t, err)
	_, err = observability.NewMetrics(reg)
	assert.Error(t, err)

	m, err := observability.NewMetrics(nil)
	require.NoError(t, err)
	assert.NotNil(t, m.Hooks().OnTransition)
}

func TestAuditHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	hooks := observability.AuditHooks(logger)

	hooks.OnTransition(context.Background(), &domain.TransitionEvent{
		EventBase: domain.EventBase{Engine: domain.EngineAuth, SessionID: "elder1:auth"},
		From:      domain.KindSignup,
		Outcome:   domain.OutcomeInvalid,
		Rule:      domain.RulePasswordMismatch,
	})
	out := buf.String()
	assert.Contains(t, out, "msg=transition")
	assert.Contains(t, out, "rule=password_mismatch")
	assert.Contains(t, out, "outcome=invalid")
}
