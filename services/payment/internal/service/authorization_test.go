package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/streamcart/order-saga/pkg/domain"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) *PaymentAuthorizationService {
	t.Helper()

	threshold, err := decimal.NewFromString("1000")
	require.NoError(t, err)

	return NewPaymentAuthorizationService(threshold, zap.NewNop())
}

func TestAuthorize_BelowThreshold(t *testing.T) {
	svc := newTestService(t)

	env, err := svc.Authorize(context.Background(), domain.OrderCreated{OrderID: "o-1", Total: "999.99"})

	require.NoError(t, err)
	require.Equal(t, domain.EventPaymentAuthorized, env.Event)

	var authorized domain.PaymentAuthorized
	require.NoError(t, env.Decode(&authorized))
	require.Equal(t, "o-1", authorized.OrderID)
	require.Equal(t, "999.99", authorized.Amount)
	require.False(t, authorized.AuthorizedAt.IsZero())
}

func TestAuthorize_ExactThresholdFails(t *testing.T) {
	svc := newTestService(t)

	env, err := svc.Authorize(context.Background(), domain.OrderCreated{OrderID: "o-2", Total: "1000"})

	require.NoError(t, err)
	require.Equal(t, domain.EventPaymentFailed, env.Event)

	var failed domain.PaymentFailed
	require.NoError(t, env.Decode(&failed))
	require.Equal(t, "o-2", failed.OrderID)
	require.Equal(t, "Amount 1000 exceeds approval threshold of 1000", failed.Reason)
	require.False(t, failed.FailedAt.IsZero())
}

func TestAuthorize_AboveThreshold(t *testing.T) {
	svc := newTestService(t)

	env, err := svc.Authorize(context.Background(), domain.OrderCreated{OrderID: "o-3", Total: "1500.50"})

	require.NoError(t, err)
	require.Equal(t, domain.EventPaymentFailed, env.Event)

	var failed domain.PaymentFailed
	require.NoError(t, env.Decode(&failed))
	require.Equal(t, "Amount 1500.5 exceeds approval threshold of 1000", failed.Reason)
}

func TestAuthorize_UnparseableTotal(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Authorize(context.Background(), domain.OrderCreated{OrderID: "o-4", Total: "not-a-number"})

	require.Error(t, err)
	require.Contains(t, err.Error(), "o-4")
	require.Contains(t, err.Error(), "unparseable total")
}
