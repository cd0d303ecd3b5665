package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusChain(t *testing.T) {
	assert.True(t, CanTransition(OrderCreated, OrderPaid))
	assert.True(t, CanTransition(OrderPaid, OrderShipped))
	assert.True(t, CanTransition(OrderShipped, OrderDelivered))
	assert.True(t, CanTransition(OrderDelivered, OrderCompleted))
}

func TestOrderNoSkippedSteps(t *testing.T) {
	assert.False(t, CanTransition(OrderCreated, OrderShipped))
	assert.False(t, CanTransition(OrderPaid, OrderCompleted))
	assert.False(t, CanTransition(OrderCreated, OrderDelivered))
}

func TestOrderNoBackwardTransition(t *testing.T) {
	assert.False(t, CanTransition(OrderShipped, OrderPaid))
	assert.False(t, CanTransition(OrderCompleted, OrderCreated))
}

func TestCancellationOnlyBeforeShipping(t *testing.T) {
	assert.True(t, CanTransition(OrderCreated, OrderCancelled))
	assert.True(t, CanTransition(OrderPaid, OrderCancelled))
	assert.False(t, CanTransition(OrderShipped, OrderCancelled))
	assert.False(t, CanTransition(OrderDelivered, OrderCancelled))
}

func TestTerminalStatusesHaveNoSuccessor(t *testing.T) {
	assert.Empty(t, NextStatuses(OrderCompleted))
	assert.Empty(t, NextStatuses(OrderCancelled))
}
