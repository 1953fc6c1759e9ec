package waiter

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qrdine-system/internal/apperrors"
	"qrdine-system/internal/database/models"
	"qrdine-system/internal/tenant"
)

func TestCapMessage(t *testing.T) {
	assert.Nil(t, capMessage(nil, maxCustomerMessageLen))

	blank := "   "
	assert.Nil(t, capMessage(&blank, maxCustomerMessageLen))

	short := "  water please  "
	got := capMessage(&short, maxCustomerMessageLen)
	require.NotNil(t, got)
	assert.Equal(t, "water please", *got)

	long := strings.Repeat("x", 500)
	got = capMessage(&long, maxCustomerMessageLen)
	require.NotNil(t, got)
	assert.Len(t, *got, maxCustomerMessageLen)

	got = capMessage(&long, maxResponseMessageLen)
	require.NotNil(t, got)
	assert.Len(t, *got, maxResponseMessageLen)
}

func TestListConditions(t *testing.T) {
	cond, arg, err := listConditions("")
	require.NoError(t, err)
	assert.Equal(t, "status <> ?", cond)
	assert.Equal(t, models.CallStatusResolved, arg)

	cond, arg, err = listConditions(models.CallStatusOpen)
	require.NoError(t, err)
	assert.Equal(t, "status = ?", cond)
	assert.Equal(t, models.CallStatusOpen, arg)

	_, _, err = listConditions("bogus")
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}

func TestList_RejectsUnknownStatus(t *testing.T) {
	svc := NewService(nil)
	tc := tenant.Context{RestaurantID: "rest-1"}

	_, err := svc.List(context.Background(), tc, "archived")
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}

func TestRespond_RequiresMessage(t *testing.T) {
	svc := NewService(nil)
	tc := tenant.Context{RestaurantID: "rest-1"}

	_, err := svc.Respond(context.Background(), tc, "call-1", nil)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))

	blank := "   "
	_, err = svc.Respond(context.Background(), tc, "call-1", &blank)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}

func TestStatus_RequiresTableID(t *testing.T) {
	svc := NewService(nil)

	_, err := svc.Status(context.Background(), "call-1", "")
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}
