package printers

import (
	"context"
	"errors"
	"io"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qrdine-system/internal/apperrors"
	"qrdine-system/internal/database/models"
)

func strPtr(s string) *string { return &s }

func TestDispatch_SendsPayloadToEscposPrinter(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	received := make(chan []byte, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		data, _ := io.ReadAll(conn)
		received <- data
	}()

	svc := NewService(nil)
	printer := &models.Printer{
		Name:             "Kitchen",
		PrinterType:      models.PrinterTypeESCPOS,
		ConnectionString: strPtr(ln.Addr().String()),
		IsActive:         true,
	}

	payload := []byte("ticket payload")
	err = svc.dispatch(context.Background(), printer, payload)
	require.NoError(t, err)

	assert.Equal(t, payload, <-received)
}

func TestDispatch_RejectsNonEscposType(t *testing.T) {
	svc := NewService(nil)
	printer := &models.Printer{
		Name:             "Relay",
		PrinterType:      models.PrinterTypePrintNode,
		ConnectionString: strPtr("127.0.0.1:9100"),
		IsActive:         true,
	}

	err := svc.dispatch(context.Background(), printer, []byte("x"))
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}

func TestDispatch_RejectsInactivePrinter(t *testing.T) {
	svc := NewService(nil)
	printer := &models.Printer{
		Name:             "Kitchen",
		PrinterType:      models.PrinterTypeESCPOS,
		ConnectionString: strPtr("127.0.0.1:9100"),
		IsActive:         false,
	}

	err := svc.dispatch(context.Background(), printer, []byte("x"))
	assert.True(t, errors.Is(err, apperrors.ErrConflict))
}

func TestDispatch_RequiresConnectionString(t *testing.T) {
	svc := NewService(nil)
	printer := &models.Printer{
		Name:        "Kitchen",
		PrinterType: models.PrinterTypeESCPOS,
		IsActive:    true,
	}

	err := svc.dispatch(context.Background(), printer, []byte("x"))
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}
