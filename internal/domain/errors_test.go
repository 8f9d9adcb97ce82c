package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
)

func TestError_KindYReason(t *testing.T) {
	err := domain.InsufficientStock("disponible %s, solicitado %s", "20", "30")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, "disponible 20, solicitado 30", domain.Reason(err))
	assert.Equal(t, "stock insuficiente: disponible 20, solicitado 30", err.Error())

	wrapped := fmt.Errorf("create: %w", err)
	assert.ErrorIs(t, wrapped, domain.ErrInsufficientStock)
	assert.Equal(t, "disponible 20, solicitado 30", domain.Reason(wrapped))

	assert.Equal(t, "boom", domain.Reason(errors.New("boom")))
	assert.Equal(t, domain.ErrNotFound.Error(), (&domain.Error{Kind: domain.ErrNotFound}).Error())
}
