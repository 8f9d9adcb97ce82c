package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
)

func TestPageRequest_Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   dto.PageRequest
		want dto.PageRequest
	}{
		{"vacío", dto.PageRequest{}, dto.PageRequest{Limit: dto.DefaultPageSize}},
		{"negativos", dto.PageRequest{Limit: -5, Offset: -1}, dto.PageRequest{Limit: dto.DefaultPageSize}},
		{"tope", dto.PageRequest{Limit: 500, Offset: 40}, dto.PageRequest{Limit: dto.MaxPageSize, Offset: 40}},
		{"válido", dto.PageRequest{Limit: 7, Offset: 3}, dto.PageRequest{Limit: 7, Offset: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalize()
			assert.Equal(t, tt.want, got)
			assert.Equal(t, dto.PageResponse{Limit: got.Limit, Offset: got.Offset}, got.Response())
		})
	}
}
