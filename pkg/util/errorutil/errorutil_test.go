package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestToDomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   string
		wantStatus int
	}{
		{name: "domain error kept", err: NewConflict("taken", nil), wantCode: CodeConflict, wantStatus: http.StatusConflict},
		{name: "no rows", err: fmt.Errorf("load: %w", pgx.ErrNoRows), wantCode: CodeNotFound, wantStatus: http.StatusNotFound},
		{name: "fiber bad request", err: fiber.NewError(fiber.StatusBadRequest, "invalid id"), wantCode: CodeValidationFailed, wantStatus: http.StatusBadRequest},
		{name: "fiber rate limited", err: fiber.ErrTooManyRequests, wantCode: CodeTooManyRequests, wantStatus: http.StatusTooManyRequests},
		{name: "fiber teapot", err: fiber.ErrTeapot, wantCode: "REQUEST_FAILED", wantStatus: http.StatusTeapot},
		{name: "unique violation", err: &pgconn.PgError{Code: "23505", ConstraintName: "credentials_username_key"}, wantCode: CodeConflict, wantStatus: http.StatusConflict},
		{name: "fk violation", err: &pgconn.PgError{Code: "23503"}, wantCode: CodeValidationFailed, wantStatus: http.StatusBadRequest},
		{name: "other pg error", err: &pgconn.PgError{Code: "42P01"}, wantCode: CodePersistenceError, wantStatus: http.StatusInternalServerError},
		{name: "plain error", err: errors.New("boom"), wantCode: CodeInternalError, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToDomainError(tt.err)
			assert.Equal(t, tt.wantCode, got.Code)
			assert.Equal(t, tt.wantStatus, got.HTTPStatus)
		})
	}
	assert.Nil(t, ToDomainError(nil))
}

func TestMapError(t *testing.T) {
	assert.NoError(t, MapError(nil))
	assert.True(t, IsNotFound(MapError(pgx.ErrNoRows)))
	assert.True(t, HasCode(MapError(errors.New("connection reset")), CodePersistenceError))
	assert.True(t, HasCode(MapError(&pgconn.PgError{Code: "23505"}), CodeConflict))

	validation := NewValidationError("bad", map[string]any{"sku": "required"})
	assert.Same(t, validation, MapError(validation))
}

func TestNotFoundMessage(t *testing.T) {
	err := NewNotFound("product with id 3", map[string]any{"id": 3})

	assert.Equal(t, "product with id 3 not found", err.Error())
	assert.True(t, IsNotFound(err))
	assert.False(t, IsNotFound(nil))
	assert.False(t, IsNotFound(NewConflict("x", nil)))
}

func TestDomainErrorUnwrap(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := NewPersistenceError(cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "dial tcp")
}
