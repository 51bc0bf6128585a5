package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindsCarryStatuses(t *testing.T) {
	require.Equal(t, http.StatusBadRequest, Validation("Validation error", "bad").Status)
	require.Equal(t, http.StatusNotFound, NotFound("Not found", "gone").Status)
	require.Equal(t, http.StatusForbidden, Unauthorized("Unauthorized", "no").Status)
	require.Equal(t, http.StatusInternalServerError, Internal("Internal error", errors.New("boom")).Status)
}

func TestInternalWrapsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Internal("Error on get bill", cause)
	require.ErrorIs(t, err, cause)
	require.Equal(t, "Error on get bill: connection reset", err.Error())
}

func TestFrom_PassesThroughWrappedErrors(t *testing.T) {
	orig := NotFound("Bill not found", "The requested bill does not exist")
	wrapped := fmt.Errorf("handler: %w", orig)
	require.Equal(t, orig, From(wrapped))
}

func TestFrom_UnknownErrorBecomesInternal(t *testing.T) {
	e := From(errors.New("boom"))
	require.Equal(t, http.StatusInternalServerError, e.Status)
	require.Equal(t, "Internal error", e.Title)
}
