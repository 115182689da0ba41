package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pribylovaa/go-recipe-cache/internal/service"

	"github.com/stretchr/testify/require"
)

func TestToHTTP_Mapping(t *testing.T) {
	tcs := []struct {
		name       string
		in         error
		wantStatus int
		wantCode   string
	}{
		{"invalid_argument", fmt.Errorf("op: %w", service.ErrInvalidArgument), http.StatusBadRequest, "invalid_argument"},
		{"unknown_category", fmt.Errorf("op: %w", service.ErrUnknownCategory), http.StatusNotFound, "not_found"},
		{"unavailable", fmt.Errorf("op: %w", service.ErrContentUnavailable), http.StatusServiceUnavailable, "unavailable"},
		{"storage", fmt.Errorf("op: %w: %w", service.ErrStorage, stderrors.New("disk")), http.StatusInternalServerError, "internal"},
		{"canceled", context.Canceled, StatusClientClosedRequest, "canceled"},
		{"deadline", fmt.Errorf("x: %w", context.DeadlineExceeded), http.StatusGatewayTimeout, "deadline_exceeded"},
		{"other", stderrors.New("boom"), http.StatusInternalServerError, "internal"},
		{"nil", nil, http.StatusInternalServerError, "internal"},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			gotStatus, resp := ToHTTP(tc.in)
			require.Equal(t, tc.wantStatus, gotStatus)
			require.Equal(t, tc.wantCode, resp.Error.Code)
			require.NotEmpty(t, resp.Error.Message)
		})
	}
}

func TestWriteError_IncludesRequestID(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/recipes/brunch", nil)
	req.Header.Set("X-Request-Id", "rid-1")

	WriteError(rr, req, service.ErrUnknownCategory)

	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, "rid-1", resp.Error.RequestID)
	require.Equal(t, "not_found", resp.Error.Code)
}
