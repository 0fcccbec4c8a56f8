package handler

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scriptory/internal/domain"
	"scriptory/internal/httputil"
)

func TestHandleErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{
			name:       "validation maps to 400",
			err:        fmt.Errorf("%w: title is required", domain.ErrValidation),
			wantStatus: 400,
		},
		{
			name:       "not found maps to 404",
			err:        &domain.NotFoundError{Message: "document not found"},
			wantStatus: 404,
		},
		{
			name:       "conflict maps to 409",
			err:        &domain.ConflictError{Message: "already exists", ResourceType: "document", ResourceID: "x"},
			wantStatus: 409,
		},
		{
			name:       "unknown maps to 500",
			err:        fmt.Errorf("disk on fire"),
			wantStatus: 500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handleError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

			var problem httputil.ProblemDetail
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
			assert.Equal(t, tt.wantStatus, problem.Status)
		})
	}
}

func TestHandleCreateConflictReturnsExisting(t *testing.T) {
	type doc struct {
		ID string `json:"id"`
	}

	rec := httptest.NewRecorder()
	conflict := &domain.ConflictError{Message: "exists", ResourceType: "document", ResourceID: "my-doc"}
	HandleCreateConflict(rec, conflict, func() (*doc, error) {
		return &doc{ID: "my-doc"}, nil
	})

	assert.Equal(t, 409, rec.Code)

	var got doc
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "my-doc", got.ID)
}

func TestHandleCreateConflictNonConflictFallsThrough(t *testing.T) {
	type doc struct{}

	rec := httptest.NewRecorder()
	HandleCreateConflict(rec, fmt.Errorf("%w: bad title", domain.ErrValidation), func() (*doc, error) {
		t.Fatal("fetch must not run for non-conflict errors")
		return nil, nil
	})

	assert.Equal(t, 400, rec.Code)
}
