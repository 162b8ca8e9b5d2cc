package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sync-hub/repository"
)

type fakeMutator struct {
	read    map[string]bool
	starred map[string]bool
	err     error
}

func newFakeMutator() *fakeMutator {
	return &fakeMutator{
		read:    make(map[string]bool),
		starred: make(map[string]bool),
	}
}

func (f *fakeMutator) SetRead(ctx context.Context, inoreaderID string, read bool) error {
	if f.err != nil {
		return f.err
	}
	f.read[inoreaderID] = read
	return nil
}

func (f *fakeMutator) SetStarred(ctx context.Context, inoreaderID string, starred bool) error {
	if f.err != nil {
		return f.err
	}
	f.starred[inoreaderID] = starred
	return nil
}

func (f *fakeMutator) EffectiveState(ctx context.Context, inoreaderID string) (bool, bool, error) {
	if f.err != nil {
		return false, false, f.err
	}
	return f.read[inoreaderID], f.starred[inoreaderID], nil
}

func TestArticleHandler_HandleState_Mutate(t *testing.T) {
	tests := map[string]struct {
		body           string
		mutatorErr     error
		expectedStatus int
		expectedCode   string
	}{
		"mark_read_accepted": {
			body:           `{"inoreader_id": "item-1", "read": true}`,
			expectedStatus: http.StatusAccepted,
		},
		"star_and_read_together": {
			body:           `{"inoreader_id": "item-1", "read": true, "starred": true}`,
			expectedStatus: http.StatusAccepted,
		},
		"missing_id_rejected": {
			body:           `{"read": true}`,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "VALIDATION_ERROR",
		},
		"no_flags_rejected": {
			body:           `{"inoreader_id": "item-1"}`,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "VALIDATION_ERROR",
		},
		"invalid_json_rejected": {
			body:           `{not json`,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "INVALID_JSON",
		},
		"unknown_article": {
			body:           `{"inoreader_id": "missing", "read": true}`,
			mutatorErr:     repository.ErrNotFound,
			expectedStatus: http.StatusNotFound,
			expectedCode:   "NOT_FOUND",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			mutator := newFakeMutator()
			mutator.err = tc.mutatorErr
			h := NewArticleHandler(mutator, nil, nil)

			req := httptest.NewRequest(http.MethodPost, "/v1/articles/state", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			h.HandleState(rec, req)

			assert.Equal(t, tc.expectedStatus, rec.Code)

			if tc.expectedCode != "" {
				var errResp ErrorResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
				assert.Equal(t, tc.expectedCode, errResp.ErrorCode)
			}
		})
	}
}

func TestArticleHandler_HandleState_MutateReflectsEffectiveState(t *testing.T) {
	mutator := newFakeMutator()
	h := NewArticleHandler(mutator, nil, nil)

	body := `{"inoreader_id": "item-1", "read": true, "starred": true}`
	req := httptest.NewRequest(http.MethodPost, "/v1/articles/state", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleState(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)

	var resp ArticleStateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "item-1", resp.InoreaderID)
	assert.True(t, resp.Read)
	assert.True(t, resp.Starred)
}

func TestArticleHandler_HandleState_Read(t *testing.T) {
	mutator := newFakeMutator()
	mutator.read["item-1"] = true
	h := NewArticleHandler(mutator, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/articles/state?inoreader_id=item-1", nil)
	rec := httptest.NewRecorder()
	h.HandleState(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ArticleStateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Read)
	assert.False(t, resp.Starred)
}

func TestArticleHandler_HandleState_ReadRequiresID(t *testing.T) {
	h := NewArticleHandler(newFakeMutator(), nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/articles/state", nil)
	rec := httptest.NewRecorder()
	h.HandleState(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestArticleHandler_HandleState_MethodNotAllowed(t *testing.T) {
	h := NewArticleHandler(newFakeMutator(), nil, nil)

	req := httptest.NewRequest(http.MethodDelete, "/v1/articles/state", nil)
	rec := httptest.NewRecorder()
	h.HandleState(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
