package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edmw/wishlist-sub003/internal/adapters/http/dto"
)

type titleBody struct {
	Title    string `json:"title"`
	Priority int    `json:"priority"`
}

func TestDecodeJSONBody(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		body     string
		location string
		message  string
	}{
		{name: "empty", body: "", location: "body", message: "must not be empty"},
		{name: "truncated", body: `{"title":"Bike"`, location: "body", message: "is truncated JSON"},
		{name: "malformed", body: `{"title" "Bike"}`, location: "body", message: "is malformed JSON at offset"},
		{name: "wrong type", body: `{"priority":"high"}`, location: "body.priority", message: "must be of type int"},
		{name: "unknown field", body: `{"title":"Bike","color":"red"}`, location: "body.color", message: "is not a known field"},
		{name: "two values", body: `{"title":"Bike"}{"title":"Car"}`, location: "body", message: "must hold a single JSON value"},
		{name: "too large", body: `{"title":"` + strings.Repeat("x", maxBodyBytes) + `"}`, location: "body", message: "must not exceed 1048576 bytes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/me/lists", strings.NewReader(tt.body))

			var dst titleBody
			require.False(t, decodeJSONBody(rec, req, &dst))
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var problem dto.ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&problem))
			require.Len(t, problem.Errors, 1)
			assert.Equal(t, tt.location, problem.Errors[0].Location)
			assert.True(t, strings.HasPrefix(problem.Errors[0].Message, tt.message), problem.Errors[0].Message)
		})
	}
}

func TestDecodeJSONBody_Valid(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/me/lists", strings.NewReader("{\"title\":\"Bike\",\"priority\":2}\n"))

	var dst titleBody
	require.True(t, decodeJSONBody(rec, req, &dst))
	assert.Equal(t, titleBody{Title: "Bike", Priority: 2}, dst)
}
