package client

import (
	"Drive/internal/dto"
	"Drive/internal/services"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_GetDrive(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/drive/private", r.URL.Path)
		assert.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(dto.DriveListingDTO{
			Folders:       []dto.EntryDTO{{ID: "f1", Kind: dto.KindFolder, Name: "Jan2024"}},
			CurrentFolder: dto.FolderRefDTO{ID: "private", Name: "Private", Root: true},
		})
	}))
	defer srv.Close()

	listing, err := NewClient(srv.URL+"/", "token-1").GetDrive(context.Background(), "private")

	require.NoError(t, err)
	assert.Equal(t, "Jan2024", listing.Folders[0].Name)
	assert.True(t, listing.CurrentFolder.Root)
}

func TestClient_Mutations(t *testing.T) {
	type call struct {
		method string
		path   string
		body   map[string]interface{}
	}
	var calls []call
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		calls = append(calls, call{method: r.Method, path: r.URL.Path, body: body})
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()
	c := NewClient(srv.URL, "")
	ctx := context.Background()

	require.NoError(t, c.DeleteFilesOrFolders(ctx, []string{"a", "b"}))
	require.NoError(t, c.MoveFilesOrFolders(ctx, []string{"a"}, "public"))
	require.NoError(t, c.RenameFileOrFolder(ctx, "a", "renamed"))

	require.Len(t, calls, 3)
	assert.Equal(t, http.MethodDelete, calls[0].method)
	assert.Equal(t, "/drive", calls[0].path)
	assert.Equal(t, []interface{}{"a", "b"}, calls[0].body["ids"])
	assert.Equal(t, http.MethodPatch, calls[1].method)
	assert.Equal(t, "/drive/move", calls[1].path)
	assert.Equal(t, "public", calls[1].body["parent"])
	assert.Equal(t, "/drive/rename", calls[2].path)
	assert.Equal(t, "renamed", calls[2].body["name"])
}

func TestClient_CreateFolderConflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":"a folder named \"Jan2024\" already exists in private","existing_id":"f1"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "").CreateFolder(context.Background(), "private", "Jan2024")

	assert.ErrorIs(t, err, services.ErrDuplicateName)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "f1", apiErr.ExistingID)
}

func TestClient_PlainTextError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "").GetDrive(context.Background(), "missing")

	assert.ErrorIs(t, err, services.ErrNotFound)
	assert.NotErrorIs(t, err, services.ErrDuplicateName)
}
