package main

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"asrdesk/config"
	"asrdesk/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// TestHelper provides utilities for testing the server end to end.
type TestHelper struct {
	Server   *httptest.Server
	StoreDir string
	Router   *gin.Engine
	Library  *services.Library
}

// NewTestHelper spins up a server over a temporary store directory.
func NewTestHelper(t *testing.T) *TestHelper {
	t.Helper()

	gin.SetMode(gin.TestMode)

	storeDir := t.TempDir()
	cfg := config.Default()
	cfg.Store.Dir = storeDir

	lib := services.OpenLibrary(storeDir, zap.NewNop().Sugar())
	router := newRouter(cfg, lib, zap.NewNop().Sugar())
	server := httptest.NewServer(router)

	helper := &TestHelper{
		Server:   server,
		StoreDir: storeDir,
		Router:   router,
		Library:  lib,
	}
	t.Cleanup(server.Close)
	return helper
}

// noRedirectClient returns a client that surfaces redirects instead of
// following them, so tests can assert on the 303 upload response.
func noRedirectClient() *http.Client {
	return &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// MakeRequest makes an HTTP request to the test server.
func (h *TestHelper) MakeRequest(t *testing.T, method, path string, body interface{}) *http.Response {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, h.Server.URL+path, reqBody)
	require.NoError(t, err)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

// GetJSON makes a GET request and unmarshals the JSON response.
func (h *TestHelper) GetJSON(t *testing.T, path string, target interface{}) *http.Response {
	t.Helper()

	resp := h.MakeRequest(t, "GET", path, nil)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	defer resp.Body.Close()

	if target != nil {
		require.NoError(t, json.Unmarshal(body, target))
	}
	return resp
}

// PostJSON makes a POST request with a JSON body and unmarshals the
// JSON response.
func (h *TestHelper) PostJSON(t *testing.T, path string, requestBody interface{}, target interface{}) *http.Response {
	t.Helper()

	resp := h.MakeRequest(t, "POST", path, requestBody)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	defer resp.Body.Close()

	if target != nil {
		require.NoError(t, json.Unmarshal(body, target))
	}
	return resp
}

// uploadPart is one file in a multipart upload request.
type uploadPart struct {
	Field    string
	Filename string
	Content  []byte
}

// PostMultipart posts a multipart form with the given file parts and
// extra text fields.
func (h *TestHelper) PostMultipart(t *testing.T, path string, parts []uploadPart, fields map[string]string) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, p := range parts {
		fw, err := writer.CreateFormFile(p.Field, p.Filename)
		require.NoError(t, err)
		_, err = fw.Write(p.Content)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	require.NoError(t, writer.Close())

	req, err := http.NewRequest("POST", h.Server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := noRedirectClient().Do(req)
	require.NoError(t, err)
	return resp
}

// Upload posts a batch of files under the "files" field and asserts
// the redirect back to the listing.
func (h *TestHelper) Upload(t *testing.T, files ...uploadPart) {
	t.Helper()

	for i := range files {
		files[i].Field = "files"
	}
	resp := h.PostMultipart(t, "/upload", files, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/", resp.Header.Get("Location"))
}

// AssertStoredFile checks that a file exists in the store directory
// with the given content.
func (h *TestHelper) AssertStoredFile(t *testing.T, name string, content []byte) {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(h.StoreDir, name))
	require.NoError(t, err, "file should exist in store: %s", name)
	assert.Equal(t, content, data)
}

// AssertNotStored checks that no file with the given name exists in
// the store directory.
func (h *TestHelper) AssertNotStored(t *testing.T, name string) {
	t.Helper()

	_, err := os.Stat(filepath.Join(h.StoreDir, name))
	assert.True(t, os.IsNotExist(err), "file should not exist in store: %s", name)
}
