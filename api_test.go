package main

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"asrdesk/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthEndpoint(t *testing.T) {
	helper := NewTestHelper(t)

	var response map[string]interface{}
	resp := helper.GetJSON(t, "/health", &response)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", response["status"])
	assert.Equal(t, "asrdesk", response["service"])
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestRequestIDEchoed(t *testing.T) {
	helper := NewTestHelper(t)

	req, err := http.NewRequest("GET", helper.Server.URL+"/health", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "trace-me-123")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "trace-me-123", resp.Header.Get("X-Request-ID"))
}

func TestUploadAssignsSequentialNames(t *testing.T) {
	helper := NewTestHelper(t)

	helper.Upload(t, uploadPart{Filename: "clip.mp3", Content: []byte("first-audio")})
	helper.Upload(t, uploadPart{Filename: "clip2.wav", Content: []byte("second-audio")})

	helper.AssertStoredFile(t, "000001.mp3", []byte("first-audio"))
	helper.AssertStoredFile(t, "000002.wav", []byte("second-audio"))
	helper.AssertNotStored(t, "clip.mp3")
}

func TestUploadBatchSkipsUnsupportedFiles(t *testing.T) {
	helper := NewTestHelper(t)

	helper.Upload(t,
		uploadPart{Filename: "notes.txt", Content: []byte("text")},
		uploadPart{Filename: "clip.mp3", Content: []byte("audio")},
		uploadPart{Filename: "script.exe", Content: []byte("binary")},
	)

	helper.AssertStoredFile(t, "000001.mp3", []byte("audio"))
	helper.AssertNotStored(t, "000002.txt")
	helper.AssertNotStored(t, "notes.txt")
}

func TestLangRoundTrip(t *testing.T) {
	helper := NewTestHelper(t)
	helper.Upload(t, uploadPart{Filename: "clip.mp3", Content: []byte("audio")})

	var response map[string]interface{}
	resp := helper.PostJSON(t, "/lang",
		types.LangRequest{Filename: "000001.mp3", Lang: types.LangEnglish}, &response)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, response["ok"])
	assert.Equal(t, types.LangEnglish, response["lang"])

	files, err := helper.Library.List()
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, types.LangEnglish, files[0].Lang)
}

func TestGenderRejectsUnknownValue(t *testing.T) {
	helper := NewTestHelper(t)
	helper.Upload(t, uploadPart{Filename: "clip.mp3", Content: []byte("audio")})

	var response map[string]interface{}
	resp := helper.PostJSON(t, "/gender",
		types.GenderRequest{Filename: "000001.mp3", Gender: "Other"}, &response)
	defer resp.Body.Close()

	// Soft error: the page script reads it from a 200 body.
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, response["ok"])
	assert.Equal(t, "Invalid gender", response["error"])
}

func TestFieldUpdateUnknownFile(t *testing.T) {
	helper := NewTestHelper(t)

	var response map[string]interface{}
	resp := helper.PostJSON(t, "/label",
		types.LabelRequest{Filename: "missing.mp3", Label: "x"}, &response)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, response["ok"])
	assert.Equal(t, "File not found", response["error"])
}

func TestLabelNoneSentinel(t *testing.T) {
	helper := NewTestHelper(t)
	helper.Upload(t, uploadPart{Filename: "clip.mp3", Content: []byte("audio")})

	var response map[string]interface{}
	resp := helper.PostJSON(t, "/label",
		types.LabelRequest{Filename: "000001.mp3", Label: "  "}, &response)
	defer resp.Body.Close()

	assert.Equal(t, true, response["ok"])
	assert.Equal(t, "None", response["label"])
}

func TestVerifyToggle(t *testing.T) {
	helper := NewTestHelper(t)
	helper.Upload(t, uploadPart{Filename: "clip.mp3", Content: []byte("audio")})

	var response map[string]interface{}
	resp := helper.PostJSON(t, "/verify",
		types.VerifyRequest{Filename: "000001.mp3", Verified: true}, &response)
	resp.Body.Close()
	assert.Equal(t, true, response["verified"])

	resp = helper.PostJSON(t, "/verify",
		types.VerifyRequest{Filename: "000001.mp3", Verified: false}, &response)
	resp.Body.Close()
	assert.Equal(t, false, response["verified"])
}

func TestSpeakerUpdateRegistersSpeaker(t *testing.T) {
	helper := NewTestHelper(t)
	helper.Upload(t, uploadPart{Filename: "clip.mp3", Content: []byte("audio")})

	var response map[string]interface{}
	resp := helper.PostJSON(t, "/speaker",
		types.SpeakerRequest{Filename: "000001.mp3", Speaker: "Dara"}, &response)
	resp.Body.Close()
	assert.Equal(t, true, response["ok"])
	assert.Equal(t, "Dara", response["speaker"])

	speakers := helper.Library.Speakers()
	require.Len(t, speakers, 1)
	assert.Equal(t, "Dara", speakers[0].Name)
}

func TestSpeakerAddRequiresName(t *testing.T) {
	helper := NewTestHelper(t)

	var response map[string]interface{}
	resp := helper.PostJSON(t, "/speaker_add",
		types.SpeakerAddRequest{Name: "  "}, &response)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, response["ok"])
	assert.Equal(t, "name is required", response["error"])
}

func TestUploadOutside(t *testing.T) {
	helper := NewTestHelper(t)

	resp := helper.PostMultipart(t, "/upload_outside",
		[]uploadPart{{Field: "file", Filename: "session one.mp3", Content: []byte("audio")}},
		map[string]string{
			"label":    "សួស្តី test",
			"language": "English",
			"gender":   "Female",
			"verified": "true",
			"speaker":  "Dara",
		})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var response map[string]interface{}
	decodeBody(t, resp, &response)
	assert.Equal(t, true, response["ok"])
	assert.Equal(t, "000001.mp3", response["file"])
	assert.Equal(t, "សួស្តី test", response["label"])
	assert.Equal(t, "English", response["lang"])
	assert.Equal(t, "Female", response["gender"])
	assert.Equal(t, true, response["verified"])
	assert.Equal(t, "Dara", response["speaker"])
	assert.Equal(t, float64(5), response["size_bytes"])
	assert.NotEmpty(t, response["mtime_iso"])

	helper.AssertStoredFile(t, "000001.mp3", []byte("audio"))
	speakers := helper.Library.Speakers()
	require.Len(t, speakers, 1)
	assert.Equal(t, "Dara", speakers[0].Name)
}

func TestUploadOutsideLenientDefaults(t *testing.T) {
	helper := NewTestHelper(t)

	resp := helper.PostMultipart(t, "/upload_outside",
		[]uploadPart{{Field: "file", Filename: "clip.wav", Content: []byte("audio")}},
		map[string]string{
			"language": "Klingon",
			"gender":   "Other",
			"verified": "nope",
		})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var response map[string]interface{}
	decodeBody(t, resp, &response)
	assert.Equal(t, true, response["ok"])
	assert.Equal(t, types.LangKhmer, response["lang"])
	assert.Equal(t, types.GenderNone, response["gender"])
	assert.Equal(t, false, response["verified"])
}

func TestUploadOutsideRejectsUnsupportedType(t *testing.T) {
	helper := NewTestHelper(t)

	resp := helper.PostMultipart(t, "/upload_outside",
		[]uploadPart{{Field: "file", Filename: "notes.txt", Content: []byte("text")}}, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var response map[string]interface{}
	decodeBody(t, resp, &response)
	assert.Equal(t, false, response["ok"])
	assert.Equal(t, "Unsupported file type", response["error"])
}

func TestUploadOutsideRequiresFile(t *testing.T) {
	helper := NewTestHelper(t)

	resp := helper.PostMultipart(t, "/upload_outside", nil,
		map[string]string{"label": "no file here"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDownloadAndStream(t *testing.T) {
	helper := NewTestHelper(t)
	helper.Upload(t, uploadPart{Filename: "clip.mp3", Content: []byte("audio-bytes")})

	resp := helper.MakeRequest(t, "GET", "/download/000001.mp3", nil)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/octet-stream", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "000001.mp3")
	assert.Equal(t, "audio-bytes", string(body))

	resp = helper.MakeRequest(t, "GET", "/stream/000001.mp3", nil)
	body, err = io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "audio/mpeg", resp.Header.Get("Content-Type"))
	assert.Equal(t, "audio-bytes", string(body))
}

func TestDownloadUnknownFile(t *testing.T) {
	helper := NewTestHelper(t)

	resp := helper.MakeRequest(t, "GET", "/download/000099.mp3", nil)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "File not found", string(body))
}

func TestDownloadTraversalAttempt(t *testing.T) {
	helper := NewTestHelper(t)

	for _, path := range []string{
		"/download/..%2F..%2Fetc%2Fpasswd",
		"/download/..%2f..%2f..%2fetc%2fpasswd",
		"/download/passwd",
	} {
		resp := helper.MakeRequest(t, "GET", path, nil)
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, "path %q", path)
		assert.NotContains(t, string(body), "root:", "path %q must not leak file contents", path)
	}
}

func TestHomePage(t *testing.T) {
	helper := NewTestHelper(t)

	resp := helper.MakeRequest(t, "GET", "/", nil)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, string(body), "ASRKH10k Dataset")
	assert.Contains(t, string(body), "No files uploaded yet.")

	helper.Upload(t, uploadPart{Filename: "clip.mp3", Content: []byte("audio")})

	resp = helper.MakeRequest(t, "GET", "/", nil)
	body, err = io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	page := string(body)
	assert.Contains(t, page, "000001.mp3")
	assert.NotContains(t, page, "No files uploaded yet.")
}

// decodeBody unmarshals a JSON response body already returned by
// PostMultipart.
func decodeBody(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, target))
}
