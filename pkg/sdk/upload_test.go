package sdk

import (
	"bytes"
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI serves the upload endpoints and the presigned part URLs from memory.
type fakeAPI struct {
	t      *testing.T
	server *httptest.Server

	mu        sync.Mutex
	parts     map[int32][]byte
	puts      []int32
	completed []CompletedPart
	aborted   bool
	failPart  int32
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()

	f := &fakeAPI{t: t, parts: map[int32][]byte{}}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/upload/create", f.create)
	mux.HandleFunc("POST /api/v1/upload/prepare", f.prepare)
	mux.HandleFunc("POST /api/v1/upload/listparts", f.listParts)
	mux.HandleFunc("POST /api/v1/upload/complete", f.complete)
	mux.HandleFunc("POST /api/v1/upload/abort", f.abort)
	mux.HandleFunc("PUT /storage/{number}", f.putPart)

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeAPI) client() *Client {
	return NewClientWithHTTPClient(f.server.URL+"/api/v1", f.server.Client())
}

func (f *fakeAPI) write(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func (f *fakeAPI) create(w http.ResponseWriter, r *http.Request) {
	var body createUploadBody
	assert.NoError(f.t, sonic.ConfigDefault.NewDecoder(r.Body).Decode(&body))
	if body.Filename == "" {
		f.write(w, http.StatusBadRequest, `{"error":{"code":"validation","message":"Validation error: filename"}}`)
		return
	}
	f.write(w, http.StatusCreated, `{"data":{"uploadId":"U1","key":"k1"},"error":null}`)
}

func (f *fakeAPI) prepare(w http.ResponseWriter, r *http.Request) {
	var body prepareUploadPartBody
	assert.NoError(f.t, sonic.ConfigDefault.NewDecoder(r.Body).Decode(&body))
	f.write(w, http.StatusOK, fmt.Sprintf(`{"data":{"url":"%s/storage/%d"},"error":null}`, f.server.URL, body.Number))
}

func (f *fakeAPI) putPart(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.ParseInt(r.PathValue("number"), 10, 32)
	assert.NoError(f.t, err)

	data, err := io.ReadAll(r.Body)
	assert.NoError(f.t, err)

	f.mu.Lock()
	defer f.mu.Unlock()

	f.puts = append(f.puts, int32(number))
	if int32(number) == f.failPart {
		w.WriteHeader(http.StatusForbidden)
		return
	}
	f.parts[int32(number)] = data
	w.Header().Set("ETag", fmt.Sprintf(`"etag-%d"`, number))
	w.WriteHeader(http.StatusOK)
}

func (f *fakeAPI) listParts(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.aborted {
		f.write(w, http.StatusNotFound, `{"error":{"code":"upload.not_found","message":"Upload session not found"}}`)
		return
	}

	summaries := make([]partSummary, 0, len(f.parts))
	for number, data := range f.parts {
		summaries = append(summaries, partSummary{
			PartNumber: strconv.Itoa(int(number)),
			Size:       strconv.Itoa(len(data)),
			ETag:       fmt.Sprintf(`"etag-%d"`, number),
		})
	}
	payload, err := sonic.Marshal(summaries)
	assert.NoError(f.t, err)
	f.write(w, http.StatusOK, `{"data":`+string(payload)+`,"error":null}`)
}

func (f *fakeAPI) complete(w http.ResponseWriter, r *http.Request) {
	var body completeUploadBody
	assert.NoError(f.t, sonic.ConfigDefault.NewDecoder(r.Body).Decode(&body))

	f.mu.Lock()
	defer f.mu.Unlock()

	f.completed = body.Parts
	var size int
	for _, p := range body.Parts {
		size += len(f.parts[p.PartNumber])
	}
	f.write(w, http.StatusOK, fmt.Sprintf(
		`{"data":{"location":"k1","identifier":"k1","fileName":"data.bin","mimeType":"application/octet-stream","size":%d},"error":null}`, size))
}

func (f *fakeAPI) abort(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.aborted = true
	f.write(w, http.StatusOK, `{"data":{"message":"Multipart Upload aborted"},"error":null}`)
}

func (f *fakeAPI) assembled() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()

	var buf bytes.Buffer
	for _, p := range f.completed {
		buf.Write(f.parts[p.PartNumber])
	}
	return buf.Bytes()
}

func (f *fakeAPI) set(fn func(f *fakeAPI)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

type fakeState struct {
	puts      []int32
	completed []CompletedPart
	aborted   bool
}

func (f *fakeAPI) state() fakeState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fakeState{puts: f.puts, completed: f.completed, aborted: f.aborted}
}

func randomBytes(t *testing.T, n int) []byte {
	t.Helper()
	data := make([]byte, n)
	_, err := rand.Read(data)
	require.NoError(t, err)
	return data
}

func TestSplitParts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		size      int64
		partSize  int64
		wantSizes []int64
	}{
		{name: "empty file", size: 0, partSize: MinPartSize, wantSizes: []int64{0}},
		{name: "smaller than a part", size: 10, partSize: MinPartSize, wantSizes: []int64{10}},
		{name: "exact multiple", size: 2 * MinPartSize, partSize: MinPartSize, wantSizes: []int64{MinPartSize, MinPartSize}},
		{name: "short last part", size: 12 << 20, partSize: MinPartSize, wantSizes: []int64{MinPartSize, MinPartSize, 2 << 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			parts := splitParts(tt.size, tt.partSize)
			require.Len(t, parts, len(tt.wantSizes))

			var offset int64
			for i, p := range parts {
				assert.Equal(t, int32(i+1), p.number)
				assert.Equal(t, offset, p.offset)
				assert.Equal(t, tt.wantSizes[i], p.size)
				offset += p.size
			}
		})
	}
}

func TestSplitParts_CapsPartCount(t *testing.T) {
	t.Parallel()

	size := int64(maxParts)*MinPartSize + 1
	parts := splitParts(size, MinPartSize)

	assert.LessOrEqual(t, len(parts), maxParts)
	var total int64
	for _, p := range parts {
		total += p.size
	}
	assert.Equal(t, size, total)
}

func TestUpload(t *testing.T) {
	api := newFakeAPI(t)
	data := randomBytes(t, 12<<20)

	var (
		mu       sync.Mutex
		lastDone int64
	)
	obj, err := api.client().Upload(context.Background(), UploadRequest{
		File:     bytes.NewReader(data),
		Size:     int64(len(data)),
		FileName: "data.bin",
	}, WithConcurrency(2), WithProgress(func(done, total int64) {
		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, int64(len(data)), total)
		lastDone = max(lastDone, done)
	}))
	require.NoError(t, err)

	assert.Equal(t, int64(len(data)), obj.Size)
	assert.Equal(t, "k1", obj.Identifier)
	assert.Equal(t, []CompletedPart{
		{PartNumber: 1, ETag: `"etag-1"`},
		{PartNumber: 2, ETag: `"etag-2"`},
		{PartNumber: 3, ETag: `"etag-3"`},
	}, api.state().completed)
	assert.Equal(t, data, api.assembled())
	assert.Equal(t, int64(len(data)), lastDone)
	assert.False(t, api.state().aborted)
}

func TestUpload_EmptyFile(t *testing.T) {
	api := newFakeAPI(t)

	obj, err := api.client().Upload(context.Background(), UploadRequest{
		File:     bytes.NewReader(nil),
		FileName: "empty.txt",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(0), obj.Size)
	assert.Equal(t, []int32{1}, api.state().puts)
}

func TestUpload_PartFailureAborts(t *testing.T) {
	api := newFakeAPI(t)
	api.set(func(f *fakeAPI) { f.failPart = 2 })
	data := randomBytes(t, 12<<20)

	_, err := api.client().Upload(context.Background(), UploadRequest{
		File:     bytes.NewReader(data),
		Size:     int64(len(data)),
		FileName: "data.bin",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upload part 2")
	assert.True(t, api.state().aborted)
	assert.Nil(t, api.state().completed)
}

func TestUpload_CreateRejected(t *testing.T) {
	api := newFakeAPI(t)

	_, err := api.client().Upload(context.Background(), UploadRequest{File: bytes.NewReader(nil)})
	require.Error(t, err)
	assert.True(t, IsInvalidInput(err))
	assert.Empty(t, api.state().puts)
	assert.False(t, api.state().aborted)
}

func TestResume(t *testing.T) {
	api := newFakeAPI(t)
	data := randomBytes(t, 12<<20)
	api.set(func(f *fakeAPI) {
		f.parts[1] = data[:MinPartSize]
		// a short leftover part is uploaded again
		f.parts[2] = data[MinPartSize : MinPartSize+10]
	})

	obj, err := api.client().Resume(context.Background(), ResumeRequest{
		Session: Session{UploadID: "U1", Key: "k1"},
		File:    bytes.NewReader(data),
		Size:    int64(len(data)),
	}, WithConcurrency(1))
	require.NoError(t, err)

	assert.Equal(t, []int32{2, 3}, api.state().puts)
	assert.Equal(t, int64(len(data)), obj.Size)
	assert.Equal(t, data, api.assembled())
}

func TestResume_DoesNotAbortOnFailure(t *testing.T) {
	api := newFakeAPI(t)
	api.set(func(f *fakeAPI) { f.failPart = 1 })

	_, err := api.client().Resume(context.Background(), ResumeRequest{
		Session: Session{UploadID: "U1", Key: "k1"},
		File:    bytes.NewReader([]byte("hello")),
		Size:    5,
	})
	require.Error(t, err)
	assert.False(t, api.state().aborted)
}

func TestListParts_NotFound(t *testing.T) {
	api := newFakeAPI(t)
	api.set(func(f *fakeAPI) { f.aborted = true })

	_, err := api.client().ListParts(context.Background(), Session{UploadID: "U1", Key: "k1"})
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "upload.not_found", apiErr.Code)
}
