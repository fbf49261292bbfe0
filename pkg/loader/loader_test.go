package loader

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindFromPath(t *testing.T) {
	tests := []struct {
		path string
		want UploadKind
	}{
		{"scan.png", UploadKindImage},
		{"scan.JPG", UploadKindImage},
		{"photo.jpeg", UploadKindImage},
		{"old.bmp", UploadKindImage},
		{"family.json", UploadKindJSON},
		{"notes.txt", UploadKindText},
		{"tree.GED", UploadKindText},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := KindFromPath(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKindFromPathUnsupported(t *testing.T) {
	for _, path := range []string{"family.xlsx", "report.PDF", "noextension"} {
		_, err := KindFromPath(path)
		var typeErr *UnsupportedTypeError
		require.ErrorAs(t, err, &typeErr, path)
	}

	_, err := KindFromPath("report.PDF")
	assert.EqualError(t, err, "Unsupported upload type: .pdf")
}

func TestNewUploadFile(t *testing.T) {
	file, err := NewUploadFile(NewUploadFileParams{FilePath: "family.json"})
	require.NoError(t, err)
	assert.Len(t, file.ID, 21)
	assert.Equal(t, UploadKindJSON, file.Kind)

	file, err = NewUploadFile(NewUploadFileParams{ID: "fixed", FilePath: "a.png"})
	require.NoError(t, err)
	assert.Equal(t, "fixed", file.ID)

	_, err = NewUploadFile(NewUploadFileParams{FilePath: "a.docx"})
	require.Error(t, err)
}

func TestBase64Prefix(t *testing.T) {
	assert.Equal(t, "data:image/png;base64,", Base64Prefix("a.PNG"))
	assert.Equal(t, "data:image/jpeg;base64,", Base64Prefix("a.jpg"))
	assert.Equal(t, "data:application/json;base64,", Base64Prefix("a.json"))
	assert.Equal(t, "data:application/octet-stream;base64,", Base64Prefix("a.zzzunknown"))
	assert.Equal(t, "data:image/png;base64,abc", Base64File{Base64: "abc", FileType: Base64Prefix("x.png")}.DataURL())
}

func TestCacheLoad(t *testing.T) {
	c := NewCache()
	var calls atomic.Int32
	fn := func() ([]byte, error) {
		calls.Add(1)
		return []byte("content"), nil
	}

	for range 3 {
		got, err := c.Load("k", fn)
		require.NoError(t, err)
		assert.Equal(t, "content", string(got))
	}
	assert.EqualValues(t, 1, calls.Load())

	c.Invalidate("k")
	_, err := c.Load("k", fn)
	require.NoError(t, err)
	assert.EqualValues(t, 2, calls.Load())

	c.Clear()
	_, err = c.Load("k", fn)
	require.NoError(t, err)
	assert.EqualValues(t, 3, calls.Load())
}

func TestCacheDoesNotStoreErrors(t *testing.T) {
	c := NewCache()
	_, err := c.Load("k", func() ([]byte, error) { return nil, errors.New("boom") })
	require.EqualError(t, err, "boom")

	got, err := c.Load("k", func() ([]byte, error) { return []byte("ok"), nil })
	require.NoError(t, err)
	assert.Equal(t, "ok", string(got))
}

func TestCacheSharesConcurrentLoads(t *testing.T) {
	c := NewCache()
	var calls atomic.Int32
	release := make(chan struct{})

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := c.Load("k", func() ([]byte, error) {
				calls.Add(1)
				<-release
				return []byte("v"), nil
			})
			assert.NoError(t, err)
			assert.Equal(t, "v", string(got))
		}()
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()
	assert.LessOrEqual(t, calls.Load(), int32(8))
	assert.GreaterOrEqual(t, calls.Load(), int32(1))
}
