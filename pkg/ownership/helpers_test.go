package ownership //nolint:testpackage // testing internal implementation.

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// hunk is one header line of a synthetic blame stream.
type hunk struct {
	commit string
	author string
	lines  int
}

// blameStream renders hunks the way git blame --incremental does: author
// metadata only on the first record of each commit.
func blameStream(file string, hunks ...hunk) string {
	var sb strings.Builder

	seen := make(map[string]bool)
	line := 1

	for _, h := range hunks {
		fmt.Fprintf(&sb, "%s %d %d %d\n", h.commit, line, line, h.lines)

		if !seen[h.commit] {
			seen[h.commit] = true

			fmt.Fprintf(&sb, "author %s\n", h.author)
			fmt.Fprintf(&sb, "author-mail <%s@example.com>\n", h.author)
			fmt.Fprintf(&sb, "summary commit by %s\n", h.author)
		}

		fmt.Fprintf(&sb, "filename %s\n", file)

		line += h.lines
	}

	return sb.String()
}

type fakeStream struct {
	io.Reader
	closeErr error
}

func (s *fakeStream) Close() error { return s.closeErr }

// fakeSource serves canned streams per path and records which paths were opened.
type fakeSource struct {
	streams  map[string]string
	openErr  map[string]error
	closeErr map[string]error

	mu     sync.Mutex
	opened []string
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		streams:  make(map[string]string),
		openErr:  make(map[string]error),
		closeErr: make(map[string]error),
	}
}

func (f *fakeSource) with(path string, hunks ...hunk) *fakeSource {
	f.streams[path] = blameStream(path, hunks...)

	return f
}

func (f *fakeSource) Open(_ context.Context, _, path string) (io.ReadCloser, error) {
	f.mu.Lock()
	f.opened = append(f.opened, path)
	f.mu.Unlock()

	if err := f.openErr[path]; err != nil {
		return nil, err
	}

	return &fakeStream{Reader: strings.NewReader(f.streams[path]), closeErr: f.closeErr[path]}, nil
}

func (f *fakeSource) openedPaths() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]string(nil), f.opened...)
}

// fakeEnumerator yields a fixed path list, then err.
type fakeEnumerator struct {
	err   error
	paths []string
}

func (f *fakeEnumerator) Enumerate(_ context.Context, _ string, _ []string, fn func(path string) error) error {
	for _, p := range f.paths {
		if err := fn(p); err != nil {
			return err
		}
	}

	return f.err
}
