package github

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// contentsServer serves canned directory listings for acme/app. Keys are
// repository paths ("" is the root); values are raw contents API bodies.
// visits counts how often each path was listed.
func contentsServer(t *testing.T, listings map[string]string, visits map[string]int) *httptest.Server {
	t.Helper()
	const prefix = "/repos/acme/app/contents/"
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, prefix) {
			http.NotFound(w, r)
			return
		}
		path := strings.TrimPrefix(r.URL.Path, prefix)
		if visits != nil {
			visits[path]++
		}
		body, ok := listings[path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, body)
	}))
}

func dirEntry(name, path string) string {
	return fmt.Sprintf(`{"name":%q,"path":%q,"type":"dir"}`, name, path)
}

func fileEntry(name, path string) string {
	return fmt.Sprintf(`{"name":%q,"path":%q,"type":"file"}`, name, path)
}

func TestFindFileNested(t *testing.T) {
	listings := map[string]string{
		"": "[" + strings.Join([]string{
			fileEntry("a.txt", "a.txt"),
			dirEntry("dir1", "dir1"),
			dirEntry("dir2", "dir2"),
		}, ",") + "]",
		"dir1": "[" + fileEntry("b.txt", "dir1/b.txt") + "]",
		"dir2": "[" + strings.Join([]string{
			fileEntry("target.txt", "dir2/target.txt"),
			fileEntry("c.txt", "dir2/c.txt"),
		}, ",") + "]",
	}
	server := contentsServer(t, listings, nil)
	defer server.Close()

	c, _ := newTestClient(t, server.URL)

	path, found := c.FindFile(context.Background(), "acme/app", "target.txt")
	if !found {
		t.Fatal("FindFile() found = false, want true")
	}
	if path != "dir2/target.txt" {
		t.Errorf("path = %q, want %q", path, "dir2/target.txt")
	}
}

func TestFindFileDescendsBeforeLaterSiblings(t *testing.T) {
	// The same file name exists inside an earlier directory and as a later
	// root sibling. Depth-first order must surface the nested copy.
	listings := map[string]string{
		"": "[" + strings.Join([]string{
			dirEntry("dir1", "dir1"),
			fileEntry("needle.txt", "needle.txt"),
		}, ",") + "]",
		"dir1": "[" + fileEntry("needle.txt", "dir1/needle.txt") + "]",
	}
	server := contentsServer(t, listings, nil)
	defer server.Close()

	c, _ := newTestClient(t, server.URL)

	path, found := c.FindFile(context.Background(), "acme/app", "needle.txt")
	if !found || path != "dir1/needle.txt" {
		t.Errorf("path = %q, found = %v; want the nested copy first", path, found)
	}
}

func TestFindFileNotFound(t *testing.T) {
	listings := map[string]string{
		"": "[" + strings.Join([]string{
			fileEntry("a.txt", "a.txt"),
			dirEntry("dir1", "dir1"),
			dirEntry("dir2", "dir2"),
		}, ",") + "]",
		"dir1": "[" + fileEntry("b.txt", "dir1/b.txt") + "]",
		"dir2": "[]",
	}
	visits := map[string]int{}
	server := contentsServer(t, listings, visits)
	defer server.Close()

	c, _ := newTestClient(t, server.URL)

	if path, found := c.FindFile(context.Background(), "acme/app", "missing.txt"); found {
		t.Fatalf("FindFile() = %q, true; want not found", path)
	}
	for _, dir := range []string{"", "dir1", "dir2"} {
		if visits[dir] != 1 {
			t.Errorf("directory %q listed %d times, want exactly once", dir, visits[dir])
		}
	}
}

func TestFindFileSkipsFailingBranch(t *testing.T) {
	// dir1 has no listing registered, so the server 404s it. The walk must
	// backtrack and still reach dir2.
	listings := map[string]string{
		"": "[" + strings.Join([]string{
			dirEntry("dir1", "dir1"),
			dirEntry("dir2", "dir2"),
		}, ",") + "]",
		"dir2": "[" + fileEntry("needle.txt", "dir2/needle.txt") + "]",
	}
	server := contentsServer(t, listings, nil)
	defer server.Close()

	c, _ := newTestClient(t, server.URL)

	path, found := c.FindFile(context.Background(), "acme/app", "needle.txt")
	if !found || path != "dir2/needle.txt" {
		t.Errorf("path = %q, found = %v; want search to survive the dead branch", path, found)
	}
}

func TestFindFileCanceledContext(t *testing.T) {
	listings := map[string]string{
		"": "[" + dirEntry("dir1", "dir1") + "]",
	}
	server := contentsServer(t, listings, nil)
	defer server.Close()

	c, _ := newTestClient(t, server.URL)

	ctx, cancel := context.WithCancel(context.Background())
	root, err := c.ListDirectory(ctx, "acme/app", "")
	if err != nil || len(root) != 1 {
		t.Fatalf("priming listing failed: %v", err)
	}
	cancel()

	if _, found := c.FindFile(ctx, "acme/app", "anything"); found {
		t.Error("FindFile() with canceled context should report not found")
	}
}
