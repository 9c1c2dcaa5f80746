// Package export persists scan results as delimited files: one table of
// repository metadata, one table of extracted dependency records.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/davecthomas/ghdeps/pkg/github"
)

// RepoRow is one line of the repository table: the repo's metadata, its
// most recent commit, and the dependency manifest located for it.
type RepoRow struct {
	Repo             github.Repo
	Commit           *github.Commit
	DependencySystem string
	DependencyFile   string
}

// DependencyRecord is one extracted dependency declaration. Terminal data:
// written to the output table and never mutated again.
type DependencyRecord struct {
	Repository   string
	ManifestPath string
	Package      string
	Version      string
}

var repoHeader = []string{
	"name", "full_name", "html_url", "description",
	"created_at", "updated_at", "pushed_at",
	"stargazers_count", "watchers_count", "forks_count",
	"language", "owner", "private", "size",
	"open_issues_count", "default_branch",
	"most_recent_commit_sha", "most_recent_commit_author", "most_recent_commit_date",
	"dependency_management_system", "dependency_file",
}

var dependencyHeader = []string{"repository", "manifest_path", "package", "version"}

// RepoWriter writes repository rows to CSV.
type RepoWriter struct {
	file   *os.File
	writer *csv.Writer
	mu     sync.Mutex
}

// NewRepoWriter initialises a CSV writer and writes the header row.
func NewRepoWriter(filename string) (*RepoWriter, error) {
	f, w, err := openCSV(filename, repoHeader)
	if err != nil {
		return nil, err
	}
	return &RepoWriter{file: f, writer: w}, nil
}

// Write appends repository rows to the CSV output.
func (rw *RepoWriter) Write(rows []RepoRow) error {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	for _, row := range rows {
		commit := github.Commit{}
		if row.Commit != nil {
			commit = *row.Commit
		}
		r := row.Repo
		record := []string{
			r.Name, r.FullName, r.HTMLURL, r.Description,
			r.CreatedAt, r.UpdatedAt, r.PushedAt,
			strconv.Itoa(r.Stars), strconv.Itoa(r.Watchers), strconv.Itoa(r.Forks),
			r.Language, r.Owner.Login, strconv.FormatBool(r.Private), strconv.Itoa(r.Size),
			strconv.Itoa(r.OpenIssues), r.DefaultBranch,
			commit.SHA, commit.Author, commit.Date,
			row.DependencySystem, row.DependencyFile,
		}
		if err := rw.writer.Write(record); err != nil {
			return fmt.Errorf("write repo record: %w", err)
		}
	}
	rw.writer.Flush()
	if err := rw.writer.Error(); err != nil {
		return fmt.Errorf("flush repo records: %w", err)
	}
	return nil
}

// Close flushes and closes the file handle.
func (rw *RepoWriter) Close() error {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	rw.writer.Flush()
	if err := rw.writer.Error(); err != nil {
		return fmt.Errorf("flush repo writer: %w", err)
	}
	return rw.file.Close()
}

// DependencyWriter writes dependency records to CSV.
type DependencyWriter struct {
	file   *os.File
	writer *csv.Writer
	mu     sync.Mutex
}

// NewDependencyWriter initialises a CSV writer and writes the header row.
func NewDependencyWriter(filename string) (*DependencyWriter, error) {
	f, w, err := openCSV(filename, dependencyHeader)
	if err != nil {
		return nil, err
	}
	return &DependencyWriter{file: f, writer: w}, nil
}

// Write appends dependency records to the CSV output.
func (dw *DependencyWriter) Write(records []DependencyRecord) error {
	dw.mu.Lock()
	defer dw.mu.Unlock()

	for _, rec := range records {
		row := []string{rec.Repository, rec.ManifestPath, rec.Package, rec.Version}
		if err := dw.writer.Write(row); err != nil {
			return fmt.Errorf("write dependency record: %w", err)
		}
	}
	dw.writer.Flush()
	if err := dw.writer.Error(); err != nil {
		return fmt.Errorf("flush dependency records: %w", err)
	}
	return nil
}

// Close flushes and closes the file handle.
func (dw *DependencyWriter) Close() error {
	dw.mu.Lock()
	defer dw.mu.Unlock()

	dw.writer.Flush()
	if err := dw.writer.Error(); err != nil {
		return fmt.Errorf("flush dependency writer: %w", err)
	}
	return dw.file.Close()
}

func openCSV(filename string, header []string) (*os.File, *csv.Writer, error) {
	if dir := filepath.Dir(filename); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create output dir: %w", err)
		}
	}

	f, err := os.Create(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("create csv file: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("write csv header: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("flush csv header: %w", err)
	}
	return f, w, nil
}
