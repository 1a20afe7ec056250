package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ppiankov/corefer/internal/model"
	"github.com/ppiankov/corefer/internal/pipeline"
)

// Resolver resolves one document file
type Resolver interface {
	ResolveFile(ctx context.Context, path string) (*pipeline.Result, error)
}

// DocumentJob resolves the document at Path
type DocumentJob struct {
	Index    int
	Path     string
	Resolver Resolver
}

// Execute runs the job
func (j *DocumentJob) Execute(ctx context.Context) Result {
	start := time.Now()
	res := &DocumentResult{Index: j.Index, Path: j.Path}
	result, err := j.Resolver.ResolveFile(ctx, j.Path)
	res.Duration = time.Since(start)
	if err != nil {
		res.Error = err
		return res
	}
	res.Report = result.Report
	return res
}

// DocumentResult is the outcome of one document. A failed document does
// not affect the others.
type DocumentResult struct {
	Index    int
	Path     string
	Report   *model.Report
	Duration time.Duration
	Error    error
}

// Err returns the error of the document, if any
func (r *DocumentResult) Err() error {
	return r.Error
}

// BatchProcessor resolves many documents concurrently
type BatchProcessor struct {
	resolver    Resolver
	concurrency int
	timeout     time.Duration
}

// NewBatchProcessor creates a batch processor. timeout bounds each
// document; zero means no per-document deadline.
func NewBatchProcessor(resolver Resolver, concurrency int, timeout time.Duration) *BatchProcessor {
	return &BatchProcessor{
		resolver:    resolver,
		concurrency: concurrency,
		timeout:     timeout,
	}
}

// ProcessPaths resolves the documents and returns one result per path in
// input order
func (b *BatchProcessor) ProcessPaths(ctx context.Context, paths []string) []*DocumentResult {
	if len(paths) == 0 {
		return []*DocumentResult{}
	}

	pool := NewPool(ctx, b.concurrency, b.timeout)
	pool.Start()

	for i, path := range paths {
		if !pool.Submit(&DocumentJob{Index: i, Path: path, Resolver: b.resolver}) {
			break
		}
	}
	results := pool.Wait()

	ordered := make([]*DocumentResult, len(paths))
	for _, r := range results {
		dr := r.(*DocumentResult)
		ordered[dr.Index] = dr
	}
	for i, r := range ordered {
		if r == nil {
			err := ctx.Err()
			if err == nil {
				err = context.Canceled
			}
			ordered[i] = &DocumentResult{Index: i, Path: paths[i], Error: fmt.Errorf("not processed: %w", err)}
		}
	}
	return ordered
}

// ProcessFile reads document paths from a list file and resolves them
func (b *BatchProcessor) ProcessFile(ctx context.Context, listPath string) ([]*DocumentResult, error) {
	paths, err := ReadPathsFromFile(listPath)
	if err != nil {
		return nil, fmt.Errorf("read document list: %w", err)
	}
	return b.ProcessPaths(ctx, paths), nil
}

// ReadPathsFromFile reads document paths, one per line. Blank lines and
// lines starting with # are skipped, duplicates dropped. Relative paths
// are resolved against the list file's directory.
func ReadPathsFromFile(listPath string) ([]string, error) {
	file, err := os.Open(listPath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	base := filepath.Dir(listPath)
	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !filepath.IsAbs(line) {
			line = filepath.Join(base, line)
		}
		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}
	return paths, nil
}
