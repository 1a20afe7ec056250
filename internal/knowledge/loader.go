package knowledge

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"sync"

	"github.com/ppiankov/corefer/internal/cache"
	"github.com/ppiankov/corefer/internal/logging"
	"github.com/ppiankov/corefer/internal/model"
	"golang.org/x/sync/errgroup"
)

// Loader reads world-knowledge files. Files are loaded concurrently and
// their raw contents go through the cache.
type Loader struct {
	cache    cache.Cache
	logger   *slog.Logger
	throttle *logging.Throttle
}

// NewLoader creates a loader. A nil cache reads from disk every time.
func NewLoader(c cache.Cache, logger *slog.Logger, throttle *logging.Throttle) *Loader {
	if logger == nil {
		logger = logging.Discard()
	}
	if throttle == nil {
		throttle = logging.NewThrottle(5, 10)
	}
	return &Loader{cache: c, logger: logger, throttle: throttle}
}

// Load builds a Knowledge value from cfg. A file that does not exist
// disables its signal with a warning; any other read failure is an error.
func (l *Loader) Load(ctx context.Context, cfg model.KnowledgeConfig) (*Knowledge, error) {
	var (
		mu   sync.Mutex
		opts []Option
	)
	add := func(opt Option) {
		mu.Lock()
		opts = append(opts, opt)
		mu.Unlock()
	}

	g, ctx := errgroup.WithContext(ctx)

	for label, path := range cfg.Gazetteers {
		path := path
		t := model.ParseEntityType(label)
		if !t.Recognized() {
			return nil, fmt.Errorf("gazetteer for unknown entity type %q", label)
		}
		g.Go(func() error {
			gaz, err := l.loadGazetteer(ctx, path)
			if err != nil || gaz == nil {
				return err
			}
			add(WithGazetteer(t, gaz))
			return nil
		})
	}

	lists := []struct {
		path string
		kind string
		opt  func([]string) Option
	}{
		{cfg.StopWords, "stop words", WithStopWords},
		{cfg.AmbiguousSurnames, "ambiguous surnames", WithAmbiguousSurnames},
		{cfg.Teams, "teams", WithTeams},
	}
	for _, list := range lists {
		list := list
		g.Go(func() error {
			words, err := l.loadWordList(ctx, list.path, list.kind)
			if err != nil || words == nil {
				return err
			}
			add(list.opt(words))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load knowledge: %w", err)
	}
	return New(opts...), nil
}

// read returns nil data for a missing or unset optional file
func (l *Loader) read(ctx context.Context, path, kind string) ([]byte, error) {
	if path == "" {
		l.logger.Debug("knowledge file not configured", slog.String("kind", kind))
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := cache.ReadFile(l.cache, path)
	if errors.Is(err, fs.ErrNotExist) {
		l.logger.Warn("knowledge file missing, signal disabled",
			slog.String("kind", kind), slog.String("path", path))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s %s: %w", kind, path, err)
	}
	return data, nil
}

func (l *Loader) loadGazetteer(ctx context.Context, path string) (*Gazetteer, error) {
	data, err := l.read(ctx, path, "gazetteer")
	if err != nil || data == nil {
		return nil, err
	}
	gaz, err := ParseGazetteer(bytes.NewReader(data), func(line int, text string, perr error) {
		l.throttle.Warn(l.logger, path, "skipping malformed gazetteer line",
			slog.String("path", path), slog.Int("line", line), slog.String("text", text), slog.Any("error", perr))
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	l.logger.Debug("loaded gazetteer", slog.String("path", path), slog.Int("names", gaz.Len()))
	return gaz, nil
}

// loadWordList reads one lower-cased token per line, skipping blank lines
// and comments. Lines with more than one token are skipped with a warning.
func (l *Loader) loadWordList(ctx context.Context, path, kind string) ([]string, error) {
	data, err := l.read(ctx, path, kind)
	if err != nil || data == nil {
		return nil, err
	}

	words := []string{}
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if len(strings.Fields(line)) != 1 {
			l.throttle.Warn(l.logger, path, "skipping malformed word-list line",
				slog.String("path", path), slog.Int("line", lineNo), slog.String("text", line))
			continue
		}

		word := strings.ToLower(line)
		if !seen[word] {
			seen[word] = true
			words = append(words, word)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan %s %s: %w", kind, path, err)
	}

	l.logger.Debug("loaded word list", slog.String("kind", kind), slog.String("path", path), slog.Int("words", len(words)))
	return words, nil
}
