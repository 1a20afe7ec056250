package knowledge

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// MatchKind is the outcome of a gazetteer lookup
type MatchKind int

const (
	MatchUnknown MatchKind = iota
	MatchSingleton
	MatchCluster
)

// Match is a tagged lookup result; Cluster is meaningful only for
// MatchCluster
type Match struct {
	Kind    MatchKind
	Cluster int
}

// SameCluster reports whether two matches name the same cluster
func (m Match) SameCluster(other Match) bool {
	return m.Kind == MatchCluster && other.Kind == MatchCluster && m.Cluster == other.Cluster
}

// Gazetteer maps normalized names to cluster ids
type Gazetteer struct {
	names map[string]Match
}

// Len returns the number of names
func (g *Gazetteer) Len() int {
	if g == nil {
		return 0
	}
	return len(g.names)
}

// Lookup returns the match for a normalized name
func (g *Gazetteer) Lookup(normalized string) Match {
	if g == nil {
		return Match{}
	}
	return g.names[normalized]
}

type gazetteerEntry struct {
	name string
	id   int
}

// ParseGazetteer reads lines of the form "( tok tok ) id". Consecutive
// lines sharing an id form a cluster; an id on a single line is a
// singleton. Malformed lines are reported to skip and ignored.
func ParseGazetteer(r io.Reader, skip func(line int, text string, err error)) (*Gazetteer, error) {
	var entries []gazetteerEntry

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entry, err := parseGazetteerLine(line)
		if err != nil {
			if skip != nil {
				skip(lineNo, line, err)
			}
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan gazetteer: %w", err)
	}

	g := &Gazetteer{names: make(map[string]Match, len(entries))}
	for start := 0; start < len(entries); {
		end := start + 1
		for end < len(entries) && entries[end].id == entries[start].id {
			end++
		}
		match := Match{Kind: MatchSingleton}
		if end-start > 1 {
			match = Match{Kind: MatchCluster, Cluster: entries[start].id}
		}
		for _, e := range entries[start:end] {
			if _, exists := g.names[e.name]; !exists {
				g.names[e.name] = match
			}
		}
		start = end
	}
	return g, nil
}

func parseGazetteerLine(line string) (gazetteerEntry, error) {
	if !strings.HasPrefix(line, "(") {
		return gazetteerEntry{}, errors.New("missing opening parenthesis")
	}
	closeAt := strings.LastIndex(line, ")")
	if closeAt < 0 {
		return gazetteerEntry{}, errors.New("missing closing parenthesis")
	}
	tokens := strings.Fields(line[1:closeAt])
	if len(tokens) == 0 {
		return gazetteerEntry{}, errors.New("empty name")
	}
	idField := strings.TrimSpace(line[closeAt+1:])
	id, err := strconv.Atoi(idField)
	if err != nil {
		return gazetteerEntry{}, fmt.Errorf("bad id %q", idField)
	}
	name := NormalizeTokens(tokens)
	if name == "" {
		return gazetteerEntry{}, errors.New("name normalizes to nothing")
	}
	return gazetteerEntry{name: name, id: id}, nil
}
