package document

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ppiankov/corefer/internal/mention"
	"github.com/ppiankov/corefer/internal/model"
)

type wireDocument struct {
	ID         string         `json:"id"`
	SourceType string         `json:"source_type"`
	Sentences  []wireSentence `json:"sentences"`
	Entities   []wireEntity   `json:"entities"`
}

type wireSentence struct {
	Tokens       []Token       `json:"tokens"`
	Mentions     []wireMention `json:"mentions"`
	Propositions []Proposition `json:"propositions"`
}

type wireMention struct {
	Type       string `json:"type"`
	EntityType string `json:"entity_type"`
	Subtype    string `json:"subtype"`
	Role       string `json:"role"`
	Start      int    `json:"start"`
	End        int    `json:"end"`
	Head       *int   `json:"head"`
	Number     string `json:"number"`
	Quoted     bool   `json:"quoted"`
	Children   []int  `json:"children"`
}

type wireEntity struct {
	Type     string       `json:"type"`
	Mentions []mention.ID `json:"mentions"`
}

// ReadFile decodes a document from a JSON file
func ReadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	defer func() { _ = f.Close() }()

	doc, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Decode reads one JSON document and builds its mention arenas
func Decode(r io.Reader) (*Document, error) {
	var w wireDocument
	if err := json.NewDecoder(r).Decode(&w); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return build(&w)
}

func build(w *wireDocument) (*Document, error) {
	doc := &Document{
		ID:         w.ID,
		SourceType: w.SourceType,
		Sentences:  make([]*Sentence, 0, len(w.Sentences)),
	}

	for si, ws := range w.Sentences {
		s := &Sentence{
			Index:        si,
			Tokens:       ws.Tokens,
			Mentions:     mention.NewSet(si),
			Propositions: ws.Propositions,
		}
		for mi, wm := range ws.Mentions {
			m, err := wm.toMention(len(ws.Tokens))
			if err != nil {
				return nil, fmt.Errorf("sentence %d mention %d: %w", si, mi, err)
			}
			added := s.Mentions.Add(m)
			if wm.Subtype != "" {
				if err := added.SetSubtype(model.EntitySubtype(wm.Subtype)); err != nil {
					return nil, fmt.Errorf("sentence %d mention %d: %w", si, mi, err)
				}
			}
		}
		if err := linkChildren(s.Mentions, ws.Mentions); err != nil {
			return nil, fmt.Errorf("sentence %d: %w", si, err)
		}
		for pi, p := range ws.Propositions {
			for _, a := range p.Args {
				if s.Mentions.At(a.Mention) == nil {
					return nil, fmt.Errorf("sentence %d proposition %d: argument mention %d out of range", si, pi, a.Mention)
				}
			}
		}
		doc.Sentences = append(doc.Sentences, s)
	}

	for i, we := range w.Entities {
		t := model.ParseEntityType(we.Type)
		if !t.Recognized() {
			return nil, fmt.Errorf("entity %d: unknown type %q", i, we.Type)
		}
		for _, id := range we.Mentions {
			if doc.Mention(id) == nil {
				return nil, fmt.Errorf("entity %d: unknown mention %s", i, id)
			}
		}
		doc.Seeds = append(doc.Seeds, Seed{Type: t, Mentions: we.Mentions})
	}

	return doc, nil
}

func (wm wireMention) toMention(tokens int) (mention.Mention, error) {
	mt := model.MentionType(wm.Type)
	if !mt.Valid() {
		return mention.Mention{}, fmt.Errorf("unknown mention type %q", wm.Type)
	}
	if wm.Start < 0 || wm.End < wm.Start || wm.End >= tokens {
		return mention.Mention{}, fmt.Errorf("span %d..%d outside %d tokens", wm.Start, wm.End, tokens)
	}
	head := wm.End
	if wm.Head != nil {
		head = *wm.Head
	}
	if head < wm.Start || head > wm.End {
		return mention.Mention{}, fmt.Errorf("head %d outside span %d..%d", head, wm.Start, wm.End)
	}

	m := mention.Mention{
		Type:       mt,
		EntityType: model.ParseEntityType(wm.EntityType),
		Start:      wm.Start,
		End:        wm.End,
		Head:       head,
		Number:     model.Number(wm.Number),
		Quoted:     wm.Quoted,
	}
	if wm.Role != "" {
		m.Role = model.ParseEntityType(wm.Role)
	}
	switch m.Number {
	case model.NumberUnknown, model.NumberSingular, model.NumberPlural:
	default:
		return mention.Mention{}, fmt.Errorf("unknown number %q", wm.Number)
	}
	return m, nil
}

// linkChildren builds compound structure through the arena operations so
// that malformed input fails the same invariants as engine code would.
func linkChildren(set *mention.Set, wms []wireMention) error {
	for parent, wm := range wms {
		for k, child := range wm.Children {
			var err error
			if k == 0 {
				err = set.Attach(child, parent)
			} else {
				err = set.Chain(wm.Children[k-1], child)
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}
