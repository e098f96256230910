package functions

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/m2tx/contentkit/content"
)

const maxExcerptLen = 800

// Excerpt is a passage of an indexed document.
type Excerpt struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
	score    int
}

// DocumentIndex answers keyword queries over the .txt, .md and .pdf files
// of a directory. It is read-only once built.
type DocumentIndex struct {
	excerpts []Excerpt
	terms    []map[string]int
	pdfs     map[string]*content.Document
}

// NewDocumentIndex reads every supported file in dir. A missing directory
// yields an empty index.
func NewDocumentIndex(dir string, logger *slog.Logger) (*DocumentIndex, error) {
	idx := &DocumentIndex{pdfs: map[string]*content.Document{}}

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		logger.Warn("docs: directory not found, search disabled", "dir", dir)
		return idx, nil
	}
	if err != nil {
		return nil, fmt.Errorf("docs: read dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		path := filepath.Join(dir, name)

		var text string
		switch strings.ToLower(filepath.Ext(name)) {
		case ".txt", ".md":
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("docs: read %q: %w", name, err)
			}
			text = string(data)
		case ".pdf":
			doc, err := content.OpenPDF(path)
			if err != nil {
				return nil, fmt.Errorf("docs: %q: %w", name, err)
			}
			if text, err = doc.Text(); err != nil {
				return nil, fmt.Errorf("docs: %q: %w", name, err)
			}
			idx.pdfs[name] = doc
		default:
			continue
		}

		for _, passage := range passages(text, maxExcerptLen) {
			idx.excerpts = append(idx.excerpts, Excerpt{Filename: name, Content: passage})
			idx.terms = append(idx.terms, termCounts(passage))
		}
	}

	logger.Info("docs: indexed", "dir", dir, "excerpts", len(idx.excerpts), "pdfs", len(idx.pdfs))
	return idx, nil
}

// Search returns up to limit excerpts sharing the most terms with query.
func (idx *DocumentIndex) Search(query string, limit int) []Excerpt {
	queryTerms := termCounts(query)

	var hits []Excerpt
	for i, terms := range idx.terms {
		score := 0
		for term := range queryTerms {
			score += terms[term]
		}
		if score > 0 {
			hit := idx.excerpts[i]
			hit.score = score
			hits = append(hits, hit)
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits
}

// Document returns the indexed PDF called name so it can be attached to a
// prompt as inline data.
func (idx *DocumentIndex) Document(name string) (*content.Document, bool) {
	doc, ok := idx.pdfs[name]
	return doc, ok
}

type SearchDocsArgs struct {
	Query string `json:"query" description:"The search query describing what information you need"`
	Limit int    `json:"limit,omitempty" description:"Maximum number of excerpts, default 3"`
}

func (idx *DocumentIndex) searchDocs(ctx context.Context, args SearchDocsArgs) (map[string]any, error) {
	if strings.TrimSpace(args.Query) == "" {
		return nil, fmt.Errorf("search_docs: query argument is required")
	}
	limit := args.Limit
	if limit <= 0 {
		limit = 3
	}
	return map[string]any{"results": idx.Search(args.Query, limit)}, nil
}

func (idx *DocumentIndex) SearchDeclaration() (*content.CallableFunctionDeclaration, error) {
	return content.NewCallableFunctionDeclaration(
		"search_docs",
		"Searches the internal document library for information relevant to the query. Use this whenever the user asks about topics that might be covered in internal documentation.",
		idx.searchDocs,
	)
}

func termCounts(text string) map[string]int {
	counts := map[string]int{}
	for _, word := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		if len(word) > 2 {
			counts[word]++
		}
	}
	return counts
}

// passages splits text on blank lines and packs paragraphs into pieces of
// at most maxLen bytes. Longer paragraphs are kept whole.
func passages(text string, maxLen int) []string {
	var out []string
	var current strings.Builder
	for _, p := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if current.Len() > 0 && current.Len()+len(p)+2 > maxLen {
			out = append(out, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(p)
	}
	if current.Len() > 0 {
		out = append(out, current.String())
	}
	return out
}
