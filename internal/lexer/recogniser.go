package lexer

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"tac_converter/internal/conversion"
	"tac_converter/internal/patterns"
)

// Priority orders competing recognisers. Higher wins. The named tiers
// leave room for explicit ordinals in between.
type Priority int

const (
	PriorityLow    Priority = 10
	PriorityMedium Priority = 20
	PriorityHigh   Priority = 30
)

// Context is what the lexer knows when classifying the next piece of text.
type Context struct {
	Family    conversion.Family
	Prev      Kind // kind of the previous token, KindNone at the start
	InRemarks bool
	InChange  bool // a TAF change indicator was seen
	Hints     conversion.Hints
}

// Advance moves the context past a recognised token of kind k.
func (c *Context) Advance(k Kind) {
	c.Prev = k
	switch k {
	case KindRemarksStart:
		c.InRemarks = true
	case KindForecastChangeIndicator:
		c.InChange = true
	case KindNextAdvisoryLabel:
		c.InRemarks = false
	case KindEndToken:
		c.InRemarks = false
		c.InChange = false
	}
}

// Recogniser classifies text matching one pattern as one token kind.
type Recogniser struct {
	// Name identifies the recogniser; it doubles as the pattern name.
	Name string
	Kind Kind

	// Pattern uses {PLACEHOLDER} syntax and named groups. It must match the
	// whole text.
	Pattern string

	// Words is the number of whitespace separated words the pattern spans.
	// Zero means one.
	Words int

	Priority Priority

	// Families limits the recogniser to some message families. Empty means
	// every family.
	Families []conversion.Family

	// InRemarks allows the recogniser inside free text remarks.
	InRemarks bool

	// Accept is an optional guard on the classification context.
	Accept func(ctx *Context) bool

	// Classify fills slots from the match and may mark a syntax error.
	Classify func(m *patterns.Match, t *Token)
}

func (r *Recogniser) words() int {
	if r.Words < 1 {
		return 1
	}
	return r.Words
}

func (r *Recogniser) applies(ctx *Context) bool {
	if ctx.InRemarks && !r.InRemarks {
		return false
	}
	if len(r.Families) > 0 {
		found := false
		for _, f := range r.Families {
			if f == ctx.Family {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return r.Accept == nil || r.Accept(ctx)
}

// RecogniserSet holds all recognisers organised for classification.
type RecogniserSet struct {
	mu sync.RWMutex

	all []*Recogniser

	// byWords maps word counts to recognisers sorted by priority
	// (descending, registration order within a priority).
	byWords map[int][]*Recogniser

	compiler *patterns.Compiler
	maxWords int
	sorted   bool
}

// NewRecogniserSet creates an empty set.
func NewRecogniserSet() *RecogniserSet {
	return &RecogniserSet{byWords: make(map[int][]*Recogniser)}
}

// Global default set, filled by init() in the recogniser files.
var defaultSet = NewRecogniserSet()

// Default returns the global recogniser set, sorted and compiled.
func Default() *RecogniserSet {
	if err := defaultSet.Sort(); err != nil {
		panic(err)
	}
	return defaultSet
}

// register adds a recogniser to the default set.
func register(rs ...*Recogniser) {
	for _, r := range rs {
		defaultSet.Register(r)
	}
}

// Register adds a recogniser.
func (s *RecogniserSet) Register(r *Recogniser) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.all = append(s.all, r)
	s.sorted = false
}

// Sort compiles every pattern and orders recognisers by priority. It runs
// once; later calls are no-ops until another recogniser is registered.
func (s *RecogniserSet) Sort() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sorted {
		return nil
	}

	formats := make([]patterns.Format, 0, len(s.all))
	seen := make(map[string]bool, len(s.all))
	for _, r := range s.all {
		if seen[r.Name] {
			return fmt.Errorf("duplicate recogniser name %q", r.Name)
		}
		seen[r.Name] = true
		formats = append(formats, patterns.Format{Name: r.Name, Pattern: r.Pattern})
	}
	compiler := patterns.NewCompiler(formats, nil)
	if err := compiler.Compile(); err != nil {
		return err
	}

	byWords := make(map[int][]*Recogniser)
	maxWords := 1
	for _, r := range s.all {
		n := r.words()
		byWords[n] = append(byWords[n], r)
		if n > maxWords {
			maxWords = n
		}
	}
	for n := range byWords {
		rs := byWords[n]
		sort.SliceStable(rs, func(i, j int) bool {
			return rs[i].Priority > rs[j].Priority
		})
	}

	s.compiler = compiler
	s.byWords = byWords
	s.maxWords = maxWords
	s.sorted = true
	return nil
}

// MaxWords returns the longest word span of any recogniser.
func (s *RecogniserSet) MaxWords() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.maxWords
}

// Classify returns the token produced by the highest priority recogniser
// matching text. ok is false when nothing matches.
func (s *RecogniserSet) Classify(text string, ctx *Context) (Token, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	words := len(strings.Fields(text))
	for _, r := range s.byWords[words] {
		if !r.applies(ctx) {
			continue
		}
		m := s.compiler.Match(r.Name, text)
		if m == nil {
			continue
		}
		tok := Token{Text: text, Kind: r.Kind}
		if r.Classify != nil {
			r.Classify(m, &tok)
		}
		return tok, true
	}
	return Token{}, false
}

// Ambiguities lists pairs of recognisers with equal priority that both
// match text in the given context. A non-empty result is a configuration
// error.
func (s *RecogniserSet) Ambiguities(text string, ctx *Context) [][2]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*Recogniser
	for _, r := range s.byWords[len(strings.Fields(text))] {
		if r.applies(ctx) && s.compiler.Match(r.Name, text) != nil {
			matched = append(matched, r)
		}
	}
	var out [][2]string
	for i := 0; i < len(matched); i++ {
		for j := i + 1; j < len(matched); j++ {
			if matched[i].Priority == matched[j].Priority {
				out = append(out, [2]string{matched[i].Name, matched[j].Name})
			}
		}
	}
	return out
}

// Trace reports every recogniser pattern tried against text.
func (s *RecogniserSet) Trace(text string) *patterns.ParseTrace {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.compiler.ParseWithTrace(text)
}

// Recognisers returns all registered recognisers.
func (s *RecogniserSet) Recognisers() []*Recogniser {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Recogniser, len(s.all))
	copy(out, s.all)
	return out
}
