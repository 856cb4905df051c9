package lsp

import "sync"

// DocumentStore holds open document contents and their latest analysis,
// keyed by URI.
type DocumentStore struct {
	mu      sync.RWMutex
	docs    map[string]string
	results map[string]*AnalysisResult
}

func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		docs:    make(map[string]string),
		results: make(map[string]*AnalysisResult),
	}
}

func (s *DocumentStore) Open(uri, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[uri] = content
	delete(s.results, uri)
}

// Update replaces the content of uri and drops its stale analysis.
func (s *DocumentStore) Update(uri, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[uri] = content
	delete(s.results, uri)
}

func (s *DocumentStore) Close(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, uri)
	delete(s.results, uri)
}

func (s *DocumentStore) Get(uri string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	content, ok := s.docs[uri]
	return content, ok
}

// SetResult stores the analysis of uri if the document is still open.
func (s *DocumentStore) SetResult(uri string, result *AnalysisResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[uri]; ok {
		s.results[uri] = result
	}
}

// Result returns the latest analysis of uri, or nil.
func (s *DocumentStore) Result(uri string) *AnalysisResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.results[uri]
}
