package index

import (
	"strings"
	"sync"

	"github.com/BenjaminSRussell/wibot/internal/tokenize"
)

// Document is one URL's accumulated text, as handed to the indexer
// either in a batch or over the background channel.
type Document struct {
	URL  string
	Text string
}

// Indexer owns the vocabulary and term dictionary and drives tokenizing
// documents into postings, grounded on original_source's Indexer class.
type Indexer struct {
	Vocabulary *URLVocabulary
	Terms      *TermDictionary

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	done    chan struct{}
}

// NewIndexer returns an empty indexer.
func NewIndexer() *Indexer {
	vocab := NewURLVocabulary()
	return &Indexer{
		Vocabulary: vocab,
		Terms:      NewTermDictionary(vocab),
	}
}

// IndexText assigns (or reuses) a document ID for url, tokenizes text,
// and records every resulting token as an occurrence in that document.
func (ix *Indexer) IndexText(url, text string) int {
	docID := ix.Vocabulary.Add(url)
	for _, token := range tokenize.Tokenize(strings.ToLower(text)) {
		ix.Terms.AddOccurrence(token, docID)
	}
	return docID
}

// IndexBatch indexes an entire corpus (url → text) in one pass, for the
// offline path where crawling has already finished.
func (ix *Indexer) IndexBatch(corpus map[string]string) {
	for url, text := range corpus {
		ix.IndexText(url, text)
	}
}

// StartBackground launches a goroutine that drains unindexed and indexes
// each document as it arrives, so a crawl service can feed pages into
// the index incrementally instead of waiting for the crawl to finish.
// Grounded on original_source/indexing/indexer.py's start_indexer, whose
// background thread loops `url, contents = queue.get()` for as long as
// self.indexing holds.
func (ix *Indexer) StartBackground(unindexed <-chan Document) {
	ix.mu.Lock()
	if ix.running {
		ix.mu.Unlock()
		return
	}
	ix.running = true
	ix.stop = make(chan struct{})
	ix.done = make(chan struct{})
	ix.mu.Unlock()

	go func() {
		defer close(ix.done)
		for {
			select {
			case <-ix.stop:
				return
			case doc, ok := <-unindexed:
				if !ok {
					return
				}
				ix.IndexText(doc.URL, doc.Text)
			}
		}
	}()
}

// StopBackground signals the background goroutine to exit and waits for
// it to do so. Safe to call even if StartBackground was never called.
func (ix *Indexer) StopBackground() {
	ix.mu.Lock()
	if !ix.running {
		ix.mu.Unlock()
		return
	}
	ix.running = false
	stop, done := ix.stop, ix.done
	ix.mu.Unlock()

	close(stop)
	<-done
}
