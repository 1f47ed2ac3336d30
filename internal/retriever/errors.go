package retriever

import "errors"

var (
	// ErrEmptyCorpus is the configuration error for initializing over an
	// empty document list. It is the only retriever error that propagates
	// as a hard failure.
	ErrEmptyCorpus = errors.New("retriever: corpus is empty")

	// ErrNotInitialized is returned by Retrieve before Init has run.
	ErrNotInitialized = errors.New("retriever: not initialized")
)
