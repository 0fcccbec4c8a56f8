package config

const (
	// MaxTitleLength is the maximum length for document titles.
	// Titles become directory names, so they must stay well under
	// filesystem name limits after slugging.
	MaxTitleLength = 200

	// MaxIconLength bounds the icon field (an emoji or short string).
	MaxIconLength = 16

	// MaxVersionsPerDocument is the version log retention cap. After
	// each snapshot the oldest versions beyond this count are deleted.
	MaxVersionsPerDocument = 20

	// MaxRecentDocuments caps the recently-viewed list in the
	// organization store (most recent first).
	MaxRecentDocuments = 20

	// MaxSearchHistoryPersisted is how many history entries the search
	// index file keeps; MaxSearchHistoryReturned is how many the API
	// surfaces.
	MaxSearchHistoryPersisted = 100
	MaxSearchHistoryReturned  = 50

	// MaxViewHistoryPerDocument caps the per-document view timestamp
	// history in the analytics store.
	MaxViewHistoryPerDocument = 1000

	// MaxEditLogEntries caps the global analytics edit log. The oldest
	// entries are trimmed first.
	MaxEditLogEntries = 10000

	// MinSearchTokenLength: tokens this short or shorter are discarded
	// when indexing and querying.
	MinSearchTokenLength = 2
)
