package organization

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"sync"
	"time"

	"scriptory/internal/config"
	"scriptory/internal/domain"
	"scriptory/internal/domain/models"
)

// Store is the lightweight organization overlay: folders, pins, stars and
// recency, all referencing document ids weakly. It owns a single
// .collections.json file. Deleting a document does not clean these lists;
// dangling ids are filtered out when reading instead.
type Store struct {
	mu     sync.Mutex
	path   string
	logger *slog.Logger
	state  models.Collections
	now    func() time.Time
}

// NewStore loads the overlay from its backing file, starting empty if the
// file is missing or corrupt.
func NewStore(path string, logger *slog.Logger) *Store {
	s := &Store{
		path:   path,
		logger: logger,
		now:    time.Now,
	}
	s.state = emptyCollections()

	data, err := os.ReadFile(path)
	if err == nil {
		var loaded models.Collections
		if jsonErr := json.Unmarshal(data, &loaded); jsonErr != nil {
			logger.Warn("corrupt collections file, starting empty", "path", path, "error", jsonErr)
		} else {
			normalize(&loaded)
			s.state = loaded
		}
	} else if !os.IsNotExist(err) {
		logger.Warn("cannot read collections file, starting empty", "path", path, "error", err)
	}

	return s
}

func emptyCollections() models.Collections {
	return models.Collections{
		Folders:        []models.Folder{},
		Pinned:         []string{},
		Starred:        []string{},
		RecentlyViewed: []string{},
	}
}

func normalize(c *models.Collections) {
	if c.Folders == nil {
		c.Folders = []models.Folder{}
	}
	if c.Pinned == nil {
		c.Pinned = []string{}
	}
	if c.Starred == nil {
		c.Starred = []string{}
	}
	if c.RecentlyViewed == nil {
		c.RecentlyViewed = []string{}
	}
}

// Collections returns the overlay with dangling document references
// removed. exists reports whether a document id is still live; folders
// themselves are kept even when empty.
func (s *Store) Collections(exists func(id string) bool) models.Collections {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := emptyCollections()
	for _, folder := range s.state.Folders {
		cp := folder
		cp.Documents = filterIDs(folder.Documents, exists)
		out.Folders = append(out.Folders, cp)
	}
	out.Pinned = filterIDs(s.state.Pinned, exists)
	out.Starred = filterIDs(s.state.Starred, exists)
	out.RecentlyViewed = filterIDs(s.state.RecentlyViewed, exists)
	return out
}

func filterIDs(ids []string, exists func(id string) bool) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if exists == nil || exists(id) {
			out = append(out, id)
		}
	}
	return out
}

// CreateFolder adds a folder. parentID is an unchecked reference so a
// parent can be created after its children during imports.
func (s *Store) CreateFolder(name, parentID string) (*models.Folder, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: folder name is required", domain.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	folder := models.Folder{
		ID:        "folder-" + strconv.FormatInt(s.now().UnixMilli(), 10),
		Name:      name,
		ParentID:  parentID,
		Documents: []string{},
		CreatedAt: s.now().UnixMilli(),
	}
	s.state.Folders = append(s.state.Folders, folder)
	s.flushLocked()
	return &folder, nil
}

// AddToFolder adds a document id to a folder with set semantics: adding
// an id twice is a no-op.
func (s *Store) AddToFolder(folderID, docID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.state.Folders {
		if s.state.Folders[i].ID != folderID {
			continue
		}
		if !containsID(s.state.Folders[i].Documents, docID) {
			s.state.Folders[i].Documents = append(s.state.Folders[i].Documents, docID)
			s.flushLocked()
		}
		return nil
	}
	return &domain.NotFoundError{Message: fmt.Sprintf("folder %q not found", folderID)}
}

// PinDocument adds an id to the pinned set, idempotently.
func (s *Store) PinDocument(id string) {
	s.addToSet(&s.state.Pinned, id)
}

// StarDocument adds an id to the starred set, idempotently.
func (s *Store) StarDocument(id string) {
	s.addToSet(&s.state.Starred, id)
}

func (s *Store) addToSet(set *[]string, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if containsID(*set, id) {
		return
	}
	*set = append(*set, id)
	s.flushLocked()
}

// TrackRecentView moves an id to the front of the recently-viewed list,
// deduplicating any prior occurrence and capping the list length.
func (s *Store) TrackRecentView(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recent := make([]string, 0, len(s.state.RecentlyViewed)+1)
	recent = append(recent, id)
	for _, existing := range s.state.RecentlyViewed {
		if existing != id {
			recent = append(recent, existing)
		}
	}
	if len(recent) > config.MaxRecentDocuments {
		recent = recent[:config.MaxRecentDocuments]
	}
	s.state.RecentlyViewed = recent
	s.flushLocked()
}

func containsID(list []string, id string) bool {
	for _, item := range list {
		if item == id {
			return true
		}
	}
	return false
}

// flushLocked persists the overlay; failures are logged and swallowed.
func (s *Store) flushLocked() {
	data, err := json.MarshalIndent(&s.state, "", "  ")
	if err == nil {
		err = os.WriteFile(s.path, data, 0o644)
	}
	if err != nil {
		s.logger.Warn("failed to flush collections file", "path", s.path, "error", err)
	}
}
