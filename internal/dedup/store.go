package dedup

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/rohmanhakim/list-crawler/pkg/failure"
	"github.com/rohmanhakim/list-crawler/pkg/fileutil"
)

const (
	seenListPagesFile = "seen_list_pages.json"
	seenItemLinksFile = "seen_item_links.json"
)

/*
Store holds the two persisted sets that make a crawl resumable: list
pages already visited and item links already discovered.

Ownership: a Store belongs to exactly one crawl loop for the run's
duration. Running two processes against the same state directory is
undefined behavior; single-writer discipline is a caller obligation, not
enforced by a lock.
*/
type Store struct {
	dir       string
	pagesPath string
	itemsPath string

	seenPages map[string]struct{}
	seenItems map[string]struct{}

	log *zap.SugaredLogger
}

// Open loads persisted state from dir. A missing or unparsable state
// file degrades to an empty set with a warning; the crawl proceeds and
// may reprocess URLs, which is acceptable. Losing the run is not.
func Open(dir string, log *zap.SugaredLogger) *Store {
	s := &Store{
		dir:       dir,
		pagesPath: filepath.Join(dir, seenListPagesFile),
		itemsPath: filepath.Join(dir, seenItemLinksFile),
		seenPages: make(map[string]struct{}),
		seenItems: make(map[string]struct{}),
		log:       log,
	}

	s.seenPages = s.loadSet(s.pagesPath)
	s.seenItems = s.loadSet(s.itemsPath)
	return s
}

func (s *Store) loadSet(path string) map[string]struct{} {
	set := make(map[string]struct{})

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warnw("could not read state file, starting empty",
				"path", path, "error", err)
		}
		return set
	}

	var entries []string
	if err := json.Unmarshal(data, &entries); err != nil {
		s.log.Warnw("could not parse state file, starting empty",
			"path", path, "error", err)
		return set
	}

	for _, entry := range entries {
		set[entry] = struct{}{}
	}
	return set
}

// IsNewPage reports whether url has never been visited as a list page.
func (s *Store) IsNewPage(url string) bool {
	_, seen := s.seenPages[url]
	return !seen
}

// IsNewItem reports whether url has never been discovered as an item.
func (s *Store) IsNewItem(url string) bool {
	_, seen := s.seenItems[url]
	return !seen
}

func (s *Store) MarkPageSeen(url string) {
	s.seenPages[url] = struct{}{}
}

func (s *Store) MarkItemSeen(url string) {
	s.seenItems[url] = struct{}{}
}

func (s *Store) PageCount() int { return len(s.seenPages) }
func (s *Store) ItemCount() int { return len(s.seenItems) }

// Persist writes both sets durably. Each file is written to a temporary
// sibling and renamed into place, so a crash mid-persist never corrupts
// state that was durable before the call.
func (s *Store) Persist() failure.ClassifiedError {
	if err := s.persistSet(s.pagesPath, s.seenPages); err != nil {
		return err
	}
	return s.persistSet(s.itemsPath, s.seenItems)
}

func (s *Store) persistSet(path string, set map[string]struct{}) failure.ClassifiedError {
	entries := make([]string, 0, len(set))
	for entry := range set {
		entries = append(entries, entry)
	}
	sort.Strings(entries)

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return &StateError{
			Message: err.Error(),
			Cause:   ErrCausePersistFailed,
			Path:    path,
		}
	}

	if writeErr := fileutil.WriteFileAtomic(path, data); writeErr != nil {
		return &StateError{
			Message: writeErr.Error(),
			Cause:   ErrCausePersistFailed,
			Path:    path,
		}
	}
	return nil
}
