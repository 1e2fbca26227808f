package catalog

import (
	"sort"
)

// Store is an in-memory multi-index over FileRecords. It is not safe for
// concurrent mutation; scanning populates it before detection reads it.
type Store struct {
	order   []string
	byPath  map[string]*FileRecord
	byName  map[string][]string
	byDir   map[string][]string
	bySize  []sizeEntry
	resort  bool
}

type sizeEntry struct {
	size int64
	path string
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{
		byPath: make(map[string]*FileRecord),
		byName: make(map[string][]string),
		byDir:  make(map[string][]string),
	}
}

// Add indexes a record. Adding a path twice replaces the earlier record but
// keeps its original position, so iteration order stays stable.
func (s *Store) Add(record *FileRecord) {
	if record == nil || record.Path == "" {
		return
	}
	if _, exists := s.byPath[record.Path]; exists {
		s.byPath[record.Path] = record
		s.rebuildSizeIndex()
		return
	}
	s.byPath[record.Path] = record
	s.order = append(s.order, record.Path)
	name := record.Filename()
	s.byName[name] = append(s.byName[name], record.Path)
	dir := record.Directory()
	s.byDir[dir] = append(s.byDir[dir], record.Path)
	s.bySize = append(s.bySize, sizeEntry{size: record.Size, path: record.Path})
	s.resort = true
}

// Get returns the record for path, or nil.
func (s *Store) Get(path string) *FileRecord {
	return s.byPath[path]
}

// Len returns the number of records.
func (s *Store) Len() int {
	return len(s.order)
}

// Records returns all records in insertion order.
func (s *Store) Records() []*FileRecord {
	out := make([]*FileRecord, 0, len(s.order))
	for _, path := range s.order {
		out = append(out, s.byPath[path])
	}
	return out
}

// Filenames returns the distinct base filenames in first-seen order.
func (s *Store) Filenames() []string {
	seen := make(map[string]struct{}, len(s.byName))
	names := make([]string, 0, len(s.byName))
	for _, path := range s.order {
		name := s.byPath[path].Filename()
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// ByFilename returns all records sharing the given base filename, in
// insertion order.
func (s *Store) ByFilename(name string) []*FileRecord {
	return s.resolve(s.byName[name])
}

// ByDirectory returns all records located in the given directory.
func (s *Store) ByDirectory(dir string) []*FileRecord {
	return s.resolve(s.byDir[dir])
}

// SimilarSizes returns records whose size is within tolerance bytes of size.
func (s *Store) SimilarSizes(size, tolerance int64) []*FileRecord {
	if tolerance < 0 {
		tolerance = 0
	}
	s.ensureSorted()
	lo := size - tolerance
	hi := size + tolerance
	first := sort.Search(len(s.bySize), func(i int) bool { return s.bySize[i].size >= lo })
	var out []*FileRecord
	for i := first; i < len(s.bySize) && s.bySize[i].size <= hi; i++ {
		out = append(out, s.byPath[s.bySize[i].path])
	}
	return out
}

func (s *Store) resolve(paths []string) []*FileRecord {
	out := make([]*FileRecord, 0, len(paths))
	for _, path := range paths {
		if record := s.byPath[path]; record != nil {
			out = append(out, record)
		}
	}
	return out
}

func (s *Store) ensureSorted() {
	if !s.resort {
		return
	}
	sort.SliceStable(s.bySize, func(i, j int) bool { return s.bySize[i].size < s.bySize[j].size })
	s.resort = false
}

func (s *Store) rebuildSizeIndex() {
	s.bySize = s.bySize[:0]
	for _, path := range s.order {
		s.bySize = append(s.bySize, sizeEntry{size: s.byPath[path].Size, path: path})
	}
	s.resort = true
}
