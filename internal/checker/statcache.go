package checker

import (
	"os"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// statEntry is the cached outcome of one os.Stat call.
type statEntry struct {
	exists bool
	isDir  bool
}

// statCache memoizes path existence for the lifetime of a single run.
// A nil lru disables caching.
type statCache struct {
	entries *lru.Cache[string, statEntry]
	statFn  func(string) (os.FileInfo, error)

	hits   atomic.Int64
	misses atomic.Int64
}

func newStatCache(size int) (*statCache, error) {
	sc := &statCache{statFn: os.Stat}

	if size <= 0 {
		return sc, nil
	}

	entries, err := lru.New[string, statEntry](size)
	if err != nil {
		return nil, err
	}

	sc.entries = entries

	return sc, nil
}

func (sc *statCache) lookup(path string) statEntry {
	if sc.entries != nil {
		if entry, ok := sc.entries.Get(path); ok {
			sc.hits.Add(1)

			return entry
		}
	}

	sc.misses.Add(1)

	var entry statEntry

	info, err := sc.statFn(path)
	if err == nil {
		entry = statEntry{exists: true, isDir: info.IsDir()}
	}

	if sc.entries != nil {
		sc.entries.Add(path, entry)
	}

	return entry
}

func (sc *statCache) exists(path string) bool {
	return sc.lookup(path).exists
}

func (sc *statCache) isDir(path string) bool {
	return sc.lookup(path).isDir
}
