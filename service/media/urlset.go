package media

import (
	"sort"
	"time"
)

// StorageObject is one stored file as the media engine sees it.
type StorageObject struct {
	Name      string    `json:"name"`
	PublicURL string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
	// SizeBytes is 0 when the backend did not report a size.
	SizeBytes int64 `json:"size_bytes"`
}

// UnorganizedImage is one entry of the picker list.
type UnorganizedImage struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

func toImages(objs []StorageObject) []UnorganizedImage {
	out := make([]UnorganizedImage, len(objs))
	for i, o := range objs {
		out[i] = UnorganizedImage{Name: o.Name, URL: o.PublicURL}
	}
	return out
}

// URLSet is an unordered set of public URLs. Sets handed out by the cache are shared: do not mutate them.
type URLSet map[string]struct{}

// NewURLSet builds a set from urls, dropping empty strings.
func NewURLSet(urls ...string) URLSet {
	s := make(URLSet, len(urls))
	for _, u := range urls {
		s.Add(u)
	}
	return s
}

func (s URLSet) Add(url string) {
	if url != "" {
		s[url] = struct{}{}
	}
}

// Has is safe on a nil set.
func (s URLSet) Has(url string) bool {
	_, ok := s[url]
	return ok
}

func (s URLSet) Len() int { return len(s) }

// Sorted returns the members in lexical order.
func (s URLSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for u := range s {
		out = append(out, u)
	}
	sort.Strings(out)
	return out
}
