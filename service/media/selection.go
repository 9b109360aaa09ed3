package media

// Selection is the ordered, duplicate-free list of image URLs being curated for a product.
// Index 0 is the main image.
type Selection struct {
	urls []string
}

// NewSelection starts from initial, keeping the first occurrence of each URL.
func NewSelection(initial []string) *Selection {
	s := &Selection{urls: make([]string, 0, len(initial))}
	for _, u := range initial {
		s.Append(u)
	}
	return s
}

// Toggle removes url if selected, otherwise appends it. It reports whether url is now selected.
func (s *Selection) Toggle(url string) bool {
	if s.Remove(url) {
		return false
	}
	return s.Append(url)
}

// Append adds url at the end unless it is empty or already selected.
func (s *Selection) Append(url string) bool {
	if url == "" || s.Contains(url) {
		return false
	}
	s.urls = append(s.urls, url)
	return true
}

func (s *Selection) Remove(url string) bool {
	i := s.indexOf(url)
	if i < 0 {
		return false
	}
	s.urls = append(s.urls[:i], s.urls[i+1:]...)
	return true
}

// Reorder moves the element at from to position to.
func (s *Selection) Reorder(from, to int) error {
	n := len(s.urls)
	if from < 0 || from >= n || to < 0 || to >= n {
		return ErrIndexOutOfRange
	}
	if from == to {
		return nil
	}
	u := s.urls[from]
	if from < to {
		copy(s.urls[from:to], s.urls[from+1:to+1])
	} else {
		copy(s.urls[to+1:from+1], s.urls[to:from])
	}
	s.urls[to] = u
	return nil
}

func (s *Selection) Main() (string, bool) {
	if len(s.urls) == 0 {
		return "", false
	}
	return s.urls[0], true
}

func (s *Selection) Contains(url string) bool {
	return s.indexOf(url) >= 0
}

func (s *Selection) Len() int { return len(s.urls) }

// Commit returns a copy of the ordered list.
func (s *Selection) Commit() []string {
	out := make([]string, len(s.urls))
	copy(out, s.urls)
	return out
}

func (s *Selection) indexOf(url string) int {
	for i, u := range s.urls {
		if u == url {
			return i
		}
	}
	return -1
}
