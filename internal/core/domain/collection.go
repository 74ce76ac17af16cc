package domain

import "sync"

// StoryCollection is an ordered, concurrency-safe list of stories. Order is
// the server's order for fetched lists and most-recent-first for stories
// inserted locally.
type StoryCollection struct {
	mu      sync.RWMutex
	stories []Story
}

// NewStoryCollection builds a collection in the given order. A story whose ID
// was already seen earlier in the slice is dropped.
func NewStoryCollection(stories []Story) *StoryCollection {
	c := &StoryCollection{}
	c.stories = dedupe(stories)
	return c
}

func dedupe(stories []Story) []Story {
	out := make([]Story, 0, len(stories))
	seen := make(map[string]struct{}, len(stories))
	for _, s := range stories {
		if _, ok := seen[s.ID]; ok {
			continue
		}
		seen[s.ID] = struct{}{}
		out = append(out, s)
	}
	return out
}

// Len returns the number of stories held.
func (c *StoryCollection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.stories)
}

// Stories returns a snapshot copy of the collection.
func (c *StoryCollection) Stories() []Story {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Story, len(c.stories))
	copy(out, c.stories)
	return out
}

// IDs returns the story IDs in collection order.
func (c *StoryCollection) IDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]string, len(c.stories))
	for i, s := range c.stories {
		ids[i] = s.ID
	}
	return ids
}

// Get looks a story up by ID.
func (c *StoryCollection) Get(id string) (Story, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i := c.indexOf(id); i >= 0 {
		return c.stories[i], true
	}
	return Story{}, false
}

// Contains reports whether a story with the given ID is held.
func (c *StoryCollection) Contains(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.indexOf(id) >= 0
}

// Prepend inserts s at the head of the collection. It mirrors a successful
// remote create, so the ID is new by construction.
func (c *StoryCollection) Prepend(s Story) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stories = append([]Story{s}, c.stories...)
}

// RemoveByID removes the story with the given ID and reports whether it was
// present. Removing an absent ID is a no-op.
func (c *StoryCollection) RemoveByID(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexOf(id)
	if i < 0 {
		return false
	}
	c.stories = append(c.stories[:i:i], c.stories[i+1:]...)
	return true
}

// Replace swaps the whole content for a server snapshot.
func (c *StoryCollection) Replace(stories []Story) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stories = dedupe(stories)
}

// indexOf returns -1 when id is absent. Callers hold the lock.
func (c *StoryCollection) indexOf(id string) int {
	for i, s := range c.stories {
		if s.ID == id {
			return i
		}
	}
	return -1
}
