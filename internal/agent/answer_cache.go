package agent

import (
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const answerCacheTTL = 5 * time.Minute

// cachedAnswer holds one completed agent outcome
type cachedAnswer struct {
	text      string
	toolsUsed []string
	usage     Usage
	expiresAt time.Time
}

// answerCache memoizes agent answers keyed by prompt. Concurrent requests
// for the same prompt share a single model call via singleflight.
type answerCache struct {
	mu    sync.RWMutex
	store map[string]cachedAnswer
	sf    singleflight.Group
}

func newAnswerCache() *answerCache {
	return &answerCache{store: make(map[string]cachedAnswer)}
}

func (c *answerCache) get(prompt string) (cachedAnswer, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.store[prompt]
	if !ok || time.Now().After(e.expiresAt) {
		return cachedAnswer{}, false
	}
	return e, true
}

func (c *answerCache) set(prompt string, e cachedAnswer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e.expiresAt = time.Now().Add(answerCacheTTL)
	c.store[prompt] = e
}

// do runs fill once per in-flight prompt. Successful outcomes are cached by
// the caller via set; failures are not cached.
func (c *answerCache) do(prompt string, fill func() (cachedAnswer, error)) (cachedAnswer, error) {
	v, err, _ := c.sf.Do(prompt, func() (interface{}, error) {
		// Double-check inside singleflight in case another goroutine
		// populated the cache while we waited to enter.
		if e, ok := c.get(prompt); ok {
			return e, nil
		}
		e, err := fill()
		if err != nil {
			return cachedAnswer{}, err
		}
		c.set(prompt, e)
		return e, nil
	})
	if err != nil {
		return cachedAnswer{}, err
	}
	return v.(cachedAnswer), nil
}

func (c *answerCache) invalidate(prompt string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, prompt)
}
