package sessions

import (
	"errors"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// ActiveSession is the in-memory record of a live visualization session.
type ActiveSession struct {
	ID     string
	UserID string
}

type cachedSession struct {
	ActiveSession
	expireAtTimestamp int64
}

// LocalCache tracks which visualization sessions are currently live. The
// persisted visSession rows stay in the store; this cache only answers
// liveness and expires entries via a cleanup loop.
type LocalCache struct {
	stop chan struct{}

	wg       sync.WaitGroup
	mu       sync.RWMutex
	sessions map[string]cachedSession
	ttl      time.Duration
}

// NewLocalCache creates a session cache whose cleanup loop runs at the given
// interval. Entries live for ttl after their last touch.
func NewLocalCache(ttl, cleanupInterval time.Duration) *LocalCache {
	log.Info("Creating session cache with cleanup interval ", cleanupInterval)
	lc := &LocalCache{
		sessions: make(map[string]cachedSession),
		stop:     make(chan struct{}),
		ttl:      ttl,
	}

	lc.wg.Add(1)
	go func(cleanupInterval time.Duration) {
		defer lc.wg.Done()
		lc.cleanupLoop(cleanupInterval)
	}(cleanupInterval)

	return lc
}

func (lc *LocalCache) cleanupLoop(interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-lc.stop:
			return
		case <-t.C:
			lc.mu.Lock()
			for id, cs := range lc.sessions {
				if cs.expireAtTimestamp <= time.Now().Unix() {
					log.Info("Session expired: ", id)
					delete(lc.sessions, id)
				}
			}
			lc.mu.Unlock()
		}
	}
}

// Touch adds the session to the cache or extends its lifetime.
func (lc *LocalCache) Touch(s ActiveSession) {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	log.Debug("Touching session in cache ", s.ID)

	lc.sessions[s.ID] = cachedSession{
		ActiveSession:     s,
		expireAtTimestamp: time.Now().Add(lc.ttl).Unix(),
	}
}

var errSessionNotInCache = errors.New("the session isn't in cache")

// Read returns the live session with the given id.
func (lc *LocalCache) Read(id string) (ActiveSession, error) {
	lc.mu.RLock()
	defer lc.mu.RUnlock()
	cs, ok := lc.sessions[id]
	if !ok {
		log.Debug("Session not found ", id)
		return ActiveSession{}, errSessionNotInCache
	}

	return cs.ActiveSession, nil
}

// EmptyCache removes all sessions and stops the cleanup loop.
func (lc *LocalCache) EmptyCache() {
	close(lc.stop)
	lc.wg.Wait()

	lc.mu.Lock()
	defer lc.mu.Unlock()
	log.Debug("Emptying session cache.")
	for id := range lc.sessions {
		delete(lc.sessions, id)
	}
}
