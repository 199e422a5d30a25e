package memory

import (
	"time"

	"rag-chat-be/internal/entity"

	"github.com/patrickmn/go-cache"
)

// TimelineRepository holds the in-memory timelines of active sessions. Idle
// sessions age out; the persisted history in redis remains.
type TimelineRepository struct {
	cache *cache.Cache
}

func NewTimelineRepository() *TimelineRepository {
	// Default expiration of 1 hour, purging expired items every 10 minutes
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &TimelineRepository{
		cache: c,
	}
}

func (r *TimelineRepository) Save(timeline *entity.ChatTimeline) {
	r.cache.Set(timeline.SessionId, timeline, cache.DefaultExpiration)
}

func (r *TimelineRepository) Get(sessionId string) (*entity.ChatTimeline, bool) {
	if x, found := r.cache.Get(sessionId); found {
		return x.(*entity.ChatTimeline), true
	}
	return nil, false
}

func (r *TimelineRepository) Delete(sessionId string) {
	r.cache.Delete(sessionId)
}
