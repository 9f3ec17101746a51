package server

import (
	"fmt"

	"github.com/robfig/cron/v3"
)

// ScheduleCacheFlush clears the image cache on the given cron schedule,
// e.g. "@every 30m" or "0 * * * *". The returned function stops the
// schedule and waits for a running flush to finish.
func (s *Server) ScheduleCacheFlush(spec string) (stop func(), err error) {
	c := cron.New()
	if _, err := c.AddFunc(spec, s.flushCache); err != nil {
		return nil, fmt.Errorf("invalid cache flush schedule %q: %w", spec, err)
	}
	c.Start()
	s.logger.Debug("image cache flush scheduled", "schedule", spec)

	return func() { <-c.Stop().Done() }, nil
}

func (s *Server) flushCache() {
	s.cache.Clear()
	s.logger.Debug("image cache cleared")
}
