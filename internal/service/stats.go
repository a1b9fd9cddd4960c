package service

import (
	"context"
	"log"

	"taskhub/internal/store"
)

// StatsSource is the slice of the store the stats job reads from.
type StatsSource interface {
	Stats(ctx context.Context) (store.Stats, error)
}

// StatsService periodically logs collection totals for operational
// visibility. It never mutates state.
type StatsService struct {
	source StatsSource
}

func NewStatsService(source StatsSource) *StatsService {
	return &StatsService{source: source}
}

// LogSnapshot reads current totals and writes one log line.
func (s *StatsService) LogSnapshot(ctx context.Context) error {
	st, err := s.source.Stats(ctx)
	if err != nil {
		return err
	}
	log.Printf("[info] stats users=%d todos=%d categories=%d tags=%d migrated=%d",
		st.Users, st.Todos, st.Categories, st.Tags, st.Migrated)
	return nil
}
