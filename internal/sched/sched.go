// Package sched produces backup triggers on a cron schedule.
package sched

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/avoicu/dirkeep/internal/backup"
	"github.com/avoicu/dirkeep/internal/logging"
	"github.com/avoicu/dirkeep/internal/mailbox"
)

type Scheduler struct {
	cron *cron.Cron
	log  logging.Logger
}

// New registers the cron expression (standard 5-field format) and wires each
// firing to a trigger in the mailbox.
func New(spec string, log logging.Logger, mb *mailbox.Mailbox[backup.Trigger]) (*Scheduler, error) {
	c := cron.New()

	id, err := c.AddFunc(spec, func() {
		log.Info("schedule fired, requesting backup")
		mb.Put(backup.Trigger{Reason: "schedule", At: time.Now()})
	})
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression %q: %w", spec, err)
	}
	log.Debug("cron job registered", "id", int(id), "spec", spec)

	return &Scheduler{cron: c, log: log}, nil
}

// Start runs the scheduler until ctx is done, then waits for any in-flight
// firing to finish.
func (s *Scheduler) Start(ctx context.Context) {
	s.cron.Start()

	if entries := s.cron.Entries(); len(entries) > 0 {
		s.log.Info("next scheduled backup", "at", entries[0].Next.Format(time.DateTime))
	}

	<-ctx.Done()
	<-s.cron.Stop().Done()
}
