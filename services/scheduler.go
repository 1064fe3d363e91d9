// services/scheduler.go
package services

import (
	"log"
	"time"

	"media-rewards-system/models"

	"github.com/go-co-op/gocron/v2"
)

// Streaks break after this much inactivity.
const streakGrace = 48 * time.Hour

func (s *LedgerService) StartStreakScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	// Every hour: break streaks for users who went quiet
	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(func() {
			cutoff := time.Now().Add(-streakGrace)
			res := s.DB.Model(&models.User{}).
				Where("streak_days > 0 AND last_activity < ?", cutoff).
				Update("streak_days", 0)
			if res.Error != nil {
				log.Printf("[Scheduler] DB error: %v", res.Error)
				return
			}
			if res.RowsAffected > 0 {
				log.Printf("✅ Reset streaks for %d inactive users", res.RowsAffected)
			}
		}),
	)
}
