package services

import (
	"context"
	"log"
	"time"

	"siamvisa-backoffice/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
)

// ageRefreshSpec fires nightly at 02:30 server time, after the daily backup
// window.
const ageRefreshSpec = "30 2 * * *"

// AgeRefreshService keeps the derived age column in sync with date_of_birth.
// Ages drift once a year per client; a nightly sweep is enough.
type AgeRefreshService struct {
	clientRepo repositories.ClientRepository
	cron       *cron.Cron
}

// NewAgeRefreshService creates a new age refresh service
func NewAgeRefreshService(clientRepo repositories.ClientRepository) *AgeRefreshService {
	return &AgeRefreshService{
		clientRepo: clientRepo,
		cron:       cron.New(),
	}
}

// Start schedules the nightly refresh and runs one sweep immediately so a
// restarted server catches up on missed birthdays.
func (s *AgeRefreshService) Start() error {
	if _, err := s.cron.AddFunc(ageRefreshSpec, s.refresh); err != nil {
		return err
	}
	s.cron.Start()
	log.Println("🚀 AgeRefreshService started")

	go s.refresh()
	return nil
}

// Stop halts the scheduler and waits for a running sweep to finish.
func (s *AgeRefreshService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("🛑 AgeRefreshService stopped")
}

func (s *AgeRefreshService) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	updated, err := s.clientRepo.RefreshAges(ctx)
	if err != nil {
		log.Printf("❌ Age refresh error: %v", err)
		return
	}
	if updated > 0 {
		log.Printf("✅ Age refresh updated %d clients", updated)
	}
}
