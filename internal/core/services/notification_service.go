package services

import (
	"context"
	"log"
)

// Notifier delivers account links (verification, password reset) to users.
// Actual mail transport lives outside this service; the default
// implementation just logs the link so dev environments work without an
// email provider.
type Notifier interface {
	SendVerificationLink(ctx context.Context, email, url string) error
	SendPasswordResetLink(ctx context.Context, email, url string) error
}

// LogNotifier writes links to the process log.
type LogNotifier struct{}

// NewLogNotifier creates the log-backed notifier.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) SendVerificationLink(_ context.Context, email, url string) error {
	log.Printf("📧 Verification link for %s: %s", email, url)
	return nil
}

func (n *LogNotifier) SendPasswordResetLink(_ context.Context, email, url string) error {
	log.Printf("📧 Password reset link for %s: %s", email, url)
	return nil
}
