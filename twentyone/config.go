package twentyone

import (
	"fmt"
	"time"
)

type Config struct {
	// Tournament ends the moment either side reaches TargetScore.
	TargetScore int

	// Dealer keeps drawing while its hand is below DealerStandOn.
	DealerStandOn int

	// Pending invitations older than InvitationTTL are swept lazily.
	InvitationTTL time.Duration

	// Activity bookkeeping for the status query.
	ActivityWindow time.Duration
	VisitRetention time.Duration

	// RNG seed (0 => time-based)
	Seed int64
}

func DefaultConfig() Config {
	return Config{
		TargetScore:    101,
		DealerStandOn:  17,
		InvitationTTL:  30 * time.Minute,
		ActivityWindow: 24 * time.Hour,
		VisitRetention: 10 * 24 * time.Hour,
	}
}

func (c Config) validate() error {
	if c.TargetScore <= 0 {
		return fmt.Errorf("TargetScore must be > 0")
	}
	if c.DealerStandOn <= 0 || c.DealerStandOn > 21 {
		return fmt.Errorf("invalid DealerStandOn: %d", c.DealerStandOn)
	}
	if c.InvitationTTL <= 0 {
		return fmt.Errorf("InvitationTTL must be > 0")
	}
	if c.ActivityWindow <= 0 || c.VisitRetention <= 0 {
		return fmt.Errorf("activity windows must be > 0")
	}
	if c.VisitRetention < c.ActivityWindow {
		return fmt.Errorf("VisitRetention must be >= ActivityWindow")
	}
	return nil
}
