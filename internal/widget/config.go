package widget

import (
	"errors"
	"fmt"
	"time"

	"review_carousel/internal/carousel"
)

const (
	DefaultAutoAdvance   = 7 * time.Second
	AlternateAutoAdvance = 5 * time.Second
)

var ErrInvalidConfig = errors.New("widget: invalid config")

type Config struct {
	BaseURL   string // trailing slash expected
	EntityID  string
	Container Surface // nil renders nowhere

	AutoAdvance   time.Duration // 0 disables auto-advance
	Policy        carousel.Policy
	Truncate      bool
	TruncateAt    int
	ParallelFetch bool

	Ticker   carousel.TickerFunc // nil uses time.Ticker
	Location *time.Location      // for review dates; UTC when nil
}

// DefaultConfig is the rotating variant: wrap, 7s auto-advance, truncation on.
func DefaultConfig(baseURL, entityID string) Config {
	return Config{
		BaseURL:     baseURL,
		EntityID:    entityID,
		AutoAdvance: DefaultAutoAdvance,
		Policy:      carousel.Wrap,
		Truncate:    true,
	}
}

func (c Config) Validate() error {
	switch {
	case c.BaseURL == "":
		return fmt.Errorf("%w: base URL is required", ErrInvalidConfig)
	case c.EntityID == "":
		return fmt.Errorf("%w: entity ID is required", ErrInvalidConfig)
	case c.AutoAdvance < 0:
		return fmt.Errorf("%w: negative auto-advance interval %s", ErrInvalidConfig, c.AutoAdvance)
	case c.Policy == carousel.Clamp && c.AutoAdvance > 0:
		return fmt.Errorf("%w: clamped navigation cannot auto-advance", ErrInvalidConfig)
	}
	return nil
}
