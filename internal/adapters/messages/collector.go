package messages

import (
	"log/slog"
	"sync"

	"github.com/poyrazK/pdnsadmin/internal/core/ports"
)

// Collector is a MessageSink that keeps messages for the caller to display and logs each
// one.
type Collector struct {
	mu       sync.Mutex
	messages []string
	logger   *slog.Logger
}

func NewCollector(logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{logger: logger}
}

func (c *Collector) AddSystemError(msg string) {
	c.mu.Lock()
	c.messages = append(c.messages, msg)
	c.mu.Unlock()
	c.logger.Warn("system error reported", "message", msg)
}

// Messages returns a copy of the messages collected so far.
func (c *Collector) Messages() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.messages...)
}

// Drain returns the collected messages and forgets them.
func (c *Collector) Drain() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.messages
	c.messages = nil
	return out
}

var _ ports.MessageSink = (*Collector)(nil)
