package connection

// Counter tracks invitations sent during one run. It never exceeds its max.
type Counter struct {
	sent int
	max  int
}

func NewCounter(max int) *Counter {
	if max < 0 {
		max = 0
	}
	return &Counter{max: max}
}

func (c *Counter) Sent() int { return c.sent }

func (c *Counter) Max() int { return c.max }

func (c *Counter) Reached() bool { return c.sent >= c.max }

// Inc records one send. It returns false, leaving the count unchanged, once the cap is reached.
func (c *Counter) Inc() bool {
	if c.Reached() {
		return false
	}
	c.sent++
	return true
}
