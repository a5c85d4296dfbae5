package console

import "time"

// SleepMs suspends the caller for ms milliseconds.
func (c *Controller) SleepMs(ms int) {
	c.checkOpen()
	c.sleep(time.Duration(ms) * time.Millisecond)
}

// Throttle paces a loop to one iteration per ms milliseconds. The first
// call on a handle only records the current time. Each later call advances
// the handle's target time by the interval and sleeps out the remainder; a
// call that arrives past its target returns at once, and no catch-up sleep
// is inserted afterwards.
func (c *Controller) Throttle(ms int) {
	c.checkOpen()
	if !c.paceSet {
		c.paceSet = true
		c.paceAt = c.now()
		return
	}
	c.paceAt = c.paceAt.Add(time.Duration(ms) * time.Millisecond)
	if d := c.paceAt.Sub(c.now()); d > 0 {
		c.sleep(d)
	}
}
