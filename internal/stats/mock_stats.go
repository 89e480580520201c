package stats

// NoopStats satisfies Provider for tests.
type NoopStats struct{}

func (NoopStats) Incr(name string)           {}
func (NoopStats) Decr(name string)           {}
func (NoopStats) RegisterMetric(name string) {}
func (NoopStats) Run()                       {}
