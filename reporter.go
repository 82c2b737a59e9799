package tasktree

// Reporter is the capability every event consumer implements: on_start,
// on_end, on_progress from the distilled design, expressed as three
// independent methods so a reporter overrides only what it needs.
//
// Reporter implementations must not call back into the Tree that is
// delivering to them from inside OnStart/OnEnd/OnProgress — those calls run
// outside the tree's write lock but on the pump goroutine (or, with
// force-flush on, on the goroutine of the mutating call), and
// re-entering the tree from there would serialize behind the next pump
// tick rather than deadlock, but is still not a supported usage.
type Reporter interface {
	OnStart(Snapshot)
	OnEnd(Snapshot)
	OnProgress(Snapshot)
}

// BaseReporter supplies no-op implementations of all three Reporter
// methods. Embed it to implement only the events you care about.
type BaseReporter struct{}

func (BaseReporter) OnStart(Snapshot)    {}
func (BaseReporter) OnEnd(Snapshot)      {}
func (BaseReporter) OnProgress(Snapshot) {}
