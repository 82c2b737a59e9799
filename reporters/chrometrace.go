package reporters

import (
	"encoding/json"
	"sync"

	"tasktree"
)

// chromeTraceEvent mirrors the canonical source's ChromeTraceEvent: one
// begin ("B") event per task start, one end ("E") event if it finished.
type chromeTraceEvent struct {
	Name string            `json:"name"`
	Ph   string            `json:"ph"`
	PID  int               `json:"pid"`
	TS   int64             `json:"ts"`
	TID  int               `json:"tid"`
	Args map[string]string `json:"args"`
}

// ChromeTrace is a live Reporter that accumulates begin/end events in
// chrome://tracing's JSON array format, for writing out after a run instead
// of (or alongside) a one-shot DumpTrace export.
type ChromeTrace struct {
	mu     sync.Mutex
	events []chromeTraceEvent
	tids   map[tasktree.TaskID]int
	nextID int
}

// NewChromeTrace builds an empty ChromeTrace accumulator.
func NewChromeTrace() *ChromeTrace {
	return &ChromeTrace{tids: map[tasktree.TaskID]int{}}
}

func (c *ChromeTrace) tid(id tasktree.TaskID) int {
	if t, ok := c.tids[id]; ok {
		return t
	}
	c.nextID++
	c.tids[id] = c.nextID
	return c.nextID
}

func dataArgs(s tasktree.Snapshot) map[string]string {
	args := map[string]string{}
	for _, kv := range s.AllData() {
		args[kv.Key] = kv.Value.String()
	}
	return args
}

func (c *ChromeTrace) OnStart(s tasktree.Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, chromeTraceEvent{
		Name: s.FullName(),
		Ph:   "B",
		PID:  1,
		TS:   s.StartedAt.Unix(),
		TID:  c.tid(s.ID),
		Args: dataArgs(s),
	})
}

func (c *ChromeTrace) OnEnd(s tasktree.Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, chromeTraceEvent{
		Name: s.FullName(),
		Ph:   "E",
		PID:  1,
		TS:   s.FinishedAt.Unix(),
		TID:  c.tid(s.ID),
		Args: dataArgs(s),
	})
}

func (c *ChromeTrace) OnProgress(tasktree.Snapshot) {}

// JSON renders the accumulated events as a pretty-printed chrome-trace
// array.
func (c *ChromeTrace) JSON() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return json.MarshalIndent(c.events, "", "  ")
}

var _ tasktree.Reporter = (*ChromeTrace)(nil)
