package telemetry

import (
	"fmt"
	"io"
	"time"
)

// TimingCollector records operation durations in a tree. The first timer
// started becomes the root; Child timers nest under their parent.
type TimingCollector struct {
	root *timerNode
}

type timerNode struct {
	name     string
	start    time.Time
	end      time.Time
	children []*timerNode
}

// NewTimingCollector creates an empty timing collector.
func NewTimingCollector() *TimingCollector {
	return &TimingCollector{}
}

// Start begins timing an operation. The first Start call produces the root
// timer; later top-level Start calls nest under the root.
func (c *TimingCollector) Start(name string) Timer {
	node := &timerNode{name: name, start: time.Now()}

	if c.root == nil {
		c.root = node
	} else {
		c.root.children = append(c.root.children, node)
	}

	return &timingTimer{node: node}
}

// Report writes the timing tree to w.
//
//	dedup words.txt: 12ms
//	├─ scan: 8ms
//	└─ report: 3ms
func (c *TimingCollector) Report(w io.Writer) {
	if c.root == nil {
		return
	}

	_, _ = fmt.Fprintf(w, "%s: %s\n", c.root.name, formatDuration(c.root.duration()))
	for i, child := range c.root.children {
		formatNode(w, child, "", i == len(c.root.children)-1)
	}
}

type timingTimer struct {
	node *timerNode
}

func (t *timingTimer) End() {
	t.node.end = time.Now()
}

func (t *timingTimer) Child(name string) Timer {
	node := &timerNode{name: name, start: time.Now()}
	t.node.children = append(t.node.children, node)
	return &timingTimer{node: node}
}

func (n *timerNode) duration() time.Duration {
	if n.end.IsZero() {
		return time.Since(n.start)
	}
	return n.end.Sub(n.start)
}

func formatNode(w io.Writer, node *timerNode, prefix string, isLast bool) {
	branch, extension := "├─ ", "│  "
	if isLast {
		branch, extension = "└─ ", "   "
	}

	_, _ = fmt.Fprintf(w, "%s%s%s: %s\n", prefix, branch, node.name, formatDuration(node.duration()))

	childPrefix := prefix + extension
	for i, child := range node.children {
		formatNode(w, child, childPrefix, i == len(node.children)-1)
	}
}

// formatDuration shows milliseconds below one second, seconds above.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.0fms", float64(d)/float64(time.Millisecond))
	}
	return fmt.Sprintf("%.2fs", float64(d)/float64(time.Second))
}
