package orrery

import (
	"fmt"
	"log/slog"
	"time"
)

// globalDebug enables the (slower) tree checks in node operations.
var globalDebug bool

// debugStats holds per-frame timing and draw-call metrics.
// Only logged when the engine is in debug mode.
type debugStats struct {
	updateTime    time.Duration
	traverseTime  time.Duration
	sortTime      time.Duration
	submitTime    time.Duration
	commandCount  int
	drawCallCount int
	lightCount    int
}

// SetDebugMode enables per-frame timing logs and tree sanity checks.
func (e *Engine) SetDebugMode(on bool) {
	e.debug = on
	globalDebug = on
}

// debugLog writes the frame's timing and draw-call stats at debug level.
func debugLog(log *slog.Logger, frame uint64, stats debugStats) {
	total := stats.updateTime + stats.traverseTime + stats.sortTime + stats.submitTime
	log.Debug("frame",
		"n", frame,
		"update", stats.updateTime,
		"traverse", stats.traverseTime,
		"sort", stats.sortTime,
		"submit", stats.submitTime,
		"total", total,
		"commands", stats.commandCount,
		"drawCalls", stats.drawCallCount,
		"lights", stats.lightCount,
	)
}

// debugCheckDisposed panics with a descriptive message when a disposed node is
// used in a tree operation. Only called in debug mode.
func debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		panic(fmt.Sprintf("orrery debug: %s on disposed node %q", op, n.Name))
	}
}

// debugMaxTreeDepth is the depth past which debugCheckTreeDepth panics.
// Entity graphs are four levels deep; anything much deeper is a bug.
const debugMaxTreeDepth = 16

func debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		panic(fmt.Sprintf("orrery debug: tree depth %d exceeds %d (node %q)", depth, debugMaxTreeDepth, n.Name))
	}
}
