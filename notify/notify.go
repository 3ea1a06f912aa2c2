// Package notify delivers cart notifications to the user.
package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"rocketshoes-cart/cart"
)

// Log forwards notifications to a logger at the matching level.
type Log struct {
	L logrus.FieldLogger
}

func (n Log) Notify(msg cart.Notification) {
	e := n.L.WithField("notification", true)
	switch msg.Level {
	case cart.LevelError:
		e.Error(msg.Message)
	default:
		e.Info(msg.Message)
	}
}

// Writer prints "level: message" lines. Safe for concurrent use.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (n *Writer) Notify(msg cart.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.w, "%s: %s\n", msg.Level, msg.Message)
}

// Multi fans a notification out to every notifier in order.
type Multi []cart.Notifier

func (m Multi) Notify(msg cart.Notification) {
	for _, n := range m {
		n.Notify(msg)
	}
}
