package validation

import "context"

type displayKey struct{}

// NewContext returns a copy of ctx that carries d. Writes made with the
// returned context report rejected fields to d.
func NewContext(ctx context.Context, d Display) context.Context {
	return context.WithValue(ctx, displayKey{}, d)
}

// FromContext returns the Display carried by ctx, or nil.
func FromContext(ctx context.Context) Display {
	d, _ := ctx.Value(displayKey{}).(Display)
	return d
}

// Collector is a Display that keeps every message, in order.
type Collector struct {
	Messages []string
}

// ShowMessage appends msg.
func (c *Collector) ShowMessage(msg string) { c.Messages = append(c.Messages, msg) }
