// Package pipeline runs the per-recipient dispatch flow as a fixed sequence
// of stages: extract recipient fields, determine enabled channels from the
// manifest, select the channels worth delivering to, and prepare template
// data. One Context exists per notification and recipient; stages run
// sequentially within a recipient while many recipients run concurrently.
package pipeline
