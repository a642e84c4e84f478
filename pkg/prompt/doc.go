// Package prompt collects a node's configuration interactively in a terminal.
// The Collector decides what to ask and in which order; a Driver performs the
// actual I/O. NewTerminalDriver returns the survey-backed driver used by the
// CLI, while tests script answers through their own Driver.
package prompt
