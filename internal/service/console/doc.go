// Package console runs the interactive command line of the alarm scheduler.
//
// The Printer serialises everything written to the terminal: the prompt,
// command acknowledgements and asynchronous expiry notifications. It is a
// scheduler sink, so fired alarms appear between commands as they happen.
package console
