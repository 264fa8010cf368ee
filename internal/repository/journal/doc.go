// Package journal implements an append-only audit trail of fired alarms.
//
// The FileJournal is a scheduler sink: every event is appended to a file as
// one protobuf JSON line (a google.protobuf.Struct), and ReadEntries decodes
// them back. The journal is never used to restore scheduler state.
package journal
