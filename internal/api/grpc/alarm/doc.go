// Package alarm implements the gRPC transport for the alarm scheduler.
//
// The service alarmscheduler.v1.AlarmScheduler is described by hand on top
// of protobuf well-known types, so no generated code is needed: Execute takes
// a command line in a StringValue and answers with the acknowledgement, View
// returns the consumer groups as a Struct.
package alarm
