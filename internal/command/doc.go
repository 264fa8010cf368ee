// Package command turns text lines into structured commands and executes
// them against the scheduler.
//
// The grammar is case-sensitive:
//
//	Create(<id>): <category> <seconds> <text>
//	Change(<id>): <category> <seconds> <text>
//	Cancel(<id>)
//	View
//	List
//
// The long forms Start_Alarm, Change_Alarm, Cancel_Alarm and View_Alarms are
// accepted as aliases. The Processor holds no state of its own.
package command
