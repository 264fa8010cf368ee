package command

import (
	"fmt"
	"strings"
)

// render builds the acknowledgement text for a successful command.
func render(r *Result) string {
	at := r.At.Unix()

	switch r.Kind {
	case KindCreate:
		msg := fmt.Sprintf("Alarm(%d) Inserted Into Alarm List at %d: %s", r.Alarm.ID, at, r.Alarm)
		if a := r.Assignment; a != nil {
			if a.Created {
				msg += fmt.Sprintf("\nNew Group(%s) Created at %d: %s", a.GroupID, at, r.Alarm)
			} else {
				msg += fmt.Sprintf("\nAlarm(%d) Assigned to Group(%s) at %d: %s", r.Alarm.ID, a.GroupID, at, r.Alarm)
			}
		}

		return msg
	case KindChange:
		return fmt.Sprintf("Alarm(%d) Changed at %d: %s", r.Alarm.ID, at, r.Alarm)
	case KindCancel:
		return fmt.Sprintf("Alarm(%d) Cancelled at %d: %s", r.Alarm.ID, at, r.Alarm)
	case KindView:
		return renderGroups(r)
	case KindList:
		return renderAlarms(r)
	default:
		return ""
	}
}

// renderGroups lists each group with lettered members: "1. Group ...", " 1a. Alarm(...)".
func renderGroups(r *Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "View Alarms at %d:", r.At.Unix())

	if len(r.Groups) == 0 {
		b.WriteString("\nNo consumer groups available")

		return b.String()
	}

	for i, g := range r.Groups {
		fmt.Fprintf(&b, "\n%d. Group(%s) %s Assigned:", i+1, g.ID, g.Category)

		for j := range g.Alarms {
			a := &g.Alarms[j]
			fmt.Fprintf(&b, "\n %d%c. Alarm(%d): %s", i+1, 'a'+rune(j), a.ID, a)
		}
	}

	return b.String()
}

// renderAlarms lists the pending alarms in registry order.
func renderAlarms(r *Result) string {
	if len(r.Alarms) == 0 {
		return "No alarms in the list"
	}

	var b strings.Builder

	b.WriteString("Current Alarms in the List:")

	for i := range r.Alarms {
		a := &r.Alarms[i]
		fmt.Fprintf(&b, "\nAlarm_ID: %d, Type: %s, Seconds: %d, Message: %s, Time: %d",
			a.ID, a.Category, a.Seconds(), a.Text, a.DueAt.Unix())
	}

	return b.String()
}
