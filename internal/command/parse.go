package command

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// mutatePattern matches Create/Change lines: keyword, id, category, seconds, text.
	mutatePattern = regexp.MustCompile(`^(Create|Start_Alarm|Change|Change_Alarm)\((-?\d+)\):\s*(\S+)\s+(\S+)\s+(.+)$`)
	// cancelPattern matches Cancel lines.
	cancelPattern = regexp.MustCompile(`^(?:Cancel|Cancel_Alarm)\((-?\d+)\)$`)
)

// Parse converts one input line into a validated Command.
func Parse(line string) (*Command, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, badCommand("empty line")
	}

	switch line {
	case "View", "View_Alarms":
		return &Command{Kind: KindView}, nil
	case "List":
		return &Command{Kind: KindList}, nil
	}

	if m := cancelPattern.FindStringSubmatch(line); m != nil {
		id, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, badCommand("invalid alarm id " + strconv.Quote(m[1]))
		}

		return &Command{Kind: KindCancel, ID: id}, nil
	}

	m := mutatePattern.FindStringSubmatch(line)
	if m == nil {
		return nil, badCommand("unrecognized command " + strconv.Quote(line))
	}

	id, err := strconv.Atoi(m[2])
	if err != nil {
		return nil, badCommand("invalid alarm id " + strconv.Quote(m[2]))
	}

	seconds, err := strconv.Atoi(m[4])
	if err != nil {
		return nil, badCommand("invalid duration " + strconv.Quote(m[4]))
	}

	cmd := &Command{
		Kind:     KindCreate,
		ID:       id,
		Category: m[3],
		Seconds:  seconds,
		Text:     strings.TrimSpace(m[5]),
	}

	if m[1] == "Change" || m[1] == "Change_Alarm" {
		cmd.Kind = KindChange
	}

	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return cmd, nil
}
