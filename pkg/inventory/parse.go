package inventory

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/cuemby/vgctl/pkg/types"
)

// Separator delimits fields in the query tools' output
const Separator = ";"

const (
	groupFields  = 3 // name;deviceCount;volumeCount
	deviceFields = 2 // name;owningGroup
)

// ParseError reports a malformed inventory line
type ParseError struct {
	Kind   string
	Line   int
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed %s line %d %q: %s", e.Kind, e.Line, e.Text, e.Reason)
}

// ParseGroups parses `name;deviceCount;volumeCount` lines
func ParseGroups(text string) ([]types.GroupRecord, error) {
	var groups []types.GroupRecord
	err := eachLine(text, func(lineNo int, line string) error {
		fields := strings.Split(line, Separator)
		if len(fields) != groupFields {
			return &ParseError{Kind: "group", Line: lineNo, Text: line,
				Reason: fmt.Sprintf("expected %d fields, got %d", groupFields, len(fields))}
		}

		name := strings.TrimSpace(fields[0])
		if name == "" {
			return &ParseError{Kind: "group", Line: lineNo, Text: line, Reason: "empty group name"}
		}
		deviceCount, err := parseCount(fields[1])
		if err != nil {
			return &ParseError{Kind: "group", Line: lineNo, Text: line, Reason: "device count: " + err.Error()}
		}
		volumeCount, err := parseCount(fields[2])
		if err != nil {
			return &ParseError{Kind: "group", Line: lineNo, Text: line, Reason: "volume count: " + err.Error()}
		}

		groups = append(groups, types.GroupRecord{
			Name:        name,
			DeviceCount: deviceCount,
			VolumeCount: volumeCount,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return groups, nil
}

// ParseDevices parses `name;owningGroup` lines. An empty owning group
// means the device is unowned.
func ParseDevices(text string) ([]types.DeviceRecord, error) {
	var devices []types.DeviceRecord
	err := eachLine(text, func(lineNo int, line string) error {
		fields := strings.Split(line, Separator)
		if len(fields) != deviceFields {
			return &ParseError{Kind: "device", Line: lineNo, Text: line,
				Reason: fmt.Sprintf("expected %d fields, got %d", deviceFields, len(fields))}
		}

		name := strings.TrimSpace(fields[0])
		if name == "" {
			return &ParseError{Kind: "device", Line: lineNo, Text: line, Reason: "empty device name"}
		}

		devices = append(devices, types.DeviceRecord{
			Name:  name,
			Group: strings.TrimSpace(fields[1]),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return devices, nil
}

func eachLine(text string, fn func(lineNo int, line string) error) error {
	scanner := bufio.NewScanner(strings.NewReader(text))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := fn(lineNo, line); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func parseCount(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", strings.TrimSpace(s))
	}
	if n < 0 {
		return 0, fmt.Errorf("%d is negative", n)
	}
	return n, nil
}
