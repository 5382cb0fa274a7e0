// Package gcode builds the command lines sent to the motion controller.
// Only the handful of commands the rig uses are covered; lines carry no
// terminator, the transport appends it.
package gcode

import (
	"strconv"
	"strings"
)

// Axis names accepted by Home.
const (
	AxisX = "X"
	AxisY = "Y"
)

// num formats v with the fewest digits that round-trip: 50, 12.5, -178.
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Wake is the empty line some firmwares need before they accept commands.
func Wake() string { return "" }

// Home homes the given axes, or all axes when none are given.
func Home(axes ...string) string {
	if len(axes) == 0 {
		return "G28"
	}
	return "G28 " + strings.Join(axes, " ")
}

func EnableMotors() string  { return "M17" }
func DisableMotors() string { return "M18" }

// RestoreDefaults resets firmware settings to factory values (not persisted).
func RestoreDefaults() string { return "M502" }

// SaveSettings persists the active settings to EEPROM.
func SaveSettings() string { return "M500" }

// ReportSettings asks the firmware to echo its active settings.
func ReportSettings() string { return "M503" }

// StepsPerUnit sets steps/mm for X and Y. A negative value reverses that axis.
func StepsPerUnit(x, y float64) string {
	return "M92 X" + num(x) + " Y" + num(y)
}

// SetFeedRate sets the feed rate (mm/min) for subsequent moves.
func SetFeedRate(f float64) string {
	return "G1 F" + num(f)
}

// Move is a linear move to (x, y) at the current feed rate.
func Move(x, y float64) string {
	return "G1 X" + num(x) + " Y" + num(y)
}
