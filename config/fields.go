package config

import (
	"fmt"
	"strconv"
	"strings"
)

// EditableFields lists the settings the viewer's config panel exposes, in
// display order.
var EditableFields = []string{"target_fps", "alpha", "min_visibility", "mirror"}

// Field returns the display text of an editable setting.
func (c *Config) Field(name string) (string, error) {
	switch name {
	case "target_fps":
		return strconv.FormatFloat(c.TargetFPS, 'f', -1, 64), nil
	case "alpha":
		return strconv.FormatFloat(c.Alpha, 'f', -1, 64), nil
	case "min_visibility":
		return strconv.FormatFloat(c.MinVisibility, 'f', -1, 64), nil
	case "mirror":
		return strconv.FormatBool(c.Mirror), nil
	}
	return "", fmt.Errorf("unknown field %q", name)
}

// SetField parses value into the named editable setting. The config is left
// unchanged on error; range checks are left to Validate.
func (c *Config) SetField(name, value string) error {
	value = strings.TrimSpace(value)
	switch name {
	case "target_fps", "alpha", "min_visibility":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		switch name {
		case "target_fps":
			c.TargetFPS = f
		case "alpha":
			c.Alpha = f
		default:
			c.MinVisibility = f
		}
		return nil
	case "mirror":
		b, ok := parseBoolLoose(value)
		if !ok {
			return fmt.Errorf("mirror: invalid boolean %q", value)
		}
		c.Mirror = b
		return nil
	}
	return fmt.Errorf("unknown field %q", name)
}

func parseBoolLoose(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "y", "on", "t":
		return true, true
	case "false", "0", "no", "n", "off", "f":
		return false, true
	default:
		return false, false
	}
}
