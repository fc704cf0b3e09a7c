package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Codec rules: every enum and list column round-trips exactly through its
// stored primitive form, and decoding an unrecognized stored value is an
// error, never a silent default. A decode failure on read means the schema
// or the data drifted, and the caller needs to know.

// ParseMissionType decodes the stored tag for a MissionType.
func ParseMissionType(tag string) (MissionType, error) {
	switch m := MissionType(tag); m {
	case MissionMath, MissionShake, MissionMemory, MissionOrder, MissionTyping:
		return m, nil
	}
	return "", fmt.Errorf("unknown mission type %q", tag)
}

// ParseDifficulty decodes the stored integer code for a Difficulty.
func ParseDifficulty(code int) (Difficulty, error) {
	switch d := Difficulty(code); d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return d, nil
	}
	return 0, fmt.Errorf("unknown difficulty code %d", code)
}

// Code returns the stored integer form of a Difficulty.
func (d Difficulty) Code() int { return int(d) }

// ParseRepeatMode decodes the stored tag for a RepeatMode.
func ParseRepeatMode(tag string) (RepeatMode, error) {
	switch r := RepeatMode(tag); r {
	case RepeatOnce, RepeatWorkdays, RepeatCustom:
		return r, nil
	}
	return "", fmt.Errorf("unknown repeat mode %q", tag)
}

// ParseThemeMode decodes the stored tag for a ThemeMode.
func ParseThemeMode(tag string) (ThemeMode, error) {
	switch t := ThemeMode(tag); t {
	case ThemeAuto, ThemeLight, ThemeDark:
		return t, nil
	}
	return "", fmt.Errorf("unknown theme mode %q", tag)
}

// EncodeDays encodes a weekday list as a comma-joined string.
// An empty list encodes to the empty string.
func EncodeDays(days []int) string {
	if len(days) == 0 {
		return ""
	}
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, ",")
}

// DecodeDays decodes a comma-joined weekday list, preserving order.
// The empty string decodes to an empty list, not []int{0}.
func DecodeDays(s string) ([]int, error) {
	if s == "" {
		return []int{}, nil
	}
	parts := strings.Split(s, ",")
	days := make([]int, len(parts))
	for i, p := range parts {
		d, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("bad weekday entry %q: %w", p, err)
		}
		days[i] = d
	}
	return days, nil
}
