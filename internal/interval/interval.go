package interval

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultHours is the threshold pre-filled for new devices.
	DefaultHours = 24
	// MinFormHours is the smallest threshold accepted from the device form.
	MinFormHours = 1
	// MaxFormHours is the largest threshold accepted from the device form (one week).
	MaxFormHours = 168

	durationSuffix = ":00:00"
	notAvailable   = "N/A"
)

var (
	// ErrAbsent indicates an empty stored duration.
	ErrAbsent = errors.New("duration absent")
	// ErrMalformed indicates a stored duration without a leading integer.
	ErrMalformed = errors.New("duration malformed")
	// ErrOutOfRange indicates form hours outside MinFormHours..MaxFormHours.
	ErrOutOfRange = errors.New("hours out of range")
)

// Hours is a threshold read back from storage. Invalid values render as "N/A".
type Hours struct {
	Value int
	Valid bool
}

// Known wraps a parsed hour count.
func Known(value int) Hours {
	return Hours{Value: value, Valid: true}
}

func (h Hours) String() string {
	if !h.Valid {
		return notAvailable
	}
	return strconv.Itoa(h.Value)
}

// Duration returns the threshold as time.Duration; zero when invalid.
func (h Hours) Duration() time.Duration {
	if !h.Valid {
		return 0
	}
	return time.Duration(h.Value) * time.Hour
}

func (h Hours) MarshalJSON() ([]byte, error) {
	if !h.Valid {
		return json.Marshal(notAvailable)
	}
	return json.Marshal(h.Value)
}

func (h *Hours) UnmarshalJSON(data []byte) error {
	var number int
	if err := json.Unmarshal(data, &number); err == nil {
		*h = Known(number)
		return nil
	}
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return err
	}
	if text == notAvailable || strings.TrimSpace(text) == "" {
		*h = Hours{}
		return nil
	}
	*h = DurationToHours(text)
	return nil
}

// HoursToDuration renders hours in the storage interval format "H:00:00".
func HoursToDuration(hours int) string {
	return strconv.Itoa(hours) + durationSuffix
}

// DurationToHours reads the hour component of a stored interval string.
// Absent and malformed input both yield an invalid Hours.
func DurationToHours(duration string) Hours {
	value, err := ParseHours(duration)
	if err != nil {
		return Hours{}
	}
	return Known(value)
}

// ParseHours is DurationToHours with the failure reason kept.
func ParseHours(duration string) (int, error) {
	if strings.TrimSpace(duration) == "" {
		return 0, ErrAbsent
	}
	first, _, _ := strings.Cut(duration, ":")
	value, ok := leadingInt(first)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrMalformed, duration)
	}
	return value, nil
}

// ValidateFormHours checks the range the device form accepts.
func ValidateFormHours(hours int) error {
	if hours < MinFormHours || hours > MaxFormHours {
		return fmt.Errorf("%w: %d not in %d..%d", ErrOutOfRange, hours, MinFormHours, MaxFormHours)
	}
	return nil
}

// leadingInt parses like parseInt(s, 10): leading blanks, optional sign,
// then the longest run of digits. Trailing garbage is ignored.
func leadingInt(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t\n\r\v\f")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0, false
	}
	value, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return value, true
}
