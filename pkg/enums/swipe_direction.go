package enums

import "fmt"

// SwipeDirection records how a user judged a candidate profile.
type SwipeDirection string

const (
	SwipeDirectionLeft  SwipeDirection = "left"
	SwipeDirectionRight SwipeDirection = "right"
)

var validSwipeDirections = []SwipeDirection{
	SwipeDirectionLeft,
	SwipeDirectionRight,
}

// IsValid reports whether the value is a known SwipeDirection.
func (s SwipeDirection) IsValid() bool {
	for _, candidate := range validSwipeDirections {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSwipeDirection converts raw input into a SwipeDirection.
func ParseSwipeDirection(value string) (SwipeDirection, error) {
	for _, candidate := range validSwipeDirections {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid swipe direction %q", value)
}
