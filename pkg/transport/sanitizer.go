package transport

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMaxInputSize caps an inbound text or payload at 4 KiB.
const DefaultMaxInputSize = 4096

// EnvMaxInputSize overrides the limit used by SanitizeInput.
const EnvMaxInputSize = "VENUEBOT_MAX_INPUT_SIZE"

var (
	ErrInputTooLarge = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("input contains invalid UTF-8 sequences")
)

// Sanitizer validates user supplied strings before they reach the dialogue.
type Sanitizer struct {
	MaxSize int
}

// NewSanitizer returns a Sanitizer with the given byte limit.
// A non-positive limit falls back to the environment or DefaultMaxInputSize.
func NewSanitizer(maxSize int) Sanitizer {
	if maxSize <= 0 {
		maxSize = MaxInputSize()
	}
	return Sanitizer{MaxSize: maxSize}
}

// SanitizeInput cleans input using the limit from the environment.
func SanitizeInput(input string) (string, error) {
	return NewSanitizer(0).Clean(input)
}

// Clean rejects oversized or malformed input and strips control and zero-width characters.
// Newlines and tabs survive. Oversized input is rejected rather than truncated.
func (s Sanitizer) Clean(input string) (string, error) {
	if len(input) > s.MaxSize {
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(input), s.MaxSize)
	}
	if !utf8.ValidString(input) {
		return "", ErrInvalidUTF8
	}
	if strings.IndexFunc(input, dropped) < 0 {
		return input, nil
	}
	return strings.Map(func(r rune) rune {
		if dropped(r) {
			return -1
		}
		return r
	}, input), nil
}

// CleanEvent sanitizes both the text and the payload of an event.
func (s Sanitizer) CleanEvent(text, payload string) (string, string, error) {
	text, err := s.Clean(text)
	if err != nil {
		return "", "", err
	}
	payload, err = s.Clean(payload)
	if err != nil {
		return "", "", err
	}
	return text, payload, nil
}

func dropped(r rune) bool {
	switch r {
	case '\n', '\t', '\r':
		return false
	case '\u200b', '\ufeff':
		return true
	}
	return unicode.IsControl(r)
}

// MaxInputSize returns the limit configured through EnvMaxInputSize.
func MaxInputSize() int {
	if val := os.Getenv(EnvMaxInputSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxInputSize
}
