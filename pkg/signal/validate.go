package signal

import (
	"fmt"
	"regexp"
	"strings"
)

// Signals arrive pre-sanitized from the upstream pipeline. These checks
// are shape-based tripwires for sanitization failures, not a sanitizer:
// a record that trips one is rejected outright rather than scrubbed.
var (
	// Seven or more consecutive digits looks like a phone number or a
	// government ID fragment.
	longDigitRun = regexp.MustCompile(`\d{7,}`)

	emailShape = regexp.MustCompile(`\S+@\S+\.\S+`)
)

const maxTextLen = 4096

// Validate rejects signals that are structurally invalid or that appear
// to carry raw identifiers.
func (s *HealthSignal) Validate() error {
	if s.User.UserID == "" {
		return fmt.Errorf("signal missing user_id")
	}

	text := strings.TrimSpace(s.Text)
	if text == "" {
		return fmt.Errorf("signal has empty text")
	}

	if len(s.Text) > maxTextLen {
		return fmt.Errorf("signal text exceeds %d bytes", maxTextLen)
	}

	if _, err := ParseStage(string(s.User.PregnancyStage)); err != nil {
		return err
	}

	if s.User.Age < 0 || s.User.Age > 130 {
		return fmt.Errorf("implausible age %d", s.User.Age)
	}

	if err := CheckSanitized(s.Text); err != nil {
		return err
	}

	if err := CheckSanitized(s.User.UserID); err != nil {
		return fmt.Errorf("user_id: %w", err)
	}

	return nil
}

// CheckSanitized rejects text shaped like it contains raw identifiers.
func CheckSanitized(text string) error {
	if longDigitRun.MatchString(text) {
		return fmt.Errorf("text contains a long digit run, possible phone or ID number")
	}

	if emailShape.MatchString(text) {
		return fmt.Errorf("text contains an email-shaped token")
	}

	return nil
}
