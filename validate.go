package flux

import "fmt"

// Validate checks universal constraints on Request. The client applies it
// before sending; the service may apply additional validation of its own.
func (r Request) Validate() error {
	if len(r.Messages) == 0 {
		return fmt.Errorf("request needs at least one message: %w", ErrValidation)
	}
	for i, m := range r.Messages {
		if err := ValidateMessage(m); err != nil {
			return fmt.Errorf("message %d: %w", i, err)
		}
	}
	return nil
}

// ValidateMessage checks that a message has a known role and content.
func ValidateMessage(m Message) error {
	switch m.Role {
	case RoleUser, RoleAssistant:
	default:
		return fmt.Errorf("unknown role %q: %w", m.Role, ErrValidation)
	}
	if m.Content == "" {
		return fmt.Errorf("empty content in %s message: %w", m.Role, ErrValidation)
	}
	return nil
}
