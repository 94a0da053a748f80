package validate

import (
	"fmt"
	"regexp"
)

var emailRx = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func Email(v string) error {
	if v == "" {
		return fmt.Errorf("email is required")
	}
	if len(v) > 320 || !emailRx.MatchString(v) {
		return fmt.Errorf("invalid email")
	}
	return nil
}

func NonEmpty(field, v string) error {
	if v == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

func MaxLen(field, v string, limit int) error {
	if len(v) > limit {
		return fmt.Errorf("%s exceeds %d characters", field, limit)
	}
	return nil
}

// -------- Request specific helpers ----------

// CreateUser validates input for account creation.
func CreateUser(username, email, password string) error {
	if err := NonEmpty("username", username); err != nil {
		return err
	}
	if err := MaxLen("username", username, 100); err != nil {
		return err
	}
	if err := Email(email); err != nil {
		return err
	}
	if err := NonEmpty("password", password); err != nil {
		return err
	}
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	return nil
}

// Complaint validates the form fields of a complaint submission.
func Complaint(fullname, email, title, description string) error {
	if err := NonEmpty("fullname", fullname); err != nil {
		return err
	}
	if err := Email(email); err != nil {
		return err
	}
	if err := NonEmpty("title", title); err != nil {
		return err
	}
	if err := MaxLen("title", title, 200); err != nil {
		return err
	}
	if err := NonEmpty("description", description); err != nil {
		return err
	}
	return MaxLen("description", description, 5000)
}
