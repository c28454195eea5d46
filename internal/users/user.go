package users

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/mirojov/clubhub/pkg"
)

var ErrUserNotFound = errors.New("user not found")

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// StatusTransition is a single entry in a user's moderation history.
type StatusTransition struct {
	At    time.Time `json:"at"`
	Actor string    `json:"actor"`
	From  Status    `json:"from"`
	To    Status    `json:"to"`
	Note  string    `json:"note,omitempty"`
}

type User struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	MobileNumber  string             `json:"mobileNumber"`
	Email         string             `json:"email,omitempty"`
	Whatsapp      string             `json:"whatsapp,omitempty"`
	Telegram      string             `json:"telegram,omitempty"`
	Status        Status             `json:"status"`
	StatusHistory []StatusTransition `json:"statusHistory"`
	CreatedAt     time.Time          `json:"createdAt"`
	PasswordHash  string             `json:"-"`
}

var (
	mobileNumberRegex = regexp.MustCompile(`^\+?[0-9][0-9 \-]{5,19}$`)
	emailRegex        = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// TransitionStatus moves the user to the given status and appends a
// history entry. The current status must always match the `to` of the
// last history entry, so both are updated together here.
func (u *User) TransitionStatus(actor string, to Status, note string) {
	u.StatusHistory = append(u.StatusHistory, StatusTransition{
		At:    time.Now(),
		Actor: actor,
		From:  u.Status,
		To:    to,
		Note:  note,
	})
	u.Status = to
}

func (u *User) Validate() []pkg.FieldError {
	var details []pkg.FieldError

	if strings.TrimSpace(u.Name) == "" {
		details = append(details, pkg.FieldError{
			Field: "name", Message: "Name is required",
		})
	}

	mobile := strings.TrimSpace(u.MobileNumber)
	if mobile == "" {
		details = append(details, pkg.FieldError{
			Field: "mobileNumber", Message: "Mobile number is required",
		})
	} else if !mobileNumberRegex.MatchString(mobile) {
		details = append(details, pkg.FieldError{
			Field: "mobileNumber", Message: "Invalid mobile number",
		})
	}

	if u.Email != "" && !emailRegex.MatchString(u.Email) {
		details = append(details, pkg.FieldError{
			Field: "email", Message: "Invalid email address",
		})
	}

	return details
}
