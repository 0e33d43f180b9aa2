package models

import "strings"

// Participation is one attempt at one quiz as returned by the quiz backend.
// The backend has shipped several shapes over time, so every identity field
// is optional and some exist in both snake_case and camelCase.
type Participation struct {
	ID           FlexibleID        `json:"id"`
	QuizID       FlexibleID        `json:"quiz_id,omitempty"`
	UserID       FlexibleID        `json:"user_id,omitempty"`
	UserIDCamel  FlexibleID        `json:"userId,omitempty"`
	UserName     string            `json:"user_name,omitempty"`
	UserNameAlt  string            `json:"userName,omitempty"`
	UserEmail    string            `json:"user_email,omitempty"`
	UserEmailAlt string            `json:"userEmail,omitempty"`
	GuestID      FlexibleID        `json:"guest_id,omitempty"`
	GuestIDCamel FlexibleID        `json:"guestId,omitempty"`
	GuestName    string            `json:"guest_name,omitempty"`
	GuestNameAlt string            `json:"guestName,omitempty"`
	User         *ParticipantUser  `json:"user,omitempty"`
	Guest        *ParticipantGuest `json:"guest,omitempty"`
	Score        OptionalNumber    `json:"score"`
	CreatedAt    FlexibleTime      `json:"created_at,omitempty"`
	CreatedAtAlt FlexibleTime      `json:"createdAt,omitempty"`
}

// ParticipantUser is the nested registered-user object some payloads embed.
type ParticipantUser struct {
	ID       FlexibleID          `json:"id,omitempty"`
	Username string              `json:"username,omitempty"`
	Email    string              `json:"email,omitempty"`
	Student  *ParticipantStudent `json:"student,omitempty"`
}

// ParticipantStudent carries the student profile of a registered user.
type ParticipantStudent struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// ParticipantGuest is the nested guest object some payloads embed.
type ParticipantGuest struct {
	ID     FlexibleID `json:"id,omitempty"`
	Pseudo string     `json:"pseudo,omitempty"`
}

// RegisteredUserID returns the first non-empty registered-user identifier.
func (p Participation) RegisteredUserID() string {
	return firstNonEmpty(p.UserID.String(), p.UserIDCamel.String())
}

// GuestIdentifier returns the first non-empty guest identifier.
func (p Participation) GuestIdentifier() string {
	return firstNonEmpty(p.GuestID.String(), p.GuestIDCamel.String())
}

// DisplayUserName returns the registered user's display name, if any.
func (p Participation) DisplayUserName() string {
	return firstNonEmpty(p.UserName, p.UserNameAlt)
}

// DisplayUserEmail returns the registered user's email, if any.
func (p Participation) DisplayUserEmail() string {
	return firstNonEmpty(p.UserEmail, p.UserEmailAlt)
}

// DisplayGuestName returns the guest pseudo carried at the top level, if any.
func (p Participation) DisplayGuestName() string {
	return firstNonEmpty(p.GuestName, p.GuestNameAlt)
}

// Timestamp returns the raw creation timestamp.
func (p Participation) Timestamp() string {
	return firstNonEmpty(p.CreatedAt.String(), p.CreatedAtAlt.String())
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
