package analytics

import (
	"html"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"

	"github.com/noah-isme/flashmind-analytics-api/internal/models"
)

// IdentityKind tags the variant of an Identity.
type IdentityKind int

const (
	// IdentityUnknown carries neither a user nor a guest identifier.
	IdentityUnknown IdentityKind = iota
	// IdentityRegistered is a registered user keyed by user id.
	IdentityRegistered
	// IdentityGuest is a guest keyed by guest id.
	IdentityGuest
)

func (k IdentityKind) String() string {
	switch k {
	case IdentityRegistered:
		return "registered"
	case IdentityGuest:
		return "guest"
	default:
		return "unknown"
	}
}

const anonymousGroupKey = "guest-anonymous"

// Identity is the participant behind a participation, normalised once from the
// raw record. ID is empty for IdentityUnknown.
type Identity struct {
	Kind  IdentityKind
	ID    string
	Name  string
	Email string

	participationID string
}

// GroupKey is the key all participations of the same participant fold under.
// Unknown identities never merge with each other unless the record carries no
// participation id either.
func (i Identity) GroupKey() string {
	switch i.Kind {
	case IdentityRegistered:
		return i.ID
	case IdentityGuest:
		return "guest-" + i.ID
	}
	if i.participationID != "" {
		return "unknown-" + i.participationID
	}
	return anonymousGroupKey
}

// Initials returns the avatar initials for the identity's display name.
func (i Identity) Initials() string {
	return Initials(i.Name)
}

// Resolver normalises raw participation records into identities.
type Resolver struct {
	policy *bluemonday.Policy
}

// NewResolver constructs a resolver. Display names are user supplied, so they
// are stripped of markup before use.
func NewResolver() *Resolver {
	return &Resolver{policy: bluemonday.StrictPolicy()}
}

// Resolve derives the identity of a participation. It never fails and always
// returns a non-empty name.
func (r *Resolver) Resolve(p models.Participation) Identity {
	userID := p.RegisteredUserID()
	guestID := p.GuestIdentifier()

	identity := Identity{participationID: p.ID.String()}
	switch {
	case userID != "":
		identity.Kind = IdentityRegistered
		identity.ID = userID
	case guestID != "":
		identity.Kind = IdentityGuest
		identity.ID = guestID
	default:
		identity.Kind = IdentityUnknown
	}

	identity.Email = r.clean(p.DisplayUserEmail())
	if identity.Email == "" && p.User != nil {
		identity.Email = r.clean(p.User.Email)
	}

	identity.Name = r.displayName(p, userID, guestID)
	return identity
}

func (r *Resolver) displayName(p models.Participation, userID, guestID string) string {
	if name := r.clean(p.DisplayUserName()); name != "" {
		return name
	}
	if name := r.clean(p.DisplayGuestName()); name != "" {
		return name
	}
	if userID != "" {
		return "Student " + userID
	}
	if guestID != "" {
		return "Guest " + guestID
	}

	if p.User != nil {
		if p.User.Student != nil {
			full := strings.TrimSpace(r.clean(p.User.Student.FirstName) + " " + r.clean(p.User.Student.LastName))
			if full != "" {
				return full
			}
		}
		if name := r.clean(p.User.Username); name != "" {
			return name
		}
		if local := emailLocalPart(r.clean(p.User.Email)); local != "" {
			return local
		}
	}

	if p.Guest != nil {
		if name := r.clean(p.Guest.Pseudo); name != "" {
			return name
		}
	}

	return "Guest Anonymous"
}

func (r *Resolver) clean(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(r.policy.Sanitize(value)))
}

func emailLocalPart(email string) string {
	if email == "" {
		return ""
	}
	local, _, _ := strings.Cut(email, "@")
	return strings.TrimSpace(local)
}

// Initials returns the uppercase first letter of the first word of name, plus
// the uppercase first letter of the second word when there is one.
func Initials(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}

	initials := firstLetterUpper(fields[0])
	if len(fields) > 1 {
		initials += firstLetterUpper(fields[1])
	}
	return initials
}

func firstLetterUpper(word string) string {
	r, _ := utf8.DecodeRuneInString(word)
	if r == utf8.RuneError {
		return ""
	}
	return string(unicode.ToUpper(r))
}
