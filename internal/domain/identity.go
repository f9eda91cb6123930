package domain

// Identity is the de-dup key for heart toggles: a registered attendee id, or
// an anonymous per-browser session token. It is not a credential, but an
// anonymous token is still required since without one toggles cannot be
// deduplicated.
type Identity struct {
	AttendeeID   AttendeeID
	SessionToken string
}

// Anonymous builds an identity from a browser session token only.
func Anonymous(token string) Identity {
	return Identity{SessionToken: token}
}

// Validate reports ErrInvalidIdentity when neither half is present.
func (id Identity) Validate() error {
	if id.AttendeeID == "" && id.SessionToken == "" {
		return ErrInvalidIdentity
	}
	return nil
}

// IsAttendee reports whether the identity is a registered attendee. The
// attendee id wins over the session token when both are present.
func (id Identity) IsAttendee() bool { return id.AttendeeID != "" }
