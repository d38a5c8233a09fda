package entities

// UserIdentity is a registered account. The PasswordHash field holds a bcrypt
// hash and must be stripped before an identity leaves the directory (session
// snapshots, API returns); Sanitized() does that.
type UserIdentity struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Avatar       string  `json:"avatar,omitempty"`
	Phone        string  `json:"phone,omitempty"`
	Rating       float64 `json:"ratings,omitempty"`
	PasswordHash string  `json:"passwordHash,omitempty"`
}

func NewUserIdentity(id, name, email, passwordHash string) *UserIdentity {
	return &UserIdentity{
		ID:           id,
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
	}
}

// Sanitized returns a copy with the credential hash removed.
func (u *UserIdentity) Sanitized() *UserIdentity {
	c := *u
	c.PasswordHash = ""
	return &c
}

// Clone returns an independent copy.
func (u *UserIdentity) Clone() *UserIdentity {
	c := *u
	return &c
}

// ProfileUpdate carries the fields a user may change on their own account.
// Nil pointers mean "leave as is". Email is deliberately not updatable.
type ProfileUpdate struct {
	Name   *string
	Avatar *string
	Phone  *string
	Rating *float64
}

// Apply merges the non-nil fields of the update into the identity.
func (u *UserIdentity) Apply(p ProfileUpdate) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Avatar != nil {
		u.Avatar = *p.Avatar
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
	if p.Rating != nil {
		u.Rating = *p.Rating
	}
}
