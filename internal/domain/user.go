package domain

import "time"

// User is a thin read model over the external user directory. Points live
// here because match confirmation charges them.
type User struct {
	ID        int       `json:"id" db:"id"`
	FirstName string    `json:"first_name" db:"first_name"`
	Username  *string   `json:"username" db:"username"`
	Bio       *string   `json:"bio" db:"bio"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	Points    int       `json:"points" db:"points"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ProfileSummary is what an identity reveal discloses to a chat partner.
type ProfileSummary struct {
	UserID    int     `json:"user_id"`
	FirstName string  `json:"first_name"`
	Username  *string `json:"username,omitempty"`
	Bio       *string `json:"bio,omitempty"`
}

func (u *User) Summary() ProfileSummary {
	return ProfileSummary{
		UserID:    u.ID,
		FirstName: u.FirstName,
		Username:  u.Username,
		Bio:       u.Bio,
	}
}
