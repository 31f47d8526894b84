package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/alumni-api/internal/auth"
)

// User is the credential store unit. Accounts register as unverified; an
// admin approval flips IsVerified and makes the credentials usable.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`

	ID           uuid.UUID     `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Role         auth.UserRole `bun:"user_role,notnull" json:"role,omitempty"`
	Name         string        `bun:"name,notnull" json:"name,omitempty"`
	Email        string        `bun:"email,notnull,unique" json:"email,omitempty"`
	Phone        string        `bun:"phone_number" json:"phone,omitempty"`
	PasswordHash string        `bun:"password_hash" json:"-"`
	IsVerified   bool          `bun:"is_verified" json:"isVerified"`

	// alumni attributes, required only for role=user
	Batch  int    `bun:"batch" json:"batch,omitempty"`
	Branch string `bun:"branch" json:"branch,omitempty"`
	RollNo string `bun:"roll_no" json:"roll_no,omitempty"`

	// profile extension
	Biography           string `bun:"biography" json:"biography,omitempty"`
	CurrentWorkingPlace string `bun:"current_working_place" json:"currentWorkingPlace,omitempty"`
	Linkedin            string `bun:"linkedin" json:"linkedin,omitempty"`
	Facebook            string `bun:"facebook" json:"facebook,omitempty"`
	ProfilePhoto        string `bun:"profile_photo" json:"profilePhoto,omitempty"`

	LoginAttempts  int        `bun:"login_attempts" json:"-"`
	LoginAttemptAt *time.Time `bun:"login_attempt_at" json:"-"`
	LoggedInAt     *time.Time `bun:"loggedin_at" json:"-"`

	CreatedAt *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Identity adapts the record for token issuance.
func (u *User) Identity() auth.Identity {
	return auth.NewIdentity(u.ID.String(), u.Name, u.Email, string(u.Role))
}

// PublicInfo is the user payload returned by login and profile endpoints;
// it never includes the password hash or login bookkeeping.
func (u *User) PublicInfo() map[string]any {
	return map[string]any{
		"id":                  u.ID,
		"name":                u.Name,
		"email":               u.Email,
		"role":                u.Role,
		"isVerified":          u.IsVerified,
		"batch":               u.Batch,
		"branch":              u.Branch,
		"roll_no":             u.RollNo,
		"biography":           u.Biography,
		"currentWorkingPlace": u.CurrentWorkingPlace,
		"socialLinks": map[string]string{
			"linkedin": u.Linkedin,
			"facebook": u.Facebook,
		},
		"profilePhoto": u.ProfilePhoto,
	}
}
