package session

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/google/uuid"
	"github.com/nyaruka/phonenumbers"
)

// UserRole is the coarse role of an identity
type UserRole = string

const (
	// RoleUser is a regular traveler account
	RoleUser UserRole = "user"
	// RoleHost can manage listed properties and experiences
	RoleHost UserRole = "host"
	// RoleAdmin is a back-office administrator
	RoleAdmin UserRole = "admin"
)

// User is the authenticated identity cached by the session layer. It exists
// in the session if and only if a login, register, or social login succeeded
// and has not since been invalidated by logout or credential expiry.
type User struct {
	ID          uuid.UUID  `json:"id,omitempty"`
	Email       string     `json:"email,omitempty"`
	Name        string     `json:"name,omitempty"`
	Avatar      string     `json:"avatar,omitempty"`
	Phone       string     `json:"phone,omitempty"`
	Bio         string     `json:"bio,omitempty"`
	Nationality string     `json:"nationality,omitempty"`
	Languages   []string   `json:"languages,omitempty"`
	IsHost      bool       `json:"is_host,omitempty"`
	IsVerified  bool       `json:"is_verified,omitempty"`
	IsSuperhost bool       `json:"is_superhost,omitempty"`
	Role        UserRole   `json:"role,omitempty"`
	Favorites   []string   `json:"favorites,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// HasFavorite reports whether the given listing id is in the favorites set.
func (u *User) HasFavorite(id string) bool {
	for _, fav := range u.Favorites {
		if fav == id {
			return true
		}
	}
	return false
}

// AddFavorite appends a listing id to the favorites set, once.
func (u *User) AddFavorite(id string) *User {
	if !u.HasFavorite(id) {
		u.Favorites = append(u.Favorites, id)
	}
	return u
}

// RemoveFavorite drops a listing id from the favorites set.
func (u *User) RemoveFavorite(id string) *User {
	out := u.Favorites[:0]
	for _, fav := range u.Favorites {
		if fav != id {
			out = append(out, fav)
		}
	}
	u.Favorites = out
	return u
}

// Credentials is the login payload
type Credentials struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"remember_me"`
}

// Validate will run validation rules
func (c Credentials) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Email, validation.Required, is.Email),
		validation.Field(&c.Password, validation.Required),
	)
}

// Registration is the signup payload
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

// Validate will run validation rules
func (r Registration) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
		validation.Field(&r.Phone, validation.By(validateOptionalPhone)),
	)
}

// ProfileUpdate carries partial identity fields. Zero values are left alone
// by the collaborator; the core only validates what is present.
type ProfileUpdate struct {
	Name        string   `json:"name,omitempty"`
	Avatar      string   `json:"avatar,omitempty"`
	Phone       string   `json:"phone,omitempty"`
	Bio         string   `json:"bio,omitempty"`
	Nationality string   `json:"nationality,omitempty"`
	Languages   []string `json:"languages,omitempty"`
}

// Validate will run validation rules
func (p ProfileUpdate) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Length(0, 200)),
		validation.Field(&p.Bio, validation.Length(0, 2000)),
		validation.Field(&p.Phone, validation.By(validateOptionalPhone)),
	)
}

func validateOptionalPhone(value any) error {
	raw, _ := value.(string)
	if raw == "" {
		return nil
	}

	num, err := phonenumbers.Parse(raw, "US")
	if err != nil {
		return err
	}

	if !phonenumbers.IsValidNumber(num) {
		return errors.New("must be a valid phone number")
	}

	return nil
}
