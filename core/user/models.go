package user

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/schoolhub/backend/core"
)

// Roles
const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleStudent = "student"
	RoleParent  = "parent"
)

var AllRoles = []string{RoleAdmin, RoleTeacher, RoleStudent, RoleParent}

type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash []byte
	Role         string
	Phone        string
	Address      string
	Avatar       string
	CreatedAt    time.Time // UTC
	UpdatedAt    time.Time // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Profile is the public view of a User. It never carries password material.
type Profile struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	Avatar  string `json:"avatar,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

func NewProfile(usr User) Profile {
	return Profile{
		ID:      usr.ID,
		Name:    usr.Name,
		Email:   usr.Email,
		Role:    usr.Role,
		Avatar:  usr.Avatar,
		Phone:   usr.Phone,
		Address: usr.Address,
	}
}

// NewUser contains information needed to register a new User.
type NewUser struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Role     string `json:"role" validate:"omitempty,user_role"`
}

func (nu *NewUser) Clean() {
	nu.Name = core.CleanString(nu.Name)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.Phone = core.CleanString(nu.Phone)
	nu.Address = core.CleanString(nu.Address)
	nu.Role = core.CleanString(nu.Role, true /* lower */)
	if nu.Role == "" {
		nu.Role = RoleStudent
	}
}

// UpdateProfile defines what information a User may change on their own profile.
// Omitted (nil) fields are left unchanged.
type UpdateProfile struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	Avatar  *string `json:"avatar"`
}

func (up *UpdateProfile) Clean() {
	core.CleanStringPtr(up.Name)
	core.CleanStringPtr(up.Phone)
	core.CleanStringPtr(up.Address)
	core.CleanStringPtr(up.Avatar)
}

func (up UpdateProfile) Apply(usr User) User {
	if up.Name != nil {
		usr.Name = *up.Name
	}
	if up.Phone != nil {
		usr.Phone = *up.Phone
	}
	if up.Address != nil {
		usr.Address = *up.Address
	}
	if up.Avatar != nil {
		usr.Avatar = *up.Avatar
	}
	return usr
}

type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (c *Credentials) Clean() {
	c.Email = core.CleanString(c.Email, true /* lower */)
}

type GetFilter struct {
	ID    string
	Email string
}
