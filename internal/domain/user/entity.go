package user

// Role determines which parts of the service a user may act on.
type Role string

const (
	RoleCitizen Role = "citizen"
	RoleVendor  Role = "vendor"
	RoleAdmin   Role = "admin"
)

// User is the profile cached client-side after login or bootstrap.
type User struct {
	ID    int64  `json:"id" validate:"required"`
	Name  string `json:"name"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone,omitempty"`
	Role  Role   `json:"role" validate:"required,oneof=citizen vendor admin"`
}

// TokenResponse is the credential pair returned by login and signup.
type TokenResponse struct {
	AccessToken string `json:"access_token" validate:"required"`
	TokenType   string `json:"token_type"`
	User        User   `json:"user" validate:"required"`
}
