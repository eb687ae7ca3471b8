package service

// PublicUser is the projection of a user returned to clients. It never
// carries the password hash.
type PublicUser struct {
	ID             uint     `json:"id"`
	Email          string   `json:"email"`
	NombreCompleto string   `json:"nombre_completo"`
	Roles          []string `json:"roles"`
}

// LoginResult is returned after a successful login.
type LoginResult struct {
	AccessToken string     `json:"access_token"`
	User        PublicUser `json:"user"`
}

// RegisterStaffInput holds parameters for registering a staff member.
type RegisterStaffInput struct {
	NombreCompleto string
	Email          string
	Password       string
	Role           string
	// RegisteredBy is the admin performing the registration, for auditing.
	RegisteredBy uint
}

// RegisteredStaff is returned after a successful staff registration.
type RegisteredStaff struct {
	ID             uint   `json:"id"`
	Email          string `json:"email"`
	NombreCompleto string `json:"nombre_completo"`
	Role           string `json:"role"`
}
