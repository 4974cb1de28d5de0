package types

// UserRole represents the role of an authenticated user
type UserRole string

const (
	RolePatient      UserRole = "patient"
	RoleCaregiver    UserRole = "caregiver"
	RoleHealthWorker UserRole = "health_worker"
)

// UserClaims represents the validated identity attached to a request
type UserClaims struct {
	UserID   string   `json:"user_id"`
	Username string   `json:"username"`
	Role     UserRole `json:"role"`
}
