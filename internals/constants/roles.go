package constants

const (
	RoleAdmin    = "admin"
	RoleNonAdmin = "non_admin"
)
