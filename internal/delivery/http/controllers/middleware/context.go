package middleware

const (
	ClientNameCtx  = "client_name"
	ClientRolesCtx = "client_roles"
)
