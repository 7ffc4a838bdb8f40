package auth

// Claims representa la información extraída del token.
// Role viene del servicio de cuentas: "owner" o "veterinarian".
type Claims struct {
	UserID string
	Email  string
	Role   string
}
