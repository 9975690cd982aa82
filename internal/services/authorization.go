package services

// RequireRole admits claims whose role is exactly role. There is no role
// hierarchy.
func RequireRole(claims *Claims, role string) error {
	if claims == nil {
		return ErrUnauthenticated
	}
	if claims.Role != role {
		return ErrForbidden
	}
	return nil
}
