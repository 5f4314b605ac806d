package domain

// Identity is the resolved authenticated user. It is threaded
// explicitly through every store and sync operation instead of living
// in ambient session state.
type Identity struct {
	// ID is the stable user id issued by the identity provider.
	ID string `json:"id"`

	// Email is informational only; scoping always uses ID.
	Email string `json:"email"`
}
