package domain

// AdminAccount holds a username and the hex SHA-256 digest of its PIN.
// The plaintext PIN is never stored.
type AdminAccount struct {
	User    string `json:"user"`
	PinHash string `json:"pinHash"`
}
