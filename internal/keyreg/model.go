package keyreg

import "time"

// Schemes accepted by the registry.
const (
	SchemeEd25519   = "ed25519"
	SchemeSecp256k1 = "secp256k1"
)

// AccountKey associates an account with one authorized public key. The core
// engines never read these rows; callers consult them for authentication
// before invoking transfers.
type AccountKey struct {
	AccountID int64
	Scheme    string
	PublicKey []byte
	CreatedAt time.Time
}
