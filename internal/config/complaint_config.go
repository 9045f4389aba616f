package config

import "time"

const (
	// Stats
	RecentWindow = 7 * 24 * time.Hour

	// Proofs
	ProofRoute        = "/proofs"
	ProofFormField    = "proof"
	DefaultMaxProofMB = 10

	// Tokens
	TokenIssuer     = "civiceye-service"
	DefaultTokenTTL = 72 * time.Hour

	// User cache
	UserCacheKeyPrefix  = "user:"
	DefaultUserCacheTTL = 5 * time.Minute
)

// DefaultCORSOrigins are the frontends allowed to call the API.
var DefaultCORSOrigins = []string{
	"http://localhost:5173",
	"https://civiceye.vercel.app",
}
