package structs

import (
	"time"

	"github.com/google/uuid"
)

// AuthClaims is the decoded access-token payload. Only used to optionally
// link a placed order to a logged-in customer; checkout never requires it.
type AuthClaims struct {
	Sub   uuid.UUID
	Email string
	Role  string
	Iat   time.Time
	Exp   time.Time
	Jti   uuid.UUID
}
