package jwt

import "github.com/golang-jwt/jwt"

// Payload defines the structure of the JSON Web Token (JWT) claims for the social hub.
// It includes the standard claims required by the JWT specification and the custom
// claims necessary for identifying the account behind an API call or a realtime
// connection.
type Payload struct {
	// StandardClaims embeds the necessary JWT standard fields such as Exp (Expiration),
	// Iat (Issued At), and Iss (Issuer). These are crucial for token validity checks.
	jwt.StandardClaims `json:"standard_claims"`

	// UserID is the numeric identifier of the account.
	UserID int64 `json:"user_id"`

	// Username is the unique handle of the account. Durable lookups key on it, so a
	// token survives profile changes that do not rename the account.
	Username string `json:"username"`
}
