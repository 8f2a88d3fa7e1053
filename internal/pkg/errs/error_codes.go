/*
Package errs provides custom error types and application-level error code constants.

These error codes identify specific business or system errors both internally
within the server and in communication with clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request header Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body JSON format is incorrect.
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates that the request body contained extra content after valid JSON data.
	ErrExtraContentInBody = 1004

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1005
)

// 2xxx: Content Business Logic Errors
const (
	// ErrPostNotFound indicates that the requested post does not exist.
	ErrPostNotFound = 2101

	// ErrNotPostAuthor indicates an attempt to modify a post owned by another user.
	ErrNotPostAuthor = 2102

	// ErrStoryNotFound indicates that the requested story does not exist.
	ErrStoryNotFound = 2103

	// ErrContentEmpty indicates that post, comment, or message content was empty.
	ErrContentEmpty = 2201

	// ErrContentTooLong indicates that the submitted content exceeded the maximum length limit.
	ErrContentTooLong = 2202

	// ErrReceiverNotFound indicates that the message receiver does not exist.
	ErrReceiverNotFound = 2301
)

// 3xxx: User, Session, and Security Errors
const (
	// ErrInvalidUsername indicates the username does not match format requirements.
	ErrInvalidUsername = 3001

	// ErrInvalidPassword indicates the password does not match length requirements.
	ErrInvalidPassword = 3002

	// ErrUserAlreadyExists indicates the username or email is already registered.
	ErrUserAlreadyExists = 3003

	// ErrInvalidCredentials indicates a failed username/password check.
	ErrInvalidCredentials = 3004

	// ErrUserNotFound indicates the referenced user account does not exist.
	ErrUserNotFound = 3005

	// ErrInactiveUser indicates the account exists but has been deactivated.
	ErrInactiveUser = 3006

	// ErrUnauthorized indicates a missing or invalid bearer credential.
	ErrUnauthorized = 3007

	// ErrRefreshTokenInvalid indicates a missing, expired, or revoked refresh token.
	ErrRefreshTokenInvalid = 3008
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000

	// ErrFileStorageFailed indicates an error talking to the media storage backend.
	ErrFileStorageFailed = 5001
)
