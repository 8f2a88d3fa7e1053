/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct, used to standardize
HTTP responses and internal error handling.
*/
package errs

import "net/http"

// errorMap stores the detailed CustomError struct corresponding to every application error code.
// The key is the error code (int), and the value contains the user message and HTTP status code.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:        {Code: ErrInvalidParams, Message: "Invalid request parameters.", Status: http.StatusBadRequest},
	ErrUnsupportedMediaType: {Code: ErrUnsupportedMediaType, Message: "Unsupported request format.", Status: http.StatusUnsupportedMediaType},
	ErrInvalidJSONFormat:    {Code: ErrInvalidJSONFormat, Message: "Unsupported request format.", Status: http.StatusBadRequest},
	ErrExtraContentInBody:   {Code: ErrExtraContentInBody, Message: "Request contains unexpected data.", Status: http.StatusBadRequest},
	ErrRateLimitExceeded:    {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 2xxx: Content Business Logic Errors
	ErrPostNotFound:     {Code: ErrPostNotFound, Message: "Post not found.", Status: http.StatusNotFound},
	ErrNotPostAuthor:    {Code: ErrNotPostAuthor, Message: "You can only modify your own posts.", Status: http.StatusForbidden},
	ErrStoryNotFound:    {Code: ErrStoryNotFound, Message: "Story not found.", Status: http.StatusNotFound},
	ErrContentEmpty:     {Code: ErrContentEmpty, Message: "Content must not be empty.", Status: http.StatusBadRequest},
	ErrContentTooLong:   {Code: ErrContentTooLong, Message: "Content is too long.", Status: http.StatusBadRequest},
	ErrReceiverNotFound: {Code: ErrReceiverNotFound, Message: "Receiver not found.", Status: http.StatusNotFound},

	// 3xxx: User, Session, and Security Errors
	ErrInvalidUsername:     {Code: ErrInvalidUsername, Message: "Invalid username.", Status: http.StatusBadRequest},
	ErrInvalidPassword:     {Code: ErrInvalidPassword, Message: "Invalid password.", Status: http.StatusBadRequest},
	ErrUserAlreadyExists:   {Code: ErrUserAlreadyExists, Message: "Username or email is already registered.", Status: http.StatusBadRequest},
	ErrInvalidCredentials:  {Code: ErrInvalidCredentials, Message: "Incorrect username or password.", Status: http.StatusUnauthorized},
	ErrUserNotFound:        {Code: ErrUserNotFound, Message: "Account not found.", Status: http.StatusNotFound},
	ErrInactiveUser:        {Code: ErrInactiveUser, Message: "This account has been deactivated.", Status: http.StatusUnauthorized},
	ErrUnauthorized:        {Code: ErrUnauthorized, Message: "Please sign in to continue.", Status: http.StatusUnauthorized},
	ErrRefreshTokenInvalid: {Code: ErrRefreshTokenInvalid, Message: "Session expired. Please sign in again.", Status: http.StatusUnauthorized},

	// 5xxx: Internal System Errors
	ErrUnknown:           {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
	ErrFileStorageFailed: {Code: ErrFileStorageFailed, Message: "File upload failed. Please try again.", Status: http.StatusInternalServerError},
}
