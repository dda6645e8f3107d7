package chat

import "errors"

var (
	ErrChatNotFound      = errors.New("chat not found")
	ErrRecipientNotFound = errors.New("professional not found")
	ErrEmptyContent      = errors.New("message content cannot be empty")
	ErrContentTooLong    = errors.New("message content is too long")
)
