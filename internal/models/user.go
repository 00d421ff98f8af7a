package models

// User represents an account. Users are created (or refreshed) from session
// claims the first time they create or join a group.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// DisplayName is the name shown to other group members.
	DisplayName string

	// Username is an optional handle.
	Username string

	// TelegramID is the chat the notifier delivers to. Zero means no chat.
	TelegramID int64

	// WalletAddress is the TON address settlements are paid to. Empty when
	// the user has not connected a wallet.
	WalletAddress string

	// CreatedAt is the Unix timestamp when the user was first seen.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last profile or wallet change.
	UpdatedAt int64
}
