package interfaces

import "context"

// Messenger delivers outbound reply text on some channel.
type Messenger interface {
	SendMessage(ctx context.Context, to, content string) error
}
