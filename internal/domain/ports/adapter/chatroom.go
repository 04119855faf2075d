package adapter

import "context"

// ChatRoomAdapter enrolls users into course discussion rooms. The chat
// subsystem itself is an external collaborator.
type ChatRoomAdapter interface {
	AddUserToRoom(ctx context.Context, userID, roomID string) error
}
