package live

// Broadcaster publishes an update to everyone watching a game.
type Broadcaster interface {
	Broadcast(gameID int64, kind MessageType, payload any) error
}
