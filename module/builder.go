package module

// Builder assembles the payloads of the blocks the local replica proposes
// from items submitted by clients.
type Builder interface {

	// Submit adds an item to be included in a future payload. Returns false
	// if the item is already pending.
	Submit(item []byte) bool

	// GetPayload returns the payload for a block of the given epoch. The
	// items it contains remain pending until a block including them is
	// finalized.
	GetPayload(epoch uint64) ([]byte, error)
}
