package storage

// All includes all the storage modules of a replica.
type All struct {
	Blocks       Blocks
	Votes        Votes
	Finalization Finalization
}
