package metrics

// Prometheus metric namespaces
const (
	namespaceStreamlet = "streamlet"
	namespaceStorage   = "storage"
)

// Streamlet subsystems
const (
	subsystemEventHandler = "event_handler"
	subsystemVoteLedger   = "vote_ledger"
	subsystemFinalizer    = "finalizer"
	subsystemPending      = "pending"
	subsystemInbound      = "inbound"
	subsystemMempool      = "mempool"
)

// Storage subsystems
const (
	subsystemBadger = "badger"
	subsystemCache  = "cache"
)
