package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/dgraph-io/badger/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/onflow/streamlet/consensus"
	"github.com/onflow/streamlet/consensus/streamlet"
	"github.com/onflow/streamlet/consensus/streamlet/committees"
	"github.com/onflow/streamlet/consensus/streamlet/epochclock"
	"github.com/onflow/streamlet/consensus/streamlet/model"
	"github.com/onflow/streamlet/consensus/streamlet/persister"
	"github.com/onflow/streamlet/consensus/streamlet/verification"
	"github.com/onflow/streamlet/model/flow"
	"github.com/onflow/streamlet/module"
	"github.com/onflow/streamlet/module/builder"
	"github.com/onflow/streamlet/module/irrecoverable"
	"github.com/onflow/streamlet/module/metrics"
	"github.com/onflow/streamlet/module/util"
	"github.com/onflow/streamlet/network/stub"
	bstorage "github.com/onflow/streamlet/storage/badger"
)

const genesisFile = "genesis-time"

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a committee of replicas in one process over an in-memory network",
	Long: `Runs a committee of replicas, each with its own database, connected by an
in-memory network. Clients submit payload items at a fixed interval. When the
run ends, the finalized chains of all replicas are checked for agreement.

Restarting with the same data directory and seed recovers the replicas from
their databases.`,
	RunE: runSimulate,
}

func init() {
	rootCmd.AddCommand(simulateCmd)

	flags := simulateCmd.Flags()
	flags.Int("nodes", 4, "number of replicas")
	flags.Int("offline", 0, "number of replicas cut off from the network")
	flags.Uint64("epochs", 20, "number of epochs to run")
	flags.Duration("epoch-duration", streamlet.DefaultEpochDuration, "wall-clock length of an epoch")
	flags.Uint64("tolerance", streamlet.DefaultToleranceEpochs, "maximum distance in epochs between a message and the current epoch")
	flags.Uint64("pending-window", streamlet.DefaultPendingWindow, "number of epochs buffered messages are kept")
	flags.Uint32("queue-capacity", streamlet.DefaultInboundQueueCapacity, "capacity of each inbound queue")
	flags.String("seed", "streamlet", "seed the replicas' keys are derived from")
	flags.Duration("tx-interval", 100*time.Millisecond, "interval at which clients submit payload items")
	flags.Int("workers", 4, "number of network delivery workers")
	flags.String("metrics-address", "", "address to serve prometheus metrics on, disabled if empty")
}

// node is a simulated replica with its database and payload builder.
type node struct {
	replica     *replica
	db          *badger.DB
	builder     *builder.Builder
	participant *consensus.Participant
}

func runSimulate(_ *cobra.Command, _ []string) error {
	n := viper.GetInt("nodes")
	offline := viper.GetInt("offline")
	if n <= 0 || offline < 0 || offline >= n {
		return fmt.Errorf("need at least one replica and fewer offline replicas than replicas, got %d of %d offline", offline, n)
	}

	dataDir := viper.GetString("datadir")
	if dataDir == "" {
		dir, err := os.MkdirTemp("", "streamlet-")
		if err != nil {
			return fmt.Errorf("could not create data directory: %w", err)
		}
		defer os.RemoveAll(dir)
		dataDir = dir
	}
	genesis, err := loadGenesisTime(dataDir)
	if err != nil {
		return err
	}

	hasher := verification.NewSHA3Hasher()
	replicas := generateReplicas(hasher, viper.GetString("seed"), n)
	members := identitiesOf(replicas)
	registry := prometheus.NewRegistry()
	hub := stub.NewHub(viper.GetInt("workers"))

	nodes := make([]*node, 0, n)
	defer func() {
		for _, nd := range nodes {
			if err := nd.db.Close(); err != nil {
				log.Error().Err(err).Str("node", nd.replica.identity.Address).Msg("could not close database")
			}
		}
	}()
	for _, r := range replicas {
		nd, err := newNode(r, members, dataDir, genesis, hasher, hub, registry)
		if nd != nil {
			nodes = append(nodes, nd)
		}
		if err != nil {
			return fmt.Errorf("could not create replica %s: %w", r.identity.Address, err)
		}
	}
	for _, nd := range nodes[n-offline:] {
		hub.Disconnect(nd.replica.identity.NodeID)
		log.Info().Str("node", nd.replica.identity.Address).Msg("replica is offline")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	signalerCtx, errChan := irrecoverable.WithSignaler(ctx)

	components := make([]module.ReadyDoneAware, 0, n+1)
	for _, nd := range nodes {
		nd.participant.Start(signalerCtx)
		components = append(components, nd.participant)
	}
	if address := viper.GetString("metrics-address"); address != "" {
		server := metrics.NewServer(log, address, registry)
		server.Start(signalerCtx)
		components = append(components, server)
	}
	go submitItems(ctx, nodes, viper.GetDuration("tx-interval"))

	duration := time.Duration(viper.GetUint64("epochs")) * viper.GetDuration("epoch-duration")
	log.Info().
		Int("nodes", n).
		Int("offline", offline).
		Dur("duration", duration).
		Str("datadir", dataDir).
		Time("genesis", genesis).
		Msg("simulation started")

	timer := time.NewTimer(duration)
	defer timer.Stop()
	var runErr error
	select {
	case <-ctx.Done():
		log.Info().Msg("simulation interrupted")
	case runErr = <-errChan:
	case <-timer.C:
	}

	cancel()
	<-util.AllDone(components...)
	hub.Stop()
	if runErr == nil {
		select {
		case runErr = <-errChan:
		default:
		}
	}
	if runErr != nil {
		return fmt.Errorf("replica failed: %w", runErr)
	}
	return report(nodes, hub)
}

func newNode(
	r *replica,
	members flow.IdentityList,
	dataDir string,
	genesis time.Time,
	hasher model.Hasher,
	hub *stub.Hub,
	registry prometheus.Registerer,
) (*node, error) {
	nodeID := r.identity.NodeID
	nodeLog := log.With().Str("node", r.identity.Address).Logger()

	config := streamlet.NewConfig(uint(len(members)), nodeID,
		streamlet.WithEpochDuration(viper.GetDuration("epoch-duration")),
		streamlet.WithToleranceEpochs(viper.GetUint64("tolerance")),
		streamlet.WithPendingWindow(viper.GetUint64("pending-window")),
		streamlet.WithInboundQueueCapacity(viper.GetUint32("queue-capacity")),
	)
	committee, err := committees.NewStaticCommittee(members, nodeID)
	if err != nil {
		return nil, err
	}

	// votes must be on disk before they are released
	db, err := badger.Open(badger.DefaultOptions(filepath.Join(dataDir, r.identity.Address)).
		WithSyncWrites(true).
		WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}
	nd := &node{replica: r, db: db}

	storageMetrics := metrics.NewStorageCollector(registry, nodeID)
	signer, err := verification.NewEd25519Signer(nodeID, r.key)
	if err != nil {
		return nd, err
	}
	verifier, err := verification.NewEd25519Verifier(verification.DefaultVerifiedCacheSize)
	if err != nil {
		return nd, err
	}
	nd.builder, err = builder.NewBuilder(nodeLog, metrics.NewMempoolCollector(registry, nodeID), hasher,
		builder.DefaultPoolSize, builder.DefaultMaxItems)
	if err != nil {
		return nd, err
	}

	clock := epochclock.NewClock(committee, 0)
	nd.participant, err = consensus.NewParticipant(
		nodeLog,
		metrics.NewStreamletCollector(registry, nodeID),
		config,
		committee,
		clock,
		epochclock.NewTicker(clock, config.EpochDuration, genesis),
		hasher,
		signer,
		verifier,
		persister.New(db, storageMetrics),
		nd.builder,
		hub.Communicator(nodeID),
		consensus.WithStorage(bstorage.InitAll(storageMetrics, db), storageMetrics),
	)
	if err != nil {
		return nd, err
	}
	nd.participant.Finalization.AddOnBlockFinalizedConsumer(nd.builder.OnFinalizedBlock)
	hub.Register(nodeID, nd.participant)
	return nd, nil
}

// submitItems plays the clients: at every interval one payload item is
// submitted to all replicas.
func submitItems(ctx context.Context, nodes []*node, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for count := 0; ; count++ {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		item := []byte(fmt.Sprintf("item-%d-%d", time.Now().UnixNano(), count))
		for _, nd := range nodes {
			nd.builder.Submit(item)
		}
	}
}

// report logs the progress of every replica and checks that their finalized
// chains agree: each must be a prefix of the longest.
func report(nodes []*node, hub *stub.Hub) error {
	var longest []*model.Block
	for _, nd := range nodes {
		chain := nd.participant.Finalizer.FinalizedChain()
		if len(chain) > len(longest) {
			longest = chain
		}
		log.Info().
			Str("node", nd.replica.identity.Address).
			Uint64("finalized_height", nd.participant.Finalizer.FinalizedHeight()).
			Uint64("finalized_epoch", nd.participant.Finalizer.FinalizedEpoch()).
			Int("blocks", nd.participant.Blocks.Size()).
			Uint("pending_items", nd.builder.Pending()).
			Msg("replica summary")
	}
	log.Info().
		Uint64("sent", hub.Sent()).
		Uint64("delivered", hub.Delivered()).
		Uint64("dropped", hub.Dropped()).
		Msg("network summary")

	for _, nd := range nodes {
		chain := nd.participant.Finalizer.FinalizedChain()
		for height, block := range chain {
			if block.BlockID != longest[height].BlockID {
				return fmt.Errorf("replica %s finalized block %x at height %d, conflicting with %x",
					nd.replica.identity.Address, block.BlockID, height, longest[height].BlockID)
			}
		}
	}
	log.Info().Int("finalized_height", len(longest)-1).Msg("finalized chains agree")
	return nil
}

// loadGenesisTime reads the genesis time of the simulation from the data
// directory. A new data directory starts its genesis now.
func loadGenesisTime(dataDir string) (time.Time, error) {
	path := filepath.Join(dataDir, genesisFile)
	data, err := os.ReadFile(path)
	if err == nil {
		genesis, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(string(data)))
		if err != nil {
			return time.Time{}, fmt.Errorf("could not parse genesis time in %s: %w", path, err)
		}
		return genesis, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return time.Time{}, fmt.Errorf("could not read genesis time: %w", err)
	}

	genesis := time.Now()
	err = os.MkdirAll(dataDir, 0o755)
	if err != nil {
		return time.Time{}, fmt.Errorf("could not create data directory: %w", err)
	}
	err = os.WriteFile(path, []byte(genesis.Format(time.RFC3339Nano)), 0o644)
	if err != nil {
		return time.Time{}, fmt.Errorf("could not write genesis time: %w", err)
	}
	return genesis, nil
}
