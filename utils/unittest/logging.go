package unittest

import (
	"flag"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/onflow/streamlet/model/flow"
	"github.com/onflow/streamlet/utils/logging"
)

var verbose = flag.Bool("vv", false, "print debugging logs")

// Logger returns a logger for tests. Output is discarded unless the -vv
// flag is set.
func Logger() zerolog.Logger {
	var writer io.Writer = io.Discard
	if *verbose {
		writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05.000"}
	}
	return zerolog.New(writer).Level(zerolog.DebugLevel).With().Timestamp().Logger()
}

// NodeLogger returns a test logger tagged with the node's ID, for tests
// running several replicas in one process.
func NodeLogger(nodeID flow.Identifier) zerolog.Logger {
	return Logger().With().Hex("node_id", logging.ID(nodeID)).Logger()
}
