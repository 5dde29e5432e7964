package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/loykin/skimread/cmd/skimread/sink/clickhouse"
	"github.com/loykin/skimread/cmd/skimread/sink/common"
	"github.com/loykin/skimread/cmd/skimread/sink/console"
	"github.com/loykin/skimread/cmd/skimread/sink/file"
	"github.com/loykin/skimread/cmd/skimread/sink/opensearch"
)

// Sink is the common sink interface from subpackages.
type Sink = common.Sink

// buildSink constructs and starts a sink based on Config. Returns nil when Sink is disabled.
func buildSink(cfg *Config) (Sink, error) {
	switch cfg.Sink.Type {
	case "":
		return nil, nil
	case "console":
		stream := strings.ToLower(cfg.Sink.Console.Stream)
		return console.New(stream, cfg.Sink.BatchSize, cfg.Sink.BatchInterval), nil
	case "file":
		return file.New(cfg.Sink.File, cfg.Sink.BatchSize, cfg.Sink.BatchInterval)
	case "clickhouse":
		return clickhouse.New(cfg.Sink.ClickHouse, sinkHost(cfg), cfg.Sink.Labels, cfg.Sink.BatchSize, cfg.Sink.BatchInterval)
	case "opensearch":
		return opensearch.New(cfg.Sink.OpenSearch, sinkHost(cfg), cfg.Sink.Labels, cfg.Sink.BatchSize, cfg.Sink.BatchInterval)
	default:
		return nil, fmt.Errorf("unsupported sink: %s", cfg.Sink.Type)
	}
}

func sinkHost(cfg *Config) string {
	if cfg.Sink.Host != "" {
		return cfg.Sink.Host
	}
	if h, err := os.Hostname(); err == nil {
		return h
	}
	return ""
}
