// Command autoscrum-triage runs transcript triage once over a batch file
// and prints the dispatch summary as JSON
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"

	"autoscrum/internal/modkit"
	"autoscrum/internal/modkit/module"
	"autoscrum/internal/platform/config"
	"autoscrum/internal/platform/logger"
	"autoscrum/internal/platform/store"

	triagedom "autoscrum/internal/services/triage/domain"
	triagemod "autoscrum/internal/services/triage/module"
)

func main() {
	root := config.New()
	pgCfg := root.Prefix("SERVICE_PGSQL_")
	rdCfg := root.Prefix("SERVICE_REDIS_")

	l := logger.Get()

	var (
		fBatch  = flag.String("batch", "", "path to a triage batch JSON file (sprint, team, transcripts)")
		fPretty = flag.Bool("pretty", false, "indent the summary output")
	)
	flag.Parse()
	if *fBatch == "" {
		l.Fatal().Msg("missing -batch file")
	}

	raw, err := os.ReadFile(*fBatch)
	if err != nil {
		l.Fatal().Err(err).Str("path", *fBatch).Msg("read batch file")
	}
	var in triagedom.RunInput
	if err := json.Unmarshal(raw, &in); err != nil {
		l.Fatal().Err(err).Msg("parse batch file")
	}

	st, err := store.Open(context.Background(), store.Config{
		PG: store.PGConfig{
			Enabled:     true,
			URL:         pgCfg.MustString("DBURL"),
			MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:      pgCfg.MayBool("LOG_SQL", false),
		},
		RD: store.RedisConfig{
			Enabled:  rdCfg.MayBool("ENABLED", true),
			Addr:     rdCfg.MayString("ADDR", "127.0.0.1:6379"),
			Password: rdCfg.MayString("PASSWORD", ""),
			DB:       rdCfg.MayInt("DB", 0),
		},
	}, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	deps := modkit.Deps{
		Cfg: root,
		PG:  st.PG,
		KV:  st.KV,
		Log: *l,
	}

	mod := triagemod.New(deps)
	module.Register(mod.Name(), mod.Ports())

	port := module.MustPortsOf[triagedom.TriagePort](mod)

	out, err := port.Run(context.Background(), in)
	if err != nil {
		l.Fatal().Err(err).Msg("triage run failed")
	}

	enc := json.NewEncoder(os.Stdout)
	if *fPretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(out); err != nil {
		l.Fatal().Err(err).Msg("encode summary")
	}

	l.Info().
		Str("sprint", in.SprintID).
		Int("entries", out.Summary.Entries).
		Int("dispatched", out.Summary.Dispatched).
		Int("skipped", out.Summary.Skipped).
		Msg("triage complete")
}
