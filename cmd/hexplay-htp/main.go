package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime/pprof"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hailam/hexplay/internal/book"
	"github.com/hailam/hexplay/internal/engine"
	"github.com/hailam/hexplay/internal/htp"
	"github.com/hailam/hexplay/internal/storage"
)

var (
	size       = flag.Int("size", 0, "board size (0 = saved preference)")
	moveTime   = flag.Duration("time", 0, "time budget per move (0 = saved preference)")
	threads    = flag.Int("threads", 0, "root search goroutines (0 = saved preference)")
	difficulty = flag.String("difficulty", "", "easy, medium or hard (empty = saved preference)")
	hashMB     = flag.Int("hash", 64, "transposition table size in MB")
	dbDir      = flag.String("db", "", "storage directory (empty = platform data dir)")
	noStore    = flag.Bool("nostore", false, "do not open persistent storage")
	bookFile   = flag.String("book", "", "load an opening book file into storage")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	debug      = flag.Bool("debug", false, "log search progress")
)

func main() {
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal().Err(err).Msg("could not create CPU profile")
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal().Err(err).Msg("could not start CPU profile")
		}
		defer pprof.StopCPUProfile()
		log.Info().Str("path", profilePath).Msg("CPU profiling enabled")
	}

	prefs := storage.DefaultPreferences()
	bk := book.Default()

	if !*noStore {
		store, err := openStorage(*dbDir)
		if err != nil {
			log.Fatal().Err(err).Msg("could not open storage")
		}
		defer store.Close()

		if prefs, bk, err = loadState(store); err != nil {
			log.Fatal().Err(err).Msg("could not load saved state")
		}
	} else if *bookFile != "" {
		var err error
		if bk, err = book.Load(*bookFile); err != nil {
			log.Fatal().Err(err).Msg("could not load opening book")
		}
	}

	if *size > 0 {
		prefs.BoardSize = *size
	}
	if *moveTime > 0 {
		prefs.TimeBudget = *moveTime
	}
	if *threads > 0 {
		prefs.Threads = *threads
	}
	if *difficulty != "" {
		d, ok := engine.ParseDifficulty(*difficulty)
		if !ok {
			log.Fatal().Str("difficulty", *difficulty).Msg("unknown difficulty")
		}
		prefs.Difficulty = d
	}

	eng, err := engine.NewEngine(
		engine.WithBook(bk),
		engine.WithThreads(prefs.Threads),
		engine.WithMaxDepth(engine.DifficultySettings[prefs.Difficulty].Depth),
		engine.WithWeights(prefs.Weights),
		engine.WithTranspositionTable(*hashMB),
		engine.WithLogger(log.Logger),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("could not create engine")
	}
	defer eng.Close()

	protocol, err := htp.New(eng, prefs.BoardSize, prefs.TimeBudget)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid preferences")
	}
	if *debug {
		protocol.SetInfoWriter(os.Stderr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := protocol.Run(ctx, os.Stdin, os.Stdout); err != nil {
		log.Error().Err(err).Msg("protocol session ended")
	}
	log.Debug().
		Str("nodes", humanize.Comma(int64(eng.Nodes()))).
		Float64("oracle_hit_rate", eng.Oracle().HitRate()).
		Msg("session finished")
}

func openStorage(dir string) (*storage.Storage, error) {
	if dir == "" {
		return storage.NewStorage()
	}
	return storage.Open(dir)
}

// loadState reads preferences and the opening book, seeding storage with the
// built-in book on first launch and importing -book when given.
func loadState(store *storage.Storage) (*storage.Preferences, *book.Book, error) {
	prefs, err := store.LoadPreferences()
	if err != nil {
		return nil, nil, err
	}

	first, err := store.IsFirstLaunch()
	if err != nil {
		return nil, nil, err
	}
	if first {
		if err := store.SaveBook(book.Default()); err != nil {
			return nil, nil, err
		}
		if err := store.SavePreferences(prefs); err != nil {
			return nil, nil, err
		}
		if err := store.MarkFirstLaunchComplete(); err != nil {
			return nil, nil, err
		}
		log.Info().Msg("storage initialised with the default opening book")
	}

	if *bookFile != "" {
		imported, err := book.Load(*bookFile)
		if err != nil {
			return nil, nil, err
		}
		if err := store.SaveBook(imported); err != nil {
			return nil, nil, err
		}
		log.Info().Str("file", *bookFile).Int("positions", imported.Len()).Msg("opening book imported")
	}

	bk, err := store.LoadBook()
	if err != nil {
		return nil, nil, err
	}
	return prefs, bk, nil
}
