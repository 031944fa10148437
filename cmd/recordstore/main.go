package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/freeeve/chessvideos/internal/config"
	"github.com/freeeve/chessvideos/internal/logx"
	"github.com/freeeve/chessvideos/internal/recordstore"
)

const usage = `Usage: recordstore [options] <command> [args]

Commands:
  ids                        list stored ids
  get <namespace> <id>       print the value stored under namespace for id
  put <namespace> <id> <file|->
                             store the JSON in file (or stdin) under namespace
  import <file|->            store every {"namespace","id","value"} line

Namespaces: videoSnippet, videoGame, chessCom, chesstempoCom

Options:
`

func main() {
	config.LoadDotEnv()
	defaults := config.FromEnv()

	var (
		dbDir    = flag.String("db", defaults.DBDir, "Record store directory")
		logLevel = flag.String("log-level", defaults.LogLevel, "Log level (debug, info, warn, error)")
	)
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(1)
	}

	logger := logx.NewLogger(logx.Options{Level: *logLevel})

	store, err := recordstore.Open(*dbDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("open record store")
	}

	switch cmd := args[0]; {
	case cmd == "ids" && len(args) == 1:
		ids, err := store.IDs()
		if err != nil {
			logger.Fatal().Err(err).Msg("list ids")
		}
		for _, id := range ids {
			fmt.Println(id)
		}

	case cmd == "get" && len(args) == 3:
		raw, ok, err := store.Read(recordstore.Namespace(args[1]), args[2])
		if err != nil {
			logger.Fatal().Err(err).Msg("read")
		}
		if !ok {
			logger.Error().Str("namespace", args[1]).Str("id", args[2]).Msg("not found")
			os.Exit(2)
		}
		fmt.Println(string(raw))

	case cmd == "put" && len(args) == 4:
		data, err := readInput(args[3])
		if err != nil {
			logger.Fatal().Err(err).Msg("read input")
		}
		if err := store.Write(recordstore.Namespace(args[1]), args[2], json.RawMessage(data)); err != nil {
			logger.Fatal().Err(err).Msg("write")
		}
		logger.Info().Str("namespace", args[1]).Str("id", args[2]).Msg("stored")

	case cmd == "import" && len(args) == 2:
		in, closeIn, err := openInput(args[1])
		if err != nil {
			logger.Fatal().Err(err).Msg("open input")
		}
		defer closeIn()
		n, err := recordstore.Import(store, in)
		if err != nil {
			logger.Fatal().Err(err).Int("imported", n).Msg("import failed")
		}
		logger.Info().Int("imported", n).Str("db", store.Dir()).Msg("import complete")

	default:
		flag.Usage()
		os.Exit(1)
	}
}

func openInput(path string) (io.Reader, func(), error) {
	if path == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

func readInput(path string) ([]byte, error) {
	in, closeIn, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer closeIn()
	return io.ReadAll(in)
}
