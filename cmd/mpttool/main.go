// Command mpttool is a small demo/inspection CLI around the trie engine:
// it opens (or creates) a trie against a configured backing store, applies
// any configured seed entries, performs the requested operation, and
// prints the resulting root hash.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"

	"github.com/arborix-labs/statetrie/internal/config"
	"github.com/arborix-labs/statetrie/internal/log"
	"github.com/arborix-labs/statetrie/storage"
	"github.com/arborix-labs/statetrie/storage/badgerstore"
	"github.com/arborix-labs/statetrie/storage/memstore"
	"github.com/arborix-labs/statetrie/trie"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to config file")
	rootFlag := flag.String("root", "", "Root hash to reopen (default: empty trie)")
	getKey := flag.String("get", "", "Hex-encoded key to look up")
	putKey := flag.String("put", "", "Hex-encoded key to insert/update")
	putValue := flag.String("value", "", "Hex-encoded value for -put")

	if v := os.Getenv("CONFIG_PATH"); v != "" {
		flag.Set("config", v)
	}
	flag.Parse()

	logger := log.New(log.NewTerminalHandler()).With("component", "mpttool")

	loader := config.NewLoader(logger)
	cfg, err := loader.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	store, err := openStore(cfg.Store)
	if err != nil {
		logger.Error("failed to open store", "err", err)
		os.Exit(1)
	}
	if closer, ok := store.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	db := trie.NewTrieDB(store, logger.With("component", "triedb"))

	root := common.Hash{}
	if *rootFlag != "" {
		root = common.HexToHash(*rootFlag)
	}
	tr, err := trie.New(trie.TrieID(root), db)
	if err != nil {
		logger.Error("failed to open trie", "err", err)
		os.Exit(1)
	}

	for _, entry := range cfg.Seed {
		key, err := hex.DecodeString(entry.Key)
		if err != nil {
			logger.Error("invalid seed key", "key", entry.Key, "err", err)
			os.Exit(1)
		}
		value, err := hex.DecodeString(entry.Value)
		if err != nil {
			logger.Error("invalid seed value", "value", entry.Value, "err", err)
			os.Exit(1)
		}
		tr.Update(key, value)
	}

	if *putKey != "" {
		key, err := hex.DecodeString(*putKey)
		if err != nil {
			logger.Error("invalid -put key", "err", err)
			os.Exit(1)
		}
		value, err := hex.DecodeString(*putValue)
		if err != nil {
			logger.Error("invalid -value", "err", err)
			os.Exit(1)
		}
		tr.Update(key, value)
	}

	if *getKey != "" {
		key, err := hex.DecodeString(*getKey)
		if err != nil {
			logger.Error("invalid -get key", "err", err)
			os.Exit(1)
		}
		value, err := tr.TryGet(key)
		if err != nil {
			logger.Error("get failed", "err", err)
			os.Exit(1)
		}
		if value == nil {
			fmt.Println("<not found>")
		} else {
			fmt.Println(hex.EncodeToString(value))
		}
	}

	newRoot, _, err := tr.Commit()
	if err != nil {
		logger.Error("commit failed", "err", err)
		os.Exit(1)
	}
	logger.Info("committed", "root", newRoot.Hex())
	fmt.Println(newRoot.Hex())
}

func openStore(cfg config.StoreConfig) (storage.Store, error) {
	switch cfg.Backend {
	case "badger":
		return badgerstore.Open(cfg.Path)
	default:
		return memstore.New(), nil
	}
}
