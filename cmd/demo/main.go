package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	dbm "github.com/cometbft/cometbft-db"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	runtimesupport "github.com/relaychain/runtimesupport"
	"github.com/relaychain/runtimesupport/store"
	"github.com/relaychain/runtimesupport/types"
)

const (
	StateDir  = "tmp"
	StateName = "state"
)

// Runs one export of a wasm file against a goleveldb store in ./tmp.
//
//	demo <file.wasm> <export> [params...]
//
// Settings come from RUNTIME_* environment variables and, if RUNTIME_CONFIG
// names one, a config file.
func main() {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "usage: demo <file.wasm> <export> [params...]")
		os.Exit(2)
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	runtimesupport.SetLogger(logger)

	v := newViper()
	config, err := loadConfig(v)
	if err != nil {
		panic(err)
	}

	file := os.Args[1]
	fmt.Printf("Running %s...\n", file)
	bz, err := os.ReadFile(file)
	if err != nil {
		panic(err)
	}
	params := make([]uint64, 0, len(os.Args)-3)
	for _, arg := range os.Args[3:] {
		p, err := strconv.ParseUint(arg, 0, 64)
		if err != nil {
			panic(err)
		}
		params = append(params, p)
	}

	err = os.MkdirAll(StateDir, 0o755)
	if err != nil {
		panic(err)
	}
	db, err := dbm.NewDB(StateName, dbm.GoLevelDBBackend, StateDir)
	if err != nil {
		panic(err)
	}
	defer db.Close()
	state := store.NewDBStore(db, v.GetUint64("chain_id"), logger)

	ctx := context.Background()
	vm, err := runtimesupport.NewVM(ctx, config, logger)
	if err != nil {
		panic(err)
	}
	defer vm.Close(ctx)

	checksum, err := vm.StoreCode(ctx, bz)
	if err != nil {
		panic(err)
	}
	fmt.Printf("Stored code with checksum: %s\n", checksum)

	res, err := vm.Call(ctx, checksum, state, os.Args[2], params...)
	if err != nil {
		panic(err)
	}
	if err := state.Err(); err != nil {
		panic(err)
	}
	fmt.Printf("Result: %v\n", res)

	metrics, err := vm.Metrics().MarshalMessagePack()
	if err != nil {
		panic(err)
	}
	fmt.Printf("Metrics: %X\n", metrics)
	fmt.Println("finished")
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("runtime")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := types.DefaultVMConfig()
	v.SetDefault("chain_id", 0)
	v.SetDefault("wasm_limits.memory_limit_pages", defaults.MemoryLimit())
	v.SetDefault("wasm_limits.close_on_context_done", defaults.WasmLimits.CloseOnContextDone)
	v.SetDefault("cache.max_modules", defaults.Cache.MaxModules)
	return v
}

func loadConfig(v *viper.Viper) (types.VMConfig, error) {
	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return types.VMConfig{}, fmt.Errorf("reading %s: %w", path, err)
		}
	}
	var config types.VMConfig
	if err := v.Unmarshal(&config); err != nil {
		return types.VMConfig{}, fmt.Errorf("decoding config: %w", err)
	}
	return config, nil
}
