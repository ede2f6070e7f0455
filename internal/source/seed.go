package source

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"pairscope/internal/model"
	"pairscope/internal/store"
)

// PairSeed declares a known pair and its token precisions. Pair discovery is
// outside the engine's scope, so runs are seeded from a registry file.
type PairSeed struct {
	Address         string `json:"address"`
	Token0          string `json:"token0"`
	Token1          string `json:"token1"`
	Token0Decimals  uint8  `json:"token0_decimals"`
	Token1Decimals  uint8  `json:"token1_decimals"`
	CreatedAtBlock  uint64 `json:"created_at_block,omitempty"`
	CreatedAtTxHash string `json:"created_at_tx_hash,omitempty"`
}

// SeedPairs loads a JSONL pair registry into the store, creating Pair and
// Token entities that are absent. Existing entities are left untouched so a
// resumed run keeps its derived state.
func SeedPairs(path string, st *store.Memory, logger *zap.Logger) (int, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open pair registry: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	var seeded int
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var seed PairSeed
		if err := json.Unmarshal(line, &seed); err != nil {
			return seeded, fmt.Errorf("decode pair seed: %w", err)
		}
		if seed.Address == "" || seed.Token0 == "" || seed.Token1 == "" {
			logger.Warn("pair seed missing addresses, skipped")
			continue
		}

		address := strings.ToLower(seed.Address)
		token0 := strings.ToLower(seed.Token0)
		token1 := strings.ToLower(seed.Token1)

		if _, ok := st.Token(token0); !ok {
			st.SaveToken(&model.Token{ID: token0, Decimals: seed.Token0Decimals})
		}
		if _, ok := st.Token(token1); !ok {
			st.SaveToken(&model.Token{ID: token1, Decimals: seed.Token1Decimals})
		}
		if _, ok := st.Pair(address); !ok {
			st.SavePair(&model.Pair{ID: address, Token0: token0, Token1: token1})
			seeded++
		}
	}

	if err := scanner.Err(); err != nil {
		return seeded, fmt.Errorf("scan pair registry: %w", err)
	}
	return seeded, nil
}
