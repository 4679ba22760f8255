package wallet

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Anvil account 1.
const testKey = "0x59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d"

func TestFromHexDerivesAddress(t *testing.T) {
	w, err := FromHex(testKey)
	if err != nil {
		t.Fatalf("from hex: %v", err)
	}
	want := common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	if w.Address() != want {
		t.Errorf("address = %s, want %s", w.Address().Hex(), want.Hex())
	}
	if _, err := FromHex("zz"); err == nil {
		t.Error("expected error for malformed key")
	}
}

func TestSessionReadiness(t *testing.T) {
	w, _ := FromHex(testKey)
	if w.Session().Ready {
		t.Fatal("session should be syncing before attach")
	}
	if _, err := w.Transactor(context.Background()); !errors.Is(err, ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}

	w.Attach(big.NewInt(10143))
	s := w.Session()
	if !s.Ready || s.ChainID.Int64() != 10143 {
		t.Fatalf("unexpected session %+v", s)
	}
	if !s.Matches(big.NewInt(10143)) || s.Matches(big.NewInt(1)) {
		t.Error("chain matching is wrong")
	}
}

func TestSignTxRecoversSender(t *testing.T) {
	w, _ := FromHex(testKey)
	w.Attach(big.NewInt(10143))

	to := common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	tx := types.NewTx(&types.LegacyTx{Nonce: 1, To: &to, Gas: 300000, GasPrice: big.NewInt(1), Value: big.NewInt(5)})
	signed, err := w.SignTx(tx)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	from, err := types.Sender(types.LatestSignerForChainID(big.NewInt(10143)), signed)
	if err != nil {
		t.Fatalf("recover sender: %v", err)
	}
	if from != w.Address() {
		t.Errorf("sender = %s, want %s", from.Hex(), w.Address().Hex())
	}
}
