package chain

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"KickRelay/internal/model"
)

var (
	testContract = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	testPlayer   = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
)

// fakeCaller answers calls by method selector with pre-packed outputs.
type fakeCaller struct {
	abi     abi.ABI
	outputs map[string][]byte
	calls   []ethereum.CallMsg
	err     error
}

func newFakeCaller(t *testing.T) *fakeCaller {
	t.Helper()
	parsed, err := ParseABI()
	if err != nil {
		t.Fatalf("parse abi: %v", err)
	}
	return &fakeCaller{abi: parsed, outputs: map[string][]byte{}}
}

func (f *fakeCaller) set(t *testing.T, method string, values ...any) {
	t.Helper()
	out, err := f.abi.Methods[method].Outputs.Pack(values...)
	if err != nil {
		t.Fatalf("pack %s outputs: %v", method, err)
	}
	f.outputs[method] = out
}

func (f *fakeCaller) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	f.calls = append(f.calls, msg)
	if f.err != nil {
		return nil, f.err
	}
	method, err := f.abi.MethodById(msg.Data[:4])
	if err != nil {
		return nil, err
	}
	return f.outputs[method.Name], nil
}

func TestFee(t *testing.T) {
	caller := newFakeCaller(t)
	caller.set(t, methodFee, big.NewInt(10_000_000_000_000_000))
	c, err := NewContract(testContract, caller)
	if err != nil {
		t.Fatalf("new contract: %v", err)
	}

	fee, err := c.Fee(context.Background())
	if err != nil {
		t.Fatalf("fee: %v", err)
	}
	if fee.Cmp(big.NewInt(10_000_000_000_000_000)) != 0 {
		t.Errorf("unexpected fee %s", fee)
	}
	if got := *caller.calls[0].To; got != testContract {
		t.Errorf("call sent to %s", got.Hex())
	}
}

func TestPlayerStats(t *testing.T) {
	caller := newFakeCaller(t)
	caller.set(t, methodStats, big.NewInt(3), big.NewInt(5), big.NewInt(100), false)
	c, _ := NewContract(testContract, caller)

	stats, err := c.PlayerStats(context.Background(), testPlayer)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	want := model.PlayerStats{CurrentStreak: 3, HighestStreak: 5, TotalPoints: 100}
	if stats != want {
		t.Errorf("stats = %+v, want %+v", stats, want)
	}
}

func TestRound(t *testing.T) {
	caller := newFakeCaller(t)
	caller.set(t, methodRounds, testPlayer, uint8(0), uint64(42), true, true, uint8(0), uint8(1), uint8(2))
	c, _ := NewContract(testContract, caller)

	rec, err := c.Round(context.Background(), 42)
	if err != nil {
		t.Fatalf("round: %v", err)
	}
	want := model.RoundRecord{
		Player:         testPlayer,
		RequestedMove:  model.MoveLeft,
		SequenceNumber: 42,
		Fulfilled:      true,
		IsGoal:         true,
		ResolvedMove:   model.MoveLeft,
		OracleMove:     model.MoveCenter,
		WindStrength:   2,
	}
	if rec != want {
		t.Errorf("round = %+v, want %+v", rec, want)
	}
}

func TestCallErrorIsWrapped(t *testing.T) {
	caller := newFakeCaller(t)
	caller.err = errors.New("connection refused")
	c, _ := NewContract(testContract, caller)

	if _, err := c.Fee(context.Background()); err == nil || !errors.Is(err, caller.err) {
		t.Fatalf("expected wrapped provider error, got %v", err)
	}
}

func TestSaturate(t *testing.T) {
	huge := new(big.Int).Lsh(big.NewInt(1), 100)
	if saturate(huge) != ^uint64(0) {
		t.Error("expected saturation at max uint64")
	}
	if saturate(nil) != 0 {
		t.Error("nil should be zero")
	}
}
