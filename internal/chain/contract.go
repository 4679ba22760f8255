// Package chain reads the PenaltyShootout contract and decodes its events.
package chain

import (
	"context"
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"KickRelay/internal/model"
)

// Caller executes read-only contract calls. *ethclient.Client satisfies it.
type Caller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// Reader defines the read-only view of the game contract.
type Reader interface {
	Fee(ctx context.Context) (*big.Int, error)
	PlayerStats(ctx context.Context, player common.Address) (model.PlayerStats, error)
	Round(ctx context.Context, seq uint64) (model.RoundRecord, error)
}

// Contract implements Reader over a JSON-RPC caller.
type Contract struct {
	address common.Address
	abi     abi.ABI
	caller  Caller
}

// NewContract parses the ABI and binds it to address.
func NewContract(address common.Address, caller Caller) (*Contract, error) {
	parsed, err := ParseABI()
	if err != nil {
		return nil, err
	}
	return &Contract{address: address, abi: parsed, caller: caller}, nil
}

// ParseABI returns the parsed contract ABI.
func ParseABI() (abi.ABI, error) {
	parsed, err := abi.JSON(strings.NewReader(penaltyShootoutABI))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("parse PenaltyShootout ABI: %w", err)
	}
	return parsed, nil
}

func (c *Contract) Address() common.Address { return c.address }

func (c *Contract) ABI() abi.ABI { return c.abi }

// Fee returns the entropy fee a kick must pay, in wei.
func (c *Contract) Fee(ctx context.Context) (*big.Int, error) {
	var fee *big.Int
	if err := c.call(ctx, methodFee, &fee); err != nil {
		return nil, err
	}
	return fee, nil
}

// PlayerStats returns the on-chain statistics of player.
func (c *Contract) PlayerStats(ctx context.Context, player common.Address) (model.PlayerStats, error) {
	var out struct {
		CurrentStreak *big.Int
		HighestStreak *big.Int
		TotalPoints   *big.Int
		IsOnFire      bool
	}
	if err := c.call(ctx, methodStats, &out, player); err != nil {
		return model.PlayerStats{}, err
	}
	return model.PlayerStats{
		CurrentStreak: saturate(out.CurrentStreak),
		HighestStreak: saturate(out.HighestStreak),
		TotalPoints:   saturate(out.TotalPoints),
		IsOnFire:      out.IsOnFire,
	}, nil
}

// Round returns the round record keyed by sequence number.
func (c *Contract) Round(ctx context.Context, seq uint64) (model.RoundRecord, error) {
	var out struct {
		Player           common.Address
		PlayerMove       uint8
		SequenceNumber   uint64
		Fulfilled        bool
		IsGoal           bool
		ActualPlayerMove uint8
		GoalieMove       uint8
		WindStrength     uint8
	}
	if err := c.call(ctx, methodRounds, &out, seq); err != nil {
		return model.RoundRecord{}, err
	}
	return model.RoundRecord{
		Player:         out.Player,
		RequestedMove:  model.Move(out.PlayerMove),
		SequenceNumber: out.SequenceNumber,
		Fulfilled:      out.Fulfilled,
		IsGoal:         out.IsGoal,
		ResolvedMove:   model.Move(out.ActualPlayerMove),
		OracleMove:     model.Move(out.GoalieMove),
		WindStrength:   out.WindStrength,
	}, nil
}

// PackRequestKick encodes the requestKick call data.
func (c *Contract) PackRequestKick(move model.Move) ([]byte, error) {
	data, err := c.abi.Pack(methodRequestKick, uint8(move))
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", methodRequestKick, err)
	}
	return data, nil
}

func (c *Contract) call(ctx context.Context, method string, out any, args ...any) error {
	callData, err := c.abi.Pack(method, args...)
	if err != nil {
		return fmt.Errorf("encode %s: %w", method, err)
	}
	to := c.address
	result, err := c.caller.CallContract(ctx, ethereum.CallMsg{To: &to, Data: callData}, nil)
	if err != nil {
		return fmt.Errorf("call %s: %w", method, err)
	}
	if err := c.abi.UnpackIntoInterface(out, method, result); err != nil {
		return fmt.Errorf("decode %s: %w", method, err)
	}
	return nil
}

// saturate narrows a uint256 counter to uint64.
func saturate(v *big.Int) uint64 {
	if v == nil || v.Sign() < 0 {
		return 0
	}
	if !v.IsUint64() {
		return math.MaxUint64
	}
	return v.Uint64()
}
