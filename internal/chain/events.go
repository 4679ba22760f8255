package chain

import (
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"KickRelay/internal/apperr"
)

// ExtractSequenceNumber returns the sequence number of the first
// KickRequested event in logs emitted by this contract.
func (c *Contract) ExtractSequenceNumber(logs []*types.Log) (uint64, error) {
	event := c.abi.Events[eventRequested]
	var indexed abi.Arguments
	for _, arg := range event.Inputs {
		if arg.Indexed {
			indexed = append(indexed, arg)
		}
	}

	for _, l := range logs {
		if l == nil || len(l.Topics) == 0 || l.Topics[0] != event.ID {
			continue
		}
		if c.address != (common.Address{}) && l.Address != c.address {
			continue
		}
		var out struct {
			SequenceNumber uint64
			Player         common.Address
		}
		if err := abi.ParseTopics(&out, indexed, l.Topics[1:]); err != nil {
			return 0, apperr.Wrap(apperr.CodeMissingEvent, "decode "+eventRequested, err)
		}
		return out.SequenceNumber, nil
	}
	return 0, apperr.New(apperr.CodeMissingEvent, "no "+eventRequested+" event in receipt")
}
