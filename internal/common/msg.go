package common

import (
	"fmt"
	"math/big"
)

// Directive tags a staking transaction. Values follow the on-chain numbering.
type Directive uint8

const (
	DirectiveCreateValidator Directive = iota
	DirectiveEditValidator
	DirectiveDelegate
	DirectiveUndelegate
	DirectiveCollectRewards
)

var directiveNames = map[Directive]string{
	DirectiveCreateValidator: "CreateValidator",
	DirectiveEditValidator:   "EditValidator",
	DirectiveDelegate:        "Delegate",
	DirectiveUndelegate:      "Undelegate",
	DirectiveCollectRewards:  "CollectRewards",
}

func (d Directive) String() string {
	if name, ok := directiveNames[d]; ok {
		return name
	}
	return fmt.Sprintf("Directive(%d)", uint8(d))
}

// Msg is the payload of a staking transaction.
type Msg interface {
	Directive() Directive
}

type DelegateMsg struct {
	DelegatorAddress string   `json:"delegatorAddress"`
	ValidatorAddress string   `json:"validatorAddress"`
	Amount           *big.Int `json:"amount"`
}

func (DelegateMsg) Directive() Directive { return DirectiveDelegate }

type UndelegateMsg struct {
	DelegatorAddress string   `json:"delegatorAddress"`
	ValidatorAddress string   `json:"validatorAddress"`
	Amount           *big.Int `json:"amount"`
}

func (UndelegateMsg) Directive() Directive { return DirectiveUndelegate }

type CollectRewardsMsg struct {
	DelegatorAddress string `json:"delegatorAddress"`
}

func (CollectRewardsMsg) Directive() Directive { return DirectiveCollectRewards }
