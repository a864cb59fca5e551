package snapshot

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/mmynk/tripledger/internal/ledger"
)

// YAMLTrip is the on-disk shape of a trip snapshot.
type YAMLTrip struct {
	Name         string            `yaml:"name"`
	Currency     string            `yaml:"currency"`
	Participants []YAMLParticipant `yaml:"participants"`
	Expenses     []YAMLExpense     `yaml:"expenses"`
	Payments     []YAMLPayment     `yaml:"payments"`
}

type YAMLParticipant struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

type YAMLExpense struct {
	ID          string      `yaml:"id"`
	Description string      `yaml:"description"`
	Total       Money       `yaml:"total"`
	Category    string      `yaml:"category"`
	Date        string      `yaml:"date"`
	Split       string      `yaml:"split"`
	Payers      []YAMLShare `yaml:"payers"`
	Debtors     []YAMLShare `yaml:"debtors"`
}

// YAMLShare names a participant and, optionally, an amount. Debtors of an
// equal split may leave the amount out.
type YAMLShare struct {
	Participant string `yaml:"participant"`
	Amount      *Money `yaml:"amount"`
}

type YAMLPayment struct {
	From   string `yaml:"from"`
	To     string `yaml:"to"`
	Amount Money  `yaml:"amount"`
}

// Money decodes a YAML scalar such as 12, 12.5 or "12,50" into minor units.
type Money ledger.Amount

func (m *Money) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: amount must be a scalar", node.Line)
	}
	a, err := ledger.ParseAmount(node.Value)
	if err != nil {
		return err
	}
	*m = Money(a)
	return nil
}

func (m Money) MarshalYAML() (interface{}, error) {
	return ledger.Amount(m).String(), nil
}
