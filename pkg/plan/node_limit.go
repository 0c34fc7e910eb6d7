package plan

import (
	"fmt"

	"github.com/bisegni/dumpscan/pkg/database"
)

// LimitNode stops after Count rows.
type LimitNode struct {
	Input Node
	Count int
}

func (n *LimitNode) Execute() (database.RowIterator, error) {
	inputIter, err := n.Input.Execute()
	if err != nil {
		return nil, err
	}
	return &limitIterator{source: inputIter, limit: n.Count}, nil
}

func (n *LimitNode) Children() []Node {
	return []Node{n.Input}
}

func (n *LimitNode) Explain() string {
	return fmt.Sprintf("Limit(%d)", n.Count)
}
