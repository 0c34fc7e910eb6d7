package planner

import (
	"github.com/bisegni/dumpscan/pkg/database"
	"github.com/bisegni/dumpscan/pkg/plan"
	"github.com/bisegni/dumpscan/pkg/query"
)

// CreatePlan converts a Query IR into an Execution Plan. FROM names are
// resolved in catalog; a query without FROM reads the catalog's only table.
func CreatePlan(q *query.SelectQuery, catalog *database.Catalog) (plan.Node, error) {
	// 1. Resolve Input (FROM)
	var inputNode plan.Node

	switch {
	case q.FromQuery != nil:
		subPlan, err := CreatePlan(q.FromQuery, catalog)
		if err != nil {
			return nil, err
		}
		inputNode = subPlan
	case q.FromTable != "":
		table, err := catalog.GetTable(q.FromTable)
		if err != nil {
			return nil, err
		}
		inputNode = &plan.ScanNode{TableName: q.FromTable, Table: table}
	default:
		table, err := catalog.Default()
		if err != nil {
			return nil, err
		}
		names := catalog.Names()
		inputNode = &plan.ScanNode{TableName: names[0], Table: table}
	}

	var currentNode plan.Node = inputNode

	// 2. Apply WHERE (Filter)
	if q.Filter != nil {
		currentNode = &plan.FilterNode{
			Input:      currentNode,
			Expression: q.Filter,
		}
	}

	// 3. Apply GroupBy / Aggregation
	hasAggregation := q.GroupBy != ""
	if !hasAggregation {
		for _, f := range q.Fields {
			if f.Aggregate != "" {
				hasAggregation = true
				break
			}
		}
	}

	if hasAggregation {
		currentNode = &plan.AggregateNode{
			Input:        currentNode,
			GroupByField: q.GroupBy,
			Fields:       q.Fields,
		}
	} else if len(q.Fields) > 0 {
		currentNode = &plan.ProjectNode{
			Input:  currentNode,
			Fields: q.Fields,
		}
	}

	// 4. Apply LIMIT
	if q.Limit >= 0 {
		currentNode = &plan.LimitNode{Input: currentNode, Count: q.Limit}
	}

	return currentNode, nil
}
