package plan

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/bisegni/dumpscan/pkg/database"
	"github.com/bisegni/dumpscan/pkg/query"
)

func toRecord(primitive interface{}) (query.Record, bool) {
	switch v := primitive.(type) {
	case database.OrderedMap:
		return v.ToRecord(), true
	case query.Record:
		return v, true
	case map[string]interface{}:
		return v, true
	}
	return nil, false
}

// --- Filter Iterator ---

type filterIterator struct {
	source     database.RowIterator
	expression query.Expression
}

func (it *filterIterator) Next() bool {
	for it.source.Next() {
		record, ok := toRecord(it.source.Row().Primitive())
		if !ok {
			continue
		}
		if it.expression.Evaluate(record) {
			return true
		}
	}
	return false
}

func (it *filterIterator) Row() database.Row {
	return it.source.Row()
}

func (it *filterIterator) Error() error {
	return it.source.Error()
}

func (it *filterIterator) Close() error {
	return it.source.Close()
}

// --- Project Iterator ---

type projectIterator struct {
	source     database.RowIterator
	fields     []query.Field
	currentRow database.Row
}

func (it *projectIterator) Next() bool {
	if !it.source.Next() {
		return false
	}
	srcRow := it.source.Row()

	newRow := make(database.OrderedMap, 0, len(it.fields))
	for _, f := range it.fields {
		// A bare * keeps every column in dump order.
		if f.Path == "*" && (f.Alias == "" || f.Alias == "*") {
			if om, ok := srcRow.Primitive().(database.OrderedMap); ok {
				newRow = append(newRow, om...)
				continue
			}
		}

		key := f.Alias
		if key == "" {
			key = f.Path
		}
		val, err := srcRow.Get(f.Path)
		if err != nil {
			val = nil
		}
		newRow = append(newRow, database.KeyVal{Key: key, Val: val})
	}
	it.currentRow = database.NewRow(newRow)
	return true
}

func (it *projectIterator) Row() database.Row {
	return it.currentRow
}

func (it *projectIterator) Error() error {
	return it.source.Error()
}

func (it *projectIterator) Close() error {
	return it.source.Close()
}

// --- Limit Iterator ---

type limitIterator struct {
	source database.RowIterator
	limit  int
	seen   int
}

func (it *limitIterator) Next() bool {
	if it.seen >= it.limit {
		return false
	}
	if !it.source.Next() {
		return false
	}
	it.seen++
	return true
}

func (it *limitIterator) Row() database.Row {
	return it.source.Row()
}

func (it *limitIterator) Error() error {
	return it.source.Error()
}

func (it *limitIterator) Close() error {
	return it.source.Close()
}

// --- Aggregate Iterator ---

type aggregateIterator struct {
	input        Node
	groupByField string
	fields       []query.Field

	results []database.Row
	index   int
	err     error
	done    bool
}

func (it *aggregateIterator) Next() bool {
	if !it.done {
		it.done = true
		it.index = -1
		if err := it.init(); err != nil {
			it.err = err
			return false
		}
	}
	if it.err != nil {
		return false
	}
	it.index++
	return it.index < len(it.results)
}

func (it *aggregateIterator) Row() database.Row {
	if it.index >= 0 && it.index < len(it.results) {
		return it.results[it.index]
	}
	return nil
}

func (it *aggregateIterator) Error() error {
	return it.err
}

func (it *aggregateIterator) Close() error {
	return nil
}

func (it *aggregateIterator) init() error {
	sourceIter, err := it.input.Execute()
	if err != nil {
		return err
	}
	defer sourceIter.Close()

	groups := make(map[string]*groupState)
	var groupKeys []string
	hasData := false

	for sourceIter.Next() {
		hasData = true
		row := sourceIter.Row()

		var groupKey string
		var groupVal interface{}
		if it.groupByField != "" {
			val, err := row.Get(it.groupByField)
			if err == nil && val != nil {
				groupKey = fmt.Sprintf("%v", val)
				groupVal = val
			} else {
				groupKey = "null"
			}
		}

		state, exists := groups[groupKey]
		if !exists {
			state = newGroupState(it.fields, groupVal)
			groups[groupKey] = state
			groupKeys = append(groupKeys, groupKey)
		}

		state.update(row)
	}

	if err := sourceIter.Error(); err != nil {
		return err
	}

	it.results = []database.Row{}

	// A global aggregate over no rows still yields one row.
	if !hasData && it.groupByField == "" {
		for _, f := range it.fields {
			if f.Aggregate != "" {
				state := newGroupState(it.fields, nil)
				it.results = append(it.results, state.finalize(""))
				return nil
			}
		}
	}

	sort.SliceStable(groupKeys, func(i, j int) bool {
		a, b := groups[groupKeys[i]].key, groups[groupKeys[j]].key
		if a == nil || b == nil {
			return a == nil && b != nil
		}
		return compareLess(a, b)
	})

	for _, key := range groupKeys {
		it.results = append(it.results, groups[key].finalize(it.groupByField))
	}

	return nil
}

type groupState struct {
	fields []query.Field
	key    interface{}
	aggs   map[string]fieldAggregator
}

func newGroupState(fields []query.Field, key interface{}) *groupState {
	s := &groupState{
		fields: fields,
		key:    key,
		aggs:   make(map[string]fieldAggregator),
	}
	for i, f := range s.fields {
		if f.Aggregate != "" {
			s.aggs[keyFor(i)] = createAggregator(f.Aggregate)
		}
	}
	return s
}

func keyFor(index int) string {
	return strconv.Itoa(index)
}

func (s *groupState) update(row database.Row) {
	for i, f := range s.fields {
		if f.Aggregate != "" {
			if val, err := row.Get(f.Path); err == nil {
				s.aggs[keyFor(i)].Add(val)
			}
		}
	}
}

func (s *groupState) finalize(groupByField string) database.Row {
	result := make(database.OrderedMap, len(s.fields))
	for i, f := range s.fields {
		key := f.Alias
		if key == "" {
			key = f.Path
		}
		var val interface{}
		if f.Aggregate != "" {
			val = s.aggs[keyFor(i)].Result()
		} else if f.Path == groupByField {
			val = s.key
		}
		result[i] = database.KeyVal{Key: key, Val: val}
	}
	return database.NewRow(result)
}

// Aggregators
type fieldAggregator interface {
	Add(val interface{})
	Result() interface{}
}

func createAggregator(funcName string) fieldAggregator {
	switch strings.ToUpper(funcName) {
	case "MAX":
		return &maxAggregator{}
	case "MIN":
		return &minAggregator{}
	case "AVG":
		return &avgAggregator{}
	case "SUM":
		return &sumAggregator{integral: true}
	default:
		return &countAggregator{}
	}
}

// MAX
type maxAggregator struct {
	val interface{}
	set bool
}

func (a *maxAggregator) Add(v interface{}) {
	if v == nil {
		return
	}
	if !a.set || compareGreater(v, a.val) {
		a.val = v
		a.set = true
	}
}

func (a *maxAggregator) Result() interface{} {
	return a.val
}

// MIN
type minAggregator struct {
	val interface{}
	set bool
}

func (a *minAggregator) Add(v interface{}) {
	if v == nil {
		return
	}
	if !a.set || compareLess(v, a.val) {
		a.val = v
		a.set = true
	}
}

func (a *minAggregator) Result() interface{} {
	return a.val
}

// AVG
type avgAggregator struct {
	sum   float64
	count int
}

func (a *avgAggregator) Add(v interface{}) {
	if f, ok := toFloat64(v); ok {
		a.sum += f
		a.count++
	}
}

func (a *avgAggregator) Result() interface{} {
	if a.count == 0 {
		return nil
	}
	return a.sum / float64(a.count)
}

// COUNT ignores NULL like SQL does.
type countAggregator struct {
	count int
}

func (a *countAggregator) Add(v interface{}) {
	if v != nil {
		a.count++
	}
}

func (a *countAggregator) Result() interface{} {
	return a.count
}

// SUM stays an integer while every input is one.
type sumAggregator struct {
	sum      float64
	isum     int64
	integral bool
}

func (a *sumAggregator) Add(v interface{}) {
	if n, ok := v.(int64); ok && a.integral {
		a.isum += n
		a.sum += float64(n)
		return
	}
	if f, ok := toFloat64(v); ok {
		a.integral = false
		a.sum += f
	}
}

func (a *sumAggregator) Result() interface{} {
	if a.integral {
		return a.isum
	}
	return a.sum
}

// Helpers
func toFloat64(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case int32:
		return float64(val), true
	case bool:
		if val {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

func compareGreater(a, b interface{}) bool {
	af, aok := toFloat64(a)
	bf, bok := toFloat64(b)
	if aok && bok {
		return af > bf
	}
	as := fmt.Sprintf("%v", a)
	bs := fmt.Sprintf("%v", b)
	return as > bs
}

func compareLess(a, b interface{}) bool {
	af, aok := toFloat64(a)
	bf, bok := toFloat64(b)
	if aok && bok {
		return af < bf
	}
	as := fmt.Sprintf("%v", a)
	bs := fmt.Sprintf("%v", b)
	return as < bs
}
