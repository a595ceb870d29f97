// Package seating implements table seating bookkeeping for an event: tables
// with numbered seats, assignment, move/transfer/swap semantics, and optional
// per-table eligibility rules.
package seating

import (
	"errors"
	"fmt"
	"sort"

	"github.com/lanyardapp/lanyard/pkg/domain/types"
	"github.com/lanyardapp/lanyard/pkg/registration"
)

// Sentinel errors for seating operations.
var (
	ErrTableNotFound   = errors.New("table not found")
	ErrSeatOutOfRange  = errors.New("seat number out of range")
	ErrSeatOccupied    = errors.New("seat is already occupied")
	ErrAlreadySeated   = errors.New("participant is already seated")
	ErrNotSeated       = errors.New("participant is not seated")
	ErrRuleViolation   = errors.New("participant does not satisfy table rule")
	ErrTableFull       = errors.New("no free seat at table")
	ErrDuplicateTable  = errors.New("table name already in use")
	ErrInvalidCapacity = errors.New("table capacity must be positive")
)

// Table is a seating table with numbered seats 1..Capacity.
type Table struct {
	ID       types.TableID
	EventID  types.EventID
	Name     string
	Capacity int
	// Rule is an optional boolean expression over participant attributes
	// (e.g. `company != "Acme"` or `checked_in`). Participants failing the
	// rule cannot be seated here.
	Rule string

	seats map[int]types.ParticipantID
	rule  *tableRule
}

// Assignment locates a participant's seat.
type Assignment struct {
	Table types.TableID
	Seat  int
}

// Seated returns the seat numbers currently occupied, in order.
func (t *Table) Seated() []int {
	nums := make([]int, 0, len(t.seats))
	for n := range t.seats {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	return nums
}

// Occupant returns the participant in the given seat, or "" if free.
func (t *Table) Occupant(seat int) types.ParticipantID {
	return t.seats[seat]
}

// FreeSeats returns the number of unoccupied seats.
func (t *Table) FreeSeats() int {
	return t.Capacity - len(t.seats)
}

// firstFree returns the lowest free seat number, or 0 if the table is full.
func (t *Table) firstFree() int {
	for n := 1; n <= t.Capacity; n++ {
		if _, taken := t.seats[n]; !taken {
			return n
		}
	}
	return 0
}

// Chart is the seating chart of one event. It owns the tables and tracks
// which participant sits where. Not safe for concurrent use.
type Chart struct {
	eventID       types.EventID
	tables        map[types.TableID]*Table
	order         []types.TableID
	byParticipant map[types.ParticipantID]Assignment
}

// NewChart creates an empty seating chart for an event.
func NewChart(eventID types.EventID) *Chart {
	return &Chart{
		eventID:       eventID,
		tables:        make(map[types.TableID]*Table),
		byParticipant: make(map[types.ParticipantID]Assignment),
	}
}

// EventID returns the event this chart belongs to.
func (c *Chart) EventID() types.EventID {
	return c.eventID
}

// AddTable creates a table with the given capacity and optional rule.
// Table names are unique within a chart.
func (c *Chart) AddTable(name string, capacity int, rule string) (*Table, error) {
	if name == "" {
		return nil, fmt.Errorf("table name cannot be empty")
	}
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	for _, t := range c.tables {
		if t.Name == name {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTable, name)
		}
	}

	return c.addTable(types.NewTableID(), name, capacity, rule)
}

// RestoreTable re-adds a previously persisted table under its original ID.
func (c *Chart) RestoreTable(id types.TableID, name string, capacity int, rule string) (*Table, error) {
	if id.IsZero() {
		return nil, fmt.Errorf("table ID cannot be empty")
	}
	if name == "" {
		return nil, fmt.Errorf("table name cannot be empty")
	}
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	if _, exists := c.tables[id]; exists {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateTable, id)
	}
	return c.addTable(id, name, capacity, rule)
}

func (c *Chart) addTable(id types.TableID, name string, capacity int, rule string) (*Table, error) {
	t := &Table{
		ID:       id,
		EventID:  c.eventID,
		Name:     name,
		Capacity: capacity,
		Rule:     rule,
		seats:    make(map[int]types.ParticipantID),
	}
	if rule != "" {
		compiled, err := compileRule(rule)
		if err != nil {
			return nil, fmt.Errorf("invalid table rule: %w", err)
		}
		t.rule = compiled
	}

	c.tables[t.ID] = t
	c.order = append(c.order, t.ID)
	return t, nil
}

// RestoreAssignment seats a participant without rule checks. Used when
// rebuilding a chart from persisted assignments, which were rule-checked when
// first made.
func (c *Chart) RestoreAssignment(id types.ParticipantID, tableID types.TableID, seat int) error {
	t, err := c.Table(tableID)
	if err != nil {
		return err
	}
	if _, seated := c.byParticipant[id]; seated {
		return fmt.Errorf("%w: %s", ErrAlreadySeated, id)
	}
	if err := c.checkSeat(t, seat); err != nil {
		return err
	}

	t.seats[seat] = id
	c.byParticipant[id] = Assignment{Table: tableID, Seat: seat}
	return nil
}

// Table returns a table by ID.
func (c *Chart) Table(id types.TableID) (*Table, error) {
	t, ok := c.tables[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, id)
	}
	return t, nil
}

// Tables returns the tables in creation order.
func (c *Chart) Tables() []*Table {
	out := make([]*Table, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.tables[id])
	}
	return out
}

// AssignmentOf returns where a participant sits, or false if unseated.
func (c *Chart) AssignmentOf(id types.ParticipantID) (Assignment, bool) {
	a, ok := c.byParticipant[id]
	return a, ok
}

// Assign seats a participant at a specific table and seat. The participant
// must be unseated, the seat free and in range, and the table's rule (if any)
// satisfied.
func (c *Chart) Assign(p *registration.Participant, tableID types.TableID, seat int) error {
	if p == nil {
		return fmt.Errorf("cannot seat nil participant")
	}
	t, err := c.Table(tableID)
	if err != nil {
		return err
	}
	if _, seated := c.byParticipant[p.ID]; seated {
		return fmt.Errorf("%w: %s", ErrAlreadySeated, p.ID)
	}
	if err := c.checkSeat(t, seat); err != nil {
		return err
	}
	if err := t.checkRule(p); err != nil {
		return err
	}

	t.seats[seat] = p.ID
	c.byParticipant[p.ID] = Assignment{Table: tableID, Seat: seat}
	return nil
}

// Unassign frees a participant's seat.
func (c *Chart) Unassign(id types.ParticipantID) error {
	a, ok := c.byParticipant[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotSeated, id)
	}
	delete(c.tables[a.Table].seats, a.Seat)
	delete(c.byParticipant, id)
	return nil
}

// Move relocates a seated participant to another seat, on the same table or a
// different one. The target seat must be free and the target table's rule is
// re-checked on transfer.
func (c *Chart) Move(p *registration.Participant, tableID types.TableID, seat int) error {
	if p == nil {
		return fmt.Errorf("cannot move nil participant")
	}
	from, ok := c.byParticipant[p.ID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotSeated, p.ID)
	}
	t, err := c.Table(tableID)
	if err != nil {
		return err
	}
	if from.Table == tableID && from.Seat == seat {
		return nil
	}
	if err := c.checkSeat(t, seat); err != nil {
		return err
	}
	if from.Table != tableID {
		if err := t.checkRule(p); err != nil {
			return err
		}
	}

	delete(c.tables[from.Table].seats, from.Seat)
	t.seats[seat] = p.ID
	c.byParticipant[p.ID] = Assignment{Table: tableID, Seat: seat}
	return nil
}

// Swap exchanges the seats of two seated participants. Rules are re-checked
// for both when the swap crosses tables.
func (c *Chart) Swap(a, b *registration.Participant) error {
	if a == nil || b == nil {
		return fmt.Errorf("cannot swap nil participant")
	}
	assignA, okA := c.byParticipant[a.ID]
	assignB, okB := c.byParticipant[b.ID]
	if !okA {
		return fmt.Errorf("%w: %s", ErrNotSeated, a.ID)
	}
	if !okB {
		return fmt.Errorf("%w: %s", ErrNotSeated, b.ID)
	}

	if assignA.Table != assignB.Table {
		if err := c.tables[assignB.Table].checkRule(a); err != nil {
			return err
		}
		if err := c.tables[assignA.Table].checkRule(b); err != nil {
			return err
		}
	}

	c.tables[assignA.Table].seats[assignA.Seat] = b.ID
	c.tables[assignB.Table].seats[assignB.Seat] = a.ID
	c.byParticipant[a.ID] = assignB
	c.byParticipant[b.ID] = assignA
	return nil
}

// AutoAssign seats the given participants at the first table with a free seat
// whose rule they satisfy, in table creation order. Participants already
// seated are skipped. Returns the participants that could not be seated.
func (c *Chart) AutoAssign(participants []*registration.Participant) []*registration.Participant {
	var unseated []*registration.Participant

	for _, p := range participants {
		if p == nil {
			continue
		}
		if _, seated := c.byParticipant[p.ID]; seated {
			continue
		}

		placed := false
		for _, id := range c.order {
			t := c.tables[id]
			seat := t.firstFree()
			if seat == 0 {
				continue
			}
			if t.checkRule(p) != nil {
				continue
			}
			t.seats[seat] = p.ID
			c.byParticipant[p.ID] = Assignment{Table: id, Seat: seat}
			placed = true
			break
		}
		if !placed {
			unseated = append(unseated, p)
		}
	}

	return unseated
}

func (c *Chart) checkSeat(t *Table, seat int) error {
	if seat < 1 || seat > t.Capacity {
		return fmt.Errorf("%w: seat %d of %d", ErrSeatOutOfRange, seat, t.Capacity)
	}
	if _, taken := t.seats[seat]; taken {
		return fmt.Errorf("%w: seat %d at %s", ErrSeatOccupied, seat, t.Name)
	}
	return nil
}

func (t *Table) checkRule(p *registration.Participant) error {
	if t.rule == nil {
		return nil
	}
	ok, err := t.rule.eval(p.ExprEnv())
	if err != nil {
		return fmt.Errorf("table rule evaluation failed: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s at %s", ErrRuleViolation, p.ID, t.Name)
	}
	return nil
}
