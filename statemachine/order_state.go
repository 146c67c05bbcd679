package statemachine

import (
	"errors"

	"food-delivery-backend/models"
)

// Transition defines a valid state change and who can perform it
type Transition struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor models.UserRole
}

// validTransitions is the authoritative state machine definition.
// Admin is handled separately: it may force any move out of a
// non-terminal state.
var validTransitions = []Transition{
	// Restaurant advances the kitchen-side lifecycle
	{From: models.StatusPending, To: models.StatusAccepted, Actor: models.RoleRestaurant},
	{From: models.StatusAccepted, To: models.StatusPreparing, Actor: models.RoleRestaurant},
	{From: models.StatusPreparing, To: models.StatusReady, Actor: models.RoleRestaurant},
	// Restaurant can cancel any order that has not gone out yet
	{From: models.StatusPending, To: models.StatusCancelled, Actor: models.RoleRestaurant},
	{From: models.StatusAccepted, To: models.StatusCancelled, Actor: models.RoleRestaurant},
	{From: models.StatusPreparing, To: models.StatusCancelled, Actor: models.RoleRestaurant},
	{From: models.StatusReady, To: models.StatusCancelled, Actor: models.RoleRestaurant},
	{From: models.StatusOnTheWay, To: models.StatusCancelled, Actor: models.RoleRestaurant},
	// Assigned driver takes the order out and delivers it
	{From: models.StatusReady, To: models.StatusOnTheWay, Actor: models.RoleDriver},
	{From: models.StatusOnTheWay, To: models.StatusDelivered, Actor: models.RoleDriver},
}

// transitionKey is used to look up valid transitions quickly
type transitionKey struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor models.UserRole
}

// Build a lookup map for O(1) validation
var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

// IsTerminal reports whether no further transitions may leave status.
func IsTerminal(status models.OrderStatus) bool {
	return status == models.StatusDelivered || status == models.StatusCancelled
}

// ValidTransitionsFrom returns all valid next states from a given state
func ValidTransitionsFrom(status models.OrderStatus) []models.OrderStatus {
	var nexts []models.OrderStatus
	seen := map[models.OrderStatus]bool{}
	for _, t := range validTransitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// CanTransition checks if a given actor can move from one state to another
func CanTransition(from, to models.OrderStatus, actor models.UserRole) error {
	if actor == models.RoleAdmin {
		if IsTerminal(from) {
			return errors.New("invalid transition: " + string(from) + " is a terminal state")
		}
		return nil
	}
	key := transitionKey{From: from, To: to, Actor: actor}
	if transitionMap[key] {
		return nil
	}
	return errors.New(
		"invalid transition: " + string(from) + " to " + string(to) +
			" is not allowed for role '" + string(actor) + "'. " +
			"Valid transitions from " + string(from) + " are: " + describeValidFrom(from),
	)
}

func describeValidFrom(status models.OrderStatus) string {
	nexts := ValidTransitionsFrom(status)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	result := ""
	for i, s := range nexts {
		if i > 0 {
			result += ", "
		}
		result += string(s)
	}
	return result
}
