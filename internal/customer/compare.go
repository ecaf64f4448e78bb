// ABOUTME: Set-comparison helpers over customer lists keyed by customer ID
// ABOUTME: Pure functions preserving the input order of the primary list

package customer

import (
	"github.com/wrkspot/customerd/internal/store"
)

// idSet builds a membership set of customer IDs.
func idSet(customers []store.Customer) map[string]struct{} {
	ids := make(map[string]struct{}, len(customers))
	for _, c := range customers {
		ids[c.CustomerID] = struct{}{}
	}
	return ids
}

// OnlyInA returns the customers present in listA but not in listB,
// matched by customer ID, in listA order.
func OnlyInA(listA, listB []store.Customer) []store.Customer {
	inB := idSet(listB)

	out := make([]store.Customer, 0, len(listA))
	for _, c := range listA {
		if _, ok := inB[c.CustomerID]; !ok {
			out = append(out, c)
		}
	}
	return out
}

// OnlyInB returns the customers present in listB but not in listA,
// matched by customer ID, in listB order.
func OnlyInB(listA, listB []store.Customer) []store.Customer {
	inA := idSet(listA)

	out := make([]store.Customer, 0, len(listB))
	for _, c := range listB {
		if _, ok := inA[c.CustomerID]; !ok {
			out = append(out, c)
		}
	}
	return out
}

// InBoth returns the customers present in both lists, matched by customer ID.
// The listA copy of each customer is returned, in listA order.
func InBoth(listA, listB []store.Customer) []store.Customer {
	inB := idSet(listB)

	out := make([]store.Customer, 0, len(listA))
	for _, c := range listA {
		if _, ok := inB[c.CustomerID]; ok {
			out = append(out, c)
		}
	}
	return out
}
