/*
registry.go - Calculator registration and lookup

PURPOSE:
  Provides a registry for domain packages to register the calculators they
  implement. The HTTP layer and the report renderer list and look up
  calculators by ID without importing every calculator type directly.

HOW IT WORKS:
  1. Domain packages describe each calculator with a Descriptor
  2. Domain packages register them in init()
  3. API/report use the registry to list and dispatch

USAGE:
  // In payroll/calculators.go
  func init() {
      generic.RegisterCalculator(generic.Descriptor{ID: "finiquito", Name: "Finiquito"})
  }

  // In api
  d, ok := generic.LookupCalculator("finiquito")

SEE ALSO:
  - payroll/calculators.go: registrations
  - api/handlers.go: dispatch by ID
*/
package generic

import (
	"fmt"
	"sync"
)

// =============================================================================
// CALCULATOR REGISTRY
// =============================================================================

// Descriptor identifies a calculator. ID is the stable URL segment.
type Descriptor struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

var (
	calculatorRegistry = make(map[string]Descriptor)
	calculatorOrder    []string
	registryMu         sync.RWMutex
)

// RegisterCalculator adds a calculator to the global registry.
// Registering the same ID twice replaces the descriptor but keeps its position.
func RegisterCalculator(d Descriptor) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := calculatorRegistry[d.ID]; !exists {
		calculatorOrder = append(calculatorOrder, d.ID)
	}
	calculatorRegistry[d.ID] = d
}

// LookupCalculator finds a registered calculator by ID.
func LookupCalculator(id string) (Descriptor, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	d, ok := calculatorRegistry[id]
	return d, ok
}

// MustLookupCalculator finds a registered calculator or panics.
// Use in tests or when you're certain the calculator exists.
func MustLookupCalculator(id string) Descriptor {
	d, ok := LookupCalculator(id)
	if !ok {
		panic(fmt.Sprintf("calculator not registered: %s", id))
	}
	return d
}

// ListCalculators returns all registered calculators in registration order.
func ListCalculators() []Descriptor {
	registryMu.RLock()
	defer registryMu.RUnlock()
	result := make([]Descriptor, 0, len(calculatorOrder))
	for _, id := range calculatorOrder {
		result = append(result, calculatorRegistry[id])
	}
	return result
}
