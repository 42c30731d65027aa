// Package provider holds the wire payload shapes for each model provider and
// the HTTP clients that deliver them.
package provider

import (
	"context"
	"fmt"

	"github.com/night-shade/polychat/internal/domain"
)

// Reply is a provider's answer to one chat turn, reduced to what the rest of
// the backend needs.
type Reply struct {
	Text             string
	PromptTokens     int
	CompletionTokens int
}

// Dispatcher sends a normalized payload to one provider family.
type Dispatcher interface {
	Send(ctx context.Context, variant string, payload Payload) (*Reply, error)
}

// Mux routes a resolved model spec to its family's dispatcher.
type Mux struct {
	byProvider map[string]Dispatcher
}

func NewMux() *Mux {
	return &Mux{byProvider: make(map[string]Dispatcher)}
}

func (m *Mux) Register(providerName string, d Dispatcher) {
	m.byProvider[providerName] = d
}

func (m *Mux) Send(ctx context.Context, spec domain.ModelSpec, payload Payload) (*Reply, error) {
	d, ok := m.byProvider[spec.Provider]
	if !ok {
		return nil, &domain.UnsupportedModelError{Identifier: spec.Provider}
	}
	return d.Send(ctx, spec.Variant, payload)
}

func wrongPayload(want string, got Payload) error {
	return fmt.Errorf("payload built for %q dispatched to %q", got.Provider(), want)
}
