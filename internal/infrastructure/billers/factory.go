// Package billers assembles the per-biller adapters behind one factory.
package billers

import (
	"fmt"

	"github.com/rcarvalho-pb/biller_gateway-go/internal/domain/biller"
	"github.com/rcarvalho-pb/biller_gateway-go/internal/infrastructure/billers/epoch"
	"github.com/rcarvalho-pb/biller_gateway-go/internal/infrastructure/billers/legacy"
	"github.com/rcarvalho-pb/biller_gateway-go/internal/infrastructure/billers/netbilling"
	"github.com/rcarvalho-pb/biller_gateway-go/internal/infrastructure/billers/pumapay"
	"github.com/rcarvalho-pb/biller_gateway-go/internal/infrastructure/billers/qysso"
	"github.com/rcarvalho-pb/biller_gateway-go/internal/infrastructure/billers/rocketgate"
	"github.com/rcarvalho-pb/biller_gateway-go/internal/infrastructure/billers/transport"
	"github.com/rcarvalho-pb/biller_gateway-go/internal/resilience"
)

// Endpoints holds each biller's gateway URL.
type Endpoints struct {
	Rocketgate string
	Netbilling string
	Pumapay    string
	Qysso      string
	Epoch      string
	Legacy     string
}

// Factory hands out the adapter for a biller name. Adapters are built once
// at construction time; every one sends through a breaker keyed by
// biller+operation.
type Factory struct {
	adapters map[biller.Name]biller.Adapter
}

func NewFactory(sender transport.Sender, breaker *resilience.Breaker, endpoints Endpoints) *Factory {
	wrap := func(name biller.Name) transport.Sender {
		return &transport.BreakerSender{Inner: sender, Breaker: breaker, BillerName: name}
	}

	return &Factory{adapters: map[biller.Name]biller.Adapter{
		biller.Rocketgate: rocketgate.New(wrap(biller.Rocketgate), endpoints.Rocketgate),
		biller.Netbilling: netbilling.New(wrap(biller.Netbilling), endpoints.Netbilling),
		biller.Pumapay:    pumapay.New(wrap(biller.Pumapay), endpoints.Pumapay),
		biller.Qysso:      qysso.New(wrap(biller.Qysso), endpoints.Qysso),
		biller.Epoch:      epoch.New(wrap(biller.Epoch), endpoints.Epoch),
		biller.Legacy:     legacy.New(wrap(biller.Legacy), endpoints.Legacy),
	}}
}

func (f *Factory) Adapter(name biller.Name) (biller.Adapter, error) {
	a, ok := f.adapters[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", biller.ErrUnknownBiller, name)
	}
	return a, nil
}

// Lookuper returns the 3DS2 lookup capability when the biller has one.
func (f *Factory) Lookuper(name biller.Name) (biller.Lookuper, error) {
	a, err := f.Adapter(name)
	if err != nil {
		return nil, err
	}
	l, ok := a.(biller.Lookuper)
	if !ok {
		return nil, fmt.Errorf("%w: lookup on %q", biller.ErrOperationNotSupported, name)
	}
	return l, nil
}
