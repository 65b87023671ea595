package biller

import (
	"errors"
	"fmt"
)

// Name identifies one of the payment providers we route to.
type Name string

const (
	Rocketgate Name = "rocketgate"
	Netbilling Name = "netbilling"
	Pumapay    Name = "pumapay"
	Qysso      Name = "qysso"
	Epoch      Name = "epoch"
	Legacy     Name = "legacy"
)

var ErrUnknownBiller = errors.New("unknown biller")

func ParseName(s string) (Name, error) {
	switch Name(s) {
	case Rocketgate, Netbilling, Pumapay, Qysso, Epoch, Legacy:
		return Name(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownBiller, s)
}
