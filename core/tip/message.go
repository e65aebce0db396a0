package tip

import (
	"errors"

	"github.com/Snassy-icp/app-sneeddao-sub012/core/actor"
	"github.com/Snassy-icp/app-sneeddao-sub012/core/ledger"
	"github.com/Snassy-icp/app-sneeddao-sub012/core/reconciler"
	"github.com/Snassy-icp/app-sneeddao-sub012/utils/address"
)

// UserMessage turns an error from Send, or from the vote and parse paths,
// into text for the user.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var te *ledger.TransferError
	var rej *actor.RejectionError
	switch {
	case errors.Is(err, reconciler.ErrInFlight):
		return "please wait for the previous action to finish"
	case errors.Is(err, address.ErrSubaccountResolution):
		return "the subaccount could not be read"
	case errors.Is(err, address.ErrInvalidFormat):
		return "the address is not valid"
	case errors.Is(err, ErrInvalidAmount):
		return "enter an amount greater than zero"
	case errors.Is(err, ErrUnknownToken):
		return "this token is not supported"
	case errors.Is(err, ErrInsufficientBalance):
		return "your balance is too low for this amount plus the fee"
	case errors.As(err, &te):
		return te.Message()
	case errors.As(err, &rej):
		return "the request was rejected: " + rej.Variant
	case errors.Is(err, actor.ErrTransport):
		return "could not reach the network, please try again"
	default:
		return "something went wrong, please try again"
	}
}
