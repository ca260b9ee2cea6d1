package workflows

import (
	"time"

	"go.temporal.io/sdk/workflow"
)

// awaitCustomerAction waits for one customerAction signal or for timeout to
// elapse, whichever comes first. The returned value is not validated: an
// unrecognised action is handed back to the caller as is.
func awaitCustomerAction(ctx workflow.Context, ch workflow.ReceiveChannel, timeout time.Duration) CustomerAction {
	var raw string
	if timeout <= 0 {
		if ch.ReceiveAsync(&raw) {
			return CustomerAction(raw)
		}
		return CustomerActionTimedOut
	}

	timerCtx, cancelTimer := workflow.WithCancel(ctx)
	defer cancelTimer()

	action := CustomerActionTimedOut
	selector := workflow.NewSelector(ctx)
	selector.AddReceive(ch, func(c workflow.ReceiveChannel, _ bool) {
		c.Receive(ctx, &raw)
		action = CustomerAction(raw)
	})
	selector.AddFuture(workflow.NewTimer(timerCtx, timeout), func(workflow.Future) {})
	selector.Select(ctx)

	return action
}
