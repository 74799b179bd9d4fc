// Package backpressure provides demand-counter arithmetic for reactive
// streams style flow control.
//
// Demand is modelled as an atomic 64-bit credit owned by a subscription.
// Producers deliver values only against outstanding credit; consumers grant
// credit with request(n). The package implements the two operations every
// such counter needs:
//
//   - AddCap: saturating addition. Once the counter reaches Unbounded it is
//     sticky and never decremented, which encodes "unlimited demand".
//   - Produced: subtraction of delivered values from bounded demand.
//
// Validate implements the reactive streams rule that requested demand must
// be positive, returning ErrInvalidDemand wrapped with the offending value
// so callers can surface it through their error channel.
//
// Usage:
//
//	var requested atomic.Int64
//
//	// consumer side
//	if err := backpressure.Validate(n); err != nil {
//		sub.OnError(err)
//		return
//	}
//	backpressure.AddCap(&requested, n)
//
//	// producer side, after delivering e values
//	if r := requested.Load(); r != backpressure.Unbounded {
//		backpressure.Produced(&requested, e)
//	}
package backpressure
