// Package batch splits large slices into fixed-size batches.
//
// History imports run batches sequentially, one transaction per batch, so a
// failure leaves every earlier batch committed. Bulk predictions run batches
// concurrently against an immutable model bundle.
package batch
