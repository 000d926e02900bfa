// Package verifier decides which addresses are verified.
//
// Two policies are available and they are not equivalent:
//
//   - membership: an address is verified iff it appears in a preferred list.
//   - marketcap: the membership set plus every address found in both
//     aggregator lists whose market capitalization meets a threshold.
//
// The market data for the second policy is requested sequentially in
// batches; any failed batch fails verification.
package verifier
