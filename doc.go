// Package capgains computes the capital-gains tax owed by each trade of a
// sequence of buys and sells of a single asset.
//
// The core functionalities include:
//   - Portfolio: a position tracked at weighted average cost. Losses are
//     carried forward as a deficit and absorbed by later gains; remaining
//     gains are taxed at a flat rate unless the sale proceeds fall at or
//     below an exemption threshold.
//   - Replay: applying a whole batch of trades to a fresh Portfolio, all or
//     nothing.
//   - Encoding: decoding trades from JSON and encoding taxes as
//     [{"tax":N}], N being truncated toward zero.
//   - Streams: converting many independent batches, one per line,
//     concurrently.
//
// This package serves as the foundational logic for the `cgt` command-line
// tool and its HTTP service.
package capgains
