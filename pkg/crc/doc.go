/*
Package crc provides three interchangeable implementations of the reflected CRC-32 (polynomial 0xEDB88320) used by ZIP archives.

# Implementations:
  - Bitwise processes one bit at a time. It's slow, and exists as the reference the other two are checked against.
  - Table processes one byte at a time with a 256 entry lookup table.
  - SlicingBy8 processes 8 bytes at a time with 8 chained lookup tables, falling back to the single table for any remainder.

# Finalized vs raw:

The conventional CRC-32 complements the running value before the first byte and after the last one.
Passing finalize=true reproduces that, and matches hash/crc32.ChecksumIEEE.
Passing finalize=false skips both complements and returns the raw running value.
ZipCrypto's key schedule is defined in terms of the raw value, which is why Update exists as a single byte raw step.

Either form composes across chunks: the result of one call can be passed as the seed of the next call over the following bytes, as long as finalize is the same for both.

The lookup tables are built once on first use (or by calling Init), and are read-only after that.
*/
package crc
