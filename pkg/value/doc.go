/*
Package value implements the Catalog Engine's twelve-kind value taxonomy
(spec.md §3 "Value taxonomy (PropertyType)" and §4.A).

# Architecture

	┌─────────────────────── VALUE TAXONOMY ───────────────────────┐
	│                                                                 │
	│  PropertyType (closed enum, 12 kinds)                         │
	│    INT FLT BLN STR TXT BIG DEC DAT URI UID CLB BLB            │
	│                                                                 │
	│  ┌───────────────────────────────────────────────┐           │
	│  │              Adapter.Coerce(v, to)              │           │
	│  │  number-like -> INT/FLT/BIG/DEC/BLN             │           │
	│  │  strings     -> DAT/URI/UID/BLB/BIG/DEC/BLN     │           │
	│  │  sequences   -> element-wise coercion           │           │
	│  └───────────────────────────────────────────────┘           │
	│                                                                 │
	│  ┌───────────────────────────────────────────────┐           │
	│  │          Hash(v, kind) -> uint64 (FNV-1a)       │           │
	│  │  stable per-kind canonical byte encoding        │           │
	│  └───────────────────────────────────────────────┘           │
	└─────────────────────────────────────────────────────────────┘

Every PropertyType has a three-letter wire/DB code (the table in spec.md
§3) used verbatim in the JSON codec (pkg/codec) and the SQL column-type
mapping (pkg/storage).

BigInteger uses math/big.Int (standard library — no pack example imports a
dedicated arbitrary-precision integer library). BigDecimal uses
github.com/shopspring/decimal, the same dependency AKJUS-bsc-erigon and
gardener-gardener's go.mod carry, which is scale/precision aware the way
spec.md's DEC kind requires.
*/
package value
